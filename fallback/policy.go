// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package fallback decides when a generated answer must be replaced
// with a safe refusal instead of being shown to the user.
package fallback

import (
	"github.com/AleutianAI/AleutianVerify/config"
	"github.com/AleutianAI/AleutianVerify/datatypes"
	"github.com/AleutianAI/AleutianVerify/pkg/langdetect"
)

// Trigger reasons reported in FallbackDecision.Reason.
const (
	ReasonValidationFailed  = "validation_failed"
	ReasonLowConfidence     = "low_confidence"
	ReasonNoEvidence        = "factual_claim_without_context"
	ReasonValidatorInternal = "validator_internal_error"
)

// Refusal templates keyed by language code. The substitution is
// all-or-nothing: either the original answer survives untouched or the
// whole answer is replaced with the template. Partial edits would
// produce text nobody authored.
var insufficientEvidenceTemplates = map[string]string{
	"en": "I don't have enough reliable information to answer that confidently. Could you rephrase the question or provide more context?",
	"es": "No tengo suficiente información fiable para responder con confianza. ¿Podría reformular la pregunta o dar más contexto?",
	"fr": "Je ne dispose pas d'informations suffisamment fiables pour répondre avec confiance. Pourriez-vous reformuler la question ou fournir plus de contexte ?",
	"de": "Ich habe nicht genügend verlässliche Informationen, um das sicher zu beantworten. Könnten Sie die Frage umformulieren oder mehr Kontext geben?",
	"vi": "Tôi không có đủ thông tin đáng tin cậy để trả lời một cách chắc chắn. Bạn có thể diễn đạt lại câu hỏi hoặc cung cấp thêm ngữ cảnh không?",
}

// Policy decides whether the answer is substituted with a refusal.
//
// Thread Safety: safe for concurrent use after construction.
type Policy struct {
	cfg *config.Config
}

// NewPolicy creates a fallback policy over the shared config.
func NewPolicy(cfg *config.Config) *Policy {
	return &Policy{cfg: cfg}
}

// Decide evaluates the aggregate verdict and returns the substitution
// decision.
//
// # Description
//
// The fallback triggers when any of these hold:
//
//   - the aggregate verdict failed (including any CRITICAL failure),
//   - the confidence score fell below the configured floor,
//   - the answer makes factual claims but no retrieved context exists
//     to ground them.
//
// When triggered, Response carries the refusal template in the given
// language (falling back to English for unsupported codes) and the
// caller must discard the original answer entirely.
//
// # Inputs
//
//   - result: The aggregate verdict from validation.
//   - claims: The extracted answer claims.
//   - hasContext: Whether any retrieved document had text.
//   - language: Detected query language code.
//
// # Outputs
//
//   - datatypes.FallbackDecision: Triggered flag, reason, and template.
func (p *Policy) Decide(result datatypes.AggregateResult, claims []datatypes.Claim, hasContext bool, language string) datatypes.FallbackDecision {
	reason := ""
	switch {
	case hasFactualClaim(claims) && !hasContext:
		reason = ReasonNoEvidence
	case !result.Passed:
		// The aggregator fails the verdict both for critical failures
		// and for scores below the floor; name the actual cause.
		switch {
		case hasValidatorError(result.Outcomes):
			reason = ReasonValidatorInternal
		case !hasCriticalFailure(result.Outcomes) && result.Confidence < p.cfg.ConfidenceFloor:
			reason = ReasonLowConfidence
		default:
			reason = ReasonValidationFailed
		}
	case result.Confidence < p.cfg.ConfidenceFloor:
		reason = ReasonLowConfidence
	}

	if reason == "" {
		return datatypes.FallbackDecision{Language: language}
	}

	if !langdetect.Supported(language) {
		language = langdetect.English
	}
	return datatypes.FallbackDecision{
		Triggered: true,
		Reason:    reason,
		Response:  insufficientEvidenceTemplates[language],
		Language:  language,
	}
}

func hasFactualClaim(claims []datatypes.Claim) bool {
	for _, c := range claims {
		if c.Type == datatypes.KnowledgeFactualClaim {
			return true
		}
	}
	return false
}

func hasValidatorError(outcomes []datatypes.ValidationOutcome) bool {
	for _, o := range outcomes {
		if !o.Passed && o.Reason == datatypes.ReasonValidatorError {
			return true
		}
	}
	return false
}

func hasCriticalFailure(outcomes []datatypes.ValidationOutcome) bool {
	for _, o := range outcomes {
		if o.Tier == datatypes.TierCritical && !o.Passed {
			return true
		}
	}
	return false
}
