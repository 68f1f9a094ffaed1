// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// IMPORTANT-tier validators: scored and threshold checks that degrade
// the confidence score but do not individually veto the answer.

package validation

import (
	"context"
	"fmt"
	"regexp"

	"github.com/AleutianAI/AleutianVerify/datatypes"
	"github.com/AleutianAI/AleutianVerify/pkg/langdetect"
)

// =============================================================================
// EvidenceOverlap
// =============================================================================

// EvidenceOverlapValidator scores the mean content-word overlap between
// answer claims and their best supporting documents.
type EvidenceOverlapValidator struct {
	threshold float64
}

// NewEvidenceOverlapValidator creates the overlap scorer. threshold is
// the minimum mean support below which the check fails.
func NewEvidenceOverlapValidator(threshold float64) *EvidenceOverlapValidator {
	return &EvidenceOverlapValidator{threshold: threshold}
}

// Name implements Validator.
func (v *EvidenceOverlapValidator) Name() string { return NameEvidenceOverlap }

// Evaluate implements Validator.
func (v *EvidenceOverlapValidator) Evaluate(ctx context.Context, in *EvaluateInput) datatypes.ValidationOutcome {
	if !in.HasContext() {
		return pass(NameEvidenceOverlap, "no retrieved context to compare", 0)
	}

	total := 0.0
	n := 0
	for _, c := range in.Claims {
		score, _ := maxSupport(c.Text, in.Documents)
		total += score
		n++
	}
	if n == 0 {
		return pass(NameEvidenceOverlap, "no claims to compare", 0)
	}

	mean := total / float64(n)
	// Delta scales with distance from the threshold, capped at ±0.2.
	delta := (mean - v.threshold) * 0.5
	if delta > 0.2 {
		delta = 0.2
	}
	if delta < -0.2 {
		delta = -0.2
	}

	if mean < v.threshold {
		return fail(NameEvidenceOverlap,
			fmt.Sprintf("mean evidence overlap %.2f below threshold %.2f", mean, v.threshold), delta)
	}
	return pass(NameEvidenceOverlap,
		fmt.Sprintf("mean evidence overlap %.2f", mean), delta)
}

// =============================================================================
// CitationRelevance
// =============================================================================

// CitationRelevanceValidator checks that each [n] marker points at a
// real document and that the cited document actually supports the claim
// carrying the marker. Markers index the original retrieval order, not
// the reranked order: reranking is an optimization and must never
// invalidate a correct citation.
type CitationRelevanceValidator struct {
	threshold float64
}

// NewCitationRelevanceValidator creates the marker relevance check.
func NewCitationRelevanceValidator(threshold float64) *CitationRelevanceValidator {
	return &CitationRelevanceValidator{threshold: threshold}
}

// Name implements Validator.
func (v *CitationRelevanceValidator) Name() string { return NameCitationRelevance }

// Evaluate implements Validator.
func (v *CitationRelevanceValidator) Evaluate(ctx context.Context, in *EvaluateInput) datatypes.ValidationOutcome {
	checked := 0
	bad := 0
	for _, c := range in.Claims {
		if !c.HasCitation {
			continue
		}
		for _, idx := range citationIndices(c.Text) {
			checked++
			// Markers are 1-based into the original retrieval order.
			doc, ok := documentByRank(in.Documents, idx)
			if !ok {
				bad++
				continue
			}
			if doc.Text == "" || supportScore(c.Text, doc.Text) < v.threshold {
				bad++
			}
		}
	}

	if checked == 0 {
		return pass(NameCitationRelevance, "no citation markers to verify", 0)
	}
	if bad > 0 {
		return fail(NameCitationRelevance,
			fmt.Sprintf("%d of %d citation marker(s) irrelevant or out of range", bad, checked), -0.2)
	}
	return pass(NameCitationRelevance,
		fmt.Sprintf("all %d citation marker(s) relevant", checked), 0.05)
}

// =============================================================================
// Confidence
// =============================================================================

// ConfidenceValidator computes a provisional support ratio and fails
// when it falls below the configured floor.
type ConfidenceValidator struct {
	floor     float64
	threshold float64
}

// NewConfidenceValidator creates the confidence floor check.
func NewConfidenceValidator(floor, supportThreshold float64) *ConfidenceValidator {
	return &ConfidenceValidator{floor: floor, threshold: supportThreshold}
}

// Name implements Validator.
func (v *ConfidenceValidator) Name() string { return NameConfidence }

// Evaluate implements Validator.
func (v *ConfidenceValidator) Evaluate(ctx context.Context, in *EvaluateInput) datatypes.ValidationOutcome {
	if len(in.Claims) == 0 {
		return pass(NameConfidence, "no claims to score", 0)
	}

	supported := 0
	for _, c := range in.Claims {
		switch c.Type {
		case datatypes.KnowledgeFactualClaim:
			if score, _ := maxSupport(c.Text, in.Documents); score >= v.threshold {
				supported++
			}
		default:
			// Non-factual claims carry their own justification.
			supported++
		}
	}

	ratio := float64(supported) / float64(len(in.Claims))
	if ratio < v.floor {
		return fail(NameConfidence,
			fmt.Sprintf("support ratio %.2f below floor %.2f", ratio, v.floor), -0.15)
	}
	return pass(NameConfidence, fmt.Sprintf("support ratio %.2f", ratio), 0.05)
}

// =============================================================================
// Language
// =============================================================================

// LanguageValidator fails when the answer language does not match the
// query language.
type LanguageValidator struct{}

// NewLanguageValidator creates the language consistency check.
func NewLanguageValidator() *LanguageValidator {
	return &LanguageValidator{}
}

// Name implements Validator.
func (v *LanguageValidator) Name() string { return NameLanguage }

// Evaluate implements Validator.
func (v *LanguageValidator) Evaluate(ctx context.Context, in *EvaluateInput) datatypes.ValidationOutcome {
	queryLang := in.Language
	if queryLang == "" {
		queryLang = langdetect.Detect(in.Query)
	}
	answerLang := langdetect.Detect(in.Answer)

	if queryLang != answerLang {
		return fail(NameLanguage,
			fmt.Sprintf("answer language %q does not match query language %q", answerLang, queryLang), -0.2)
	}
	return pass(NameLanguage, fmt.Sprintf("language consistent (%s)", answerLang), 0.05)
}

// =============================================================================
// NumericUnits
// =============================================================================

// numericClaimPattern extracts numbers with trailing units from answer
// text. Bare numbers are ignored; a unit anchors the claim to something
// checkable.
var numericClaimPattern = regexp.MustCompile(
	`(?i)\b(\d+(?:[.,]\d+)?)\s*(%|°c|°f|km|km/h|kg|mg|g|m|cm|mm|kb|mb|gb|tb|ms|million|billion|years?|months?|weeks?|days?|hours?|minutes?|seconds?|percent)\b`)

// NumericUnitsValidator checks that numeric quantities stated in the
// answer appear in at least one retrieved document.
type NumericUnitsValidator struct{}

// NewNumericUnitsValidator creates the numeric consistency check.
func NewNumericUnitsValidator() *NumericUnitsValidator {
	return &NumericUnitsValidator{}
}

// Name implements Validator.
func (v *NumericUnitsValidator) Name() string { return NameNumericUnits }

// Evaluate implements Validator.
func (v *NumericUnitsValidator) Evaluate(ctx context.Context, in *EvaluateInput) datatypes.ValidationOutcome {
	matches := numericClaimPattern.FindAllStringSubmatch(in.Answer, -1)
	if len(matches) == 0 {
		return pass(NameNumericUnits, "no numeric claims", 0)
	}
	if !in.HasContext() {
		return pass(NameNumericUnits, "no retrieved context to compare numerics against", 0)
	}

	missing := 0
	for _, m := range matches {
		number := m[1]
		found := false
		for _, d := range in.Documents {
			if d.Text != "" && containsNumber(d.Text, number) {
				found = true
				break
			}
		}
		if !found {
			missing++
		}
	}

	if missing > 0 {
		return fail(NameNumericUnits,
			fmt.Sprintf("%d of %d numeric claim(s) not found in retrieved documents", missing, len(matches)), -0.25)
	}
	return pass(NameNumericUnits,
		fmt.Sprintf("all %d numeric claim(s) present in evidence", len(matches)), 0.05)
}

// containsNumber matches a number as its own token, tolerating comma
// and period decimal separators.
func containsNumber(text, number string) bool {
	normalized := regexp.QuoteMeta(number)
	// 3,5 and 3.5 are the same quantity to this check.
	normalized = regexp.MustCompile(`\\[.,]`).ReplaceAllString(normalized, `[.,]`)
	re, err := regexp.Compile(`\b` + normalized + `\b`)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}
