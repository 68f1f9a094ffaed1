// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// CRITICAL-tier validators. A failure in any of these forces the
// aggregate verdict to fail, and an internal error in one of them is
// treated the same way (fail-closed).

package validation

import (
	"context"
	"fmt"
	"regexp"

	"github.com/AleutianAI/AleutianVerify/datatypes"
)

// =============================================================================
// CitationRequired
// =============================================================================

// CitationRequiredValidator fails when any FACTUAL_CLAIM lacks an
// attached citation marker.
//
// Thread Safety: safe for concurrent use (stateless).
type CitationRequiredValidator struct{}

// NewCitationRequiredValidator creates the citation presence check.
func NewCitationRequiredValidator() *CitationRequiredValidator {
	return &CitationRequiredValidator{}
}

// Name implements Validator.
func (v *CitationRequiredValidator) Name() string { return NameCitationRequired }

// Evaluate implements Validator.
func (v *CitationRequiredValidator) Evaluate(ctx context.Context, in *EvaluateInput) datatypes.ValidationOutcome {
	uncited := 0
	for _, c := range in.Claims {
		if c.Type == datatypes.KnowledgeFactualClaim && !c.HasCitation {
			uncited++
		}
	}
	if uncited > 0 {
		return fail(NameCitationRequired,
			fmt.Sprintf("%d factual claim(s) missing citation markers", uncited), -0.3)
	}
	return pass(NameCitationRequired, "all factual claims cited", 0.05)
}

// =============================================================================
// FactualHallucination
// =============================================================================

// FactualHallucinationValidator fails when a factual claim's content is
// unsupported by every retrieved document.
//
// Thread Safety: safe for concurrent use after construction.
type FactualHallucinationValidator struct {
	threshold float64
}

// NewFactualHallucinationValidator creates the evidence-support check.
// threshold is the minimum content-word overlap for a document to count
// as supporting a claim.
func NewFactualHallucinationValidator(threshold float64) *FactualHallucinationValidator {
	return &FactualHallucinationValidator{threshold: threshold}
}

// Name implements Validator.
func (v *FactualHallucinationValidator) Name() string { return NameFactualHallucination }

// Evaluate implements Validator.
func (v *FactualHallucinationValidator) Evaluate(ctx context.Context, in *EvaluateInput) datatypes.ValidationOutcome {
	factual := 0
	unsupported := 0
	for _, c := range in.Claims {
		if c.Type != datatypes.KnowledgeFactualClaim {
			continue
		}
		factual++
		if score, _ := maxSupport(c.Text, in.Documents); score < v.threshold {
			unsupported++
		}
	}

	if factual == 0 {
		return pass(NameFactualHallucination, "no factual claims to verify", 0)
	}
	if unsupported > 0 {
		return fail(NameFactualHallucination,
			fmt.Sprintf("%d of %d factual claim(s) unsupported by retrieved documents", unsupported, factual), -0.4)
	}
	return pass(NameFactualHallucination,
		fmt.Sprintf("all %d factual claim(s) supported", factual), 0.1)
}

// =============================================================================
// Ethics
// =============================================================================

// Package-level compiled patterns for safety-policy violations.
var ethicsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(how to (build|make|assemble)|instructions for) (a |an )?(bomb|explosive|weapon|nerve agent|bioweapon)\b`),
	regexp.MustCompile(`(?i)\byou (should|deserve to) (hurt|harm|kill) (yourself|himself|herself|themselves)\b`),
	regexp.MustCompile(`(?i)\b(all|every) (member of|person from) .{1,40} (deserves?|should) (to die|be eliminated)\b`),
	regexp.MustCompile(`(?i)\bhere is how to (steal|hack into|defraud|poison)\b`),
}

// EthicsAdapter fails on safety- or ethics-policy violations in the
// answer text.
//
// Thread Safety: safe for concurrent use (stateless after construction).
type EthicsAdapter struct{}

// NewEthicsAdapter creates the safety policy check.
func NewEthicsAdapter() *EthicsAdapter {
	return &EthicsAdapter{}
}

// Name implements Validator.
func (v *EthicsAdapter) Name() string { return NameEthics }

// Evaluate implements Validator.
func (v *EthicsAdapter) Evaluate(ctx context.Context, in *EvaluateInput) datatypes.ValidationOutcome {
	for _, p := range ethicsPatterns {
		if loc := p.FindString(in.Answer); loc != "" {
			return fail(NameEthics, "answer violates safety policy", -0.5)
		}
	}
	return pass(NameEthics, "no safety violations detected", 0.05)
}
