// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// OPTIONAL-tier validators: qualitative checks that are safely
// skippable under time pressure.

package validation

import (
	"context"
	"fmt"
	"regexp"

	"github.com/AleutianAI/AleutianVerify/datatypes"
)

// Package-level compiled patterns for the qualitative checks.
var (
	philosophicalQuestionPattern = regexp.MustCompile(
		`(?i)\b(meaning of|why do we|what is the purpose|free will|consciousness|morality|ethics|is it (right|wrong)|should (we|one|humans))\b`)

	perspectivePattern = regexp.MustCompile(
		`(?i)\b(on the other hand|some argue|others (hold|believe|argue)|however|from another perspective|it depends|one view|alternatively|uncertain)\b`)

	humanIdentityPattern = regexp.MustCompile(
		`(?i)\b(as a human|when i was a child|my (childhood|family|body)|i physically|i personally (ate|visited|met)|i have feelings)\b`)

	egoPattern = regexp.MustCompile(
		`(?i)\b(i am (the best|always right|superior|smarter)|my answer is (definitely|certainly) (right|correct|superior)|(just )?trust me|only i can)\b`)

	religiousAdvocacyPattern = regexp.MustCompile(
		`(?i)\b(the (one|only) true (religion|faith|god)|you (should|must) convert|all other (religions|faiths) are (false|wrong))\b`)
)

// =============================================================================
// PhilosophicalDepth
// =============================================================================

// PhilosophicalDepthValidator checks that answers to philosophical
// questions acknowledge more than one perspective.
type PhilosophicalDepthValidator struct{}

// NewPhilosophicalDepthValidator creates the depth check.
func NewPhilosophicalDepthValidator() *PhilosophicalDepthValidator {
	return &PhilosophicalDepthValidator{}
}

// Name implements Validator.
func (v *PhilosophicalDepthValidator) Name() string { return NamePhilosophicalDepth }

// Evaluate implements Validator.
func (v *PhilosophicalDepthValidator) Evaluate(ctx context.Context, in *EvaluateInput) datatypes.ValidationOutcome {
	if !philosophicalQuestionPattern.MatchString(in.Query) {
		return pass(NamePhilosophicalDepth, "question is not philosophical", 0)
	}
	if perspectivePattern.MatchString(in.Answer) {
		return pass(NamePhilosophicalDepth, "answer acknowledges multiple perspectives", 0.05)
	}
	return fail(NamePhilosophicalDepth,
		"philosophical question answered without acknowledging other perspectives", -0.1)
}

// =============================================================================
// IdentityCheck
// =============================================================================

// IdentityCheckValidator fails when the answer claims human experience
// the assistant cannot have.
type IdentityCheckValidator struct{}

// NewIdentityCheckValidator creates the identity consistency check.
func NewIdentityCheckValidator() *IdentityCheckValidator {
	return &IdentityCheckValidator{}
}

// Name implements Validator.
func (v *IdentityCheckValidator) Name() string { return NameIdentityCheck }

// Evaluate implements Validator.
func (v *IdentityCheckValidator) Evaluate(ctx context.Context, in *EvaluateInput) datatypes.ValidationOutcome {
	if m := humanIdentityPattern.FindString(in.Answer); m != "" {
		return fail(NameIdentityCheck,
			fmt.Sprintf("answer claims human experience: %q", m), -0.2)
	}
	return pass(NameIdentityCheck, "identity consistent", 0.02)
}

// =============================================================================
// EgoNeutrality
// =============================================================================

// EgoNeutralityValidator fails on self-aggrandizing phrasing.
type EgoNeutralityValidator struct{}

// NewEgoNeutralityValidator creates the ego neutrality check.
func NewEgoNeutralityValidator() *EgoNeutralityValidator {
	return &EgoNeutralityValidator{}
}

// Name implements Validator.
func (v *EgoNeutralityValidator) Name() string { return NameEgoNeutrality }

// Evaluate implements Validator.
func (v *EgoNeutralityValidator) Evaluate(ctx context.Context, in *EvaluateInput) datatypes.ValidationOutcome {
	if m := egoPattern.FindString(in.Answer); m != "" {
		return fail(NameEgoNeutrality,
			fmt.Sprintf("self-aggrandizing phrasing: %q", m), -0.1)
	}
	return pass(NameEgoNeutrality, "tone neutral", 0.02)
}

// =============================================================================
// ReligiousChoice
// =============================================================================

// ReligiousChoiceValidator fails when the answer advocates a single
// religion as the only truth rather than presenting belief as a choice.
type ReligiousChoiceValidator struct{}

// NewReligiousChoiceValidator creates the religious neutrality check.
func NewReligiousChoiceValidator() *ReligiousChoiceValidator {
	return &ReligiousChoiceValidator{}
}

// Name implements Validator.
func (v *ReligiousChoiceValidator) Name() string { return NameReligiousChoice }

// Evaluate implements Validator.
func (v *ReligiousChoiceValidator) Evaluate(ctx context.Context, in *EvaluateInput) datatypes.ValidationOutcome {
	if m := religiousAdvocacyPattern.FindString(in.Answer); m != "" {
		return fail(NameReligiousChoice,
			fmt.Sprintf("religious advocacy: %q", m), -0.2)
	}
	return pass(NameReligiousChoice, "religiously neutral", 0.02)
}

// =============================================================================
// SourceConsensus
// =============================================================================

// SourceConsensusValidator rewards factual claims supported by more
// than one retrieved document.
type SourceConsensusValidator struct {
	threshold float64
}

// NewSourceConsensusValidator creates the consensus check. threshold is
// the per-document support threshold shared with the hallucination
// check.
func NewSourceConsensusValidator(threshold float64) *SourceConsensusValidator {
	return &SourceConsensusValidator{threshold: threshold}
}

// Name implements Validator.
func (v *SourceConsensusValidator) Name() string { return NameSourceConsensus }

// Evaluate implements Validator.
func (v *SourceConsensusValidator) Evaluate(ctx context.Context, in *EvaluateInput) datatypes.ValidationOutcome {
	if len(in.Documents) < 2 {
		return pass(NameSourceConsensus, "fewer than two documents, consensus not applicable", 0)
	}

	factual := 0
	corroborated := 0
	for _, c := range in.Claims {
		if c.Type != datatypes.KnowledgeFactualClaim {
			continue
		}
		factual++
		if supportingDocs(c.Text, in.Documents, v.threshold) >= 2 {
			corroborated++
		}
	}
	if factual == 0 {
		return pass(NameSourceConsensus, "no factual claims", 0)
	}

	ratio := float64(corroborated) / float64(factual)
	if corroborated == 0 {
		return fail(NameSourceConsensus,
			"no factual claim is corroborated by a second source", -0.1)
	}
	return pass(NameSourceConsensus,
		fmt.Sprintf("%.0f%% of factual claims corroborated by multiple sources", ratio*100), ratio*0.1)
}
