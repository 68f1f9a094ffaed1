// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package validation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AleutianAI/AleutianVerify/datatypes"
)

// TestEvidenceOverlap_NoContextIsNeutral verifies a neutral pass without
// retrieved context.
func TestEvidenceOverlap_NoContextIsNeutral(t *testing.T) {
	v := NewEvidenceOverlapValidator(0.2)

	out := v.Evaluate(context.Background(), &EvaluateInput{
		Claims: []datatypes.Claim{factualClaim("Some claim about something", false)},
	})
	assert.True(t, out.Passed)
	assert.Zero(t, out.ConfidenceDelta)
}

// TestEvidenceOverlap_HighOverlapPasses verifies well-grounded answers
// gain confidence.
func TestEvidenceOverlap_HighOverlapPasses(t *testing.T) {
	v := NewEvidenceOverlapValidator(0.2)

	out := v.Evaluate(context.Background(), &EvaluateInput{
		Claims:    []datatypes.Claim{factualClaim("The bridge spans 2737 meters", true)},
		Documents: evidence("The bridge spans 2737 meters across the strait."),
	})
	assert.True(t, out.Passed)
	assert.Positive(t, out.ConfidenceDelta)
}

// TestEvidenceOverlap_LowOverlapFails verifies ungrounded answers lose
// confidence.
func TestEvidenceOverlap_LowOverlapFails(t *testing.T) {
	v := NewEvidenceOverlapValidator(0.2)

	out := v.Evaluate(context.Background(), &EvaluateInput{
		Claims:    []datatypes.Claim{factualClaim("Dragons ruled medieval Europe briefly", false)},
		Documents: evidence("The reactor produces 900 megawatts of electrical power."),
	})
	assert.False(t, out.Passed)
	assert.Negative(t, out.ConfidenceDelta)
}

// TestCitationRelevance_OutOfRangeMarkerFails verifies markers must
// index a real document.
func TestCitationRelevance_OutOfRangeMarkerFails(t *testing.T) {
	v := NewCitationRelevanceValidator(0.2)

	out := v.Evaluate(context.Background(), &EvaluateInput{
		Claims:    []datatypes.Claim{factualClaim("The bridge spans 2737 meters [5]", true)},
		Documents: evidence("The bridge spans 2737 meters across the strait."),
	})
	assert.False(t, out.Passed)
}

// TestCitationRelevance_RelevantMarkerPasses verifies a marker pointing
// at supporting evidence passes.
func TestCitationRelevance_RelevantMarkerPasses(t *testing.T) {
	v := NewCitationRelevanceValidator(0.2)

	out := v.Evaluate(context.Background(), &EvaluateInput{
		Claims:    []datatypes.Claim{factualClaim("The bridge spans 2737 meters [1]", true)},
		Documents: evidence("The bridge spans 2737 meters across the strait."),
	})
	assert.True(t, out.Passed)
}

// TestCitationRelevance_IrrelevantCitedDocFails verifies a marker
// pointing at unrelated evidence fails.
func TestCitationRelevance_IrrelevantCitedDocFails(t *testing.T) {
	v := NewCitationRelevanceValidator(0.2)

	out := v.Evaluate(context.Background(), &EvaluateInput{
		Claims: []datatypes.Claim{factualClaim("The bridge spans 2737 meters [2]", true)},
		Documents: evidence(
			"The bridge spans 2737 meters across the strait.",
			"Paris hosted the summer games twice before.",
		),
	})
	assert.False(t, out.Passed)
}

// TestCitationRelevance_ResolvesMarkersAgainstOriginalOrder verifies a
// marker keeps pointing at the document it cited after the reranker
// moves that document to a different position.
func TestCitationRelevance_ResolvesMarkersAgainstOriginalOrder(t *testing.T) {
	v := NewCitationRelevanceValidator(0.2)

	// Retrieval order was reactor=1, bridge=2; the reranker promoted
	// the bridge document to the front.
	reranked := []datatypes.CandidateDocument{
		{Text: "The bridge spans 2737 meters across the strait.", OriginalRank: 2},
		{Text: "The reactor produces 900 megawatts of electrical power.", OriginalRank: 1},
	}

	out := v.Evaluate(context.Background(), &EvaluateInput{
		Claims:    []datatypes.Claim{factualClaim("The bridge spans 2737 meters [2]", true)},
		Documents: reranked,
	})
	assert.True(t, out.Passed, "marker must follow the document, not its reranked position")

	out = v.Evaluate(context.Background(), &EvaluateInput{
		Claims:    []datatypes.Claim{factualClaim("The bridge spans 2737 meters [1]", true)},
		Documents: reranked,
	})
	assert.False(t, out.Passed, "marker citing the reactor document does not support a bridge claim")
}

// TestCitationRelevance_NoMarkersIsNeutral verifies answers without
// markers are not judged here.
func TestCitationRelevance_NoMarkersIsNeutral(t *testing.T) {
	v := NewCitationRelevanceValidator(0.2)

	out := v.Evaluate(context.Background(), &EvaluateInput{
		Claims: []datatypes.Claim{factualClaim("The bridge spans 2737 meters", false)},
	})
	assert.True(t, out.Passed)
	assert.Zero(t, out.ConfidenceDelta)
}

// TestConfidence_FailsBelowFloor verifies the support-ratio floor.
func TestConfidence_FailsBelowFloor(t *testing.T) {
	v := NewConfidenceValidator(0.5, 0.2)

	out := v.Evaluate(context.Background(), &EvaluateInput{
		Claims: []datatypes.Claim{
			factualClaim("Dragons ruled medieval Europe briefly", false),
			factualClaim("Unicorns graze beneath the northern lights", false),
		},
		Documents: evidence("The reactor produces 900 megawatts of electrical power."),
	})
	assert.False(t, out.Passed)
}

// TestConfidence_NonFactualClaimsCountAsSupported verifies reasoning and
// self claims do not need document support.
func TestConfidence_NonFactualClaimsCountAsSupported(t *testing.T) {
	v := NewConfidenceValidator(0.5, 0.2)

	out := v.Evaluate(context.Background(), &EvaluateInput{
		Claims: []datatypes.Claim{
			{Text: "Therefore the premise holds", Type: datatypes.KnowledgeReasoning},
			{Text: "I am an AI assistant", Type: datatypes.KnowledgeSelf},
		},
	})
	assert.True(t, out.Passed)
}

// TestLanguage_MismatchFails verifies a query/answer language mismatch.
func TestLanguage_MismatchFails(t *testing.T) {
	v := NewLanguageValidator()

	out := v.Evaluate(context.Background(), &EvaluateInput{
		Query:  "What is the capital of France and what is it known for?",
		Answer: "La capitale de la France est Paris, et c'est une ville connue pour les arts.",
	})
	assert.False(t, out.Passed)
}

// TestLanguage_MatchPasses verifies same-language pairs pass.
func TestLanguage_MatchPasses(t *testing.T) {
	v := NewLanguageValidator()

	out := v.Evaluate(context.Background(), &EvaluateInput{
		Query:  "What is the capital of France and what is it known for?",
		Answer: "The capital of France is Paris, and it is known for the arts.",
	})
	assert.True(t, out.Passed)
}

// TestNumericUnits_MissingNumberFails verifies numbers absent from the
// evidence fail the check.
func TestNumericUnits_MissingNumberFails(t *testing.T) {
	v := NewNumericUnitsValidator()

	out := v.Evaluate(context.Background(), &EvaluateInput{
		Answer:    "The tower is 450 meters tall and took 9 years to build.",
		Documents: evidence("The tower stands at 324 m and construction lasted two years."),
	})
	assert.False(t, out.Passed)
}

// TestNumericUnits_PresentNumbersPass verifies numbers echoed by the
// evidence pass, across decimal separator styles.
func TestNumericUnits_PresentNumbersPass(t *testing.T) {
	v := NewNumericUnitsValidator()

	out := v.Evaluate(context.Background(), &EvaluateInput{
		Answer:    "Inflation reached 3.5 % last year.",
		Documents: evidence("Official figures put inflation at 3,5 % for the year."),
	})
	assert.True(t, out.Passed)
}

// TestNumericUnits_NoNumericClaimsIsNeutral verifies prose without
// quantities is not judged.
func TestNumericUnits_NoNumericClaimsIsNeutral(t *testing.T) {
	v := NewNumericUnitsValidator()

	out := v.Evaluate(context.Background(), &EvaluateInput{
		Answer:    "The bridge is painted international orange.",
		Documents: evidence("The bridge color is international orange."),
	})
	assert.True(t, out.Passed)
	assert.Zero(t, out.ConfidenceDelta)
}
