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

// TestPhilosophicalDepth_OneSidedAnswerFails verifies philosophical
// questions need more than one perspective.
func TestPhilosophicalDepth_OneSidedAnswerFails(t *testing.T) {
	v := NewPhilosophicalDepthValidator()

	out := v.Evaluate(context.Background(), &EvaluateInput{
		Query:  "Do humans have free will?",
		Answer: "Free will is an illusion and the matter is settled.",
	})
	assert.False(t, out.Passed)

	out = v.Evaluate(context.Background(), &EvaluateInput{
		Query:  "Do humans have free will?",
		Answer: "Some argue free will is an illusion; others hold that agency is real. It depends on the framing.",
	})
	assert.True(t, out.Passed)
}

// TestPhilosophicalDepth_NonPhilosophicalIsNeutral verifies ordinary
// questions skip the check.
func TestPhilosophicalDepth_NonPhilosophicalIsNeutral(t *testing.T) {
	v := NewPhilosophicalDepthValidator()

	out := v.Evaluate(context.Background(), &EvaluateInput{
		Query:  "What is the boiling point of water?",
		Answer: "Water boils at 100 degrees Celsius.",
	})
	assert.True(t, out.Passed)
	assert.Zero(t, out.ConfidenceDelta)
}

// TestIdentityCheck_HumanExperienceFails verifies claims of human
// experience are flagged.
func TestIdentityCheck_HumanExperienceFails(t *testing.T) {
	v := NewIdentityCheckValidator()

	out := v.Evaluate(context.Background(), &EvaluateInput{
		Answer: "When I was a child I visited that museum often.",
	})
	assert.False(t, out.Passed)

	out = v.Evaluate(context.Background(), &EvaluateInput{
		Answer: "The museum opened in 1964 and remains popular. [1]",
	})
	assert.True(t, out.Passed)
}

// TestEgoNeutrality_SelfAggrandizingFails verifies boastful phrasing is
// flagged.
func TestEgoNeutrality_SelfAggrandizingFails(t *testing.T) {
	v := NewEgoNeutralityValidator()

	out := v.Evaluate(context.Background(), &EvaluateInput{
		Answer: "Trust me, my answer is definitely right about this.",
	})
	assert.False(t, out.Passed)

	out = v.Evaluate(context.Background(), &EvaluateInput{
		Answer: "Based on the cited sources, the treaty was signed in 1815. [1]",
	})
	assert.True(t, out.Passed)
}

// TestReligiousChoice_AdvocacyFails verifies single-truth religious
// advocacy is flagged while neutral description passes.
func TestReligiousChoice_AdvocacyFails(t *testing.T) {
	v := NewReligiousChoiceValidator()

	out := v.Evaluate(context.Background(), &EvaluateInput{
		Answer: "You should convert, because this is the one true religion.",
	})
	assert.False(t, out.Passed)

	out = v.Evaluate(context.Background(), &EvaluateInput{
		Answer: "Major world religions differ in their views on the afterlife.",
	})
	assert.True(t, out.Passed)
}

// TestSourceConsensus_SingleSourceFails verifies uncorroborated factual
// claims are flagged when multiple documents exist.
func TestSourceConsensus_SingleSourceFails(t *testing.T) {
	v := NewSourceConsensusValidator(0.2)

	out := v.Evaluate(context.Background(), &EvaluateInput{
		Claims: []datatypes.Claim{factualClaim("The bridge spans 2737 meters", true)},
		Documents: evidence(
			"The bridge spans 2737 meters across the strait.",
			"Paris hosted the summer games twice before.",
		),
	})
	assert.False(t, out.Passed)
}

// TestSourceConsensus_CorroboratedPasses verifies multi-source support
// gains confidence.
func TestSourceConsensus_CorroboratedPasses(t *testing.T) {
	v := NewSourceConsensusValidator(0.2)

	out := v.Evaluate(context.Background(), &EvaluateInput{
		Claims: []datatypes.Claim{factualClaim("The bridge spans 2737 meters", true)},
		Documents: evidence(
			"The bridge spans 2737 meters across the strait.",
			"At 2737 meters, the bridge spans the full channel.",
		),
	})
	assert.True(t, out.Passed)
	assert.Positive(t, out.ConfidenceDelta)
}

// TestSourceConsensus_FewDocumentsIsNeutral verifies the check needs at
// least two documents.
func TestSourceConsensus_FewDocumentsIsNeutral(t *testing.T) {
	v := NewSourceConsensusValidator(0.2)

	out := v.Evaluate(context.Background(), &EvaluateInput{
		Claims:    []datatypes.Claim{factualClaim("The bridge spans 2737 meters", true)},
		Documents: evidence("The bridge spans 2737 meters across the strait."),
	})
	assert.True(t, out.Passed)
	assert.Zero(t, out.ConfidenceDelta)
}
