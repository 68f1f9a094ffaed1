// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AleutianAI/AleutianVerify/config"
	"github.com/AleutianAI/AleutianVerify/datatypes"
)

func outcome(tier datatypes.Tier, passed bool, delta float64) datatypes.ValidationOutcome {
	return datatypes.ValidationOutcome{
		Validator:       "test",
		Tier:            tier,
		Passed:          passed,
		ConfidenceDelta: delta,
	}
}

// TestAggregate_CriticalFailureForcesFail verifies any failed CRITICAL
// outcome fails the verdict even when the score stays high.
func TestAggregate_CriticalFailureForcesFail(t *testing.T) {
	a := NewAggregator(config.DefaultConfig())

	result := a.Aggregate([]datatypes.ValidationOutcome{
		outcome(datatypes.TierCritical, false, -0.01),
		outcome(datatypes.TierImportant, true, 0.2),
		outcome(datatypes.TierOptional, true, 0.1),
	})

	assert.False(t, result.Passed)
	assert.Greater(t, result.Confidence, 0.5, "score alone would have passed")
}

// TestAggregate_TierWeightsApplied verifies deltas scale by tier weight.
func TestAggregate_TierWeightsApplied(t *testing.T) {
	cfg := config.DefaultConfig()
	a := NewAggregator(cfg)

	result := a.Aggregate([]datatypes.ValidationOutcome{
		outcome(datatypes.TierCritical, true, 0.1),
		outcome(datatypes.TierImportant, true, 0.1),
		outcome(datatypes.TierOptional, true, 0.1),
	})

	want := cfg.BaseConfidence + 0.1*1.0 + 0.1*0.75 + 0.1*0.25
	assert.InDelta(t, want, result.Confidence, 1e-9)
	assert.True(t, result.Passed)
}

// TestAggregate_ClampsToUnitInterval verifies the score never leaves
// [0,1].
func TestAggregate_ClampsToUnitInterval(t *testing.T) {
	a := NewAggregator(config.DefaultConfig())

	high := a.Aggregate([]datatypes.ValidationOutcome{
		outcome(datatypes.TierCritical, true, 0.9),
		outcome(datatypes.TierCritical, true, 0.9),
	})
	assert.Equal(t, 1.0, high.Confidence)

	low := a.Aggregate([]datatypes.ValidationOutcome{
		outcome(datatypes.TierCritical, false, -0.9),
		outcome(datatypes.TierCritical, false, -0.9),
	})
	assert.Equal(t, 0.0, low.Confidence)
	assert.False(t, low.Passed)
}

// TestAggregate_SkippedValidatorsContributeNothing verifies absent
// outcomes leave the base score untouched.
func TestAggregate_SkippedValidatorsContributeNothing(t *testing.T) {
	cfg := config.DefaultConfig()
	a := NewAggregator(cfg)

	result := a.Aggregate(nil)

	assert.InDelta(t, cfg.BaseConfidence, result.Confidence, 1e-9)
	assert.True(t, result.Passed, "base confidence is above the floor")
}

// TestAggregate_BelowFloorFailsWithoutCriticalFailure verifies the floor
// applies to non-critical degradation too.
func TestAggregate_BelowFloorFailsWithoutCriticalFailure(t *testing.T) {
	a := NewAggregator(config.DefaultConfig())

	result := a.Aggregate([]datatypes.ValidationOutcome{
		outcome(datatypes.TierImportant, false, -0.2),
		outcome(datatypes.TierImportant, false, -0.2),
	})

	// 0.6 - 0.2*0.75 - 0.2*0.75 = 0.3 < 0.5
	assert.False(t, result.Passed)
	assert.InDelta(t, 0.3, result.Confidence, 1e-9)
}
