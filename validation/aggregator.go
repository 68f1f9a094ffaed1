// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package validation

import (
	"github.com/AleutianAI/AleutianVerify/config"
	"github.com/AleutianAI/AleutianVerify/datatypes"
)

// Tier weights applied to each outcome's confidence delta.
const (
	weightCritical  = 1.0
	weightImportant = 0.75
	weightOptional  = 0.25
)

// Aggregator folds per-validator outcomes into a single confidence
// score and pass/fail verdict.
//
// Thread Safety: safe for concurrent use after construction.
type Aggregator struct {
	cfg *config.Config
}

// NewAggregator creates an aggregator over the shared config.
func NewAggregator(cfg *config.Config) *Aggregator {
	return &Aggregator{cfg: cfg}
}

// Aggregate computes the final verdict.
//
// # Description
//
// Confidence starts at the configured base and accumulates each
// outcome's delta scaled by its tier weight (CRITICAL 1.0, IMPORTANT
// 0.75, OPTIONAL 0.25), then clamps to [0,1]. Validators that were
// skipped by the plan simply have no outcome and contribute nothing.
//
// Any failed CRITICAL outcome forces Passed to false regardless of the
// numeric score. A failed IMPORTANT or OPTIONAL outcome only drags the
// score; the verdict stays pass unless the score falls below the
// configured floor.
//
// # Inputs
//
//   - outcomes: All outcomes produced by the runner, in any order.
//
// # Outputs
//
//   - datatypes.AggregateResult: Confidence, verdict, and the outcomes
//     echoed back for reporting.
func (a *Aggregator) Aggregate(outcomes []datatypes.ValidationOutcome) datatypes.AggregateResult {
	confidence := a.cfg.BaseConfidence
	criticalFailed := false

	for _, o := range outcomes {
		confidence += o.ConfidenceDelta * tierWeight(o.Tier)
		if o.Tier == datatypes.TierCritical && !o.Passed {
			criticalFailed = true
		}
	}

	confidence = clamp01(confidence)

	passed := confidence >= a.cfg.ConfidenceFloor
	if criticalFailed {
		passed = false
	}

	return datatypes.AggregateResult{
		Confidence: confidence,
		Passed:     passed,
		Outcomes:   outcomes,
	}
}

func tierWeight(t datatypes.Tier) float64 {
	switch t {
	case datatypes.TierCritical:
		return weightCritical
	case datatypes.TierImportant:
		return weightImportant
	default:
		return weightOptional
	}
}
