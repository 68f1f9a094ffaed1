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
	"time"

	"github.com/AleutianAI/AleutianVerify/config"
	"github.com/AleutianAI/AleutianVerify/datatypes"
)

// Planner decides which validators run under a time budget.
//
// Planning is a static pre-flight estimate: cost is a flat per-validator
// constant (real cost is only known after execution), the plan never
// changes mid-execution, and the budget is advisory. If CRITICAL
// validators alone would exceed the budget they still run to completion;
// correctness is not negotiable.
//
// Thread Safety: safe for concurrent use after construction.
type Planner struct {
	registry *Registry
	cfg      *config.Config
}

// NewPlanner creates a planner over the tier registry and config.
func NewPlanner(registry *Registry, cfg *config.Config) *Planner {
	return &Planner{registry: registry, cfg: cfg}
}

// ShouldRun reports whether the named validator runs given the time
// remaining. hasBudget=false means no budget was specified, which admits
// every tier.
//
//   - CRITICAL: always true.
//   - IMPORTANT: true when unbudgeted or timeRemaining ≥ the important
//     floor (default 500ms).
//   - OPTIONAL: true when unbudgeted or timeRemaining ≥ the optional
//     floor (default 1s).
func (p *Planner) ShouldRun(name string, timeRemaining time.Duration, hasBudget bool) bool {
	switch p.registry.Tier(name) {
	case datatypes.TierCritical:
		return true
	case datatypes.TierImportant:
		return !hasBudget || timeRemaining >= p.cfg.MinTimeImportant
	default:
		return !hasBudget || timeRemaining >= p.cfg.MinTimeOptional
	}
}

// Plan partitions validators by tier and fixes execution membership.
//
// # Description
//
// CRITICAL validators are always admitted, for every budget including
// zero and negative. IMPORTANT validators are admitted individually
// while the remaining estimate stays at or above the important floor.
// ShouldRunOptional compares the budget minus the flat estimate of the
// critical and important partitions against the optional floor.
//
// The returned plan is computed once per request and never mutated
// afterward: there is no re-planning mid-flight.
//
// # Inputs
//
//   - validators: The supplied validator set, in execution order.
//   - budget: Advisory time budget; ignored when hasBudget is false.
//   - hasBudget: Whether a budget was specified at all.
//
// # Outputs
//
//   - *datatypes.ValidationPlan: The fixed execution plan.
func (p *Planner) Plan(validators []Validator, budget time.Duration, hasBudget bool) *datatypes.ValidationPlan {
	plan := &datatypes.ValidationPlan{
		Critical:      []string{},
		Important:     []string{},
		Optional:      []string{},
		EstimatedCost: time.Duration(len(validators)) * p.cfg.CostPerValidator,
	}

	// Partition by tier, preserving supplied order within each tier.
	var important []string
	for _, v := range validators {
		switch p.registry.Tier(v.Name()) {
		case datatypes.TierCritical:
			plan.Critical = append(plan.Critical, v.Name())
		case datatypes.TierImportant:
			important = append(important, v.Name())
		default:
			plan.Optional = append(plan.Optional, v.Name())
		}
	}

	if !hasBudget {
		plan.Important = important
		plan.ShouldRunOptional = true
		return plan
	}

	// CRITICAL validators consume budget first; they are never excluded
	// even when the remainder goes negative.
	remaining := budget - time.Duration(len(plan.Critical))*p.cfg.CostPerValidator

	for _, name := range important {
		if remaining >= p.cfg.MinTimeImportant {
			plan.Important = append(plan.Important, name)
			remaining -= p.cfg.CostPerValidator
		}
	}

	// The optional gate uses the full critical ∪ important partition
	// estimate, matching the pre-flight nature of the plan.
	mandatoryEstimate := time.Duration(len(plan.Critical)+len(important)) * p.cfg.CostPerValidator
	plan.ShouldRunOptional = budget-mandatoryEstimate >= p.cfg.MinTimeOptional

	return plan
}
