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
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/AleutianVerify/datatypes"
	"github.com/AleutianAI/AleutianVerify/pkg/logging"
)

// Runner executes a fixed validation plan against a validator set.
//
// Every scheduled validator runs exactly once and runs to completion:
// the plan is pre-flight only and admission is never revisited while
// validators execute. A panicking validator is converted into a failed
// outcome rather than taking down the request.
//
// Thread Safety: safe for concurrent use after construction.
type Runner struct {
	registry    *Registry
	logger      *logging.Logger
	concurrency int
}

// NewRunner creates a runner. concurrency bounds the number of
// validators evaluating at once; values below 1 are treated as 1.
func NewRunner(registry *Registry, logger *logging.Logger, concurrency int) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Runner{registry: registry, logger: logger, concurrency: concurrency}
}

// Run evaluates every validator the plan scheduled and returns their
// outcomes.
//
// # Description
//
// Validators execute concurrently under the configured limit via an
// errgroup. The group deliberately has no shared cancellation: a
// failing or panicking validator must not abort its siblings, because
// each outcome is independent evidence for the aggregator.
//
// A panic inside Evaluate is recovered and recorded as a failed outcome
// with reason "validator_error". For CRITICAL validators this is the
// fail-closed path: the aggregator will veto the answer on seeing the
// failed critical outcome.
//
// # Inputs
//
//   - ctx: Carries the active trace span; not used for cancellation.
//   - validators: The full supplied set; unscheduled members are skipped.
//   - plan: The fixed execution plan from the Planner.
//   - in: Shared evaluation input, treated as read-only by validators.
//
// # Outputs
//
//   - []datatypes.ValidationOutcome: One outcome per scheduled
//     validator, in the validators' supplied order.
func (r *Runner) Run(ctx context.Context, validators []Validator, plan *datatypes.ValidationPlan, in *EvaluateInput) []datatypes.ValidationOutcome {
	span := trace.SpanFromContext(ctx)

	outcomes := make([]datatypes.ValidationOutcome, len(validators))
	scheduled := make([]bool, len(validators))

	var g errgroup.Group
	g.SetLimit(r.concurrency)

	for i, v := range validators {
		if !plan.Contains(v.Name()) {
			continue
		}
		scheduled[i] = true

		i, v := i, v
		g.Go(func() error {
			// Each goroutine owns its own slot; no shared writes.
			outcomes[i] = r.evaluate(ctx, v, in)
			return nil
		})
	}
	// Workers never return errors; Wait is a pure barrier.
	_ = g.Wait()

	out := make([]datatypes.ValidationOutcome, 0, len(validators))
	for i := range validators {
		if scheduled[i] {
			out = append(out, outcomes[i])
		}
	}

	span.SetAttributes(attribute.Int("validation.outcomes", len(out)))
	for _, o := range out {
		span.AddEvent("validator.executed", trace.WithAttributes(
			attribute.String("validator", o.Validator),
			attribute.Bool("passed", o.Passed),
		))
		recordOutcome(ctx, o)
	}
	return out
}

// evaluate runs one validator with panic containment and stamps the
// tier and wall-clock duration on the outcome.
func (r *Runner) evaluate(ctx context.Context, v Validator, in *EvaluateInput) (outcome datatypes.ValidationOutcome) {
	start := time.Now()
	tier := r.registry.Tier(v.Name())

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("validator panicked",
				"validator", v.Name(),
				"panic", fmt.Sprintf("%v", rec))
			outcome = fail(v.Name(), datatypes.ReasonValidatorError, -0.3)
		}
		outcome.Tier = tier
		outcome.Duration = time.Since(start)
	}()

	outcome = v.Evaluate(ctx, in)
	return outcome
}
