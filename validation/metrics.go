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
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/AleutianAI/AleutianVerify/datatypes"
)

// Package-level meter for validation.
var meter = otel.Meter("aleutian.verify.validation")

// Metrics for validator execution and aggregation.
var (
	outcomesTotal     metric.Int64Counter
	validatorDuration metric.Float64Histogram
	aggregateScore    metric.Float64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		outcomesTotal, err = meter.Int64Counter(
			"validation_outcomes_total",
			metric.WithDescription("Total number of validator outcomes"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		validatorDuration, err = meter.Float64Histogram(
			"validator_duration_seconds",
			metric.WithDescription("Duration of individual validator evaluations"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		aggregateScore, err = meter.Float64Histogram(
			"validation_confidence",
			metric.WithDescription("Aggregate confidence scores"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordOutcome records one validator outcome.
func recordOutcome(ctx context.Context, o datatypes.ValidationOutcome) {
	if err := initMetrics(); err != nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("validator", o.Validator),
		attribute.String("tier", string(o.Tier)),
		attribute.Bool("passed", o.Passed),
	)
	outcomesTotal.Add(ctx, 1, attrs)
	validatorDuration.Record(ctx, o.Duration.Seconds(),
		metric.WithAttributes(attribute.String("validator", o.Validator)),
	)
}

// RecordAggregate records the final confidence score and verdict.
func RecordAggregate(ctx context.Context, result datatypes.AggregateResult) {
	if err := initMetrics(); err != nil {
		return
	}
	aggregateScore.Record(ctx, result.Confidence,
		metric.WithAttributes(attribute.Bool("passed", result.Passed)),
	)
}
