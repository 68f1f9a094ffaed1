// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package pipeline wires rerank, classification, validation, and
// fallback into the end-to-end answer verification flow.
package pipeline

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/AleutianVerify/classify"
	"github.com/AleutianAI/AleutianVerify/config"
	"github.com/AleutianAI/AleutianVerify/datatypes"
	"github.com/AleutianAI/AleutianVerify/fallback"
	"github.com/AleutianAI/AleutianVerify/pkg/langdetect"
	"github.com/AleutianAI/AleutianVerify/pkg/logging"
	"github.com/AleutianAI/AleutianVerify/rerank"
	"github.com/AleutianAI/AleutianVerify/validation"
)

// pipelineTracer is the OpenTelemetry tracer for pipeline stages.
var pipelineTracer = otel.Tracer("aleutian.verify.pipeline")

// Pipeline verifies a generated answer against its retrieval context.
//
// Faults inside the pipeline degrade the answer toward the fallback
// refusal instead of surfacing as hard errors: the only error Process
// returns is request validation. A broken reranker passes candidates
// through; a panicking validator becomes a failed outcome; a failed
// verdict becomes a refusal response.
//
// Thread Safety: safe for concurrent use after construction.
type Pipeline struct {
	cfg        *config.Config
	logger     *logging.Logger
	reranker   *rerank.Reranker
	classifier *classify.Classifier
	planner    *validation.Planner
	runner     *validation.Runner
	aggregator *validation.Aggregator
	policy     *fallback.Policy
	validators []validation.Validator
}

// New assembles a pipeline from the config and a relevance model.
//
// model may be nil: reranking then degrades to pass-through for every
// request. logger may be nil; the package default is used.
func New(cfg *config.Config, model rerank.RelevanceModel, logger *logging.Logger) (*Pipeline, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline config: %w", err)
	}
	if logger == nil {
		logger = logging.Default()
	}

	registry := validation.NewRegistry(cfg.TierOverrides)
	return &Pipeline{
		cfg:        cfg,
		logger:     logger,
		reranker:   rerank.NewReranker(model, logger),
		classifier: classify.NewClassifier(),
		planner:    validation.NewPlanner(registry, cfg),
		runner:     validation.NewRunner(registry, logger, cfg.Concurrency),
		aggregator: validation.NewAggregator(cfg),
		policy:     fallback.NewPolicy(cfg),
		validators: validation.DefaultValidators(cfg),
	}, nil
}

// Process runs the full verification flow for one request.
//
// # Description
//
// Stages, in order: request validation, language detection, rerank
// (fail-open), claim extraction and classification, validation planning
// (static, pre-flight), validator execution, aggregation, and the
// fallback decision. When the fallback triggers, FinalAnswer carries
// the refusal template and the original answer is discarded whole.
//
// # Inputs
//
//   - ctx: Context for tracing; validator execution is not cancelled
//     mid-flight.
//   - req: The verification request. Defaults are filled in place.
//
// # Outputs
//
//   - *datatypes.VerifyResult: The verdict and final answer text.
//   - error: Non-nil only when the request itself is invalid.
func (p *Pipeline) Process(ctx context.Context, req *datatypes.VerifyRequest) (*datatypes.VerifyResult, error) {
	ctx, span := pipelineTracer.Start(ctx, "Pipeline.Process")
	defer span.End()

	req.EnsureDefaults()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	span.SetAttributes(
		attribute.String("request.id", req.Id),
		attribute.Int("request.candidates", len(req.Candidates)),
	)

	language := langdetect.Detect(req.Query)

	documents := p.reranker.Rerank(ctx, req.Query, req.Candidates, 0)

	hasContext := false
	for _, d := range documents {
		if d.Text != "" {
			hasContext = true
			break
		}
	}

	claims := classify.ExtractClaims(p.classifier, req.Answer, hasContext, req.RefersToSelf, req.Query)
	span.SetAttributes(attribute.Int("claims.count", len(claims)))

	budget, hasBudget := req.TimeBudget()
	plan := p.planner.Plan(p.validators, budget, hasBudget)
	span.SetAttributes(
		attribute.Int("plan.critical", len(plan.Critical)),
		attribute.Int("plan.important", len(plan.Important)),
		attribute.Bool("plan.run_optional", plan.ShouldRunOptional),
	)

	in := &validation.EvaluateInput{
		Query:     req.Query,
		Answer:    req.Answer,
		Language:  language,
		Claims:    claims,
		Documents: documents,
	}
	outcomes := p.runner.Run(ctx, p.validators, plan, in)

	result := p.aggregator.Aggregate(outcomes)
	validation.RecordAggregate(ctx, result)

	decision := p.policy.Decide(result, claims, hasContext, language)
	finalAnswer := req.Answer
	if decision.Triggered {
		finalAnswer = decision.Response
		result.UsedFallback = true
		p.logger.Info("fallback substituted answer",
			"request_id", req.Id,
			"reason", decision.Reason,
			"confidence", result.Confidence,
		)
		recordFallback(ctx, decision.Reason)
	}

	span.SetAttributes(
		attribute.Float64("result.confidence", result.Confidence),
		attribute.Bool("result.passed", result.Passed),
		attribute.Bool("result.fallback", result.UsedFallback),
	)

	return &datatypes.VerifyResult{
		Id:               req.Id,
		FinalAnswer:      finalAnswer,
		Confidence:       result.Confidence,
		ValidationPassed: result.Passed,
		UsedFallback:     result.UsedFallback,
		Outcomes:         result.Outcomes,
		Language:         decision.Language,
	}, nil
}
