// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package rerank reorders retrieved candidates using a pairwise relevance
// model.
//
// Reranking is an optimization, never a correctness gate: when the model
// is unavailable or scoring fails, the reranker fails open and returns
// the input ordering unchanged, logging a degradation event. Its absence
// must not block the pipeline.
package rerank

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/AleutianVerify/datatypes"
	"github.com/AleutianAI/AleutianVerify/pkg/logging"
)

// rerankTracer is the OpenTelemetry tracer for reranker operations.
var rerankTracer = otel.Tracer("aleutian.verify.rerank")

// Reranker scores and reorders candidate documents against a query.
//
// Thread Safety: safe for concurrent use; the model handle is read-only
// after construction.
type Reranker struct {
	model  RelevanceModel
	logger *logging.Logger
}

// NewReranker creates a reranker over the given model.
//
// A nil model is accepted: every Rerank call then passes candidates
// through unchanged (the model-unavailable degradation path).
func NewReranker(model RelevanceModel, logger *logging.Logger) *Reranker {
	if logger == nil {
		logger = logging.Default()
	}
	return &Reranker{model: model, logger: logger}
}

// Rerank reorders candidates by relevance to query.
//
// # Description
//
// Each candidate is scored independently over (query, document text).
// Candidates without extractable text are skipped from scoring and
// appended unscored rather than raising an error. Ties preserve the
// original retrieval order (stable sort), and OriginalRank is retained
// in the output for auditability.
//
// Failure policy: if the model is nil or scoring fails, the input is
// returned in its original order and a degradation event is logged.
// No error is ever returned to the caller.
//
// # Inputs
//
//   - ctx: Context for cancellation and tracing.
//   - query: The user question candidates are scored against.
//   - candidates: Retrieval results in retrieval order.
//   - topK: Truncates the result when > 0; 0 keeps all candidates.
//
// # Outputs
//
//   - []datatypes.CandidateDocument: Reordered copy of the input. The
//     input slice is not modified.
func (r *Reranker) Rerank(ctx context.Context, query string, candidates []datatypes.CandidateDocument, topK int) []datatypes.CandidateDocument {
	ctx, span := rerankTracer.Start(ctx, "Reranker.Rerank")
	defer span.End()

	span.SetAttributes(
		attribute.Int("rerank.candidates", len(candidates)),
		attribute.Int("rerank.top_k", topK),
	)

	out := annotateOriginalRank(candidates)
	if len(out) == 0 {
		return out
	}

	if r.model == nil {
		span.SetAttributes(attribute.Bool("rerank.degraded", true))
		r.logger.Warn("reranker degraded, passing candidates through",
			"reason", "model_unavailable",
			"candidates", len(out),
		)
		return truncate(out, topK)
	}

	// Partition: only candidates with extractable text are scored.
	scorable := make([]int, 0, len(out))
	texts := make([]string, 0, len(out))
	var unscored []datatypes.CandidateDocument
	for i, c := range out {
		if c.Text == "" {
			unscored = append(unscored, c)
			continue
		}
		scorable = append(scorable, i)
		texts = append(texts, c.Text)
	}

	scores, err := r.model.Score(ctx, query, texts)
	if err != nil || len(scores) != len(texts) {
		span.SetAttributes(attribute.Bool("rerank.degraded", true))
		r.logger.Warn("reranker degraded, passing candidates through",
			"reason", "scoring_failed",
			"model", r.model.Name(),
			"error", err,
		)
		return truncate(out, topK)
	}

	scored := make([]datatypes.CandidateDocument, len(scorable))
	for j, i := range scorable {
		scored[j] = out[i]
		scored[j].RelevanceScore = scores[j]
	}

	// Stable sort: ties keep retrieval order.
	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].RelevanceScore > scored[b].RelevanceScore
	})

	result := append(scored, unscored...)
	span.SetAttributes(
		attribute.Int("rerank.scored", len(scored)),
		attribute.Int("rerank.unscored", len(unscored)),
		attribute.String("rerank.model", r.model.Name()),
	)

	return truncate(result, topK)
}

// annotateOriginalRank copies candidates and stamps retrieval positions
// on entries that have not been ranked before, so reranking stays
// idempotent and the original order remains auditable.
func annotateOriginalRank(candidates []datatypes.CandidateDocument) []datatypes.CandidateDocument {
	out := make([]datatypes.CandidateDocument, len(candidates))
	copy(out, candidates)

	stamped := false
	for _, c := range out {
		if c.OriginalRank != 0 {
			stamped = true
			break
		}
	}
	if !stamped {
		for i := range out {
			out[i].OriginalRank = i + 1
		}
	}
	return out
}

// truncate applies topK when positive.
func truncate(docs []datatypes.CandidateDocument, topK int) []datatypes.CandidateDocument {
	if topK > 0 && topK < len(docs) {
		return docs[:topK]
	}
	return docs
}
