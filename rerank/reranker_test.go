// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package rerank

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianVerify/datatypes"
)

// scriptedModel returns fixed scores or a fixed error.
type scriptedModel struct {
	scores []float64
	err    error
}

func (m *scriptedModel) Name() string { return "scripted" }

func (m *scriptedModel) Score(ctx context.Context, query string, documents []string) ([]float64, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.scores[:len(documents)], nil
}

func docs(texts ...string) []datatypes.CandidateDocument {
	out := make([]datatypes.CandidateDocument, len(texts))
	for i, t := range texts {
		out[i] = datatypes.CandidateDocument{Text: t}
	}
	return out
}

// TestRerank_OrdersByScore verifies descending score order with
// OriginalRank retained.
func TestRerank_OrdersByScore(t *testing.T) {
	model := &scriptedModel{scores: []float64{0.1, 0.9, 0.5}}
	r := NewReranker(model, nil)

	out := r.Rerank(context.Background(), "q", docs("a", "b", "c"), 0)

	require.Len(t, out, 3)
	assert.Equal(t, "b", out[0].Text)
	assert.Equal(t, "c", out[1].Text)
	assert.Equal(t, "a", out[2].Text)
	assert.Equal(t, 2, out[0].OriginalRank)
	assert.Equal(t, 3, out[1].OriginalRank)
	assert.Equal(t, 1, out[2].OriginalRank)
}

// TestRerank_NilModelPassesThrough verifies the model-unavailable
// degradation path returns the input order without error.
func TestRerank_NilModelPassesThrough(t *testing.T) {
	r := NewReranker(nil, nil)

	in := docs("a", "b", "c")
	out := r.Rerank(context.Background(), "q", in, 0)

	require.Len(t, out, 3)
	for i := range in {
		assert.Equal(t, in[i].Text, out[i].Text)
	}
}

// TestRerank_ScoringErrorPassesThrough verifies scoring failures degrade
// to the original order instead of surfacing.
func TestRerank_ScoringErrorPassesThrough(t *testing.T) {
	model := &scriptedModel{err: errors.New("endpoint down")}
	r := NewReranker(model, nil)

	out := r.Rerank(context.Background(), "q", docs("a", "b"), 0)

	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].Text)
	assert.Equal(t, "b", out[1].Text)
}

// TestRerank_EmptyTextAppendedUnscored verifies candidates without
// extractable text land after every scored candidate.
func TestRerank_EmptyTextAppendedUnscored(t *testing.T) {
	model := &scriptedModel{scores: []float64{0.2, 0.8}}
	r := NewReranker(model, nil)

	out := r.Rerank(context.Background(), "q", docs("a", "", "b"), 0)

	require.Len(t, out, 3)
	assert.Equal(t, "b", out[0].Text)
	assert.Equal(t, "a", out[1].Text)
	assert.Equal(t, "", out[2].Text)
}

// TestRerank_TiesKeepRetrievalOrder verifies the sort is stable.
func TestRerank_TiesKeepRetrievalOrder(t *testing.T) {
	model := &scriptedModel{scores: []float64{0.5, 0.5, 0.5}}
	r := NewReranker(model, nil)

	out := r.Rerank(context.Background(), "q", docs("a", "b", "c"), 0)

	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].Text)
	assert.Equal(t, "b", out[1].Text)
	assert.Equal(t, "c", out[2].Text)
}

// TestRerank_Idempotent verifies reranking its own output changes
// nothing with a deterministic model.
func TestRerank_Idempotent(t *testing.T) {
	r := NewReranker(NewLexicalModel(), nil)
	query := "boiling point of water"
	in := docs(
		"Water boils at 100 degrees Celsius.",
		"The capital of France is Paris.",
		"Boiling point varies with pressure and altitude of water.",
	)

	first := r.Rerank(context.Background(), query, in, 0)
	second := r.Rerank(context.Background(), query, first, 0)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Text, second[i].Text, "position %d changed on rerank", i)
		assert.Equal(t, first[i].OriginalRank, second[i].OriginalRank)
	}
}

// TestRerank_TopKTruncates verifies truncation after ordering.
func TestRerank_TopKTruncates(t *testing.T) {
	model := &scriptedModel{scores: []float64{0.1, 0.9, 0.5}}
	r := NewReranker(model, nil)

	out := r.Rerank(context.Background(), "q", docs("a", "b", "c"), 2)

	require.Len(t, out, 2)
	assert.Equal(t, "b", out[0].Text)
	assert.Equal(t, "c", out[1].Text)
}

// TestRerank_DoesNotMutateInput verifies the input slice is untouched.
func TestRerank_DoesNotMutateInput(t *testing.T) {
	model := &scriptedModel{scores: []float64{0.1, 0.9}}
	r := NewReranker(model, nil)

	in := docs("a", "b")
	_ = r.Rerank(context.Background(), "q", in, 0)

	assert.Equal(t, "a", in[0].Text)
	assert.Equal(t, 0, in[0].OriginalRank, "input ranks must not be stamped in place")
	assert.Equal(t, 0.0, in[0].RelevanceScore)
}

// TestRerank_EmptyInput verifies the empty candidate list round-trips.
func TestRerank_EmptyInput(t *testing.T) {
	r := NewReranker(NewLexicalModel(), nil)
	out := r.Rerank(context.Background(), "q", nil, 0)
	assert.Empty(t, out)
}
