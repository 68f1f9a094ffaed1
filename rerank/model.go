// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package rerank

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	openai "github.com/sashabaranov/go-openai"

	"github.com/AleutianAI/AleutianVerify/config"
)

// ErrModelUnavailable indicates the relevance model failed to load or is
// not configured. The reranker treats it as a degradation signal, never a
// request failure.
var ErrModelUnavailable = errors.New("relevance model unavailable")

// RelevanceModel scores documents against a query.
//
// Implementations must be safe for concurrent use after construction:
// the model handle is shared, read-only, and process-wide.
type RelevanceModel interface {
	// Name identifies the model for logging and span attributes.
	Name() string

	// Score returns one relevance score per document, aligned by index.
	// Raw scores are model-specific and not comparable across model
	// versions; only relative order within one call matters.
	Score(ctx context.Context, query string, documents []string) ([]float64, error)
}

// =============================================================================
// Embedding Model
// =============================================================================

// EmbeddingModel scores query/document pairs by cosine similarity of
// their embeddings from an OpenAI-compatible endpoint.
type EmbeddingModel struct {
	client *openai.Client
	model  string
}

// NewEmbeddingModel creates an embedding-backed relevance model.
//
// Returns ErrModelUnavailable when no endpoint is configured, so callers
// can degrade instead of failing.
func NewEmbeddingModel(cfg config.ModelConfig) (*EmbeddingModel, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: no base_url configured", ErrModelUnavailable)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL

	return &EmbeddingModel{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.EmbeddingModel,
	}, nil
}

// Name implements RelevanceModel.
func (m *EmbeddingModel) Name() string {
	return "embedding:" + m.model
}

// Score embeds the query and all documents in one request and returns
// cosine similarities.
func (m *EmbeddingModel) Score(ctx context.Context, query string, documents []string) ([]float64, error) {
	input := make([]string, 0, len(documents)+1)
	input = append(input, query)
	input = append(input, documents...)

	resp, err := m.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: input,
		Model: openai.EmbeddingModel(m.model),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	if len(resp.Data) != len(input) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d inputs",
			ErrModelUnavailable, len(resp.Data), len(input))
	}

	queryVec := resp.Data[0].Embedding
	scores := make([]float64, len(documents))
	for i := range documents {
		scores[i] = cosine(queryVec, resp.Data[i+1].Embedding)
	}
	return scores, nil
}

// cosine computes cosine similarity between two vectors. Mismatched or
// zero vectors score 0.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// =============================================================================
// Lexical Model
// =============================================================================

// LexicalModel scores by content-word overlap. It is deterministic and
// network-free: the offline path for the CLI and for tests.
type LexicalModel struct{}

// NewLexicalModel creates the offline lexical scorer.
func NewLexicalModel() *LexicalModel {
	return &LexicalModel{}
}

// Name implements RelevanceModel.
func (m *LexicalModel) Name() string {
	return "lexical"
}

// Score implements RelevanceModel using token-set overlap against the
// query.
func (m *LexicalModel) Score(ctx context.Context, query string, documents []string) ([]float64, error) {
	queryTokens := tokenSet(query)
	scores := make([]float64, len(documents))
	for i, doc := range documents {
		scores[i] = overlap(queryTokens, tokenSet(doc))
	}
	return scores, nil
}

// tokenSet lower-cases and collects unique tokens of at least 3 runes.
func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,;:!?()[]\"'")
		if len([]rune(tok)) >= 3 {
			set[tok] = true
		}
	}
	return set
}

// overlap returns |a ∩ b| / |a| so short queries are not penalized by
// long documents.
func overlap(a, b map[string]bool) float64 {
	if len(a) == 0 {
		return 0
	}
	hits := 0
	for tok := range a {
		if b[tok] {
			hits++
		}
	}
	return float64(hits) / float64(len(a))
}

// =============================================================================
// Shared Model Handle
// =============================================================================

// The embedding model handle is the one process-wide resource this
// subsystem retains: expensive to construct, read-only afterward, safe
// for concurrent use across requests. Initialization is lazy and
// idempotent; concurrent first callers cannot double-initialize.
var (
	sharedModel     RelevanceModel
	sharedModelErr  error
	sharedModelOnce sync.Once
)

// SharedModel returns the lazily initialized process-wide relevance
// model for cfg. The first caller's config wins; later configs are
// ignored.
//
// Returns ErrModelUnavailable (wrapped) when initialization failed; the
// failure is sticky so every request degrades consistently instead of
// retrying an expensive load.
func SharedModel(cfg config.ModelConfig) (RelevanceModel, error) {
	sharedModelOnce.Do(func() {
		sharedModel, sharedModelErr = NewEmbeddingModel(cfg)
	})
	return sharedModel, sharedModelErr
}
