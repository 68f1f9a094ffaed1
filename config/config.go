// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config provides the startup configuration for the verification
// pipeline.
//
// A single Config is constructed once at startup and passed by reference
// into the pipeline (dependency injection). There are no mutable globals:
// the only process-wide state the pipeline retains is the lazily
// initialized relevance model handle, which is expensive to load and
// read-only after initialization.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/AleutianVerify/datatypes"
)

// =============================================================================
// Configuration
// =============================================================================

// ModelConfig configures the relevance model used by the reranker.
type ModelConfig struct {
	// BaseURL is the OpenAI-compatible endpoint serving embeddings.
	// Empty disables the embedding model; the reranker then fails open
	// unless another model is injected.
	BaseURL string `yaml:"base_url"`

	// APIKey authenticates against the endpoint. Local inference stacks
	// typically accept any value.
	APIKey string `yaml:"api_key"`

	// EmbeddingModel is the embedding model identifier.
	EmbeddingModel string `yaml:"embedding_model"`
}

// Config holds every tunable of the verification pipeline.
//
// Zero values are replaced by DefaultConfig values during Validate, so a
// partially specified YAML file only overrides what it names.
type Config struct {
	// MinTimeImportant is the remaining-budget floor below which
	// IMPORTANT validators are excluded from the plan.
	MinTimeImportant time.Duration `yaml:"min_time_important"`

	// MinTimeOptional is the remaining-budget floor below which
	// OPTIONAL validators are excluded from the plan.
	MinTimeOptional time.Duration `yaml:"min_time_optional"`

	// CostPerValidator is the flat planning cost per validator.
	// It is a fixed constant, not a measured value: real cost is only
	// known after execution.
	CostPerValidator time.Duration `yaml:"cost_per_validator"`

	// ConfidenceFloor is the minimum aggregate confidence; below it the
	// fallback policy substitutes the safe response.
	ConfidenceFloor float64 `yaml:"confidence_floor"`

	// BaseConfidence is the starting point of the aggregate score before
	// validator deltas are applied.
	BaseConfidence float64 `yaml:"base_confidence"`

	// OverlapThreshold is the minimum content-word overlap for a claim
	// to count as supported by a document.
	OverlapThreshold float64 `yaml:"overlap_threshold"`

	// Concurrency bounds parallel validator execution. 1 runs the plan
	// sequentially.
	Concurrency int `yaml:"concurrency"`

	// TierOverrides remaps validator identities to tiers. Identities
	// absent from both this map and the built-in registry default to
	// OPTIONAL: unknown code paths never silently escalate to mandatory.
	TierOverrides map[string]datatypes.Tier `yaml:"tier_overrides"`

	// Model configures the embedding-backed relevance model.
	Model ModelConfig `yaml:"model"`
}

// DefaultConfig returns the configuration the pipeline ships with.
func DefaultConfig() *Config {
	return &Config{
		MinTimeImportant: 500 * time.Millisecond,
		MinTimeOptional:  1 * time.Second,
		CostPerValidator: 200 * time.Millisecond,
		ConfidenceFloor:  0.5,
		BaseConfidence:   0.6,
		OverlapThreshold: 0.2,
		Concurrency:      4,
		Model: ModelConfig{
			EmbeddingModel: "nomic-embed-text",
		},
	}
}

// Load reads a YAML config file and overlays it on the defaults.
//
// Returns the merged config, or an error when the file cannot be read or
// parsed. A missing path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalizes zero values back to defaults and rejects values
// that would break pipeline invariants.
func (c *Config) Validate() error {
	def := DefaultConfig()

	if c.MinTimeImportant <= 0 {
		c.MinTimeImportant = def.MinTimeImportant
	}
	if c.MinTimeOptional <= 0 {
		c.MinTimeOptional = def.MinTimeOptional
	}
	if c.CostPerValidator <= 0 {
		c.CostPerValidator = def.CostPerValidator
	}
	if c.Concurrency <= 0 {
		c.Concurrency = def.Concurrency
	}
	if c.BaseConfidence == 0 {
		c.BaseConfidence = def.BaseConfidence
	}
	if c.OverlapThreshold == 0 {
		c.OverlapThreshold = def.OverlapThreshold
	}
	if c.ConfidenceFloor == 0 {
		c.ConfidenceFloor = def.ConfidenceFloor
	}

	if c.ConfidenceFloor < 0 || c.ConfidenceFloor > 1 {
		return fmt.Errorf("confidence_floor %v outside [0,1]", c.ConfidenceFloor)
	}
	if c.BaseConfidence < 0 || c.BaseConfidence > 1 {
		return fmt.Errorf("base_confidence %v outside [0,1]", c.BaseConfidence)
	}
	if c.OverlapThreshold < 0 || c.OverlapThreshold > 1 {
		return fmt.Errorf("overlap_threshold %v outside [0,1]", c.OverlapThreshold)
	}
	for name, tier := range c.TierOverrides {
		switch tier {
		case datatypes.TierCritical, datatypes.TierImportant, datatypes.TierOptional:
		default:
			return fmt.Errorf("tier override for %q has unknown tier %q", name, tier)
		}
	}
	return nil
}
