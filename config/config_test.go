// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianVerify/datatypes"
)

// TestLoad_EmptyPathReturnsDefaults verifies an unset config path yields
// the shipped defaults.
func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

// TestLoad_PartialFileOverlaysDefaults verifies a YAML file that names
// only some fields keeps defaults for the rest.
func TestLoad_PartialFileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
confidence_floor: 0.7
concurrency: 2
tier_overrides:
  language: critical
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.7, cfg.ConfidenceFloor)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, datatypes.TierCritical, cfg.TierOverrides["language"])
	assert.Equal(t, 500*time.Millisecond, cfg.MinTimeImportant, "unnamed fields keep defaults")
	assert.Equal(t, 1*time.Second, cfg.MinTimeOptional)
}

// TestLoad_MissingFileIsAnError verifies a named but absent file fails.
func TestLoad_MissingFileIsAnError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

// TestValidate_RejectsOutOfRangeFloor verifies range checking.
func TestValidate_RejectsOutOfRangeFloor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConfidenceFloor = 1.5
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.OverlapThreshold = -0.1
	assert.Error(t, cfg.Validate())
}

// TestValidate_RejectsUnknownTierOverride verifies tier override values
// must be one of the three known tiers.
func TestValidate_RejectsUnknownTierOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TierOverrides = map[string]datatypes.Tier{"ethics": "mandatory"}
	assert.Error(t, cfg.Validate())
}

// TestValidate_NormalizesZeroValues verifies zero values are replaced by
// defaults rather than rejected.
func TestValidate_NormalizesZeroValues(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Validate())

	def := DefaultConfig()
	assert.Equal(t, def.MinTimeImportant, cfg.MinTimeImportant)
	assert.Equal(t, def.CostPerValidator, cfg.CostPerValidator)
	assert.Equal(t, def.Concurrency, cfg.Concurrency)
	assert.Equal(t, def.BaseConfidence, cfg.BaseConfidence)
}
