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
	"github.com/AleutianAI/AleutianVerify/datatypes"
)

// builtinTiers is the static tier table for the shipped validators.
//
// The mapping is closed and name-keyed; config overrides are applied on
// top at registry construction. Any identity absent from both defaults
// to OPTIONAL so unknown code paths never silently escalate to
// mandatory.
var builtinTiers = map[string]datatypes.Tier{
	NameCitationRequired:     datatypes.TierCritical,
	NameFactualHallucination: datatypes.TierCritical,
	NameEthics:               datatypes.TierCritical,

	NameEvidenceOverlap:   datatypes.TierImportant,
	NameCitationRelevance: datatypes.TierImportant,
	NameConfidence:        datatypes.TierImportant,
	NameLanguage:          datatypes.TierImportant,
	NameNumericUnits:      datatypes.TierImportant,

	NamePhilosophicalDepth: datatypes.TierOptional,
	NameIdentityCheck:      datatypes.TierOptional,
	NameEgoNeutrality:      datatypes.TierOptional,
	NameReligiousChoice:    datatypes.TierOptional,
	NameSourceConsensus:    datatypes.TierOptional,
}

// Registry resolves validator identities to priority tiers.
//
// Built once at startup from the static table plus config overrides and
// injected by reference (no mutable globals). Read-only afterward; safe
// for concurrent use.
type Registry struct {
	tiers map[string]datatypes.Tier
}

// NewRegistry builds a registry from the builtin table with overrides
// applied. Overrides with unknown tiers are rejected by config
// validation before reaching here.
func NewRegistry(overrides map[string]datatypes.Tier) *Registry {
	tiers := make(map[string]datatypes.Tier, len(builtinTiers)+len(overrides))
	for name, tier := range builtinTiers {
		tiers[name] = tier
	}
	for name, tier := range overrides {
		tiers[name] = tier
	}
	return &Registry{tiers: tiers}
}

// Tier returns the priority class for a validator identity.
// Unknown identities default to OPTIONAL.
func (r *Registry) Tier(name string) datatypes.Tier {
	if tier, ok := r.tiers[name]; ok {
		return tier
	}
	return datatypes.TierOptional
}
