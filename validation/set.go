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

import "github.com/AleutianAI/AleutianVerify/config"

// DefaultValidators builds the full built-in validator set, ordered
// critical first so the runner picks them up earliest under the
// concurrency limit.
func DefaultValidators(cfg *config.Config) []Validator {
	return []Validator{
		// CRITICAL
		NewCitationRequiredValidator(),
		NewFactualHallucinationValidator(cfg.OverlapThreshold),
		NewEthicsAdapter(),
		// IMPORTANT
		NewEvidenceOverlapValidator(cfg.OverlapThreshold),
		NewCitationRelevanceValidator(cfg.OverlapThreshold),
		NewConfidenceValidator(cfg.ConfidenceFloor, cfg.OverlapThreshold),
		NewLanguageValidator(),
		NewNumericUnitsValidator(),
		// OPTIONAL
		NewPhilosophicalDepthValidator(),
		NewIdentityCheckValidator(),
		NewEgoNeutralityValidator(),
		NewReligiousChoiceValidator(),
		NewSourceConsensusValidator(cfg.OverlapThreshold),
	}
}
