// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation runs quality and safety validators over a generated
// answer under a latency budget with strict priority tiers.
//
// Each validator is polymorphic over one capability: evaluate an answer
// against its retrieved context and claim classification, and emit a
// single ValidationOutcome. Tier membership is owned by the registry,
// never by the validator itself; the planner decides admission; the
// runner executes the fixed plan and the aggregator merges outcomes into
// a verdict. This is a graceful-degradation scheduler, not a filter:
// CRITICAL validators run regardless of budget, and skipping is a
// scheduling decision, never evidence against the answer.
package validation

import (
	"context"

	"github.com/AleutianAI/AleutianVerify/datatypes"
)

// Validator identities. Tier membership is keyed by these names in the
// registry; see tiers.go.
const (
	NameCitationRequired     = "citation_required"
	NameFactualHallucination = "factual_hallucination"
	NameEthics               = "ethics"

	NameEvidenceOverlap   = "evidence_overlap"
	NameCitationRelevance = "citation_relevance"
	NameConfidence        = "confidence"
	NameLanguage          = "language"
	NameNumericUnits      = "numeric_units"

	NamePhilosophicalDepth = "philosophical_depth"
	NameIdentityCheck      = "identity_check"
	NameEgoNeutrality      = "ego_neutrality"
	NameReligiousChoice    = "religious_choice"
	NameSourceConsensus    = "source_consensus"
)

// EvaluateInput is the read-only request snapshot every validator sees.
//
// Validators must not mutate it: the same input is shared across
// concurrently executing validators.
type EvaluateInput struct {
	// Query is the user question.
	Query string

	// Answer is the generated answer under validation.
	Answer string

	// Language is the detected query language (BCP-47 primary subtag).
	Language string

	// Claims are the classified claim spans of the answer.
	Claims []datatypes.Claim

	// Documents are the (reranked) retrieval candidates.
	Documents []datatypes.CandidateDocument
}

// HasContext reports whether any document carries text.
func (in *EvaluateInput) HasContext() bool {
	for _, d := range in.Documents {
		if d.Text != "" {
			return true
		}
	}
	return false
}

// Validator is one pluggable validation unit.
//
// Implementations must be safe for concurrent use and must confine
// failures to the returned outcome: the runner converts panics into
// failed outcomes, but well-behaved validators never panic.
type Validator interface {
	// Name returns the validator identity used for tier lookup,
	// logging, and metrics.
	Name() string

	// Evaluate judges the answer and returns a single outcome.
	// Tier and Duration are stamped by the runner.
	Evaluate(ctx context.Context, in *EvaluateInput) datatypes.ValidationOutcome
}

// pass builds a passing outcome for a validator.
func pass(name, reason string, delta float64) datatypes.ValidationOutcome {
	return datatypes.ValidationOutcome{
		Validator:       name,
		Passed:          true,
		Reason:          reason,
		ConfidenceDelta: delta,
	}
}

// fail builds a failing outcome for a validator.
func fail(name, reason string, delta float64) datatypes.ValidationOutcome {
	return datatypes.ValidationOutcome{
		Validator:       name,
		Passed:          false,
		Reason:          reason,
		ConfidenceDelta: delta,
	}
}
