// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes provides data structures for the verification pipeline.
//
// This file contains the request-scoped value types that flow through the
// pipeline: retrieved candidates, extracted claims, validator outcomes,
// execution plans, and the aggregated verdict. For the external call
// contract see request.go.
package datatypes

import (
	"time"
)

// =============================================================================
// Knowledge Types
// =============================================================================

// KnowledgeType classifies a claim by the kind of justification it requires.
//
// The classification determines the claim's citation obligation:
//
//   - KnowledgeFactualClaim: citation mandatory
//   - KnowledgeGeneral: citation optional
//   - KnowledgeReasoning: no citation required
//   - KnowledgeSelf: handled by the foundational-knowledge path,
//     not by general citation rules
type KnowledgeType string

const (
	// KnowledgeFactualClaim is a claim that must be backed by retrieved
	// evidence. This is also the conservative default when classification
	// is ambiguous.
	KnowledgeFactualClaim KnowledgeType = "factual_claim"

	// KnowledgeGeneral is a universally agreed, pre-cutoff fact.
	KnowledgeGeneral KnowledgeType = "general_knowledge"

	// KnowledgeReasoning is a logical or philosophical inference.
	KnowledgeReasoning KnowledgeType = "reasoning"

	// KnowledgeSelf concerns the system's own identity or capabilities.
	KnowledgeSelf KnowledgeType = "self_knowledge"
)

// =============================================================================
// Tiers
// =============================================================================

// Tier is the priority class of a validator. It determines whether the
// validator must run under time pressure.
type Tier string

const (
	// TierCritical validators always run, regardless of time budget.
	TierCritical Tier = "critical"

	// TierImportant validators run unless the remaining budget is
	// below the important-tier floor.
	TierImportant Tier = "important"

	// TierOptional validators are safely skippable under time pressure.
	// Unknown validator identities default to this tier.
	TierOptional Tier = "optional"
)

// =============================================================================
// Candidate Documents
// =============================================================================

// DocumentMetadata carries provenance for a retrieved candidate.
type DocumentMetadata struct {
	// SourceID identifies the originating document or chunk.
	SourceID string `json:"source_id"`

	// Timestamp is the Unix timestamp (seconds) of the source, if known.
	Timestamp int64 `json:"timestamp,omitempty"`
}

// CandidateDocument is one retrieved evidence candidate.
//
// Candidates are created by the external retrieval step, annotated by the
// reranker (score and rank), and discarded after validation. They are owned
// transiently by a single request.
type CandidateDocument struct {
	// Text is the document content. Candidates without extractable text
	// are skipped from scoring and appended unscored by the reranker.
	Text string `json:"document_text"`

	// Metadata carries source identity and timestamp.
	Metadata DocumentMetadata `json:"metadata"`

	// RelevanceScore is the score assigned by the most recent scorer.
	// Raw values are model-specific: only relative order within one
	// rerank call is meaningful.
	RelevanceScore float64 `json:"relevance_score"`

	// OriginalRank is the candidate's position in the retrieval order,
	// retained for auditability across reranking.
	OriginalRank int `json:"original_rank"`
}

// =============================================================================
// Claims
// =============================================================================

// Claim is a text span extracted from a generated answer.
type Claim struct {
	// Text is the claim span.
	Text string `json:"text"`

	// Type is the knowledge classification of the claim.
	Type KnowledgeType `json:"type"`

	// HasCitation reports whether a citation marker is attached to the span.
	HasCitation bool `json:"has_citation"`

	// Position is the byte offset of the span in the answer.
	Position int `json:"position"`
}

// =============================================================================
// Validation Outcomes
// =============================================================================

// ReasonValidatorError marks an outcome produced when a validator raised
// an unexpected error. The error is scoped to that validator only; for a
// CRITICAL validator it still forces overall failure (fail-closed).
const ReasonValidatorError = "validator_error"

// ValidationOutcome is the immutable result of exactly one validator
// execution.
type ValidationOutcome struct {
	// Validator is the identity of the validator that produced the outcome.
	Validator string `json:"validator"`

	// Tier is the priority class the validator ran under.
	Tier Tier `json:"tier"`

	// Passed reports whether the check succeeded.
	Passed bool `json:"passed"`

	// Reason explains a failure, or annotates a pass.
	Reason string `json:"reason,omitempty"`

	// ConfidenceDelta is the validator's signed contribution to the
	// aggregate confidence score.
	ConfidenceDelta float64 `json:"confidence_delta"`

	// Duration is the wall-clock execution time of the validator.
	Duration time.Duration `json:"duration"`
}

// =============================================================================
// Validation Plan
// =============================================================================

// ValidationPlan partitions the validator set by tier for one request.
//
// The plan is computed once, before any validator executes, and is never
// mutated afterward: there is no re-planning mid-flight. Validators listed
// under Critical and Important are scheduled; Optional validators execute
// only when ShouldRunOptional is true.
type ValidationPlan struct {
	// Critical lists every CRITICAL validator supplied. Time budgets
	// never exclude a CRITICAL validator.
	Critical []string `json:"critical"`

	// Important lists the IMPORTANT validators admitted under the budget.
	Important []string `json:"important"`

	// Optional lists the OPTIONAL validators supplied.
	Optional []string `json:"optional"`

	// ShouldRunOptional reports whether the Optional list executes.
	ShouldRunOptional bool `json:"should_run_optional"`

	// EstimatedCost is the static pre-flight estimate for the full
	// validator set: count × flat per-validator cost. It is a planning
	// constant, not a measurement.
	EstimatedCost time.Duration `json:"estimated_cost"`
}

// Scheduled returns the validator identities that will actually execute
// under this plan, in tier order.
func (p *ValidationPlan) Scheduled() []string {
	n := len(p.Critical) + len(p.Important)
	if p.ShouldRunOptional {
		n += len(p.Optional)
	}
	out := make([]string, 0, n)
	out = append(out, p.Critical...)
	out = append(out, p.Important...)
	if p.ShouldRunOptional {
		out = append(out, p.Optional...)
	}
	return out
}

// Contains reports whether the named validator is scheduled to execute.
func (p *ValidationPlan) Contains(name string) bool {
	for _, s := range p.Scheduled() {
		if s == name {
			return true
		}
	}
	return false
}

// =============================================================================
// Aggregate Result
// =============================================================================

// AggregateResult merges all executed outcomes into one verdict.
type AggregateResult struct {
	// Confidence is the overall score, always clamped to [0,1].
	Confidence float64 `json:"confidence"`

	// Passed is false whenever any CRITICAL outcome failed,
	// independent of all other scores.
	Passed bool `json:"passed"`

	// UsedFallback reports whether the answer was substituted.
	UsedFallback bool `json:"used_fallback"`

	// Outcomes is the full list of executed validator outcomes.
	Outcomes []ValidationOutcome `json:"outcomes"`
}

// =============================================================================
// Fallback Decision
// =============================================================================

// FallbackDecision records whether a safe response was substituted for
// the generated answer.
//
// Invariant: once Triggered is true, the original answer must never be
// the value returned downstream.
type FallbackDecision struct {
	// Triggered reports whether substitution occurred.
	Triggered bool `json:"triggered"`

	// Reason explains why the fallback fired.
	Reason string `json:"reason,omitempty"`

	// Response is the templated, language-appropriate safe response.
	Response string `json:"response,omitempty"`

	// Language is the language code the template was rendered in.
	Language string `json:"language,omitempty"`
}
