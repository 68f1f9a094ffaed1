// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// =============================================================================
// Limits
// =============================================================================

const (
	// MaxAnswerBytes is the maximum size of an answer accepted for
	// verification. Oversized answers are rejected at the boundary
	// rather than truncated.
	MaxAnswerBytes = 64 * 1024 // 64KB

	// MaxCandidates is the maximum number of retrieved candidates per
	// request.
	MaxCandidates = 100
)

// =============================================================================
// Shared Validator Instance
// =============================================================================

// verifyValidate is the validator instance for verification datatypes.
var verifyValidate *validator.Validate

func init() {
	verifyValidate = validator.New()
	_ = verifyValidate.RegisterValidation("maxanswerbytes", validateMaxAnswerBytes)
	_ = verifyValidate.RegisterValidation("maxcandidates", validateMaxCandidates)
}

// validateMaxAnswerBytes checks byte length, not rune count, so oversized
// payloads cannot slip through multi-byte encodings.
func validateMaxAnswerBytes(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= MaxAnswerBytes
}

// validateMaxCandidates enforces the MaxCandidates constant so the tag
// cannot drift from it.
func validateMaxCandidates(fl validator.FieldLevel) bool {
	return fl.Field().Len() <= MaxCandidates
}

// =============================================================================
// Verify Request
// =============================================================================

// VerifyRequest is the upstream call contract: one generated answer plus
// the retrieval evidence it must be judged against.
//
// # Fields
//
//   - Id: unique request identifier (UUID v4), populated by EnsureDefaults.
//   - Timestamp: Unix milliseconds when the request was created.
//   - Query: the user question the answer responds to.
//   - Answer: the generated answer, with optional citation markers ([1],
//     [2], ...). Limited to 64KB.
//   - Candidates: ordered retrieval results for the query. May be empty;
//     an empty list means no retrieved context exists for this request.
//   - RefersToSelf: whether the question concerns the assistant itself.
//   - TimeBudgetMs: advisory planning budget in milliseconds. Zero means
//     unspecified; negative values are treated as an exhausted budget.
//
// # Validation
//
// Uses go-playground/validator tags plus the maxanswerbytes and
// maxcandidates custom rules, which enforce the package constants.
type VerifyRequest struct {
	Id           string              `json:"id" validate:"omitempty,uuid4"`
	Timestamp    int64               `json:"timestamp"`
	Query        string              `json:"query" validate:"required"`
	Answer       string              `json:"answer" validate:"required,maxanswerbytes"`
	Candidates   []CandidateDocument `json:"candidates" validate:"maxcandidates"`
	RefersToSelf bool                `json:"refers_to_self"`
	TimeBudgetMs int64               `json:"time_budget_ms"`
}

// EnsureDefaults populates the request ID and timestamp when absent.
// The request is modified in place.
func (r *VerifyRequest) EnsureDefaults() {
	if r.Id == "" {
		r.Id = uuid.NewString()
	}
	if r.Timestamp == 0 {
		r.Timestamp = time.Now().UnixMilli()
	}
}

// Validate checks the request against its validation tags.
//
// Returns a wrapped validator error describing the first offending field,
// or nil when the request is well-formed.
func (r *VerifyRequest) Validate() error {
	if err := verifyValidate.Struct(r); err != nil {
		return fmt.Errorf("invalid verify request: %w", err)
	}
	return nil
}

// TimeBudget converts the advisory budget to a duration. The second return
// is false when no budget was specified.
func (r *VerifyRequest) TimeBudget() (time.Duration, bool) {
	if r.TimeBudgetMs == 0 {
		return 0, false
	}
	return time.Duration(r.TimeBudgetMs) * time.Millisecond, true
}

// HasContext reports whether any retrieved candidate carries text.
func (r *VerifyRequest) HasContext() bool {
	for _, c := range r.Candidates {
		if c.Text != "" {
			return true
		}
	}
	return false
}

// =============================================================================
// Verify Result
// =============================================================================

// VerifyResult is the downstream contract handed to response assembly.
//
// Transport, HTTP status codes, and UI concerns belong to the downstream
// collaborator; this struct is the complete in-process payload.
type VerifyResult struct {
	// Id echoes the request identifier.
	Id string `json:"id"`

	// FinalAnswer is the text to show the user: the original answer,
	// or the substituted safe response when UsedFallback is true.
	FinalAnswer string `json:"final_answer"`

	// Confidence is the aggregate confidence in [0,1].
	Confidence float64 `json:"confidence_score"`

	// ValidationPassed mirrors AggregateResult.Passed.
	ValidationPassed bool `json:"validation_passed"`

	// UsedFallback reports whether the safe response was substituted.
	UsedFallback bool `json:"used_fallback"`

	// Outcomes lists every executed validator outcome.
	Outcomes []ValidationOutcome `json:"per_validator_outcomes"`

	// Language is the detected answer language (BCP-47 primary subtag).
	Language string `json:"language,omitempty"`
}
