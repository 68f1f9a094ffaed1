// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package classify labels claims by the kind of justification they need.
//
// The classifier is deterministic and rule-ordered: the first matching
// rule wins, and ambiguity always resolves toward requiring evidence,
// never toward leniency. It carries no model dependency and is safe for
// concurrent use after construction.
package classify

import (
	"regexp"
	"strings"

	"github.com/AleutianAI/AleutianVerify/datatypes"
)

// Package-level compiled patterns (compiled once).
var (
	// selfReferencePattern detects claims about the assistant's own
	// identity or capabilities.
	selfReferencePattern = regexp.MustCompile(
		`(?i)\b(i am an (ai|assistant|language model)|as an (ai|assistant)|my (capabilities|training|creators|knowledge cutoff)|i (was|am) (trained|built|designed|created)|who (are|made) you|your (name|identity|purpose))\b`)

	// reasoningPattern detects conditional and causal connectives that
	// mark a logical or philosophical inference.
	reasoningPattern = regexp.MustCompile(
		`(?i)\b(therefore|thus|hence|consequently|it follows that|implies|if\b.+\bthen|because|given that|assuming|by definition|logically)\b`)

	// generalFactPatterns is the curated set of universally agreed,
	// pre-cutoff facts. Intentionally narrow: anything outside it falls
	// through to the conservative default.
	generalFactPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bwater (boils|freezes) at\b`),
		regexp.MustCompile(`(?i)\bthe earth (orbits|revolves around) the sun\b`),
		regexp.MustCompile(`(?i)\bthe sun rises in the east\b`),
		regexp.MustCompile(`(?i)\bthere are (seven|7) (days in a week|continents)\b`),
		regexp.MustCompile(`(?i)\bthe speed of light\b`),
		regexp.MustCompile(`(?i)\bhumans? (need|require) (water|oxygen|air) to (live|survive)\b`),
		regexp.MustCompile(`(?i)\b(two plus two|2 \+ 2) (equals|is) (four|4)\b`),
		regexp.MustCompile(`(?i)\bparis is the capital of france\b`),
	}
)

// ClaimInput carries one claim span and the request facts the rules need.
type ClaimInput struct {
	// Text is the claim span to classify.
	Text string

	// HasRetrievedContext reports whether retrieval produced any
	// documents for this request.
	HasRetrievedContext bool

	// RefersToSelf reports whether the question concerns the assistant
	// itself (set by the caller from conversation state).
	RefersToSelf bool

	// QuestionContext is the user question, consulted by the
	// self-knowledge rule.
	QuestionContext string
}

// Classifier assigns a KnowledgeType to each claim.
//
// Thread Safety: safe for concurrent use (stateless after construction).
type Classifier struct{}

// NewClassifier creates a rule-based claim classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify applies the rule order and returns the first match:
//
//  1. Claim or question concerns the assistant's own identity or
//     capabilities → KnowledgeSelf.
//  2. Retrieved context exists for this request → KnowledgeFactualClaim.
//  3. Claim matches the curated general-fact set → KnowledgeGeneral.
//  4. Claim is a logical inference (conditional or causal connectives)
//     → KnowledgeReasoning.
//  5. Default → KnowledgeFactualClaim.
func (c *Classifier) Classify(in ClaimInput) datatypes.KnowledgeType {
	if in.RefersToSelf || selfReferencePattern.MatchString(in.Text) ||
		selfReferencePattern.MatchString(in.QuestionContext) {
		return datatypes.KnowledgeSelf
	}

	if in.HasRetrievedContext {
		return datatypes.KnowledgeFactualClaim
	}

	for _, p := range generalFactPatterns {
		if p.MatchString(in.Text) {
			return datatypes.KnowledgeGeneral
		}
	}

	if reasoningPattern.MatchString(in.Text) {
		return datatypes.KnowledgeReasoning
	}

	return datatypes.KnowledgeFactualClaim
}

// CitationMarkerFormat is the marker format attached to factual claims.
const CitationMarkerFormat = "[n]"

// CitationRequirement returns whether the knowledge type demands a
// citation, and the marker format to use when it does.
//
// Pure function of the classification; no side effects.
func CitationRequirement(kind datatypes.KnowledgeType) (bool, string) {
	switch kind {
	case datatypes.KnowledgeFactualClaim:
		return true, CitationMarkerFormat
	case datatypes.KnowledgeGeneral:
		// Optional: a marker is welcome but absence is not a violation.
		return false, CitationMarkerFormat
	case datatypes.KnowledgeSelf:
		// Self-knowledge cites the foundational-knowledge path, not
		// retrieved documents.
		return false, ""
	default:
		return false, ""
	}
}

// normalizeSpan trims the whitespace and list bullets sentence splitting
// leaves behind.
func normalizeSpan(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "-*• \t")
	return strings.TrimSpace(s)
}
