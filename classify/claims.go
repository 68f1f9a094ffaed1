// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package classify

import (
	"regexp"
	"strings"

	"github.com/AleutianAI/AleutianVerify/datatypes"
)

var (
	// sentenceBoundary splits on terminal punctuation followed by
	// whitespace. Newlines also terminate a span so list items become
	// separate claims.
	sentenceBoundary = regexp.MustCompile(`(?:[.!?]+\s+|\n+)`)

	// citationMarker matches [1], [2], ... markers as attached to claims
	// by the generation step.
	citationMarker = regexp.MustCompile(`\[\d+\]`)

	// leadingMarkers matches markers stranded at the start of a span.
	// Generation emits "claim. [1]", so the splitter hands the marker to
	// the following sentence; it belongs to the preceding claim.
	leadingMarkers = regexp.MustCompile(`^\s*(?:\[\d+\]\s*)+`)
)

// ExtractClaims segments an answer into claim spans and classifies each.
//
// # Description
//
// Splits the answer at sentence boundaries, drops spans too short to
// carry a verifiable statement, detects attached citation markers, and
// classifies every span through the rule order. Claims are derived per
// request and never persisted.
//
// # Inputs
//
//   - classifier: The rule classifier to apply. Must not be nil.
//   - answer: The generated answer text.
//   - hasContext: Whether retrieval produced documents for this request.
//   - refersToSelf: Whether the question concerns the assistant itself.
//   - question: The user question, consulted by the self-knowledge rule.
//
// # Outputs
//
//   - []datatypes.Claim: Claim spans in answer order with byte positions.
func ExtractClaims(classifier *Classifier, answer string, hasContext, refersToSelf bool, question string) []datatypes.Claim {
	var claims []datatypes.Claim

	pos := 0
	for _, span := range splitSentences(answer) {
		offset := strings.Index(answer[pos:], span)
		if offset < 0 {
			offset = 0
		}
		position := pos + offset
		pos = position + len(span)

		// Markers stranded at the start of this span cite the previous
		// claim; move them back before classifying.
		if m := leadingMarkers.FindString(span); m != "" && len(claims) > 0 {
			prev := &claims[len(claims)-1]
			prev.HasCitation = true
			prev.Text = prev.Text + " " + strings.TrimSpace(m)
			span = span[len(m):]
			position += len(m)
		}

		text := normalizeSpan(span)
		if !isClaimWorthy(text) {
			continue
		}

		claims = append(claims, datatypes.Claim{
			Text:        text,
			Position:    position,
			HasCitation: citationMarker.MatchString(span),
			Type: classifier.Classify(ClaimInput{
				Text:                text,
				HasRetrievedContext: hasContext,
				RefersToSelf:        refersToSelf,
				QuestionContext:     question,
			}),
		})
	}

	return claims
}

// splitSentences returns the non-empty sentence spans of text.
func splitSentences(text string) []string {
	parts := sentenceBoundary.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// isClaimWorthy filters spans too short or too empty to verify.
func isClaimWorthy(text string) bool {
	if len(text) < 8 {
		return false
	}
	words := strings.Fields(text)
	return len(words) >= 3
}
