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
	"regexp"
	"strings"

	"github.com/AleutianAI/AleutianVerify/datatypes"
)

// commonWordsSet filters function words from overlap scoring. Kept as a
// package-level set to avoid allocating a map per call.
var commonWordsSet = map[string]bool{
	"the": true, "a": true, "an": true, "this": true, "that": true,
	"is": true, "are": true, "was": true, "were": true, "be": true,
	"have": true, "has": true, "had": true, "do": true, "does": true,
	"and": true, "or": true, "but": true, "not": true, "with": true,
	"for": true, "from": true, "into": true, "of": true, "to": true,
	"in": true, "on": true, "at": true, "by": true, "as": true,
	"it": true, "its": true, "they": true, "their": true, "there": true,
	"which": true, "what": true, "when": true, "where": true, "who": true,
	"will": true, "would": true, "can": true, "could": true, "may": true,
}

// citationMarkerIndex extracts the numeric index from [n] markers.
var citationMarkerIndex = regexp.MustCompile(`\[(\d+)\]`)

// contentWords returns the set of lower-cased non-stopword tokens of at
// least 3 runes.
func contentWords(text string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,;:!?()[]{}\"'`")
		if len([]rune(tok)) < 3 || commonWordsSet[tok] {
			continue
		}
		set[tok] = true
	}
	return set
}

// supportScore returns the fraction of the claim's content words found
// in the document, in [0,1].
func supportScore(claim, document string) float64 {
	claimWords := contentWords(claim)
	if len(claimWords) == 0 {
		return 0
	}
	docWords := contentWords(document)
	hits := 0
	for w := range claimWords {
		if docWords[w] {
			hits++
		}
	}
	return float64(hits) / float64(len(claimWords))
}

// maxSupport returns the best support score for a claim across all
// documents, and the index of the supporting document (-1 when none).
func maxSupport(claim string, docs []datatypes.CandidateDocument) (float64, int) {
	best := 0.0
	bestIdx := -1
	for i, d := range docs {
		if d.Text == "" {
			continue
		}
		if s := supportScore(claim, d.Text); s > best {
			best = s
			bestIdx = i
		}
	}
	return best, bestIdx
}

// supportingDocs counts documents supporting the claim at or above the
// threshold.
func supportingDocs(claim string, docs []datatypes.CandidateDocument, threshold float64) int {
	n := 0
	for _, d := range docs {
		if d.Text != "" && supportScore(claim, d.Text) >= threshold {
			n++
		}
	}
	return n
}

// documentByRank resolves a 1-based citation index to its document.
// Markers are authored by the generation step against the original
// retrieval order, so lookup goes through OriginalRank when the
// reranker has stamped it; unranked lists fall back to positional
// lookup.
func documentByRank(docs []datatypes.CandidateDocument, idx int) (datatypes.CandidateDocument, bool) {
	ranked := false
	for _, d := range docs {
		if d.OriginalRank == idx {
			return d, true
		}
		if d.OriginalRank != 0 {
			ranked = true
		}
	}
	if !ranked && idx >= 1 && idx <= len(docs) {
		return docs[idx-1], true
	}
	return datatypes.CandidateDocument{}, false
}

// citationIndices returns the distinct [n] marker indices in text, in
// order of first appearance.
func citationIndices(text string) []int {
	var out []int
	seen := map[int]bool{}
	for _, m := range citationMarkerIndex.FindAllStringSubmatch(text, -1) {
		n := 0
		for _, r := range m[1] {
			n = n*10 + int(r-'0')
		}
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// clamp01 clamps v to [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
