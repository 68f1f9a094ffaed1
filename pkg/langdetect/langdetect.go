// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package langdetect provides lightweight language identification for
// short conversational text.
//
// Detection is a stopword-frequency heuristic over the languages the
// fallback templates ship in. It is intentionally small: the pipeline only
// needs to pick a template language and flag query/answer language
// mismatches, not perform general language identification.
package langdetect

import (
	"strings"
	"unicode"
)

// English is the default language code returned when no signal is found.
const English = "en"

// stopwords maps a language code to high-frequency function words.
// Diacritic-bearing entries anchor languages that share vocabulary.
var stopwords = map[string][]string{
	"en": {"the", "is", "are", "was", "and", "of", "to", "in", "that", "it", "this", "with", "for", "not", "what"},
	"es": {"el", "la", "los", "las", "es", "son", "de", "que", "en", "una", "por", "para", "como", "está", "qué"},
	"fr": {"le", "la", "les", "est", "sont", "de", "que", "dans", "une", "pour", "pas", "avec", "c'est", "être", "quoi"},
	"de": {"der", "die", "das", "ist", "sind", "und", "von", "nicht", "ein", "eine", "mit", "für", "auf", "werden", "was"},
	"vi": {"là", "của", "và", "không", "có", "được", "trong", "này", "cho", "những", "một", "các", "với", "tại", "gì"},
}

// Detect returns the best-guess language code for text.
//
// Ties and empty input resolve to English. The result is the language
// whose stopword set matches the most tokens; single-token matches are
// accepted because conversational queries can be very short.
func Detect(text string) string {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return English
	}

	best := English
	bestHits := 0
	// Deterministic iteration order so ties are stable.
	for _, lang := range []string{"en", "es", "fr", "de", "vi"} {
		hits := 0
		for _, tok := range tokens {
			for _, sw := range stopwords[lang] {
				if tok == sw {
					hits++
					break
				}
			}
		}
		if hits > bestHits {
			bestHits = hits
			best = lang
		}
	}
	return best
}

// Supported reports whether a template language is available for code.
func Supported(code string) bool {
	_, ok := stopwords[code]
	return ok
}

// tokenize lower-cases and splits on anything that is not a letter,
// keeping apostrophes so French contractions survive.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}
