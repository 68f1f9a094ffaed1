// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package langdetect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDetect_KnownLanguages verifies common conversational sentences
// resolve to the right code.
func TestDetect_KnownLanguages(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"What is the capital of France and what is it known for?", "en"},
		{"¿Qué es la capital de Francia y por qué es importante?", "es"},
		{"Quelle est la capitale de la France et pour quoi est-elle connue ?", "fr"},
		{"Was ist die Hauptstadt von Frankreich und ist sie wichtig?", "de"},
		{"Thủ đô của Pháp là gì và nó có những điểm gì nổi bật?", "vi"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Detect(tc.text), "text: %s", tc.text)
	}
}

// TestDetect_EmptyAndUnknownDefaultToEnglish verifies the fallback
// default.
func TestDetect_EmptyAndUnknownDefaultToEnglish(t *testing.T) {
	assert.Equal(t, English, Detect(""))
	assert.Equal(t, English, Detect("12345 67890"))
	assert.Equal(t, English, Detect("zzz qqq xxx"))
}

// TestDetect_Deterministic verifies repeated calls agree.
func TestDetect_Deterministic(t *testing.T) {
	text := "la capitale de la France est Paris"
	first := Detect(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Detect(text))
	}
}

// TestSupported verifies the template language set.
func TestSupported(t *testing.T) {
	for _, code := range []string{"en", "es", "fr", "de", "vi"} {
		assert.True(t, Supported(code), code)
	}
	assert.False(t, Supported("ja"))
	assert.False(t, Supported(""))
}
