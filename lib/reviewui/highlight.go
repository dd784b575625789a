// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

package reviewui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// minHighlightTermLength filters noise: search terms this short or
// shorter are not highlighted (prepositions, single letters).
const minHighlightTermLength = 2

// ParseSearchTerms splits a raw search query on whitespace and drops
// terms of [minHighlightTermLength] runes or fewer. Terms are matched
// literally — there is no pattern syntax to escape because matching is
// plain rune comparison, so "C++" or "a.b" highlight exactly those
// characters.
func ParseSearchTerms(query string) []string {
	var terms []string
	for _, term := range strings.Fields(query) {
		if len([]rune(term)) <= minHighlightTermLength {
			continue
		}
		terms = append(terms, term)
	}
	return terms
}

// HighlightTerms renders text with every case-insensitive occurrence
// of each term wrapped in the highlight style and everything else in
// the base style. Matching is rune-based so multi-byte text (the
// pairs are mostly Cyrillic) counts positions correctly. Overlapping
// matches from different terms merge into one highlighted span.
func HighlightTerms(text string, terms []string, base, highlight lipgloss.Style) string {
	if len(terms) == 0 || text == "" {
		return base.Render(text)
	}

	textRunes := []rune(text)
	lowerRunes := []rune(strings.ToLower(text))
	marked := make([]bool, len(lowerRunes))

	for _, term := range terms {
		termRunes := []rune(strings.ToLower(term))
		searchFrom := 0
		for {
			index := runeIndex(lowerRunes[searchFrom:], termRunes)
			if index < 0 {
				break
			}
			start := searchFrom + index
			for position := start; position < start+len(termRunes); position++ {
				marked[position] = true
			}
			searchFrom = start + len(termRunes)
		}
	}

	// Render contiguous runs with a single style application each, so
	// the output stays compact.
	var builder strings.Builder
	runStart := 0
	for position := 1; position <= len(textRunes); position++ {
		if position < len(textRunes) && marked[position] == marked[runStart] {
			continue
		}
		segment := string(textRunes[runStart:position])
		if marked[runStart] {
			builder.WriteString(highlight.Render(segment))
		} else {
			builder.WriteString(base.Render(segment))
		}
		runStart = position
	}
	return builder.String()
}

// runeIndex returns the index of the first occurrence of needle in
// haystack, or -1. The rune-level equivalent of strings.Index.
func runeIndex(haystack, needle []rune) int {
	if len(needle) == 0 {
		return 0
	}
	limit := len(haystack) - len(needle)
	for index := 0; index <= limit; index++ {
		match := true
		for offset := range needle {
			if haystack[index+offset] != needle[offset] {
				match = false
				break
			}
		}
		if match {
			return index
		}
	}
	return -1
}
