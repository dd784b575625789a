// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

// Package ingest holds the monitor-side text pipeline: normalizing
// message text, deriving stable dialog IDs for deduplication, and the
// minimum-length gate that keeps one-word exchanges out of the store.
package ingest

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"unicode/utf8"
)

// Minimum lengths (in runes) for an exchange to count as a usable
// question/answer pair.
const (
	MinQuestionLength = 10
	MinAnswerLength   = 15
)

// markdownMarkers are stripped from message text. Chat messages carry
// inline markdown that would leak into the review UI as literal
// asterisks and backticks.
var markdownMarkers = []string{"**", "__", "~~", "```", "`", "*", "_"}

// CleanText normalizes a chat message: strips markdown markers and
// collapses all whitespace runs to single spaces.
func CleanText(text string) string {
	for _, marker := range markdownMarkers {
		text = strings.ReplaceAll(text, marker, "")
	}
	return strings.Join(strings.Fields(text), " ")
}

// DialogID derives the stable deduplication key for a pair. The key
// covers the first 100 runes of question and answer, so later edits to
// long messages do not create duplicate rows.
func DialogID(question, answer string) string {
	sum := md5.Sum([]byte("tgbot:" + truncateRunes(question, 100) + ":" + truncateRunes(answer, 100)))
	return hex.EncodeToString(sum[:])
}

// Acceptable reports whether a cleaned question/answer pair meets the
// minimum length requirements.
func Acceptable(question, answer string) bool {
	return utf8.RuneCountInString(question) >= MinQuestionLength &&
		utf8.RuneCountInString(answer) >= MinAnswerLength
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
