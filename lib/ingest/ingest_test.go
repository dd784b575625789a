// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"strings"
	"testing"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text unchanged", "hello there", "hello there"},
		{"bold stripped", "this is **important** text", "this is important text"},
		{"code stripped", "run `go build` first", "run go build first"},
		{"whitespace collapsed", "  too \n\t many   spaces ", "too many spaces"},
		{"mixed markers", "__a__ ~~b~~ *c*", "a b c"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := CleanText(test.in); got != test.want {
				t.Errorf("CleanText(%q) = %q, want %q", test.in, got, test.want)
			}
		})
	}
}

func TestDialogIDStableUnderLongTails(t *testing.T) {
	question := strings.Repeat("в", 150)
	answer := strings.Repeat("о", 150)
	base := DialogID(question, answer)

	// Changes beyond the first 100 runes do not change the ID.
	if DialogID(question+"tail", answer) != base {
		t.Error("dialog ID changed when question tail changed")
	}
	// Changes within the first 100 runes do.
	if DialogID("x"+question, answer) == base {
		t.Error("dialog ID ignored a leading question change")
	}
	if len(base) != 32 {
		t.Errorf("dialog ID length = %d, want 32 hex chars", len(base))
	}
}

func TestAcceptable(t *testing.T) {
	if Acceptable("short?", "this answer is long enough") {
		t.Error("short question accepted")
	}
	if Acceptable("a long enough question", "too short") {
		t.Error("short answer accepted")
	}
	if !Acceptable("a long enough question", "and a long enough answer too") {
		t.Error("valid pair rejected")
	}
}
