// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"monitor", "monitor", 0},
		{"montior", "monitor", 2},
		{"stat", "stats", 1},
		{"serve", "review", 4},
	}
	for _, test := range tests {
		if got := levenshtein(test.a, test.b); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
	}
}

func TestSuggestCommand(t *testing.T) {
	commands := []*Command{
		{Name: "review"},
		{Name: "serve"},
		{Name: "monitor"},
	}

	tests := []struct {
		input string
		want  string
	}{
		{"montor", "monitor"},
		{"reveiw", "review"},
		{"completely-different", ""},
	}
	for _, test := range tests {
		if got := suggestCommand(test.input, commands); got != test.want {
			t.Errorf("suggestCommand(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestSuggestFlag(t *testing.T) {
	makeFlags := func() *pflag.FlagSet {
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.Int("limit", 0, "")
		flags.String("search", "", "")
		return flags
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"typo with value", []string{"--limti", "5"}, "--limit"},
		{"typo with equals", []string{"--serach=tariff"}, "--search"},
		{"defined flag skipped", []string{"--limit", "5"}, ""},
		{"nothing close", []string{"--zzzzzzzz"}, ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := suggestFlag(test.args, makeFlags()); got != test.want {
				t.Errorf("suggestFlag(%v) = %q, want %q", test.args, got, test.want)
			}
		})
	}
}
