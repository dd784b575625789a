// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestExecuteDispatchesSubcommand(t *testing.T) {
	var ran []string
	root := &Command{
		Name: "qa",
		Subcommands: []*Command{
			{
				Name: "monitor",
				Subcommands: []*Command{
					{Name: "start", Run: func(args []string) error {
						ran = append(ran, "start")
						return nil
					}},
				},
			},
		},
	}

	if err := root.Execute([]string{"monitor", "start"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(ran) != 1 || ran[0] != "start" {
		t.Fatalf("ran = %v, want [start]", ran)
	}
}

func TestExecuteUnknownCommandSuggests(t *testing.T) {
	root := &Command{
		Name: "qa",
		Subcommands: []*Command{
			{Name: "monitor", Run: func([]string) error { return nil }},
			{Name: "stats", Run: func([]string) error { return nil }},
		},
	}

	err := root.Execute([]string{"montior"})
	if err == nil {
		t.Fatal("Execute accepted an unknown command")
	}
	if !strings.Contains(err.Error(), `"monitor"`) {
		t.Fatalf("error %q does not suggest monitor", err)
	}
}

func TestExecuteParsesFlags(t *testing.T) {
	var limit int
	command := &Command{
		Name: "backfill",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("backfill", pflag.ContinueOnError)
			flags.IntVar(&limit, "limit", 1000, "message cap")
			return flags
		},
		Run: func(args []string) error { return nil },
	}

	if err := command.Execute([]string{"--limit", "50"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if limit != 50 {
		t.Fatalf("limit = %d, want 50", limit)
	}
}

func TestExecuteUnknownFlagSuggests(t *testing.T) {
	command := &Command{
		Name: "backfill",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("backfill", pflag.ContinueOnError)
			flags.Int("limit", 1000, "message cap")
			return flags
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--limti", "50"})
	if err == nil {
		t.Fatal("Execute accepted an unknown flag")
	}
	if !strings.Contains(err.Error(), "--limit") {
		t.Fatalf("error %q does not suggest --limit", err)
	}
}

func TestExecuteGroupWithoutSubcommand(t *testing.T) {
	root := &Command{
		Name:        "qa",
		Subcommands: []*Command{{Name: "stats"}},
	}
	if err := root.Execute(nil); err == nil {
		t.Fatal("Execute of a bare group succeeded, want error")
	}
}

func TestPrintHelpListsSubcommands(t *testing.T) {
	root := &Command{
		Name:    "qa",
		Summary: "QA pair tooling",
		Subcommands: []*Command{
			{Name: "review", Summary: "interactive review"},
			{Name: "serve", Summary: "run the review service"},
		},
	}
	var builder strings.Builder
	root.PrintHelp(&builder)
	help := builder.String()
	for _, want := range []string{"review", "interactive review", "serve", "run the review service"} {
		if !strings.Contains(help, want) {
			t.Errorf("help output missing %q:\n%s", want, help)
		}
	}
}
