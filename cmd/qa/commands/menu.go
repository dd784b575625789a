// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/mfmax/QA2/cmd/qa/cli"
)

// menuEntry is one selectable action. Each action is a regular command
// Run and control always returns to the menu afterwards, whatever the
// action's outcome.
type menuEntry struct {
	key     string
	label   string
	command func() *cli.Command
}

// menuEntries is the full operator surface, in the order presented.
func menuEntries() []menuEntry {
	return []menuEntry{
		{"1", "review pairs (TUI)", reviewCommand},
		{"2", "database statistics", statsCommand},
		{"3", "start monitor", monitorStartCommand},
		{"4", "stop monitor", monitorStopCommand},
		{"5", "monitor status", monitorStatusCommand},
		{"6", "monitor log", monitorLogCommand},
		{"7", "history backfill", monitorBackfillCommand},
		{"8", "cleanup stray monitors", monitorCleanupCommand},
		{"9", "environment check", checkCommand},
	}
}

func menuCommand() *cli.Command {
	var configPath *string

	entries := menuEntries()

	return &cli.Command{
		Name:    "menu",
		Summary: "Interactive operator menu",
		Description: `Loop over the common operator actions. Every action
returns to the menu when it finishes; 'q' (or end of input) exits with
status 0.`,
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("menu", pflag.ContinueOnError)
			configPath = configFlag(flags)
			return flags
		},
		Run: func(args []string) error {
			return runMenu(os.Stdin, os.Stdout, entries, *configPath)
		},
	}
}

func runMenu(input io.Reader, output io.Writer, entries []menuEntry, configPath string) error {
	reader := bufio.NewReader(input)
	for {
		fmt.Fprintln(output, "\nqa operator menu")
		for _, entry := range entries {
			fmt.Fprintf(output, "  %s) %s\n", entry.key, entry.label)
		}
		fmt.Fprint(output, "  q) quit\n> ")

		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(output)
				return nil
			}
			return fmt.Errorf("menu: reading selection: %w", err)
		}

		choice := strings.TrimSpace(line)
		if choice == "q" || choice == "quit" || choice == "exit" {
			return nil
		}

		selected := findMenuEntry(entries, choice)
		if selected == nil {
			fmt.Fprintf(output, "unknown selection %q\n", choice)
			continue
		}

		// Failures print but never break the loop: the menu is the
		// operator's home base.
		commandArgs := []string{}
		if configPath != "" {
			commandArgs = append(commandArgs, "--config", configPath)
		}
		if err := selected.command().Execute(commandArgs); err != nil {
			if coder, ok := err.(interface{ ExitCode() int }); ok {
				fmt.Fprintf(output, "(exit code %d)\n", coder.ExitCode())
			} else {
				fmt.Fprintf(output, "error: %v\n", err)
			}
		}
	}
}

func findMenuEntry(entries []menuEntry, key string) *menuEntry {
	for i := range entries {
		if entries[i].key == key {
			return &entries[i]
		}
	}
	return nil
}
