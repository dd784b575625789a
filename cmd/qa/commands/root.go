// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the qa CLI command tree: the review TUI, the
// HTTP service, monitor supervision, statistics, the connectivity
// self-test, and the operator menu.
package commands

import (
	"github.com/spf13/pflag"

	"github.com/mfmax/QA2/cmd/qa/cli"
	"github.com/mfmax/QA2/lib/config"
)

// Root builds the complete qa command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "qa",
		Description: `qa: review tooling for extracted question/answer pairs.

Browse and classify pairs in a terminal UI, serve the review HTTP API,
and supervise the live ingestion monitor.`,
		Subcommands: []*cli.Command{
			reviewCommand(),
			serveCommand(),
			monitorCommand(),
			importCommand(),
			statsCommand(),
			checkCommand(),
			menuCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Verify the environment before anything else",
				Command:     "qa check",
			},
			{
				Description: "Review pairs through the running service",
				Command:     "qa review --search roaming",
			},
			{
				Description: "Review straight off the local database",
				Command:     "qa review --local --audit no",
			},
			{
				Description: "Start the review service",
				Command:     "qa serve",
			},
			{
				Description: "Start the supervised ingestion monitor",
				Command:     "qa monitor start",
			},
			{
				Description: "Import a chat export into the database",
				Command:     "qa import chat-export.jsonl",
			},
		},
	}
}

// configFlag registers the shared --config flag and returns the bound
// destination. Every leaf command takes it so QA_CONFIG never has to be
// exported just for a one-off invocation.
func configFlag(flags *pflag.FlagSet) *string {
	return flags.String("config", "", "path to the configuration file (default: $"+config.EnvVar+")")
}
