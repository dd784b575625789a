// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/mfmax/QA2/cmd/qa/cli"
	"github.com/mfmax/QA2/lib/config"
	"github.com/mfmax/QA2/lib/ingest"
	"github.com/mfmax/QA2/lib/qastore"
)

func importCommand() *cli.Command {
	var (
		configPath *string
		source     string
	)
	return &cli.Command{
		Name:    "import",
		Summary: "Import question/answer pairs from a JSONL export",
		Usage:   "qa import [flags] [file]",
		Description: `Read exchanges from a JSONL file (one JSON object per line,
with "question" and "answer" fields) and insert them into the database.

Each exchange goes through the full ingestion pipeline: markdown is
stripped, whitespace collapsed, too-short exchanges are dropped, and
pairs already present are skipped by dialog-ID dedup, so re-importing
the same export is safe. With no file argument (or "-") the records
are read from standard input.`,
		Examples: []cli.Example{
			{
				Description: "Import a monitor export",
				Command:     "qa import chat-export.jsonl",
			},
			{
				Description: "Import from a pipe",
				Command:     "tg-export --days 30 | qa import -",
			},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("import", pflag.ContinueOnError)
			configPath = configFlag(flags)
			flags.StringVar(&source, "source", "tgbot", "source label stored on imported pairs")
			return flags
		},
		Run: func(args []string) error {
			if len(args) > 1 {
				return fmt.Errorf("import: expected at most one file argument, got %d", len(args))
			}
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger := cli.NewCommandLogger().With("command", "import")

			var input io.Reader = os.Stdin
			if len(args) == 1 && args[0] != "-" {
				file, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("import: %w", err)
				}
				defer file.Close()
				input = file
			}

			store, err := qastore.Open(cfg.Database, 1, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			summary, err := ingest.ImportJSONL(context.Background(), store, input, source, logger)
			if err != nil {
				return err
			}
			fmt.Printf("imported %d pairs (%d duplicates skipped, %d rejected)\n",
				summary.Inserted, summary.Duplicates, summary.Rejected)
			return nil
		},
	}
}
