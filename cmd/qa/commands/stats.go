// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/pflag"

	"github.com/mfmax/QA2/cmd/qa/cli"
	"github.com/mfmax/QA2/lib/config"
	"github.com/mfmax/QA2/lib/qastore"
)

func statsCommand() *cli.Command {
	var (
		configPath *string
		recent     int
	)

	return &cli.Command{
		Name:    "stats",
		Summary: "Show database statistics",
		Description: `Print aggregate pair statistics from the database:
totals, audited and irrelevant counts, breakdowns by direction and
source, and the most recently extracted pairs.`,
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("stats", pflag.ContinueOnError)
			configPath = configFlag(flags)
			flags.IntVar(&recent, "recent", 5, "how many recent pairs to list (0 = none)")
			return flags
		},
		Run: func(args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger := cli.NewCommandLogger().With("command", "stats")

			store, err := qastore.Open(cfg.Database, 1, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := context.Background()
			stats, err := store.Statistics(ctx)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintf(tw, "total pairs\t%d\n", stats.TotalPairs)
			fmt.Fprintf(tw, "audited\t%d\n", stats.AuditedCount)
			fmt.Fprintf(tw, "irrelevant\t%d\n", stats.IrrelevantCount)
			fmt.Fprintf(tw, "unreviewed\t%d\n", stats.TotalPairs-stats.AuditedCount-stats.IrrelevantCount)
			for _, label := range sortedKeys(stats.ByDirection) {
				fmt.Fprintf(tw, "direction %s\t%d\n", label, stats.ByDirection[label])
			}
			for _, label := range sortedKeys(stats.BySource) {
				fmt.Fprintf(tw, "source %s\t%d\n", label, stats.BySource[label])
			}
			types, err := store.QuestionTypes(ctx)
			if err != nil {
				return err
			}
			if len(types) > 0 {
				fmt.Fprintf(tw, "question types\t%s\n", strings.Join(types, ", "))
			}
			tw.Flush()

			if recent > 0 {
				pairs, err := store.Recent(ctx, recent)
				if err != nil {
					return err
				}
				if len(pairs) > 0 {
					fmt.Println("\nrecent pairs:")
					for _, pair := range pairs {
						fmt.Printf("  %s%-6d %s\n", pair.Classification.Glyph(), pair.ID,
							ansi.Truncate(pair.Question, 70, "…"))
					}
				}
			}
			return nil
		},
	}
}

func sortedKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
