// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/mfmax/QA2/cmd/qa/cli"
	"github.com/mfmax/QA2/lib/config"
	"github.com/mfmax/QA2/lib/qastore"
	"github.com/mfmax/QA2/lib/reviewapi"
	"github.com/mfmax/QA2/lib/reviewui"
)

func reviewCommand() *cli.Command {
	var (
		configPath   *string
		local        bool
		search       string
		direction    string
		questionType string
		audit        string
		source       string
		page         int
	)

	return &cli.Command{
		Name:    "review",
		Summary: "Interactive terminal review of QA pairs",
		Description: `Open the review TUI.

By default pairs load through the review service (qa serve must be
running). With --local the TUI opens the database directly, useful on
the machine that holds it.

Left click (or 'a') toggles audited, right click (or 'x') toggles
irrelevant. A second toggle of the same kind returns the pair to
neutral.`,
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("review", pflag.ContinueOnError)
			configPath = configFlag(flags)
			flags.BoolVar(&local, "local", false, "open the database directly instead of the service")
			flags.StringVar(&search, "search", "", "substring filter on question and answer")
			flags.StringVar(&direction, "direction", "", "filter on Q&A direction")
			flags.StringVar(&questionType, "type", "", "filter on question type")
			flags.StringVar(&audit, "audit", "", `filter on review state: "yes", "irrelevant" or "no"`)
			flags.StringVar(&source, "source", "", `filter on ingestion source ("call", "tgbot")`)
			flags.IntVar(&page, "page", 1, "result page (100 pairs per page)")
			return flags
		},
		Run: func(args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger := cli.NewCommandLogger().With("command", "review")

			var uiSource reviewui.Source
			if local {
				store, err := qastore.Open(cfg.Database, 2, logger)
				if err != nil {
					return err
				}
				defer store.Close()
				uiSource = reviewui.NewStoreSource(store, qastore.Filter{
					Search:       search,
					Direction:    direction,
					QuestionType: questionType,
					Audit:        audit,
					Source:       source,
					Page:         page,
				})
			} else {
				client, err := reviewapi.NewClient(reviewapi.ClientConfig{
					BaseURL: cfg.ResolvedBaseURL(),
					Logger:  logger,
				})
				if err != nil {
					return err
				}
				uiSource = reviewui.NewAPISource(client, reviewapi.PairsQuery{
					Search:       search,
					Direction:    direction,
					QuestionType: questionType,
					Audit:        audit,
					Source:       source,
					Page:         page,
				})
			}

			model, err := reviewui.NewModel(context.Background(), uiSource, reviewui.Options{
				Logger: logger,
			})
			if err != nil {
				return err
			}

			program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("review: running UI: %w", err)
			}
			return nil
		},
	}
}
