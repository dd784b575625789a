// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/spf13/pflag"

	"github.com/mfmax/QA2/cmd/qa/cli"
	"github.com/mfmax/QA2/lib/config"
	"github.com/mfmax/QA2/lib/qastore"
	"github.com/mfmax/QA2/lib/reviewapi"
)

// checkResult is one line of the self-test report.
type checkResult struct {
	name    string
	status  checkStatus
	message string
}

type checkStatus int

const (
	checkOK checkStatus = iota
	checkWarn
	checkFail
)

func (s checkStatus) glyph() string {
	switch s {
	case checkOK:
		return "✅"
	case checkWarn:
		return "⚠️"
	default:
		return "❌"
	}
}

func checkCommand() *cli.Command {
	var configPath *string

	return &cli.Command{
		Name:    "check",
		Summary: "Connectivity and environment self-test",
		Description: `Run the environment self-test: configuration,
database access, review service reachability, tmux availability and
monitor state. Each check prints a glyph status line. Exit code is 1
when any check fails outright; warnings do not affect the exit code.`,
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("check", pflag.ContinueOnError)
			configPath = configFlag(flags)
			return flags
		},
		Run: func(args []string) error {
			results, failed := runChecks(*configPath)
			for _, result := range results {
				fmt.Printf("%s %-16s %s\n", result.status.glyph(), result.name, result.message)
			}
			if failed {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}

func runChecks(configPath string) (results []checkResult, failed bool) {
	report := func(name string, status checkStatus, format string, args ...any) {
		results = append(results, checkResult{name: name, status: status, message: fmt.Sprintf(format, args...)})
		if status == checkFail {
			failed = true
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		report("config", checkFail, "%v", err)
		return results, failed
	}
	report("config", checkOK, "database=%s listen=%s", cfg.Database, cfg.Server.Listen)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := qastore.Open(cfg.Database, 1, nil)
	if err != nil {
		report("database", checkFail, "%v", err)
	} else {
		stats, statsErr := store.Statistics(ctx)
		store.Close()
		if statsErr != nil {
			report("database", checkFail, "%v", statsErr)
		} else {
			report("database", checkOK, "%d pairs (%d audited, %d irrelevant)",
				stats.TotalPairs, stats.AuditedCount, stats.IrrelevantCount)
		}
	}

	client, err := reviewapi.NewClient(reviewapi.ClientConfig{BaseURL: cfg.ResolvedBaseURL()})
	if err != nil {
		report("service", checkFail, "%v", err)
	} else if err := client.Ping(ctx); err != nil {
		// A stopped service is a normal state for local-only review.
		report("service", checkWarn, "unreachable at %s (qa serve not running?)", cfg.ResolvedBaseURL())
	} else {
		report("service", checkOK, "healthy at %s", cfg.ResolvedBaseURL())
	}

	if _, err := exec.LookPath("tmux"); err != nil {
		report("tmux", checkWarn, "not found in PATH (monitor supervision unavailable)")
	} else {
		report("tmux", checkOK, "available")

		status, statusErr := newSupervisor(cfg).Status()
		switch {
		case statusErr != nil:
			report("monitor", checkWarn, "%v", statusErr)
		case status.Running:
			report("monitor", checkOK, "running (session %s)", cfg.Monitor.Session)
		case status.Exited:
			report("monitor", checkFail, "exited with code %d", status.ExitCode)
		default:
			report("monitor", checkWarn, "not running")
		}
	}

	return results, failed
}
