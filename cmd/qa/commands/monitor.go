// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/mfmax/QA2/cmd/qa/cli"
	"github.com/mfmax/QA2/lib/config"
	"github.com/mfmax/QA2/lib/monitor"
)

func monitorCommand() *cli.Command {
	return &cli.Command{
		Name:    "monitor",
		Summary: "Supervise the live ingestion monitor",
		Description: `Manage the ingestion monitor process.

The monitor runs detached in a dedicated tmux server so it survives the
operator's session. start, stop, status and log act on that session;
backfill runs the monitor once in the foreground over message history;
cleanup hunts down monitor processes that outlived their session.`,
		Subcommands: []*cli.Command{
			monitorStartCommand(),
			monitorStopCommand(),
			monitorStatusCommand(),
			monitorLogCommand(),
			monitorBackfillCommand(),
			monitorCleanupCommand(),
		},
	}
}

func newSupervisor(cfg config.Config) *monitor.TmuxSupervisor {
	logger := cli.NewCommandLogger().With("command", "monitor", "session", cfg.Monitor.Session)
	return monitor.New(cfg.Monitor.SocketPath, cfg.Monitor.Session, logger, nil)
}

func monitorStartCommand() *cli.Command {
	var configPath *string
	return &cli.Command{
		Name:    "start",
		Summary: "Start the monitor detached",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("start", pflag.ContinueOnError)
			configPath = configFlag(flags)
			return flags
		},
		Run: func(args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if len(cfg.Monitor.Command) == 0 {
				return fmt.Errorf("monitor: no monitor.command configured")
			}
			if err := newSupervisor(cfg).Start(cfg.Monitor.Command); err != nil {
				return err
			}
			fmt.Printf("monitor started (session %s)\n", cfg.Monitor.Session)
			return nil
		},
	}
}

func monitorStopCommand() *cli.Command {
	var configPath *string
	return &cli.Command{
		Name:    "stop",
		Summary: "Stop the monitor",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("stop", pflag.ContinueOnError)
			configPath = configFlag(flags)
			return flags
		},
		Run: func(args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if err := newSupervisor(cfg).Stop(); err != nil {
				return err
			}
			fmt.Println("monitor stopped")
			return nil
		},
	}
}

func monitorStatusCommand() *cli.Command {
	var configPath *string
	return &cli.Command{
		Name:    "status",
		Summary: "Report the monitor's state",
		Description: `Report whether the monitor is running.

Exit code 0 when running, 1 otherwise, so scripts can poll without
parsing output.`,
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("status", pflag.ContinueOnError)
			configPath = configFlag(flags)
			return flags
		},
		Run: func(args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			status, err := newSupervisor(cfg).Status()
			if err != nil {
				return err
			}
			switch {
			case status.Running:
				fmt.Println("monitor: running")
				return nil
			case status.Exited:
				fmt.Printf("monitor: exited with code %d (session retained for inspection)\n", status.ExitCode)
			default:
				fmt.Println("monitor: not running")
			}
			return &cli.ExitError{Code: 1}
		},
	}
}

func monitorLogCommand() *cli.Command {
	var (
		configPath *string
		lines      int
	)
	return &cli.Command{
		Name:    "log",
		Summary: "Show the tail of the monitor's output",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("log", pflag.ContinueOnError)
			configPath = configFlag(flags)
			flags.IntVar(&lines, "lines", 50, "how many trailing lines to show (0 = everything retained)")
			return flags
		},
		Run: func(args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			output, err := newSupervisor(cfg).Log(lines)
			if err != nil && cfg.Monitor.LogFile != "" {
				// No pane to capture from. The monitor writes its own
				// log file; tail that instead.
				output, err = monitor.TailFile(cfg.Monitor.LogFile, lines)
			}
			if err != nil {
				return err
			}
			fmt.Print(output)
			return nil
		},
	}
}

func monitorBackfillCommand() *cli.Command {
	var (
		configPath *string
		limit      int
	)
	return &cli.Command{
		Name:    "backfill",
		Summary: "Run the monitor once over message history",
		Description: `Run the monitor in the foreground in backfill mode.

The configured monitor command is invoked with "backfill --limit N"
appended and its output streams to the terminal. Already-processed
messages are skipped by the monitor's own dialog-ID dedup, so repeated
backfills are safe.`,
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("backfill", pflag.ContinueOnError)
			configPath = configFlag(flags)
			flags.IntVar(&limit, "limit", 0, "history message cap (default: config backfill_limit)")
			return flags
		},
		Run: func(args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if len(cfg.Monitor.Command) == 0 {
				return fmt.Errorf("monitor: no monitor.command configured")
			}
			if limit <= 0 {
				limit = cfg.Monitor.BackfillLimit
			}

			commandLine := append([]string{}, cfg.Monitor.Command...)
			commandLine = append(commandLine, "backfill", "--limit", strconv.Itoa(limit))

			run := exec.Command(commandLine[0], commandLine[1:]...)
			run.Stdout = os.Stdout
			run.Stderr = os.Stderr
			if err := run.Run(); err != nil {
				return fmt.Errorf("monitor: backfill: %w", err)
			}
			return nil
		},
	}
}

func monitorCleanupCommand() *cli.Command {
	var (
		configPath *string
		pattern    string
	)
	return &cli.Command{
		Name:    "cleanup",
		Summary: "Kill stray monitor processes and their tmux server",
		Description: `Locate running monitor processes by command-line pattern,
terminate them, and kill the dedicated tmux server.

The recovery path for monitors that outlived their session: a crashed
tmux server, a monitor started by hand, or a stop that never completed.
The pattern defaults to the configured monitor command line.`,
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("cleanup", pflag.ContinueOnError)
			configPath = configFlag(flags)
			flags.StringVar(&pattern, "pattern", "", "process command-line pattern (default: monitor.command)")
			return flags
		},
		Run: func(args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if pattern == "" {
				if len(cfg.Monitor.Command) == 0 {
					return fmt.Errorf("monitor: no monitor.command configured and no --pattern given")
				}
				pattern = strings.Join(cfg.Monitor.Command, " ")
			}
			killed, err := newSupervisor(cfg).Cleanup(pattern)
			if err != nil {
				return err
			}
			fmt.Printf("terminated %d monitor processes, tmux server killed\n", killed)
			return nil
		},
	}
}
