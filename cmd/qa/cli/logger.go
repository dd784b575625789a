// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewCommandLogger creates the structured logger for command
// operations. Interactive stderr gets the text handler; piped or
// redirected stderr (cron, scripts, service managers) gets JSON so the
// output stays machine-parseable.
//
// Callers scope it with command context via With():
//
//	logger := cli.NewCommandLogger().With("command", "monitor/start")
func NewCommandLogger() *slog.Logger {
	var handler slog.Handler
	options := &slog.HandlerOptions{Level: slog.LevelInfo}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler)
}
