// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/mfmax/QA2/cmd/qa/commands"
)

func main() {
	if err := run(); err != nil {
		// Commands that printed their own output (check, monitor
		// status) return an ExitError carrying the code. No redundant
		// "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return commands.Root().Execute(os.Args[1:])
}
