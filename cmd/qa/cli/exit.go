// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ExitError signals a non-zero exit code without an extra error line.
// Commands that already printed their own output (check, monitor
// status) return this so main exits with the code silently instead of
// printing a redundant "error:" prefix.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the requested exit code. main checks for this
// interface on returned errors.
func (e *ExitError) ExitCode() int {
	return e.Code
}
