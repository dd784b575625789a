// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"path/filepath"
	"testing"
)

// TempDBPath returns a path for a throwaway SQLite database inside the
// test's temp directory. The file does not exist yet; the pool creates
// it on open and the test framework removes the directory afterwards.
func TempDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "qa.db")
}
