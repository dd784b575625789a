// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts time for testability. Production code injects
// Real(); tests inject a Fake and advance it explicitly, which makes
// the counter and stat animations deterministic under test.
package clock

import "time"

// Clock is the subset of the time package the review code needs.
// Anything that would call time.Now, time.After, or time.Sleep should
// take a Clock instead.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After returns a channel that receives the current time once
	// duration d has elapsed. If d <= 0 the channel receives
	// immediately.
	After(d time.Duration) <-chan time.Time

	// Sleep pauses the calling goroutine for at least d.
	Sleep(d time.Duration)
}
