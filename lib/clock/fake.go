// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sync"
	"time"
)

// Fake is a Clock whose time only moves when the test calls Advance or
// Set. After channels fire when the fake time passes their deadline.
// Sleep returns immediately — fake time does not block goroutines.
type Fake struct {
	mutex   sync.Mutex
	now     time.Time
	waiters []fakeWaiter
}

type fakeWaiter struct {
	deadline time.Time
	channel  chan time.Time
}

// NewFake returns a Fake starting at a fixed, arbitrary instant.
// Tests that care about the absolute value should call Set first.
func NewFake() *Fake {
	return &Fake{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

// Now returns the current fake time.
func (f *Fake) Now() time.Time {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.now
}

// After returns a channel that fires when the fake clock reaches
// now+d. A non-positive d fires immediately.
func (f *Fake) After(d time.Duration) <-chan time.Time {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	channel := make(chan time.Time, 1)
	if d <= 0 {
		channel <- f.now
		return channel
	}
	f.waiters = append(f.waiters, fakeWaiter{deadline: f.now.Add(d), channel: channel})
	return channel
}

// Sleep is a no-op: fake time never blocks the caller.
func (f *Fake) Sleep(time.Duration) {}

// Advance moves the fake clock forward and fires any After channels
// whose deadline has been reached.
func (f *Fake) Advance(d time.Duration) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.setLocked(f.now.Add(d))
}

// Set jumps the fake clock to an absolute instant. Moving backwards is
// allowed but does not un-fire already-fired waiters.
func (f *Fake) Set(instant time.Time) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.setLocked(instant)
}

func (f *Fake) setLocked(instant time.Time) {
	f.now = instant
	remaining := f.waiters[:0]
	for _, waiter := range f.waiters {
		if !waiter.deadline.After(f.now) {
			waiter.channel <- f.now
			continue
		}
		remaining = append(remaining, waiter)
	}
	f.waiters = remaining
}
