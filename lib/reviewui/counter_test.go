// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

package reviewui

import (
	"testing"
	"time"

	"github.com/mfmax/QA2/lib/clock"
)

func TestCounterAdjustCommitsImmediately(t *testing.T) {
	clk := clock.NewFake()
	store := NewCounterStore(clk, 10, 3)

	store.Adjust(CounterAudited, +1)
	if got := store.Value(CounterAudited); got != 11 {
		t.Fatalf("Value(CounterAudited) = %d, want 11", got)
	}
	// Displayed lags behind while the cycle plays.
	if got := store.Displayed(CounterAudited); got != 10 {
		t.Fatalf("Displayed at t=0 = %d, want 10", got)
	}

	clk.Advance(counterAnimationDuration / 2)
	mid := store.Displayed(CounterAudited)
	if mid < 10 || mid > 11 {
		t.Fatalf("Displayed mid-cycle = %d, want within [10, 11]", mid)
	}

	clk.Advance(counterAnimationDuration)
	if got := store.Displayed(CounterAudited); got != 11 {
		t.Fatalf("Displayed after cycle = %d, want 11", got)
	}
	if store.Animating() {
		t.Fatal("Animating() = true after cycle completed")
	}
}

func TestCounterClampsAtZero(t *testing.T) {
	clk := clock.NewFake()
	store := NewCounterStore(clk, 0, 0)

	store.Adjust(CounterIrrelevant, -1)
	if got := store.Value(CounterIrrelevant); got != 0 {
		t.Fatalf("Value after decrement from zero = %d, want 0", got)
	}
	clk.Advance(counterAnimationDuration)
	if got := store.Displayed(CounterIrrelevant); got != 0 {
		t.Fatalf("Displayed after decrement from zero = %d, want 0", got)
	}
}

func TestCounterOverlappingCyclesConvergeToLastTarget(t *testing.T) {
	clk := clock.NewFake()
	store := NewCounterStore(clk, 5, 0)

	// Second adjustment lands mid-way through the first cycle.
	store.Adjust(CounterAudited, +1)
	clk.Advance(counterAnimationDuration / 2)
	store.Adjust(CounterAudited, +1)

	if got := store.Value(CounterAudited); got != 7 {
		t.Fatalf("Value after overlapping adjustments = %d, want 7", got)
	}
	clk.Advance(counterAnimationDuration)
	if got := store.Displayed(CounterAudited); got != 7 {
		t.Fatalf("Displayed after overlapping cycles settled = %d, want 7", got)
	}
}

func TestCounterDisplayedMonotonicWithinCycle(t *testing.T) {
	clk := clock.NewFake()
	store := NewCounterStore(clk, 0, 0)
	store.Adjust(CounterAudited, +20)

	previous := store.Displayed(CounterAudited)
	for step := 0; step < 20; step++ {
		clk.Advance(counterAnimationDuration / 20)
		current := store.Displayed(CounterAudited)
		if current < previous {
			t.Fatalf("Displayed decreased from %d to %d during an increasing cycle", previous, current)
		}
		previous = current
	}
	if previous != 20 {
		t.Fatalf("Displayed after full cycle = %d, want 20", previous)
	}
}

func TestInterpolateEndpoints(t *testing.T) {
	tests := []struct {
		name     string
		start    int
		end      int
		fraction float64
		want     int
	}{
		{"at start", 3, 9, 0, 3},
		{"before start", 3, 9, -0.5, 3},
		{"at end", 3, 9, 1, 9},
		{"past end", 3, 9, 2, 9},
		{"midpoint up", 0, 10, 0.5, 5},
		{"midpoint down", 10, 0, 0.5, 5},
		{"no change", 4, 4, 0.7, 4},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := interpolate(test.start, test.end, test.fraction); got != test.want {
				t.Errorf("interpolate(%d, %d, %v) = %d, want %d",
					test.start, test.end, test.fraction, got, test.want)
			}
		})
	}
}

func TestCounterAnimatingClearsFinishedCycles(t *testing.T) {
	clk := clock.NewFake()
	store := NewCounterStore(clk, 1, 1)
	store.Adjust(CounterAudited, +1)
	store.Adjust(CounterIrrelevant, +1)

	if !store.Animating() {
		t.Fatal("Animating() = false right after Adjust")
	}
	clk.Advance(counterAnimationDuration + time.Millisecond)
	if store.Animating() {
		t.Fatal("Animating() = true after both cycles elapsed")
	}
}
