// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

package reviewui

import (
	"time"

	"github.com/mfmax/QA2/lib/clock"
)

// counterAnimationDuration is how long one counter adjustment takes to
// play out visually.
const counterAnimationDuration = 400 * time.Millisecond

// animationTickInterval is the re-render interval while any counter or
// stat animation is live. 25ms gives ~40fps, smooth enough for short
// count transitions.
const animationTickInterval = 25 * time.Millisecond

// CounterKind identifies one of the two aggregate counters.
type CounterKind int

const (
	// CounterAudited counts pairs currently classified audited.
	CounterAudited CounterKind = iota
	// CounterIrrelevant counts pairs currently classified irrelevant.
	CounterIrrelevant
)

// counterAnimation is one in-flight count transition. Each Adjust
// starts a fresh cycle from the then-displayed value; overlapping
// cycles may race visually but the committed value is always the last
// call's target.
type counterAnimation struct {
	start     int
	startedAt time.Time
}

// CounterStore holds the two aggregate counters and animates their
// displayed values. The committed value (Value) changes atomically in
// Adjust; the displayed value (Displayed) eases toward it over
// [counterAnimationDuration] and is purely cosmetic.
type CounterStore struct {
	clk        clock.Clock
	values     [2]int
	animations [2]*counterAnimation
}

// NewCounterStore creates a store with the given initial counts, which
// display immediately without animation.
func NewCounterStore(clk clock.Clock, audited, irrelevant int) *CounterStore {
	if clk == nil {
		clk = clock.Real()
	}
	store := &CounterStore{clk: clk}
	store.values[CounterAudited] = audited
	store.values[CounterIrrelevant] = irrelevant
	return store
}

// Adjust applies a delta to a counter, clamping the result at zero,
// and starts an animation cycle from the currently displayed value to
// the new target. Safe to call while a previous cycle is still
// playing: the new cycle starts wherever the display happens to be,
// and the final value is the last target regardless of overlap.
func (c *CounterStore) Adjust(kind CounterKind, delta int) {
	if delta == 0 {
		return
	}
	displayed := c.Displayed(kind)
	target := c.values[kind] + delta
	if target < 0 {
		target = 0
	}
	c.values[kind] = target
	c.animations[kind] = &counterAnimation{start: displayed, startedAt: c.clk.Now()}
}

// Value returns the committed count — the deterministic target every
// animation converges to.
func (c *CounterStore) Value(kind CounterKind) int {
	return c.values[kind]
}

// Displayed returns the value to render right now: the committed value
// when idle, or an interpolated intermediate while a cycle plays.
func (c *CounterStore) Displayed(kind CounterKind) int {
	animation := c.animations[kind]
	if animation == nil {
		return c.values[kind]
	}
	fraction := float64(c.clk.Now().Sub(animation.startedAt)) / float64(counterAnimationDuration)
	if fraction >= 1.0 {
		c.animations[kind] = nil
		return c.values[kind]
	}
	return interpolate(animation.start, c.values[kind], fraction)
}

// Animating reports whether any counter still has a live cycle,
// meaning the tick timer should keep running.
func (c *CounterStore) Animating() bool {
	now := c.clk.Now()
	for kind, animation := range c.animations {
		if animation == nil {
			continue
		}
		if now.Sub(animation.startedAt) < counterAnimationDuration {
			return true
		}
		c.animations[kind] = nil
	}
	return false
}

// interpolate maps an elapsed fraction to a displayed value between
// start and end. Linear, with exact endpoints: fraction <= 0 gives
// start, fraction >= 1 gives end (no rounding drift at the edges).
func interpolate(start, end int, fraction float64) int {
	if fraction <= 0 {
		return start
	}
	if fraction >= 1 {
		return end
	}
	return start + int(float64(end-start)*fraction)
}
