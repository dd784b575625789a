// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

package reviewui

import (
	"time"

	"github.com/mfmax/QA2/lib/clock"
)

// Stat count-up: on load each summary number climbs from zero to its
// server-reported value over [statAnimationDuration], quantized into
// [statAnimationSteps] increments, then snaps exactly to the target so
// integer rounding can never leave it off by one. This is a one-shot
// load effect, separate from CounterStore's incremental adjustments.
const (
	statAnimationDuration = time.Second
	statAnimationSteps    = 50
)

// StatAnimator drives the one-time count-up of the initial summary
// numbers.
type StatAnimator struct {
	clk       clock.Clock
	targets   []int
	startedAt time.Time
}

// NewStatAnimator creates an animator for the given target values,
// starting its clock immediately.
func NewStatAnimator(clk clock.Clock, targets ...int) *StatAnimator {
	if clk == nil {
		clk = clock.Real()
	}
	return &StatAnimator{clk: clk, targets: targets, startedAt: clk.Now()}
}

// Displayed returns the value to render for target index i.
func (a *StatAnimator) Displayed(i int) int {
	if i < 0 || i >= len(a.targets) {
		return 0
	}
	target := a.targets[i]
	step := a.currentStep()
	if step >= statAnimationSteps {
		return target
	}
	return target * step / statAnimationSteps
}

// Finished reports whether the count-up has reached its final step.
func (a *StatAnimator) Finished() bool {
	return a.currentStep() >= statAnimationSteps
}

func (a *StatAnimator) currentStep() int {
	elapsed := a.clk.Now().Sub(a.startedAt)
	if elapsed >= statAnimationDuration {
		return statAnimationSteps
	}
	return int(float64(elapsed) / float64(statAnimationDuration) * statAnimationSteps)
}
