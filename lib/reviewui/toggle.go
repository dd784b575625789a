// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

package reviewui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mfmax/QA2/lib/qapair"
)

// toggleFlag identifies which review flag a toggle call targets.
type toggleFlag int

const (
	flagAudited toggleFlag = iota
	flagIrrelevant
)

// toggleResultMsg is sent when an asynchronous toggle call completes.
// It carries the pre-gesture classification captured when the call was
// issued: the service only reports the new value of the flag that was
// toggled, so without the captured prior state the delta for the
// opposite counter could not be computed (toggling irrelevant on an
// audited row must decrement the audited counter even though the
// response never mentions the audited flag).
type toggleResultMsg struct {
	pairID        int64
	flag          toggleFlag
	newValue      bool
	wasAudited    bool
	wasIrrelevant bool
	err           error
}

// toggleErrorFadeMsg clears the failure notice from the status bar.
type toggleErrorFadeMsg struct{}

// toggleErrorFadeDelay is how long a toggle failure notice stays
// visible.
const toggleErrorFadeDelay = 3 * time.Second

// toggleCmd captures the row's current classification and returns a
// command that performs the remote toggle. The capture happens here,
// synchronously with the gesture — not when the command runs — so the
// counter reconciliation always works against the state the reviewer
// actually saw. There is no per-row in-flight guard: two rapid toggles
// on the same row each capture their own pre-state, and responses
// arriving out of order resolve to whichever landed last.
func (model *Model) toggleCmd(row *Row, flag toggleFlag) tea.Cmd {
	if model.toggler == nil {
		return nil
	}
	pairID := row.pair.ID
	wasAudited := row.pair.Classification == qapair.Audited
	wasIrrelevant := row.pair.Classification == qapair.Irrelevant
	toggler := model.toggler

	return func() tea.Msg {
		var newValue bool
		var err error
		switch flag {
		case flagAudited:
			newValue, err = toggler.ToggleAudited(context.Background(), pairID)
		default:
			newValue, err = toggler.ToggleIrrelevant(context.Background(), pairID)
		}
		return toggleResultMsg{
			pairID:        pairID,
			flag:          flag,
			newValue:      newValue,
			wasAudited:    wasAudited,
			wasIrrelevant: wasIrrelevant,
			err:           err,
		}
	}
}

// applyToggleResult commits a confirmed toggle: row marker and counter
// deltas together, only after the service responded. On failure the
// row and counters stay untouched and a fading notice appears.
func (model *Model) applyToggleResult(message toggleResultMsg) tea.Cmd {
	if message.err != nil {
		model.logger.Error("toggle failed",
			"pair_id", message.pairID, "error", message.err)
		model.toggleError = message.err.Error()
		return tea.Tick(toggleErrorFadeDelay, func(time.Time) tea.Msg {
			return toggleErrorFadeMsg{}
		})
	}

	row := model.rowByID(message.pairID)
	if row == nil {
		return nil
	}

	switch message.flag {
	case flagAudited:
		if message.newValue {
			row.pair.SetClassification(qapair.Audited)
			if !message.wasAudited {
				model.adjustCounter(CounterAudited, +1)
			}
			if message.wasIrrelevant {
				model.adjustCounter(CounterIrrelevant, -1)
			}
		} else {
			row.pair.SetClassification(qapair.Neutral)
			if message.wasAudited {
				model.adjustCounter(CounterAudited, -1)
			}
		}
	case flagIrrelevant:
		if message.newValue {
			row.pair.SetClassification(qapair.Irrelevant)
			if !message.wasIrrelevant {
				model.adjustCounter(CounterIrrelevant, +1)
			}
			if message.wasAudited {
				model.adjustCounter(CounterAudited, -1)
			}
		} else {
			row.pair.SetClassification(qapair.Neutral)
			if message.wasIrrelevant {
				model.adjustCounter(CounterIrrelevant, -1)
			}
		}
	}

	return model.scheduleAnimationTick()
}

// adjustCounter routes counter deltas through the store and switches
// the header off the load-time count-up, so the incremental value is
// what renders from here on.
func (model *Model) adjustCounter(kind CounterKind, delta int) {
	model.countersTouched = true
	model.counters.Adjust(kind, delta)
}
