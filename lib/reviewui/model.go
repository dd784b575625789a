// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

package reviewui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mfmax/QA2/lib/clock"
	"github.com/mfmax/QA2/lib/qapair"
)

// Row is one pair's interactive representation in the list. The row
// owns its model entry; gesture callbacks are bound to the row rather
// than looked up through the rendered output.
type Row struct {
	pair qapair.Pair
}

// Classification returns the row's current review state.
func (r *Row) Classification() qapair.Classification {
	return r.pair.Classification
}

// animationTickMsg drives the counter and stat animations. While any
// animation is live, a new tick is scheduled after each one.
type animationTickMsg struct{}

// Options configures optional model dependencies. The zero value uses
// the real clock, a discarding logger, and the default theme.
type Options struct {
	Clock  clock.Clock
	Logger *slog.Logger
	Theme  *Theme
}

// Model is the top-level bubbletea model for the review TUI.
type Model struct {
	source  Source
	toggler Toggler // nil when the source is read-only
	theme   Theme
	keys    KeyMap
	clk     clock.Clock
	logger  *slog.Logger

	// Terminal dimensions (set by WindowSizeMsg).
	width  int
	height int
	ready  bool

	// Row list state.
	rows         []Row
	total        int
	cursor       int
	scrollOffset int

	// Aggregate display state. statAnim plays the one-time load
	// count-up; counters take over once the first toggle lands.
	stats           qapair.Stats
	counters        *CounterStore
	statAnim        *StatAnimator
	countersTouched bool
	tickRunning     bool

	// Search term highlighting, fixed at load time.
	searchTerms []string

	// Failure notice shown in the status bar after a failed toggle.
	toggleError string
}

// NewModel loads a snapshot from the source and builds the model.
// Mutations are enabled when the source also implements [Toggler].
func NewModel(ctx context.Context, source Source, options Options) (Model, error) {
	snapshot, err := source.Snapshot(ctx)
	if err != nil {
		return Model{}, fmt.Errorf("reviewui: loading snapshot: %w", err)
	}

	clk := options.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	theme := DefaultTheme
	if options.Theme != nil {
		theme = *options.Theme
	}

	rows := make([]Row, len(snapshot.Pairs))
	for i, pair := range snapshot.Pairs {
		rows[i] = Row{pair: pair}
	}

	model := Model{
		source:      source,
		theme:       theme,
		keys:        DefaultKeyMap,
		clk:         clk,
		logger:      logger,
		rows:        rows,
		total:       snapshot.Total,
		stats:       snapshot.Stats,
		counters:    NewCounterStore(clk, snapshot.Stats.AuditedCount, snapshot.Stats.IrrelevantCount),
		statAnim:    NewStatAnimator(clk, snapshot.Stats.TotalPairs, snapshot.Stats.AuditedCount, snapshot.Stats.IrrelevantCount),
		searchTerms: ParseSearchTerms(source.SearchTerm()),
	}
	if toggler, ok := source.(Toggler); ok {
		model.toggler = toggler
	}
	return model, nil
}

// Rows exposes the row list for inspection.
func (model *Model) Rows() []Row {
	return model.rows
}

// Counters exposes the counter store for inspection.
func (model *Model) Counters() *CounterStore {
	return model.counters
}

// Init implements tea.Model. Starts the load-time stat animation tick.
func (model Model) Init() tea.Cmd {
	return tea.Tick(animationTickInterval, func(time.Time) tea.Msg {
		return animationTickMsg{}
	})
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		return model.handleKeys(message)

	case tea.MouseMsg:
		if cmd := model.handleMouse(message); cmd != nil {
			return model, cmd
		}

	case toggleResultMsg:
		if cmd := model.applyToggleResult(message); cmd != nil {
			return model, cmd
		}

	case toggleErrorFadeMsg:
		model.toggleError = ""

	case animationTickMsg:
		model.tickRunning = false
		if cmd := model.scheduleAnimationTick(); cmd != nil {
			return model, cmd
		}

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.clampScroll()
	}
	return model, nil
}

func (model Model) handleKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.Up):
		model.moveCursor(-1)

	case key.Matches(message, model.keys.Down):
		model.moveCursor(1)

	case key.Matches(message, model.keys.PageUp):
		model.moveCursor(-model.visibleHeight())

	case key.Matches(message, model.keys.PageDown):
		model.moveCursor(model.visibleHeight())

	case key.Matches(message, model.keys.ToggleAudited):
		if row := model.cursorRow(); row != nil {
			return model, model.toggleCmd(row, flagAudited)
		}

	case key.Matches(message, model.keys.ToggleIrrelevant):
		if row := model.cursorRow(); row != nil {
			return model, model.toggleCmd(row, flagIrrelevant)
		}
	}
	return model, nil
}

// handleMouse routes pointer gestures. A single physical gesture maps
// to exactly one toggle action: the left button acts on press (its
// release is ignored), the right button acts on release (its press is
// swallowed, the terminal never shows a context menu inside the
// program's mouse capture). Wheel events only scroll.
func (model *Model) handleMouse(message tea.MouseMsg) tea.Cmd {
	switch message.Button {
	case tea.MouseButtonWheelUp:
		model.scroll(-1)

	case tea.MouseButtonWheelDown:
		model.scroll(1)

	case tea.MouseButtonLeft:
		if message.Action != tea.MouseActionPress {
			return nil
		}
		if row := model.rowAtY(message.Y); row != nil {
			model.selectRowAtY(message.Y)
			return model.toggleCmd(row, flagAudited)
		}

	case tea.MouseButtonRight:
		if message.Action != tea.MouseActionRelease {
			return nil
		}
		if row := model.rowAtY(message.Y); row != nil {
			model.selectRowAtY(message.Y)
			return model.toggleCmd(row, flagIrrelevant)
		}
	}
	return nil
}

// scheduleAnimationTick starts the animation timer if any counter or
// stat animation is live and no tick is already pending.
func (model *Model) scheduleAnimationTick() tea.Cmd {
	if model.tickRunning {
		return nil
	}
	if model.statAnim.Finished() && !model.counters.Animating() {
		return nil
	}
	model.tickRunning = true
	return tea.Tick(animationTickInterval, func(time.Time) tea.Msg {
		return animationTickMsg{}
	})
}

// rowByID finds a row by pair ID. Returns nil if the pair left the
// list (a new snapshot replaced the rows while a call was in flight).
func (model *Model) rowByID(pairID int64) *Row {
	for i := range model.rows {
		if model.rows[i].pair.ID == pairID {
			return &model.rows[i]
		}
	}
	return nil
}

func (model *Model) cursorRow() *Row {
	if model.cursor < 0 || model.cursor >= len(model.rows) {
		return nil
	}
	return &model.rows[model.cursor]
}

// rowAtY maps a terminal Y coordinate to the row rendered there, or
// nil for chrome lines (header, status bar) and empty space.
func (model *Model) rowAtY(y int) *Row {
	index := model.rowIndexAtY(y)
	if index < 0 {
		return nil
	}
	return &model.rows[index]
}

func (model *Model) rowIndexAtY(y int) int {
	if !model.ready {
		return -1
	}
	relative := y - contentStartY
	if relative < 0 || relative >= model.visibleHeight() {
		return -1
	}
	index := model.scrollOffset + relative
	if index >= len(model.rows) {
		return -1
	}
	return index
}

func (model *Model) selectRowAtY(y int) {
	if index := model.rowIndexAtY(y); index >= 0 {
		model.cursor = index
	}
}

func (model *Model) moveCursor(delta int) {
	model.cursor += delta
	if model.cursor < 0 {
		model.cursor = 0
	}
	if model.cursor >= len(model.rows) {
		model.cursor = len(model.rows) - 1
	}
	model.scrollToCursor()
}

func (model *Model) scroll(delta int) {
	model.scrollOffset += delta
	model.clampScroll()
}

func (model *Model) clampScroll() {
	maxOffset := len(model.rows) - model.visibleHeight()
	if maxOffset < 0 {
		maxOffset = 0
	}
	if model.scrollOffset > maxOffset {
		model.scrollOffset = maxOffset
	}
	if model.scrollOffset < 0 {
		model.scrollOffset = 0
	}
}

func (model *Model) scrollToCursor() {
	if model.cursor < model.scrollOffset {
		model.scrollOffset = model.cursor
	}
	if visible := model.visibleHeight(); model.cursor >= model.scrollOffset+visible {
		model.scrollOffset = model.cursor - visible + 1
	}
}
