// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

package reviewui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/mfmax/QA2/lib/qapair"
)

// Screen layout: title line, summary line, column header, then rows,
// with a single status bar at the bottom.
const contentStartY = 3

// Column widths for the fixed-width cells. Question and answer split
// the remaining width between them.
const (
	glyphColumnWidth = 2
	idColumnWidth    = 6
	typeColumnWidth  = 10
)

// visibleHeight is the number of row lines that fit on screen.
func (model *Model) visibleHeight() int {
	height := model.height - contentStartY - 1
	if height < 1 {
		return 1
	}
	return height
}

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return "loading..."
	}

	var builder strings.Builder
	builder.WriteString(model.renderTitle())
	builder.WriteString("\n")
	builder.WriteString(model.renderSummary())
	builder.WriteString("\n")
	builder.WriteString(model.renderColumnHeader())
	builder.WriteString("\n")

	visible := model.visibleHeight()
	for line := 0; line < visible; line++ {
		index := model.scrollOffset + line
		if index < len(model.rows) {
			builder.WriteString(model.renderRow(index))
		}
		builder.WriteString("\n")
	}

	builder.WriteString(model.renderStatusBar())
	return builder.String()
}

func (model *Model) renderTitle() string {
	title := "QA Pair Review"
	if term := model.source.SearchTerm(); term != "" {
		title += fmt.Sprintf(" — search: %q", term)
	}
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(model.theme.HeaderForeground).
		Render(title)
}

// renderSummary draws the aggregate counts. Until the first toggle
// lands, the numbers play the load-time count-up; afterwards the
// incrementally adjusted counter values take over, so a toggle's ±1
// never fights the one-shot animation.
func (model *Model) renderSummary() string {
	var total, audited, irrelevant int
	if model.countersTouched {
		total = model.stats.TotalPairs
		audited = model.counters.Displayed(CounterAudited)
		irrelevant = model.counters.Displayed(CounterIrrelevant)
	} else {
		total = model.statAnim.Displayed(0)
		audited = model.statAnim.Displayed(1)
		irrelevant = model.statAnim.Displayed(2)
	}

	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	auditedStyle := lipgloss.NewStyle().Foreground(model.theme.AuditedCounter)
	irrelevantStyle := lipgloss.NewStyle().Foreground(model.theme.IrrelevantCounter)

	return strings.Join([]string{
		faint.Render(fmt.Sprintf("total %d", total)),
		auditedStyle.Render(fmt.Sprintf("audited %d", audited)),
		irrelevantStyle.Render(fmt.Sprintf("irrelevant %d", irrelevant)),
	}, faint.Render("  ·  "))
}

func (model *Model) renderColumnHeader() string {
	questionWidth, _ := model.textColumnWidths()
	header := fmt.Sprintf("%-*s%-*s %-*s %-*s %s",
		glyphColumnWidth, "",
		idColumnWidth, "ID",
		typeColumnWidth, "TYPE",
		questionWidth, "QUESTION",
		"ANSWER")
	return lipgloss.NewStyle().
		Foreground(model.theme.FaintText).
		Render(ansi.Truncate(header, model.width, ""))
}

func (model *Model) renderRow(index int) string {
	row := &model.rows[index]
	selected := index == model.cursor

	baseText := lipgloss.NewStyle().Foreground(model.theme.NormalText)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	if selected {
		baseText = baseText.
			Background(model.theme.SelectedBackground).
			Foreground(model.theme.SelectedForeground)
		faint = faint.Background(model.theme.SelectedBackground)
	}
	highlight := baseText.Background(model.theme.SearchHighlightBackground)

	glyphStyle := faint
	switch row.pair.Classification {
	case qapair.Audited:
		glyphStyle = glyphStyle.Foreground(model.theme.AuditedGlyph)
	case qapair.Irrelevant:
		glyphStyle = glyphStyle.Foreground(model.theme.IrrelevantGlyph)
	}

	questionWidth, answerWidth := model.textColumnWidths()
	question := ansi.Truncate(collapseLine(row.pair.Question), questionWidth, "…")
	answer := ansi.Truncate(collapseLine(row.pair.Answer), answerWidth, "…")

	var builder strings.Builder
	builder.WriteString(glyphStyle.Render(fmt.Sprintf("%-*s", glyphColumnWidth, row.pair.Classification.Glyph())))
	builder.WriteString(faint.Render(fmt.Sprintf("%-*d ", idColumnWidth, row.pair.ID)))
	builder.WriteString(faint.Render(fmt.Sprintf("%-*s ", typeColumnWidth, ansi.Truncate(row.pair.QuestionType, typeColumnWidth, "…"))))
	builder.WriteString(HighlightTerms(question, model.searchTerms, baseText, highlight))
	builder.WriteString(baseText.Render(padTo(question, questionWidth)))
	builder.WriteString(baseText.Render(" "))
	builder.WriteString(HighlightTerms(answer, model.searchTerms, baseText, highlight))
	return builder.String()
}

func (model *Model) renderStatusBar() string {
	if model.toggleError != "" {
		return lipgloss.NewStyle().
			Foreground(model.theme.ErrorText).
			Render(ansi.Truncate("error: "+model.toggleError, model.width, "…"))
	}
	help := "a/click toggle audited · x/right-click toggle irrelevant · j/k move · q quit"
	position := fmt.Sprintf("%d/%d of %d", model.cursor+1, len(model.rows), model.total)
	return lipgloss.NewStyle().
		Foreground(model.theme.HelpText).
		Render(ansi.Truncate(position+"  "+help, model.width, "…"))
}

// textColumnWidths splits the width left after the fixed columns
// between question and answer, question getting the smaller half.
func (model *Model) textColumnWidths() (question, answer int) {
	remaining := model.width - glyphColumnWidth - idColumnWidth - typeColumnWidth - 3
	if remaining < 20 {
		remaining = 20
	}
	question = remaining * 2 / 5
	answer = remaining - question - 1
	return question, answer
}

// collapseLine flattens newlines so a multi-line answer occupies one
// row cell.
func collapseLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// padTo right-pads text with spaces to the given display width.
func padTo(text string, width int) string {
	gap := width - ansi.StringWidth(text)
	if gap <= 0 {
		return ""
	}
	return strings.Repeat(" ", gap)
}
