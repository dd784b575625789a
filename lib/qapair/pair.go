// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

// Package qapair defines the domain model for extracted question/answer
// pairs: the pair record itself, its review classification, and the
// aggregate statistics reported by the store.
package qapair

// Classification is a pair's review state. Exactly one of the three
// values holds at any time — a pair cannot be both audited and
// irrelevant. All transitions go through [Pair.SetClassification] (or
// the store's toggle operations), which enforce the exclusion.
type Classification int

const (
	// Neutral means the pair has not been reviewed yet.
	Neutral Classification = iota
	// Audited means a reviewer confirmed the pair is correct and useful.
	Audited
	// Irrelevant means a reviewer marked the pair as noise.
	Irrelevant
)

// String returns the lowercase name of the classification.
func (c Classification) String() string {
	switch c {
	case Audited:
		return "audited"
	case Irrelevant:
		return "irrelevant"
	default:
		return "neutral"
	}
}

// Glyph returns the single-cell marker shown next to a row: a star for
// audited pairs, a cross for irrelevant ones, a space otherwise.
func (c Classification) Glyph() string {
	switch c {
	case Audited:
		return "★"
	case Irrelevant:
		return "✖"
	default:
		return " "
	}
}

// Classify derives a classification from the two stored boolean flags.
// The store clears one flag whenever it sets the other, so both being
// true cannot happen through normal operation; if it ever does (a
// hand-edited database), irrelevant wins so the pair is not treated as
// reviewed-and-approved.
func Classify(audited, irrelevant bool) Classification {
	switch {
	case irrelevant:
		return Irrelevant
	case audited:
		return Audited
	default:
		return Neutral
	}
}

// Pair is one extracted question/answer pair. The ID is the stable
// database key used by the toggle endpoints.
type Pair struct {
	ID           int64
	Question     string
	Answer       string
	Direction    string
	QuestionType string
	Keywords     []string

	// Call metadata, present for pairs extracted from call transcripts.
	CallDirection string
	OperatorPhone string
	ClientPhone   string
	CallDate      string
	CallTime      string

	// Source identifies the ingestion path ("call" or "tgbot").
	Source string

	Classification Classification
}

// SetClassification replaces the pair's classification. This is the
// single mutation point for review state: setting Audited clears
// Irrelevant and vice versa, because the field holds exactly one value.
func (p *Pair) SetClassification(c Classification) {
	p.Classification = c
}

// TextCells returns the display fields eligible for search
// highlighting, in render order.
func (p *Pair) TextCells() []string {
	return []string{p.Question, p.Answer}
}

// Stats holds the aggregate counts rendered on the review page and by
// the stats command.
type Stats struct {
	TotalPairs      int
	AuditedCount    int
	IrrelevantCount int
	ByDirection     map[string]int
	BySource        map[string]int
}
