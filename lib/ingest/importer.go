// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/mfmax/QA2/lib/qapair"
)

// Record is one exchange as exported by the chat monitor: one JSON
// object per line.
type Record struct {
	Question     string   `json:"question"`
	Answer       string   `json:"answer"`
	Direction    string   `json:"direction"`
	QuestionType string   `json:"question_type"`
	Keywords     []string `json:"keywords"`
}

// Store is the destination for imported pairs.
type Store interface {
	Insert(ctx context.Context, dialogID string, pair qapair.Pair) (int64, bool, error)
}

// Summary counts the outcome of an import run.
type Summary struct {
	// Inserted is the number of new pairs written to the store.
	Inserted int
	// Duplicates is the number of pairs skipped because their dialog
	// ID was already present.
	Duplicates int
	// Rejected is the number of lines dropped: malformed JSON or
	// exchanges below the minimum lengths after cleaning.
	Rejected int
}

// ImportJSONL runs the full ingestion pipeline over a JSONL stream:
// each line is cleaned, gated on minimum length, keyed by dialog ID,
// and inserted unless already present. Bad lines are counted and
// skipped rather than aborting the run; a store failure aborts with
// the summary so far.
func ImportJSONL(ctx context.Context, store Store, r io.Reader, source string, logger *slog.Logger) (Summary, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var summary Summary
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var record Record
		if err := json.Unmarshal(line, &record); err != nil {
			logger.Warn("skipping malformed record", "line", lineNumber, "error", err)
			summary.Rejected++
			continue
		}

		question := CleanText(record.Question)
		answer := CleanText(record.Answer)
		if !Acceptable(question, answer) {
			summary.Rejected++
			continue
		}

		pair := qapair.Pair{
			Question:     question,
			Answer:       answer,
			Direction:    record.Direction,
			QuestionType: record.QuestionType,
			Keywords:     record.Keywords,
			Source:       source,
		}
		_, inserted, err := store.Insert(ctx, DialogID(question, answer), pair)
		if err != nil {
			return summary, fmt.Errorf("ingest: inserting pair from line %d: %w", lineNumber, err)
		}
		if inserted {
			summary.Inserted++
		} else {
			summary.Duplicates++
		}
	}
	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("ingest: reading records: %w", err)
	}
	return summary, nil
}
