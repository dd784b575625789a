// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

package qastore

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mfmax/QA2/lib/ingest"
	"github.com/mfmax/QA2/lib/qapair"
	"github.com/mfmax/QA2/lib/testutil"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(testutil.TempDBPath(t), 1, nil)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func insertTestPair(t *testing.T, store *Store, dialogID, question, answer string) int64 {
	t.Helper()
	id, inserted, err := store.Insert(context.Background(), dialogID, qapair.Pair{
		Question:  question,
		Answer:    answer,
		Direction: "Client → Operator",
		Source:    "tgbot",
	})
	if err != nil {
		t.Fatalf("inserting pair: %v", err)
	}
	if !inserted {
		t.Fatalf("pair %q was not inserted", dialogID)
	}
	return id
}

func TestInsertDeduplicatesByDialogID(t *testing.T) {
	store := openTestStore(t)
	insertTestPair(t, store, "dialog-1", "How do I appeal a fine?", "File within ten days of the ruling.")

	_, inserted, err := store.Insert(context.Background(), "dialog-1", qapair.Pair{
		Question: "duplicate", Answer: "duplicate",
	})
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if inserted {
		t.Fatal("duplicate dialog ID was inserted")
	}

	_, total, err := store.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if total != 1 {
		t.Errorf("total = %d, want 1", total)
	}
}

func TestToggleAuditFlipsAndClearsIrrelevant(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	id := insertTestPair(t, store, "d1", "What are the office hours?", "Weekdays nine to six.")

	// Mark irrelevant first, then toggle audit: the pair must end up
	// audited with the irrelevant mark cleared.
	if _, err := store.ToggleIrrelevant(ctx, id); err != nil {
		t.Fatalf("toggle irrelevant: %v", err)
	}
	audited, err := store.ToggleAudit(ctx, id)
	if err != nil {
		t.Fatalf("toggle audit: %v", err)
	}
	if !audited {
		t.Fatal("toggle audit returned false on first flip")
	}

	pair, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if pair.Classification != qapair.Audited {
		t.Errorf("classification = %v, want Audited", pair.Classification)
	}

	// Second toggle returns the pair to neutral.
	audited, err = store.ToggleAudit(ctx, id)
	if err != nil {
		t.Fatalf("second toggle audit: %v", err)
	}
	if audited {
		t.Fatal("second toggle still reports audited")
	}
	pair, err = store.Get(ctx, id)
	if err != nil {
		t.Fatalf("get after second toggle: %v", err)
	}
	if pair.Classification != qapair.Neutral {
		t.Errorf("classification = %v, want Neutral", pair.Classification)
	}
}

func TestToggleMissingPair(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.ToggleAudit(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("ToggleAudit(999) error = %v, want ErrNotFound", err)
	}
	if _, err := store.ToggleIrrelevant(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("ToggleIrrelevant(999) error = %v, want ErrNotFound", err)
	}
}

func TestUpdateAnswerMarksAudited(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	id := insertTestPair(t, store, "d1", "Can I pay in installments?", "Only for amounts over 10000.")

	if _, err := store.ToggleIrrelevant(ctx, id); err != nil {
		t.Fatalf("toggle irrelevant: %v", err)
	}
	if err := store.UpdateAnswer(ctx, id, "Yes, by agreement with the department."); err != nil {
		t.Fatalf("update answer: %v", err)
	}

	pair, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if pair.Answer != "Yes, by agreement with the department." {
		t.Errorf("answer = %q", pair.Answer)
	}
	if pair.Classification != qapair.Audited {
		t.Errorf("classification = %v, want Audited", pair.Classification)
	}

	if err := store.UpdateAnswer(ctx, id, "   "); err == nil {
		t.Error("empty answer was accepted")
	}
	if err := store.UpdateAnswer(ctx, 999, "text"); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateAnswer(999) error = %v, want ErrNotFound", err)
	}
}

func TestListFilters(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	a := insertTestPair(t, store, "d1", "How do I appeal a parking fine?", "File an appeal within ten days.")
	insertTestPair(t, store, "d2", "What are the office hours?", "Weekdays nine to six.")
	if _, err := store.ToggleAudit(ctx, a); err != nil {
		t.Fatalf("toggle audit: %v", err)
	}

	pairs, total, err := store.List(ctx, Filter{Search: "parking"})
	if err != nil {
		t.Fatalf("list with search: %v", err)
	}
	if total != 1 || len(pairs) != 1 || pairs[0].ID != a {
		t.Errorf("search result = %d pairs (total %d), want the parking pair", len(pairs), total)
	}

	_, total, err = store.List(ctx, Filter{Audit: "no"})
	if err != nil {
		t.Fatalf("list unaudited: %v", err)
	}
	if total != 1 {
		t.Errorf("unaudited total = %d, want 1", total)
	}

	_, total, err = store.List(ctx, Filter{Audit: "yes"})
	if err != nil {
		t.Fatalf("list audited: %v", err)
	}
	if total != 1 {
		t.Errorf("audited total = %d, want 1", total)
	}
}

func TestListNewestFirstAndPagination(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		insertTestPair(t, store, "", "Question about contract terms?", "A sufficiently long answer text.")
	}

	pairs, total, err := store.List(ctx, Filter{Page: 1, PerPage: 2})
	if err != nil {
		t.Fatalf("list page 1: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(pairs) != 2 {
		t.Fatalf("page size = %d, want 2", len(pairs))
	}
	if pairs[0].ID < pairs[1].ID {
		t.Error("list is not newest-first")
	}

	pairs, _, err = store.List(ctx, Filter{Page: 3, PerPage: 2})
	if err != nil {
		t.Fatalf("list page 3: %v", err)
	}
	if len(pairs) != 1 {
		t.Errorf("last page size = %d, want 1", len(pairs))
	}
}

func TestStatistics(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	a := insertTestPair(t, store, "d1", "First question about fees?", "An answer that is long enough.")
	b := insertTestPair(t, store, "d2", "Second question about fees?", "Another answer long enough too.")
	insertTestPair(t, store, "d3", "Third question about fees?", "Yet another sufficient answer.")
	if _, err := store.ToggleAudit(ctx, a); err != nil {
		t.Fatalf("toggle audit: %v", err)
	}
	if _, err := store.ToggleIrrelevant(ctx, b); err != nil {
		t.Fatalf("toggle irrelevant: %v", err)
	}

	stats, err := store.Statistics(ctx)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.TotalPairs != 3 {
		t.Errorf("TotalPairs = %d, want 3", stats.TotalPairs)
	}
	if stats.AuditedCount != 1 {
		t.Errorf("AuditedCount = %d, want 1", stats.AuditedCount)
	}
	if stats.IrrelevantCount != 1 {
		t.Errorf("IrrelevantCount = %d, want 1", stats.IrrelevantCount)
	}
	if stats.BySource["tgbot"] != 3 {
		t.Errorf("BySource[tgbot] = %d, want 3", stats.BySource["tgbot"])
	}
}

func TestQuestionTypes(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	seed := []struct{ dialogID, questionType string }{
		{"d1", "roaming"},
		{"d2", "billing"},
		{"d3", "roaming"},
		{"d4", ""},
	}
	for _, row := range seed {
		_, inserted, err := store.Insert(ctx, row.dialogID, qapair.Pair{
			Question:     "A question that is long enough?",
			Answer:       "An answer that is long enough too.",
			QuestionType: row.questionType,
		})
		if err != nil || !inserted {
			t.Fatalf("inserting %q: inserted=%v err=%v", row.dialogID, inserted, err)
		}
	}

	types, err := store.QuestionTypes(ctx)
	if err != nil {
		t.Fatalf("question types: %v", err)
	}
	want := []string{"billing", "roaming"}
	if len(types) != len(want) || types[0] != want[0] || types[1] != want[1] {
		t.Errorf("QuestionTypes = %v, want %v", types, want)
	}
}

func TestImportPipelineIntoStore(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	records := strings.Join([]string{
		`{"question":"How do I **appeal** a parking fine?","answer":"File an appeal within ten days of the ruling.","question_type":"fines"}`,
		`{"question":"How do I appeal a parking fine?","answer":"File an appeal within ten days of the ruling."}`,
		`{"question":"hi","answer":"hello there friend"}`,
	}, "\n")

	summary, err := ingest.ImportJSONL(ctx, store, strings.NewReader(records), "tgbot", nil)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if summary.Inserted != 1 || summary.Duplicates != 1 || summary.Rejected != 1 {
		t.Fatalf("summary = %+v, want 1 inserted, 1 duplicate, 1 rejected", summary)
	}

	pairs, total, err := store.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if total != 1 {
		t.Fatalf("total = %d, want 1", total)
	}
	if pairs[0].Question != "How do I appeal a parking fine?" {
		t.Errorf("question = %q, want markdown stripped", pairs[0].Question)
	}
	if pairs[0].Source != "tgbot" {
		t.Errorf("source = %q, want tgbot", pairs[0].Source)
	}
	if pairs[0].Classification != qapair.Neutral {
		t.Errorf("classification = %v, want Neutral", pairs[0].Classification)
	}
}
