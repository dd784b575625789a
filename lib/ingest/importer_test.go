// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mfmax/QA2/lib/qapair"
)

// fakeStore records inserts and reports duplicates by dialog ID, the
// same contract qastore.Insert honors.
type fakeStore struct {
	inserted map[string]qapair.Pair
	failWith error
}

func newFakeStore() *fakeStore {
	return &fakeStore{inserted: make(map[string]qapair.Pair)}
}

func (s *fakeStore) Insert(_ context.Context, dialogID string, pair qapair.Pair) (int64, bool, error) {
	if s.failWith != nil {
		return 0, false, s.failWith
	}
	if _, exists := s.inserted[dialogID]; exists {
		return 0, false, nil
	}
	s.inserted[dialogID] = pair
	return int64(len(s.inserted)), true, nil
}

func TestImportJSONLRunsFullPipeline(t *testing.T) {
	input := strings.Join([]string{
		`{"question":"Как   подключить **роуминг** за границей?","answer":"Наберите команду *123# и следуйте подсказкам оператора.","direction":"client","question_type":"roaming"}`,
		``,
		`{"question":"short","answer":"too short answer"}`,
		`not json at all`,
		`{"question":"Как подключить роуминг за границей?","answer":"Наберите команду 123# и следуйте подсказкам оператора."}`,
	}, "\n")

	store := newFakeStore()
	summary, err := ImportJSONL(context.Background(), store, strings.NewReader(input), "tgbot", nil)
	if err != nil {
		t.Fatalf("ImportJSONL failed: %v", err)
	}

	// Line 1 inserts; line 5 is the same exchange after cleaning and
	// dedups against it; the short pair and the bad JSON are rejected.
	want := Summary{Inserted: 1, Duplicates: 1, Rejected: 2}
	if summary != want {
		t.Fatalf("summary = %+v, want %+v", summary, want)
	}

	if len(store.inserted) != 1 {
		t.Fatalf("store holds %d pairs, want 1", len(store.inserted))
	}
	for _, pair := range store.inserted {
		if strings.ContainsAny(pair.Question, "*") {
			t.Errorf("question not cleaned: %q", pair.Question)
		}
		if pair.Question != "Как подключить роуминг за границей?" {
			t.Errorf("question = %q, want cleaned collapsed text", pair.Question)
		}
		if pair.Source != "tgbot" {
			t.Errorf("source = %q, want tgbot", pair.Source)
		}
		if pair.Direction != "client" {
			t.Errorf("direction = %q, want client", pair.Direction)
		}
	}
}

func TestImportJSONLDialogIDIsStable(t *testing.T) {
	line := `{"question":"Почему не работает мобильный интернет?","answer":"Проверьте, включена ли передача данных в настройках."}`
	store := newFakeStore()

	for run := 0; run < 2; run++ {
		_, err := ImportJSONL(context.Background(), store, strings.NewReader(line), "tgbot", nil)
		if err != nil {
			t.Fatalf("run %d failed: %v", run, err)
		}
	}
	if len(store.inserted) != 1 {
		t.Fatalf("store holds %d pairs after re-import, want 1", len(store.inserted))
	}

	wantID := DialogID("Почему не работает мобильный интернет?",
		"Проверьте, включена ли передача данных в настройках.")
	if _, ok := store.inserted[wantID]; !ok {
		t.Errorf("pair not stored under DialogID(question, answer)")
	}
}

func TestImportJSONLStoreFailureAborts(t *testing.T) {
	storeErr := errors.New("database is locked")
	store := newFakeStore()
	store.failWith = storeErr

	input := `{"question":"Как поменять тарифный план?","answer":"Смена тарифа доступна в личном кабинете абонента."}`
	summary, err := ImportJSONL(context.Background(), store, strings.NewReader(input), "tgbot", nil)
	if !errors.Is(err, storeErr) {
		t.Fatalf("error = %v, want wrapped store error", err)
	}
	if summary.Inserted != 0 {
		t.Errorf("summary.Inserted = %d, want 0", summary.Inserted)
	}
}
