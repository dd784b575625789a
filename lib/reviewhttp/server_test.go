// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

package reviewhttp

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/mfmax/QA2/lib/qapair"
	"github.com/mfmax/QA2/lib/qastore"
	"github.com/mfmax/QA2/lib/reviewapi"
	"github.com/mfmax/QA2/lib/testutil"
)

// startTestService spins up a store, the HTTP server, and a client
// pointed at it.
func startTestService(t *testing.T) (*qastore.Store, *reviewapi.Client) {
	t.Helper()
	store, err := qastore.Open(testutil.TempDBPath(t), 1, nil)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	server := httptest.NewServer(NewServer(store, nil).Handler())
	t.Cleanup(server.Close)

	client, err := reviewapi.NewClient(reviewapi.ClientConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}
	return store, client
}

func insertPair(t *testing.T, store *qastore.Store, dialogID string) int64 {
	t.Helper()
	id, inserted, err := store.Insert(context.Background(), dialogID, qapair.Pair{
		Question: "How long does registration take?",
		Answer:   "Up to five working days in the usual case.",
		Source:   "tgbot",
	})
	if err != nil || !inserted {
		t.Fatalf("inserting pair: inserted=%v err=%v", inserted, err)
	}
	return id
}

func TestToggleRoundTrip(t *testing.T) {
	store, client := startTestService(t)
	ctx := context.Background()
	id := insertPair(t, store, "d1")

	audited, err := client.ToggleAudit(ctx, id)
	if err != nil {
		t.Fatalf("toggle audit: %v", err)
	}
	if !audited {
		t.Fatal("first toggle did not report audited")
	}

	// Toggling irrelevant on an audited pair flips it over.
	irrelevant, err := client.ToggleIrrelevant(ctx, id)
	if err != nil {
		t.Fatalf("toggle irrelevant: %v", err)
	}
	if !irrelevant {
		t.Fatal("toggle did not report irrelevant")
	}
	pair, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if pair.Classification != qapair.Irrelevant {
		t.Errorf("classification = %v, want Irrelevant", pair.Classification)
	}
}

func TestToggleMissingPairIs404(t *testing.T) {
	_, client := startTestService(t)
	_, err := client.ToggleAudit(context.Background(), 12345)
	if err == nil {
		t.Fatal("toggle on missing pair succeeded")
	}
	var apiErr *reviewapi.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 404 {
		t.Errorf("error = %v, want APIError with status 404", err)
	}
}

func TestUpdateAnswerEndpoint(t *testing.T) {
	store, client := startTestService(t)
	ctx := context.Background()
	id := insertPair(t, store, "d1")

	if err := client.UpdateAnswer(ctx, id, "Three working days since the reform."); err != nil {
		t.Fatalf("update answer: %v", err)
	}
	pair, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if pair.Answer != "Three working days since the reform." {
		t.Errorf("answer = %q", pair.Answer)
	}
	if pair.Classification != qapair.Audited {
		t.Errorf("classification = %v, want Audited", pair.Classification)
	}
}

func TestPairsAndStatsEndpoints(t *testing.T) {
	store, client := startTestService(t)
	ctx := context.Background()
	a := insertPair(t, store, "d1")
	insertPair(t, store, "d2")
	if _, err := store.ToggleAudit(ctx, a); err != nil {
		t.Fatalf("toggle audit: %v", err)
	}

	pairs, total, err := client.Pairs(ctx, reviewapi.PairsQuery{})
	if err != nil {
		t.Fatalf("pairs: %v", err)
	}
	if total != 2 || len(pairs) != 2 {
		t.Fatalf("pairs = %d (total %d), want 2", len(pairs), total)
	}
	// Newest first: the audited pair is the older of the two.
	if pairs[1].ID != a || pairs[1].Classification != qapair.Audited {
		t.Errorf("pair %d classification = %v, want Audited", pairs[1].ID, pairs[1].Classification)
	}

	stats, err := client.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalPairs != 2 || stats.AuditedCount != 1 || stats.IrrelevantCount != 0 {
		t.Errorf("stats = %+v", stats)
	}

	if err := client.Ping(ctx); err != nil {
		t.Errorf("ping: %v", err)
	}
}
