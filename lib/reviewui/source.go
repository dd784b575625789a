// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

package reviewui

import (
	"context"

	"github.com/mfmax/QA2/lib/qapair"
	"github.com/mfmax/QA2/lib/qastore"
	"github.com/mfmax/QA2/lib/reviewapi"
)

// Snapshot is the point-in-time view the model is built from: the
// current page of pairs plus the aggregate statistics.
type Snapshot struct {
	Pairs []qapair.Pair
	Stats qapair.Stats
	// Total is the match count across all pages of the active filter.
	Total int
}

// Source abstracts pair data access for the TUI. Implementations are
// the HTTP client ([APISource]) and the direct store ([StoreSource]);
// the TUI code is identical for both.
type Source interface {
	// Snapshot loads the current page and statistics.
	Snapshot(ctx context.Context) (Snapshot, error)

	// SearchTerm returns the active search query, used for term
	// highlighting in the rendered cells. Empty when unfiltered.
	SearchTerm() string
}

// Toggler is an optional interface a Source can provide to support
// review mutations. The TUI checks for it via type assertion; when
// absent the toggle gestures are inert (read-only browsing).
//
// Each call flips the corresponding server-side flag and returns its
// new value. The caller trusts the returned value as ground truth and
// must not update local state speculatively.
type Toggler interface {
	ToggleAudited(ctx context.Context, pairID int64) (bool, error)
	ToggleIrrelevant(ctx context.Context, pairID int64) (bool, error)
}

// APISource reads pairs from the review service over HTTP.
type APISource struct {
	client *reviewapi.Client
	query  reviewapi.PairsQuery
}

var (
	_ Source  = (*APISource)(nil)
	_ Toggler = (*APISource)(nil)
)

// NewAPISource creates a source over the given client and query.
func NewAPISource(client *reviewapi.Client, query reviewapi.PairsQuery) *APISource {
	return &APISource{client: client, query: query}
}

// Snapshot fetches the filtered page and the aggregate statistics.
func (s *APISource) Snapshot(ctx context.Context) (Snapshot, error) {
	pairs, total, err := s.client.Pairs(ctx, s.query)
	if err != nil {
		return Snapshot{}, err
	}
	stats, err := s.client.Stats(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Pairs: pairs,
		Total: total,
		Stats: qapair.Stats{
			TotalPairs:      stats.TotalPairs,
			AuditedCount:    stats.AuditedCount,
			IrrelevantCount: stats.IrrelevantCount,
			ByDirection:     stats.ByDirection,
			BySource:        stats.BySource,
		},
	}, nil
}

// SearchTerm returns the query's search string.
func (s *APISource) SearchTerm() string {
	return s.query.Search
}

// ToggleAudited flips the audited flag through the service.
func (s *APISource) ToggleAudited(ctx context.Context, pairID int64) (bool, error) {
	return s.client.ToggleAudit(ctx, pairID)
}

// ToggleIrrelevant flips the irrelevant flag through the service.
func (s *APISource) ToggleIrrelevant(ctx context.Context, pairID int64) (bool, error) {
	return s.client.ToggleIrrelevant(ctx, pairID)
}

// StoreSource reads pairs straight from the local store, bypassing the
// HTTP service. Used when reviewing on the machine that holds the
// database.
type StoreSource struct {
	store  *qastore.Store
	filter qastore.Filter
}

var (
	_ Source  = (*StoreSource)(nil)
	_ Toggler = (*StoreSource)(nil)
)

// NewStoreSource creates a source over the given store and filter.
func NewStoreSource(store *qastore.Store, filter qastore.Filter) *StoreSource {
	return &StoreSource{store: store, filter: filter}
}

// Snapshot loads the filtered page and statistics from the store.
func (s *StoreSource) Snapshot(ctx context.Context) (Snapshot, error) {
	pairs, total, err := s.store.List(ctx, s.filter)
	if err != nil {
		return Snapshot{}, err
	}
	stats, err := s.store.Statistics(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Pairs: pairs, Total: total, Stats: stats}, nil
}

// SearchTerm returns the filter's search string.
func (s *StoreSource) SearchTerm() string {
	return s.filter.Search
}

// ToggleAudited flips the audited flag in the store.
func (s *StoreSource) ToggleAudited(ctx context.Context, pairID int64) (bool, error) {
	return s.store.ToggleAudit(ctx, pairID)
}

// ToggleIrrelevant flips the irrelevant flag in the store.
func (s *StoreSource) ToggleIrrelevant(ctx context.Context, pairID int64) (bool, error) {
	return s.store.ToggleIrrelevant(ctx, pairID)
}
