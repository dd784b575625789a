// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

// Package qastore persists extracted question/answer pairs in SQLite
// and implements the review mutations the toggle endpoints expose:
// flipping the audited or irrelevant flag always clears the other, so
// the two flags never hold simultaneously.
package qastore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/mfmax/QA2/lib/qapair"
	"github.com/mfmax/QA2/lib/sqlitepool"
)

// ErrNotFound is returned when a pair ID does not exist.
var ErrNotFound = errors.New("qastore: pair not found")

const schema = `
CREATE TABLE IF NOT EXISTS processed_files (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    filename TEXT UNIQUE NOT NULL,
    dialog_id TEXT,
    call_direction TEXT,
    operator_phone TEXT,
    client_phone TEXT,
    call_date TEXT,
    call_time TEXT,
    processed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    total_pairs INTEGER DEFAULT 0,
    has_business_pairs INTEGER DEFAULT 0,
    error TEXT
);

CREATE TABLE IF NOT EXISTS qa_pairs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    dialog_id TEXT,
    filename TEXT,
    call_direction TEXT,
    operator_phone TEXT,
    client_phone TEXT,
    call_date TEXT,
    call_time TEXT,
    question TEXT NOT NULL,
    answer TEXT NOT NULL,
    direction TEXT,
    question_type TEXT,
    keywords TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    quality_score REAL,
    is_audited INTEGER DEFAULT 0,
    is_irrelevant INTEGER DEFAULT 0,
    source TEXT DEFAULT 'call'
);

CREATE INDEX IF NOT EXISTS idx_qa_pairs_filename ON qa_pairs(filename);
CREATE INDEX IF NOT EXISTS idx_qa_pairs_dialog_id ON qa_pairs(dialog_id);
CREATE INDEX IF NOT EXISTS idx_qa_pairs_direction ON qa_pairs(direction);
`

// Store is the SQLite-backed pair store. Safe for concurrent use.
type Store struct {
	pool   *sqlitepool.Pool
	logger *slog.Logger
}

// Open opens (and if necessary creates) the database at path. Pass
// poolSize 1 for ":memory:" databases.
func Open(path string, poolSize int, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:     path,
		PoolSize: poolSize,
		Logger:   logger,
		OnConnect: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteScript(conn, schema, nil)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("qastore: opening %s: %w", path, err)
	}
	return &Store{pool: pool, logger: logger}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.pool.Close()
}

// Filter narrows List results. Zero values mean "no constraint".
type Filter struct {
	// Search matches question or answer substrings (LIKE, both sides).
	Search string
	// Direction filters on the Q&A direction label.
	Direction string
	// QuestionType filters on the classified question type.
	QuestionType string
	// Audit is one of "", "yes", "irrelevant", "no" (the web UI's
	// audit filter values: audited, irrelevant, or untouched pairs).
	Audit string
	// Source filters on the ingestion source ("call", "tgbot").
	Source string

	// Page is 1-based. PerPage 0 means the default of 100.
	// NoPagination returns everything.
	Page         int
	PerPage      int
	NoPagination bool
}

const defaultPerPage = 100

// whereClause builds the WHERE tail and argument list shared by List
// and its count query.
func (f Filter) whereClause() (string, []any) {
	var clauses []string
	var args []any
	if f.Search != "" {
		clauses = append(clauses, "(question LIKE ? OR answer LIKE ?)")
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern)
	}
	if f.Direction != "" {
		clauses = append(clauses, "direction = ?")
		args = append(args, f.Direction)
	}
	if f.QuestionType != "" {
		clauses = append(clauses, "question_type = ?")
		args = append(args, f.QuestionType)
	}
	switch f.Audit {
	case "yes":
		clauses = append(clauses, "is_audited = 1")
	case "irrelevant":
		clauses = append(clauses, "is_irrelevant = 1")
	case "no":
		clauses = append(clauses, "is_audited = 0 AND is_irrelevant = 0")
	}
	if f.Source != "" {
		clauses = append(clauses, "source = ?")
		args = append(args, f.Source)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

const pairColumns = `id, question, answer, direction, question_type, keywords,
	call_direction, operator_phone, client_phone, call_date, call_time,
	is_audited, is_irrelevant, source`

// List returns the pairs matching the filter, newest first, plus the
// total match count before pagination.
func (s *Store) List(ctx context.Context, filter Filter) ([]qapair.Pair, int, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer s.pool.Put(conn)

	where, args := filter.whereClause()

	total := 0
	err = sqlitex.Execute(conn, "SELECT COUNT(*) FROM qa_pairs"+where, &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			total = stmt.ColumnInt(0)
			return nil
		},
	})
	if err != nil {
		return nil, 0, fmt.Errorf("qastore: counting pairs: %w", err)
	}

	query := "SELECT " + pairColumns + " FROM qa_pairs" + where + " ORDER BY id DESC"
	queryArgs := args
	if !filter.NoPagination {
		perPage := filter.PerPage
		if perPage <= 0 {
			perPage = defaultPerPage
		}
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query += " LIMIT ? OFFSET ?"
		queryArgs = append(append([]any{}, args...), perPage, (page-1)*perPage)
	}

	var pairs []qapair.Pair
	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: queryArgs,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			pairs = append(pairs, scanPair(stmt))
			return nil
		},
	})
	if err != nil {
		return nil, 0, fmt.Errorf("qastore: listing pairs: %w", err)
	}
	return pairs, total, nil
}

// Get returns a single pair by ID.
func (s *Store) Get(ctx context.Context, id int64) (qapair.Pair, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return qapair.Pair{}, err
	}
	defer s.pool.Put(conn)

	var pair qapair.Pair
	found := false
	err = sqlitex.Execute(conn,
		"SELECT "+pairColumns+" FROM qa_pairs WHERE id = ?", &sqlitex.ExecOptions{
			Args: []any{id},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				pair = scanPair(stmt)
				found = true
				return nil
			},
		})
	if err != nil {
		return qapair.Pair{}, fmt.Errorf("qastore: getting pair %d: %w", id, err)
	}
	if !found {
		return qapair.Pair{}, ErrNotFound
	}
	return pair, nil
}

func scanPair(stmt *sqlite.Stmt) qapair.Pair {
	var keywords []string
	if raw := stmt.ColumnText(5); raw != "" {
		// Keywords are stored as a JSON array; a malformed value
		// degrades to no keywords rather than failing the row.
		_ = json.Unmarshal([]byte(raw), &keywords)
	}
	return qapair.Pair{
		ID:            stmt.ColumnInt64(0),
		Question:      stmt.ColumnText(1),
		Answer:        stmt.ColumnText(2),
		Direction:     stmt.ColumnText(3),
		QuestionType:  stmt.ColumnText(4),
		Keywords:      keywords,
		CallDirection: stmt.ColumnText(6),
		OperatorPhone: stmt.ColumnText(7),
		ClientPhone:   stmt.ColumnText(8),
		CallDate:      stmt.ColumnText(9),
		CallTime:      stmt.ColumnText(10),
		Source:        columnTextDefault(stmt, 13, "call"),
		Classification: qapair.Classify(
			stmt.ColumnInt(11) != 0,
			stmt.ColumnInt(12) != 0,
		),
	}
}

func columnTextDefault(stmt *sqlite.Stmt, col int, fallback string) string {
	if text := stmt.ColumnText(col); text != "" {
		return text
	}
	return fallback
}

// ToggleAudit flips the audited flag for a pair and clears the
// irrelevant flag. Returns the new audited value.
func (s *Store) ToggleAudit(ctx context.Context, id int64) (bool, error) {
	return s.toggleFlag(ctx, id, "is_audited", "is_irrelevant")
}

// ToggleIrrelevant flips the irrelevant flag for a pair and clears the
// audited flag. Returns the new irrelevant value.
func (s *Store) ToggleIrrelevant(ctx context.Context, id int64) (bool, error) {
	return s.toggleFlag(ctx, id, "is_irrelevant", "is_audited")
}

// toggleFlag flips column flag and zeroes column other in one
// transaction. The read-then-write is atomic under the transaction, so
// concurrent toggles serialize in the database.
func (s *Store) toggleFlag(ctx context.Context, id int64, flag, other string) (newValue bool, err error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return false, err
	}
	defer s.pool.Put(conn)

	endFunc, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return false, fmt.Errorf("qastore: beginning toggle transaction: %w", err)
	}
	defer endFunc(&err)

	current := 0
	found := false
	err = sqlitex.Execute(conn,
		fmt.Sprintf("SELECT %s FROM qa_pairs WHERE id = ?", flag), &sqlitex.ExecOptions{
			Args: []any{id},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				current = stmt.ColumnInt(0)
				found = true
				return nil
			},
		})
	if err != nil {
		return false, fmt.Errorf("qastore: reading %s for pair %d: %w", flag, id, err)
	}
	if !found {
		return false, ErrNotFound
	}

	next := 1
	if current != 0 {
		next = 0
	}
	err = sqlitex.Execute(conn,
		fmt.Sprintf("UPDATE qa_pairs SET %s = ?, %s = 0 WHERE id = ?", flag, other),
		&sqlitex.ExecOptions{Args: []any{next, id}})
	if err != nil {
		return false, fmt.Errorf("qastore: toggling %s for pair %d: %w", flag, id, err)
	}

	s.logger.Info("toggled review flag", "pair_id", id, "flag", flag, "value", next)
	return next == 1, nil
}

// UpdateAnswer replaces a pair's answer text. An edited answer counts
// as reviewed: the pair is marked audited and any irrelevant mark is
// cleared.
func (s *Store) UpdateAnswer(ctx context.Context, id int64, answer string) error {
	if strings.TrimSpace(answer) == "" {
		return fmt.Errorf("qastore: answer must not be empty")
	}
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn,
		"UPDATE qa_pairs SET answer = ?, is_audited = 1, is_irrelevant = 0 WHERE id = ?",
		&sqlitex.ExecOptions{Args: []any{answer, id}})
	if err != nil {
		return fmt.Errorf("qastore: updating answer for pair %d: %w", id, err)
	}
	if conn.Changes() == 0 {
		return ErrNotFound
	}
	return nil
}

// Insert stores a new pair unless a pair with the same dialog ID
// already exists. Returns the row ID and whether a row was inserted.
func (s *Store) Insert(ctx context.Context, dialogID string, pair qapair.Pair) (int64, bool, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return 0, false, err
	}
	defer s.pool.Put(conn)

	if dialogID != "" {
		exists := false
		err = sqlitex.Execute(conn,
			"SELECT 1 FROM qa_pairs WHERE dialog_id = ? LIMIT 1", &sqlitex.ExecOptions{
				Args: []any{dialogID},
				ResultFunc: func(*sqlite.Stmt) error {
					exists = true
					return nil
				},
			})
		if err != nil {
			return 0, false, fmt.Errorf("qastore: checking dialog %s: %w", dialogID, err)
		}
		if exists {
			return 0, false, nil
		}
	}

	keywordsJSON := "[]"
	if len(pair.Keywords) > 0 {
		encoded, err := json.Marshal(pair.Keywords)
		if err != nil {
			return 0, false, fmt.Errorf("qastore: encoding keywords: %w", err)
		}
		keywordsJSON = string(encoded)
	}

	source := pair.Source
	if source == "" {
		source = "call"
	}
	err = sqlitex.Execute(conn, `
		INSERT INTO qa_pairs (dialog_id, question, answer, direction, question_type,
			keywords, call_direction, operator_phone, client_phone, call_date,
			call_time, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, &sqlitex.ExecOptions{
		Args: []any{
			dialogID, pair.Question, pair.Answer, pair.Direction, pair.QuestionType,
			keywordsJSON, pair.CallDirection, pair.OperatorPhone, pair.ClientPhone,
			pair.CallDate, pair.CallTime, source,
		},
	})
	if err != nil {
		return 0, false, fmt.Errorf("qastore: inserting pair: %w", err)
	}
	return conn.LastInsertRowID(), true, nil
}

// Statistics returns the aggregate counts shown on the review page and
// by the stats command.
func (s *Store) Statistics(ctx context.Context) (qapair.Stats, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return qapair.Stats{}, err
	}
	defer s.pool.Put(conn)

	stats := qapair.Stats{
		ByDirection: make(map[string]int),
		BySource:    make(map[string]int),
	}

	scalar := func(query string, into *int) error {
		return sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				*into = stmt.ColumnInt(0)
				return nil
			},
		})
	}
	if err := scalar("SELECT COUNT(*) FROM qa_pairs", &stats.TotalPairs); err != nil {
		return qapair.Stats{}, fmt.Errorf("qastore: counting pairs: %w", err)
	}
	if err := scalar("SELECT COUNT(*) FROM qa_pairs WHERE is_audited = 1", &stats.AuditedCount); err != nil {
		return qapair.Stats{}, fmt.Errorf("qastore: counting audited: %w", err)
	}
	if err := scalar("SELECT COUNT(*) FROM qa_pairs WHERE is_irrelevant = 1", &stats.IrrelevantCount); err != nil {
		return qapair.Stats{}, fmt.Errorf("qastore: counting irrelevant: %w", err)
	}

	err = sqlitex.Execute(conn,
		"SELECT direction, COUNT(*) FROM qa_pairs GROUP BY direction", &sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				stats.ByDirection[stmt.ColumnText(0)] = stmt.ColumnInt(1)
				return nil
			},
		})
	if err != nil {
		return qapair.Stats{}, fmt.Errorf("qastore: grouping by direction: %w", err)
	}

	err = sqlitex.Execute(conn,
		"SELECT source, COUNT(*) FROM qa_pairs GROUP BY source", &sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				stats.BySource[columnTextDefault(stmt, 0, "call")] = stmt.ColumnInt(1)
				return nil
			},
		})
	if err != nil {
		return qapair.Stats{}, fmt.Errorf("qastore: grouping by source: %w", err)
	}

	return stats, nil
}

// Recent returns the n most recently inserted pairs.
func (s *Store) Recent(ctx context.Context, n int) ([]qapair.Pair, error) {
	pairs, _, err := s.List(ctx, Filter{Page: 1, PerPage: n})
	return pairs, err
}

// QuestionTypes returns the distinct non-empty question types, sorted.
func (s *Store) QuestionTypes(ctx context.Context) ([]string, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, err
	}
	defer s.pool.Put(conn)

	var types []string
	err = sqlitex.Execute(conn, `
		SELECT DISTINCT question_type FROM qa_pairs
		WHERE question_type IS NOT NULL AND question_type != ''
		ORDER BY question_type`, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			types = append(types, stmt.ColumnText(0))
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("qastore: listing question types: %w", err)
	}
	return types, nil
}
