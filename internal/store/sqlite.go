package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	_ "modernc.org/sqlite" // driver: sqlite
)

const schema = `
CREATE TABLE IF NOT EXISTS user_progress (
    user_id INTEGER PRIMARY KEY,
    asked_json TEXT NOT NULL DEFAULT '[]',
    correct INTEGER NOT NULL DEFAULT 0,
    total INTEGER NOT NULL DEFAULT 0,
    username TEXT NOT NULL DEFAULT '',
    first_name TEXT NOT NULL DEFAULT '',
    updated_at INTEGER NOT NULL DEFAULT 0
);
`

// SQLiteStore persists progress in a single-table sqlite database, one row
// per user. The asked set is stored as a JSON array of question ids so it
// round-trips losslessly regardless of order.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and ensures the
// schema exists.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, userID int64) (UserProgress, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT asked_json, correct, total FROM user_progress WHERE user_id = ?`, userID)

	p := NewProgress(userID)
	var askedJSON string
	if err := row.Scan(&askedJSON, &p.Correct, &p.Total); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, nil
		}
		return UserProgress{}, fmt.Errorf("get progress for user %d: %w", userID, err)
	}

	var asked []int
	if err := json.Unmarshal([]byte(askedJSON), &asked); err != nil {
		return UserProgress{}, fmt.Errorf("decode asked set for user %d: %w", userID, err)
	}
	for _, id := range asked {
		p.Asked[id] = struct{}{}
	}
	return p, nil
}

func (s *SQLiteStore) Put(ctx context.Context, p UserProgress) error {
	asked := make([]int, 0, len(p.Asked))
	for id := range p.Asked {
		asked = append(asked, id)
	}
	sort.Ints(asked)
	askedJSON, err := json.Marshal(asked)
	if err != nil {
		return fmt.Errorf("encode asked set for user %d: %w", p.UserID, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO user_progress (user_id, asked_json, correct, total, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   asked_json = excluded.asked_json,
		   correct    = excluded.correct,
		   total      = excluded.total,
		   updated_at = excluded.updated_at`,
		p.UserID, string(askedJSON), p.Correct, p.Total, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("put progress for user %d: %w", p.UserID, err)
	}
	return nil
}

func (s *SQLiteStore) TouchIdentity(ctx context.Context, userID int64, username, firstName string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_progress (user_id, username, first_name, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   username   = excluded.username,
		   first_name = excluded.first_name`,
		userID, username, firstName, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("touch identity for user %d: %w", userID, err)
	}
	return nil
}

func (s *SQLiteStore) Top(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, username, first_name, correct, total
		 FROM user_progress
		 WHERE total > 0
		 ORDER BY CAST(correct AS REAL) / total DESC, correct DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.UserID, &e.Username, &e.FirstName, &e.Correct, &e.Total); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		e.Percentage = percentage(e.Correct, e.Total)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
