package cache

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
// Parent directories are created if missing.
func NewSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, eris.Wrapf(err, "cache: create dir %s", dir)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "cache: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "cache: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS responses (
	cache_key  TEXT PRIMARY KEY,
	url        TEXT NOT NULL,
	body       BLOB NOT NULL,
	fetched_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS step_log (
	id          TEXT PRIMARY KEY,
	run_id      TEXT NOT NULL,
	step        TEXT NOT NULL,
	status      TEXT NOT NULL,
	message     TEXT,
	started_at  DATETIME NOT NULL,
	finished_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_responses_fetched_at ON responses(fetched_at);
CREATE INDEX IF NOT EXISTS idx_step_log_step ON step_log(step, status);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "cache: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT cache_key, url, body, fetched_at FROM responses WHERE cache_key = ?`,
		key,
	)

	var e Entry
	if err := row.Scan(&e.Key, &e.URL, &e.Body, &e.FetchedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "cache: get %s", key)
	}
	return &e, nil
}

func (s *SQLiteStore) Put(ctx context.Context, entry Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO responses (cache_key, url, body, fetched_at) VALUES (?, ?, ?, ?)`,
		entry.Key, entry.URL, entry.Body, entry.FetchedAt.UTC(),
	)
	return eris.Wrapf(err, "cache: put %s", entry.Key)
}

func (s *SQLiteStore) Stats(ctx context.Context, freshSince time.Time) (Stats, error) {
	var st Stats

	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM responses`)
	if err := row.Scan(&st.Total); err != nil {
		return st, eris.Wrap(err, "cache: count total")
	}

	row = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM responses WHERE fetched_at >= ?`, freshSince.UTC(),
	)
	if err := row.Scan(&st.Fresh); err != nil {
		return st, eris.Wrap(err, "cache: count fresh")
	}

	st.Stale = st.Total - st.Fresh
	return st, nil
}

func (s *SQLiteStore) Evict(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM responses WHERE fetched_at < ?`, olderThan.UTC(),
	)
	if err != nil {
		return 0, eris.Wrap(err, "cache: evict")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "cache: evict rows affected")
	}
	return n, nil
}

func (s *SQLiteStore) RecordStep(ctx context.Context, rec StepRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO step_log (id, run_id, step, status, message, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.RunID, rec.Step, string(rec.Status), rec.Message,
		rec.StartedAt.UTC(), rec.FinishedAt.UTC(),
	)
	return eris.Wrapf(err, "cache: record step %s", rec.Step)
}

func (s *SQLiteStore) LastSuccess(ctx context.Context, step string) (*time.Time, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT finished_at FROM step_log WHERE step = ? AND status = ? ORDER BY finished_at DESC LIMIT 1`,
		step, string(StepOK),
	)

	var t time.Time
	if err := row.Scan(&t); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "cache: last success %s", step)
	}
	return &t, nil
}
