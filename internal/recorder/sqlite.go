package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets dashboards read while refresh runs write.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS strength_rankings (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id           TEXT NOT NULL,
			timestamp        INTEGER NOT NULL,
			period           TEXT NOT NULL,
			source           TEXT,
			window_from      TEXT,
			as_of            TEXT NOT NULL,
			rank             INTEGER NOT NULL,
			unit             TEXT NOT NULL,
			normalized_score REAL,
			raw_score        REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rankings_ts ON strength_rankings(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_rankings_unit ON strength_rankings(unit, period, as_of)`,

		`CREATE TABLE IF NOT EXISTS fetch_events (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          TEXT NOT NULL,
			timestamp       INTEGER NOT NULL,
			source          TEXT,
			pairs_requested INTEGER,
			pairs_fetched   INTEGER,
			dates           INTEGER,
			error           TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fetch_ts ON fetch_events(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRanking writes one row per ranked unit in a single transaction.
func (r *SQLiteRecorder) RecordRanking(snap *RankingSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for _, e := range snap.Ranking {
		if _, err := tx.Exec(`INSERT INTO strength_rankings
			(run_id, timestamp, period, source, window_from, as_of, rank, unit, normalized_score, raw_score)
			VALUES (?,?,?,?,?,?,?,?,?,?)`,
			snap.RunID, now, string(snap.Period), snap.Source,
			snap.From.Format("2006-01-02"), snap.AsOf.Format("2006-01-02"),
			e.Rank, e.Unit, e.NormalizedScore, e.RawScore,
		); err != nil {
			return fmt.Errorf("insert ranking %s: %w", e.Unit, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordFetch(evt *FetchEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO fetch_events
		(run_id, timestamp, source, pairs_requested, pairs_fetched, dates, error)
		VALUES (?,?,?,?,?,?,?)`,
		evt.RunID, time.Now().Unix(), evt.Source,
		evt.PairsRequested, evt.PairsFetched, evt.Dates, evt.Error,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
