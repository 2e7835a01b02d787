// Package indexdb keeps a queryable SQLite index of runs and their tick
// records. Unlike the CSV/JSONL artifacts, the index spans runs: one database
// can hold every scenario explored against a knowledge base.
package indexdb

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"bioforge.ai/internal/sim/engine"
)

type SQLite struct {
	db         *sql.DB
	runID      int64
	insertTick *sql.Stmt
}

func Open(path string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db, runID: -1}, nil
}

func initPragmas(db *sql.DB) error {
	// WAL suits the append-only tick stream.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id INTEGER PRIMARY KEY AUTOINCREMENT,
			process_id TEXT NOT NULL,
			organisms TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			final_tick INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS ticks (
			run_id INTEGER NOT NULL REFERENCES runs(run_id),
			tick INTEGER NOT NULL,
			stage_id TEXT NOT NULL,
			media_volume_l REAL NOT NULL,
			media_ph REAL NOT NULL,
			raw_json TEXT NOT NULL,
			PRIMARY KEY (run_id, tick)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_ticks_stage ON ticks(run_id, stage_id);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// StartRun registers a run and directs subsequent WriteTick calls to it.
func (s *SQLite) StartRun(processID string, organismIDs []string) error {
	orgs, err := json.Marshal(organismIDs)
	if err != nil {
		return err
	}
	res, err := s.db.Exec(
		`INSERT INTO runs (process_id, organisms, started_at) VALUES (?, ?, ?)`,
		processID, string(orgs), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return err
	}
	s.runID, err = res.LastInsertId()
	if err != nil {
		return err
	}
	s.insertTick, err = s.db.Prepare(
		`INSERT INTO ticks (run_id, tick, stage_id, media_volume_l, media_ph, raw_json)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	return err
}

// WriteTick records one tick synchronously; the engine must not proceed past
// a failed write.
func (s *SQLite) WriteTick(rec engine.TickRecord) error {
	if s.insertTick == nil {
		return fmt.Errorf("no run started")
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = s.insertTick.Exec(s.runID, rec.Tick, rec.StageID, rec.MediaVolumeL, rec.MediaPH, string(raw))
	return err
}

func (s *SQLite) FinishRun(finalTick uint64) error {
	if s.runID < 0 {
		return fmt.Errorf("no run started")
	}
	_, err := s.db.Exec(
		`UPDATE runs SET finished_at = ?, final_tick = ? WHERE run_id = ?`,
		time.Now().UTC().Format(time.RFC3339), finalTick, s.runID,
	)
	return err
}

// RunID returns the id assigned by StartRun.
func (s *SQLite) RunID() int64 { return s.runID }

// TickCount returns the number of records indexed for a run.
func (s *SQLite) TickCount(runID int64) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM ticks WHERE run_id = ?`, runID).Scan(&n)
	return n, err
}

// LoadTicks replays a run's records from the index in tick order.
func (s *SQLite) LoadTicks(runID int64) ([]engine.TickRecord, error) {
	rows, err := s.db.Query(`SELECT raw_json FROM ticks WHERE run_id = ? ORDER BY tick`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []engine.TickRecord
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var rec engine.TickRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *SQLite) Close() error {
	if s.insertTick != nil {
		_ = s.insertTick.Close()
	}
	return s.db.Close()
}
