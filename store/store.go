// Package store persists the core's durable state (behavioral signals,
// adapted weights, engagement state, and scheduled segments) in a local
// sqlite database.
//
// Corrupt or missing persisted records are never an error: loads fall
// back to the documented default state so a damaged file degrades to a
// fresh start instead of a crash. The store assumes a single writer;
// concurrent instances of the hosting application are not serialized
// and the last write wins.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tempo-plan/tempo"
	"github.com/tempo-plan/tempo/notify"
	"github.com/tempo-plan/tempo/schedule"
)

// State record keys.
const (
	keySignals    = "signals"
	keyWeights    = "weights"
	keyEngagement = "engagement"
)

// Store wraps the database connection.
type Store struct {
	conn *sql.DB
}

// Open creates or opens the database at the given path and ensures the
// schema exists. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schemaSQL := `
		CREATE TABLE IF NOT EXISTS state (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS segments (
			id        TEXT PRIMARY KEY,
			task_id   TEXT NOT NULL,
			day       TEXT NOT NULL,
			start_at  TEXT NOT NULL,
			end_at    TEXT NOT NULL,
			minutes   INTEGER NOT NULL,
			color     TEXT NOT NULL DEFAULT '',
			completed INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_segments_day ON segments(day);
	`
	_, err := s.conn.Exec(schemaSQL)
	return err
}

// putJSON stores a JSON document under a state key.
func (s *Store) putJSON(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	_, err = s.conn.Exec(
		`INSERT INTO state (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(b), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

// getJSON loads a state key into v. Returns false when the key is
// missing or the stored document does not decode; callers fall back to
// defaults in both cases.
func (s *Store) getJSON(key string, v any) bool {
	var raw string
	err := s.conn.QueryRow(`SELECT value FROM state WHERE key = ?`, key).Scan(&raw)
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(raw), v) == nil
}

// SaveSignals persists the behavioral signal snapshot.
func (s *Store) SaveSignals(sig tempo.Signals) error {
	return s.putJSON(keySignals, sig)
}

// LoadSignals returns the persisted signals, or the documented defaults
// when none are stored or the stored record is corrupt.
func (s *Store) LoadSignals() (tempo.Signals, error) {
	var sig tempo.Signals
	if !s.getJSON(keySignals, &sig) || sig.CategoryRates == nil {
		return tempo.DefaultSignals(), nil
	}
	return sig, nil
}

// SaveWeights persists the scorer's adapted weight vector.
func (s *Store) SaveWeights(w tempo.Weights) error {
	return s.putJSON(keyWeights, w)
}

// LoadWeights returns the persisted weights, or DefaultWeights when
// none are stored, the record is corrupt, or the stored vector is
// invalid.
func (s *Store) LoadWeights() (tempo.Weights, error) {
	var w tempo.Weights
	if !s.getJSON(keyWeights, &w) || w.Validate() != nil {
		return tempo.DefaultWeights, nil
	}
	return w, nil
}

// SaveEngagement persists the gatekeeper's engagement state.
func (s *Store) SaveEngagement(st notify.EngagementState) error {
	return s.putJSON(keyEngagement, st)
}

// LoadEngagement returns the persisted engagement state, or the default
// state when none is stored or the record is corrupt.
func (s *Store) LoadEngagement() (notify.EngagementState, error) {
	var st notify.EngagementState
	if !s.getJSON(keyEngagement, &st) || st.Engagement <= 0 {
		return notify.DefaultEngagementState(), nil
	}
	return st, nil
}

const dayLayout = "2006-01-02"

// SaveSegments replaces the persisted segments for the given day.
func (s *Store) SaveSegments(date time.Time, segs []schedule.Segment) error {
	day := date.Format(dayLayout)

	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("saving segments: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM segments WHERE day = ?`, day); err != nil {
		return fmt.Errorf("clearing day %s: %w", day, err)
	}
	for _, seg := range segs {
		_, err := tx.Exec(
			`INSERT INTO segments (id, task_id, day, start_at, end_at, minutes, color, completed)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			seg.ID, seg.TaskID, day,
			seg.Start.Format(time.RFC3339), seg.End.Format(time.RFC3339),
			seg.Minutes, seg.Color, seg.Completed,
		)
		if err != nil {
			return fmt.Errorf("inserting segment %s: %w", seg.ID, err)
		}
	}
	return tx.Commit()
}

// LoadSegments returns the persisted segments for the given day, sorted
// by start time. Rows that fail to parse are skipped.
func (s *Store) LoadSegments(date time.Time) ([]schedule.Segment, error) {
	return s.querySegments(`SELECT id, task_id, start_at, end_at, minutes, color, completed
		FROM segments WHERE day = ? ORDER BY start_at`, date.Format(dayLayout))
}

// LoadRange returns the persisted segments for every day in [from, to].
func (s *Store) LoadRange(from, to time.Time) ([]schedule.Segment, error) {
	return s.querySegments(`SELECT id, task_id, start_at, end_at, minutes, color, completed
		FROM segments WHERE day >= ? AND day <= ? ORDER BY start_at`,
		from.Format(dayLayout), to.Format(dayLayout))
}

func (s *Store) querySegments(query string, args ...any) ([]schedule.Segment, error) {
	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying segments: %w", err)
	}
	defer rows.Close()

	var segs []schedule.Segment
	for rows.Next() {
		var seg schedule.Segment
		var startRaw, endRaw string
		if err := rows.Scan(&seg.ID, &seg.TaskID, &startRaw, &endRaw, &seg.Minutes, &seg.Color, &seg.Completed); err != nil {
			return nil, fmt.Errorf("scanning segment: %w", err)
		}
		start, err1 := time.Parse(time.RFC3339, startRaw)
		end, err2 := time.Parse(time.RFC3339, endRaw)
		if err1 != nil || err2 != nil {
			continue
		}
		seg.Start, seg.End = start, end
		segs = append(segs, seg)
	}
	return segs, rows.Err()
}
