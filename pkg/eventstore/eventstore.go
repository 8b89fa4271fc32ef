// Package eventstore keeps input events and accumulated histograms in a
// SQLite database.
package eventstore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"symbinmd/internal/models"
)

// ErrRunNotFound is returned when no histogram is stored under a run id.
var ErrRunNotFound = errors.New("eventstore: run not found")

type Store struct {
	*sql.DB
}

// RunMeta describes the run a histogram came from.
type RunMeta struct {
	Mode      string
	Params    string // YAML rendering of the run configuration
	Passes    int
	CreatedAt time.Time
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// a single connection keeps in-memory databases shared across calls
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			event_id          INTEGER PRIMARY KEY AUTOINCREMENT,
			h                 DOUBLE NOT NULL,
			k                 DOUBLE NOT NULL,
			l                 DOUBLE NOT NULL,
			e                 DOUBLE NOT NULL,
			signal            DOUBLE NOT NULL,
			error_sq          DOUBLE NOT NULL
		);
		CREATE TABLE IF NOT EXISTS runs (
			run_id            TEXT PRIMARY KEY,
			created_at        TIMESTAMP NOT NULL,
			mode              TEXT,
			params            TEXT,
			passes            INTEGER
		);
		CREATE TABLE IF NOT EXISTS histogram_dims (
			run_id            TEXT NOT NULL,
			dim_index         INTEGER NOT NULL,
			name              TEXT,
			unit              TEXT,
			min               DOUBLE,
			max               DOUBLE,
			bins              INTEGER,
			PRIMARY KEY (run_id, dim_index),
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
		CREATE TABLE IF NOT EXISTS histogram_bins (
			run_id            TEXT NOT NULL,
			bin_index         INTEGER NOT NULL,
			signal            DOUBLE,
			error_sq          DOUBLE,
			num_events        DOUBLE,
			PRIMARY KEY (run_id, bin_index),
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db}, nil
}

// InsertEvents appends the events of tbl in one transaction.
func (s *Store) InsertEvents(tbl *models.EventTable) error {
	if tbl.Len() == 0 {
		return nil
	}
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO events (h, k, l, e, signal, error_sq) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, ev := range tbl.Events {
		c := ev.Coords
		if _, err := stmt.Exec(c[0], c[1], c[2], c[3], ev.Signal, ev.ErrorSq); err != nil {
			return fmt.Errorf("failed to insert event %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// LoadEvents reads every stored event in insertion order.
func (s *Store) LoadEvents() (*models.EventTable, error) {
	rows, err := s.Query(`SELECT h, k, l, e, signal, error_sq FROM events ORDER BY event_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tbl := models.NewEventTable()
	for rows.Next() {
		var ev models.Event
		c := &ev.Coords
		if err := rows.Scan(&c[0], &c[1], &c[2], &c[3], &ev.Signal, &ev.ErrorSq); err != nil {
			return nil, err
		}
		tbl.Events = append(tbl.Events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tbl, nil
}

// SaveHistogram stores h and its run metadata under runID. Saving the same
// run twice replaces the earlier histogram.
func (s *Store) SaveHistogram(runID uuid.UUID, h *models.Histogram, meta RunMeta) error {
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now()
	}
	id := runID.String()

	tx, err := s.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM histogram_bins WHERE run_id = ?`,
		`DELETE FROM histogram_dims WHERE run_id = ?`,
		`DELETE FROM runs WHERE run_id = ?`,
	} {
		if _, err := tx.Exec(q, id); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`INSERT INTO runs (run_id, created_at, mode, params, passes) VALUES (?, ?, ?, ?, ?)`,
		id, meta.CreatedAt.UTC().Format(time.RFC3339Nano), meta.Mode, meta.Params, meta.Passes); err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	for i, d := range h.Dims {
		if _, err := tx.Exec(`INSERT INTO histogram_dims (run_id, dim_index, name, unit, min, max, bins) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, i, d.Name, d.Unit, d.Min, d.Max, d.Bins); err != nil {
			return fmt.Errorf("failed to record dimension %d: %w", i, err)
		}
	}

	stmt, err := tx.Prepare(`INSERT INTO histogram_bins (run_id, bin_index, signal, error_sq, num_events) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	// empty bins are implied by the dimensions
	for i := range h.Signal {
		if h.Signal[i] == 0 && h.ErrorSq[i] == 0 && h.NumEvents[i] == 0 {
			continue
		}
		if _, err := stmt.Exec(id, i, h.Signal[i], h.ErrorSq[i], h.NumEvents[i]); err != nil {
			return fmt.Errorf("failed to record bin %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// LoadHistogram rebuilds the histogram stored under runID.
func (s *Store) LoadHistogram(runID uuid.UUID) (*models.Histogram, RunMeta, error) {
	id := runID.String()
	var meta RunMeta
	var created string

	err := s.QueryRow(`SELECT created_at, mode, params, passes FROM runs WHERE run_id = ?`, id).
		Scan(&created, &meta.Mode, &meta.Params, &meta.Passes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, RunMeta{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, RunMeta{}, err
	}
	if meta.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, RunMeta{}, fmt.Errorf("failed to parse created_at: %w", err)
	}

	dims, err := s.loadDims(id)
	if err != nil {
		return nil, RunMeta{}, err
	}
	h, err := models.NewHistogram(dims)
	if err != nil {
		return nil, RunMeta{}, fmt.Errorf("stored histogram %s: %w", id, err)
	}

	rows, err := s.Query(`SELECT bin_index, signal, error_sq, num_events FROM histogram_bins WHERE run_id = ?`, id)
	if err != nil {
		return nil, RunMeta{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var i int
		var signal, errSq, n float64
		if err := rows.Scan(&i, &signal, &errSq, &n); err != nil {
			return nil, RunMeta{}, err
		}
		if i < 0 || i >= h.Size() {
			return nil, RunMeta{}, fmt.Errorf("stored histogram %s: bin %d out of range", id, i)
		}
		h.Signal[i], h.ErrorSq[i], h.NumEvents[i] = signal, errSq, n
	}
	if err := rows.Err(); err != nil {
		return nil, RunMeta{}, err
	}
	return h, meta, nil
}

func (s *Store) loadDims(id string) ([]models.Dimension, error) {
	rows, err := s.Query(`SELECT name, unit, min, max, bins FROM histogram_dims WHERE run_id = ? ORDER BY dim_index`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dims []models.Dimension
	for rows.Next() {
		var d models.Dimension
		if err := rows.Scan(&d.Name, &d.Unit, &d.Min, &d.Max, &d.Bins); err != nil {
			return nil, err
		}
		dims = append(dims, d)
	}
	return dims, rows.Err()
}

// Runs lists stored run ids, newest first.
func (s *Store) Runs() ([]uuid.UUID, error) {
	rows, err := s.Query(`SELECT run_id FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid run id %q: %w", raw, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
