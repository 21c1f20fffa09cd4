package save

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/appengine-ltd/under-the-shadow/internal/game"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS saves (
	slot     INTEGER PRIMARY KEY,
	run_id   TEXT NOT NULL,
	week     INTEGER NOT NULL,
	phase    TEXT NOT NULL,
	ending   TEXT NOT NULL DEFAULT '',
	saved_at TEXT NOT NULL,
	payload  BLOB NOT NULL
);`

type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenSQLite opens (and creates if missing) the slot database at path.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("empty db path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, slot int, f File) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	data, err := Encode(f)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO saves (slot, run_id, week, phase, ending, saved_at, payload)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(slot) DO UPDATE SET
	run_id = excluded.run_id,
	week = excluded.week,
	phase = excluded.phase,
	ending = excluded.ending,
	saved_at = excluded.saved_at,
	payload = excluded.payload`,
		slot, f.RunID, f.Snapshot.Week, string(f.Snapshot.Phase), f.Snapshot.EndingID,
		f.SavedAt.UTC().Format(time.RFC3339Nano), data)
	if err != nil {
		return fmt.Errorf("write slot %d: %w", slot, err)
	}
	s.logger.Info("save written", "slot", slot, "run", f.RunID, "week", f.Snapshot.Week, "store", "sqlite")
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, slot int) (File, error) {
	if err := checkSlot(slot); err != nil {
		return File{}, err
	}
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM saves WHERE slot = ?`, slot).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return File{}, fmt.Errorf("%w: %d", ErrSlotNotFound, slot)
	}
	if err != nil {
		return File{}, fmt.Errorf("read slot %d: %w", slot, err)
	}
	return Decode(payload)
}

func (s *SQLiteStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT slot, run_id, week, phase, ending, saved_at FROM saves ORDER BY slot`)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum     Summary
			phase   string
			savedAt string
		)
		if err := rows.Scan(&sum.Slot, &sum.RunID, &sum.Week, &phase, &sum.EndingID, &savedAt); err != nil {
			return nil, fmt.Errorf("scan save: %w", err)
		}
		sum.Phase = game.Phase(phase)
		sum.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt)
		if err != nil {
			s.logger.Warn("bad saved_at", "slot", sum.Slot, "value", savedAt)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
