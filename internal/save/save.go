// Package save persists run snapshots into numbered slots.
package save

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/appengine-ltd/under-the-shadow/internal/game"
)

const (
	FormatVersion = 1
	MaxSlot       = 99
)

var (
	ErrSlotNotFound = errors.New("save slot not found")
	ErrInvalidSave  = errors.New("invalid save")
)

type File struct {
	FormatVersion int           `json:"format_version"`
	SavedAt       time.Time     `json:"saved_at"`
	RunID         string        `json:"run_id"`
	Snapshot      game.Snapshot `json:"snapshot"`
}

func NewFile(run *game.RunState, now time.Time) File {
	return File{
		FormatVersion: FormatVersion,
		SavedAt:       now.UTC(),
		RunID:         run.RunID,
		Snapshot:      run.Snapshot(),
	}
}

// Store keeps one File per slot.
type Store interface {
	Save(ctx context.Context, slot int, f File) error
	Load(ctx context.Context, slot int) (File, error)
	List(ctx context.Context) ([]Summary, error)
	Close() error
}

type Summary struct {
	Slot     int        `json:"slot"`
	RunID    string     `json:"run_id"`
	Week     int        `json:"week"`
	Phase    game.Phase `json:"phase"`
	EndingID string     `json:"ending_id,omitempty"`
	SavedAt  time.Time  `json:"saved_at"`
}

func (s Summary) Describe(now time.Time) string {
	line := fmt.Sprintf("slot %d  week %d  %s", s.Slot, s.Week, s.Phase)
	if s.EndingID != "" {
		line += "  ending=" + s.EndingID
	}
	return line + "  saved " + humanize.RelTime(s.SavedAt, now, "ago", "from now")
}

func summarize(slot int, f File) Summary {
	return Summary{
		Slot:     slot,
		RunID:    f.RunID,
		Week:     f.Snapshot.Week,
		Phase:    f.Snapshot.Phase,
		EndingID: f.Snapshot.EndingID,
		SavedAt:  f.SavedAt,
	}
}

func checkSlot(slot int) error {
	if slot < 1 || slot > MaxSlot {
		return fmt.Errorf("%w: slot %d outside 1..%d", ErrInvalidSave, slot, MaxSlot)
	}
	return nil
}

// Encode marshals f and validates the result against the save schema.
func Encode(f File) ([]byte, error) {
	if f.FormatVersion == 0 {
		f.FormatVersion = FormatVersion
	}
	data, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode save: %w", err)
	}
	if err := validate(data); err != nil {
		return nil, err
	}
	return data, nil
}

func Decode(data []byte) (File, error) {
	if err := validate(data); err != nil {
		return File{}, err
	}
	var f File
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&f); err != nil {
		return File{}, fmt.Errorf("%w: %v", ErrInvalidSave, err)
	}
	return f, nil
}
