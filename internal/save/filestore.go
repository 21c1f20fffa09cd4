package save

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
)

const (
	filePrefix = "shadow-save-"
	plainExt   = ".json"
	zstdExt    = ".json.zst"
)

// FileStore keeps one file per slot in Dir, zstd-compressed when Compress is set.
type FileStore struct {
	Dir      string
	Compress bool
	logger   *slog.Logger
}

func NewFileStore(dir string, compress bool, logger *slog.Logger) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("empty save dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{Dir: dir, Compress: compress, logger: logger}, nil
}

func (s *FileStore) path(slot int, compressed bool) string {
	ext := plainExt
	if compressed {
		ext = zstdExt
	}
	return filepath.Join(s.Dir, filePrefix+strconv.Itoa(slot)+ext)
}

func (s *FileStore) Save(ctx context.Context, slot int, f File) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Encode(f)
	if err != nil {
		return err
	}
	if s.Compress {
		data, err = compress(data)
		if err != nil {
			return err
		}
	}
	target := s.path(slot, s.Compress)
	if err := writeAtomic(target, data); err != nil {
		return fmt.Errorf("write slot %d: %w", slot, err)
	}
	// Only one encoding per slot may exist.
	_ = os.Remove(s.path(slot, !s.Compress))
	s.logger.Info("save written", "slot", slot, "run", f.RunID, "week", f.Snapshot.Week, "path", target)
	return nil
}

func (s *FileStore) Load(ctx context.Context, slot int) (File, error) {
	if err := checkSlot(slot); err != nil {
		return File{}, err
	}
	if err := ctx.Err(); err != nil {
		return File{}, err
	}
	for _, compressed := range []bool{true, false} {
		data, err := os.ReadFile(s.path(slot, compressed))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return File{}, err
		}
		if compressed {
			data, err = decompress(data)
			if err != nil {
				return File{}, fmt.Errorf("%w: slot %d: %v", ErrInvalidSave, slot, err)
			}
		}
		return Decode(data)
	}
	return File{}, fmt.Errorf("%w: %d", ErrSlotNotFound, slot)
}

func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, err
	}
	seen := map[int]bool{}
	var out []Summary
	for _, entry := range entries {
		slot, ok := slotFromName(entry.Name())
		if !ok || seen[slot] {
			continue
		}
		seen[slot] = true
		f, err := s.Load(ctx, slot)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn("skipping unreadable save", "slot", slot, "err", err)
			continue
		}
		out = append(out, summarize(slot, f))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out, nil
}

func (s *FileStore) Close() error { return nil }

func slotFromName(name string) (int, bool) {
	if !strings.HasPrefix(name, filePrefix) {
		return 0, false
	}
	rest := strings.TrimPrefix(name, filePrefix)
	switch {
	case strings.HasSuffix(rest, zstdExt):
		rest = strings.TrimSuffix(rest, zstdExt)
	case strings.HasSuffix(rest, plainExt):
		rest = strings.TrimSuffix(rest, plainExt)
	default:
		return 0, false
	}
	slot, err := strconv.Atoi(rest)
	if err != nil || checkSlot(slot) != nil {
		return 0, false
	}
	return slot, true
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	if _, err := enc.Write(data); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return io.ReadAll(dec)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "save-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}
	cleanup = false
	return nil
}
