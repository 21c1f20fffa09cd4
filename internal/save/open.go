package save

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
)

const sqliteFileName = "saves.db"

// Open builds the store named by kind ("file" or "sqlite") rooted in dataDir.
func Open(ctx context.Context, kind, dataDir string, compress bool, logger *slog.Logger) (Store, error) {
	saves := filepath.Join(dataDir, "saves")
	switch kind {
	case "", "file":
		return NewFileStore(saves, compress, logger)
	case "sqlite":
		return OpenSQLite(ctx, filepath.Join(saves, sqliteFileName), logger)
	}
	return nil, fmt.Errorf("unknown store %q", kind)
}
