package transcript

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"sermon-search/domain"
)

// Loader resolves and parses caption files for catalog items. Absence of a
// transcript is never an error: a missing, unreadable, or empty file all load
// as nil so indexing of the rest of an item's metadata proceeds.
type Loader struct {
	baseDir string
	logger  *slog.Logger
}

func NewLoader(baseDir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		baseDir: baseDir,
		logger:  logger,
	}
}

// PathFor maps an item identifier to its caption file path. The mapping is a
// pure function of the identifier and the configured base directory.
func (l *Loader) PathFor(itemID int64) string {
	return filepath.Join(l.baseDir, fmt.Sprintf("%d.vtt", itemID))
}

// Load returns the parsed transcript for an item, or nil when there is none.
func (l *Loader) Load(itemID int64) *domain.Transcript {
	path := l.PathFor(itemID)

	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			l.logger.Warn("transcript unreadable", "item_id", itemID, "path", path, "err", err)
		}
		return nil
	}
	defer f.Close()

	parsed, err := Parse(f)
	if err != nil {
		l.logger.Warn("transcript parse failed", "item_id", itemID, "path", path, "err", err)
		return nil
	}

	if len(parsed.Chunks) == 0 {
		return nil
	}

	return parsed
}
