package transport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dealerfeeds/internal/logger"
)

// LocalSource reads inventory from the local file system. The path may name
// a CSV file or a directory holding one.
type LocalSource struct {
	path   string
	logger *logger.Logger
}

// NewLocalSource creates a local source for path.
func NewLocalSource(path string, log *logger.Logger) (*LocalSource, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrMissingInventory
	}

	if log == nil {
		log = logger.NewNop()
	}

	return &LocalSource{path: path, logger: log}, nil
}

// Fetch resolves the inventory file. The file is used in place and is never
// removed by Cleanup.
func (s *LocalSource) Fetch(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat inventory %s: %w", s.path, err)
	}

	path := s.path

	if info.IsDir() {
		entries, err := os.ReadDir(s.path)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", s.path, err)
		}

		var names []string

		for _, e := range entries {
			if e.Type().IsRegular() {
				names = append(names, e.Name())
			}
		}

		name, err := pickCSV(names)
		if err != nil {
			return nil, fmt.Errorf("%w in %s", err, s.path)
		}

		path = filepath.Join(s.path, name)

		if info, err = os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to stat inventory %s: %w", path, err)
		}
	}

	s.logger.Info("Using local inventory", "path", path, "size", info.Size())

	return &Snapshot{
		Path:      path,
		Name:      filepath.Base(path),
		Size:      info.Size(),
		FetchedAt: time.Now(),
	}, nil
}
