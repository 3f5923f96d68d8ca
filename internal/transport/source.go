// Package transport fetches the inventory snapshot from where the dealer
// management system drops it.
package transport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"dealerfeeds/internal/config"
	"dealerfeeds/internal/logger"
)

// Transport errors. Any of them aborts the run.
var (
	ErrNoCSVFiles       = errors.New("no CSV files found")
	ErrUnsupportedType  = errors.New("unsupported source type")
	ErrMissingHost      = errors.New("sftp host is required")
	ErrInvalidHostKey   = errors.New("invalid sftp host key")
	ErrMissingInventory = errors.New("inventory path is required")
)

// Snapshot is an inventory file ready to be read from local disk.
type Snapshot struct {
	// Path is the local file to read.
	Path string
	// Name is the file name at the source.
	Name      string
	Size      int64
	FetchedAt time.Time
	// Temporary snapshots are removed by Cleanup.
	Temporary bool
}

// Cleanup removes the local copy of a temporary snapshot.
func (s *Snapshot) Cleanup() error {
	if s == nil || !s.Temporary || s.Path == "" {
		return nil
	}

	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove snapshot %s: %w", s.Path, err)
	}

	return nil
}

// Source fetches the current inventory snapshot.
type Source interface {
	Fetch(ctx context.Context) (*Snapshot, error)
}

// NewSource creates the source selected by cfg.
func NewSource(cfg config.SourceConfig, log *logger.Logger) (Source, error) {
	switch cfg.Type {
	case config.SourceFile:
		return NewLocalSource(cfg.File, log)
	case config.SourceSFTP:
		return NewSFTPSource(cfg.SFTP, cfg.GetTimeout(), log)
	case config.SourceHTTP:
		return NewHTTPSource(cfg.URL, cfg.Retry, cfg.GetTimeout(), log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, cfg.Type)
	}
}

// isCSV reports whether name has a .csv extension, ignoring case.
func isCSV(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".csv")
}

// pickCSV returns the first CSV name in lexical order.
func pickCSV(names []string) (string, error) {
	var csvs []string

	for _, n := range names {
		if isCSV(n) {
			csvs = append(csvs, n)
		}
	}

	if len(csvs) == 0 {
		return "", ErrNoCSVFiles
	}

	sort.Strings(csvs)

	return csvs[0], nil
}
