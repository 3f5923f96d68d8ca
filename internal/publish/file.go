package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"dealerfeeds/internal/logger"
)

// ErrMissingDir is returned when a file publisher has no output directory.
var ErrMissingDir = errors.New("publish directory is required")

// FilePublisher writes feeds into a local directory, typically one served
// as static files.
type FilePublisher struct {
	dir     string
	baseURL string
	logger  *logger.Logger
}

// NewFilePublisher creates a publisher writing into dir.
func NewFilePublisher(dir, baseURL string, log *logger.Logger) (*FilePublisher, error) {
	if dir == "" {
		return nil, ErrMissingDir
	}

	if log == nil {
		log = logger.NewNop()
	}

	return &FilePublisher{dir: dir, baseURL: baseURL, logger: log}, nil
}

// Target implements Publisher.
func (p *FilePublisher) Target() string {
	return "file"
}

// Dir returns the output directory.
func (p *FilePublisher) Dir() string {
	return p.dir
}

// Publish writes data atomically to dir/name. The returned URL uses the
// public base URL when set, otherwise the absolute file path.
func (p *FilePublisher) Publish(ctx context.Context, name string, data []byte, _ string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", p.dir, err)
	}

	target := filepath.Join(p.dir, filepath.Base(name))

	tmp, err := os.CreateTemp(p.dir, "."+filepath.Base(name)+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()

	if writeErr != nil || closeErr != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write %s: %w", target, errors.Join(writeErr, closeErr))
	}

	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to set permissions on %s: %w", target, err)
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to move feed into place: %w", err)
	}

	p.logger.Debug("Feed written", "path", target, "bytes", len(data))

	if url := joinURL(p.baseURL, filepath.Base(name)); url != "" {
		return url, nil
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		return target, nil
	}

	return abs, nil
}
