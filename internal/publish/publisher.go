// Package publish writes rendered feeds to their public location.
package publish

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dealerfeeds/internal/config"
	"dealerfeeds/internal/logger"
)

// ContentTypeXML is the content type of every published feed.
const ContentTypeXML = "application/xml"

// Publish errors.
var (
	ErrUnsupportedTarget = errors.New("unsupported publish target")
	ErrEmptyName         = errors.New("feed name is required")
	ErrUnexpectedStatus  = errors.New("unexpected status code")
)

// Publisher stores one named feed and returns the URL it is served from.
type Publisher interface {
	Publish(ctx context.Context, name string, data []byte, contentType string) (string, error)
	Target() string
}

// NewPublisher creates the publisher selected by cfg.
func NewPublisher(cfg config.PublishConfig, log *logger.Logger) (Publisher, error) {
	if log == nil {
		log = logger.NewNop()
	}

	switch cfg.Target {
	case config.TargetFile:
		return NewFilePublisher(cfg.Dir, cfg.PublicBaseURL, log)
	case config.TargetS3:
		return NewS3Publisher(cfg.S3, cfg.PublicBaseURL, WithS3Logger(log))
	case config.TargetBlob:
		return NewBlobPublisher(cfg.Blob, cfg.PublicBaseURL, WithBlobLogger(log))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedTarget, cfg.Target)
	}
}

// joinURL appends name to base with exactly one slash, or returns "" when
// base is empty.
func joinURL(base, name string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return ""
	}

	return base + "/" + strings.TrimLeft(name, "/")
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}

	return nil
}
