package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"dealerfeeds/internal/config"
	"dealerfeeds/internal/logger"
	"dealerfeeds/pkg/utils"
)

// HTTP source errors.
var (
	ErrMissingURL           = errors.New("inventory url is required")
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
)

const defaultExportName = "inventory.csv"

// HTTPSource downloads the inventory export from a URL, retrying temporary
// failures with exponential backoff.
type HTTPSource struct {
	url     string
	client  *http.Client
	retry   config.RetryPolicy
	headers *utils.HTTPHelper
	logger  *logger.Logger
	tempDir string
}

// NewHTTPSource creates an HTTP source. A zero timeout disables the client deadline.
func NewHTTPSource(rawURL string, retry config.RetryPolicy, timeout time.Duration, log *logger.Logger) (*HTTPSource, error) {
	return NewHTTPSourceWithClient(rawURL, retry, &http.Client{Timeout: timeout}, log)
}

// NewHTTPSourceWithClient creates an HTTP source using client.
func NewHTTPSourceWithClient(rawURL string, retry config.RetryPolicy, client *http.Client, log *logger.Logger) (*HTTPSource, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, ErrMissingURL
	}

	if log == nil {
		log = logger.NewNop()
	}

	if retry.MaxAttempts < 1 {
		retry.MaxAttempts = 1
	}

	return &HTTPSource{
		url:     rawURL,
		client:  client,
		retry:   retry,
		headers: utils.NewHTTPHelper(),
		logger:  log,
	}, nil
}

// Fetch downloads the export to a temporary file.
func (s *HTTPSource) Fetch(ctx context.Context) (*Snapshot, error) {
	var lastErr error

	for attempt := 1; attempt <= s.retry.MaxAttempts; attempt++ {
		snapshot, retryable, err := s.download(ctx)
		if err == nil {
			return snapshot, nil
		}

		lastErr = fmt.Errorf("download failed (attempt %d/%d): %w", attempt, s.retry.MaxAttempts, err)

		if !retryable || attempt == s.retry.MaxAttempts {
			break
		}

		delay := s.retry.GetRetryDelay(attempt)
		s.logger.Warn("⚠️  Inventory download failed, retrying", "attempt", attempt, "delay", delay, "error", err)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ctx.Err(), lastErr)
		case <-time.After(delay):
		}
	}

	return nil, lastErr
}

func (s *HTTPSource) download(ctx context.Context) (*Snapshot, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, http.NoBody)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header = s.headers.BuildHeaders(map[string]string{"Accept": "text/csv,*/*;q=0.8"})

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, isRetryableStatus(resp.StatusCode), fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	local, err := os.CreateTemp(s.tempDir, "inventory-*.csv")
	if err != nil {
		return nil, false, fmt.Errorf("failed to create temp file: %w", err)
	}

	size, copyErr := io.Copy(local, resp.Body)
	closeErr := local.Close()

	if copyErr != nil || closeErr != nil {
		_ = os.Remove(local.Name())

		if copyErr != nil {
			return nil, true, fmt.Errorf("failed to read response body: %w", copyErr)
		}

		return nil, false, fmt.Errorf("failed to write %s: %w", local.Name(), closeErr)
	}

	name := exportName(s.url)
	s.logger.Info("Downloaded inventory", "file", name, "bytes", size)

	return &Snapshot{
		Path:      local.Name(),
		Name:      name,
		Size:      size,
		FetchedAt: time.Now(),
		Temporary: true,
	}, false, nil
}

func exportName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return defaultExportName
	}

	if name := path.Base(u.Path); name != "." && name != "/" {
		return name
	}

	return defaultExportName
}

// isRetryableStatus reports whether a status signals a temporary failure.
func isRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
		http.StatusBadGateway,
		http.StatusTooManyRequests,
		http.StatusRequestTimeout:
		return true
	}

	return false
}
