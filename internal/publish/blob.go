package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"dealerfeeds/internal/config"
	"dealerfeeds/internal/logger"
	"dealerfeeds/pkg/utils"
)

const (
	defaultBlobEndpoint = "https://blob.vercel-storage.com"
	blobAPIVersion      = "7"
	maxBlobResponse     = 1 << 20
)

// ErrMissingToken is returned when a blob publisher has no token.
var ErrMissingToken = errors.New("blob token is required")

// blobResponse is the relevant part of the blob store's upload response.
type blobResponse struct {
	URL         string `json:"url"`
	DownloadURL string `json:"downloadUrl"`
	Pathname    string `json:"pathname"`
}

// BlobPublisher uploads feeds to a token authenticated blob store with
// HTTP PUT.
type BlobPublisher struct {
	httpClient *http.Client
	endpoint   string
	token      string
	prefix     string
	baseURL    string
	headers    *utils.HTTPHelper
	logger     *logger.Logger
}

// BlobOption is a functional option for configuring BlobPublisher.
type BlobOption func(*BlobPublisher)

// WithBlobLogger sets the logger.
func WithBlobLogger(log *logger.Logger) BlobOption {
	return func(p *BlobPublisher) {
		p.logger = log
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) BlobOption {
	return func(p *BlobPublisher) {
		p.httpClient = client
	}
}

// NewBlobPublisher creates a blob publisher.
func NewBlobPublisher(cfg config.BlobConfig, baseURL string, opts ...BlobOption) (*BlobPublisher, error) {
	if cfg.Token == "" {
		return nil, ErrMissingToken
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultBlobEndpoint
	}

	p := &BlobPublisher{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		endpoint:   strings.TrimRight(endpoint, "/"),
		token:      cfg.Token,
		prefix:     strings.Trim(cfg.Prefix, "/"),
		baseURL:    baseURL,
		headers:    utils.NewHTTPHelper(),
		logger:     logger.NewNop(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Target implements Publisher.
func (p *BlobPublisher) Target() string {
	return "blob"
}

func (p *BlobPublisher) pathname(name string) string {
	if p.prefix == "" {
		return name
	}

	return p.prefix + "/" + name
}

// Publish uploads data, overwriting any previous feed with the same name.
// The URL reported by the store is returned unless a public base URL is set.
func (p *BlobPublisher) Publish(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	pathname := p.pathname(name)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, p.endpoint+"/"+pathname, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header = p.headers.BuildHeaders(map[string]string{
		"Authorization":       "Bearer " + p.token,
		"Content-Type":        contentType,
		"X-Content-Type":      contentType,
		"X-Api-Version":       blobAPIVersion,
		"X-Add-Random-Suffix": "0",
		"X-Allow-Overwrite":   "1",
	})
	req.ContentLength = int64(len(data))

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBlobResponse))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		p.logger.Error("Blob upload failed", "pathname", pathname, "status", resp.StatusCode)
		return "", fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	p.logger.Debug("Feed uploaded", "pathname", pathname, "bytes", len(data))

	if url := joinURL(p.baseURL, pathname); url != "" {
		return url, nil
	}

	var out blobResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	return out.URL, nil
}
