// Package config provides configuration management for the feed generator.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"dealerfeeds/internal/models"
)

// Source types.
const (
	SourceSFTP = "sftp"
	SourceFile = "file"
	SourceHTTP = "http"
)

// Publish targets.
const (
	TargetFile = "file"
	TargetS3   = "s3"
	TargetBlob = "blob"
)

// Configuration validation errors.
var (
	ErrNoDealerships          = errors.New("at least one dealership is required")
	ErrDealershipMissingID    = errors.New("dealership id is required")
	ErrDealershipMissingName  = errors.New("dealership name is required")
	ErrDealershipMissingSite  = errors.New("dealership website is required")
	ErrDealershipMissingStore = errors.New("dealership store_code is required")
	ErrDuplicateDealership    = errors.New("duplicate dealership id")
	ErrInvalidSourceType      = errors.New("source.type must be one of: sftp, file, http")
	ErrMissingSourceFile      = errors.New("source.file is required for file sources")
	ErrMissingSourceURL       = errors.New("source.url is required for http sources")
	ErrInvalidRetry           = errors.New("source.retry.max_attempts must be at least 1")
	ErrMissingSFTPHost        = errors.New("source.sftp.host is required for sftp sources")
	ErrInvalidTimeout         = errors.New("source.timeout_sec must be at least 1")
	ErrInvalidPublishTarget   = errors.New("publish.target must be one of: file, s3, blob")
	ErrMissingPublishDir      = errors.New("publish.dir is required for file targets")
	ErrMissingS3Bucket        = errors.New("publish.s3.bucket is required for s3 targets")
	ErrMissingBlobToken       = errors.New("publish.blob.token is required for blob targets")
	ErrInvalidLogLevel        = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat       = errors.New("logging.format must be 'console' or 'json'")
)

// Config represents the complete feed generator configuration.
type Config struct {
	Dealerships []models.Dealership `yaml:"dealerships"`
	Source      SourceConfig        `yaml:"source"`
	Publish     PublishConfig       `yaml:"publish"`
	Logging     LoggingConfig       `yaml:"logging"`
	Server      ServerConfig        `yaml:"server"`
}

// SourceConfig selects where the inventory CSV comes from.
type SourceConfig struct {
	Type       string      `yaml:"type"`
	File       string      `yaml:"file"`
	URL        string      `yaml:"url"`
	SFTP       SFTPConfig  `yaml:"sftp"`
	TimeoutSec int         `yaml:"timeout_sec"`
	Retry      RetryPolicy `yaml:"retry"`
}

// RetryPolicy defines retry behavior of HTTP sources.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
}

// GetRetryDelay returns the wait after the given failed attempt, starting at
// InitialDelayMs and growing by BackoffMultiplier up to MaxDelayMs.
func (rp *RetryPolicy) GetRetryDelay(attempt int) time.Duration {
	if attempt < 1 {
		return 0
	}

	delayMs := float64(rp.InitialDelayMs)
	for i := 1; i < attempt; i++ {
		delayMs *= rp.BackoffMultiplier
	}

	if rp.MaxDelayMs > 0 && delayMs > float64(rp.MaxDelayMs) {
		delayMs = float64(rp.MaxDelayMs)
	}

	return time.Duration(delayMs) * time.Millisecond
}

// SFTPConfig holds SFTP connection settings.
type SFTPConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	Directory string `yaml:"directory"`
	// HostKey is an authorized_keys formatted public key. Empty disables host key checking.
	HostKey string `yaml:"host_key"`
}

// Address returns host:port for dialing.
func (s *SFTPConfig) Address() string {
	port := s.Port
	if port == 0 {
		port = 22
	}

	return fmt.Sprintf("%s:%d", s.Host, port)
}

// PublishConfig selects where rendered feeds are written.
type PublishConfig struct {
	Target        string     `yaml:"target"`
	Dir           string     `yaml:"dir"`
	PublicBaseURL string     `yaml:"public_base_url"`
	PublishEmpty  bool       `yaml:"publish_empty"`
	S3            S3Config   `yaml:"s3"`
	Blob          BlobConfig `yaml:"blob"`
}

// S3Config holds S3-compatible object storage settings.
type S3Config struct {
	Bucket       string `yaml:"bucket"`
	Region       string `yaml:"region"`
	Endpoint     string `yaml:"endpoint"`
	AccessKey    string `yaml:"access_key"`
	SecretKey    string `yaml:"secret_key"`
	Prefix       string `yaml:"prefix"`
	UsePathStyle bool   `yaml:"use_path_style"`
	CacheControl string `yaml:"cache_control"`
}

// BlobConfig holds token-authenticated blob store settings.
type BlobConfig struct {
	Endpoint string `yaml:"endpoint"`
	Token    string `yaml:"token"`
	Prefix   string `yaml:"prefix"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig holds the local HTTP server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoadConfig loads configuration from a YAML file, applies defaults and
// environment overrides, and validates the result.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	ApplyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML and fills defaults without validating.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Source.Type == "" {
		c.Source.Type = SourceSFTP
	}

	if c.Source.SFTP.Directory == "" {
		c.Source.SFTP.Directory = "/Vincue"
	}

	if c.Source.TimeoutSec == 0 {
		c.Source.TimeoutSec = 60
	}

	if c.Source.Retry.MaxAttempts == 0 {
		c.Source.Retry.MaxAttempts = 3
	}

	if c.Source.Retry.InitialDelayMs == 0 {
		c.Source.Retry.InitialDelayMs = 500
	}

	if c.Source.Retry.MaxDelayMs == 0 {
		c.Source.Retry.MaxDelayMs = 30000
	}

	if c.Source.Retry.BackoffMultiplier == 0 {
		c.Source.Retry.BackoffMultiplier = 2.0
	}

	if c.Publish.Target == "" {
		c.Publish.Target = TargetFile
	}

	if c.Publish.Dir == "" {
		c.Publish.Dir = "feeds"
	}

	if c.Publish.Blob.Endpoint == "" {
		c.Publish.Blob.Endpoint = "https://blob.vercel-storage.com"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Dealerships) == 0 {
		return ErrNoDealerships
	}

	seen := make(map[string]bool, len(c.Dealerships))

	for i, d := range c.Dealerships {
		id := strings.TrimSpace(d.ID)
		if id == "" {
			return fmt.Errorf("%w: dealerships[%d]", ErrDealershipMissingID, i)
		}

		if d.Name == "" {
			return fmt.Errorf("%w: dealerships[%d]", ErrDealershipMissingName, i)
		}

		if d.Website == "" {
			return fmt.Errorf("%w: dealerships[%d]", ErrDealershipMissingSite, i)
		}

		if d.StoreCode == "" {
			return fmt.Errorf("%w: dealerships[%d]", ErrDealershipMissingStore, i)
		}

		if seen[id] {
			return fmt.Errorf("%w: %s", ErrDuplicateDealership, id)
		}

		seen[id] = true
	}

	switch c.Source.Type {
	case SourceFile:
		if c.Source.File == "" {
			return ErrMissingSourceFile
		}
	case SourceSFTP:
		if c.Source.SFTP.Host == "" {
			return ErrMissingSFTPHost
		}
	case SourceHTTP:
		if c.Source.URL == "" {
			return ErrMissingSourceURL
		}

		if c.Source.Retry.MaxAttempts < 1 {
			return ErrInvalidRetry
		}
	default:
		return ErrInvalidSourceType
	}

	if c.Source.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	switch c.Publish.Target {
	case TargetFile:
		if c.Publish.Dir == "" {
			return ErrMissingPublishDir
		}
	case TargetS3:
		if c.Publish.S3.Bucket == "" {
			return ErrMissingS3Bucket
		}
	case TargetBlob:
		if c.Publish.Blob.Token == "" {
			return ErrMissingBlobToken
		}
	default:
		return ErrInvalidPublishTarget
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

// GetTimeout returns the source timeout duration.
func (s *SourceConfig) GetTimeout() time.Duration {
	return time.Duration(s.TimeoutSec) * time.Second
}

// Dealership looks up a configured dealership by id.
func (c *Config) Dealership(id string) (*models.Dealership, bool) {
	id = strings.TrimSpace(id)
	for i := range c.Dealerships {
		if c.Dealerships[i].ID == id {
			return &c.Dealerships[i], true
		}
	}

	return nil, false
}

// FeedURL returns the public URL of a published feed file, or "" when no
// public base URL is configured.
func (c *Config) FeedURL(fileName string) string {
	base := strings.TrimRight(c.Publish.PublicBaseURL, "/")
	if base == "" {
		return ""
	}

	return base + "/" + fileName
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Dealerships: %d, Source: %s, Publish: %s}",
		len(c.Dealerships),
		c.Source.Type,
		c.Publish.Target,
	)
}
