// Package pipeline runs one feed generation: fetch the inventory, split it by
// dealership, build and publish both platform feeds for every dealership.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"dealerfeeds/internal/config"
	"dealerfeeds/internal/feed"
	"dealerfeeds/internal/inventory"
	"dealerfeeds/internal/logger"
	"dealerfeeds/internal/models"
	"dealerfeeds/internal/publish"
	"dealerfeeds/internal/transport"
	"dealerfeeds/internal/validator"
	"dealerfeeds/pkg/metadata"
)

// ErrNilConfig is returned when a runner is created without configuration.
var ErrNilConfig = errors.New("config is required")

// Option configures a Runner.
type Option func(*Runner)

// WithSource overrides the inventory source built from the configuration.
func WithSource(s transport.Source) Option {
	return func(r *Runner) {
		r.source = s
	}
}

// WithPublisher overrides the publisher built from the configuration.
func WithPublisher(p publish.Publisher) Option {
	return func(r *Runner) {
		r.publisher = p
	}
}

// WithClock sets the time source for reports and feed timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(r *Runner) {
		r.logger = log
	}
}

// Runner executes generation runs. It is safe to call Run repeatedly but not
// concurrently.
type Runner struct {
	cfg       *config.Config
	source    transport.Source
	publisher publish.Publisher
	validator *validator.FeedValidator
	now       func() time.Time
	logger    *logger.Logger
}

// New creates a runner. Source and publisher come from cfg unless overridden.
func New(cfg *config.Config, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	r := &Runner{
		cfg:       cfg,
		validator: validator.NewFeedValidator(),
		now:       time.Now,
		logger:    logger.NewNop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	var err error

	if r.source == nil {
		if r.source, err = transport.NewSource(cfg.Source, r.logger); err != nil {
			return nil, fmt.Errorf("failed to create source: %w", err)
		}
	}

	if r.publisher == nil {
		if r.publisher, err = publish.NewPublisher(cfg.Publish, r.logger); err != nil {
			return nil, fmt.Errorf("failed to create publisher: %w", err)
		}
	}

	return r, nil
}

// Run performs one generation. Fetch and CSV errors abort the run before
// anything is published. Build and publish failures are recorded per feed
// and the remaining feeds are still produced.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	start := r.now()
	report := &Report{
		RunID:     uuid.NewString(),
		Timestamp: start.UTC(),
		Feeds:     []DealershipReport{},
	}

	log := r.logger.With("run_id", report.RunID)
	log.Info("🚀 Starting feed generation", "dealerships", len(r.cfg.Dealerships), "target", r.publisher.Target())

	log.Info("Phase 1: Fetching inventory...")

	snapshot, err := r.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch inventory: %w", err)
	}

	defer func() {
		if err := snapshot.Cleanup(); err != nil {
			log.Warn("⚠️  Snapshot cleanup failed", "error", err)
		}
	}()

	report.Source = snapshot.Name
	report.SourceBytes = snapshot.Size
	report.FetchedAt = snapshot.FetchedAt.UTC()

	records, err := inventory.ReadFile(snapshot.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory %s: %w", snapshot.Name, err)
	}

	log.Info("✅ Inventory loaded", "file", snapshot.Name, "bytes", snapshot.Size, "rows", len(records))

	log.Info("Phase 2: Partitioning by dealership...")

	groups, dropped := inventory.Partition(records, r.cfg.Dealerships)
	report.TotalVehicles = inventory.Count(groups)
	report.Unassigned = dropped

	if dropped > 0 {
		log.Warn("⚠️  Rows for unconfigured dealers ignored", "rows", dropped)
	}

	log.Info("Phase 3: Building and publishing feeds...")

	builders := make([]*feed.Builder, 0, 2)
	for _, p := range feed.Platforms() {
		builders = append(builders, feed.NewBuilder(p, feed.WithClock(r.now), feed.WithLogger(log)))
	}

	for _, group := range groups {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		dealer := group.Dealership
		if len(group.Records) == 0 && !r.cfg.Publish.PublishEmpty {
			log.Info("No vehicles, skipping dealership", "dealer_id", dealer.ID, "dealership", dealer.Name)
			continue
		}

		dr := DealershipReport{
			Dealership:   dealer.Name,
			DealerID:     dealer.ID,
			VehicleCount: len(group.Records),
		}

		for _, b := range builders {
			dr.setFeed(b.Platform(), r.generate(ctx, log, b, dealer, group.Records))
		}

		report.Feeds = append(report.Feeds, dr)
	}

	report.Duration = r.now().Sub(start)

	log.Info("✨ Feed generation complete",
		"dealerships", len(report.Feeds),
		"vehicles", report.TotalVehicles,
		"failed_feeds", report.FailedFeeds(),
		"duration", report.Duration)

	return report, nil
}

func (r *Runner) generate(
	ctx context.Context,
	log *logger.Logger,
	b *feed.Builder,
	dealer *models.Dealership,
	records []models.VehicleRecord,
) *FeedReport {
	log = log.With("platform", b.Platform(), "dealer_id", dealer.ID)

	result, err := b.Build(dealer, records)
	if err != nil {
		log.Error("❌ Build failed", "error", err)
		return &FeedReport{File: models.FeedFileName(dealer, b.Platform()), Error: err.Error()}
	}

	fr := &FeedReport{
		File:    result.FileName,
		Entries: result.Entries,
		Skipped: len(result.Skipped),
	}

	if check, err := r.validator.Validate(result.Document); err == nil && !check.IsValid {
		fr.ValidationErrors = len(check.Errors)
		log.Warn("⚠️  Feed failed structural validation", "file", fr.File, "errors", fr.ValidationErrors)
	}

	data, err := result.Render()
	if err != nil {
		log.Error("❌ Render failed", "file", fr.File, "error", err)
		fr.Error = err.Error()

		return fr
	}

	meta := metadata.Describe(data)
	fr.SHA256 = meta.Hash
	fr.Bytes = meta.Size

	url, err := r.publisher.Publish(ctx, fr.File, data, publish.ContentTypeXML)
	if err != nil {
		log.Error("❌ Publish failed", "file", fr.File, "error", err)
		fr.Error = err.Error()

		return fr
	}

	fr.URL = url

	log.Info("✅ Feed published", "file", fr.File, "entries", fr.Entries, "skipped", fr.Skipped, "bytes", fr.Bytes, "url", url)

	return fr
}
