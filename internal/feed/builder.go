package feed

import (
	"errors"
	"fmt"
	"time"

	"dealerfeeds/internal/logger"
	"dealerfeeds/internal/models"
	"dealerfeeds/internal/normalizer"
)

// ErrNilDealership is returned when a feed is built without a dealership.
var ErrNilDealership = errors.New("dealership is required")

// Platform describes one feed format. A single Builder produces every
// platform from this description.
type Platform struct {
	ID models.Platform
	// BodyStyle maps raw body styles onto the platform vocabulary.
	BodyStyle normalizer.BodyStyleMapper
	// Policy excludes vehicles missing the platform's required fields.
	Policy normalizer.Policy
	// Document creates the root element with document level metadata.
	Document func(d *models.Dealership, now time.Time) *Element
	// Entry renders one eligible vehicle.
	Entry func(v *normalizer.Vehicle, d *models.Dealership) (*Element, error)
}

// Skip records a vehicle left out of a feed.
type Skip struct {
	// Row is the zero-based position of the record within the dealership's rows.
	Row    int
	ID     string
	Reason error
}

// Result is a built, not yet rendered, feed document.
type Result struct {
	Platform   models.Platform
	Dealership *models.Dealership
	FileName   string
	Document   *Element
	Entries    int
	Skipped    []Skip
}

// Render serializes the document.
func (r *Result) Render() ([]byte, error) {
	return Render(r.Document)
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock sets the time source used for document timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// WithLogger sets the logger used to report skipped vehicles.
func WithLogger(log *logger.Logger) Option {
	return func(b *Builder) {
		b.logger = log
	}
}

// Builder turns a dealership's inventory rows into one platform feed.
type Builder struct {
	platform    Platform
	transformer *normalizer.Transformer
	now         func() time.Time
	logger      *logger.Logger
}

// NewBuilder creates a builder for platform.
func NewBuilder(platform Platform, opts ...Option) *Builder {
	b := &Builder{
		platform:    platform,
		transformer: normalizer.NewTransformer(),
		now:         time.Now,
		logger:      logger.NewNop(),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Platform returns the platform this builder produces.
func (b *Builder) Platform() models.Platform {
	return b.platform.ID
}

// Build renders every eligible record in input order. Records that are
// ineligible or fail to render are recorded in Result.Skipped and never stop
// the remaining records.
func (b *Builder) Build(dealer *models.Dealership, records []models.VehicleRecord) (*Result, error) {
	if dealer == nil {
		return nil, ErrNilDealership
	}

	result := &Result{
		Platform:   b.platform.ID,
		Dealership: dealer,
		FileName:   models.FeedFileName(dealer, b.platform.ID),
		Document:   b.platform.Document(dealer, b.now()),
	}

	for i, record := range records {
		entry, id, err := b.entry(record, dealer)
		if err != nil {
			result.Skipped = append(result.Skipped, Skip{Row: i, ID: id, Reason: err})
			b.logger.Debug("vehicle skipped",
				"platform", b.platform.ID,
				"dealer_id", dealer.ID,
				"row", i,
				"id", id,
				"reason", err)

			continue
		}

		result.Document.Children = append(result.Document.Children, entry)
		result.Entries++
	}

	return result, nil
}

func (b *Builder) entry(record models.VehicleRecord, dealer *models.Dealership) (*Element, string, error) {
	vehicle, err := b.transformer.Transform(record, dealer, b.platform.BodyStyle)
	if err != nil {
		return nil, "", err
	}

	if b.platform.Policy != nil {
		if err := b.platform.Policy(vehicle); err != nil {
			return nil, vehicle.ID, err
		}
	}

	entry, err := b.platform.Entry(vehicle, dealer)
	if err != nil {
		return nil, vehicle.ID, fmt.Errorf("failed to render entry: %w", err)
	}

	return entry, vehicle.ID, nil
}

// Platforms returns the Facebook and Google platform descriptions in
// generation order.
func Platforms() []Platform {
	return []Platform{Facebook(), Google()}
}
