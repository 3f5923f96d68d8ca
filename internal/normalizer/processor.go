// Package normalizer cleans raw inventory values and decides per platform
// whether a vehicle can be listed.
package normalizer

import (
	"fmt"

	"dealerfeeds/internal/models"
)

// Processor transforms a record and then applies a platform policy.
type Processor struct {
	validator   *Validator
	transformer *Transformer
}

// NewProcessor creates a new processor instance.
func NewProcessor() *Processor {
	return &Processor{
		validator:   NewValidator(),
		transformer: NewTransformer(),
	}
}

// BodyStyleMapperFor returns the body style vocabulary of platform.
func BodyStyleMapperFor(platform models.Platform) (BodyStyleMapper, error) {
	switch platform {
	case models.PlatformFacebook:
		return FacebookBodyStyleMapper, nil
	case models.PlatformGoogle:
		return MapBodyStyleGoogle, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlatform, platform)
	}
}

// Process normalizes record for platform. The vehicle is returned even when
// it is ineligible so callers can report it; the error then wraps the
// exclusion reason.
func (p *Processor) Process(record models.VehicleRecord, dealer *models.Dealership, platform models.Platform) (*Vehicle, error) {
	mapper, err := BodyStyleMapperFor(platform)
	if err != nil {
		return nil, err
	}

	// 1. Transform the raw values
	vehicle, err := p.transformer.Transform(record, dealer, mapper)
	if err != nil {
		return nil, fmt.Errorf("transformation failed: %w", err)
	}

	// 2. Apply the platform policy
	if err := p.validator.Validate(vehicle, platform); err != nil {
		return vehicle, fmt.Errorf("%s: %w", platform, err)
	}

	return vehicle, nil
}
