package normalizer

import (
	"errors"
	"fmt"

	"dealerfeeds/internal/models"
)

// Exclusion reasons. A vehicle failing a platform policy is left out of that
// platform's feed only.
var (
	ErrNilVehicle        = errors.New("vehicle is nil")
	ErrMissingIdentifier = errors.New("missing stock number and VIN")
	ErrMissingVIN        = errors.New("missing VIN")
	ErrMissingPrice      = errors.New("missing price and MSRP")
	ErrMissingPhotos     = errors.New("missing photos")
	ErrMissingMSRP       = errors.New("new vehicle missing MSRP")
	ErrUnknownPlatform   = errors.New("unknown platform")
)

// Policy decides whether a vehicle may be listed. It returns nil to include
// the vehicle, otherwise the exclusion reason.
type Policy func(v *Vehicle) error

// FacebookPolicy requires an identifier, a price (selling price or MSRP) and
// at least one photo, checked in that order.
func FacebookPolicy(v *Vehicle) error {
	if v == nil {
		return ErrNilVehicle
	}

	if v.ID == "" {
		return ErrMissingIdentifier
	}

	if !v.Price.Valid {
		return ErrMissingPrice
	}

	if len(v.Photos) == 0 {
		return ErrMissingPhotos
	}

	return nil
}

// GooglePolicy requires a VIN and a price. New vehicles additionally need an
// MSRP; a selling price alone does not satisfy them.
func GooglePolicy(v *Vehicle) error {
	if v == nil {
		return ErrNilVehicle
	}

	if v.VIN == "" {
		return ErrMissingVIN
	}

	if !v.Price.Valid {
		return ErrMissingPrice
	}

	if v.Condition.IsNew() && !v.MSRP.Valid {
		return ErrMissingMSRP
	}

	return nil
}

// Validator applies the eligibility policy of each platform.
type Validator struct {
	policies map[models.Platform]Policy
}

// NewValidator creates a validator with the Facebook and Google policies.
func NewValidator() *Validator {
	return &Validator{
		policies: map[models.Platform]Policy{
			models.PlatformFacebook: FacebookPolicy,
			models.PlatformGoogle:   GooglePolicy,
		},
	}
}

// Policy returns the policy registered for platform.
func (val *Validator) Policy(platform models.Platform) (Policy, error) {
	policy, ok := val.policies[platform]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlatform, platform)
	}

	return policy, nil
}

// Validate checks v against the policy of platform.
func (val *Validator) Validate(v *Vehicle, platform models.Platform) error {
	policy, err := val.Policy(platform)
	if err != nil {
		return err
	}

	return policy(v)
}
