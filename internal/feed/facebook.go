package feed

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"dealerfeeds/internal/models"
	"dealerfeeds/internal/normalizer"
	"dealerfeeds/pkg/utils"
)

// Facebook AIA constants.
const (
	FacebookMaxImages    = 20
	FacebookMileageUnit  = "MI"
	FacebookAvailability = "in stock"
	FacebookVehicleState = "available"
	facebookMainImageTag = "main"
)

// ErrMissingDetailURL is returned when a vehicle has no landing page.
var ErrMissingDetailURL = errors.New("missing detail URL")

// Facebook returns the Automotive Inventory Ads platform description.
func Facebook() Platform {
	return Platform{
		ID:        models.PlatformFacebook,
		BodyStyle: normalizer.FacebookBodyStyleMapper,
		Policy:    normalizer.FacebookPolicy,
		Document:  facebookDocument,
		Entry:     facebookEntry,
	}
}

func facebookDocument(_ *models.Dealership, _ time.Time) *Element {
	return NewElement("listings")
}

func facebookEntry(v *normalizer.Vehicle, d *models.Dealership) (*Element, error) {
	if v.DetailURL == "" {
		return nil, ErrMissingDetailURL
	}

	listing := NewElement("listing")

	listing.AddText("vehicle_id", v.ID)
	listing.AddText("title", v.Title(v.Trim))
	listing.AddText("description", facebookDescription(v))

	address := listing.AddChild("address").SetAttr("format", "simple")
	address.AddText("component", d.Address.Street).SetAttr("name", "addr1")
	address.AddText("component", d.Address.City).SetAttr("name", "city")
	address.AddText("component", d.Address.Region).SetAttr("name", "region")
	address.AddText("component", d.Address.Country).SetAttr("name", "country")
	address.AddText("component", d.Address.PostalCode).SetAttr("name", "postal_code")

	vin := strings.ToLower(v.VIN)

	listing.AddText("year", v.Year)
	listing.AddText("make", v.Make)
	listing.AddText("model", v.Model)
	listing.AddText("vin", vin)
	listing.AddText("content_ids", vin)
	listing.AddText("availability", FacebookAvailability)
	listing.AddText("price", v.Price.String())
	listing.AddText("url", v.DetailURL)
	listing.AddText("state_of_vehicle", FacebookVehicleState)
	listing.AddText("condition", string(facebookCondition(v.Condition)))

	if miles, ok := facebookMileage(v); ok {
		mileage := listing.AddChild("mileage")
		mileage.AddText("value", strconv.FormatInt(miles, 10))
		mileage.AddText("unit", FacebookMileageUnit)
	}

	listing.AddTextIf("trim", v.Trim)
	listing.AddText("body_style", v.BodyStyle)
	listing.AddTextIf("exterior_color", v.ExteriorColor)
	listing.AddTextIf("interior_color", v.InteriorColor)

	for i, photo := range v.Photos {
		if i == FacebookMaxImages {
			break
		}

		image := listing.AddChild("image")
		image.AddText("url", photo)

		if i == 0 {
			image.AddText("tag", facebookMainImageTag)
		}
	}

	return listing, nil
}

// facebookDescription joins "Year Make Model" with the optional trim, color
// and body clauses as sentences.
func facebookDescription(v *normalizer.Vehicle) string {
	helper := utils.NewStringHelper()

	parts := []string{helper.JoinNonEmpty(" ", v.Year, v.Make, v.Model)}
	if v.Trim != "" {
		parts = append(parts, "Trim: "+v.Trim)
	}

	if v.ExteriorColor != "" {
		parts = append(parts, "Color: "+v.ExteriorColor)
	}

	if v.Body != "" {
		parts = append(parts, "Body Style: "+v.Body)
	}

	return helper.JoinNonEmpty(". ", parts...) + "."
}

// Facebook only distinguishes new from used.
func facebookCondition(c models.Condition) models.Condition {
	if c.IsNew() {
		return models.ConditionNew
	}

	return models.ConditionUsed
}

// facebookMileage returns the odometer reading, defaulting new vehicles to 0.
// Used vehicles without a reading get no mileage block.
func facebookMileage(v *normalizer.Vehicle) (int64, bool) {
	if v.Mileage.Valid {
		return v.Mileage.Miles, true
	}

	if v.Condition.IsNew() {
		return 0, true
	}

	return 0, false
}
