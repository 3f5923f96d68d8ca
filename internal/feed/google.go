package feed

import (
	"strconv"
	"strings"
	"time"

	"dealerfeeds/internal/models"
	"dealerfeeds/internal/normalizer"
	"dealerfeeds/pkg/utils"
)

// Google VLA constants.
const (
	AtomNamespace   = "http://www.w3.org/2005/Atom"
	GoogleNamespace = "http://base.google.com/ns/1.0"

	GoogleProductCategory     = "916"
	GoogleAvailability        = "in stock"
	GoogleFulfillmentOption   = "in_store"
	GoogleMaxTrimLength       = 150
	GoogleMaxAdditionalImages = 9
	googleMileageSuffix       = " miles"
)

// Google returns the Vehicle Listing Ads platform description.
func Google() Platform {
	return Platform{
		ID:        models.PlatformGoogle,
		BodyStyle: normalizer.MapBodyStyleGoogle,
		Policy:    normalizer.GooglePolicy,
		Document:  googleDocument,
		Entry:     googleEntry,
	}
}

func googleDocument(d *models.Dealership, now time.Time) *Element {
	root := NewElement("feed").
		SetAttr("xmlns", AtomNamespace).
		SetAttr("xmlns:g", GoogleNamespace)

	root.AddText("title", d.Name+" Inventory Feed")
	root.AddChild("link").
		SetAttr("href", strings.TrimSpace(d.Website)).
		SetAttr("rel", "self")
	root.AddText("updated", now.Format(time.RFC3339))

	return root
}

func googleEntry(v *normalizer.Vehicle, d *models.Dealership) (*Element, error) {
	if v.DetailURL == "" {
		return nil, ErrMissingDetailURL
	}

	trim := utils.NewStringHelper().TruncateRunes(v.Trim, GoogleMaxTrimLength)

	entry := NewElement("entry")
	entry.AddText("id", v.ID)
	entry.AddText("title", v.Title(trim))
	entry.AddChild("link").
		SetAttr("rel", "alternate").
		SetAttr("href", v.DetailURL)

	entry.AddText("g:id", v.ID)
	entry.AddText("g:price", v.Price.String())

	if msrp, ok := googleMSRP(v); ok {
		entry.AddText("g:vehicle_msrp", msrp.String())
	}

	brand := v.Make
	if brand == "" {
		brand = d.Name
	}

	entry.AddText("g:vin", v.VIN)
	entry.AddText("g:google_product_category", GoogleProductCategory)
	entry.AddText("g:brand", brand)

	entry.AddText("g:store_code", d.StoreCode)
	entry.AddText("g:dealership_name", d.Name)
	entry.AddText("g:dealership_address", d.FullAddress())

	fulfillment := entry.AddChild("g:vehicle_fulfillment")
	fulfillment.AddText("g:option", GoogleFulfillmentOption)
	fulfillment.AddText("g:store_code", d.StoreCode)

	entry.AddTextIf("g:year", v.Year)
	entry.AddTextIf("g:make", v.Make)
	entry.AddTextIf("g:model", v.Model)

	entry.AddText("g:condition", string(v.Condition))
	entry.AddText("g:availability", GoogleAvailability)
	entry.AddText("g:link_template", normalizer.EnsureStorePlaceholder(v.DetailURL))

	entry.AddTextIf("g:trim", trim)

	if v.Mileage.Valid && v.Mileage.Miles >= 0 {
		entry.AddText("g:mileage", strconv.FormatInt(v.Mileage.Miles, 10)+googleMileageSuffix)
	}

	if v.HasBodyStyle {
		entry.AddText("g:body_style", v.BodyStyle)
	}

	entry.AddTextIf("g:color", v.ExteriorColor)

	if len(v.Photos) > 0 {
		entry.AddText("g:image_link", v.Photos[0])

		additional := v.Photos[1:]
		if len(additional) > GoogleMaxAdditionalImages {
			additional = additional[:GoogleMaxAdditionalImages]
		}

		for _, photo := range additional {
			entry.AddText("g:additional_image_link", photo)
		}
	}

	return entry, nil
}

// googleMSRP is mandatory for new vehicles. Used and certified vehicles only
// carry it when it differs from the selling price.
func googleMSRP(v *normalizer.Vehicle) (normalizer.Money, bool) {
	if v.Condition.IsNew() {
		return v.MSRP, v.MSRP.Valid
	}

	if v.SellingPrice.Valid && v.MSRP.Valid && !v.SellingPrice.Equal(v.MSRP) {
		return v.MSRP, true
	}

	return normalizer.Money{}, false
}
