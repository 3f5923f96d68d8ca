// Package models defines data structures shared by the feed pipeline.
package models

import "strings"

// Inventory CSV column names.
const (
	FieldVIN           = "VIN"
	FieldYear          = "Year"
	FieldMake          = "Make"
	FieldModel         = "Model"
	FieldTrim          = "Trim"
	FieldBody          = "Body"
	FieldExteriorColor = "ExteriorColor"
	FieldInteriorColor = "InteriorColor"
	FieldMiles         = "Miles"
	FieldPrice         = "PRICE"
	FieldMSRP          = "MSRP"
	FieldPhotoURL      = "PhotoURL"
	FieldVDPURL        = "VDPURL"
	FieldStockNo       = "StockNo"
	FieldNewUsed       = "New/Used"
	FieldDealerID      = "DealerID"
)

// VehicleRecord is one inventory CSV row keyed by header name.
// No field is guaranteed to be present.
type VehicleRecord map[string]string

// Get returns the raw value of field, or "" when the column is absent.
func (r VehicleRecord) Get(field string) string {
	if r == nil {
		return ""
	}

	return r[field]
}

// Value returns the whitespace-trimmed value of field.
func (r VehicleRecord) Value(field string) string {
	return strings.TrimSpace(r.Get(field))
}

// Condition is the resolved sale condition of a vehicle.
type Condition string

// Vehicle conditions.
const (
	ConditionNew       Condition = "new"
	ConditionUsed      Condition = "used"
	ConditionCertified Condition = "certified"
)

// IsNew reports whether the vehicle is sold as new.
func (c Condition) IsNew() bool {
	return c == ConditionNew
}
