package normalizer

import (
	"errors"
	"strings"

	"dealerfeeds/internal/models"
	"dealerfeeds/pkg/utils"
)

// ErrNilDealership is returned when a vehicle is transformed without a dealership.
var ErrNilDealership = errors.New("dealership is required")

// detailPathPrefix is appended to the dealership website when a row has no VDPURL.
const detailPathPrefix = "/inventory/details/"

// Vehicle is a VehicleRecord with its values cleaned for one platform.
type Vehicle struct {
	Record models.VehicleRecord

	ID            string
	VIN           string
	StockNumber   string
	Year          string
	Make          string
	Model         string
	Trim          string
	Body          string
	ExteriorColor string
	InteriorColor string

	SellingPrice Money
	MSRP         Money
	// Price is the selling price, falling back to MSRP.
	Price Money

	Mileage Mileage
	Photos  []string

	BodyStyle    string
	HasBodyStyle bool

	Condition models.Condition
	DetailURL string
}

// Title joins year, make, model and trim with single spaces, skipping blanks.
func (v *Vehicle) Title(trim string) string {
	return utils.NewStringHelper().JoinNonEmpty(" ", v.Year, v.Make, v.Model, trim)
}

// Transformer builds normalized vehicles from raw CSV records.
type Transformer struct {
	strings *utils.StringHelper
}

// NewTransformer creates a new transformer instance.
func NewTransformer() *Transformer {
	return &Transformer{
		strings: utils.NewStringHelper(),
	}
}

// Transform cleans every field of record. Field level problems never fail the
// transformation; they leave the corresponding value absent.
func (t *Transformer) Transform(record models.VehicleRecord, dealer *models.Dealership, bodyStyle BodyStyleMapper) (*Vehicle, error) {
	if dealer == nil {
		return nil, ErrNilDealership
	}

	v := &Vehicle{
		Record:        record,
		VIN:           record.Value(models.FieldVIN),
		StockNumber:   record.Value(models.FieldStockNo),
		Year:          record.Value(models.FieldYear),
		Make:          record.Value(models.FieldMake),
		Model:         record.Value(models.FieldModel),
		Trim:          record.Value(models.FieldTrim),
		Body:          record.Value(models.FieldBody),
		ExteriorColor: record.Value(models.FieldExteriorColor),
		InteriorColor: record.Value(models.FieldInteriorColor),
		SellingPrice:  CleanPrice(record.Get(models.FieldPrice)),
		MSRP:          CleanPrice(record.Get(models.FieldMSRP)),
		Mileage:       ParseMileage(record.Get(models.FieldMiles)),
		Photos:        ParsePhotos(record.Get(models.FieldPhotoURL)),
		Condition:     ResolveCondition(record.Get(models.FieldNewUsed)),
	}

	v.ID = v.StockNumber
	if v.ID == "" {
		v.ID = v.VIN
	}

	v.Price = v.SellingPrice.Or(v.MSRP)

	if bodyStyle != nil {
		v.BodyStyle, v.HasBodyStyle = bodyStyle(v.Body)
	}

	v.DetailURL = t.detailURL(record, dealer, v.VIN)

	return v, nil
}

func (t *Transformer) detailURL(record models.VehicleRecord, dealer *models.Dealership, vin string) string {
	if vdp := record.Value(models.FieldVDPURL); vdp != "" {
		return vdp
	}

	return dealer.WebsiteBase() + detailPathPrefix + vin
}

// ResolveCondition maps the single character New/Used code: N is new, C is
// certified and anything else, blank included, is used.
func ResolveCondition(code string) models.Condition {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "N":
		return models.ConditionNew
	case "C":
		return models.ConditionCertified
	default:
		return models.ConditionUsed
	}
}
