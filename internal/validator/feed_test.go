package validator

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealerfeeds/internal/feed"
	"dealerfeeds/internal/models"
	"dealerfeeds/pkg/metadata"
)

func testDealership() *models.Dealership {
	return &models.Dealership{
		ID:        "29312",
		Name:      "Napleton Ford Columbus",
		Website:   "https://www.napletonfordcolumbus.com",
		StoreCode: "5445979293761982858",
		Address: models.Address{
			Street:     "330 Transit Rd.",
			City:       "Columbus",
			Region:     "WI",
			Country:    "US",
			PostalCode: "53925",
		},
	}
}

func testRecords() []models.VehicleRecord {
	return []models.VehicleRecord{
		{
			models.FieldVIN:      "1FTFW1E50PFA00001",
			models.FieldYear:     "2024",
			models.FieldMake:     "Ford",
			models.FieldModel:    "F-150",
			models.FieldBody:     "Crew Cab Pickup",
			models.FieldPrice:    "52,000",
			models.FieldMSRP:     "55,000",
			models.FieldNewUsed:  "N",
			models.FieldPhotoURL: "https://cdn.example.com/1.jpg|https://cdn.example.com/2.jpg",
		},
		{
			models.FieldVIN:      "1FMCU9GD0LUA00002",
			models.FieldYear:     "2020",
			models.FieldMake:     "Ford",
			models.FieldModel:    "Escape",
			models.FieldBody:     "SUV",
			models.FieldMiles:    "41,230",
			models.FieldPrice:    "19,995",
			models.FieldNewUsed:  "U",
			models.FieldPhotoURL: "https://cdn.example.com/3.jpg",
		},
	}
}

func renderFeed(t *testing.T, platform feed.Platform) []byte {
	t.Helper()

	clock := func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	result, err := feed.NewBuilder(platform, feed.WithClock(clock)).Build(testDealership(), testRecords())
	require.NoError(t, err)
	require.Equal(t, 2, result.Entries)

	out, err := result.Render()
	require.NoError(t, err)

	return out
}

func TestValidateReader_GeneratedFeedsAreValid(t *testing.T) {
	v := NewFeedValidator()

	for _, platform := range feed.Platforms() {
		t.Run(string(platform.ID), func(t *testing.T) {
			result, err := v.ValidateReader(bytes.NewReader(renderFeed(t, platform)))
			require.NoError(t, err)

			assert.Empty(t, result.Errors)
			assert.Empty(t, result.Warnings)
			assert.True(t, result.IsValid)
			assert.Equal(t, platform.ID, result.Platform)
			assert.Equal(t, ValidationStats{TotalEntries: 2, ValidEntries: 2}, result.Stats)
		})
	}
}

func TestDetectPlatform(t *testing.T) {
	p, err := DetectPlatform(feed.NewElement("listings"))
	require.NoError(t, err)
	assert.Equal(t, models.PlatformFacebook, p)

	p, err = DetectPlatform(feed.NewElement("feed"))
	require.NoError(t, err)
	assert.Equal(t, models.PlatformGoogle, p)

	_, err = DetectPlatform(feed.NewElement("rss"))
	require.ErrorIs(t, err, ErrUnknownRoot)

	_, err = DetectPlatform(nil)
	require.ErrorIs(t, err, ErrNilDocument)
}

func TestValidate_FacebookListingErrors(t *testing.T) {
	root := feed.NewElement("listings")
	listing := root.AddChild("listing")
	listing.AddText("vehicle_id", "1FTFW1E50PFA00001")
	listing.AddText("title", "2024 Ford F-150")
	listing.AddText("url", "https://example.com/v/1")
	listing.AddText("body_style", "TRUCK")
	listing.AddText("price", "52000 USD")
	listing.AddText("condition", "certified")
	listing.AddChild("address").AddText("component", "330 Transit Rd.")

	image := listing.AddChild("image")
	image.AddText("url", "https://cdn.example.com/1.jpg")

	result, err := NewFeedValidator().Validate(root)
	require.NoError(t, err)

	assert.False(t, result.IsValid)
	assert.Equal(t, ValidationStats{TotalEntries: 1, InvalidEntries: 1}, result.Stats)

	fields := make(map[string]ValidationError)
	for _, e := range result.Errors {
		fields[e.Field] = e
	}

	assert.Contains(t, fields, "price")
	assert.Contains(t, fields, "address")
	assert.Contains(t, fields, "condition")
	assert.Contains(t, fields, "image.tag")
	assert.Equal(t, 1, fields["price"].Entry)
	assert.Equal(t, "1FTFW1E50PFA00001", fields["price"].ID)
	assert.Equal(t, "52000 USD", fields["price"].Value)
}

func TestValidate_FacebookImageLimit(t *testing.T) {
	root, err := feed.Parse(bytes.NewReader(renderFeed(t, feed.Facebook())))
	require.NoError(t, err)

	listing := root.FindAll("listing")[1]
	for i := 0; i < feed.FacebookMaxImages; i++ {
		listing.AddChild("image").AddText("url", "https://cdn.example.com/x.jpg")
	}

	result, err := NewFeedValidator().Validate(root)
	require.NoError(t, err)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, "image", result.Errors[0].Field)
	assert.Equal(t, 2, result.Errors[0].Entry)
	assert.Equal(t, ValidationStats{TotalEntries: 2, ValidEntries: 1, InvalidEntries: 1}, result.Stats)
}

func TestValidate_GoogleEntryErrors(t *testing.T) {
	root, err := feed.Parse(bytes.NewReader(renderFeed(t, feed.Google())))
	require.NoError(t, err)

	entry := root.FindAll("entry")[0]
	for _, c := range entry.Children {
		switch c.Name {
		case "g:link_template":
			c.Text = "https://example.com/v/1"
		case "g:vehicle_msrp":
			c.Name = "g:msrp"
		}
	}

	result, err := NewFeedValidator().Validate(root)
	require.NoError(t, err)

	assert.False(t, result.IsValid)

	var fields []string
	for _, e := range result.Errors {
		fields = append(fields, e.Field)
		assert.Equal(t, 1, e.Entry)
	}

	assert.ElementsMatch(t, []string{"g:link_template", "g:vehicle_msrp"}, fields)
}

func TestValidate_GoogleDocumentNamespaces(t *testing.T) {
	root := feed.NewElement("feed")
	root.AddText("title", "Inventory")

	result, err := NewFeedValidator().Validate(root)
	require.NoError(t, err)

	assert.False(t, result.IsValid)
	assert.Len(t, result.Errors, 3)
	assert.Equal(t, []string{"feed contains no entries"}, result.Warnings)

	for _, e := range result.Errors {
		assert.Zero(t, e.Entry)
	}
}

func TestValidateIntegrity(t *testing.T) {
	v := NewFeedValidator()
	content := renderFeed(t, feed.Google())

	assert.True(t, v.ValidateIntegrity(content, metadata.CalculateHash(content)).IsValid)

	result := v.ValidateIntegrity(content, "deadbeef")
	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "digest mismatch")

	assert.False(t, v.ValidateIntegrity(content, "").IsValid)
}

func TestValidationResult_Output(t *testing.T) {
	result := &ValidationResult{
		Platform: models.PlatformGoogle,
		Errors: []ValidationError{
			{Entry: 3, ID: "VIN3", Field: "g:price", Value: "12", Pattern: `^\d+\.\d{2} USD$`, Message: "bad price"},
			{Message: "missing Atom namespace"},
		},
		Warnings: []string{"feed contains no entries"},
		Stats:    ValidationStats{TotalEntries: 3, ValidEntries: 2, InvalidEntries: 1},
	}

	assert.Equal(t, "❌ INVALID | Platform: google | Total: 3 | Valid: 2 | Invalid: 1 | Warnings: 1", result.String())

	var buf strings.Builder

	result.WriteErrors(&buf)
	out := buf.String()
	assert.Contains(t, out, "Entry 3 (VIN3) [g:price]: bad price")
	assert.Contains(t, out, `Found: "12"`)
	assert.Contains(t, out, "  missing Atom namespace\n")

	buf.Reset()
	result.WriteWarnings(&buf)
	assert.Contains(t, buf.String(), "feed contains no entries")
}
