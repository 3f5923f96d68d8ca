package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanPrice(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantValid bool
		want      string
	}{
		{name: "thousands separator", raw: "1,234.50", wantValid: true, want: "1234.50 USD"},
		{name: "whole dollars", raw: "25000", wantValid: true, want: "25000.00 USD"},
		{name: "surrounding spaces", raw: "  18,995 ", wantValid: true, want: "18995.00 USD"},
		{name: "zero with cents", raw: "0.00"},
		{name: "zero", raw: "0"},
		{name: "zero after parsing", raw: "0.000"},
		{name: "empty", raw: ""},
		{name: "blank", raw: "   "},
		{name: "text", raw: "abc"},
		{name: "currency symbol", raw: "$25,000"},
		{name: "scientific notation", raw: "2.5e4", wantValid: true, want: "25000.00 USD"},
		{name: "above cap", raw: "1000000000001"},
		{name: "huge exponent", raw: "1e900000000"},
		{name: "tiny exponent", raw: "1e-900000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanPrice(tt.raw)
			assert.Equal(t, tt.wantValid, got.Valid)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestMoney_EqualAndOr(t *testing.T) {
	a := CleanPrice("30,000")
	b := CleanPrice("30000.00")
	c := CleanPrice("29999")
	none := CleanPrice("")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, none.Equal(none))

	assert.Equal(t, a, a.Or(c))
	assert.Equal(t, c, none.Or(c))
	assert.False(t, none.Or(none).Valid)
}

func TestParseMileage(t *testing.T) {
	tests := []struct {
		raw       string
		wantValid bool
		want      int64
	}{
		{raw: "32000", wantValid: true, want: 32000},
		{raw: "32,000", wantValid: true, want: 32000},
		{raw: "12345.9", wantValid: true, want: 12345},
		{raw: " 0 ", wantValid: true, want: 0},
		{raw: ""},
		{raw: "n/a"},
		{raw: "10,000,000", wantValid: true, want: 10000000},
		{raw: "10000001"},
		{raw: "99999999999999999999"},
		{raw: "1e19"},
		{raw: "1e900000000"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParseMileage(tt.raw)
			assert.Equal(t, tt.wantValid, got.Valid)
			assert.Equal(t, tt.want, got.Miles)
		})
	}
}

func TestParsePhotos(t *testing.T) {
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, ParsePhotos("a.jpg | b.jpg |"))
	assert.Equal(t, []string{}, ParsePhotos(""))
	assert.Equal(t, []string{}, ParsePhotos(" | |"))
	assert.Equal(t, []string{"https://cdn/1.jpg"}, ParsePhotos("https://cdn/1.jpg"))
}
