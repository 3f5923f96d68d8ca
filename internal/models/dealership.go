package models

import (
	"fmt"
	"strings"

	"dealerfeeds/pkg/utils"
)

// Address is the postal address of a dealership rooftop.
type Address struct {
	Street     string `yaml:"street" json:"street"`
	City       string `yaml:"city" json:"city"`
	Region     string `yaml:"region" json:"region"`
	Country    string `yaml:"country" json:"country"`
	PostalCode string `yaml:"postal_code" json:"postal_code"`
	Full       string `yaml:"full,omitempty" json:"full,omitempty"`
}

// Dealership is the static reference data for one rooftop, keyed by the
// DealerID used in the inventory export. StoreCode is opaque text.
type Dealership struct {
	ID        string  `yaml:"id" json:"dealer_id"`
	Name      string  `yaml:"name" json:"name"`
	Website   string  `yaml:"website" json:"website"`
	StoreCode string  `yaml:"store_code" json:"store_code"`
	Address   Address `yaml:"address" json:"address"`
}

// FullAddress returns the single-line address used by Google VLA.
func (d *Dealership) FullAddress() string {
	if full := strings.TrimSpace(d.Address.Full); full != "" {
		return full
	}

	return fmt.Sprintf("%s, %s, %s %s", d.Address.Street, d.Address.City, d.Address.Region, d.Address.PostalCode)
}

// SafeName returns the dealership name usable as a feed file prefix.
func (d *Dealership) SafeName() string {
	return utils.NewStringHelper().SafeFileName(d.Name)
}

// WebsiteBase returns the website without a trailing slash.
func (d *Dealership) WebsiteBase() string {
	return strings.TrimRight(strings.TrimSpace(d.Website), "/")
}
