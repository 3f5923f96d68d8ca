// Package validator checks rendered feeds against the structural rules of
// their advertising platform.
package validator

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"dealerfeeds/internal/feed"
	"dealerfeeds/internal/models"
	"dealerfeeds/pkg/metadata"
)

// Validation errors.
var (
	ErrUnknownRoot = errors.New("unrecognized feed root element")
	ErrNilDocument = errors.New("feed document is nil")
)

var (
	pricePattern         = regexp.MustCompile(`^\d+\.\d{2} USD$`)
	googleMileagePattern = regexp.MustCompile(`^\d+ miles$`)
	unsignedPattern      = regexp.MustCompile(`^\d+$`)
)

// ValidationError describes one rule violation.
type ValidationError struct {
	Field   string
	Value   string
	Pattern string
	Message string
	// Entry is the one-based position of the listing or entry, 0 for the document.
	Entry int
	ID    string
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Platform models.Platform
	Errors   []ValidationError
	Warnings []string
	Stats    ValidationStats
	IsValid  bool
}

// ValidationStats contains validation statistics.
type ValidationStats struct {
	TotalEntries   int
	ValidEntries   int
	InvalidEntries int
}

// FeedValidator validates Facebook AIA and Google VLA documents.
type FeedValidator struct{}

// NewFeedValidator creates a new validator.
func NewFeedValidator() *FeedValidator {
	return &FeedValidator{}
}

// DetectPlatform identifies the platform of a document by its root element.
func DetectPlatform(root *feed.Element) (models.Platform, error) {
	if root == nil {
		return "", ErrNilDocument
	}

	switch root.Name {
	case "listings":
		return models.PlatformFacebook, nil
	case "feed":
		return models.PlatformGoogle, nil
	default:
		return "", fmt.Errorf("%w: <%s>", ErrUnknownRoot, root.Name)
	}
}

// ValidateReader parses a rendered feed and validates it.
func (v *FeedValidator) ValidateReader(r io.Reader) (*ValidationResult, error) {
	root, err := feed.Parse(r)
	if err != nil {
		return nil, err
	}

	return v.Validate(root)
}

// Validate checks every entry of root.
func (v *FeedValidator) Validate(root *feed.Element) (*ValidationResult, error) {
	platform, err := DetectPlatform(root)
	if err != nil {
		return nil, err
	}

	result := &ValidationResult{
		Platform: platform,
		IsValid:  true,
		Errors:   []ValidationError{},
		Warnings: []string{},
	}

	var (
		entryName string
		check     func(entry *feed.Element) []ValidationError
	)

	switch platform {
	case models.PlatformFacebook:
		entryName, check = "listing", v.checkListing
	default:
		entryName, check = "entry", v.checkEntry
		result.Errors = append(result.Errors, v.checkGoogleDocument(root)...)
	}

	for i, entry := range root.FindAll(entryName) {
		result.Stats.TotalEntries++

		errs := check(entry)
		if len(errs) == 0 {
			result.Stats.ValidEntries++
			continue
		}

		result.Stats.InvalidEntries++

		for _, e := range errs {
			e.Entry = i + 1
			result.Errors = append(result.Errors, e)
		}
	}

	if result.Stats.TotalEntries == 0 {
		result.Warnings = append(result.Warnings, "feed contains no entries")
	}

	result.IsValid = len(result.Errors) == 0

	return result, nil
}

// ValidateIntegrity checks content against a digest recorded at publish time.
func (v *FeedValidator) ValidateIntegrity(content []byte, expected string) *ValidationResult {
	result := &ValidationResult{IsValid: true}

	valid, err := metadata.Verify(content, expected)
	if !valid {
		result.IsValid = false
		result.Errors = append(result.Errors, ValidationError{
			Message: fmt.Sprintf("integrity check failed: %v", err),
		})
	}

	return result
}

func (v *FeedValidator) checkGoogleDocument(root *feed.Element) []ValidationError {
	var errs []ValidationError

	if ns, _ := root.Attr("xmlns"); ns != feed.AtomNamespace {
		errs = append(errs, ValidationError{Field: "xmlns", Value: ns, Message: "missing Atom namespace"})
	}

	if ns, _ := root.Attr("xmlns:g"); ns != feed.GoogleNamespace {
		errs = append(errs, ValidationError{Field: "xmlns:g", Value: ns, Message: "missing Google namespace"})
	}

	for _, name := range []string{"title", "updated"} {
		if root.ChildText(name) == "" {
			errs = append(errs, ValidationError{Field: name, Message: name + " is empty"})
		}
	}

	return errs
}

func (v *FeedValidator) checkListing(listing *feed.Element) []ValidationError {
	id := listing.ChildText("vehicle_id")

	var errs []ValidationError

	add := func(field, value, pattern, message string) {
		errs = append(errs, ValidationError{Field: field, Value: value, Pattern: pattern, Message: message, ID: id})
	}

	for _, field := range []string{"vehicle_id", "title", "url", "body_style"} {
		if listing.ChildText(field) == "" {
			add(field, "", "", field+" is empty")
		}
	}

	if price := listing.ChildText("price"); !pricePattern.MatchString(price) {
		add("price", price, pricePattern.String(), "price must carry two decimals and USD")
	}

	if address := listing.Find("address"); address == nil || len(address.FindAll("component")) != 5 {
		add("address", "", "", "address must have five components")
	}

	condition := listing.ChildText("condition")
	if condition != string(models.ConditionNew) && condition != string(models.ConditionUsed) {
		add("condition", condition, "", "condition must be new or used")
	}

	if mileage := listing.Find("mileage"); mileage != nil {
		if value := mileage.ChildText("value"); !unsignedPattern.MatchString(value) {
			add("mileage.value", value, unsignedPattern.String(), "mileage must be a whole number")
		}

		if unit := mileage.ChildText("unit"); unit != feed.FacebookMileageUnit {
			add("mileage.unit", unit, "", "mileage unit must be MI")
		}
	} else if condition == string(models.ConditionNew) {
		add("mileage", "", "", "new vehicles must carry mileage")
	}

	images := listing.FindAll("image")

	switch {
	case len(images) == 0:
		add("image", "", "", "at least one image is required")
	case len(images) > feed.FacebookMaxImages:
		add("image", strconv.Itoa(len(images)), "", fmt.Sprintf("at most %d images are allowed", feed.FacebookMaxImages))
	case images[0].ChildText("tag") != "main":
		add("image.tag", images[0].ChildText("tag"), "", "first image must be tagged main")
	}

	return errs
}

func (v *FeedValidator) checkEntry(entry *feed.Element) []ValidationError {
	id := entry.ChildText("g:id")

	var errs []ValidationError

	add := func(field, value, pattern, message string) {
		errs = append(errs, ValidationError{Field: field, Value: value, Pattern: pattern, Message: message, ID: id})
	}

	for _, field := range []string{"id", "g:id", "g:vin", "g:store_code", "g:link_template"} {
		if entry.ChildText(field) == "" {
			add(field, "", "", field+" is empty")
		}
	}

	if link := entry.Find("link"); link == nil {
		add("link", "", "", "alternate link is required")
	} else if href, _ := link.Attr("href"); href == "" {
		add("link", "", "", "alternate link has no href")
	}

	if tmpl := entry.ChildText("g:link_template"); tmpl != "" && !strings.Contains(tmpl, "store={store_code}") {
		add("g:link_template", tmpl, "", "link template must carry the store placeholder")
	}

	if price := entry.ChildText("g:price"); !pricePattern.MatchString(price) {
		add("g:price", price, pricePattern.String(), "price must carry two decimals and USD")
	}

	if msrp := entry.Find("g:vehicle_msrp"); msrp != nil && !pricePattern.MatchString(msrp.Text) {
		add("g:vehicle_msrp", msrp.Text, pricePattern.String(), "MSRP must carry two decimals and USD")
	}

	if entry.ChildText("g:condition") == string(models.ConditionNew) && entry.Find("g:vehicle_msrp") == nil {
		add("g:vehicle_msrp", "", "", "new vehicles must carry an MSRP")
	}

	if mileage := entry.Find("g:mileage"); mileage != nil && !googleMileagePattern.MatchString(mileage.Text) {
		add("g:mileage", mileage.Text, googleMileagePattern.String(), "mileage must read '<n> miles'")
	}

	if n := len(entry.FindAll("g:additional_image_link")); n > feed.GoogleMaxAdditionalImages {
		add("g:additional_image_link", strconv.Itoa(n), "", fmt.Sprintf("at most %d additional images are allowed", feed.GoogleMaxAdditionalImages))
	}

	return errs
}

// String returns string representation of validation result.
func (r *ValidationResult) String() string {
	status := "✅ VALID"
	if !r.IsValid {
		status = "❌ INVALID"
	}

	return fmt.Sprintf(
		"%s | Platform: %s | Total: %d | Valid: %d | Invalid: %d | Warnings: %d",
		status,
		r.Platform,
		r.Stats.TotalEntries,
		r.Stats.ValidEntries,
		r.Stats.InvalidEntries,
		len(r.Warnings),
	)
}

// WriteErrors writes validation errors in readable format.
func (r *ValidationResult) WriteErrors(w io.Writer) {
	if len(r.Errors) == 0 {
		return
	}

	fmt.Fprintln(w, "❌ Validation Errors:")

	for _, err := range r.Errors {
		if err.Entry > 0 {
			fmt.Fprintf(w, "  Entry %d", err.Entry)

			if err.ID != "" {
				fmt.Fprintf(w, " (%s)", err.ID)
			}

			if err.Field != "" {
				fmt.Fprintf(w, " [%s]", err.Field)
			}

			fmt.Fprintf(w, ": %s\n", err.Message)

			if err.Value != "" {
				fmt.Fprintf(w, "    Found: %q\n", err.Value)
			}

			if err.Pattern != "" {
				fmt.Fprintf(w, "    Expected pattern: %s\n", err.Pattern)
			}
		} else {
			fmt.Fprintf(w, "  %s\n", err.Message)
		}
	}
}

// WriteWarnings writes validation warnings.
func (r *ValidationResult) WriteWarnings(w io.Writer) {
	if len(r.Warnings) == 0 {
		return
	}

	fmt.Fprintln(w, "⚠️  Validation Warnings:")

	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "  %s\n", warn)
	}
}
