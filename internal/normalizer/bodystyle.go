package normalizer

import (
	"strings"

	"dealerfeeds/pkg/utils"
)

// BodyStyleMapper maps a free-text body style onto a platform vocabulary.
// The boolean is false when the value has no mapping and must be omitted.
type BodyStyleMapper func(raw string) (string, bool)

// FacebookOtherBodyStyle is the Facebook AIA fallback for unknown body styles.
const FacebookOtherBodyStyle = "OTHER"

// bodyRule maps any body style matching predicate onto value.
type bodyRule struct {
	matches func(normalized string) bool
	value   string
}

// bodyTaxonomy resolves exact synonyms first, then ordered substring rules.
type bodyTaxonomy struct {
	synonyms map[string]string
	rules    []bodyRule
}

func (t *bodyTaxonomy) lookup(raw string) (string, bool) {
	normalized := strings.ToLower(utils.NewStringHelper().NormalizeWhitespace(raw))
	if normalized == "" {
		return "", false
	}

	if value, ok := t.synonyms[normalized]; ok {
		return value, true
	}

	for _, rule := range t.rules {
		if rule.matches(normalized) {
			return rule.value, true
		}
	}

	return "", false
}

func containsAny(subs ...string) func(string) bool {
	return func(s string) bool {
		for _, sub := range subs {
			if strings.Contains(s, sub) {
				return true
			}
		}

		return false
	}
}

func containsAll(subs ...string) func(string) bool {
	return func(s string) bool {
		for _, sub := range subs {
			if !strings.Contains(s, sub) {
				return false
			}
		}

		return true
	}
}

func both(a, b func(string) bool) func(string) bool {
	return func(s string) bool {
		return a(s) && b(s)
	}
}

var googleBodyStyles = &bodyTaxonomy{
	synonyms: map[string]string{
		"suv":                   "suv",
		"sport utility":         "suv",
		"sport utility vehicle": "suv",
		"crossover":             "crossover",
		"compact suv":           "compact_suv",
		"compact crossover":     "compact_suv",
		"small suv":             "compact_suv",
		"sedan":                 "sedan",
		"4dr sedan":             "sedan",
		"2dr sedan":             "sedan",
		"city car":              "city_car",
		"coupe":                 "coupe",
		"2dr coupe":             "coupe",
		"hatchback":             "hatchback",
		"hatch":                 "hatchback",
		"wagon":                 "station wagon",
		"station wagon":         "station wagon",
		"estate":                "station wagon",
		"convertible":           "convertible",
		"cabriolet":             "convertible",
		"roadster":              "convertible",
		"truck":                 "truck",
		"pickup":                "truck",
		"pickup truck":          "truck",
		"crew cab":              "truck",
		"extended cab":          "truck",
		"regular cab":           "truck",
		"double cab":            "truck",
		"quad cab":              "truck",
		"supercab":              "truck",
		"supercrew":             "truck",
		"van":                   "full size van",
		"cargo van":             "full size van",
		"passenger van":         "full size van",
		"full size van":         "full size van",
		"minivan":               "minivan",
		"mini van":              "minivan",
		"mini-van":              "minivan",
		"class a motorhome":     "class_a_motorhome",
		"class b motorhome":     "class_b_motorhome",
		"class c motorhome":     "class_c_motorhome",
		"motorhome":             "class_a_motorhome",
		"travel trailer":        "travel_trailer",
		"fifth wheel":           "fifth_wheel",
		"5th wheel":             "fifth_wheel",
		"pop up camper":         "pop_up_camper",
		"pop-up camper":         "pop_up_camper",
		"truck camper":          "truck_camper",
	},
	rules: []bodyRule{
		{both(containsAny("suv", "utility"), containsAny("compact", "small")), "compact_suv"},
		{containsAny("suv", "utility"), "suv"},
		{containsAny("truck", "pickup"), "truck"},
		{containsAll("van", "mini"), "minivan"},
		{containsAny("van"), "full size van"},
		{containsAny("sedan"), "sedan"},
		{containsAny("coupe"), "coupe"},
		{containsAny("convertible", "cabrio"), "convertible"},
		{containsAny("wagon", "estate"), "station wagon"},
		{containsAny("hatch"), "hatchback"},
		{containsAny("crossover"), "crossover"},
	},
}

var facebookBodyStyles = &bodyTaxonomy{
	synonyms: map[string]string{
		"convertible":   "CONVERTIBLE",
		"cabriolet":     "CONVERTIBLE",
		"roadster":      "ROADSTER",
		"coupe":         "COUPE",
		"2dr coupe":     "COUPE",
		"crossover":     "CROSSOVER",
		"estate":        "ESTATE",
		"wagon":         "WAGON",
		"station wagon": "WAGON",
		"hatchback":     "HATCHBACK",
		"hatch":         "HATCHBACK",
		"minibus":       "MINIBUS",
		"minivan":       "MINIVAN",
		"mini van":      "MINIVAN",
		"mpv":           "MPV",
		"pickup":        "PICKUP",
		"truck":         "TRUCK",
		"sedan":         "SEDAN",
		"saloon":        "SALOON",
		"4dr sedan":     "SEDAN",
		"small car":     "SMALL_CAR",
		"city car":      "SMALL_CAR",
		"sportscar":     "SPORTSCAR",
		"supercar":      "SUPERCAR",
		"supermini":     "SUPERMINI",
		"suv":           "SUV",
		"sport utility": "SUV",
		"van":           "VAN",
		"cargo van":     "VAN",
	},
	rules: []bodyRule{
		{containsAny("convertible", "cabrio"), "CONVERTIBLE"},
		{containsAny("coupe"), "COUPE"},
		{containsAny("crossover"), "CROSSOVER"},
		{containsAny("wagon", "estate"), "WAGON"},
		{containsAny("hatch"), "HATCHBACK"},
		{containsAll("mini", "van"), "MINIVAN"},
		{containsAny("truck", "pickup"), "TRUCK"},
		{containsAny("sedan", "saloon"), "SEDAN"},
		{containsAny("suv", "utility"), "SUV"},
		{containsAny("van"), "VAN"},
		{containsAny("sport"), "SPORTSCAR"},
	},
}

// MapBodyStyleGoogle maps onto the Google VLA body_style vocabulary. Unknown
// values report false so the attribute can be left out.
func MapBodyStyleGoogle(raw string) (string, bool) {
	return googleBodyStyles.lookup(raw)
}

// MapBodyStyleFacebook maps onto the Facebook AIA body_style vocabulary.
// Blank and unknown values become OTHER; the attribute is always emitted.
func MapBodyStyleFacebook(raw string) string {
	if value, ok := facebookBodyStyles.lookup(raw); ok {
		return value
	}

	return FacebookOtherBodyStyle
}

// FacebookBodyStyleMapper adapts MapBodyStyleFacebook to BodyStyleMapper.
func FacebookBodyStyleMapper(raw string) (string, bool) {
	return MapBodyStyleFacebook(raw), true
}
