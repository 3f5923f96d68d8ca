package normalizer

import "strings"

// ParsePhotos splits a pipe-delimited photo cell into trimmed, non-empty URLs
// in their original order.
func ParsePhotos(raw string) []string {
	photos := []string{}

	for _, part := range strings.Split(raw, "|") {
		if url := strings.TrimSpace(part); url != "" {
			photos = append(photos, url)
		}
	}

	return photos
}
