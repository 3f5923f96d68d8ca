package pipeline

import (
	"dealerfeeds/internal/config"
	"dealerfeeds/internal/models"
)

// LocalFeedsPath is where the HTTP server serves published files when no
// public base URL is configured.
const LocalFeedsPath = "/feeds/"

// FeedLinks holds the public URLs of a dealership's feeds.
type FeedLinks struct {
	Facebook string `json:"facebook"`
	Google   string `json:"google"`
}

// FeedURLs returns the feed URLs of every configured dealership keyed by the
// dealership's safe name.
func FeedURLs(cfg *config.Config) map[string]FeedLinks {
	links := make(map[string]FeedLinks, len(cfg.Dealerships))

	for i := range cfg.Dealerships {
		d := &cfg.Dealerships[i]
		links[d.SafeName()] = FeedLinks{
			Facebook: feedURL(cfg, models.FeedFileName(d, models.PlatformFacebook)),
			Google:   feedURL(cfg, models.FeedFileName(d, models.PlatformGoogle)),
		}
	}

	return links
}

func feedURL(cfg *config.Config, file string) string {
	if url := cfg.FeedURL(file); url != "" {
		return url
	}

	return LocalFeedsPath + file
}
