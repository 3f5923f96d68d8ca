package pipeline

import (
	"strconv"
	"time"

	"dealerfeeds/internal/formatter"
	"dealerfeeds/internal/models"
)

// FeedReport is the outcome of one platform feed for one dealership.
type FeedReport struct {
	File             string `json:"file"`
	Entries          int    `json:"entries"`
	Skipped          int    `json:"skipped"`
	ValidationErrors int    `json:"validation_errors,omitempty"`
	SHA256           string `json:"sha256,omitempty"`
	Bytes            int    `json:"bytes,omitempty"`
	URL              string `json:"url,omitempty"`
	Error            string `json:"error,omitempty"`
}

// DealershipReport groups the feeds generated for one dealership.
type DealershipReport struct {
	Dealership   string      `json:"dealership"`
	DealerID     string      `json:"dealer_id"`
	VehicleCount int         `json:"vehicle_count"`
	Facebook     *FeedReport `json:"facebook,omitempty"`
	Google       *FeedReport `json:"google,omitempty"`
}

// Feed returns the report of platform p.
func (d *DealershipReport) Feed(p models.Platform) *FeedReport {
	switch p {
	case models.PlatformFacebook:
		return d.Facebook
	case models.PlatformGoogle:
		return d.Google
	default:
		return nil
	}
}

func (d *DealershipReport) setFeed(p models.Platform, f *FeedReport) {
	switch p {
	case models.PlatformFacebook:
		d.Facebook = f
	case models.PlatformGoogle:
		d.Google = f
	}
}

// Report summarizes one generation run.
type Report struct {
	RunID         string             `json:"run_id"`
	Timestamp     time.Time          `json:"timestamp"`
	Source        string             `json:"source"`
	SourceBytes   int64              `json:"source_bytes"`
	FetchedAt     time.Time          `json:"fetched_at"`
	TotalVehicles int                `json:"total_vehicles"`
	Unassigned    int                `json:"unassigned_vehicles"`
	Feeds         []DealershipReport `json:"feeds_generated"`
	Duration      time.Duration      `json:"-"`
}

// FailedFeeds counts feeds whose build or publish failed.
func (r *Report) FailedFeeds() int {
	failed := 0

	for i := range r.Feeds {
		for _, p := range models.Platforms {
			if f := r.Feeds[i].Feed(p); f != nil && f.Error != "" {
				failed++
			}
		}
	}

	return failed
}

// Table renders the per-dealership results.
func (r *Report) Table() *formatter.Table {
	table := formatter.NewTable("Dealership", "Dealer ID", "Vehicles", "Facebook", "Google")

	for i := range r.Feeds {
		d := &r.Feeds[i]
		table.AddRow(
			d.Dealership,
			d.DealerID,
			strconv.Itoa(d.VehicleCount),
			feedCell(d.Facebook),
			feedCell(d.Google),
		)
	}

	return table
}

func feedCell(f *FeedReport) string {
	switch {
	case f == nil:
		return "-"
	case f.Error != "":
		return "error: " + f.Error
	case f.Skipped > 0:
		return strconv.Itoa(f.Entries) + " (" + strconv.Itoa(f.Skipped) + " skipped)"
	default:
		return strconv.Itoa(f.Entries)
	}
}
