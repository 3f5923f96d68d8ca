package models

// Platform identifies an advertising feed format.
type Platform string

// Supported platforms.
const (
	PlatformFacebook Platform = "facebook"
	PlatformGoogle   Platform = "google"
)

// Platforms lists every platform in generation order.
var Platforms = []Platform{PlatformFacebook, PlatformGoogle}

// FileSuffix returns the suffix appended to the dealership name in feed file names.
func (p Platform) FileSuffix() string {
	switch p {
	case PlatformFacebook:
		return "Facebook_AIA"
	case PlatformGoogle:
		return "Google_VLA"
	default:
		return string(p)
	}
}

// FeedFileName returns the published file name of a dealership feed.
func FeedFileName(d *Dealership, p Platform) string {
	return d.SafeName() + "_" + p.FileSuffix() + ".xml"
}
