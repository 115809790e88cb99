package models

// Advertising platforms shared by ad accounts and campaigns.
const (
	PlatformMeta     = "meta"
	PlatformGoogle   = "google"
	PlatformLinkedIn = "linkedin"
	PlatformTwitter  = "twitter"
)

// AllPlatforms returns every supported platform.
func AllPlatforms() []string {
	return []string{PlatformMeta, PlatformGoogle, PlatformLinkedIn, PlatformTwitter}
}

// IsValidPlatform reports whether p is a supported platform.
func IsValidPlatform(p string) bool {
	return contains(AllPlatforms(), p)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
