// Package content serves the editable site content: banners, settings,
// about page sections, careers, social links and the online-shop directory.
package content

import (
	"context"
	"time"

	"github.com/udsehati/sehati-web/internal/domain/prefs"
)

// Banner is a home page carousel slide.
type Banner struct {
	ID        string
	Title     string
	Subtitle  string
	ImageURL  string
	Active    bool
	CreatedAt time.Time
}

// Setting is a per-language key/value pair (footer text, contact details,
// WhatsApp number, ...).
type Setting struct {
	ID        string
	Key       string
	Value     string
	Language  prefs.Language
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AboutSection is a block of text on the about page.
type AboutSection struct {
	ID        string
	Section   string
	Language  prefs.Language
	Content   string
	CreatedAt time.Time
}

// CompanyValue is one of the values listed on the about page.
type CompanyValue struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Language    prefs.Language
	SortOrder   int
	Active      bool
	CreatedAt   time.Time
}

// AboutImage is a gallery image on the about page.
type AboutImage struct {
	ID        string
	ImageURL  string
	AltText   string
	Caption   string
	Section   string
	SortOrder int
	Active    bool
	CreatedAt time.Time
}

// Job is an open position on the careers page.
type Job struct {
	ID          string
	Title       string
	Description string
	Location    string
	ApplyLink   string
	Active      bool
	CreatedAt   time.Time
}

// SocialLink points to one of the company's social media profiles.
type SocialLink struct {
	ID        string
	Platform  string
	URL       string
	Icon      string
	Active    bool
	CreatedAt time.Time
}

// OnlineShop is a marketplace storefront listed in the online-shop directory.
type OnlineShop struct {
	ID        string
	Name      string
	URL       string
	Icon      string
	Active    bool
	SortOrder int
	CreatedAt time.Time
}

// Repository defines read operations for site content. Every list returns
// only active rows, in the order the site displays them.
type Repository interface {
	// ListBanners returns active banners, newest first.
	ListBanners(ctx context.Context) ([]Banner, error)
	// ListSettings returns the settings for lang ordered by key.
	ListSettings(ctx context.Context, lang prefs.Language) ([]Setting, error)
	// ListAboutSections returns the about sections for lang ordered by section.
	ListAboutSections(ctx context.Context, lang prefs.Language) ([]AboutSection, error)
	// ListCompanyValues returns active values for lang ordered by sort order.
	ListCompanyValues(ctx context.Context, lang prefs.Language) ([]CompanyValue, error)
	// ListAboutImages returns active images ordered by sort order.
	ListAboutImages(ctx context.Context) ([]AboutImage, error)
	// ListJobs returns active jobs, newest first.
	ListJobs(ctx context.Context) ([]Job, error)
	// ListSocialLinks returns active links ordered by platform.
	ListSocialLinks(ctx context.Context) ([]SocialLink, error)
	// ListOnlineShops returns active shops ordered by sort order.
	ListOnlineShops(ctx context.Context) ([]OnlineShop, error)
}
