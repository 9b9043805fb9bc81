package content

import (
	"context"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"github.com/udsehati/sehati-web/internal/domain/catalog"
	"github.com/udsehati/sehati-web/internal/domain/prefs"
)

// FeaturedSource provides the home page product selection.
type FeaturedSource interface {
	Featured(ctx context.Context, limit int) ([]catalog.Product, error)
}

// Home is everything the home page renders.
type Home struct {
	Banners  []Banner
	Featured []catalog.Product
	Settings Settings
}

// About is everything the about page renders.
type About struct {
	Sections []AboutSection
	Values   []CompanyValue
	Images   []AboutImage
}

// ContactInfo holds the contact page details and social links.
type ContactInfo struct {
	Address  string
	Email    string
	Phone    string
	WhatsApp string
	Social   []SocialLink
}

// Service assembles page content from the repository.
type Service struct {
	repo          Repository
	featured      FeaturedSource
	featuredLimit int
}

// NewService creates a content Service. featuredLimit <= 0 selects
// catalog.DefaultFeaturedLimit.
func NewService(repo Repository, featured FeaturedSource, featuredLimit int) *Service {
	if featuredLimit <= 0 {
		featuredLimit = catalog.DefaultFeaturedLimit
	}
	return &Service{
		repo:          repo,
		featured:      featured,
		featuredLimit: featuredLimit,
	}
}

// Home loads banners, featured products and settings concurrently.
func (s *Service) Home(ctx context.Context, lang prefs.Language) (*Home, error) {
	var home Home
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		banners, err := s.repo.ListBanners(gctx)
		if err != nil {
			return errors.Wrap(err, "list banners")
		}
		home.Banners = banners
		return nil
	})
	g.Go(func() error {
		featured, err := s.featured.Featured(gctx, s.featuredLimit)
		if err != nil {
			return errors.Wrap(err, "featured products")
		}
		home.Featured = featured
		return nil
	})
	g.Go(func() error {
		settings, err := s.repo.ListSettings(gctx, lang)
		if err != nil {
			return errors.Wrap(err, "list settings")
		}
		home.Settings = NewSettings(settings)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &home, nil
}

// About loads the about page sections, company values and images
// concurrently.
func (s *Service) About(ctx context.Context, lang prefs.Language) (*About, error) {
	var about About
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sections, err := s.repo.ListAboutSections(gctx, lang)
		if err != nil {
			return errors.Wrap(err, "list about sections")
		}
		about.Sections = sections
		return nil
	})
	g.Go(func() error {
		values, err := s.repo.ListCompanyValues(gctx, lang)
		if err != nil {
			return errors.Wrap(err, "list company values")
		}
		about.Values = values
		return nil
	})
	g.Go(func() error {
		images, err := s.repo.ListAboutImages(gctx)
		if err != nil {
			return errors.Wrap(err, "list about images")
		}
		about.Images = images
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &about, nil
}

// Contact returns the contact details for lang and the social links.
func (s *Service) Contact(ctx context.Context, lang prefs.Language) (*ContactInfo, error) {
	settings, err := s.Settings(ctx, lang)
	if err != nil {
		return nil, err
	}
	social, err := s.repo.ListSocialLinks(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list social links")
	}
	return &ContactInfo{
		Address:  settings.Value(SettingContactAddress, ""),
		Email:    settings.Value(SettingContactEmail, ""),
		Phone:    settings.Value(SettingContactPhone, ""),
		WhatsApp: settings.Value(SettingWhatsAppNumber, ""),
		Social:   social,
	}, nil
}

// Settings returns the settings for lang.
func (s *Service) Settings(ctx context.Context, lang prefs.Language) (Settings, error) {
	rows, err := s.repo.ListSettings(ctx, lang)
	if err != nil {
		return nil, errors.Wrap(err, "list settings")
	}
	return NewSettings(rows), nil
}

// Banners returns the active carousel banners.
func (s *Service) Banners(ctx context.Context) ([]Banner, error) {
	banners, err := s.repo.ListBanners(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list banners")
	}
	return banners, nil
}

// Careers returns the open positions.
func (s *Service) Careers(ctx context.Context) ([]Job, error) {
	jobs, err := s.repo.ListJobs(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list jobs")
	}
	return jobs, nil
}

// OnlineShops returns the online-shop directory.
func (s *Service) OnlineShops(ctx context.Context) ([]OnlineShop, error) {
	shops, err := s.repo.ListOnlineShops(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list online shops")
	}
	return shops, nil
}

// SocialLinks returns the active social links.
func (s *Service) SocialLinks(ctx context.Context) ([]SocialLink, error) {
	links, err := s.repo.ListSocialLinks(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list social links")
	}
	return links, nil
}

// WhatsAppNumber returns the shop's WhatsApp number for lang, or "" when it
// is not configured.
func (s *Service) WhatsAppNumber(ctx context.Context, lang prefs.Language) (string, error) {
	settings, err := s.Settings(ctx, lang)
	if err != nil {
		return "", err
	}
	return settings.Value(SettingWhatsAppNumber, ""), nil
}
