// Package seed reads site fixtures: the catalog and every content table in
// one JSON document, optionally gzip-compressed.
package seed

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"

	"github.com/udsehati/sehati-web/internal/domain/catalog"
	"github.com/udsehati/sehati-web/internal/domain/content"
	"github.com/udsehati/sehati-web/internal/domain/prefs"
)

// Sink stores a fixture.
type Sink interface {
	Seed(ctx context.Context, f *Fixture) error
}

// Fixture is the decoded content of a seed file.
type Fixture struct {
	Categories    []catalog.Category
	Products      []catalog.Product
	Banners       []content.Banner
	Settings      []content.Setting
	AboutSections []content.AboutSection
	CompanyValues []content.CompanyValue
	AboutImages   []content.AboutImage
	Jobs          []content.Job
	SocialLinks   []content.SocialLink
	OnlineShops   []content.OnlineShop
}

type categoryJSON struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

type productJSON struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	Price        decimal.NullDecimal `json:"price"`
	CategoryID   string              `json:"category_id"`
	ImageURL     string              `json:"image_url"`
	WhatsAppLink string              `json:"whatsapp_link"`
	Active       *bool               `json:"active"`
	CreatedAt    time.Time           `json:"created_at"`
}

type bannerJSON struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle"`
	ImageURL  string    `json:"image_url"`
	Active    *bool     `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type settingJSON struct {
	ID       string `json:"id"`
	Key      string `json:"key"`
	Value    string `json:"value"`
	Language string `json:"language"`
}

type aboutSectionJSON struct {
	ID       string `json:"id"`
	Section  string `json:"section"`
	Language string `json:"language"`
	Content  string `json:"content"`
}

type companyValueJSON struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Language    string `json:"language"`
	SortOrder   int    `json:"sort_order"`
	Active      *bool  `json:"active"`
}

type aboutImageJSON struct {
	ID        string `json:"id"`
	ImageURL  string `json:"image_url"`
	AltText   string `json:"alt_text"`
	Caption   string `json:"caption"`
	Section   string `json:"section"`
	SortOrder int    `json:"sort_order"`
	Active    *bool  `json:"active"`
}

type jobJSON struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	ApplyLink   string    `json:"apply_link"`
	Active      *bool     `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

type socialLinkJSON struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Icon     string `json:"icon"`
	Active   *bool  `json:"active"`
}

type onlineShopJSON struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	Icon      string `json:"icon"`
	Active    *bool  `json:"active"`
	SortOrder int    `json:"sort_order"`
}

type fixtureJSON struct {
	Categories    []categoryJSON     `json:"categories"`
	Products      []productJSON      `json:"products"`
	Banners       []bannerJSON       `json:"banners"`
	Settings      []settingJSON      `json:"settings"`
	AboutSections []aboutSectionJSON `json:"about_sections"`
	CompanyValues []companyValueJSON `json:"company_values"`
	AboutImages   []aboutImageJSON   `json:"about_images"`
	Jobs          []jobJSON          `json:"jobs"`
	SocialLinks   []socialLinkJSON   `json:"social_links"`
	OnlineShops   []onlineShopJSON   `json:"online_shops"`
}

// Open reads the fixture at path. Files ending in .gz are decompressed.
func Open(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open fixture")
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = bufio.NewReader(f)
	if strings.HasSuffix(path, ".gz") {
		zr, err := pgzip.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, "open gzip stream")
		}
		defer func() { _ = zr.Close() }()
		r = zr
	}
	return Decode(r)
}

// Decode parses a fixture document. Missing timestamps are set to the
// decode time and missing active flags default to true.
func Decode(r io.Reader) (*Fixture, error) {
	var raw fixtureJSON
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "parse fixture JSON")
	}
	return raw.fixture(time.Now().UTC())
}

func (raw *fixtureJSON) fixture(now time.Time) (*Fixture, error) {
	f := &Fixture{}
	for _, c := range raw.Categories {
		if c.ID == "" {
			return nil, errors.New("category without id")
		}
		f.Categories = append(f.Categories, catalog.Category{
			ID: c.ID, Name: c.Name, Slug: c.Slug, CreatedAt: orNow(c.CreatedAt, now),
		})
	}
	for _, p := range raw.Products {
		if p.ID == "" {
			return nil, errors.New("product without id")
		}
		if p.Price.Valid && p.Price.Decimal.IsNegative() {
			return nil, errors.Errorf("product %s: negative price", p.ID)
		}
		f.Products = append(f.Products, catalog.Product{
			ID:           p.ID,
			Name:         p.Name,
			Description:  p.Description,
			Price:        p.Price,
			CategoryID:   p.CategoryID,
			ImageURL:     p.ImageURL,
			WhatsAppLink: p.WhatsAppLink,
			Active:       orTrue(p.Active),
			CreatedAt:    orNow(p.CreatedAt, now),
		})
	}
	for _, b := range raw.Banners {
		f.Banners = append(f.Banners, content.Banner{
			ID: b.ID, Title: b.Title, Subtitle: b.Subtitle, ImageURL: b.ImageURL,
			Active: orTrue(b.Active), CreatedAt: orNow(b.CreatedAt, now),
		})
	}
	for _, s := range raw.Settings {
		lang, err := parseLanguage(s.Language)
		if err != nil {
			return nil, errors.Wrapf(err, "setting %s", s.Key)
		}
		f.Settings = append(f.Settings, content.Setting{
			ID: s.ID, Key: s.Key, Value: s.Value, Language: lang, CreatedAt: now, UpdatedAt: now,
		})
	}
	for _, s := range raw.AboutSections {
		lang, err := parseLanguage(s.Language)
		if err != nil {
			return nil, errors.Wrapf(err, "about section %s", s.Section)
		}
		f.AboutSections = append(f.AboutSections, content.AboutSection{
			ID: s.ID, Section: s.Section, Language: lang, Content: s.Content, CreatedAt: now,
		})
	}
	for _, v := range raw.CompanyValues {
		lang, err := parseLanguage(v.Language)
		if err != nil {
			return nil, errors.Wrapf(err, "company value %s", v.Title)
		}
		f.CompanyValues = append(f.CompanyValues, content.CompanyValue{
			ID: v.ID, Title: v.Title, Description: v.Description, Icon: v.Icon,
			Language: lang, SortOrder: v.SortOrder, Active: orTrue(v.Active), CreatedAt: now,
		})
	}
	for _, i := range raw.AboutImages {
		f.AboutImages = append(f.AboutImages, content.AboutImage{
			ID: i.ID, ImageURL: i.ImageURL, AltText: i.AltText, Caption: i.Caption,
			Section: i.Section, SortOrder: i.SortOrder, Active: orTrue(i.Active), CreatedAt: now,
		})
	}
	for _, j := range raw.Jobs {
		f.Jobs = append(f.Jobs, content.Job{
			ID: j.ID, Title: j.Title, Description: j.Description, Location: j.Location,
			ApplyLink: j.ApplyLink, Active: orTrue(j.Active), CreatedAt: orNow(j.CreatedAt, now),
		})
	}
	for _, l := range raw.SocialLinks {
		f.SocialLinks = append(f.SocialLinks, content.SocialLink{
			ID: l.ID, Platform: l.Platform, URL: l.URL, Icon: l.Icon,
			Active: orTrue(l.Active), CreatedAt: now,
		})
	}
	for _, s := range raw.OnlineShops {
		f.OnlineShops = append(f.OnlineShops, content.OnlineShop{
			ID: s.ID, Name: s.Name, URL: s.URL, Icon: s.Icon,
			Active: orTrue(s.Active), SortOrder: s.SortOrder, CreatedAt: now,
		})
	}
	return f, nil
}

func parseLanguage(code string) (prefs.Language, error) {
	lang, ok := prefs.ParseLanguage(code)
	if !ok {
		return "", errors.Errorf("unsupported language %q", code)
	}
	return lang, nil
}

func orTrue(b *bool) bool {
	return b == nil || *b
}

func orNow(t, now time.Time) time.Time {
	if t.IsZero() {
		return now
	}
	return t
}
