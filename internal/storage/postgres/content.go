package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udsehati/sehati-web/internal/domain/content"
	"github.com/udsehati/sehati-web/internal/domain/prefs"
)

const (
	listBannersSQL = `SELECT id, title, COALESCE(subtitle, ''), image_url, active, created_at
		FROM banners WHERE active ORDER BY created_at DESC, id`

	listSettingsSQL = `SELECT id, key, value, language, created_at, updated_at
		FROM settings WHERE language = $1 ORDER BY key`

	listAboutSectionsSQL = `SELECT id, section, language, content, created_at
		FROM about_sections WHERE language = $1 ORDER BY section`

	listCompanyValuesSQL = `SELECT id, title, description, COALESCE(icon, ''), language, sort_order, active, created_at
		FROM company_values WHERE active AND language = $1 ORDER BY sort_order, id`

	listAboutImagesSQL = `SELECT id, image_url, COALESCE(alt_text, ''), COALESCE(caption, ''), COALESCE(section, ''),
		sort_order, active, created_at
		FROM about_images WHERE active ORDER BY sort_order, id`

	listJobsSQL = `SELECT id, title, description, COALESCE(location, ''), COALESCE(apply_link, ''), active, created_at
		FROM jobs WHERE active ORDER BY created_at DESC, id`

	listSocialLinksSQL = `SELECT id, platform, url, COALESCE(icon, ''), active, created_at
		FROM social_links WHERE active ORDER BY platform, id`

	listOnlineShopsSQL = `SELECT id, name, url, COALESCE(icon, ''), active, sort_order, created_at
		FROM online_shops WHERE active ORDER BY sort_order, id`
)

var _ content.Repository = (*ContentRepository)(nil)

// ContentRepository implements content.Repository backed by PostgreSQL.
type ContentRepository struct {
	pool *pgxpool.Pool
}

// NewContentRepository returns a ContentRepository that uses the given pool.
func NewContentRepository(pool *pgxpool.Pool) *ContentRepository {
	return &ContentRepository{pool: pool}
}

// list runs query and scans every row with scan.
func list[T any](ctx context.Context, pool *pgxpool.Pool, what string, scan pgx.RowToFunc[T], query string, args ...any) ([]T, error) {
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", what, err)
	}
	out, err := pgx.CollectRows(rows, scan)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", what, err)
	}
	return out, nil
}

func (r *ContentRepository) ListBanners(ctx context.Context) ([]content.Banner, error) {
	return list(ctx, r.pool, "banners", func(row pgx.CollectableRow) (content.Banner, error) {
		var b content.Banner
		err := row.Scan(&b.ID, &b.Title, &b.Subtitle, &b.ImageURL, &b.Active, &b.CreatedAt)
		return b, err
	}, listBannersSQL)
}

func (r *ContentRepository) ListSettings(ctx context.Context, lang prefs.Language) ([]content.Setting, error) {
	return list(ctx, r.pool, "settings", func(row pgx.CollectableRow) (content.Setting, error) {
		var (
			s    content.Setting
			code string
		)
		err := row.Scan(&s.ID, &s.Key, &s.Value, &code, &s.CreatedAt, &s.UpdatedAt)
		s.Language = prefs.Language(code)
		return s, err
	}, listSettingsSQL, string(lang))
}

func (r *ContentRepository) ListAboutSections(ctx context.Context, lang prefs.Language) ([]content.AboutSection, error) {
	return list(ctx, r.pool, "about sections", func(row pgx.CollectableRow) (content.AboutSection, error) {
		var (
			s    content.AboutSection
			code string
		)
		err := row.Scan(&s.ID, &s.Section, &code, &s.Content, &s.CreatedAt)
		s.Language = prefs.Language(code)
		return s, err
	}, listAboutSectionsSQL, string(lang))
}

func (r *ContentRepository) ListCompanyValues(ctx context.Context, lang prefs.Language) ([]content.CompanyValue, error) {
	return list(ctx, r.pool, "company values", func(row pgx.CollectableRow) (content.CompanyValue, error) {
		var (
			v    content.CompanyValue
			code string
		)
		err := row.Scan(&v.ID, &v.Title, &v.Description, &v.Icon, &code, &v.SortOrder, &v.Active, &v.CreatedAt)
		v.Language = prefs.Language(code)
		return v, err
	}, listCompanyValuesSQL, string(lang))
}

func (r *ContentRepository) ListAboutImages(ctx context.Context) ([]content.AboutImage, error) {
	return list(ctx, r.pool, "about images", func(row pgx.CollectableRow) (content.AboutImage, error) {
		var i content.AboutImage
		err := row.Scan(&i.ID, &i.ImageURL, &i.AltText, &i.Caption, &i.Section, &i.SortOrder, &i.Active, &i.CreatedAt)
		return i, err
	}, listAboutImagesSQL)
}

func (r *ContentRepository) ListJobs(ctx context.Context) ([]content.Job, error) {
	return list(ctx, r.pool, "jobs", func(row pgx.CollectableRow) (content.Job, error) {
		var j content.Job
		err := row.Scan(&j.ID, &j.Title, &j.Description, &j.Location, &j.ApplyLink, &j.Active, &j.CreatedAt)
		return j, err
	}, listJobsSQL)
}

func (r *ContentRepository) ListSocialLinks(ctx context.Context) ([]content.SocialLink, error) {
	return list(ctx, r.pool, "social links", func(row pgx.CollectableRow) (content.SocialLink, error) {
		var l content.SocialLink
		err := row.Scan(&l.ID, &l.Platform, &l.URL, &l.Icon, &l.Active, &l.CreatedAt)
		return l, err
	}, listSocialLinksSQL)
}

func (r *ContentRepository) ListOnlineShops(ctx context.Context) ([]content.OnlineShop, error) {
	return list(ctx, r.pool, "online shops", func(row pgx.CollectableRow) (content.OnlineShop, error) {
		var s content.OnlineShop
		err := row.Scan(&s.ID, &s.Name, &s.URL, &s.Icon, &s.Active, &s.SortOrder, &s.CreatedAt)
		return s, err
	}, listOnlineShopsSQL)
}
