package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udsehati/sehati-web/internal/seed"
)

const (
	upsertCategorySQL = `INSERT INTO categories (id, name, slug, created_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, slug = EXCLUDED.slug`

	upsertProductSQL = `INSERT INTO products
		(id, name, description, price, category_id, image_url, whatsapp_link, active, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, description = EXCLUDED.description, price = EXCLUDED.price,
			category_id = EXCLUDED.category_id, image_url = EXCLUDED.image_url,
			whatsapp_link = EXCLUDED.whatsapp_link, active = EXCLUDED.active,
			created_at = EXCLUDED.created_at`

	upsertBannerSQL = `INSERT INTO banners (id, title, subtitle, image_url, active, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, subtitle = EXCLUDED.subtitle,
			image_url = EXCLUDED.image_url, active = EXCLUDED.active, created_at = EXCLUDED.created_at`

	upsertSettingSQL = `INSERT INTO settings (id, key, value, language, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (key, language) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	upsertAboutSectionSQL = `INSERT INTO about_sections (id, section, language, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (section, language) DO UPDATE SET content = EXCLUDED.content`

	upsertCompanyValueSQL = `INSERT INTO company_values
		(id, title, description, icon, language, sort_order, active, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, description = EXCLUDED.description,
			icon = EXCLUDED.icon, language = EXCLUDED.language, sort_order = EXCLUDED.sort_order,
			active = EXCLUDED.active`

	upsertAboutImageSQL = `INSERT INTO about_images
		(id, image_url, alt_text, caption, section, sort_order, active, created_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET image_url = EXCLUDED.image_url, alt_text = EXCLUDED.alt_text,
			caption = EXCLUDED.caption, section = EXCLUDED.section, sort_order = EXCLUDED.sort_order,
			active = EXCLUDED.active`

	upsertJobSQL = `INSERT INTO jobs (id, title, description, location, apply_link, active, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7)
		ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, description = EXCLUDED.description,
			location = EXCLUDED.location, apply_link = EXCLUDED.apply_link, active = EXCLUDED.active,
			created_at = EXCLUDED.created_at`

	upsertSocialLinkSQL = `INSERT INTO social_links (id, platform, url, icon, active, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)
		ON CONFLICT (id) DO UPDATE SET platform = EXCLUDED.platform, url = EXCLUDED.url,
			icon = EXCLUDED.icon, active = EXCLUDED.active`

	upsertOnlineShopSQL = `INSERT INTO online_shops (id, name, url, icon, active, sort_order, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, url = EXCLUDED.url, icon = EXCLUDED.icon,
			active = EXCLUDED.active, sort_order = EXCLUDED.sort_order`
)

var _ seed.Sink = (*Seeder)(nil)

// Seeder upserts fixtures.
type Seeder struct {
	pool *pgxpool.Pool
}

// NewSeeder returns a Seeder that uses the given pool.
func NewSeeder(pool *pgxpool.Pool) *Seeder {
	return &Seeder{pool: pool}
}

// Seed upserts every row of f in a single transaction. Categories are
// queued before products so the foreign key holds.
func (s *Seeder) Seed(ctx context.Context, f *seed.Fixture) error {
	batch := &pgx.Batch{}
	for _, c := range f.Categories {
		batch.Queue(upsertCategorySQL, c.ID, c.Name, c.Slug, c.CreatedAt)
	}
	for _, p := range f.Products {
		batch.Queue(upsertProductSQL, p.ID, p.Name, p.Description, p.Price, p.CategoryID,
			p.ImageURL, p.WhatsAppLink, p.Active, p.CreatedAt)
	}
	for _, b := range f.Banners {
		batch.Queue(upsertBannerSQL, b.ID, b.Title, b.Subtitle, b.ImageURL, b.Active, b.CreatedAt)
	}
	for _, st := range f.Settings {
		batch.Queue(upsertSettingSQL, st.ID, st.Key, st.Value, string(st.Language), st.UpdatedAt)
	}
	for _, a := range f.AboutSections {
		batch.Queue(upsertAboutSectionSQL, a.ID, a.Section, string(a.Language), a.Content, a.CreatedAt)
	}
	for _, v := range f.CompanyValues {
		batch.Queue(upsertCompanyValueSQL, v.ID, v.Title, v.Description, v.Icon, string(v.Language),
			v.SortOrder, v.Active, v.CreatedAt)
	}
	for _, i := range f.AboutImages {
		batch.Queue(upsertAboutImageSQL, i.ID, i.ImageURL, i.AltText, i.Caption, i.Section,
			i.SortOrder, i.Active, i.CreatedAt)
	}
	for _, j := range f.Jobs {
		batch.Queue(upsertJobSQL, j.ID, j.Title, j.Description, j.Location, j.ApplyLink, j.Active, j.CreatedAt)
	}
	for _, l := range f.SocialLinks {
		batch.Queue(upsertSocialLinkSQL, l.ID, l.Platform, l.URL, l.Icon, l.Active, l.CreatedAt)
	}
	for _, sh := range f.OnlineShops {
		batch.Queue(upsertOnlineShopSQL, sh.ID, sh.Name, sh.URL, sh.Icon, sh.Active, sh.SortOrder, sh.CreatedAt)
	}

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("seeding %d rows: %w", batch.Len(), err)
	}
	return nil
}
