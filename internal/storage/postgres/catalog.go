package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udsehati/sehati-web/internal/domain/catalog"
)

const (
	productColumns = `p.id, p.name, COALESCE(p.description, ''), p.price, COALESCE(p.category_id, ''),
		COALESCE(p.image_url, ''), COALESCE(p.whatsapp_link, ''), p.active, p.created_at,
		c.id, c.name, c.slug, c.created_at`

	productFrom = `FROM products p LEFT JOIN categories c ON c.id = p.category_id`

	getProductByIDSQL = `SELECT ` + productColumns + ` ` + productFrom + `
		WHERE p.id = $1 AND p.active`

	listCategoriesSQL = `SELECT id, name, slug, created_at
		FROM categories ORDER BY name COLLATE "und-x-icu", id`
)

// orderBy maps each sort key to its ORDER BY clause. Missing prices rank
// lowest and the id keeps the order total.
var orderBy = map[catalog.SortKey]string{
	catalog.SortNewest:    `p.created_at DESC, p.id`,
	catalog.SortOldest:    `p.created_at ASC, p.id`,
	catalog.SortPriceLow:  `p.price ASC NULLS FIRST, p.id`,
	catalog.SortPriceHigh: `p.price DESC NULLS LAST, p.id`,
	catalog.SortNameAsc:   `p.name COLLATE "und-x-icu" ASC, p.id`,
	catalog.SortNameDesc:  `p.name COLLATE "und-x-icu" DESC, p.id`,
}

var _ catalog.Store = (*CatalogStore)(nil)

// CatalogStore implements catalog.Store backed by PostgreSQL.
type CatalogStore struct {
	pool *pgxpool.Pool
}

// NewCatalogStore returns a CatalogStore that uses the given pool.
func NewCatalogStore(pool *pgxpool.Pool) *CatalogStore {
	return &CatalogStore{pool: pool}
}

// productQuery is the SQL for one catalog request.
type productQuery struct {
	countSQL string
	pageSQL  string
	// args are shared by both statements.
	args []any
	// limit and offset follow args in pageSQL.
	limit, offset int
}

// pageArgs returns the arguments of pageSQL.
func (pq productQuery) pageArgs() []any {
	out := make([]any, 0, len(pq.args)+2)
	out = append(out, pq.args...)
	return append(out, pq.limit, pq.offset)
}

// buildProductQuery renders q as a count statement and a page statement
// over the same filter.
func buildProductQuery(q catalog.Query, offset, limit int) productQuery {
	var (
		where = []string{"p.active"}
		args  []any
	)
	if q.Search != "" {
		args = append(args, "%"+escapeLike(q.Search)+"%")
		n := strconv.Itoa(len(args))
		where = append(where, `(p.name ILIKE $`+n+` ESCAPE '\' OR p.description ILIKE $`+n+` ESCAPE '\')`)
	}
	if len(q.CategoryIDs) > 0 {
		args = append(args, q.CategoryIDs)
		where = append(where, `p.category_id = ANY($`+strconv.Itoa(len(args))+`)`)
	}

	order, ok := orderBy[q.Sort]
	if !ok {
		order = orderBy[catalog.SortNewest]
	}
	cond := strings.Join(where, " AND ")

	return productQuery{
		countSQL: `SELECT count(*) FROM products p WHERE ` + cond,
		pageSQL: fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
			productColumns, productFrom, cond, order, len(args)+1, len(args)+2),
		args:  args,
		limit: limit, offset: offset,
	}
}

// escapeLike quotes the LIKE metacharacters of s for ESCAPE '\'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// QueryProducts sends the count and the page statement in one batch so both
// observe the same snapshot.
func (s *CatalogStore) QueryProducts(ctx context.Context, q catalog.Query, offset, limit int) ([]catalog.Product, int, error) {
	pq := buildProductQuery(q, offset, limit)

	var (
		total int
		items []catalog.Product
	)
	batch := &pgx.Batch{}
	batch.Queue(pq.countSQL, pq.args...).QueryRow(func(row pgx.Row) error {
		return row.Scan(&total)
	})
	batch.Queue(pq.pageSQL, pq.pageArgs()...).Query(func(rows pgx.Rows) error {
		var err error
		items, err = pgx.CollectRows(rows, scanProduct)
		return err
	})

	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return nil, 0, fmt.Errorf("querying products: %w", err)
	}
	return items, total, nil
}

// ProductByID returns an active product by id.
func (s *CatalogStore) ProductByID(ctx context.Context, id string) (*catalog.Product, error) {
	rows, err := s.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}
	return &p, nil
}

// Categories returns all categories ordered by name.
func (s *CatalogStore) Categories(ctx context.Context) ([]catalog.Category, error) {
	rows, err := s.pool.Query(ctx, listCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (catalog.Category, error) {
		var c catalog.Category
		err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt)
		return c, err
	})
}

func scanProduct(row pgx.CollectableRow) (catalog.Product, error) {
	var (
		p          catalog.Product
		catID      *string
		catName    *string
		catSlug    *string
		catCreated *time.Time
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.CategoryID,
		&p.ImageURL, &p.WhatsAppLink, &p.Active, &p.CreatedAt,
		&catID, &catName, &catSlug, &catCreated,
	)
	if err != nil {
		return p, err
	}
	if catID != nil {
		p.Category = &catalog.Category{ID: *catID, Name: deref(catName), Slug: deref(catSlug)}
		if catCreated != nil {
			p.Category.CreatedAt = *catCreated
		}
	}
	return p, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
