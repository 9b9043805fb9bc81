// Package catalog implements the product catalog query engine: filtering,
// ordering and pagination of active products over a pluggable Store.
package catalog

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a requested product does not exist or is
	// not active.
	ErrNotFound = errors.New("product not found")
	// ErrUnavailable wraps every backend failure surfaced by the engine. The
	// caller is expected to offer a manual retry.
	ErrUnavailable = errors.New("catalog data unavailable")
	// ErrInvalidPage is returned for a negative page index.
	ErrInvalidPage = errors.New("page must not be negative")
)

// Category groups products in the catalog filter.
type Category struct {
	ID        string
	Name      string
	Slug      string
	CreatedAt time.Time
}

// Product is a catalog item. Price is invalid when the product is sold on
// request.
type Product struct {
	ID           string
	Name         string
	Description  string
	Price        decimal.NullDecimal
	CategoryID   string
	ImageURL     string
	WhatsAppLink string
	Active       bool
	CreatedAt    time.Time

	// Category is populated when CategoryID references an existing category.
	Category *Category
}

// Store is the backend contract the engine reads through.
type Store interface {
	// QueryProducts returns the window [offset, offset+limit) of active
	// products matching q, ordered by q.Sort, along with the number of
	// matching products before pagination.
	QueryProducts(ctx context.Context, q Query, offset, limit int) ([]Product, int, error)
	// ProductByID returns an active product by id or ErrNotFound.
	ProductByID(ctx context.Context, id string) (*Product, error)
	// Categories returns every category ordered by name.
	Categories(ctx context.Context) ([]Category, error)
}
