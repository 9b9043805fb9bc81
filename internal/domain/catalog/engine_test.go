package catalog_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/udsehati/sehati-web/internal/domain/catalog"
	"github.com/udsehati/sehati-web/internal/seed"
	"github.com/udsehati/sehati-web/internal/storage/memory"
)

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// catalogFixture has 25 active products: 3 mention "kopi", 7 belong to
// cat-1, and two have no price. One more product is inactive.
func catalogFixture() *seed.Fixture {
	names := []string{
		"Zaitun", "Jahe Merah", "Kopi Rempah", "beras kencur", "Temulawak",
		"Kunyit Asam", "Sereh", "Keripik Singkong", "Keripik Tempe", "Rengginang",
		"Emping", "Kacang Bawang", "Dodol", "Sambal", "Bumbu Rendang",
		"Bumbu Soto", "Terasi", "Gula Aren", "Madu Hutan", "Madu Klanceng",
		"Madu Randu", "Bee Pollen", "Propolis", "Ekstrak Hijau", "Hampers",
	}
	f := &seed.Fixture{
		Categories: []catalog.Category{{ID: "cat-1", Name: "Herbal"}, {ID: "cat-2", Name: "Lainnya"}},
	}
	for i, name := range names {
		p := catalog.Product{
			ID:         fmt.Sprintf("prod-%02d", i+1),
			Name:       name,
			CategoryID: "cat-2",
			Active:     true,
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
			Price:      decimal.NewNullDecimal(decimal.NewFromInt(int64(1000 * ((i*7)%25 + 1)))),
		}
		if i < 7 {
			p.CategoryID = "cat-1"
		}
		switch i {
		case 12:
			p.Description = "Dodol rasa KOPI"
		case 23:
			p.Description = "Ekstrak kopi hijau"
		case 4, 9:
			p.Price = decimal.NullDecimal{}
		}
		f.Products = append(f.Products, p)
	}
	f.Products = append(f.Products, catalog.Product{
		ID: "prod-99", Name: "Kopi Lama", CategoryID: "cat-1", Active: false, CreatedAt: base.Add(100 * time.Hour),
	})
	return f
}

func newTestEngine(t *testing.T) (*catalog.Engine, *memory.Store) {
	t.Helper()
	store := memory.New()
	require.NoError(t, store.Seed(context.Background(), catalogFixture()))
	e, err := catalog.NewEngine(store)
	require.NoError(t, err)
	return e, store
}

func TestFetchPage_NewestPagination(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	first, err := e.FetchPage(ctx, catalog.Query{Page: 0, Sort: catalog.SortNewest})
	require.NoError(t, err)
	assert.Equal(t, 25, first.Total)
	require.Len(t, first.Items, 20)
	assert.Equal(t, "prod-25", first.Items[0].ID)
	for i := 1; i < len(first.Items); i++ {
		assert.False(t, first.Items[i].CreatedAt.After(first.Items[i-1].CreatedAt))
	}
	assert.Equal(t, 2, first.TotalPages())
	assert.False(t, first.HasPrevious())
	assert.True(t, first.HasNext())

	second, err := e.FetchPage(ctx, catalog.Query{Page: 1, Sort: catalog.SortNewest})
	require.NoError(t, err)
	assert.Equal(t, 25, second.Total)
	require.Len(t, second.Items, 5)
	assert.Equal(t, "prod-01", second.Items[4].ID)
	assert.True(t, second.HasPrevious())
	assert.False(t, second.HasNext())

	seen := map[string]bool{}
	for _, p := range append(first.Items, second.Items...) {
		assert.False(t, seen[p.ID], "duplicate %s", p.ID)
		seen[p.ID] = true
		assert.True(t, p.Active)
	}
	assert.Len(t, seen, 25)
}

func TestFetchPage_Search(t *testing.T) {
	e, _ := newTestEngine(t)

	page, err := e.FetchPage(context.Background(), catalog.Query{Search: "kopi"})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, 1, page.TotalPages())
	for _, p := range page.Items {
		text := strings.ToLower(p.Name + " " + p.Description)
		assert.Contains(t, text, "kopi")
	}
}

func TestFetchPage_CategoryNameAsc(t *testing.T) {
	e, _ := newTestEngine(t)

	page, err := e.FetchPage(context.Background(), catalog.Query{
		Sort:        catalog.SortNameAsc,
		CategoryIDs: []string{"cat-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, page.Total)
	require.Len(t, page.Items, 7)

	col := collate.New(language.Und)
	for i := 1; i < len(page.Items); i++ {
		assert.LessOrEqual(t, col.CompareString(page.Items[i-1].Name, page.Items[i].Name), 0)
	}
	assert.Equal(t, "beras kencur", page.Items[0].Name)
	for _, p := range page.Items {
		assert.Equal(t, "cat-1", p.CategoryID)
	}
}

func TestFetchPage_PriceLow(t *testing.T) {
	e, _ := newTestEngine(t)

	page, err := e.FetchPage(context.Background(), catalog.Query{Sort: catalog.SortPriceLow})
	require.NoError(t, err)

	// Missing prices rank lowest.
	assert.False(t, page.Items[0].Price.Valid)
	assert.False(t, page.Items[1].Price.Valid)
	for i := 1; i < len(page.Items); i++ {
		a, b := page.Items[i-1].Price, page.Items[i].Price
		if a.Valid && b.Valid {
			assert.True(t, a.Decimal.LessThanOrEqual(b.Decimal))
		}
	}
}

func TestFetchPage_PriceHigh(t *testing.T) {
	e, _ := newTestEngine(t)

	last, err := e.FetchPage(context.Background(), catalog.Query{Page: 1, Sort: catalog.SortPriceHigh})
	require.NoError(t, err)
	require.Len(t, last.Items, 5)
	assert.False(t, last.Items[4].Price.Valid)
	assert.False(t, last.Items[3].Price.Valid)
}

func TestFetchPage_PaginationBoundary(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	for _, q := range []catalog.Query{
		{},
		{Search: "kopi"},
		{CategoryIDs: []string{"cat-1"}},
		{Search: "madu", CategoryIDs: []string{"cat-2"}},
	} {
		first, err := e.FetchPage(ctx, q)
		require.NoError(t, err)
		require.Positive(t, first.Total)

		q.Page = first.TotalPages() - 1
		last, err := e.FetchPage(ctx, q)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(last.Items), 1)
		assert.LessOrEqual(t, len(last.Items), catalog.PageSize)
		assert.Equal(t, first.Total, last.Total)

		q.Page = first.TotalPages()
		past, err := e.FetchPage(ctx, q)
		require.NoError(t, err)
		assert.Empty(t, past.Items)
		assert.NotNil(t, past.Items)
		assert.Equal(t, first.Total, past.Total)
	}
}

func TestFetchPage_NoMatches(t *testing.T) {
	e, _ := newTestEngine(t)

	page, err := e.FetchPage(context.Background(), catalog.Query{Search: "tidak ada"})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.TotalPages())
	assert.False(t, page.HasNext())
}

func TestFetchPage_Idempotent(t *testing.T) {
	e, _ := newTestEngine(t)
	q := catalog.Query{Page: 0, Sort: catalog.SortPriceHigh, CategoryIDs: []string{"cat-2", "cat-1", "cat-2"}}

	a, err := e.FetchPage(context.Background(), q)
	require.NoError(t, err)
	b, err := e.FetchPage(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFetchPage_UnknownSortFallsBackToNewest(t *testing.T) {
	e, _ := newTestEngine(t)

	got, err := e.FetchPage(context.Background(), catalog.Query{Sort: "cheapest"})
	require.NoError(t, err)
	want, err := e.FetchPage(context.Background(), catalog.Query{Sort: catalog.SortNewest})
	require.NoError(t, err)
	assert.Equal(t, want.Items, got.Items)
}

func TestFetchPage_NegativePage(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.FetchPage(context.Background(), catalog.Query{Page: -1})
	require.ErrorIs(t, err, catalog.ErrInvalidPage)
}

func TestFetchPage_HugePageIsPastTheEnd(t *testing.T) {
	e, _ := newTestEngine(t)

	for _, p := range []int{461168601842738791, catalog.MaxPage, catalog.MaxPage + 1} {
		page, err := e.FetchPage(context.Background(), catalog.Query{Page: p, Search: "kopi"})
		require.NoError(t, err, "page %d", p)
		assert.Empty(t, page.Items)
		assert.NotNil(t, page.Items)
		assert.Equal(t, 3, page.Total)
		assert.Equal(t, p, page.Page)
		assert.False(t, page.HasNext())
	}
}

func TestFetchPage_BackendError(t *testing.T) {
	e, store := newTestEngine(t)
	boom := errors.New("connection reset")
	store.Fail(boom)

	page, err := e.FetchPage(context.Background(), catalog.Query{})
	require.ErrorIs(t, err, catalog.ErrUnavailable)
	require.ErrorIs(t, err, boom)
	assert.Empty(t, page.Items)

	_, err = e.Featured(context.Background(), 3)
	require.ErrorIs(t, err, catalog.ErrUnavailable)
	_, err = e.Product(context.Background(), "prod-01")
	require.ErrorIs(t, err, catalog.ErrUnavailable)
	_, err = e.Categories(context.Background())
	require.ErrorIs(t, err, catalog.ErrUnavailable)
}

func TestFeatured(t *testing.T) {
	e, _ := newTestEngine(t)

	items, err := e.Featured(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, items, catalog.DefaultFeaturedLimit)
	assert.Equal(t, "prod-25", items[0].ID)
}

func TestProduct(t *testing.T) {
	e, _ := newTestEngine(t)

	p, err := e.Product(context.Background(), "prod-03")
	require.NoError(t, err)
	assert.Equal(t, "Kopi Rempah", p.Name)
	require.NotNil(t, p.Category)
	assert.Equal(t, "Herbal", p.Category.Name)

	_, err = e.Product(context.Background(), "prod-99")
	require.ErrorIs(t, err, catalog.ErrNotFound)
	assert.NotErrorIs(t, err, catalog.ErrUnavailable)
}
