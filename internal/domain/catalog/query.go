package catalog

import (
	"math"
	"slices"
)

// PageSize is the fixed number of products per catalog page.
const PageSize = 20

// MaxPage is the largest page index whose offset fits in an int. Any larger
// index lies past the end of every result set.
const MaxPage = (math.MaxInt - PageSize) / PageSize

// SortKey selects the catalog ordering.
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortOldest    SortKey = "oldest"
	SortPriceLow  SortKey = "price_low"
	SortPriceHigh SortKey = "price_high"
	SortNameAsc   SortKey = "name_asc"
	SortNameDesc  SortKey = "name_desc"
)

// SortKeys lists the supported keys in the order they are offered to users.
var SortKeys = []SortKey{
	SortNewest,
	SortOldest,
	SortPriceLow,
	SortPriceHigh,
	SortNameAsc,
	SortNameDesc,
}

// Valid reports whether k is one of the supported keys.
func (k SortKey) Valid() bool {
	return slices.Contains(SortKeys, k)
}

// OrDefault returns k, or SortNewest for unrecognized keys.
func (k SortKey) OrDefault() SortKey {
	if k.Valid() {
		return k
	}
	return SortNewest
}

// Query is a single catalog request.
type Query struct {
	// Page is zero-based. It is not range-checked: pages past the end
	// yield no items.
	Page   int
	Sort   SortKey
	Search string
	// CategoryIDs restricts results to any of the listed categories. Empty
	// means no restriction.
	CategoryIDs []string
}

// Normalize returns a copy of q with the sort key defaulted and category ids
// de-duplicated and sorted, so equal filter sets produce equal queries.
func (q Query) Normalize() Query {
	out := q
	out.Sort = q.Sort.OrDefault()
	if len(q.CategoryIDs) > 0 {
		ids := make([]string, 0, len(q.CategoryIDs))
		for _, id := range q.CategoryIDs {
			if id != "" {
				ids = append(ids, id)
			}
		}
		slices.Sort(ids)
		out.CategoryIDs = slices.Compact(ids)
	}
	if len(out.CategoryIDs) == 0 {
		out.CategoryIDs = nil
	}
	return out
}

// Offset returns the index of the first item of the page. Pages beyond
// MaxPage share the offset of MaxPage.
func (q Query) Offset() int {
	return min(max(q.Page, 0), MaxPage) * PageSize
}

// Page is one window of catalog results.
type Page struct {
	Items []Product
	// Total counts every matching product, independent of pagination.
	Total    int
	Page     int
	PageSize int
}

// TotalPages returns ceil(total / PageSize).
func TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + PageSize - 1) / PageSize
}

// TotalPages returns the number of pages for p.Total.
func (p Page) TotalPages() int {
	return TotalPages(p.Total)
}

// HasPrevious reports whether a previous page exists.
func (p Page) HasPrevious() bool {
	return p.Page > 0
}

// HasNext reports whether a following page exists.
func (p Page) HasNext() bool {
	return p.Page < p.TotalPages()-1
}
