// Package memory implements every store in process memory. It backs the
// "memory" storage driver used for local development and tests.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/udsehati/sehati-web/internal/domain/catalog"
	"github.com/udsehati/sehati-web/internal/domain/contact"
	"github.com/udsehati/sehati-web/internal/domain/content"
	"github.com/udsehati/sehati-web/internal/domain/prefs"
	"github.com/udsehati/sehati-web/internal/seed"
)

var (
	_ catalog.Store      = (*Store)(nil)
	_ content.Repository = (*Store)(nil)
	_ contact.Repository = (*Store)(nil)
	_ seed.Sink          = (*Store)(nil)
)

// Store holds the site data in memory. It is safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	data seed.Fixture
	msgs []contact.Message

	// failWith is returned by every call while set.
	failWith error
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// Seed replaces rows by id with the rows of f.
func (s *Store) Seed(_ context.Context, f *seed.Fixture) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Categories = upsert(s.data.Categories, f.Categories, func(c catalog.Category) string { return c.ID })
	s.data.Products = upsert(s.data.Products, f.Products, func(p catalog.Product) string { return p.ID })
	s.data.Banners = upsert(s.data.Banners, f.Banners, func(b content.Banner) string { return b.ID })
	s.data.Settings = upsert(s.data.Settings, f.Settings, func(st content.Setting) string {
		return st.Key + "\x00" + string(st.Language)
	})
	s.data.AboutSections = upsert(s.data.AboutSections, f.AboutSections, func(a content.AboutSection) string {
		return a.Section + "\x00" + string(a.Language)
	})
	s.data.CompanyValues = upsert(s.data.CompanyValues, f.CompanyValues, func(v content.CompanyValue) string { return v.ID })
	s.data.AboutImages = upsert(s.data.AboutImages, f.AboutImages, func(i content.AboutImage) string { return i.ID })
	s.data.Jobs = upsert(s.data.Jobs, f.Jobs, func(j content.Job) string { return j.ID })
	s.data.SocialLinks = upsert(s.data.SocialLinks, f.SocialLinks, func(l content.SocialLink) string { return l.ID })
	s.data.OnlineShops = upsert(s.data.OnlineShops, f.OnlineShops, func(o content.OnlineShop) string { return o.ID })
	return nil
}

func upsert[T any](dst, src []T, key func(T) string) []T {
	idx := make(map[string]int, len(dst))
	for i, v := range dst {
		idx[key(v)] = i
	}
	for _, v := range src {
		if i, ok := idx[key(v)]; ok {
			dst[i] = v
			continue
		}
		idx[key(v)] = len(dst)
		dst = append(dst, v)
	}
	return dst
}

// Fail makes every subsequent call return err until called with nil.
func (s *Store) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

// QueryProducts filters, orders and slices the active products.
func (s *Store) QueryProducts(_ context.Context, q catalog.Query, offset, limit int) ([]catalog.Product, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.failWith != nil {
		return nil, 0, s.failWith
	}

	fold := cases.Fold()
	needle := fold.String(q.Search)
	var matched []catalog.Product
	for _, p := range s.data.Products {
		if !p.Active {
			continue
		}
		if len(q.CategoryIDs) > 0 && !slices.Contains(q.CategoryIDs, p.CategoryID) {
			continue
		}
		if needle != "" &&
			!strings.Contains(fold.String(p.Name), needle) &&
			!strings.Contains(fold.String(p.Description), needle) {
			continue
		}
		matched = append(matched, s.withCategory(p))
	}

	slices.SortStableFunc(matched, productOrder(q.Sort))

	total := len(matched)
	if offset < 0 || offset >= total || limit <= 0 {
		return []catalog.Product{}, total, nil
	}
	end := min(offset+limit, total)
	return matched[offset:end], total, nil
}

// productOrder mirrors the PostgreSQL ordering: missing prices rank lowest
// and ties fall back to the id.
func productOrder(key catalog.SortKey) func(a, b catalog.Product) int {
	col := collate.New(language.Und)
	byID := func(a, b catalog.Product) int { return cmp.Compare(a.ID, b.ID) }
	byPrice := func(a, b catalog.Product) int {
		switch {
		case !a.Price.Valid && !b.Price.Valid:
			return 0
		case !a.Price.Valid:
			return -1
		case !b.Price.Valid:
			return 1
		}
		return a.Price.Decimal.Cmp(b.Price.Decimal)
	}

	var primary func(a, b catalog.Product) int
	switch key {
	case catalog.SortOldest:
		primary = func(a, b catalog.Product) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case catalog.SortPriceLow:
		primary = byPrice
	case catalog.SortPriceHigh:
		primary = func(a, b catalog.Product) int { return byPrice(b, a) }
	case catalog.SortNameAsc:
		primary = func(a, b catalog.Product) int { return col.CompareString(a.Name, b.Name) }
	case catalog.SortNameDesc:
		primary = func(a, b catalog.Product) int { return col.CompareString(b.Name, a.Name) }
	default:
		primary = func(a, b catalog.Product) int { return b.CreatedAt.Compare(a.CreatedAt) }
	}
	return func(a, b catalog.Product) int {
		if c := primary(a, b); c != 0 {
			return c
		}
		return byID(a, b)
	}
}

func (s *Store) withCategory(p catalog.Product) catalog.Product {
	if p.CategoryID == "" {
		return p
	}
	for _, c := range s.data.Categories {
		if c.ID == p.CategoryID {
			p.Category = &c
			break
		}
	}
	return p
}

// ProductByID returns an active product.
func (s *Store) ProductByID(_ context.Context, id string) (*catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	for _, p := range s.data.Products {
		if p.ID == id && p.Active {
			p = s.withCategory(p)
			return &p, nil
		}
	}
	return nil, catalog.ErrNotFound
}

// Categories returns every category in name order.
func (s *Store) Categories(_ context.Context) ([]catalog.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	col := collate.New(language.Und)
	out := slices.Clone(s.data.Categories)
	slices.SortStableFunc(out, func(a, b catalog.Category) int {
		if c := col.CompareString(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

// selectRows returns the rows of src() accepted by keep, ordered by cmpFn.
func selectRows[T any](s *Store, src func() []T, keep func(T) bool, cmpFn func(a, b T) int) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	out := []T{}
	for _, v := range src() {
		if keep(v) {
			out = append(out, v)
		}
	}
	slices.SortStableFunc(out, cmpFn)
	return out, nil
}

func newestFirst(a, b time.Time, aID, bID string) int {
	if c := b.Compare(a); c != 0 {
		return c
	}
	return cmp.Compare(aID, bID)
}

func (s *Store) ListBanners(_ context.Context) ([]content.Banner, error) {
	return selectRows(s, func() []content.Banner { return s.data.Banners },
		func(b content.Banner) bool { return b.Active },
		func(a, b content.Banner) int { return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID) })
}

func (s *Store) ListSettings(_ context.Context, lang prefs.Language) ([]content.Setting, error) {
	return selectRows(s, func() []content.Setting { return s.data.Settings },
		func(st content.Setting) bool { return st.Language == lang },
		func(a, b content.Setting) int { return cmp.Compare(a.Key, b.Key) })
}

func (s *Store) ListAboutSections(_ context.Context, lang prefs.Language) ([]content.AboutSection, error) {
	return selectRows(s, func() []content.AboutSection { return s.data.AboutSections },
		func(a content.AboutSection) bool { return a.Language == lang },
		func(a, b content.AboutSection) int { return cmp.Compare(a.Section, b.Section) })
}

func (s *Store) ListCompanyValues(_ context.Context, lang prefs.Language) ([]content.CompanyValue, error) {
	return selectRows(s, func() []content.CompanyValue { return s.data.CompanyValues },
		func(v content.CompanyValue) bool { return v.Active && v.Language == lang },
		func(a, b content.CompanyValue) int {
			return cmp.Or(cmp.Compare(a.SortOrder, b.SortOrder), cmp.Compare(a.ID, b.ID))
		})
}

func (s *Store) ListAboutImages(_ context.Context) ([]content.AboutImage, error) {
	return selectRows(s, func() []content.AboutImage { return s.data.AboutImages },
		func(i content.AboutImage) bool { return i.Active },
		func(a, b content.AboutImage) int {
			return cmp.Or(cmp.Compare(a.SortOrder, b.SortOrder), cmp.Compare(a.ID, b.ID))
		})
}

func (s *Store) ListJobs(_ context.Context) ([]content.Job, error) {
	return selectRows(s, func() []content.Job { return s.data.Jobs },
		func(j content.Job) bool { return j.Active },
		func(a, b content.Job) int { return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID) })
}

func (s *Store) ListSocialLinks(_ context.Context) ([]content.SocialLink, error) {
	return selectRows(s, func() []content.SocialLink { return s.data.SocialLinks },
		func(l content.SocialLink) bool { return l.Active },
		func(a, b content.SocialLink) int {
			return cmp.Or(cmp.Compare(a.Platform, b.Platform), cmp.Compare(a.ID, b.ID))
		})
}

func (s *Store) ListOnlineShops(_ context.Context) ([]content.OnlineShop, error) {
	return selectRows(s, func() []content.OnlineShop { return s.data.OnlineShops },
		func(o content.OnlineShop) bool { return o.Active },
		func(a, b content.OnlineShop) int {
			return cmp.Or(cmp.Compare(a.SortOrder, b.SortOrder), cmp.Compare(a.ID, b.ID))
		})
}

// CreateMessage stores m unless its fingerprint was stored at or after
// dedupeSince.
func (s *Store) CreateMessage(_ context.Context, m *contact.Message, dedupeSince time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	if !dedupeSince.IsZero() && slices.ContainsFunc(s.msgs, func(o contact.Message) bool {
		return o.Fingerprint == m.Fingerprint && !o.CreatedAt.Before(dedupeSince)
	}) {
		return contact.ErrDuplicate
	}
	s.msgs = append(s.msgs, *m)
	return nil
}

// FingerprintExists reports whether fingerprint was stored at or after since.
func (s *Store) FingerprintExists(_ context.Context, fingerprint string, since time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.failWith != nil {
		return false, s.failWith
	}
	for _, m := range s.msgs {
		if m.Fingerprint == fingerprint && !m.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

// RecentFingerprints returns the distinct fingerprints stored at or after since.
func (s *Store) RecentFingerprints(_ context.Context, since time.Time) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	var out []string
	for _, m := range s.msgs {
		if !m.CreatedAt.Before(since) && !slices.Contains(out, m.Fingerprint) {
			out = append(out, m.Fingerprint)
		}
	}
	return out, nil
}

// ListMessages returns one page of messages, newest first, and the total.
func (s *Store) ListMessages(_ context.Context, offset, limit int) ([]contact.Message, int, error) {
	all, err := selectRows(s, func() []contact.Message { return s.msgs },
		func(contact.Message) bool { return true },
		func(a, b contact.Message) int { return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID) })
	if err != nil {
		return nil, 0, err
	}
	if offset < 0 || offset >= len(all) || limit <= 0 {
		return []contact.Message{}, len(all), nil
	}
	return all[offset:min(offset+limit, len(all))], len(all), nil
}

// EachMessage calls fn for every message stored at or after since, oldest
// first.
func (s *Store) EachMessage(_ context.Context, since time.Time, fn func(contact.Message) error) error {
	all, err := selectRows(s, func() []contact.Message { return s.msgs },
		func(m contact.Message) bool { return !m.CreatedAt.Before(since) },
		func(a, b contact.Message) int {
			return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
		})
	if err != nil {
		return err
	}
	for _, m := range all {
		if err := fn(m); err != nil {
			return err
		}
	}
	return nil
}
