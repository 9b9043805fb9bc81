//go:build integration

package integration

import (
	"net/http"
	"strings"
	"testing"
)

func getPage(t *testing.T, path string) pageResponse {
	t.Helper()

	resp := doGet(t, path)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: expected 200, got %d", path, resp.StatusCode)
	}
	return decodeJSON[pageResponse](t, resp)
}

func TestListProducts_NewestPaging(t *testing.T) {
	first := getPage(t, "/api/products?sort=newest")
	if first.Total != 25 {
		t.Fatalf("expected total 25, got %d", first.Total)
	}
	if len(first.Items) != 20 {
		t.Fatalf("expected 20 items on page 0, got %d", len(first.Items))
	}
	if first.Items[0].ID != "prod-25" {
		t.Errorf("expected newest product prod-25 first, got %s", first.Items[0].ID)
	}
	if first.HasPrevious || !first.HasNext || first.TotalPages != 2 {
		t.Errorf("unexpected pagination: %+v", first)
	}

	second := getPage(t, "/api/products?sort=newest&page=1")
	if second.Total != 25 {
		t.Fatalf("total changed between pages: %d", second.Total)
	}
	if len(second.Items) != 5 {
		t.Fatalf("expected 5 items on page 1, got %d", len(second.Items))
	}

	seen := map[string]bool{}
	for _, p := range append(first.Items, second.Items...) {
		if seen[p.ID] {
			t.Errorf("product %s returned twice", p.ID)
		}
		seen[p.ID] = true
	}

	empty := getPage(t, "/api/products?page=2")
	if len(empty.Items) != 0 || empty.Total != 25 {
		t.Errorf("page past the end: got %d items, total %d", len(empty.Items), empty.Total)
	}
}

func TestListProducts_Search(t *testing.T) {
	page := getPage(t, "/api/products?q=kopi")
	if page.Total != 3 {
		t.Fatalf("expected 3 matches, got %d", page.Total)
	}
	for _, p := range page.Items {
		text := strings.ToLower(p.Name + " " + p.Description)
		if !strings.Contains(text, "kopi") {
			t.Errorf("product %s does not mention kopi", p.ID)
		}
	}

	// Wildcards in the search text match literally.
	if page := getPage(t, "/api/products?q=%25"); page.Total != 0 {
		t.Errorf("expected no match for %%, got %d", page.Total)
	}
}

func TestListProducts_CategoryNameAsc(t *testing.T) {
	page := getPage(t, "/api/products?category=cat-1&sort=name_asc")
	if page.Total != 7 {
		t.Fatalf("expected 7 products in cat-1, got %d", page.Total)
	}
	for i, p := range page.Items {
		if p.CategoryID != "cat-1" || p.Category == nil {
			t.Errorf("product %s: category %q", p.ID, p.CategoryID)
		}
		if i > 0 && strings.ToLower(page.Items[i-1].Name) > strings.ToLower(p.Name) {
			t.Errorf("not ordered by name: %q before %q", page.Items[i-1].Name, p.Name)
		}
	}
}

func TestListProducts_PriceOrdering(t *testing.T) {
	low := getPage(t, "/api/products?sort=price_low")
	if low.Items[0].Price != nil || low.Items[1].Price != nil {
		t.Errorf("expected unpriced products first, got %v and %v", low.Items[0].Price, low.Items[1].Price)
	}

	high := getPage(t, "/api/products?sort=price_high")
	if high.Items[0].ID != "prod-25" {
		t.Errorf("expected prod-25 first, got %s", high.Items[0].ID)
	}
	for i := 1; i < len(high.Items); i++ {
		prev, cur := high.Items[i-1].Price, high.Items[i].Price
		if prev != nil && cur != nil && *prev < *cur {
			t.Errorf("price_high not descending at %d: %v < %v", i, *prev, *cur)
		}
	}
}

func TestListProducts_InvalidPage(t *testing.T) {
	resp := doGet(t, "/api/products?page=-1")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	body := decodeJSON[errorResponse](t, resp)
	if body.Code != http.StatusBadRequest {
		t.Errorf("expected code 400, got %d", body.Code)
	}
}

func TestGetProduct(t *testing.T) {
	resp := doGet(t, "/api/products/prod-03")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	p := decodeJSON[productResponse](t, resp)
	if p.Name != "Kopi Rempah" {
		t.Errorf("name: got %q", p.Name)
	}
	if p.Price == nil || *p.Price != 32000 {
		t.Errorf("price: got %v", p.Price)
	}
	if p.ImageURL != "https://cdn.udsehati.test/images/products/prod-03.jpg" {
		t.Errorf("imageUrl: got %q", p.ImageURL)
	}
}

func TestGetProduct_Inactive(t *testing.T) {
	resp := doGet(t, "/api/products/prod-99")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestListCategories(t *testing.T) {
	resp := doGet(t, "/api/categories")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	cats := decodeJSON[[]categoryResponse](t, resp)
	if len(cats) != 4 {
		t.Fatalf("expected 4 categories, got %d", len(cats))
	}
	if cats[0].Name != "Bumbu Dapur" {
		t.Errorf("expected Bumbu Dapur first, got %q", cats[0].Name)
	}
}

func TestHome(t *testing.T) {
	resp := doGet(t, "/api/home?lang=en")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	home := decodeJSON[struct {
		Featured []productResponse `json:"featured"`
		Settings map[string]string `json:"settings"`
	}](t, resp)
	if len(home.Featured) != 3 {
		t.Errorf("expected 3 featured products, got %d", len(home.Featured))
	}
	if home.Settings["contact_email"] != "hello@udsehati.co.id" {
		t.Errorf("expected English settings, got %v", home.Settings)
	}
}
