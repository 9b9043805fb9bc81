package seed

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	pgzip "github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udsehati/sehati-web/internal/domain/prefs"
)

const sample = `{
  "categories": [{"id": "cat-1", "name": "Madu", "slug": "madu"}],
  "products": [
    {"id": "p1", "name": "Madu Hutan", "price": "85000", "category_id": "cat-1", "created_at": "2024-01-02T00:00:00Z"},
    {"id": "p2", "name": "Wedang Uwuh", "price": null, "active": false}
  ],
  "settings": [{"id": "s1", "key": "whatsapp_number", "value": "62811", "language": "en"}]
}`

func TestDecode(t *testing.T) {
	f, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)

	require.Len(t, f.Categories, 1)
	assert.False(t, f.Categories[0].CreatedAt.IsZero())

	require.Len(t, f.Products, 2)
	p1, p2 := f.Products[0], f.Products[1]
	assert.True(t, p1.Active)
	require.True(t, p1.Price.Valid)
	assert.Equal(t, "85000", p1.Price.Decimal.String())
	assert.Equal(t, 2024, p1.CreatedAt.Year())
	assert.False(t, p2.Active)
	assert.False(t, p2.Price.Valid)

	require.Len(t, f.Settings, 1)
	assert.Equal(t, prefs.LanguageEnglish, f.Settings[0].Language)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown field", `{"widgets": []}`},
		{"negative price", `{"products": [{"id": "p", "price": "-1"}]}`},
		{"missing product id", `{"products": [{"name": "x"}]}`},
		{"bad language", `{"settings": [{"key": "k", "language": "fr"}]}`},
		{"malformed", `{"products": [`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			require.Error(t, err)
		})
	}
}

func TestOpen_Gzip(t *testing.T) {
	var buf bytes.Buffer
	zw := pgzip.NewWriter(&buf)
	_, err := zw.Write([]byte(sample))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "fixture.json.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	f, err := Open(path)
	require.NoError(t, err)
	assert.Len(t, f.Products, 2)
}

func TestOpen_RepositoryFixture(t *testing.T) {
	f, err := Open(filepath.Join("..", "..", "db", "seed", "catalog.json"))
	require.NoError(t, err)

	active := 0
	for _, p := range f.Products {
		if p.Active {
			active++
		}
	}
	assert.Equal(t, 25, active)
	assert.NotEmpty(t, f.Categories)
	assert.NotEmpty(t, f.Settings)
}
