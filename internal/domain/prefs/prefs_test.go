package prefs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNegotiate(t *testing.T) {
	tests := []struct {
		header string
		want   Language
	}{
		{"", LanguageIndonesian},
		{"en-US,en;q=0.9", LanguageEnglish},
		{"id-ID,id;q=0.9,en;q=0.8", LanguageIndonesian},
		{"fr-FR,en;q=0.5", LanguageEnglish},
		{"ja", LanguageIndonesian},
		{";;;", LanguageIndonesian},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, Negotiate(tt.header))
		})
	}
}

func TestParse(t *testing.T) {
	l, ok := ParseLanguage("en")
	assert.True(t, ok)
	assert.Equal(t, LanguageEnglish, l)
	_, ok = ParseLanguage("EN")
	assert.False(t, ok)

	th, ok := ParseTheme("dark")
	assert.True(t, ok)
	assert.Equal(t, ThemeDark, th)
	_, ok = ParseTheme("blue")
	assert.False(t, ok)
}

func TestThemeToggle(t *testing.T) {
	assert.Equal(t, ThemeDark, ThemeLight.Toggle())
	assert.Equal(t, ThemeLight, ThemeDark.Toggle())
}

func TestPick(t *testing.T) {
	assert.Equal(t, "Halo", LanguageIndonesian.Pick("Halo", "Hello"))
	assert.Equal(t, "Hello", LanguageEnglish.Pick("Halo", "Hello"))
}

func TestContext(t *testing.T) {
	assert.Equal(t, Default(), From(context.Background()))

	p := Preferences{Language: LanguageEnglish, Theme: ThemeDark}
	assert.Equal(t, p, From(With(context.Background(), p)))
}
