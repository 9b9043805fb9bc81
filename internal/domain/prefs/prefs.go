// Package prefs models the visitor's language and theme preferences.
package prefs

import (
	"context"

	"golang.org/x/text/language"
)

// Language is a site language code.
type Language string

const (
	LanguageIndonesian Language = "id"
	LanguageEnglish    Language = "en"

	// DefaultLanguage is used when nothing else is known about the visitor.
	DefaultLanguage = LanguageIndonesian
)

// ParseLanguage returns the Language for code, or false for unsupported codes.
func ParseLanguage(code string) (Language, bool) {
	switch Language(code) {
	case LanguageIndonesian, LanguageEnglish:
		return Language(code), true
	default:
		return "", false
	}
}

// Pick returns id when l is Indonesian and en otherwise.
func (l Language) Pick(id, en string) string {
	if l == LanguageEnglish {
		return en
	}
	return id
}

// Theme is the colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"

	DefaultTheme = ThemeLight
)

// ParseTheme returns the Theme for s, or false for unknown values.
func ParseTheme(s string) (Theme, bool) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), true
	default:
		return "", false
	}
}

// Toggle switches between light and dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Preferences is the resolved preference set for a visitor.
type Preferences struct {
	Language Language
	Theme    Theme
}

// Default returns the preferences of a first-time visitor.
func Default() Preferences {
	return Preferences{Language: DefaultLanguage, Theme: DefaultTheme}
}

var (
	supported = []language.Tag{language.Indonesian, language.English}
	matcher   = language.NewMatcher(supported)
)

// Negotiate picks the best site language for an Accept-Language header
// value. Unparseable or empty headers select DefaultLanguage.
func Negotiate(acceptLanguage string) Language {
	if acceptLanguage == "" {
		return DefaultLanguage
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultLanguage
	}
	if supported[idx] == language.English {
		return LanguageEnglish
	}
	return LanguageIndonesian
}

type ctxKey struct{}

// With stores p in ctx.
func With(ctx context.Context, p Preferences) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// From returns the preferences stored in ctx, or Default.
func From(ctx context.Context) Preferences {
	if p, ok := ctx.Value(ctxKey{}).(Preferences); ok {
		return p
	}
	return Default()
}
