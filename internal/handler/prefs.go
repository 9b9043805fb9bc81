package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/jx"

	"github.com/udsehati/sehati-web/internal/domain/prefs"
)

const (
	langCookie  = "sehati_lang"
	themeCookie = "sehati_theme"

	prefsCookieMaxAge = 365 * 24 * time.Hour
)

// resolvePreferences picks the language from ?lang, then the cookie, then
// Accept-Language. The theme comes from its cookie.
func resolvePreferences(r *http.Request) prefs.Preferences {
	p := prefs.Default()

	if l, ok := prefs.ParseLanguage(r.URL.Query().Get("lang")); ok {
		p.Language = l
	} else if c, err := r.Cookie(langCookie); err == nil {
		if l, ok := prefs.ParseLanguage(c.Value); ok {
			p.Language = l
		} else {
			p.Language = prefs.Negotiate(r.Header.Get("Accept-Language"))
		}
	} else {
		p.Language = prefs.Negotiate(r.Header.Get("Accept-Language"))
	}

	if c, err := r.Cookie(themeCookie); err == nil {
		if t, ok := prefs.ParseTheme(c.Value); ok {
			p.Theme = t
		}
	}
	return p
}

// preferences injects the visitor's resolved preferences into the request
// context.
func (h *Handler) preferences(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := resolvePreferences(r)
		w.Header().Add("Vary", "Accept-Language, Cookie")
		w.Header().Set("Content-Language", string(p.Language))
		next.ServeHTTP(w, r.WithContext(prefs.With(r.Context(), p)))
	})
}

// GetPreferences returns the resolved preferences.
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	p := prefs.From(r.Context())
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodePreferences(e, p)
	})
}

// PutPreferences stores language and theme in long-lived cookies. Omitted
// fields keep their current value; "toggle" flips the theme.
func (h *Handler) PutPreferences(w http.ResponseWriter, r *http.Request) {
	p := prefs.From(r.Context())
	valid := true
	err := decodeObject(w, r, func(key, value string) {
		switch key {
		case "language":
			l, ok := prefs.ParseLanguage(value)
			valid = valid && ok
			p.Language = l
		case "theme":
			if value == "toggle" {
				p.Theme = p.Theme.Toggle()
				return
			}
			t, ok := prefs.ParseTheme(value)
			valid = valid && ok
			p.Theme = t
		}
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !valid {
		writeError(w, http.StatusBadRequest, "unsupported language or theme")
		return
	}

	h.setCookie(w, langCookie, string(p.Language))
	h.setCookie(w, themeCookie, string(p.Theme))
	w.Header().Set("Content-Language", string(p.Language))
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodePreferences(e, p)
	})
}

func (h *Handler) setCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(prefsCookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
