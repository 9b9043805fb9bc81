package handler

import (
	"maps"
	"net/http"
	"slices"

	"github.com/go-faster/jx"

	"github.com/udsehati/sehati-web/internal/domain/content"
	"github.com/udsehati/sehati-web/internal/domain/prefs"
)

func sortedKeys(s content.Settings) []string {
	return slices.Sorted(maps.Keys(s))
}

func language(r *http.Request) prefs.Language {
	return prefs.From(r.Context()).Language
}

// Home returns the banners, featured products and settings of the home page.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	home, err := h.content.Home(r.Context(), language(r))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.FieldStart("banners")
			encodeArr(e, home.Banners, h.encodeBanner)
			e.FieldStart("featured")
			h.encodeProducts(e, home.Featured)
			e.FieldStart("settings")
			encodeSettings(e, home.Settings)
		})
	})
}

// Banners returns the active carousel slides.
func (h *Handler) Banners(w http.ResponseWriter, r *http.Request) {
	banners, err := h.content.Banners(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeArr(e, banners, h.encodeBanner)
	})
}

// Settings returns the settings of the visitor's language as an object.
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.content.Settings(r.Context(), language(r))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeSettings(e, settings)
	})
}

// About returns the about page sections, company values and gallery.
func (h *Handler) About(w http.ResponseWriter, r *http.Request) {
	about, err := h.content.About(r.Context(), language(r))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.FieldStart("sections")
			encodeArr(e, about.Sections, encodeAboutSection)
			e.FieldStart("values")
			encodeArr(e, about.Values, encodeCompanyValue)
			e.FieldStart("images")
			encodeArr(e, about.Images, h.encodeAboutImage)
		})
	})
}

// Careers returns the open positions.
func (h *Handler) Careers(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.content.Careers(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeArr(e, jobs, encodeJob)
	})
}

// OnlineShops returns the marketplace directory.
func (h *Handler) OnlineShops(w http.ResponseWriter, r *http.Request) {
	shops, err := h.content.OnlineShops(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeArr(e, shops, encodeOnlineShop)
	})
}

// SocialLinks returns the social media profiles.
func (h *Handler) SocialLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.content.SocialLinks(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeArr(e, links, encodeSocialLink)
	})
}

// ContactInfo returns the contact page details.
func (h *Handler) ContactInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.content.Contact(r.Context(), language(r))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			optStr(e, "address", info.Address)
			optStr(e, "email", info.Email)
			optStr(e, "phone", info.Phone)
			optStr(e, "whatsapp", info.WhatsApp)
			e.FieldStart("social")
			encodeArr(e, info.Social, encodeSocialLink)
		})
	})
}
