package handler

import (
	"time"

	"github.com/go-faster/jx"

	"github.com/udsehati/sehati-web/internal/domain/catalog"
	"github.com/udsehati/sehati-web/internal/domain/contact"
	"github.com/udsehati/sehati-web/internal/domain/content"
	"github.com/udsehati/sehati-web/internal/domain/prefs"
)

func encodeTime(e *jx.Encoder, t time.Time) {
	e.Str(t.UTC().Format(time.RFC3339))
}

// optStr writes key only when v is set.
func optStr(e *jx.Encoder, key, v string) {
	if v == "" {
		return
	}
	e.FieldStart(key)
	e.Str(v)
}

func encodeArr[T any](e *jx.Encoder, items []T, enc func(*jx.Encoder, T)) {
	e.Arr(func(e *jx.Encoder) {
		for _, item := range items {
			enc(e, item)
		}
	})
}

func encodeCategory(e *jx.Encoder, c catalog.Category) {
	e.Obj(func(e *jx.Encoder) {
		e.FieldStart("id")
		e.Str(c.ID)
		e.FieldStart("name")
		e.Str(c.Name)
		e.FieldStart("slug")
		e.Str(c.Slug)
	})
}

func (h *Handler) encodeProduct(e *jx.Encoder, p catalog.Product) {
	e.Obj(func(e *jx.Encoder) {
		e.FieldStart("id")
		e.Str(p.ID)
		e.FieldStart("name")
		e.Str(p.Name)
		optStr(e, "description", p.Description)
		// Products without a price are sold on request.
		e.FieldStart("price")
		if p.Price.Valid {
			e.RawStr(p.Price.Decimal.String())
		} else {
			e.Null()
		}
		optStr(e, "categoryId", p.CategoryID)
		if p.Category != nil {
			e.FieldStart("category")
			encodeCategory(e, *p.Category)
		}
		optStr(e, "imageUrl", h.imageURL(p.ImageURL))
		optStr(e, "whatsappLink", p.WhatsAppLink)
		e.FieldStart("createdAt")
		encodeTime(e, p.CreatedAt)
	})
}

func (h *Handler) encodeProducts(e *jx.Encoder, items []catalog.Product) {
	encodeArr(e, items, h.encodeProduct)
}

func (h *Handler) encodePage(e *jx.Encoder, p catalog.Page) {
	e.Obj(func(e *jx.Encoder) {
		e.FieldStart("items")
		h.encodeProducts(e, p.Items)
		e.FieldStart("total")
		e.Int(p.Total)
		e.FieldStart("page")
		e.Int(p.Page)
		e.FieldStart("pageSize")
		e.Int(p.PageSize)
		e.FieldStart("totalPages")
		e.Int(p.TotalPages())
		e.FieldStart("hasPrevious")
		e.Bool(p.HasPrevious())
		e.FieldStart("hasNext")
		e.Bool(p.HasNext())
	})
}

func (h *Handler) encodeBanner(e *jx.Encoder, b content.Banner) {
	e.Obj(func(e *jx.Encoder) {
		e.FieldStart("id")
		e.Str(b.ID)
		e.FieldStart("title")
		e.Str(b.Title)
		optStr(e, "subtitle", b.Subtitle)
		e.FieldStart("imageUrl")
		e.Str(h.imageURL(b.ImageURL))
	})
}

func encodeSettings(e *jx.Encoder, s content.Settings) {
	e.Obj(func(e *jx.Encoder) {
		for _, key := range sortedKeys(s) {
			e.FieldStart(key)
			e.Str(s[key])
		}
	})
}

func encodeAboutSection(e *jx.Encoder, s content.AboutSection) {
	e.Obj(func(e *jx.Encoder) {
		e.FieldStart("section")
		e.Str(s.Section)
		e.FieldStart("content")
		e.Str(s.Content)
	})
}

func encodeCompanyValue(e *jx.Encoder, v content.CompanyValue) {
	e.Obj(func(e *jx.Encoder) {
		e.FieldStart("id")
		e.Str(v.ID)
		e.FieldStart("title")
		e.Str(v.Title)
		e.FieldStart("description")
		e.Str(v.Description)
		optStr(e, "icon", v.Icon)
	})
}

func (h *Handler) encodeAboutImage(e *jx.Encoder, i content.AboutImage) {
	e.Obj(func(e *jx.Encoder) {
		e.FieldStart("id")
		e.Str(i.ID)
		e.FieldStart("imageUrl")
		e.Str(h.imageURL(i.ImageURL))
		optStr(e, "altText", i.AltText)
		optStr(e, "caption", i.Caption)
		optStr(e, "section", i.Section)
	})
}

func encodeJob(e *jx.Encoder, j content.Job) {
	e.Obj(func(e *jx.Encoder) {
		e.FieldStart("id")
		e.Str(j.ID)
		e.FieldStart("title")
		e.Str(j.Title)
		e.FieldStart("description")
		e.Str(j.Description)
		optStr(e, "location", j.Location)
		optStr(e, "applyLink", j.ApplyLink)
		e.FieldStart("createdAt")
		encodeTime(e, j.CreatedAt)
	})
}

func encodeSocialLink(e *jx.Encoder, l content.SocialLink) {
	e.Obj(func(e *jx.Encoder) {
		e.FieldStart("platform")
		e.Str(l.Platform)
		e.FieldStart("url")
		e.Str(l.URL)
		optStr(e, "icon", l.Icon)
	})
}

func encodeOnlineShop(e *jx.Encoder, s content.OnlineShop) {
	e.Obj(func(e *jx.Encoder) {
		e.FieldStart("id")
		e.Str(s.ID)
		e.FieldStart("name")
		e.Str(s.Name)
		e.FieldStart("url")
		e.Str(s.URL)
		optStr(e, "icon", s.Icon)
	})
}

func encodeMessage(e *jx.Encoder, m contact.Message) {
	e.Obj(func(e *jx.Encoder) {
		e.FieldStart("id")
		e.Str(m.ID)
		e.FieldStart("name")
		e.Str(m.Name)
		e.FieldStart("email")
		e.Str(m.Email)
		e.FieldStart("phone")
		e.Str(m.Phone)
		e.FieldStart("message")
		e.Str(m.Message)
		e.FieldStart("createdAt")
		encodeTime(e, m.CreatedAt)
	})
}

func encodePreferences(e *jx.Encoder, p prefs.Preferences) {
	e.Obj(func(e *jx.Encoder) {
		e.FieldStart("language")
		e.Str(string(p.Language))
		e.FieldStart("theme")
		e.Str(string(p.Theme))
	})
}
