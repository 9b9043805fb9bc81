// Package handler serves the site's JSON API.
package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/udsehati/sehati-web/internal/domain/auth"
	"github.com/udsehati/sehati-web/internal/domain/catalog"
	"github.com/udsehati/sehati-web/internal/domain/contact"
	"github.com/udsehati/sehati-web/internal/domain/content"
	"github.com/udsehati/sehati-web/pkg/httpmiddleware"
)

// HandlerConfig holds non-dependency configuration for the Handler.
type HandlerConfig struct {
	// ImageBaseURL is prepended to relative image paths in responses.
	// When empty, image paths are returned as stored.
	ImageBaseURL string
	// WriteLimit guards the contact form and admin login. Nil disables it.
	WriteLimit httpmiddleware.Middleware
	// SecureCookies marks preference cookies Secure.
	SecureCookies bool
}

// Handler serves the catalog, content, contact, preference and admin
// endpoints.
type Handler struct {
	catalog  *catalog.Engine
	content  *content.Service
	contact  *contact.Service
	admin    *auth.Authenticator
	cfg      HandlerConfig
	imageURL func(string) string
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	cfg HandlerConfig,
	engine *catalog.Engine,
	contentService *content.Service,
	contactService *contact.Service,
	admin *auth.Authenticator,
) *Handler {
	return &Handler{
		catalog:  engine,
		content:  contentService,
		contact:  contactService,
		admin:    admin,
		cfg:      cfg,
		imageURL: imageResolver(cfg.ImageBaseURL),
	}
}

// Register mounts the API routes on r. Routes are registered with their full
// path so r can resolve patterns for logging and metrics.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.preferences)

		r.Get("/api/products", h.ListProducts)
		r.Get("/api/products/featured", h.FeaturedProducts)
		r.Get("/api/products/{id}", h.GetProduct)
		r.Get("/api/categories", h.ListCategories)

		r.Get("/api/home", h.Home)
		r.Get("/api/banners", h.Banners)
		r.Get("/api/settings", h.Settings)
		r.Get("/api/about", h.About)
		r.Get("/api/careers", h.Careers)
		r.Get("/api/online-shops", h.OnlineShops)
		r.Get("/api/social-links", h.SocialLinks)
		r.Get("/api/contact", h.ContactInfo)

		r.Get("/api/preferences", h.GetPreferences)
		r.Put("/api/preferences", h.PutPreferences)

		r.Group(func(r chi.Router) {
			if h.cfg.WriteLimit != nil {
				r.Use(h.cfg.WriteLimit)
			}
			r.Post("/api/contact", h.SubmitContact)
			r.Post("/api/admin/login", h.AdminLogin)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.requireAdmin)
			r.Get("/api/admin/messages", h.AdminMessages)
		})
	})
}

// imageResolver returns a function that prefixes relative image paths with
// base. Absolute URLs and empty paths are returned unchanged.
func imageResolver(base string) func(string) string {
	base = strings.TrimRight(base, "/")
	return func(path string) string {
		if base == "" || path == "" || isAbsoluteURL(path) {
			return path
		}
		return base + "/" + strings.TrimLeft(path, "/")
	}
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "//") ||
		strings.HasPrefix(s, "data:")
}

// notFound and methodNotAllowed answer in the API error format.
func notFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// NewRouter returns a chi router with the API registered and JSON 404/405
// responses.
func (h *Handler) NewRouter() *chi.Mux {
	r := chi.NewRouter()
	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)
	h.Register(r)
	return r
}
