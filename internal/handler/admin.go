package handler

import (
	"net/http"
	"strings"

	"github.com/go-faster/jx"

	"github.com/udsehati/sehati-web/internal/domain/auth"
)

// AdminLogin exchanges the admin password for a bearer token.
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	if !h.admin.Enabled() {
		fail(w, r, auth.ErrDisabled)
		return
	}
	var password string
	err := decodeObject(w, r, func(key, value string) {
		if key == "password" {
			password = value
		}
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.admin.Login(r.Context(), password)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.FieldStart("token")
			e.Str(token.Value)
			e.FieldStart("expiresAt")
			encodeTime(e, token.ExpiresAt)
		})
	})
}

// requireAdmin rejects requests without a valid admin bearer token.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.admin.Enabled() {
			fail(w, r, auth.ErrDisabled)
			return
		}
		token, ok := bearerToken(r)
		if !ok {
			fail(w, r, auth.ErrInvalidCredentials)
			return
		}
		if _, err := h.admin.Verify(r.Context(), token); err != nil {
			fail(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	const prefix = "bearer "
	v := r.Header.Get("Authorization")
	if len(v) <= len(prefix) || !strings.EqualFold(v[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(v[len(prefix):]), true
}
