package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/udsehati/sehati-web/internal/domain/auth"
	"github.com/udsehati/sehati-web/internal/domain/catalog"
	"github.com/udsehati/sehati-web/internal/domain/contact"
)

// writeJSON writes status and the object produced by enc.
func writeJSON(w http.ResponseWriter, status int, enc func(e *jx.Encoder)) {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	enc(e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			encodeErrorFields(e, status, msg)
		})
	})
}

func encodeErrorFields(e *jx.Encoder, status int, msg string) {
	e.FieldStart("code")
	e.Int(status)
	e.FieldStart("message")
	e.Str(msg)
}

// fail maps a domain error to its HTTP response. Errors without a mapping
// are logged and answered with 500.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *contact.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				encodeErrorFields(e, http.StatusUnprocessableEntity, "invalid contact submission")
				e.FieldStart("fields")
				e.Arr(func(e *jx.Encoder) {
					for _, f := range verr.Fields {
						e.Obj(func(e *jx.Encoder) {
							e.FieldStart("field")
							e.Str(f.Field)
							e.FieldStart("rule")
							e.Str(f.Rule)
						})
					}
				})
			})
		})
	case errors.Is(err, catalog.ErrInvalidPage):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, catalog.ErrUnavailable):
		zctx.From(r.Context()).Warn("Catalog unavailable", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				encodeErrorFields(e, http.StatusServiceUnavailable, catalog.ErrUnavailable.Error())
				e.FieldStart("retryable")
				e.Bool(true)
			})
		})
	case errors.Is(err, contact.ErrDuplicate):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
		writeError(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
	case errors.Is(err, auth.ErrDisabled):
		writeError(w, http.StatusNotFound, "not found")
	default:
		zctx.From(r.Context()).Error("Request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
