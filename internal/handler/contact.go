package handler

import (
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/udsehati/sehati-web/internal/domain/contact"
)

// maxBodyBytes bounds request bodies of the write endpoints.
const maxBodyBytes = 64 << 10

// decodeObject reads a JSON object of string fields from the request body
// and calls set for each. Other value types are rejected.
func decodeObject(w http.ResponseWriter, r *http.Request, set func(key, value string)) error {
	d := jx.Decode(http.MaxBytesReader(w, r.Body, maxBodyBytes), 512)
	return d.Obj(func(d *jx.Decoder, key string) error {
		if d.Next() != jx.String {
			return errors.Errorf("field %q must be a string", key)
		}
		v, err := d.Str()
		if err != nil {
			return err
		}
		set(key, v)
		return nil
	})
}

// SubmitContact stores a contact form submission and returns the WhatsApp
// link that continues the conversation.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var sub contact.Submission
	err := decodeObject(w, r, func(key, value string) {
		switch key {
		case "name":
			sub.Name = value
		case "email":
			sub.Email = value
		case "phone":
			sub.Phone = value
		case "message":
			sub.Message = value
		}
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	receipt, err := h.contact.Submit(r.Context(), language(r), sub)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.FieldStart("message")
			encodeMessage(e, receipt.Message)
			e.FieldStart("whatsappUrl")
			e.Str(receipt.WhatsAppURL)
		})
	})
}

// AdminMessages lists stored contact messages, newest first.
func (h *Handler) AdminMessages(w http.ResponseWriter, r *http.Request) {
	page := 0
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "page must be a non-negative integer")
			return
		}
		page = n
	}
	res, err := h.contact.List(r.Context(), page)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.FieldStart("items")
			encodeArr(e, res.Items, encodeMessage)
			e.FieldStart("total")
			e.Int(res.Total)
			e.FieldStart("page")
			e.Int(res.Page)
			e.FieldStart("pageSize")
			e.Int(contact.ListPageSize)
			e.FieldStart("totalPages")
			e.Int((res.Total + contact.ListPageSize - 1) / contact.ListPageSize)
		})
	})
}
