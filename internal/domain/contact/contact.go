// Package contact handles contact form submissions.
package contact

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

var (
	// ErrDuplicate is returned when the same message was already submitted
	// within the de-duplication window.
	ErrDuplicate = errors.New("duplicate contact message")
)

// Message is a stored contact form submission.
type Message struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	Message     string
	Fingerprint string
	CreatedAt   time.Time
}

// Submission is the contact form input.
type Submission struct {
	Name    string `validate:"required,max=120"`
	Email   string `validate:"required,email,max=254"`
	Phone   string `validate:"required,max=32"`
	Message string `validate:"required,max=4000"`
}

// Fingerprint identifies a submission's content independent of letter case
// and surrounding whitespace.
func (s Submission) Fingerprint() string {
	h := sha256.New()
	for _, part := range []string{s.Name, s.Email, s.Message} {
		h.Write([]byte(strings.ToLower(strings.TrimSpace(part))))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Repository persists contact messages.
type Repository interface {
	// CreateMessage stores m unless a message with the same fingerprint was
	// stored at or after dedupeSince, in which case it returns ErrDuplicate.
	// A zero dedupeSince stores m unconditionally.
	CreateMessage(ctx context.Context, m *Message, dedupeSince time.Time) error
	// FingerprintExists reports whether a message with fingerprint was stored
	// at or after since.
	FingerprintExists(ctx context.Context, fingerprint string, since time.Time) (bool, error)
	// RecentFingerprints returns the fingerprints stored at or after since.
	RecentFingerprints(ctx context.Context, since time.Time) ([]string, error)
	// ListMessages returns messages newest first within [offset, offset+limit)
	// and the total number of messages.
	ListMessages(ctx context.Context, offset, limit int) ([]Message, int, error)
}

// Notifier is told about every stored message.
type Notifier interface {
	NotifyMessage(ctx context.Context, m Message) error
}

// NopNotifier discards notifications.
type NopNotifier struct{}

// NotifyMessage implements Notifier.
func (NopNotifier) NotifyMessage(context.Context, Message) error { return nil }
