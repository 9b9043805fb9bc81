package contact

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/udsehati/sehati-web/internal/domain/prefs"
)

// DefaultWhatsAppNumber is used when the whatsapp_number setting is missing.
const DefaultWhatsAppNumber = "6281234567890"

// ListPageSize is the number of messages per admin listing page.
const ListPageSize = 20

// maxListPage is the largest listing page whose offset fits in an int.
const maxListPage = (math.MaxInt - ListPageSize) / ListPageSize

// WhatsAppNumberSource resolves the WhatsApp number for a language.
type WhatsAppNumberSource interface {
	WhatsAppNumber(ctx context.Context, lang prefs.Language) (string, error)
}

// Receipt is returned for an accepted submission.
type Receipt struct {
	Message Message
	// WhatsAppURL opens a chat with the shop prefilled with the message.
	WhatsAppURL string
}

// MessagePage is one page of the admin message listing.
type MessagePage struct {
	Items []Message
	Total int
	Page  int
}

// Service accepts contact form submissions.
type Service struct {
	repo     Repository
	dedupe   *Deduper
	notifier Notifier
	numbers  WhatsAppNumberSource
	fallback string
	now      func() time.Time
}

// ServiceConfig holds non-dependency configuration for the Service.
type ServiceConfig struct {
	// WhatsAppFallback is used when the number setting is missing.
	WhatsAppFallback string
}

// NewService creates a contact Service.
func NewService(
	cfg ServiceConfig,
	repo Repository,
	dedupe *Deduper,
	notifier Notifier,
	numbers WhatsAppNumberSource,
) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	fallback := cfg.WhatsAppFallback
	if fallback == "" {
		fallback = DefaultWhatsAppNumber
	}
	return &Service{
		repo:     repo,
		dedupe:   dedupe,
		notifier: notifier,
		numbers:  numbers,
		fallback: fallback,
		now:      time.Now,
	}
}

// Submit validates, de-duplicates and stores a submission, then notifies
// the shop. A failed notification is logged and does not fail the
// submission.
func (s *Service) Submit(ctx context.Context, lang prefs.Language, sub Submission) (*Receipt, error) {
	sub = Submission{
		Name:    strings.TrimSpace(sub.Name),
		Email:   strings.TrimSpace(sub.Email),
		Phone:   strings.TrimSpace(sub.Phone),
		Message: strings.TrimSpace(sub.Message),
	}
	if err := validateSubmission(sub); err != nil {
		return nil, err
	}

	fp := sub.Fingerprint()
	var (
		release func(stored bool)
		since   time.Time
	)
	if s.dedupe != nil {
		var err error
		if release, err = s.dedupe.Reserve(ctx, fp); err != nil {
			return nil, err
		}
		since = s.dedupe.Since()
	}

	m := Message{
		ID:          uuid.New().String(),
		Name:        sub.Name,
		Email:       sub.Email,
		Phone:       sub.Phone,
		Message:     sub.Message,
		Fingerprint: fp,
		CreatedAt:   s.now().UTC(),
	}
	err := s.repo.CreateMessage(ctx, &m, since)
	if release != nil {
		release(err == nil || errors.Is(err, ErrDuplicate))
	}
	switch {
	case errors.Is(err, ErrDuplicate):
		return nil, ErrDuplicate
	case err != nil:
		return nil, errors.Wrap(err, "create message")
	}

	lg := zctx.From(ctx)
	if err := s.notifier.NotifyMessage(ctx, m); err != nil {
		lg.Warn("Contact notification failed", zap.String("message_id", m.ID), zap.Error(err))
	}

	number := s.fallback
	if s.numbers != nil {
		n, err := s.numbers.WhatsAppNumber(ctx, lang)
		if err != nil {
			lg.Warn("Resolve WhatsApp number", zap.Error(err))
		} else if n != "" {
			number = n
		}
	}

	return &Receipt{
		Message:     m,
		WhatsAppURL: WhatsAppURL(number, lang, m),
	}, nil
}

// List returns one page of stored messages, newest first.
func (s *Service) List(ctx context.Context, page int) (*MessagePage, error) {
	if page < 0 {
		page = 0
	}
	items, total, err := s.repo.ListMessages(ctx, min(page, maxListPage)*ListPageSize, ListPageSize)
	if err != nil {
		return nil, errors.Wrap(err, "list messages")
	}
	return &MessagePage{Items: items, Total: total, Page: page}, nil
}

// WhatsAppURL builds a wa.me link whose prefilled text introduces the sender
// in lang.
func WhatsAppURL(number string, lang prefs.Language, m Message) string {
	// wa.me only accepts digits in the path.
	number = strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	greeting := lang.Pick("Halo, saya", "Hello, I'm")
	text := fmt.Sprintf("%s %s (%s, %s). %s", greeting, m.Name, m.Email, m.Phone, m.Message)
	return "https://wa.me/" + number + "?text=" + encodeURIComponent(text)
}

// uriComponentUnescapes restores the marks that URI components leave bare
// but url.QueryEscape escapes.
var uriComponentUnescapes = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeURIComponent escapes s as a URI component: spaces become %20 and
// only letters, digits and -_.!~*'() stay unescaped.
func encodeURIComponent(s string) string {
	return uriComponentUnescapes.Replace(url.QueryEscape(s))
}
