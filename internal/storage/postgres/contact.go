package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udsehati/sehati-web/internal/domain/contact"
)

const (
	// lockFingerprintSQL serialises inserts of one fingerprint across
	// instances until the transaction ends.
	lockFingerprintSQL = `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`

	insertMessageSQL = `INSERT INTO contact_messages (id, name, email, phone, message, fingerprint, created_at)
		SELECT $1::text, $2::text, $3::text, $4::text, $5::text, $6::text, $7::timestamptz
		WHERE $8::timestamptz IS NULL OR NOT EXISTS (
			SELECT 1 FROM contact_messages WHERE fingerprint = $6::text AND created_at >= $8::timestamptz)`

	fingerprintExistsSQL = `SELECT EXISTS (
		SELECT 1 FROM contact_messages WHERE fingerprint = $1 AND created_at >= $2)`

	recentFingerprintsSQL = `SELECT DISTINCT fingerprint FROM contact_messages WHERE created_at >= $1`

	countMessagesSQL = `SELECT count(*) FROM contact_messages`

	listMessagesSQL = `SELECT id, name, email, phone, message, fingerprint, created_at
		FROM contact_messages ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`

	messagesSinceSQL = `SELECT id, name, email, phone, message, fingerprint, created_at
		FROM contact_messages WHERE created_at >= $1 ORDER BY created_at, id`
)

var _ contact.Repository = (*ContactRepository)(nil)

// ContactRepository implements contact.Repository backed by PostgreSQL.
type ContactRepository struct {
	pool *pgxpool.Pool
}

// NewContactRepository returns a ContactRepository that uses the given pool.
func NewContactRepository(pool *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

// CreateMessage inserts m unless a message with the same fingerprint was
// stored at or after dedupeSince. The check and the insert run under a
// transaction-scoped advisory lock on the fingerprint.
func (r *ContactRepository) CreateMessage(ctx context.Context, m *contact.Message, dedupeSince time.Time) error {
	var since *time.Time
	if !dedupeSince.IsZero() {
		since = &dedupeSince
	}
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, lockFingerprintSQL, m.Fingerprint); err != nil {
			return fmt.Errorf("locking fingerprint: %w", err)
		}
		tag, err := tx.Exec(ctx, insertMessageSQL,
			m.ID, m.Name, m.Email, m.Phone, m.Message, m.Fingerprint, m.CreatedAt, since)
		if err != nil {
			return fmt.Errorf("inserting message %s: %w", m.ID, err)
		}
		if tag.RowsAffected() == 0 {
			return contact.ErrDuplicate
		}
		return nil
	})
	return err
}

// FingerprintExists reports whether fingerprint was stored at or after since.
func (r *ContactRepository) FingerprintExists(ctx context.Context, fingerprint string, since time.Time) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, fingerprintExistsSQL, fingerprint, since).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking fingerprint: %w", err)
	}
	return exists, nil
}

// RecentFingerprints returns the distinct fingerprints stored at or after since.
func (r *ContactRepository) RecentFingerprints(ctx context.Context, since time.Time) ([]string, error) {
	rows, err := r.pool.Query(ctx, recentFingerprintsSQL, since)
	if err != nil {
		return nil, fmt.Errorf("listing fingerprints: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// ListMessages returns one page of messages, newest first, and the total.
func (r *ContactRepository) ListMessages(ctx context.Context, offset, limit int) ([]contact.Message, int, error) {
	var (
		total int
		items []contact.Message
	)
	batch := &pgx.Batch{}
	batch.Queue(countMessagesSQL).QueryRow(func(row pgx.Row) error {
		return row.Scan(&total)
	})
	batch.Queue(listMessagesSQL, limit, offset).Query(func(rows pgx.Rows) error {
		var err error
		items, err = pgx.CollectRows(rows, scanMessage)
		return err
	})
	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return nil, 0, fmt.Errorf("listing messages: %w", err)
	}
	return items, total, nil
}

// EachMessage calls fn for every message stored at or after since, oldest
// first, stopping at the first error.
func (r *ContactRepository) EachMessage(ctx context.Context, since time.Time, fn func(contact.Message) error) error {
	rows, err := r.pool.Query(ctx, messagesSinceSQL, since)
	if err != nil {
		return fmt.Errorf("querying messages: %w", err)
	}
	var m contact.Message
	_, err = pgx.ForEachRow(rows, []any{&m.ID, &m.Name, &m.Email, &m.Phone, &m.Message, &m.Fingerprint, &m.CreatedAt},
		func() error { return fn(m) })
	if err != nil {
		return fmt.Errorf("streaming messages: %w", err)
	}
	return nil
}

func scanMessage(row pgx.CollectableRow) (contact.Message, error) {
	var m contact.Message
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Message, &m.Fingerprint, &m.CreatedAt)
	return m, err
}
