package contact

import (
	"context"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
)

// DedupeConfig sizes the duplicate pre-filter.
type DedupeConfig struct {
	// Capacity is the expected number of fingerprints held by the filter.
	Capacity uint
	// FalsePositiveRate is the target false positive rate at Capacity.
	FalsePositiveRate float64
	// Window is how long a submission blocks an identical one.
	Window time.Duration
}

func (c DedupeConfig) withDefaults() DedupeConfig {
	if c.Capacity == 0 {
		c.Capacity = 100_000
	}
	if c.FalsePositiveRate <= 0 || c.FalsePositiveRate >= 1 {
		c.FalsePositiveRate = 0.001
	}
	if c.Window <= 0 {
		c.Window = 24 * time.Hour
	}
	return c
}

// Deduper detects repeated submissions. The bloom filter holds every
// fingerprint seen since warm-up; a negative answer is final, a positive one
// is confirmed against the repository. Fingerprints of submissions still
// being stored are held in pending so identical concurrent submissions are
// rejected.
type Deduper struct {
	repo   Repository
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	filter  *bloom.BloomFilter
	pending map[string]struct{}
}

// NewDeduper creates a Deduper backed by repo.
func NewDeduper(repo Repository, cfg DedupeConfig) *Deduper {
	cfg = cfg.withDefaults()
	return &Deduper{
		repo:   repo,
		window: cfg.Window,
		now:    time.Now,
		filter:  bloom.NewWithEstimates(cfg.Capacity, cfg.FalsePositiveRate),
		pending: make(map[string]struct{}),
	}
}

// Since returns the start of the duplicate window.
func (d *Deduper) Since() time.Time {
	return d.now().Add(-d.window)
}

// Warm loads the fingerprints stored within the window into the filter. It
// must run before the first Seen call after a restart.
func (d *Deduper) Warm(ctx context.Context) (int, error) {
	fps, err := d.repo.RecentFingerprints(ctx, d.Since())
	if err != nil {
		return 0, errors.Wrap(err, "recent fingerprints")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, fp := range fps {
		d.filter.AddString(fp)
	}
	return len(fps), nil
}

// Seen reports whether fingerprint was stored within the window.
func (d *Deduper) Seen(ctx context.Context, fingerprint string) (bool, error) {
	d.mu.Lock()
	maybe := d.filter.TestString(fingerprint)
	d.mu.Unlock()
	if !maybe {
		return false, nil
	}
	exists, err := d.repo.FingerprintExists(ctx, fingerprint, d.Since())
	if err != nil {
		return false, errors.Wrap(err, "fingerprint exists")
	}
	return exists, nil
}


// Reserve claims fingerprint for one submission. It returns ErrDuplicate when
// the fingerprint was stored within the window or another submission holds
// it. The caller must call release once the store attempt is over, with
// stored set when the fingerprint is now in the repository.
func (d *Deduper) Reserve(ctx context.Context, fingerprint string) (release func(stored bool), err error) {
	d.mu.Lock()
	if _, busy := d.pending[fingerprint]; busy {
		d.mu.Unlock()
		return nil, ErrDuplicate
	}
	d.pending[fingerprint] = struct{}{}
	d.mu.Unlock()

	release = func(stored bool) {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.pending, fingerprint)
		if stored {
			d.filter.AddString(fingerprint)
		}
	}

	seen, err := d.Seen(ctx, fingerprint)
	if err != nil {
		release(false)
		return nil, err
	}
	if seen {
		release(false)
		return nil, ErrDuplicate
	}
	return release, nil
}
