// Command export-messages writes stored contact messages as gzipped NDJSON.
package main

import (
	"bufio"
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	pgzip "github.com/klauspost/pgzip"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/udsehati/sehati-web/internal/domain/contact"
	"github.com/udsehati/sehati-web/internal/notify"
	"github.com/udsehati/sehati-web/internal/storage/postgres"
)

// messageSource streams messages oldest first.
type messageSource interface {
	EachMessage(ctx context.Context, since time.Time, fn func(contact.Message) error) error
}

func main() {
	var (
		databaseURL string
		outPath     string
		since       time.Duration
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&outPath, "out", "messages.ndjson.gz", `output file, "-" for stdout`)
	flag.DurationVar(&since, "since", 30*24*time.Hour, "export messages received within this duration")
	flag.Parse()

	lg, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = lg.Sync() }()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		lg.Fatal("Database URL is required: set --database-url or DATABASE_URL")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, lg, databaseURL, outPath, time.Now().Add(-since)); err != nil {
		lg.Fatal("Export failed", zap.Error(err))
	}
}

func run(ctx context.Context, lg *zap.Logger, databaseURL, outPath string, since time.Time) error {
	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	n, err := exportFile(ctx, postgres.NewContactRepository(pool), outPath, since)
	if err != nil {
		return err
	}
	lg.Info("Export completed",
		zap.Int("messages", n),
		zap.String("out", outPath),
		zap.Time("since", since),
	)
	return nil
}

// exportFile exports into the file at path, or to stdout when path is "-".
func exportFile(ctx context.Context, src messageSource, path string, since time.Time) (int, error) {
	if path == "-" {
		return export(ctx, src, os.Stdout, since)
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, errors.Wrap(err, "create output")
	}
	return exportAndClose(ctx, src, f, since)
}

// exportAndClose exports into wc and closes it. A close failure is returned
// when the export itself succeeded.
func exportAndClose(ctx context.Context, src messageSource, wc io.WriteCloser, since time.Time) (n int, rerr error) {
	defer func() {
		if err := wc.Close(); err != nil && rerr == nil {
			rerr = errors.Wrap(err, "close output")
		}
	}()
	return export(ctx, src, wc, since)
}

// export streams messages stored at or after since to w as gzipped NDJSON,
// one object per line. Reading and compression run concurrently.
func export(ctx context.Context, src messageSource, w io.Writer, since time.Time) (int, error) {
	messages := make(chan contact.Message, 256)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(messages)
		return src.EachMessage(ctx, since, func(m contact.Message) error {
			select {
			case messages <- m:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	})

	var count int
	g.Go(func() error {
		gz := pgzip.NewWriter(w)
		bw := bufio.NewWriter(gz)
		e := jx.GetEncoder()
		defer jx.PutEncoder(e)

		for m := range messages {
			e.Reset()
			notify.EncodeMessage(e, m)
			e.Raw([]byte{'\n'})
			if _, err := bw.Write(e.Bytes()); err != nil {
				return errors.Wrap(err, "write message")
			}
			count++
		}
		if err := bw.Flush(); err != nil {
			return errors.Wrap(err, "flush")
		}
		return errors.Wrap(gz.Close(), "close gzip")
	})

	if err := g.Wait(); err != nil {
		return 0, errors.Wrap(err, "export messages")
	}
	return count, nil
}
