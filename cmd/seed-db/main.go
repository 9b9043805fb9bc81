// Command seed-db applies the schema and upserts a content fixture.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/udsehati/sehati-web/internal/seed"
	"github.com/udsehati/sehati-web/internal/storage/postgres"
)

func main() {
	var (
		databaseURL string
		fixtureFile string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&fixtureFile, "fixture", "db/seed/catalog.json", "path to a JSON or gzipped JSON fixture")
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

	if err := run(ctx, lg, databaseURL, fixtureFile); err != nil {
		lg.Fatal("Seed failed", zap.Error(err))
	}
	lg.Info("Seed completed")
}

func run(ctx context.Context, lg *zap.Logger, databaseURL, fixtureFile string) error {
	lg.Info("Reading fixture", zap.String("path", fixtureFile))
	f, err := seed.Open(fixtureFile)
	if err != nil {
		return errors.Wrap(err, "read fixture")
	}

	lg.Info("Connecting to database")
	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	lg.Info("Running migrations")
	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := postgres.NewSeeder(pool).Seed(ctx, f); err != nil {
		return errors.Wrap(err, "seed")
	}
	lg.Info("Fixture upserted",
		zap.Int("categories", len(f.Categories)),
		zap.Int("products", len(f.Products)),
		zap.Int("banners", len(f.Banners)),
		zap.Int("settings", len(f.Settings)),
		zap.Int("jobs", len(f.Jobs)),
	)
	return nil
}
