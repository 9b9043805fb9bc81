// Package app wires the site's dependencies and runs the HTTP server.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/udsehati/sehati-web/internal/domain/auth"
	"github.com/udsehati/sehati-web/internal/domain/catalog"
	"github.com/udsehati/sehati-web/internal/domain/contact"
	"github.com/udsehati/sehati-web/internal/domain/content"
	"github.com/udsehati/sehati-web/internal/handler"
	"github.com/udsehati/sehati-web/internal/notify"
	"github.com/udsehati/sehati-web/internal/seed"
	"github.com/udsehati/sehati-web/internal/storage/memory"
	"github.com/udsehati/sehati-web/internal/storage/postgres"
	"github.com/udsehati/sehati-web/pkg/health"
	"github.com/udsehati/sehati-web/pkg/httpmiddleware"
)

// stores groups the backend implementations selected by the storage driver.
type stores struct {
	catalog catalog.Store
	content content.Repository
	contact contact.Repository
	close   func()
}

// openStores connects the configured backend and registers its readiness
// check.
func openStores(ctx context.Context, lg *zap.Logger, cfg *Config, hs *health.Health) (*stores, error) {
	if cfg.Storage.Driver == DriverMemory {
		store := memory.New()
		if cfg.Storage.SeedFile != "" {
			f, err := seed.Open(cfg.Storage.SeedFile)
			if err != nil {
				return nil, errors.Wrap(err, "open seed file")
			}
			if err := store.Seed(ctx, f); err != nil {
				return nil, errors.Wrap(err, "seed memory store")
			}
			lg.Info("Memory store seeded",
				zap.String("file", cfg.Storage.SeedFile),
				zap.Int("products", len(f.Products)),
			)
		}
		return &stores{catalog: store, content: store, contact: store, close: func() {}}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "create db pool")
	}
	if err := postgres.RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "run migrations")
	}
	hs.AddReadinessCheck("postgres", 5*time.Second, health.PingCheck(pool))
	return &stores{
		catalog: postgres.NewCatalogStore(pool),
		content: postgres.NewContentRepository(pool),
		contact: postgres.NewContactRepository(pool),
		close:   pool.Close,
	}, nil
}

// openNotifier dials RabbitMQ when configured.
func openNotifier(cfg AMQPConfig) (contact.Notifier, func(), error) {
	if cfg.URL == "" {
		return contact.NopNotifier{}, func() {}, nil
	}
	p, err := notify.Dial(notify.Config{
		URL:        cfg.URL,
		Exchange:   cfg.Exchange,
		RoutingKey: cfg.RoutingKey,
	})
	if err != nil {
		return nil, nil, err
	}
	return p, func() { _ = p.Close() }, nil
}

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("storage", cfg.Storage.Driver),
	)

	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))

	st, err := openStores(ctx, lg, cfg, healthSvc)
	if err != nil {
		return err
	}
	defer st.close()

	notifier, closeNotifier, err := openNotifier(cfg.AMQP)
	if err != nil {
		return errors.Wrap(err, "connect amqp")
	}
	defer closeNotifier()

	// Domain services.
	engine, err := catalog.NewEngine(st.catalog,
		catalog.WithTracerProvider(m.TracerProvider()),
		catalog.WithMeterProvider(m.MeterProvider()),
	)
	if err != nil {
		return errors.Wrap(err, "create catalog engine")
	}
	contentService := content.NewService(st.content, engine, cfg.Catalog.FeaturedLimit)

	deduper := contact.NewDeduper(st.contact, contact.DedupeConfig{
		Capacity:          cfg.Contact.DedupeCapacity,
		FalsePositiveRate: cfg.Contact.DedupeFPR,
		Window:            cfg.Contact.DedupeWindow,
	})
	warmed, err := deduper.Warm(ctx)
	if err != nil {
		return errors.Wrap(err, "warm duplicate filter")
	}
	lg.Info("Duplicate filter warmed", zap.Int("fingerprints", warmed))

	contactService := contact.NewService(
		contact.ServiceConfig{WhatsAppFallback: cfg.Contact.WhatsAppFallback},
		st.contact,
		deduper,
		notifier,
		contentService,
	)

	admin, err := auth.NewAuthenticator(auth.Config{
		PasswordHash: cfg.Admin.PasswordHash,
		Secret:       []byte(cfg.Admin.JWTSecret),
		TokenTTL:     cfg.Admin.TokenTTL,
	})
	if err != nil {
		return errors.Wrap(err, "create authenticator")
	}
	if !admin.Enabled() {
		lg.Info("Admin login disabled")
	}

	// HTTP handlers.
	h := handler.NewHandler(
		handler.HandlerConfig{
			ImageBaseURL:  cfg.ImageBaseURL,
			SecureCookies: cfg.SecureCookies,
			WriteLimit: httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
		},
		engine,
		contentService,
		contactService,
		admin,
	)

	router := h.NewRouter()
	router.Get("/livez", healthSvc.LiveEndpoint)
	router.Get("/readyz", healthSvc.ReadyEndpoint)

	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler:           newServerHandler(ctx, router, m, cfg.CORS),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}

// newServerHandler wraps the router with the shared middleware chain.
func newServerHandler(ctx context.Context, router *chi.Mux, m httpmiddleware.TelemetryProvider, cors CORSConfig) http.Handler {
	routeFinder := httpmiddleware.MakeRouteFinder(router)
	return httpmiddleware.Wrap(router,
		httpmiddleware.Recovery(),
		httpmiddleware.CORS(httpmiddleware.CORSConfig{
			AllowOrigins:     cors.Origins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowHeaders:     []string{"Content-Type", "Authorization", "Accept-Language"},
			AllowCredentials: cors.AllowCredentials,
			MaxAge:           86400,
		}),
		httpmiddleware.RequestID(),
		httpmiddleware.InjectLogger(zctx.From(ctx)),
		httpmiddleware.Instrument("sehati-api", routeFinder, m),
		httpmiddleware.LogRequests(routeFinder),
		httpmiddleware.Labeler(routeFinder),
	)
}
