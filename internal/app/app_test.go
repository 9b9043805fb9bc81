package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/udsehati/sehati-web/internal/domain/auth"
	"github.com/udsehati/sehati-web/internal/domain/catalog"
	"github.com/udsehati/sehati-web/internal/domain/contact"
	"github.com/udsehati/sehati-web/internal/domain/content"
	"github.com/udsehati/sehati-web/internal/handler"
	"github.com/udsehati/sehati-web/pkg/health"
)

type noopTelemetry struct{}

func (noopTelemetry) TracerProvider() trace.TracerProvider { return tracenoop.NewTracerProvider() }
func (noopTelemetry) MeterProvider() metric.MeterProvider  { return metricnoop.NewMeterProvider() }

func TestOpenStores_MemorySeeded(t *testing.T) {
	ctx := context.Background()
	cfg := &Config{Storage: StorageConfig{Driver: DriverMemory, SeedFile: "../../db/seed/catalog.json"}}

	st, err := openStores(ctx, zap.NewNop(), cfg, health.New())
	require.NoError(t, err)
	defer st.close()

	items, total, err := st.catalog.QueryProducts(ctx, catalog.Query{Sort: catalog.SortNewest}, 0, catalog.PageSize)
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.Len(t, items, catalog.PageSize)
}

func TestOpenStores_MissingSeedFile(t *testing.T) {
	cfg := &Config{Storage: StorageConfig{Driver: DriverMemory, SeedFile: "does-not-exist.json"}}

	_, err := openStores(context.Background(), zap.NewNop(), cfg, health.New())
	require.Error(t, err)
}

func TestOpenNotifier_Disabled(t *testing.T) {
	n, closeFn, err := openNotifier(AMQPConfig{})
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, contact.NopNotifier{}, n)
}

func TestServerHandler(t *testing.T) {
	ctx := context.Background()
	cfg := &Config{Storage: StorageConfig{Driver: DriverMemory, SeedFile: "../../db/seed/catalog.json"}}
	st, err := openStores(ctx, zap.NewNop(), cfg, health.New())
	require.NoError(t, err)

	engine, err := catalog.NewEngine(st.catalog)
	require.NoError(t, err)
	contentService := content.NewService(st.content, engine, 0)
	admin, err := auth.NewAuthenticator(auth.Config{})
	require.NoError(t, err)
	h := handler.NewHandler(handler.HandlerConfig{}, engine, contentService,
		contact.NewService(contact.ServiceConfig{}, st.contact, nil, nil, contentService), admin)

	hs := health.New()
	hs.SetReady(true)
	router := h.NewRouter()
	router.Get("/readyz", hs.ReadyEndpoint)
	srv := newServerHandler(ctx, router, noopTelemetry{}, CORSConfig{Origins: []string{"https://udsehati.co.id"}})

	req := httptest.NewRequest(http.MethodGet, "/api/products?q=madu", nil)
	req.Header.Set("Origin", "https://udsehati.co.id")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "https://udsehati.co.id", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
