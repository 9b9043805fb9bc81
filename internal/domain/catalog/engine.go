package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/udsehati/sehati-web/internal/domain/catalog"

// DefaultFeaturedLimit is the number of products shown on the home page.
const DefaultFeaturedLimit = 3

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// WithTracerProvider sets the tracer provider used for engine spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *engineOptions) {
		if tp != nil {
			o.tracerProvider = tp
		}
	}
}

// WithMeterProvider sets the meter provider used for engine metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *engineOptions) {
		if mp != nil {
			o.meterProvider = mp
		}
	}
}

// Engine translates catalog queries into backend reads.
type Engine struct {
	store  Store
	tracer trace.Tracer

	fetchDuration metric.Float64Histogram
	fetchResults  metric.Int64Counter
}

// NewEngine creates an Engine reading from store.
func NewEngine(store Store, opts ...Option) (*Engine, error) {
	o := engineOptions{
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	meter := o.meterProvider.Meter(instrumentationName)
	fetchDuration, err := meter.Float64Histogram("catalog.fetch.duration",
		metric.WithDescription("Duration of catalog page fetches"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create fetch duration histogram")
	}
	fetchResults, err := meter.Int64Counter("catalog.fetch.results",
		metric.WithDescription("Catalog page fetches by outcome"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create fetch results counter")
	}

	return &Engine{
		store:         store,
		tracer:        o.tracerProvider.Tracer(instrumentationName),
		fetchDuration: fetchDuration,
		fetchResults:  fetchResults,
	}, nil
}

// FetchPage returns the requested page of active products and the total
// number of matches. Backend failures are returned wrapped with
// ErrUnavailable and are never retried.
func (e *Engine) FetchPage(ctx context.Context, q Query) (page Page, rerr error) {
	if q.Page < 0 {
		return Page{}, ErrInvalidPage
	}
	q = q.Normalize()

	ctx, span := e.tracer.Start(ctx, "catalog.FetchPage", trace.WithAttributes(
		attribute.String("catalog.sort", string(q.Sort)),
		attribute.Int("catalog.page", q.Page),
		attribute.Bool("catalog.search", q.Search != ""),
		attribute.Int("catalog.categories", len(q.CategoryIDs)),
	))
	start := time.Now()
	defer func() {
		outcome := "ok"
		switch {
		case rerr != nil:
			outcome = "error"
			span.RecordError(rerr)
			span.SetStatus(codes.Error, rerr.Error())
		case len(page.Items) == 0:
			outcome = "empty"
		}
		attrs := metric.WithAttributes(
			attribute.String("sort", string(q.Sort)),
			attribute.String("outcome", outcome),
		)
		e.fetchDuration.Record(ctx, time.Since(start).Seconds(), attrs)
		e.fetchResults.Add(ctx, 1, attrs)
		span.End()
	}()

	items, total, err := e.store.QueryProducts(ctx, q, q.Offset(), PageSize)
	if err != nil {
		return Page{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if items == nil {
		items = []Product{}
	}
	span.SetAttributes(attribute.Int("catalog.total", total))

	return Page{
		Items:    items,
		Total:    total,
		Page:     q.Page,
		PageSize: PageSize,
	}, nil
}

// Featured returns the newest active products, at most limit of them.
func (e *Engine) Featured(ctx context.Context, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}
	ctx, span := e.tracer.Start(ctx, "catalog.Featured")
	defer span.End()

	items, _, err := e.store.QueryProducts(ctx, Query{Sort: SortNewest}, 0, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return items, nil
}

// Product returns a single active product.
func (e *Engine) Product(ctx context.Context, id string) (*Product, error) {
	p, err := e.store.ProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return p, nil
}

// Categories returns every category ordered by name.
func (e *Engine) Categories(ctx context.Context) ([]Category, error) {
	cats, err := e.store.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return cats, nil
}
