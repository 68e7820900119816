package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	perrors "github.com/abgdnv/catalog/internal/product/errors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	outcomeOK         = "ok"
	outcomeNotFound   = "not_found"
	outcomeMissingID  = "missing_id"
	outcomeConstraint = "constraint_violation"
	outcomeError      = "error"
)

// StoreMetrics holds the Prometheus collectors recorded by Instrumented.
type StoreMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewStoreMetrics creates the store collectors and registers them with registerer.
// A nil registerer falls back to prometheus.DefaultRegisterer.
func NewStoreMetrics(registerer prometheus.Registerer) *StoreMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "product_store_operations_total",
		Help: "Product store operations by outcome.",
	}, []string{"operation", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "product_store_operation_duration_seconds",
		Help:    "Product store operation latency.",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"operation"})

	registerer.MustRegister(operations, duration)

	return &StoreMetrics{
		operations: operations,
		duration:   duration,
	}
}

// Instrumented wraps a ProductStore with tracing, metrics and debug logging.
type Instrumented struct {
	next    ProductStore
	tracer  trace.Tracer
	metrics *StoreMetrics
	logger  *slog.Logger
}

// NewInstrumented decorates next. A nil metrics disables metric recording.
func NewInstrumented(next ProductStore, tracer trace.Tracer, metrics *StoreMetrics, logger *slog.Logger) *Instrumented {
	return &Instrumented{
		next:    next,
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

func (i *Instrumented) Create(ctx context.Context, p *Product) error {
	ctx, done := i.start(ctx, "Create", attribute.String("product.name", p.Name))
	err := i.next.Create(ctx, p)
	done(err, attribute.String("product.id", p.ID.String()))
	return err
}

func (i *Instrumented) Update(ctx context.Context, p *Product) error {
	ctx, done := i.start(ctx, "Update", attribute.String("product.id", p.ID.String()))
	err := i.next.Update(ctx, p)
	done(err)
	return err
}

func (i *Instrumented) Delete(ctx context.Context, p *Product) error {
	ctx, done := i.start(ctx, "Delete", attribute.String("product.id", p.ID.String()))
	err := i.next.Delete(ctx, p)
	done(err)
	return err
}

func (i *Instrumented) DeleteAll(ctx context.Context) (int64, error) {
	ctx, done := i.start(ctx, "DeleteAll")
	n, err := i.next.DeleteAll(ctx)
	done(err, attribute.Int64("product.deleted", n))
	return n, err
}

func (i *Instrumented) Find(ctx context.Context, id uuid.UUID) (*Product, error) {
	ctx, done := i.start(ctx, "Find", attribute.String("product.id", id.String()))
	p, err := i.next.Find(ctx, id)
	if err == nil && p == nil {
		done(perrors.ErrProductNotFound)
		return nil, nil
	}
	done(err)
	return p, err
}

func (i *Instrumented) All(ctx context.Context) ([]Product, error) {
	ctx, done := i.start(ctx, "All")
	list, err := i.next.All(ctx)
	done(err, attribute.Int("product.count", len(list)))
	return list, err
}

func (i *Instrumented) FindByName(ctx context.Context, name string) ([]Product, error) {
	ctx, done := i.start(ctx, "FindByName", attribute.String("product.name", name))
	list, err := i.next.FindByName(ctx, name)
	done(err, attribute.Int("product.count", len(list)))
	return list, err
}

func (i *Instrumented) FindByAvailability(ctx context.Context, available bool) ([]Product, error) {
	ctx, done := i.start(ctx, "FindByAvailability", attribute.Bool("product.available", available))
	list, err := i.next.FindByAvailability(ctx, available)
	done(err, attribute.Int("product.count", len(list)))
	return list, err
}

func (i *Instrumented) FindByCategory(ctx context.Context, category Category) ([]Product, error) {
	ctx, done := i.start(ctx, "FindByCategory", attribute.String("product.category", category.String()))
	list, err := i.next.FindByCategory(ctx, category)
	done(err, attribute.Int("product.count", len(list)))
	return list, err
}

// Ping delegates to the wrapped store when it implements HealthChecker.
func (i *Instrumented) Ping(ctx context.Context) error {
	hc, ok := i.next.(HealthChecker)
	if !ok {
		return nil
	}
	return hc.Ping(ctx)
}

// start opens the span for op and returns a func that records the result.
// A not-found lookup is recorded with its own outcome but does not mark the span as failed.
func (i *Instrumented) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error, ...attribute.KeyValue)) {
	began := time.Now()
	ctx, span := i.tracer.Start(ctx, "ProductStore."+op, trace.WithAttributes(attrs...))

	return ctx, func(err error, extra ...attribute.KeyValue) {
		defer span.End()
		elapsed := time.Since(began)
		outcome := outcomeOf(err)

		span.SetAttributes(extra...)
		switch outcome {
		case outcomeOK:
			span.SetStatus(codes.Ok, "")
		case outcomeNotFound:
			span.SetAttributes(attribute.Bool("product.found", false))
		default:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		if i.metrics != nil {
			i.metrics.operations.WithLabelValues(op, outcome).Inc()
			i.metrics.duration.WithLabelValues(op).Observe(elapsed.Seconds())
		}

		i.logger.DebugContext(ctx, "product store operation",
			slog.String("operation", op),
			slog.String("outcome", outcome),
			slog.Duration("duration", elapsed),
		)
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, perrors.ErrProductNotFound):
		return outcomeNotFound
	case errors.Is(err, perrors.ErrMissingID):
		return outcomeMissingID
	case errors.Is(err, perrors.ErrConstraintViolation):
		return outcomeConstraint
	default:
		return outcomeError
	}
}

var (
	_ ProductStore  = (*Instrumented)(nil)
	_ HealthChecker = (*Instrumented)(nil)
	_ ProductStore  = (*InMemoryStore)(nil)
	_ ProductStore  = (*PgStore)(nil)
	_ ProductStore  = (*GormStore)(nil)
)
