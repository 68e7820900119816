package app

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/abgdnv/catalog/internal/product/store"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Probe periodically pings the store and publishes the result to /readyz and the gRPC health service.
type Probe struct {
	checker  store.HealthChecker
	health   *health.Server
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
	ready    atomic.Bool
}

// NewProbe creates a probe. A nil hs skips gRPC status updates.
func NewProbe(checker store.HealthChecker, hs *health.Server, interval, timeout time.Duration, logger *slog.Logger) *Probe {
	return &Probe{
		checker:  checker,
		health:   hs,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
	}
}

// Ready reports the result of the last check.
func (p *Probe) Ready() bool {
	return p.ready.Load()
}

// Check pings the store once and records the outcome.
func (p *Probe) Check(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.checker.Ping(pingCtx)
	ok := err == nil
	if was := p.ready.Swap(ok); was != ok {
		if ok {
			p.logger.Info("Product store is reachable")
		} else {
			p.logger.Warn("Product store is unreachable", slog.Any("error", err))
		}
	}
	if p.health != nil {
		setServing(p.health, ok)
	}
	return ok
}

// Run checks immediately and then every interval until ctx is done, when it marks the process not ready.
func (p *Probe) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			p.ready.Store(false)
			if p.health != nil {
				setServing(p.health, false)
			}
			return nil
		case <-ticker.C:
			p.Check(ctx)
		}
	}
}

func setServing(hs *health.Server, ok bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		status = healthpb.HealthCheckResponse_SERVING
	}
	hs.SetServingStatus("", status)
	hs.SetServingStatus(HealthServiceName, status)
}
