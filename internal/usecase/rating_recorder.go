package usecase

import (
	"context"
	"time"

	"RatePull/internal/domain/models"
	domrepo "RatePull/internal/domain/repository"
	applogger "RatePull/pkg/logger"
)

// BackendRecorder routes completed rating runs to the configured backend.
// Recording is best-effort: a backend failure is logged and counted but
// never fails the request that produced the rating.
type BackendRecorder struct {
	pub     domrepo.EventPublisher
	store   domrepo.HistoryStore
	metrics domrepo.Metrics
	backend string
	l       *applogger.Logger
}

func NewBackendRecorder(
	pub domrepo.EventPublisher,
	store domrepo.HistoryStore,
	metrics domrepo.Metrics,
	backend string,
	l *applogger.Logger,
) *BackendRecorder {
	return &BackendRecorder{pub: pub, store: store, metrics: metrics, backend: backend, l: l}
}

func (r *BackendRecorder) Record(ctx context.Context, e *models.RatingEvent) {
	if e == nil {
		return
	}
	start := time.Now()

	publish := func(backend string, do func() error) {
		if err := do(); err != nil {
			if r.l != nil {
				r.l.Error("record rating run failed",
					applogger.String("backend", backend),
					applogger.String("symbol", e.Symbol),
					applogger.Error(err),
				)
			}
			if r.metrics != nil {
				r.metrics.RecordError("record_" + backend)
			}
			return
		}
		if r.metrics != nil {
			r.metrics.RecordRatingSent(backend, e.Symbol)
		}
	}

	switch r.backend {
	case "kafka":
		publish("kafka", func() error { return r.pub.Publish(ctx, e) })
	case "clickhouse":
		publish("clickhouse", func() error { return r.store.Insert(ctx, e) })
	case "both":
		publish("kafka", func() error { return r.pub.Publish(ctx, e) })
		publish("clickhouse", func() error { return r.store.Insert(ctx, e) })
	default:
		// backend "none": nothing to record
		return
	}

	if r.metrics != nil {
		r.metrics.RecordLatency("record", time.Since(start).Seconds())
	}
}
