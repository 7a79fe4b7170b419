package repository

import (
	"context"

	"RatePull/internal/domain/models"
)

// RatingStore persists rating documents keyed by collection and symbol.
// Documents carry their own freshness timestamp; the store never expires them.
type RatingStore interface {
	Get(ctx context.Context, collection, symbol string) (*models.RatingDocument, error)
	Put(ctx context.Context, collection string, doc *models.RatingDocument) error
}

// SnapshotSource fills one slot of a market snapshot. A source that fails
// returns an error and leaves its slot untouched.
type SnapshotSource interface {
	Name() string
	Fill(ctx context.Context, symbol string, snap *models.Snapshot) error
}

// EventPublisher delivers rating events to a downstream backend.
type EventPublisher interface {
	Publish(ctx context.Context, event *models.RatingEvent) error
	Close() error
}

// HistoryStore records completed rating runs for offline analysis.
type HistoryStore interface {
	Insert(ctx context.Context, event *models.RatingEvent) error
	Health(ctx context.Context) error
	Close() error
}

// MarketStream delivers live price ticks until the context is cancelled.
type MarketStream interface {
	Subscribe(ctx context.Context, symbols []string) (<-chan models.PriceTick, error)
	Close() error
}

// Metrics records pipeline observations.
type Metrics interface {
	RecordCacheLookup(variant, outcome string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
	RecordRatingSent(backend, symbol string)
}
