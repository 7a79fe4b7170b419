package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"RatePull/internal/domain/models"
	domrepo "RatePull/internal/domain/repository"
	applogger "RatePull/pkg/logger"
)

// Aggregator fans requests out to every snapshot source in parallel and
// merges whatever comes back. A failing source leaves its slot empty; the
// aggregate fails only when every source fails.
type Aggregator struct {
	sources       []domrepo.SnapshotSource
	sourceTimeout time.Duration
	l             *applogger.Logger
}

type AggregatorOption func(*Aggregator)

func WithSourceTimeout(d time.Duration) AggregatorOption {
	return func(a *Aggregator) {
		if d > 0 {
			a.sourceTimeout = d
		}
	}
}

func WithAggregatorLogger(l *applogger.Logger) AggregatorOption {
	return func(a *Aggregator) { a.l = l }
}

func NewAggregator(sources []domrepo.SnapshotSource, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{sources: sources, sourceTimeout: 5 * time.Second}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Fetch runs every source concurrently against its own snapshot and merges
// the survivors under a lock. Slot writes never race because each source
// owns a distinct field.
func (a *Aggregator) Fetch(ctx context.Context, symbol string) (*models.Snapshot, error) {
	if len(a.sources) == 0 {
		return nil, fmt.Errorf("%w: no sources configured", models.ErrUpstreamFetch)
	}

	var (
		mu       sync.Mutex
		snap     models.Snapshot
		failures int
		wg       sync.WaitGroup
	)

	for _, src := range a.sources {
		wg.Add(1)
		go func(src domrepo.SnapshotSource) {
			defer wg.Done()
			sctx, cancel := context.WithTimeout(ctx, a.sourceTimeout)
			defer cancel()

			var partial models.Snapshot
			if err := src.Fill(sctx, symbol, &partial); err != nil {
				if a.l != nil {
					a.l.Warn("snapshot source failed",
						applogger.String("source", src.Name()),
						applogger.String("symbol", symbol),
						applogger.Error(err),
					)
				}
				mu.Lock()
				failures++
				mu.Unlock()
				return
			}

			mu.Lock()
			if partial.Quote != nil {
				snap.Quote = partial.Quote
			}
			if len(partial.Outlook) > 0 {
				snap.Outlook = partial.Outlook
			}
			if partial.ESG != nil {
				snap.ESG = partial.ESG
			}
			if len(partial.Technical) > 0 {
				snap.Technical = partial.Technical
			}
			mu.Unlock()
		}(src)
	}
	wg.Wait()

	if failures == len(a.sources) {
		return nil, fmt.Errorf("%w: all %d sources failed for %s", models.ErrUpstreamFetch, failures, symbol)
	}
	return &snap, nil
}
