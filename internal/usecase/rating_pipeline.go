package usecase

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"RatePull/internal/domain/models"
	domrepo "RatePull/internal/domain/repository"
	domservice "RatePull/internal/domain/service"
	applogger "RatePull/pkg/logger"
)

// PriceSource exposes the freshest known live price for a symbol.
type PriceSource interface {
	Get(symbol string) (float64, bool)
}

// RatingRecorder forwards completed rating runs to configured backends.
type RatingRecorder interface {
	Record(ctx context.Context, event *models.RatingEvent)
}

// RatingPipeline orchestrates one recommendation request end to end:
// cache check, upstream fan-out, prompt synthesis, generative call,
// extraction and validation, then cache write. A failure anywhere after the
// cache read leaves the cache exactly as it was.
type RatingPipeline struct {
	store     domrepo.RatingStore
	agg       *Aggregator
	completer domservice.TextCompleter
	prices    PriceSource
	recorder  RatingRecorder
	metrics   domrepo.Metrics
	ttl       time.Duration
	timeout   time.Duration
	now       func() time.Time
	group     singleflight.Group
	l         *applogger.Logger
}

type PipelineOption func(*RatingPipeline)

func WithCacheTTL(ttl time.Duration) PipelineOption {
	return func(p *RatingPipeline) {
		if ttl > 0 {
			p.ttl = ttl
		}
	}
}

func WithRequestTimeout(d time.Duration) PipelineOption {
	return func(p *RatingPipeline) {
		if d > 0 {
			p.timeout = d
		}
	}
}

func WithPriceSource(src PriceSource) PipelineOption {
	return func(p *RatingPipeline) { p.prices = src }
}

func WithRecorder(r RatingRecorder) PipelineOption {
	return func(p *RatingPipeline) { p.recorder = r }
}

func WithPipelineMetrics(m domrepo.Metrics) PipelineOption {
	return func(p *RatingPipeline) { p.metrics = m }
}

func WithPipelineLogger(l *applogger.Logger) PipelineOption {
	return func(p *RatingPipeline) { p.l = l }
}

func NewRatingPipeline(
	store domrepo.RatingStore,
	agg *Aggregator,
	completer domservice.TextCompleter,
	opts ...PipelineOption,
) *RatingPipeline {
	p := &RatingPipeline{
		store:     store,
		agg:       agg,
		completer: completer,
		ttl:       24 * time.Hour,
		timeout:   30 * time.Second,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Get serves a recommendation for symbol under the given variant, from
// cache when fresh, recomputed otherwise. Concurrent cold requests for the
// same variant and symbol share a single computation.
func (p *RatingPipeline) Get(ctx context.Context, variant models.Variant, symbol string) (*models.RatingResponse, error) {
	symbol = strings.ToUpper(symbol)

	doc, err := p.store.Get(ctx, variant.Collection, symbol)
	if err != nil {
		// An unreachable store is fatal. Recomputing here would hide the
		// outage and hammer the upstreams on every request.
		if p.l != nil {
			p.l.Error("cache read failed",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		if p.metrics != nil {
			p.metrics.RecordError("cache_read")
		}
		return nil, err
	}
	if doc != nil && doc.Fresh(p.now(), p.ttl) {
		if p.metrics != nil {
			p.metrics.RecordCacheLookup(variant.Name, "hit")
		}
		return responseFrom(doc), nil
	}
	if p.metrics != nil {
		if doc == nil {
			p.metrics.RecordCacheLookup(variant.Name, "miss")
		} else {
			p.metrics.RecordCacheLookup(variant.Name, "stale")
		}
	}

	key := variant.Collection + ":" + symbol
	v, err, _ := p.group.Do(key, func() (interface{}, error) {
		cctx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		return p.compute(cctx, variant, symbol)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.RatingResponse), nil
}

func (p *RatingPipeline) compute(ctx context.Context, variant models.Variant, symbol string) (*models.RatingResponse, error) {
	start := p.now()

	snap, err := p.agg.Fetch(ctx, symbol)
	if err != nil {
		if p.metrics != nil {
			p.metrics.RecordError("aggregate")
		}
		return nil, err
	}

	prompt := SynthesizePrompt(variant, symbol, snap)

	text, err := p.completer.Complete(ctx, prompt)
	if err != nil {
		if p.metrics != nil {
			p.metrics.RecordError("complete")
		}
		return nil, err
	}

	raw, err := ExtractJSONObject(text)
	if err != nil {
		if p.metrics != nil {
			p.metrics.RecordError("extract")
		}
		return nil, err
	}
	rec, err := ValidateRecommendation(raw, variant.Scale)
	if err != nil {
		if p.metrics != nil {
			p.metrics.RecordError("validate")
		}
		return nil, err
	}

	doc := &models.RatingDocument{
		Symbol:         symbol,
		Recommendation: *rec,
		CurrentPrice:   p.currentPrice(symbol, snap),
		FetchedData:    snap,
	}
	if err := p.store.Put(ctx, variant.Collection, doc); err != nil {
		// The answer is already computed and valid; a write failure is
		// logged and the answer still served.
		if p.l != nil {
			p.l.Error("cache write failed",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		if p.metrics != nil {
			p.metrics.RecordError("cache_write")
		}
	}

	if p.recorder != nil {
		p.recorder.Record(ctx, &models.RatingEvent{
			Symbol:       doc.Symbol,
			Variant:      variant.Name,
			Rating:       rec.Rating,
			TargetPrice:  rec.TargetPrice,
			Confidence:   rec.Confidence,
			CurrentPrice: doc.CurrentPrice,
			ComputedAt:   p.now(),
		})
	}

	if p.metrics != nil {
		p.metrics.RecordLatency("pipeline_"+variant.Name, p.now().Sub(start).Seconds())
	}

	return responseFrom(doc), nil
}

// currentPrice prefers the live stream over the quote snapshot.
func (p *RatingPipeline) currentPrice(symbol string, snap *models.Snapshot) float64 {
	if p.prices != nil {
		if price, ok := p.prices.Get(symbol); ok {
			return price
		}
	}
	if snap.Quote != nil {
		return snap.Quote.Price
	}
	return 0
}

func responseFrom(doc *models.RatingDocument) *models.RatingResponse {
	return &models.RatingResponse{
		Recommendation: doc.Recommendation,
		CurrentPrice:   doc.CurrentPrice,
	}
}
