package usecase

import (
	"context"

	"RatePull/internal/domain/models"
	domrepo "RatePull/internal/domain/repository"
	"RatePull/internal/service/pricebook"
	applogger "RatePull/pkg/logger"
)

// PriceCollector consumes the live market stream and keeps the price book
// current so fresh recommendations carry a real-time price.
type PriceCollector struct {
	stream  domrepo.MarketStream
	book    *pricebook.Book
	symbols []string
	metrics domrepo.Metrics
	l       *applogger.Logger

	cancel context.CancelFunc
}

func NewPriceCollector(stream domrepo.MarketStream, book *pricebook.Book, symbols []string, metrics domrepo.Metrics, l *applogger.Logger) *PriceCollector {
	return &PriceCollector{stream: stream, book: book, symbols: symbols, metrics: metrics, l: l}
}

func (c *PriceCollector) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)
	ticks, err := c.stream.Subscribe(ctx, c.symbols)
	if err != nil {
		c.cancel()
		return err
	}
	go c.consume(ctx, ticks)
	if c.l != nil {
		c.l.Info("price collector started", applogger.Strings("symbols", c.symbols))
	}
	return nil
}

func (c *PriceCollector) consume(ctx context.Context, ticks <-chan models.PriceTick) {
	for {
		select {
		case <-ctx.Done():
			return
		case tick, ok := <-ticks:
			if !ok {
				return
			}
			c.book.Set(tick.Symbol, tick.Price)
			if c.metrics != nil {
				c.metrics.RecordLastPrice(tick.Symbol, tick.Price)
			}
		}
	}
}

func (c *PriceCollector) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	return c.stream.Close()
}
