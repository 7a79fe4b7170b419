package repository

import (
	"context"
	"database/sql"
	"fmt"

	"RatePull/internal/domain/models"
	domrepo "RatePull/internal/domain/repository"
	pkgch "RatePull/pkg/clickhouse"
)

// CHHistoryStore implements HistoryStore backed by ClickHouse. One row per
// completed rating run.
type CHHistoryStore struct {
	db    *sql.DB
	table string
}

func NewCHHistoryStore(ch *pkgch.Client, table string) domrepo.HistoryStore {
	if table == "" {
		table = "rating_runs"
	}
	return &CHHistoryStore{db: ch.DB(), table: table}
}

func (s *CHHistoryStore) Insert(ctx context.Context, e *models.RatingEvent) error {
	q := fmt.Sprintf(
		"INSERT INTO %s (ts, symbol, variant, rating, target_price, confidence, current_price) VALUES (?, ?, ?, ?, ?, ?, ?)",
		s.table,
	)
	var conf float64
	if e.Confidence != nil {
		conf = *e.Confidence
	}
	_, err := s.db.ExecContext(ctx, q,
		e.ComputedAt,
		e.Symbol,
		e.Variant,
		e.Rating,
		e.TargetPrice,
		conf,
		e.CurrentPrice,
	)
	if err != nil {
		return fmt.Errorf("insert rating run: %w", err)
	}
	return nil
}

func (s *CHHistoryStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHHistoryStore) Close() error {
	return s.db.Close()
}
