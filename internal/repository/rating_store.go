package repository

import (
	"context"
	"errors"
	"time"

	"RatePull/internal/domain/models"
	domrepo "RatePull/internal/domain/repository"
	"RatePull/pkg/cache"
)

// CacheRatingStore implements RatingStore on top of the shared cache service.
// Documents are stored without a cache-level expiration: freshness is judged
// at read time from LastFetched, so a stale document stays visible to
// whatever wants to look at it.
type CacheRatingStore struct {
	cache cache.Service
	now   func() time.Time
}

func NewCacheRatingStore(c cache.Service) domrepo.RatingStore {
	return &CacheRatingStore{cache: c, now: time.Now}
}

func (s *CacheRatingStore) Get(ctx context.Context, collection, symbol string) (*models.RatingDocument, error) {
	key := cache.SymbolKey(collection, symbol)
	var doc models.RatingDocument
	if err := s.cache.Get(ctx, key, &doc); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, nil
		}
		return nil, &models.CacheError{Key: key, Err: err}
	}
	return &doc, nil
}

func (s *CacheRatingStore) Put(ctx context.Context, collection string, doc *models.RatingDocument) error {
	now := s.now()
	doc.LastFetched = now
	doc.UpdatedAt = now
	key := cache.SymbolKey(collection, doc.Symbol)
	if err := s.cache.Set(ctx, key, doc, 0); err != nil {
		return &models.CacheError{Key: key, Err: err}
	}
	return nil
}
