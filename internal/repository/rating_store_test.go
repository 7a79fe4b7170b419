package repository

import (
	"context"
	"testing"
	"time"

	"RatePull/internal/domain/models"
	"RatePull/pkg/cache"
)

func newStore(t *testing.T) *CacheRatingStore {
	t.Helper()
	mc := cache.NewMemoryCache()
	t.Cleanup(func() { mc.Close() })
	return NewCacheRatingStore(mc).(*CacheRatingStore)
}

func TestStorePutGetRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	doc := &models.RatingDocument{
		Symbol:         "AAPL",
		Recommendation: models.Recommendation{Rating: "Buy", TargetPrice: 210, Reason: "momentum"},
		CurrentPrice:   189.5,
	}
	if err := s.Put(ctx, "ratings", doc); err != nil {
		t.Fatalf("put: %v", err)
	}
	if doc.LastFetched.IsZero() || doc.UpdatedAt.IsZero() {
		t.Fatal("put must stamp LastFetched and UpdatedAt")
	}

	got, err := s.Get(ctx, "ratings", "aapl")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected document, symbol lookup is case-insensitive")
	}
	if got.Recommendation.Rating != "Buy" || got.CurrentPrice != 189.5 {
		t.Fatalf("unexpected document: %+v", got)
	}
}

func TestStoreMissIsNil(t *testing.T) {
	s := newStore(t)
	got, err := s.Get(context.Background(), "ratings", "MSFT")
	if err != nil {
		t.Fatalf("miss should not error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil on miss, got %+v", got)
	}
}

func TestStoreCollectionsAreIsolated(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	doc := &models.RatingDocument{Symbol: "AAPL", Recommendation: models.Recommendation{Rating: "Buy"}}
	if err := s.Put(ctx, "ratings", doc); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := s.Get(ctx, "predictions", "AAPL")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatal("a ratings document must not leak into predictions")
	}
}

func TestFreshnessBoundary(t *testing.T) {
	ttl := 24 * time.Hour
	now := time.Now()

	cases := []struct {
		name  string
		age   time.Duration
		fresh bool
	}{
		{"just written", 0, true},
		{"one second under", ttl - time.Second, true},
		{"exactly at ttl", ttl, false},
		{"one second over", ttl + time.Second, false},
	}
	for _, tc := range cases {
		doc := &models.RatingDocument{LastFetched: now.Add(-tc.age)}
		if got := doc.Fresh(now, ttl); got != tc.fresh {
			t.Fatalf("%s: expected fresh=%v, got %v", tc.name, tc.fresh, got)
		}
	}
}

func TestZeroLastFetchedIsStale(t *testing.T) {
	doc := &models.RatingDocument{}
	if doc.Fresh(time.Now(), 24*time.Hour) {
		t.Fatal("zero timestamp must never read as fresh")
	}
}
