package usecase

import (
	"context"
	"errors"
	"testing"

	"RatePull/internal/domain/models"
)

type stubPublisher struct {
	events []*models.RatingEvent
	err    error
}

func (p *stubPublisher) Publish(ctx context.Context, e *models.RatingEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *stubPublisher) Close() error { return nil }

type stubHistory struct {
	rows []*models.RatingEvent
	err  error
}

func (s *stubHistory) Insert(ctx context.Context, e *models.RatingEvent) error {
	if s.err != nil {
		return s.err
	}
	s.rows = append(s.rows, e)
	return nil
}

func (s *stubHistory) Health(ctx context.Context) error { return nil }
func (s *stubHistory) Close() error                     { return nil }

func TestRecorderRoutesToKafka(t *testing.T) {
	pub := &stubPublisher{}
	hist := &stubHistory{}
	r := NewBackendRecorder(pub, hist, nil, "kafka", nil)

	r.Record(context.Background(), &models.RatingEvent{Symbol: "AAPL", Rating: "Buy"})

	if len(pub.events) != 1 {
		t.Fatalf("expected one published event, got %d", len(pub.events))
	}
	if len(hist.rows) != 0 {
		t.Fatal("clickhouse should not be touched for kafka backend")
	}
}

func TestRecorderRoutesToBoth(t *testing.T) {
	pub := &stubPublisher{}
	hist := &stubHistory{}
	r := NewBackendRecorder(pub, hist, nil, "both", nil)

	r.Record(context.Background(), &models.RatingEvent{Symbol: "MSFT", Rating: "Hold"})

	if len(pub.events) != 1 || len(hist.rows) != 1 {
		t.Fatalf("expected both backends hit, got kafka=%d clickhouse=%d", len(pub.events), len(hist.rows))
	}
}

func TestRecorderSwallowsBackendFailure(t *testing.T) {
	pub := &stubPublisher{err: errors.New("broker down")}
	r := NewBackendRecorder(pub, &stubHistory{}, nil, "kafka", nil)

	// Must not panic or propagate.
	r.Record(context.Background(), &models.RatingEvent{Symbol: "NVDA"})
}

func TestRecorderNoneBackendIsNoop(t *testing.T) {
	pub := &stubPublisher{}
	hist := &stubHistory{}
	r := NewBackendRecorder(pub, hist, nil, "none", nil)

	r.Record(context.Background(), &models.RatingEvent{Symbol: "AAPL"})

	if len(pub.events) != 0 || len(hist.rows) != 0 {
		t.Fatal("backend none should record nothing")
	}
}
