package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"RatePull/internal/domain/models"
	domrepo "RatePull/internal/domain/repository"
	"RatePull/internal/usecase"
	xlogger "RatePull/pkg/logger"
)

type memStore struct {
	docs map[string]*models.RatingDocument
}

func (s *memStore) Get(ctx context.Context, collection, symbol string) (*models.RatingDocument, error) {
	return s.docs[collection+":"+symbol], nil
}

func (s *memStore) Put(ctx context.Context, collection string, doc *models.RatingDocument) error {
	doc.LastFetched = time.Now()
	s.docs[collection+":"+doc.Symbol] = doc
	return nil
}

type stubSource struct{}

func (stubSource) Name() string { return "quote" }

func (stubSource) Fill(ctx context.Context, symbol string, snap *models.Snapshot) error {
	snap.Quote = &models.Quote{Symbol: symbol, Price: 189.5}
	return nil
}

type stubCompleter struct {
	reply string
	err   error
}

func (s *stubCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return s.reply, s.err
}

func newTestHandler(completer *stubCompleter) *RatingEchoHandler {
	agg := usecase.NewAggregator([]domrepo.SnapshotSource{stubSource{}})
	pipeline := usecase.NewRatingPipeline(&memStore{docs: map[string]*models.RatingDocument{}}, agg, completer)
	l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		panic(err)
	}
	return NewRatingEchoHandler(l, pipeline, nil)
}

func doRequest(h *RatingEchoHandler, target string) *httptest.ResponseRecorder {
	e := echo.New()
	h.RegisterRoutes(e)
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRatingMissingSymbol(t *testing.T) {
	h := newTestHandler(&stubCompleter{})
	rec := doRequest(h, "/api/rating")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := strings.TrimSpace(rec.Body.String())
	if body != `{"error":"Symbol is required"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestRatingSuccess(t *testing.T) {
	h := newTestHandler(&stubCompleter{
		reply: `{"rating":"Buy","target_price":210,"reason":"momentum","confidence":80}`,
	})
	rec := doRequest(h, "/api/rating?symbol=aapl")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"rating":"Buy"`) {
		t.Fatalf("unexpected body: %s", body)
	}
	if !strings.Contains(body, `"current_price":189.5`) {
		t.Fatalf("expected current_price merged in: %s", body)
	}
}

func TestRatingPipelineFailureIs500(t *testing.T) {
	h := newTestHandler(&stubCompleter{reply: "no structure here"})
	rec := doRequest(h, "/api/rating?symbol=AAPL")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error"`) {
		t.Fatalf("expected error body, got %s", rec.Body.String())
	}
}

func TestPredictionUsesFiveLevelScale(t *testing.T) {
	h := newTestHandler(&stubCompleter{
		reply: `{"rating":"Strong Buy","target_price":300,"reason":"solid","confidence":90}`,
	})
	rec := doRequest(h, "/api/prediction?symbol=MSFT")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"rating":"Strong Buy"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	h := newTestHandler(&stubCompleter{})
	rec := doRequest(h, "/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
