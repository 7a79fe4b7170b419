package fmp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"RatePull/internal/domain/models"
	domrepo "RatePull/internal/domain/repository"
)

func TestQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/v3/quote/AAPL") {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("apikey") != "k" {
			t.Fatal("missing api key")
		}
		w.Write([]byte(`[{"symbol":"AAPL","name":"Apple Inc.","price":189.5,"pe":29.1}]`))
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	q, err := c.Quote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Name != "Apple Inc." || q.Price != 189.5 {
		t.Fatalf("unexpected quote: %+v", q)
	}
}

func TestQuoteEmptyArrayIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	if _, err := c.Quote(context.Background(), "ZZZZ"); err == nil {
		t.Fatal("expected error for unknown symbol")
	}
}

func TestOutlookStripsNoisySections(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"profile": {"symbol":"AAPL"},
			"insideTrades": [{"big":"payload"}],
			"stockNews": [{"noise":true}],
			"splitsHistory": [],
			"ratios": [{"pe":29}]
		}`))
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	out, err := c.Outlook(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := string(out)
	for _, stripped := range []string{"insideTrades", "stockNews", "splitsHistory"} {
		if strings.Contains(s, stripped) {
			t.Fatalf("%s should be stripped from outlook", stripped)
		}
	}
	if !strings.Contains(s, "profile") || !strings.Contains(s, "ratios") {
		t.Fatalf("useful sections must survive: %s", s)
	}
}

func TestESGRequestsCurrentYear(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("symbol") != "AAPL" || q.Get("apikey") != "k" {
			t.Fatalf("unexpected query %v", q)
		}
		if q.Get("year") != strconv.Itoa(time.Now().Year()) {
			t.Fatalf("expected current year, got %q", q.Get("year"))
		}
		w.Write([]byte(`[{"symbol":"AAPL","ESGScore":71.2}]`))
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	score, err := c.ESG(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score.ESGScore != 71.2 {
		t.Fatalf("unexpected score: %+v", score)
	}
}

func TestTechnicalSourceTruncates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[` + strings.Repeat(`{"date":"2026-08-28","rsi":55},`, 49) + `{"date":"2026-08-28","rsi":55}]`))
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	src := NewTechnicalSource(c, 30, 30)

	var snap models.Snapshot
	if err := src.Fill(context.Background(), "AAPL", &snap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Technical) != 30 {
		t.Fatalf("expected 30 points after truncation, got %d", len(snap.Technical))
	}
}

func TestSourcesLeaveSlotOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	sources := []domrepo.SnapshotSource{
		NewQuoteSource(c),
		NewOutlookSource(c),
		NewESGSource(c),
		NewTechnicalSource(c, 30, 30),
	}
	for _, src := range sources {
		var snap models.Snapshot
		if err := src.Fill(context.Background(), "AAPL", &snap); err == nil {
			t.Fatalf("source %s should fail on upstream error", src.Name())
		}
		if !snap.Empty() {
			t.Fatalf("source %s must not fill its slot on failure", src.Name())
		}
	}
}
