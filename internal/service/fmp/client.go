package fmp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"RatePull/internal/domain/models"
	pkghttp "RatePull/pkg/http"
	applogger "RatePull/pkg/logger"
	"RatePull/pkg/util"
)

// Client talks to the Financial Modeling Prep REST API.
type Client struct {
	http    *pkghttp.Client
	baseURL string
	apiKey  string
	l       *applogger.Logger
}

type ClientOption func(*Client)

func WithBaseURL(url string) ClientOption {
	return func(c *Client) { c.baseURL = url }
}

func WithHTTPClient(hc *pkghttp.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l *applogger.Logger) ClientOption {
	return func(c *Client) { c.l = l }
}

func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		http:    pkghttp.NewClient(pkghttp.WithTimeout(5 * time.Second)),
		baseURL: "https://financialmodelingprep.com/api",
		apiKey:  apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Quote fetches the current market quote for symbol. The endpoint answers
// with a one-element array; an empty array means an unknown symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	var quotes []models.Quote
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method:      "GET",
		URL:         fmt.Sprintf("%s/v3/quote/%s", c.baseURL, symbol),
		QueryParams: map[string][]string{"apikey": {c.apiKey}},
	}, &quotes)
	if err != nil {
		return nil, fmt.Errorf("fmp quote: %w", err)
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("fmp quote: no data for symbol %s", symbol)
	}
	return &quotes[0], nil
}

// outlookNoise are company-outlook sections that bloat the payload without
// informing the recommendation. They are stripped before the outlook is kept.
var outlookNoise = []string{"insideTrades", "stockNews", "splitsHistory"}

// Outlook fetches the full company profile and strips the noisy sections.
func (c *Client) Outlook(ctx context.Context, symbol string) (json.RawMessage, error) {
	var raw map[string]json.RawMessage
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method:      "GET",
		URL:         fmt.Sprintf("%s/v4/company-outlook", c.baseURL),
		QueryParams: map[string][]string{"symbol": {symbol}, "apikey": {c.apiKey}},
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("fmp outlook: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("fmp outlook: no data for symbol %s", symbol)
	}
	for _, k := range outlookNoise {
		delete(raw, k)
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("fmp outlook: %w", err)
	}
	return b, nil
}

// ESG fetches the current-year environmental/social/governance score.
func (c *Client) ESG(ctx context.Context, symbol string) (*models.ESGScore, error) {
	var scores []models.ESGScore
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: "GET",
		URL:    fmt.Sprintf("%s/v4/esg-environmental-social-governance-data", c.baseURL),
		QueryParams: map[string][]string{
			"symbol": {symbol},
			"year":   {strconv.Itoa(time.Now().Year())},
			"apikey": {c.apiKey},
		},
	}, &scores)
	if err != nil {
		return nil, fmt.Errorf("fmp esg: %w", err)
	}
	if len(scores) == 0 {
		return nil, fmt.Errorf("fmp esg: no data for symbol %s", symbol)
	}
	return &scores[0], nil
}

// TechnicalIndicators fetches daily RSI(14) readings over the last `days`
// days, most recent first.
func (c *Client) TechnicalIndicators(ctx context.Context, symbol string, days int) ([]models.TechnicalPoint, error) {
	from, to := util.DateRange(time.Now(), days)
	var points []models.TechnicalPoint
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: "GET",
		URL:    fmt.Sprintf("%s/v3/technical_indicator/daily/%s", c.baseURL, symbol),
		QueryParams: map[string][]string{
			"period": {"14"},
			"type":   {"rsi"},
			"from":   {from},
			"to":     {to},
			"apikey": {c.apiKey},
		},
	}, &points)
	if err != nil {
		return nil, fmt.Errorf("fmp technical: %w", err)
	}
	return points, nil
}
