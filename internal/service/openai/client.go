package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"RatePull/internal/domain/models"
	domservice "RatePull/internal/domain/service"
	pkghttp "RatePull/pkg/http"
	applogger "RatePull/pkg/logger"
)

// Client completes prompts against an OpenAI-compatible chat-completions
// endpoint. Only 429 answers are retried, with a doubling backoff; any other
// failure is final.
type Client struct {
	http        *pkghttp.Client
	baseURL     string
	apiKey      string
	model       string
	maxAttempts int
	backoffBase time.Duration
	maxTokens   int
	temperature float64
	sleep       func(time.Duration)
	l           *applogger.Logger
}

type ClientOption func(*Client)

func WithBaseURL(url string) ClientOption {
	return func(c *Client) { c.baseURL = url }
}

func WithModel(model string) ClientOption {
	return func(c *Client) { c.model = model }
}

func WithMaxAttempts(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

func WithBackoffBase(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.backoffBase = d
		}
	}
}

func WithMaxTokens(n int) ClientOption {
	return func(c *Client) { c.maxTokens = n }
}

func WithTemperature(t float64) ClientOption {
	return func(c *Client) { c.temperature = t }
}

func WithHTTPClient(hc *pkghttp.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l *applogger.Logger) ClientOption {
	return func(c *Client) { c.l = l }
}

// withSleep replaces the backoff sleeper, for tests.
func withSleep(fn func(time.Duration)) ClientOption {
	return func(c *Client) { c.sleep = fn }
}

func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		http:        pkghttp.NewClient(pkghttp.WithTimeout(30 * time.Second)),
		baseURL:     "https://api.openai.com/v1",
		apiKey:      apiKey,
		model:       "gpt-4o-mini",
		maxAttempts: 3,
		backoffBase: time.Second,
		maxTokens:   500,
		temperature: 0.7,
		sleep:       time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ domservice.TextCompleter = (*Client)(nil)

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt and returns the model's text. Attempts are
// bounded by maxAttempts; the backoff doubles after every 429.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	delay := c.backoffBase
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		text, retryable, err := c.completeOnce(ctx, prompt)
		if err == nil {
			return text, nil
		}
		if !retryable || attempt == c.maxAttempts {
			return "", err
		}
		if c.l != nil {
			c.l.Warn("generative backend rate limited, backing off",
				applogger.Int("attempt", attempt),
				applogger.Duration("delay", delay),
			)
		}
		c.sleep(delay)
		delay *= 2
	}
	return "", models.ErrRateLimited
}

func (c *Client) completeOnce(ctx context.Context, prompt string) (string, bool, error) {
	resp, err := c.http.SendRequest(ctx, &pkghttp.RequestOptions{
		Method: "POST",
		URL:    c.baseURL + "/chat/completions",
		Headers: map[string]string{
			"Authorization": "Bearer " + c.apiKey,
			"Content-Type":  "application/json",
		},
		Body: &chatRequest{
			Model: c.model,
			Messages: []chatMessage{
				{Role: "user", Content: prompt},
			},
			MaxTokens:   c.maxTokens,
			Temperature: c.temperature,
		},
	})
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", models.ErrUpstreamFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body)
		return "", true, models.ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", false, fmt.Errorf("%w: status %d: %s", models.ErrUpstreamFetch, resp.StatusCode, body)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", false, fmt.Errorf("%w: %v", models.ErrMalformedResponse, err)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", false, models.ErrMalformedResponse
	}
	return parsed.Choices[0].Message.Content, false, nil
}
