package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"RatePull/internal/domain/models"
	domrepo "RatePull/internal/domain/repository"
	applogger "RatePull/pkg/logger"

	"github.com/gorilla/websocket"
)

// Client implements a MarketStream backed by the Finnhub trade WebSocket.
// It reconnects on read failures until the context is cancelled.
type Client struct {
	apiKey         string
	websocketURL   string
	reconnectDelay time.Duration
	pingInterval   time.Duration
	l              *applogger.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
}

type Option func(*Client)

func WithReconnectDelay(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.reconnectDelay = d
		}
	}
}

func WithPingInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.pingInterval = d
		}
	}
}

func WithLogger(l *applogger.Logger) Option {
	return func(c *Client) { c.l = l }
}

func New(apiKey, websocketURL string, opts ...Option) domrepo.MarketStream {
	c := &Client{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		reconnectDelay: 5 * time.Second,
		pingInterval:   30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type fhTrade struct {
	S string  `json:"s"`
	P float64 `json:"p"`
	V float64 `json:"v"`
	T int64   `json:"t"` // ms
}

type fhMessage struct {
	Type string    `json:"type"`
	Data []fhTrade `json:"data"`
}

func (c *Client) connect(ctx context.Context, symbols []string) error {
	u := fmt.Sprintf("%s?token=%s", c.websocketURL, c.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("finnhub connect: %w", err)
	}
	for _, s := range symbols {
		msg := map[string]string{"type": "subscribe", "symbol": s}
		if err := conn.WriteJSON(msg); err != nil {
			conn.Close()
			return fmt.Errorf("finnhub subscribe %s: %w", s, err)
		}
	}
	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()
	if c.l != nil {
		c.l.Info("finnhub connected", applogger.Strings("symbols", symbols))
	}
	return nil
}

// Subscribe connects, subscribes to symbols and streams price ticks until
// ctx is cancelled. Read failures trigger a reconnect after reconnectDelay.
func (c *Client) Subscribe(ctx context.Context, symbols []string) (<-chan models.PriceTick, error) {
	if err := c.connect(ctx, symbols); err != nil {
		return nil, err
	}

	ticks := make(chan models.PriceTick, 1024)

	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.mu.Lock()
				conn := c.conn
				c.mu.Unlock()
				if conn != nil {
					_ = conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	go func() {
		defer close(ticks)
		for {
			if ctx.Err() != nil {
				return
			}
			c.mu.Lock()
			conn := c.conn
			c.mu.Unlock()
			if conn == nil {
				return
			}
			_, b, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				if c.l != nil {
					c.l.Warn("finnhub read failed, reconnecting", applogger.Error(err))
				}
				_ = c.Close()
				select {
				case <-ctx.Done():
					return
				case <-time.After(c.reconnectDelay):
				}
				if err := c.connect(ctx, symbols); err != nil {
					if c.l != nil {
						c.l.Error("finnhub reconnect failed", applogger.Error(err))
					}
					continue
				}
				continue
			}
			var m fhMessage
			if err := json.Unmarshal(b, &m); err != nil {
				// ignore non-trade frames
				continue
			}
			if m.Type != "trade" {
				continue
			}
			for _, d := range m.Data {
				tick := models.PriceTick{
					Symbol:    d.S,
					Price:     d.P,
					Volume:    d.V,
					Timestamp: time.UnixMilli(d.T),
				}
				select {
				case ticks <- tick:
				default:
					// drop on backpressure
				}
			}
		}
	}()

	return ticks, nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}
