package pricebook

import (
	"strings"
	"sync"
	"time"
)

type entry struct {
	price float64
	exp   time.Time
}

// Book keeps the most recent live price per symbol. Entries go stale after
// the configured TTL so a dead stream never serves hours-old prices.
type Book struct {
	mu  sync.RWMutex
	m   map[string]entry
	ttl time.Duration
}

func New(ttl time.Duration) *Book {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Book{m: make(map[string]entry), ttl: ttl}
}

func (b *Book) Set(symbol string, price float64) {
	key := strings.ToUpper(symbol)
	b.mu.Lock()
	b.m[key] = entry{price: price, exp: time.Now().Add(b.ttl)}
	b.mu.Unlock()
}

func (b *Book) Get(symbol string) (float64, bool) {
	key := strings.ToUpper(symbol)
	b.mu.RLock()
	e, ok := b.m[key]
	b.mu.RUnlock()
	if !ok {
		return 0, false
	}
	if time.Now().After(e.exp) {
		b.mu.Lock()
		delete(b.m, key)
		b.mu.Unlock()
		return 0, false
	}
	return e.price, true
}

func (b *Book) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.m)
}
