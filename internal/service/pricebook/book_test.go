package pricebook

import (
	"testing"
	"time"
)

func TestBookSetGet(t *testing.T) {
	b := New(time.Minute)
	b.Set("aapl", 189.5)

	p, ok := b.Get("AAPL")
	if !ok {
		t.Fatal("expected hit for AAPL")
	}
	if p != 189.5 {
		t.Fatalf("expected 189.5, got %v", p)
	}
}

func TestBookMiss(t *testing.T) {
	b := New(time.Minute)
	if _, ok := b.Get("MSFT"); ok {
		t.Fatal("expected miss for unknown symbol")
	}
}

func TestBookExpiry(t *testing.T) {
	b := New(10 * time.Millisecond)
	b.Set("NVDA", 1000)
	time.Sleep(20 * time.Millisecond)
	if _, ok := b.Get("NVDA"); ok {
		t.Fatal("expected stale entry to be dropped")
	}
	if b.Len() != 0 {
		t.Fatalf("expected empty book, got len %d", b.Len())
	}
}
