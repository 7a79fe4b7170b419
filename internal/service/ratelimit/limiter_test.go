package ratelimit

import (
	"testing"
	"time"
)

func TestAllowExhaustsBucket(t *testing.T) {
	l := New()
	now := time.Now()
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !l.Allow("1.2.3.4", 3, 1) {
			t.Fatalf("request %d should pass", i)
		}
	}
	if l.Allow("1.2.3.4", 3, 1) {
		t.Fatal("bucket should be empty")
	}
}

func TestAllowRefills(t *testing.T) {
	l := New()
	now := time.Now()
	l.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		l.Allow("k", 2, 1)
	}
	if l.Allow("k", 2, 1) {
		t.Fatal("bucket should be empty")
	}

	now = now.Add(time.Second)
	if !l.Allow("k", 2, 1) {
		t.Fatal("bucket should have refilled one token")
	}
}

func TestAllowSeparateKeys(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 0) {
		t.Fatal("first key should pass")
	}
	if !l.Allow("b", 1, 0) {
		t.Fatal("second key has its own bucket")
	}
	if l.Allow("a", 1, 0) {
		t.Fatal("first key should be exhausted")
	}
}
