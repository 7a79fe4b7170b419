package util

import (
	"testing"
	"time"
)

func TestDateRange(t *testing.T) {
	now := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	from, to := DateRange(now, 30)
	if from != "2024-02-04" {
		t.Fatalf("unexpected from %s", from)
	}
	if to != "2024-03-05" {
		t.Fatalf("unexpected to %s", to)
	}
}

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("", 8080); got != 8080 {
		t.Fatalf("empty input should use default, got %d", got)
	}
	if got := ParseIntDefault("nope", 8080); got != 8080 {
		t.Fatalf("invalid input should use default, got %d", got)
	}
	if got := ParseIntDefault("9090", 8080); got != 9090 {
		t.Fatalf("expected parsed value, got %d", got)
	}
}
