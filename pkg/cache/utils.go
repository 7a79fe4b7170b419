package cache

import (
	"fmt"
	"strings"
)

// GenerateKey creates a cache key with prefix and ID.
func GenerateKey(prefix string, id string) string {
	return fmt.Sprintf("%s:%s", prefix, id)
}

// SymbolKey builds a document key for a ticker symbol, case-normalized.
func SymbolKey(collection, symbol string) string {
	return GenerateKey(collection, strings.ToUpper(symbol))
}
