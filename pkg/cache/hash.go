package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// PagePrefix starts every page body key.
const PagePrefix = "page:"

// PageKey returns the cache key for the body of the page at url.
func PageKey(url string) string {
	return PagePrefix + Hash([]byte(url))
}
