// Package cache holds the small key/value cache used for engagement counts.
// A cache failure is never fatal: callers treat errors as misses.
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache is a string key/value store with per-key expiry
type Cache interface {
	// Get returns the value and whether it was found
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Key joins a prefix and parts with ":", e.g. Key("mindful_media", "like_count", "7")
func Key(prefix string, parts ...string) string {
	if len(parts) == 0 {
		return prefix
	}
	return prefix + ":" + strings.Join(parts, ":")
}

// Nop is a cache that never stores anything
type Nop struct{}

func (Nop) Get(context.Context, string) (string, bool, error)        { return "", false, nil }
func (Nop) Set(context.Context, string, string, time.Duration) error { return nil }
func (Nop) Delete(context.Context, ...string) error                  { return nil }
