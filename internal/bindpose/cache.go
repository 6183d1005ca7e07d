package bindpose

import (
	"log/slog"
	"sync"

	"handpose/internal/hand"
	"handpose/internal/sensor"
	"handpose/internal/skeleton"
)

// Cache holds at most one bind pose per hand. Entries are written once and
// never modified; the returned arrays are shared and must be treated as
// read-only.
type Cache struct {
	mu     sync.Mutex
	poses  [2]*skeleton.PoseArray
	logger *slog.Logger
}

// NewCache returns an empty cache. A nil logger discards output.
func NewCache(logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Cache{logger: logger}
}

// EnsureInitialized derives and stores h's bind pose on first success. It
// returns false when the vendor skeleton is unavailable or unusable; nothing
// is cached then and the next call retries.
func (c *Cache) EnsureInitialized(src sensor.Source, h hand.Handedness) bool {
	if !h.Valid() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.poses[h] != nil {
		return true
	}

	sk, err := src.Skeleton(h)
	if err != nil {
		c.logger.Debug("bind pose unavailable", "hand", h, "error", err)
		return false
	}
	poses, err := Derive(sk, h)
	if err != nil {
		c.logger.Warn("bind pose rejected", "hand", h, "error", err)
		return false
	}
	c.poses[h] = &poses
	c.logger.Info("bind pose cached", "hand", h, "bones", hand.BoneCount)
	return true
}

// Get returns h's cached bind pose.
func (c *Cache) Get(h hand.Handedness) (*skeleton.PoseArray, bool) {
	if !h.Valid() {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.poses[h], c.poses[h] != nil
}

// Initialized reports whether h has a cached bind pose.
func (c *Cache) Initialized(h hand.Handedness) bool {
	_, ok := c.Get(h)
	return ok
}
