package sessions

import (
	"context"
	"sync"
	"time"

	"filesmanager/internal/common"
	"filesmanager/internal/server/models"
)

// janitorInterval is how often expired entries are swept out. Expiry is also
// checked lazily on Get, so the sweep only bounds memory growth.
const janitorInterval = time.Minute

// MemoryCache is an in-process Cache implementation. It is safe for
// concurrent use and is the default session backend.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]models.Session
	done    chan struct{}
	once    sync.Once
}

// NewMemoryCache constructs a MemoryCache and starts its cleanup goroutine.
// Callers must Close it to stop the goroutine.
func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]models.Session),
		done:    make(chan struct{}),
	}
	go c.janitor()
	return c
}

func (c *MemoryCache) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *MemoryCache) removeExpired() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for token, sess := range c.entries {
		if now.After(sess.ExpiresAt) {
			delete(c.entries, token)
		}
	}
}

func (c *MemoryCache) Set(ctx context.Context, token, userID string, ttl time.Duration) error {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[token] = models.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	return nil
}

func (c *MemoryCache) Get(ctx context.Context, token string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sess, ok := c.entries[token]
	if !ok {
		return "", common.ErrorNotFound
	}
	if time.Now().After(sess.ExpiresAt) {
		delete(c.entries, token)
		return "", common.ErrorNotFound
	}
	return sess.UserID, nil
}

func (c *MemoryCache) Delete(ctx context.Context, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, token)
	return nil
}

func (c *MemoryCache) Ping(ctx context.Context) error {
	return nil
}

// Close stops the cleanup goroutine. Safe to call more than once.
func (c *MemoryCache) Close() {
	c.once.Do(func() { close(c.done) })
}
