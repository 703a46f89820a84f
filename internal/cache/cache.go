package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Skotchmaster/meat_shop/internal/models"
)

// ErrMiss is returned by Get when nothing fresh is cached.
var ErrMiss = errors.New("cache miss")

// ProductCache holds the last fetched active product list.
type ProductCache interface {
	Get(ctx context.Context) ([]models.Product, error)
	Set(ctx context.Context, items []models.Product) error
	Invalidate(ctx context.Context) error
}

type MemoryCache struct {
	ttl time.Duration
	now func() time.Time

	mu        sync.RWMutex
	items     []models.Product
	expiresAt time.Time
}

func NewMemory(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context) ([]models.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.items == nil || !c.now().Before(c.expiresAt) {
		return nil, ErrMiss
	}
	out := make([]models.Product, len(c.items))
	copy(out, c.items)
	return out, nil
}

func (c *MemoryCache) Set(_ context.Context, items []models.Product) error {
	if c.ttl <= 0 {
		return nil
	}
	cp := make([]models.Product, len(items))
	copy(cp, items)

	c.mu.Lock()
	c.items = cp
	c.expiresAt = c.now().Add(c.ttl)
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	c.items = nil
	c.expiresAt = time.Time{}
	c.mu.Unlock()
	return nil
}
