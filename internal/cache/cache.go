// Package cache keeps read-mostly category lists in memory so that repeated
// lookups do not take a pooled connection.
package cache

import (
	"fmt"

	"github.com/dgraph-io/ristretto/v2"

	"expensetracker/internal/models"
)

const defaultsKey = "categories:default"

// CategoryCache caches category lists by key.
type CategoryCache struct {
	store *ristretto.Cache[string, []models.Category]
}

// NewCategoryCache creates an empty cache.
func NewCategoryCache() (*CategoryCache, error) {
	store, err := ristretto.NewCache(&ristretto.Config[string, []models.Category]{
		NumCounters:        1000, // number of keys to track frequency of
		MaxCost:            100,
		BufferItems:        64, // number of keys per Get buffer
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize category cache: %w", err)
	}
	return &CategoryCache{store: store}, nil
}

// Defaults returns a copy of the cached default categories.
func (c *CategoryCache) Defaults() ([]models.Category, bool) {
	categories, ok := c.store.Get(defaultsKey)
	if !ok {
		return nil, false
	}
	return clone(categories), true
}

// SetDefaults stores the default categories. The value is visible to Defaults
// once SetDefaults returns.
func (c *CategoryCache) SetDefaults(categories []models.Category) {
	c.store.Set(defaultsKey, clone(categories), 1)
	c.store.Wait()
}

// Close stops the cache's background goroutines.
func (c *CategoryCache) Close() {
	c.store.Close()
}

func clone(categories []models.Category) []models.Category {
	out := make([]models.Category, len(categories))
	copy(out, categories)
	return out
}
