package cache

import (
	"testing"

	"expensetracker/internal/models"
)

func TestCategoryCache(t *testing.T) {
	c, err := NewCategoryCache()
	if err != nil {
		t.Fatalf("NewCategoryCache: %v", err)
	}
	defer c.Close()

	t.Run("miss_before_set", func(t *testing.T) {
		if _, ok := c.Defaults(); ok {
			t.Fatal("expected a miss on an empty cache")
		}
	})

	t.Run("hit_after_set", func(t *testing.T) {
		c.SetDefaults([]models.Category{{Name: "Food"}, {Name: "Bills"}})

		got, ok := c.Defaults()
		if !ok {
			t.Fatal("expected a hit after SetDefaults")
		}
		if len(got) != 2 || got[0].Name != "Food" {
			t.Errorf("unexpected cached categories: %+v", got)
		}
	})

	t.Run("returns_copies", func(t *testing.T) {
		got, _ := c.Defaults()
		got[0].Name = "Mutated"

		again, _ := c.Defaults()
		if again[0].Name != "Food" {
			t.Errorf("cached value was mutated through a returned slice: %q", again[0].Name)
		}
	})
}
