package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"expensetracker/internal/models"
)

// seedDefaultCategories inserts the ownerless default categories when the
// categories table is empty. It reports whether anything was inserted.
func seedDefaultCategories(ctx context.Context, db *gorm.DB) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Category{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	defaults := make([]models.Category, 0, len(models.DefaultCategoryNames))
	for _, name := range models.DefaultCategoryNames {
		defaults = append(defaults, models.Category{Name: name})
	}

	if err := db.WithContext(ctx).Create(&defaults).Error; err != nil {
		// Another process seeded between the count and the insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, fmt.Errorf("seed default categories: %w", err)
	}
	return true, nil
}
