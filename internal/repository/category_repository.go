package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
)

// CategoryRepository stores categories. Default categories have no owner.
type CategoryRepository interface {
	Repository[models.Category, uint]
	FindByUserID(ctx context.Context, userID uint) ([]models.Category, error)
	// FindByNameAndUserID looks a name up within one owner's scope. A zero
	// userID selects the default categories.
	FindByNameAndUserID(ctx context.Context, name string, userID uint) (*models.Category, error)
	FindDefaultCategories(ctx context.Context) ([]models.Category, error)
}

type categoryRepository struct {
	store
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(provider ConnectionProvider) CategoryRepository {
	return &categoryRepository{
		store: newStore(provider, "category", errorMap{
			notFound:   apperrors.ErrCategoryNotFound,
			duplicate:  apperrors.ErrDuplicateCategory,
			foreignKey: apperrors.WithMessage(apperrors.ErrInvalidInput, "category owner does not exist"),
		}),
	}
}

func (r *categoryRepository) FindByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	err := r.run(ctx, "find_by_id", func(db *gorm.DB) error {
		return db.First(&category, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindAll(ctx context.Context) ([]models.Category, error) {
	return r.list(ctx, "find_all", func(db *gorm.DB) *gorm.DB { return db })
}

func (r *categoryRepository) FindByUserID(ctx context.Context, userID uint) ([]models.Category, error) {
	return r.list(ctx, "find_by_user_id", func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	})
}

func (r *categoryRepository) FindDefaultCategories(ctx context.Context) ([]models.Category, error) {
	return r.list(ctx, "find_default", func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id IS NULL")
	})
}

func (r *categoryRepository) FindByNameAndUserID(ctx context.Context, name string, userID uint) (*models.Category, error) {
	var category models.Category
	err := r.run(ctx, "find_by_name_and_user_id", func(db *gorm.DB) error {
		return db.Where("IFNULL(user_id, 0) = ? AND name = ?", userID, strings.TrimSpace(name)).
			First(&category).Error
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Save inserts category and fills in its ID. A name already used in the same
// owner scope is reported as DUPLICATE_CATEGORY.
func (r *categoryRepository) Save(ctx context.Context, category *models.Category) error {
	category.Name = strings.TrimSpace(category.Name)
	return r.run(ctx, "save", func(db *gorm.DB) error {
		return db.Create(category).Error
	})
}

// Update rewrites the name and description. The owner of a category never
// changes.
func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	category.Name = strings.TrimSpace(category.Name)
	return r.run(ctx, "update", func(db *gorm.DB) error {
		return r.affected(db.Model(&models.Category{}).
			Where("id = ?", category.ID).
			Updates(map[string]interface{}{
				"name":        category.Name,
				"description": category.Description,
			}))
	})
}

// Delete removes the category. Categories still referenced by an expense
// cannot be deleted.
func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	return r.run(ctx, "delete", func(db *gorm.DB) error {
		err := r.affected(db.Delete(&models.Category{}, id))
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return apperrors.ErrCategoryInUse
		}
		return err
	})
}

func (r *categoryRepository) list(ctx context.Context, op string, scope func(db *gorm.DB) *gorm.DB) ([]models.Category, error) {
	categories := []models.Category{}
	err := r.run(ctx, op, func(db *gorm.DB) error {
		return db.Scopes(scope).Order("id").Find(&categories).Error
	})
	if err != nil {
		return []models.Category{}, err
	}
	return categories, nil
}
