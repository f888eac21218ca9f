package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	"expensetracker/internal/cache"
	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
	"expensetracker/internal/repository"
	"expensetracker/internal/validator"
)

// categoryService handles category-related business logic.
type categoryService struct {
	categories repository.CategoryRepository
	cache      *cache.CategoryCache
}

// NewCategoryService creates a new CategoryServicer. defaults may be nil, in
// which case default categories are read from storage on every call.
func NewCategoryService(categories repository.CategoryRepository, defaults *cache.CategoryCache) CategoryServicer {
	return &categoryService{categories: categories, cache: defaults}
}

// CreateCategory creates a category owned by ownerID. The name is trimmed and
// must be unique among the owner's categories.
func (s *categoryService) CreateCategory(ctx context.Context, name, description string, ownerID uint) (*models.Category, error) {
	if ownerID == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category owner is required")
	}

	category := &models.Category{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		UserID:      &ownerID,
	}
	if err := validator.Struct(category); err != nil {
		return nil, err
	}

	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// GetCategoryByID retrieves a category by ID.
func (s *categoryService) GetCategoryByID(ctx context.Context, id uint) (*models.Category, error) {
	return s.categories.FindByID(ctx, id)
}

// GetCategoryByName retrieves the category called name in ownerID's scope.
// A zero ownerID looks among the default categories.
func (s *categoryService) GetCategoryByName(ctx context.Context, name string, ownerID uint) (*models.Category, error) {
	return s.categories.FindByNameAndUserID(ctx, name, ownerID)
}

// CategoryExists reports whether ownerID already has a category called name.
func (s *categoryService) CategoryExists(ctx context.Context, name string, ownerID uint) (bool, error) {
	_, err := s.categories.FindByNameAndUserID(ctx, name, ownerID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, apperrors.ErrCategoryNotFound):
		return false, nil
	default:
		return false, err
	}
}

// GetUserCategories lists the categories owned by ownerID.
func (s *categoryService) GetUserCategories(ctx context.Context, ownerID uint) ([]models.Category, error) {
	return s.categories.FindByUserID(ctx, ownerID)
}

// GetDefaultCategories lists the ownerless categories shared by every user.
func (s *categoryService) GetDefaultCategories(ctx context.Context) ([]models.Category, error) {
	if s.cache != nil {
		if defaults, ok := s.cache.Defaults(); ok {
			return defaults, nil
		}
	}

	defaults, err := s.categories.FindDefaultCategories(ctx)
	if err != nil {
		return defaults, err
	}
	if s.cache != nil {
		s.cache.SetDefaults(defaults)
	}
	return defaults, nil
}

// GetAllCategories lists every category.
func (s *categoryService) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.FindAll(ctx)
}

// GetAvailableCategories lists the categories ownerID may file expenses
// under: their own followed by the defaults.
func (s *categoryService) GetAvailableCategories(ctx context.Context, ownerID uint) ([]models.Category, error) {
	var owned, defaults []models.Category

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		owned, err = s.categories.FindByUserID(gctx, ownerID)
		return err
	})
	g.Go(func() error {
		var err error
		defaults, err = s.GetDefaultCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return []models.Category{}, err
	}

	available := make([]models.Category, 0, len(owned)+len(defaults))
	seen := make(map[uint]struct{}, cap(available))
	for _, group := range [][]models.Category{owned, defaults} {
		for _, c := range group {
			if _, dup := seen[c.ID]; dup {
				continue
			}
			seen[c.ID] = struct{}{}
			available = append(available, c)
		}
	}
	return available, nil
}

// UpdateCategory renames a category owned by ownerID.
func (s *categoryService) UpdateCategory(ctx context.Context, id uint, name, description string, ownerID uint) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if err := validator.Var("name", name, "notblank,max=100"); err != nil {
		return nil, err
	}

	category, err := s.ownedCategory(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	category.Name = name
	category.Description = strings.TrimSpace(description)
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory deletes a category owned by ownerID. A category that still
// has expenses filed under it is kept and CATEGORY_IN_USE is returned.
func (s *categoryService) DeleteCategory(ctx context.Context, id, ownerID uint) error {
	if _, err := s.ownedCategory(ctx, id, ownerID); err != nil {
		return err
	}
	return s.categories.Delete(ctx, id)
}

// ownedCategory loads the category and checks that ownerID owns it.
func (s *categoryService) ownedCategory(ctx context.Context, id, ownerID uint) (*models.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category.IsDefault() {
		return nil, apperrors.WithMessage(apperrors.ErrForbidden, "default categories cannot be modified")
	}
	if !category.OwnedBy(ownerID) {
		return nil, apperrors.WithMessage(apperrors.ErrForbidden, "category belongs to another user")
	}
	return category, nil
}
