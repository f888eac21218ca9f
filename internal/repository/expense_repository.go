package repository

import (
	"context"

	"gorm.io/gorm"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
	"expensetracker/internal/pagination"
)

// ExpenseRepository stores expenses.
type ExpenseRepository interface {
	Repository[models.Expense, uint]
	FindByUserID(ctx context.Context, userID uint) ([]models.Expense, error)
	// FindByUserIDPage returns one page of the user's expenses, newest first,
	// together with the total number of expenses the user has.
	FindByUserIDPage(ctx context.Context, userID uint, page pagination.PageRequest) ([]models.Expense, int64, error)
	// SumByUserID totals the amounts of the user's expenses. It is 0 for a
	// user without expenses.
	SumByUserID(ctx context.Context, userID uint) (float64, error)
}

type expenseRepository struct {
	store
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(provider ConnectionProvider) ExpenseRepository {
	return &expenseRepository{
		store: newStore(provider, "expense", errorMap{
			notFound:   apperrors.ErrExpenseNotFound,
			foreignKey: apperrors.WithMessage(apperrors.ErrInvalidInput, "expense references an unknown user or category"),
		}),
	}
}

func (r *expenseRepository) FindByID(ctx context.Context, id uint) (*models.Expense, error) {
	var expense models.Expense
	err := r.run(ctx, "find_by_id", func(db *gorm.DB) error {
		return db.First(&expense, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) FindAll(ctx context.Context) ([]models.Expense, error) {
	expenses := []models.Expense{}
	err := r.run(ctx, "find_all", func(db *gorm.DB) error {
		return db.Order("id").Find(&expenses).Error
	})
	if err != nil {
		return []models.Expense{}, err
	}
	return expenses, nil
}

func (r *expenseRepository) FindByUserID(ctx context.Context, userID uint) ([]models.Expense, error) {
	expenses := []models.Expense{}
	err := r.run(ctx, "find_by_user_id", func(db *gorm.DB) error {
		return db.Where("user_id = ?", userID).Order("date DESC, id DESC").Find(&expenses).Error
	})
	if err != nil {
		return []models.Expense{}, err
	}
	return expenses, nil
}

func (r *expenseRepository) FindByUserIDPage(ctx context.Context, userID uint, page pagination.PageRequest) ([]models.Expense, int64, error) {
	page.Defaults()

	var total int64
	expenses := []models.Expense{}
	// The count and the page read one snapshot. A window count on the page
	// query would lose the total for a page past the end.
	err := r.run(ctx, "find_by_user_id_page", func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Expense{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
				return err
			}
			return tx.Where("user_id = ?", userID).
				Scopes(pagination.Paginate(page)).
				Order("date DESC, id DESC").
				Find(&expenses).Error
		})
	})
	if err != nil {
		return []models.Expense{}, 0, err
	}
	return expenses, total, nil
}

func (r *expenseRepository) SumByUserID(ctx context.Context, userID uint) (float64, error) {
	var total float64
	err := r.run(ctx, "sum_by_user_id", func(db *gorm.DB) error {
		return db.Model(&models.Expense{}).
			Where("user_id = ?", userID).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&total).Error
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// Save inserts expense with its date truncated to the calendar day and fills
// in its ID.
func (r *expenseRepository) Save(ctx context.Context, expense *models.Expense) error {
	expense.Date = models.DateOf(expense.Date)
	return r.run(ctx, "save", func(db *gorm.DB) error {
		return db.Create(expense).Error
	})
}

// Update rewrites the description, amount, date and category of an existing
// expense. Its owner never changes.
// The caller's struct is left as it was passed in.
func (r *expenseRepository) Update(ctx context.Context, expense *models.Expense) error {
	row := *expense
	row.Date = models.DateOf(row.Date)
	return r.run(ctx, "update", func(db *gorm.DB) error {
		return r.affected(db.Model(&models.Expense{}).
			Where("id = ?", row.ID).
			Updates(map[string]interface{}{
				"description": row.Description,
				"amount":      row.Amount,
				"date":        row.Date,
				"category_id": row.CategoryID,
			}))
	})
}

func (r *expenseRepository) Delete(ctx context.Context, id uint) error {
	return r.run(ctx, "delete", func(db *gorm.DB) error {
		return r.affected(db.Delete(&models.Expense{}, id))
	})
}
