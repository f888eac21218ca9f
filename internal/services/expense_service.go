package services

import (
	"context"
	"errors"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
	"expensetracker/internal/pagination"
	"expensetracker/internal/repository"
	"expensetracker/internal/validator"
)

// expenseService handles expense-related business logic.
type expenseService struct {
	expenses   repository.ExpenseRepository
	categories repository.CategoryRepository
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(expenses repository.ExpenseRepository, categories repository.CategoryRepository) ExpenseServicer {
	return &expenseService{expenses: expenses, categories: categories}
}

// CreateExpense records a new expense for expense.UserID. The amount must be
// positive, the date must not be after today, and the category must be one
// the owner may use.
func (s *expenseService) CreateExpense(ctx context.Context, expense *models.Expense) (*models.Expense, error) {
	if expense == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "expense is required")
	}
	if err := validator.Struct(expense); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, expense.CategoryID, expense.UserID); err != nil {
		return nil, err
	}

	created := *expense
	created.ID = 0
	if err := s.expenses.Save(ctx, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateExpense rewrites an expense by id. It does not check who owns the
// expense; UpdateOwnExpense does.
func (s *expenseService) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	if err := validateUpdate(expense); err != nil {
		return err
	}
	return s.expenses.Update(ctx, expense)
}

// DeleteExpense deletes an expense by id. It does not check who owns the
// expense; DeleteOwnExpense does.
func (s *expenseService) DeleteExpense(ctx context.Context, id uint) error {
	if id == 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "expense id must be positive")
	}
	return s.expenses.Delete(ctx, id)
}

// UpdateOwnExpense is UpdateExpense restricted to expenses owned by ownerID.
func (s *expenseService) UpdateOwnExpense(ctx context.Context, ownerID uint, expense *models.Expense) error {
	if err := validateUpdate(expense); err != nil {
		return err
	}
	if _, err := s.ownedExpense(ctx, expense.ID, ownerID); err != nil {
		return err
	}
	if err := s.checkCategory(ctx, expense.CategoryID, ownerID); err != nil {
		return err
	}
	return s.expenses.Update(ctx, expense)
}

// DeleteOwnExpense is DeleteExpense restricted to expenses owned by ownerID.
func (s *expenseService) DeleteOwnExpense(ctx context.Context, ownerID, id uint) error {
	if id == 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "expense id must be positive")
	}
	if _, err := s.ownedExpense(ctx, id, ownerID); err != nil {
		return err
	}
	return s.expenses.Delete(ctx, id)
}

// GetExpenseByID retrieves an expense by ID.
func (s *expenseService) GetExpenseByID(ctx context.Context, id uint) (*models.Expense, error) {
	return s.expenses.FindByID(ctx, id)
}

// GetExpensesByUserID lists ownerID's expenses, newest first.
func (s *expenseService) GetExpensesByUserID(ctx context.Context, ownerID uint) ([]models.Expense, error) {
	return s.expenses.FindByUserID(ctx, ownerID)
}

// GetAllExpenses lists every expense.
func (s *expenseService) GetAllExpenses(ctx context.Context) ([]models.Expense, error) {
	return s.expenses.FindAll(ctx)
}

// GetUserExpensesPage retrieves a paginated list of ownerID's expenses.
func (s *expenseService) GetUserExpensesPage(ctx context.Context, ownerID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	if err := validator.Struct(page); err != nil {
		return nil, err
	}
	page.Defaults()

	expenses, total, err := s.expenses.FindByUserIDPage(ctx, ownerID, page)
	if err != nil {
		return nil, err
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, total)
	return &result, nil
}

// GetTotalExpensesByUser sums the amounts of ownerID's expenses. A user
// without expenses totals 0.
func (s *expenseService) GetTotalExpensesByUser(ctx context.Context, ownerID uint) (float64, error) {
	return s.expenses.SumByUserID(ctx, ownerID)
}

// validateUpdate rejects an update before any storage access.
func validateUpdate(expense *models.Expense) error {
	if expense == nil || expense.ID == 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "expense id must be positive")
	}
	if err := validator.Var("amount", expense.Amount, "finite,gt=0"); err != nil {
		return err
	}
	if err := validator.Var("date", expense.Date, "required,notfuture"); err != nil {
		return err
	}
	return validator.Var("category_id", expense.CategoryID, "required")
}

// checkCategory verifies that the category exists and is either a default
// category or owned by ownerID.
func (s *expenseService) checkCategory(ctx context.Context, categoryID, ownerID uint) error {
	category, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrCategoryNotFound) {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "category does not exist")
		}
		return err
	}
	if !category.IsDefault() && !category.OwnedBy(ownerID) {
		return apperrors.WithMessage(apperrors.ErrForbidden, "category belongs to another user")
	}
	return nil
}

// ownedExpense loads the expense and checks that ownerID owns it.
func (s *expenseService) ownedExpense(ctx context.Context, id, ownerID uint) (*models.Expense, error) {
	expense, err := s.expenses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !expense.OwnedBy(ownerID) {
		return nil, apperrors.WithMessage(apperrors.ErrForbidden, "expense belongs to another user")
	}
	return expense, nil
}
