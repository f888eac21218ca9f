package services

import (
	"context"

	"expensetracker/internal/auth"
	"expensetracker/internal/models"
	"expensetracker/internal/pagination"
)

// AuthServicer defines the contract for registration, login and the session
// held for the acting user.
type AuthServicer interface {
	Register(ctx context.Context, username, password, email string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*auth.Session, error)
	Logout()
	CurrentUser() (*models.User, bool)
	CurrentSession() *auth.Session
	ResumeSession(ctx context.Context, token string) (*auth.Session, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(ctx context.Context, name, description string, ownerID uint) (*models.Category, error)
	GetCategoryByID(ctx context.Context, id uint) (*models.Category, error)
	GetCategoryByName(ctx context.Context, name string, ownerID uint) (*models.Category, error)
	CategoryExists(ctx context.Context, name string, ownerID uint) (bool, error)
	GetUserCategories(ctx context.Context, ownerID uint) ([]models.Category, error)
	GetDefaultCategories(ctx context.Context) ([]models.Category, error)
	GetAllCategories(ctx context.Context) ([]models.Category, error)
	GetAvailableCategories(ctx context.Context, ownerID uint) ([]models.Category, error)
	UpdateCategory(ctx context.Context, id uint, name, description string, ownerID uint) (*models.Category, error)
	DeleteCategory(ctx context.Context, id, ownerID uint) error
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(ctx context.Context, expense *models.Expense) (*models.Expense, error)
	UpdateExpense(ctx context.Context, expense *models.Expense) error
	DeleteExpense(ctx context.Context, id uint) error
	UpdateOwnExpense(ctx context.Context, ownerID uint, expense *models.Expense) error
	DeleteOwnExpense(ctx context.Context, ownerID, id uint) error
	GetExpenseByID(ctx context.Context, id uint) (*models.Expense, error)
	GetExpensesByUserID(ctx context.Context, ownerID uint) ([]models.Expense, error)
	GetAllExpenses(ctx context.Context) ([]models.Expense, error)
	GetUserExpensesPage(ctx context.Context, ownerID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
	GetTotalExpensesByUser(ctx context.Context, ownerID uint) (float64, error)
}
