package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"expensetracker/internal/auth"
	"expensetracker/internal/database"
	"expensetracker/internal/models"
)

// TestPassword is the plaintext password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a unique username whose password is
// TestPassword, stored as a SHA-256 credential.
func CreateTestUser(t *testing.T, mgr *database.Manager) *models.User {
	t.Helper()
	return CreateTestUserWithUsername(t, mgr, fmt.Sprintf("user%d", nextID()))
}

// CreateTestUserWithUsername creates a user with the given username.
func CreateTestUserWithUsername(t *testing.T, mgr *database.Manager, username string) *models.User {
	t.Helper()

	hash, err := auth.SHA256Hasher{}.Hash(TestPassword)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username: username,
		Password: hash,
		Email:    username + "@test.com",
	}
	if err := mgr.DB().Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category owned by userID.
func CreateTestCategory(t *testing.T, mgr *database.Manager, userID uint) *models.Category {
	t.Helper()
	return CreateTestCategoryWithName(t, mgr, userID, fmt.Sprintf("Test Category %d", nextID()))
}

// CreateTestCategoryWithName creates a category with the given name owned by userID.
func CreateTestCategoryWithName(t *testing.T, mgr *database.Manager, userID uint, name string) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:   name,
		UserID: &userID,
	}
	if err := mgr.DB().Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// DefaultCategory returns the seeded default category with the given name.
func DefaultCategory(t *testing.T, mgr *database.Manager, name string) *models.Category {
	t.Helper()

	var category models.Category
	if err := mgr.DB().Where("user_id IS NULL AND name = ?", name).First(&category).Error; err != nil {
		t.Fatalf("failed to load default category %q: %v", name, err)
	}
	return &category
}

// CreateTestExpense creates an expense dated today.
func CreateTestExpense(t *testing.T, mgr *database.Manager, userID, categoryID uint, amount float64) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		Description: fmt.Sprintf("Test Expense %d", nextID()),
		Amount:      amount,
		Date:        models.DateOf(time.Now()),
		CategoryID:  categoryID,
		UserID:      userID,
	}
	if err := mgr.DB().Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}
