package testutil_test

import (
	"testing"

	"expensetracker/internal/errors"
	"expensetracker/internal/models"
	"expensetracker/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	mgr := testutil.SetupTestDB(t)

	var count int64
	for _, table := range []string{"users", "categories", "expenses"} {
		if err := mgr.DB().Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}

	if err := mgr.DB().Model(&models.Category{}).Where("user_id IS NULL").Count(&count).Error; err != nil {
		t.Fatalf("count default categories: %v", err)
	}
	if count != int64(len(models.DefaultCategoryNames)) {
		t.Errorf("expected %d default categories, got %d", len(models.DefaultCategoryNames), count)
	}
}

func TestSetupTestDB_Isolated(t *testing.T) {
	first := testutil.SetupTestDB(t)
	second := testutil.SetupTestDB(t)

	testutil.CreateTestUser(t, first)

	var count int64
	if err := second.DB().Model(&models.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 0 {
		t.Errorf("expected an empty users table in a separate database, got %d rows", count)
	}
}

func TestFixtures(t *testing.T) {
	mgr := testutil.SetupTestDB(t)

	user := testutil.CreateTestUser(t, mgr)
	if user.ID == 0 {
		t.Fatal("user should have a non-zero ID")
	}

	category := testutil.CreateTestCategory(t, mgr, user.ID)
	if !category.OwnedBy(user.ID) {
		t.Errorf("expected category to be owned by user %d", user.ID)
	}

	food := testutil.DefaultCategory(t, mgr, "Food")
	if !food.IsDefault() {
		t.Error("expected Food to be a default category")
	}

	expense := testutil.CreateTestExpense(t, mgr, user.ID, category.ID, 12.5)
	if expense.Amount != 12.5 {
		t.Errorf("expected amount 12.5, got %f", expense.Amount)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrCategoryNotFound, "custom message")
	testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
