package services

import (
	"context"
	"testing"

	"expensetracker/internal/models"
	"expensetracker/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		env := newTestEnv(t)
		user := testutil.CreateTestUser(t, env.mgr)

		cat, err := env.categories.CreateCategory(ctx, " Groceries ", "Food shopping", user.ID)
		testutil.AssertNoError(t, err)

		if cat.ID == 0 {
			t.Fatal("expected non-zero category ID")
		}
		if cat.Name != "Groceries" {
			t.Errorf("expected name Groceries, got %s", cat.Name)
		}
		if !cat.OwnedBy(user.ID) {
			t.Errorf("expected category owned by %d", user.ID)
		}
	})

	t.Run("duplicate_name", func(t *testing.T) {
		env := newTestEnv(t)
		user := testutil.CreateTestUser(t, env.mgr)

		_, err := env.categories.CreateCategory(ctx, "Food", "", user.ID)
		testutil.AssertNoError(t, err)

		_, err = env.categories.CreateCategory(ctx, "Food", "", user.ID)
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY")

		owned, err := env.categories.GetUserCategories(ctx, user.ID)
		testutil.AssertNoError(t, err)

		foods := 0
		for _, c := range owned {
			if c.Name == "Food" {
				foods++
			}
		}
		if foods != 1 {
			t.Errorf("expected exactly one Food category, got %d", foods)
		}
	})

	t.Run("same_name_different_owner", func(t *testing.T) {
		env := newTestEnv(t)
		alice := testutil.CreateTestUser(t, env.mgr)
		bob := testutil.CreateTestUser(t, env.mgr)

		_, err := env.categories.CreateCategory(ctx, "Hobbies", "", alice.ID)
		testutil.AssertNoError(t, err)

		_, err = env.categories.CreateCategory(ctx, "Hobbies", "", bob.ID)
		testutil.AssertNoError(t, err)
	})

	t.Run("empty_name", func(t *testing.T) {
		env := newTestEnv(t)
		user := testutil.CreateTestUser(t, env.mgr)

		_, err := env.categories.CreateCategory(ctx, "   ", "", user.ID)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("missing_owner", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.categories.CreateCategory(ctx, "Nobody's", "", 0)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestCategoryLookups(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := testutil.CreateTestUser(t, env.mgr)
	created := testutil.CreateTestCategoryWithName(t, env.mgr, user.ID, "Travel")

	t.Run("by_id", func(t *testing.T) {
		cat, err := env.categories.GetCategoryByID(ctx, created.ID)
		testutil.AssertNoError(t, err)
		if cat.Name != "Travel" {
			t.Errorf("expected Travel, got %s", cat.Name)
		}

		_, err = env.categories.GetCategoryByID(ctx, 9999)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("by_name", func(t *testing.T) {
		cat, err := env.categories.GetCategoryByName(ctx, "Travel", user.ID)
		testutil.AssertNoError(t, err)
		if cat.ID != created.ID {
			t.Errorf("expected category %d, got %d", created.ID, cat.ID)
		}

		def, err := env.categories.GetCategoryByName(ctx, "Bills", 0)
		testutil.AssertNoError(t, err)
		if !def.IsDefault() {
			t.Error("expected Bills to be a default category")
		}
	})

	t.Run("exists", func(t *testing.T) {
		exists, err := env.categories.CategoryExists(ctx, "Travel", user.ID)
		testutil.AssertNoError(t, err)
		if !exists {
			t.Error("expected Travel to exist")
		}

		exists, err = env.categories.CategoryExists(ctx, "Travel", 0)
		testutil.AssertNoError(t, err)
		if exists {
			t.Error("Travel is not a default category")
		}
	})

	t.Run("defaults", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			defaults, err := env.categories.GetDefaultCategories(ctx)
			testutil.AssertNoError(t, err)
			if len(defaults) != len(models.DefaultCategoryNames) {
				t.Fatalf("expected %d defaults, got %d", len(models.DefaultCategoryNames), len(defaults))
			}
			for _, c := range defaults {
				if !c.IsDefault() {
					t.Errorf("expected %s to be ownerless", c.Name)
				}
			}
		}
	})

	t.Run("all", func(t *testing.T) {
		all, err := env.categories.GetAllCategories(ctx)
		testutil.AssertNoError(t, err)
		if len(all) != len(models.DefaultCategoryNames)+1 {
			t.Errorf("expected %d categories, got %d", len(models.DefaultCategoryNames)+1, len(all))
		}
	})
}

func TestGetAvailableCategories(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := testutil.CreateTestUser(t, env.mgr)
	bob := testutil.CreateTestUser(t, env.mgr)

	mine := testutil.CreateTestCategory(t, env.mgr, alice.ID)
	theirs := testutil.CreateTestCategory(t, env.mgr, bob.ID)

	available, err := env.categories.GetAvailableCategories(ctx, alice.ID)
	testutil.AssertNoError(t, err)

	if len(available) != len(models.DefaultCategoryNames)+1 {
		t.Fatalf("expected %d categories, got %d", len(models.DefaultCategoryNames)+1, len(available))
	}

	seen := map[uint]int{}
	for _, c := range available {
		seen[c.ID]++
		if c.ID == theirs.ID {
			t.Error("another user's category must not be available")
		}
	}
	for id, n := range seen {
		if n > 1 {
			t.Errorf("category %d listed %d times", id, n)
		}
	}
	if seen[mine.ID] != 1 {
		t.Error("expected the owner's category to be available")
	}
}

func TestUpdateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("owner", func(t *testing.T) {
		env := newTestEnv(t)
		user := testutil.CreateTestUser(t, env.mgr)
		cat := testutil.CreateTestCategory(t, env.mgr, user.ID)

		updated, err := env.categories.UpdateCategory(ctx, cat.ID, "Dining", "restaurants", user.ID)
		testutil.AssertNoError(t, err)

		if updated.Name != "Dining" || updated.Description != "restaurants" {
			t.Errorf("unexpected category after update: %+v", updated)
		}
	})

	t.Run("not_owner", func(t *testing.T) {
		env := newTestEnv(t)
		owner := testutil.CreateTestUser(t, env.mgr)
		intruder := testutil.CreateTestUser(t, env.mgr)
		cat := testutil.CreateTestCategoryWithName(t, env.mgr, owner.ID, "Original")

		_, err := env.categories.UpdateCategory(ctx, cat.ID, "Hijacked", "", intruder.ID)
		testutil.AssertAppError(t, err, "FORBIDDEN")

		stored, err := env.categories.GetCategoryByID(ctx, cat.ID)
		testutil.AssertNoError(t, err)
		if stored.Name != "Original" {
			t.Errorf("expected name to stay Original, got %s", stored.Name)
		}
	})

	t.Run("default_category", func(t *testing.T) {
		env := newTestEnv(t)
		user := testutil.CreateTestUser(t, env.mgr)
		food := testutil.DefaultCategory(t, env.mgr, "Food")

		_, err := env.categories.UpdateCategory(ctx, food.ID, "Snacks", "", user.ID)
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})

	t.Run("not_found", func(t *testing.T) {
		env := newTestEnv(t)
		user := testutil.CreateTestUser(t, env.mgr)

		_, err := env.categories.UpdateCategory(ctx, 9999, "Name", "", user.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("blank_name", func(t *testing.T) {
		env := newTestEnv(t)
		user := testutil.CreateTestUser(t, env.mgr)
		cat := testutil.CreateTestCategory(t, env.mgr, user.ID)

		_, err := env.categories.UpdateCategory(ctx, cat.ID, " ", "", user.ID)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rename_to_existing", func(t *testing.T) {
		env := newTestEnv(t)
		user := testutil.CreateTestUser(t, env.mgr)
		testutil.CreateTestCategoryWithName(t, env.mgr, user.ID, "Taken")
		cat := testutil.CreateTestCategory(t, env.mgr, user.ID)

		_, err := env.categories.UpdateCategory(ctx, cat.ID, "Taken", "", user.ID)
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY")
	})
}

func TestDeleteCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("owner", func(t *testing.T) {
		env := newTestEnv(t)
		user := testutil.CreateTestUser(t, env.mgr)
		cat := testutil.CreateTestCategory(t, env.mgr, user.ID)

		testutil.AssertNoError(t, env.categories.DeleteCategory(ctx, cat.ID, user.ID))

		_, err := env.categories.GetCategoryByID(ctx, cat.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("not_owner", func(t *testing.T) {
		env := newTestEnv(t)
		owner := testutil.CreateTestUser(t, env.mgr)
		intruder := testutil.CreateTestUser(t, env.mgr)
		cat := testutil.CreateTestCategory(t, env.mgr, owner.ID)

		err := env.categories.DeleteCategory(ctx, cat.ID, intruder.ID)
		testutil.AssertAppError(t, err, "FORBIDDEN")

		_, err = env.categories.GetCategoryByID(ctx, cat.ID)
		testutil.AssertNoError(t, err)
	})

	t.Run("default_category", func(t *testing.T) {
		env := newTestEnv(t)
		user := testutil.CreateTestUser(t, env.mgr)
		other := testutil.DefaultCategory(t, env.mgr, "Other")

		err := env.categories.DeleteCategory(ctx, other.ID, user.ID)
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})

	t.Run("in_use", func(t *testing.T) {
		env := newTestEnv(t)
		user := testutil.CreateTestUser(t, env.mgr)
		cat := testutil.CreateTestCategory(t, env.mgr, user.ID)
		testutil.CreateTestExpense(t, env.mgr, user.ID, cat.ID, 20)

		err := env.categories.DeleteCategory(ctx, cat.ID, user.ID)
		testutil.AssertAppError(t, err, "CATEGORY_IN_USE")
	})
}
