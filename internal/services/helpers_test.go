package services

import (
	"testing"
	"time"

	"expensetracker/internal/auth"
	"expensetracker/internal/cache"
	"expensetracker/internal/database"
	"expensetracker/internal/repository"
	"expensetracker/internal/testutil"
)

const testSecret = "test-session-secret"

// testEnv wires the services over an isolated database.
type testEnv struct {
	mgr        *database.Manager
	auth       AuthServicer
	categories CategoryServicer
	expenses   ExpenseServicer
	tokens     *auth.TokenIssuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithHasher(t, auth.SHA256Hasher{})
}

func newTestEnvWithHasher(t *testing.T, hasher auth.CredentialHasher) *testEnv {
	t.Helper()

	mgr := testutil.SetupTestDB(t)

	defaults, err := cache.NewCategoryCache()
	if err != nil {
		t.Fatalf("failed to create category cache: %v", err)
	}
	t.Cleanup(defaults.Close)

	users := repository.NewUserRepository(mgr, hasher)
	categories := repository.NewCategoryRepository(mgr)
	expenses := repository.NewExpenseRepository(mgr)
	tokens := auth.NewTokenIssuer(testSecret, time.Hour)

	return &testEnv{
		mgr:        mgr,
		auth:       NewAuthService(users, tokens),
		categories: NewCategoryService(categories, defaults),
		expenses:   NewExpenseService(expenses, categories),
		tokens:     tokens,
	}
}
