package main

import (
	"context"
	"fmt"

	"expensetracker/internal/auth"
	"expensetracker/internal/cache"
	"expensetracker/internal/config"
	"expensetracker/internal/database"
	"expensetracker/internal/repository"
	"expensetracker/internal/services"
)

// app holds the wired service layer for one command invocation.
type app struct {
	db         *database.Manager
	defaults   *cache.CategoryCache
	auth       services.AuthServicer
	categories services.CategoryServicer
	expenses   services.ExpenseServicer
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	hasher, err := auth.NewHasher(cfg.AuthHasher)
	if err != nil {
		return nil, err
	}

	db, err := database.NewManager(&cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := db.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	defaults, err := cache.NewCategoryCache()
	if err != nil {
		_ = db.Shutdown()
		return nil, err
	}

	userRepo := repository.NewUserRepository(db, hasher)
	categoryRepo := repository.NewCategoryRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)

	return &app{
		db:         db,
		defaults:   defaults,
		auth:       services.NewAuthService(userRepo, auth.NewTokenIssuer(cfg.SessionSecret, cfg.SessionTTL)),
		categories: services.NewCategoryService(categoryRepo, defaults),
		expenses:   services.NewExpenseService(expenseRepo, categoryRepo),
	}, nil
}

func (a *app) Close() error {
	a.defaults.Close()
	return a.db.Shutdown()
}
