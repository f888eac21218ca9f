package validator

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
)

func TestStruct(t *testing.T) {
	valid := func() models.Expense {
		return models.Expense{
			Amount:     10,
			Date:       time.Now(),
			CategoryID: 1,
			UserID:     1,
		}
	}

	t.Run("valid", func(t *testing.T) {
		e := valid()
		if err := Struct(&e); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	tests := []struct {
		name    string
		mutate  func(e *models.Expense)
		message string
	}{
		{"zero_amount", func(e *models.Expense) { e.Amount = 0 }, "amount must be greater than zero"},
		{"negative_amount", func(e *models.Expense) { e.Amount = -5 }, "amount must be greater than zero"},
		{"infinite_amount", func(e *models.Expense) { e.Amount = math.Inf(1) }, "amount must be a finite number"},
		{"nan_amount", func(e *models.Expense) { e.Amount = math.NaN() }, "amount must be a finite number"},
		{"missing_category", func(e *models.Expense) { e.CategoryID = 0 }, "category_id is required"},
		{"missing_date", func(e *models.Expense) { e.Date = time.Time{} }, "date is required"},
		{"future_date", func(e *models.Expense) { e.Date = time.Now().AddDate(0, 0, 2) }, "date must not be in the future"},
		{"long_description", func(e *models.Expense) { e.Description = strings.Repeat("x", 256) }, "description must be at most 255 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid()
			tt.mutate(&e)

			err := Struct(&e)
			if !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Fatalf("expected INVALID_INPUT, got %v", err)
			}
			if err.Error() != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, err.Error())
			}
		})
	}
}

func TestNotBlank(t *testing.T) {
	c := models.Category{Name: "   "}
	if err := Struct(&c); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("expected a blank name to be rejected, got %v", err)
	}

	c.Name = "Food"
	if err := Struct(&c); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestVar(t *testing.T) {
	if err := Var("email", "", "omitempty,email"); err != nil {
		t.Errorf("expected an empty optional email to pass, got %v", err)
	}

	err := Var("email", "nope", "omitempty,email")
	if err == nil || err.Error() != "email must be a valid email address" {
		t.Errorf("unexpected error: %v", err)
	}

	if err := Var("date", time.Now(), "required,notfuture"); err != nil {
		t.Errorf("expected today to pass, got %v", err)
	}
}
