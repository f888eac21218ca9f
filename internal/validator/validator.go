// Package validator validates domain input with go-playground/validator and
// domain-specific rules, reporting failures as INVALID_INPUT errors.
package validator

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// Get returns the shared validator with the custom rules registered.
func Get() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonFieldName)
		_ = validate.RegisterValidation("notblank", validateNotBlank)
		_ = validate.RegisterValidation("notfuture", validateNotFuture)
		_ = validate.RegisterValidation("finite", validateFinite)
	})
	return validate
}

// Struct validates s and converts the first failure into an INVALID_INPUT error.
func Struct(s interface{}) error {
	err := Get().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, message(fieldErrs[0]))
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err)
}

// Var validates a single value against tag, naming it field in the error.
func Var(field string, value interface{}, tag string) error {
	err := Get().Var(value, tag)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, field+" "+describe(fieldErrs[0]))
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err)
}

func message(fe validator.FieldError) string {
	return fe.Field() + " " + describe(fe)
}

// jsonFieldName reports fields by their JSON name so messages read
// "category_id is required" rather than "CategoryID is required".
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "gt":
		if fe.Param() == "0" {
			return "must be greater than zero"
		}
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "notfuture":
		return "must not be in the future"
	case "finite":
		return "must be a finite number"
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validateFinite rejects NaN and the infinities.
func validateFinite(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	default:
		return true
	}
}

// validateNotFuture accepts any date up to and including today.
func validateNotFuture(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok || t.IsZero() {
		return false
	}
	return !models.DateOf(t).After(models.DateOf(time.Now()))
}
