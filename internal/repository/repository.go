// Package repository maps domain entities to and from rows of the embedded
// store. Every operation runs on exactly one scoped connection and reports
// failure as a tagged *errors.AppError; storage faults are logged here and
// never escape as raw driver errors.
package repository

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/logger"
)

// Repository is the CRUD contract shared by every entity repository.
type Repository[T any, ID any] interface {
	FindByID(ctx context.Context, id ID) (*T, error)
	FindAll(ctx context.Context) ([]T, error)
	Save(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id ID) error
}

// ConnectionProvider hands out scoped connections. *database.Manager
// implements it.
type ConnectionProvider interface {
	Acquire(ctx context.Context, fn func(db *gorm.DB) error) error
}

// errorMap names the entity-specific sentinels a store error is translated to.
type errorMap struct {
	notFound   *apperrors.AppError
	duplicate  *apperrors.AppError
	foreignKey *apperrors.AppError
}

// store is embedded by the concrete repositories.
type store struct {
	provider ConnectionProvider
	log      *zap.SugaredLogger
	errs     errorMap
}

func newStore(provider ConnectionProvider, entity string, errs errorMap) store {
	return store{
		provider: provider,
		log:      logger.Named("repository").With("entity", entity),
		errs:     errs,
	}
}

// run executes fn on one scoped connection and translates whatever it returns.
func (s *store) run(ctx context.Context, op string, fn func(db *gorm.DB) error) error {
	return s.translate(op, s.provider.Acquire(ctx, fn))
}

func (s *store) translate(op string, err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		if isStorageFault(appErr) {
			s.log.Errorw("storage failure", "op", op, "code", appErr.Code, "error", appErr.Internal)
		}
		return appErr
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.errs.notFound
	case errors.Is(err, gorm.ErrDuplicatedKey) && s.errs.duplicate != nil:
		return apperrors.Wrap(s.errs.duplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated) && s.errs.foreignKey != nil:
		return apperrors.Wrap(s.errs.foreignKey, err)
	default:
		s.log.Errorw("storage failure", "op", op, "error", err)
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
}

func isStorageFault(err *apperrors.AppError) bool {
	return errors.Is(err, apperrors.ErrStorage) ||
		errors.Is(err, apperrors.ErrStorageUnavailable) ||
		errors.Is(err, apperrors.ErrPoolExhausted)
}

// affected turns a zero-row mutation into the entity's not-found error.
func (s *store) affected(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return s.errs.notFound
	}
	return nil
}
