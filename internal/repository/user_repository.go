package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"expensetracker/internal/auth"
	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
)

// UserRepository looks users up by credential key. Users are created once and
// never updated or deleted.
type UserRepository interface {
	Repository[models.User, auth.CredentialKey]
	FindByUserID(ctx context.Context, id uint) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

type userRepository struct {
	store
	hasher auth.CredentialHasher
}

// NewUserRepository creates a UserRepository that hashes credentials with hasher.
func NewUserRepository(provider ConnectionProvider, hasher auth.CredentialHasher) UserRepository {
	return &userRepository{
		store: newStore(provider, "user", errorMap{
			notFound:  apperrors.ErrUserNotFound,
			duplicate: apperrors.ErrDuplicateUsername,
		}),
		hasher: hasher,
	}
}

// FindByID returns the user whose username equals key.Username and whose
// stored hash verifies key.Password. A wrong password is reported exactly
// like an unknown username.
func (r *userRepository) FindByID(ctx context.Context, key auth.CredentialKey) (*models.User, error) {
	if !key.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "username and password are required")
	}

	var user models.User
	err := r.run(ctx, "find_by_credentials", func(db *gorm.DB) error {
		return db.Where("username = ?", key.Username).First(&user).Error
	})
	if err != nil {
		return nil, err
	}

	if !r.hasher.Verify(user.Password, key.Password) {
		return nil, apperrors.ErrUserNotFound
	}
	return &user, nil
}

// FindByUserID returns the user with the given surrogate id.
func (r *userRepository) FindByUserID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.run(ctx, "find_by_user_id", func(db *gorm.DB) error {
		return db.First(&user, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername returns the user registered under username.
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.run(ctx, "find_by_username", func(db *gorm.DB) error {
		return db.Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByUsername reports whether username is taken.
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.run(ctx, "exists_by_username", func(db *gorm.DB) error {
		return db.Model(&models.User{}).Where("username = ?", strings.TrimSpace(username)).Count(&count).Error
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll lists every user ordered by id.
func (r *userRepository) FindAll(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := r.run(ctx, "find_all", func(db *gorm.DB) error {
		return db.Order("id").Find(&users).Error
	})
	if err != nil {
		return []models.User{}, err
	}
	return users, nil
}

// Save inserts user. user.Password is taken as plaintext and replaced by its
// hash; user.ID and user.CreatedAt are filled in on success. A taken username
// is reported as DUPLICATE_USERNAME by the store's unique constraint.
func (r *userRepository) Save(ctx context.Context, user *models.User) error {
	hashed, err := r.hasher.Hash(user.Password)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}

	row := *user
	row.Username = strings.TrimSpace(row.Username)
	row.Password = hashed

	err = r.run(ctx, "save", func(db *gorm.DB) error {
		return db.Create(&row).Error
	})
	if err != nil {
		return err
	}

	*user = row
	return nil
}

// Update is not supported: users are immutable after registration.
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return apperrors.WithMessage(apperrors.ErrNotSupported, "users cannot be updated")
}

// Delete is not supported: users are never deleted.
func (r *userRepository) Delete(ctx context.Context, key auth.CredentialKey) error {
	return apperrors.WithMessage(apperrors.ErrNotSupported, "users cannot be deleted")
}
