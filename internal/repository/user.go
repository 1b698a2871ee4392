// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"pauller/internal/cache"
	"pauller/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// cachedUser is the cache entry shape for accounts. models.User hides the
// password hash from API JSON with a `json:"-"` tag, so caching the model
// directly would return accounts with an empty hash on every cache hit — and
// a later Save of such an account would wipe the stored hash. The cache
// therefore round-trips this dedicated shape, which keeps every column.
type cachedUser struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"hashed_password"`
	Bio            string    `json:"bio"`
	Image          string    `json:"image"`
	IsActive       bool      `json:"is_active"`
	IsAdmin        bool      `json:"is_admin"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func newCachedUser(user *models.User) cachedUser {
	return cachedUser{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		HashedPassword: user.HashedPassword,
		Bio:            user.Bio,
		Image:          user.Image,
		IsActive:       user.IsActive,
		IsAdmin:        user.IsAdmin,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}

func (c cachedUser) toModel() *models.User {
	return &models.User{
		ID:             c.ID,
		Username:       c.Username,
		Email:          c.Email,
		HashedPassword: c.HashedPassword,
		Bio:            c.Bio,
		Image:          c.Image,
		IsActive:       c.IsActive,
		IsAdmin:        c.IsAdmin,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// GetByID serves profile-style reads and admin account management through the
// cache. The authentication path resolves by username and never uses this.
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var entry cachedUser
	key := cache.UserKey(id)

	err := cache.Aside(ctx, key, &entry, cache.UserTTL, func() error {
		var user models.User
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		entry = newCachedUser(&user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry.toModel(), nil
}

// GetByUsername returns (nil, nil) when no account matches, so callers can
// distinguish absence from a store failure.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// Create persists a new account. Username/email uniqueness is enforced by the
// store's constraints, so two concurrent signups for the same name resolve
// without in-process locking: the second write fails and is mapped to the
// matching taken error.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return uniqueViolationToAppError(err)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return uniqueViolationToAppError(err)
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505; sqlite reports
	// "UNIQUE constraint failed".
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// uniqueViolationToAppError picks the taken-error matching the violated
// column. Both Postgres and sqlite name the column in the message.
func uniqueViolationToAppError(err error) *models.AppError {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "email") {
		return models.NewEmailTakenError()
	}
	return models.NewUsernameTakenError()
}
