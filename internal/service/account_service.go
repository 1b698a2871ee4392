// Package service contains the business logic between HTTP handlers and
// repositories.
package service

import (
	"context"

	"pauller/internal/auth"
	"pauller/internal/models"
	"pauller/internal/repository"
)

// AccountService handles registration, login and profile updates.
type AccountService struct {
	userRepo repository.UserRepository
}

// NewAccountService returns a new AccountService.
func NewAccountService(userRepo repository.UserRepository) *AccountService {
	return &AccountService{userRepo: userRepo}
}

// UpdateProfileInput carries the optional fields of a profile update. Empty
// fields are left untouched.
type UpdateProfileInput struct {
	Username string
	Email    string
	Password string
	Bio      string
	Image    string
}

// Register creates a new account with a freshly hashed password. The
// pre-checks give friendly errors in the common case; the store's unique
// constraints win any race between concurrent registrations.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if taken, err := s.usernameTaken(ctx, username); err != nil {
		return nil, err
	} else if taken {
		return nil, models.NewUsernameTakenError()
	}
	if taken, err := s.emailTaken(ctx, email); err != nil {
		return nil, err
	} else if taken {
		return nil, models.NewEmailTakenError()
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:       username,
		Email:          email,
		HashedPassword: hashed,
		IsActive:       true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login resolves the account by username first, then by email, and verifies
// the password. Lookup and verification failures collapse into the same
// incorrect-login error.
func (s *AccountService) Login(ctx context.Context, emailOrLogin, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, emailOrLogin)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = s.userRepo.GetByEmail(ctx, emailOrLogin)
		if err != nil {
			return nil, err
		}
	}
	if user == nil || !auth.VerifyPassword(password, user.HashedPassword) {
		return nil, models.NewIncorrectLoginError()
	}
	return user, nil
}

// UpdateProfile applies the supplied fields to the account. Each field is
// updated independently and only when it differs from the current value.
func (s *AccountService) UpdateProfile(ctx context.Context, account *models.User, in UpdateProfileInput) (*models.User, error) {
	if in.Username != "" && in.Username != account.Username {
		if taken, err := s.usernameTaken(ctx, in.Username); err != nil {
			return nil, err
		} else if taken {
			return nil, models.NewUsernameTakenError()
		}
		account.Username = in.Username
	}
	if in.Email != "" && in.Email != account.Email {
		if taken, err := s.emailTaken(ctx, in.Email); err != nil {
			return nil, err
		} else if taken {
			return nil, models.NewEmailTakenError()
		}
		account.Email = in.Email
	}
	if in.Bio != "" && in.Bio != account.Bio {
		account.Bio = in.Bio
	}
	if in.Image != "" && in.Image != account.Image {
		account.Image = in.Image
	}
	if in.Password != "" {
		hashed, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		account.HashedPassword = hashed
	}

	if err := s.userRepo.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// SetAdmin grants or revokes the admin capability of the target account.
func (s *AccountService) SetAdmin(ctx context.Context, targetID uint, isAdmin bool) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	user.IsAdmin = isAdmin
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetActive activates or deactivates the target account. The change takes
// effect on the target's next request because capabilities are re-derived
// from the stored account every time.
func (s *AccountService) SetActive(ctx context.Context, targetID uint, isActive bool) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	user.IsActive = isActive
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AccountService) usernameTaken(ctx context.Context, username string) (bool, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

func (s *AccountService) emailTaken(ctx context.Context, email string) (bool, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}
