package server

import (
	"pauller/internal/auth"
	"pauller/internal/models"
	"pauller/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// userEnvelope is the response shape shared by signup, login and update.
type userEnvelope struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
	Token    string `json:"token"`
}

// Signup handles POST /api/users/signup
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username, email, and password are required"))
	}
	if err := validation.ValidateUsername(req.Username); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	user, err := s.accountService.Register(c.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return s.respondAccountError(c, err)
	}

	return s.respondWithToken(c, fiber.StatusCreated, user)
}

// Login handles POST /api/users/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		EmailOrLogin string `json:"email_or_login"`
		Password     string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.accountService.Login(c.Context(), req.EmailOrLogin, req.Password)
	if err != nil {
		return s.respondAccountError(c, err)
	}

	return s.respondWithToken(c, fiber.StatusCreated, user)
}

// respondWithToken mints a fresh credential for the account and writes the
// user envelope.
func (s *Server) respondWithToken(c *fiber.Ctx, status int, user *models.User) error {
	token, err := auth.IssueToken(user.Username, s.config.JWTSecret, s.config.TokenTTL())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(status).JSON(fiber.Map{
		"user": userEnvelope{
			Username: user.Username,
			Email:    user.Email,
			Bio:      user.Bio,
			Image:    user.Image,
			Token:    token,
		},
	})
}

// respondAccountError translates account-service errors to their statuses.
func (s *Server) respondAccountError(c *fiber.Ctx, err error) error {
	if appErr, ok := err.(*models.AppError); ok {
		switch appErr.Code {
		case "USERNAME_TAKEN", "EMAIL_TAKEN", "INCORRECT_LOGIN_INPUT", "VALIDATION_ERROR":
			return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
		case "NOT_FOUND":
			return models.RespondWithError(c, fiber.StatusNotFound, appErr)
		case "PERMISSION_DENIED":
			return models.RespondWithError(c, fiber.StatusForbidden, appErr)
		}
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError, err)
}
