package server

import (
	"errors"

	"pauller/internal/models"
	"pauller/internal/service"
	"pauller/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// UpdateUser handles PUT /api/users/update. The body carries only the fields
// the client wants to change; the response carries a refreshed token because
// a username change invalidates the subject of the old one.
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	authz := Authorization(c)
	if authz.Anonymous() {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewAuthenticationRequiredError())
	}

	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Bio      string `json:"bio"`
		Image    string `json:"image"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Username != "" {
		if err := validation.ValidateUsername(req.Username); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(err.Error()))
		}
	}
	if req.Email != "" {
		if err := validation.ValidateEmail(req.Email); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(err.Error()))
		}
	}
	if req.Password != "" {
		if err := validation.ValidatePassword(req.Password); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(err.Error()))
		}
	}

	user, err := s.accountService.UpdateProfile(c.Context(), authz.Account, service.UpdateProfileInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Bio:      req.Bio,
		Image:    req.Image,
	})
	if err != nil {
		return s.respondAccountError(c, err)
	}

	return s.respondWithToken(c, fiber.StatusOK, user)
}

// PromoteToAdmin handles POST /api/users/:id/promote-admin
func (s *Server) PromoteToAdmin(c *fiber.Ctx) error {
	return s.setAdminFlag(c, true)
}

// DemoteFromAdmin handles POST /api/users/:id/demote-admin
func (s *Server) DemoteFromAdmin(c *fiber.Ctx) error {
	return s.setAdminFlag(c, false)
}

// ActivateUser handles POST /api/users/:id/activate
func (s *Server) ActivateUser(c *fiber.Ctx) error {
	return s.setActiveFlag(c, true)
}

// DeactivateUser handles POST /api/users/:id/deactivate
func (s *Server) DeactivateUser(c *fiber.Ctx) error {
	return s.setActiveFlag(c, false)
}

func (s *Server) setAdminFlag(c *fiber.Ctx, isAdmin bool) error {
	id, err := parseID(c, "id")
	if err != nil {
		if errors.Is(err, errResponseWritten) {
			return nil
		}
		return err
	}

	user, err := s.accountService.SetAdmin(c.Context(), id, isAdmin)
	if err != nil {
		return s.respondAccountError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"user": user})
}

func (s *Server) setActiveFlag(c *fiber.Ctx, isActive bool) error {
	id, err := parseID(c, "id")
	if err != nil {
		if errors.Is(err, errResponseWritten) {
			return nil
		}
		return err
	}

	user, err := s.accountService.SetActive(c.Context(), id, isActive)
	if err != nil {
		return s.respondAccountError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"user": user})
}
