package server

import (
	"errors"

	"pauller/internal/auth"
	"pauller/internal/models"
	"pauller/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPolls handles GET /api/polls. Anonymous and non-admin callers see only
// polls whose voting window contains the current instant; admins see all.
// Passing all=true skips paging entirely and demands the admin capability.
func (s *Server) GetPolls(c *fiber.Ctx) error {
	authz := Authorization(c)

	if c.QueryBool("all", false) {
		if !authz.Capabilities.Has(AdminCapability) {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewPermissionDeniedError(auth.DeniedNotAdmin))
		}
		page, err := s.pollService.ListAllPolls(c.Context(), authz.Capabilities)
		if err != nil {
			return s.respondPollError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(page)
	}

	limit, offset := parsePagination(c)
	page, err := s.pollService.ListPolls(c.Context(), authz.Capabilities, limit, offset)
	if err != nil {
		return s.respondPollError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(page)
}

// CreatePoll handles POST /api/polls/create
func (s *Server) CreatePoll(c *fiber.Ctx) error {
	authz := Authorization(c)
	if authz.Anonymous() {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewAuthenticationRequiredError())
	}

	var req struct {
		Poll service.CreatePollInput `json:"poll"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	poll, err := s.pollService.CreatePoll(c.Context(), authz.Account, req.Poll)
	if err != nil {
		return s.respondPollError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"poll": poll})
}

// DeletePoll handles DELETE /api/polls/delete/:id
func (s *Server) DeletePoll(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		if errors.Is(err, errResponseWritten) {
			return nil
		}
		return err
	}

	authz := Authorization(c)
	if err := s.pollService.DeletePoll(c.Context(), authz.Capabilities, id); err != nil {
		return s.respondPollError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "deleted"})
}

// respondPollError translates poll-service errors to their statuses.
func (s *Server) respondPollError(c *fiber.Ctx, err error) error {
	if appErr, ok := err.(*models.AppError); ok {
		switch appErr.Code {
		case "VALIDATION_ERROR":
			return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
		case "NOT_FOUND":
			return models.RespondWithError(c, fiber.StatusNotFound, appErr)
		case "PERMISSION_DENIED":
			return models.RespondWithError(c, fiber.StatusForbidden, appErr)
		}
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError, err)
}
