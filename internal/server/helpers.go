package server

import (
	"errors"
	"strconv"

	"pauller/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// errResponseWritten signals that the helper already wrote an error response
// and the handler should return nil to fiber.
var errResponseWritten = errors.New("response written")

// parsePagination reads limit/offset query parameters, clamping them to sane
// bounds. Unparseable values fall back to the defaults.
func parsePagination(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", defaultPageLimit)
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	offset = c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// parseID reads a numeric path parameter. On a bad value it writes a 400 and
// returns errResponseWritten so the caller can bail with a nil handler error.
func parseID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		if werr := models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+name+" parameter")); werr != nil {
			return 0, werr
		}
		return 0, errResponseWritten
	}
	return uint(id), nil
}
