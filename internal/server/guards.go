package server

import (
	"context"
	"log/slog"
	"strings"

	"pauller/internal/auth"
	"pauller/internal/middleware"
	"pauller/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Aliases so route declarations read without the auth qualifier.
const (
	RequiredMode = auth.Required
	OptionalMode = auth.Optional

	ActiveCapability = auth.CapabilityActive
	AdminCapability  = auth.CapabilityAdmin
)

// authorizationLocal is the fiber locals key holding the request's
// auth.Authorization value. It is set once by Authenticate and read by the
// capability guards and handlers; it never outlives the request.
const authorizationLocal = "authorization"

// Authenticate resolves the request's identity and records the derived
// authorization state. In Required mode a missing Authorization header
// rejects the request; in Optional mode it records an anonymous state with
// both capabilities false. A credential that is present but invalid is
// rejected in either mode.
func (s *Server) Authenticate(mode auth.Mode) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			if mode == auth.Required {
				middleware.AuthFailures.WithLabelValues("missing_credential").Inc()
				return models.RespondWithError(c, fiber.StatusForbidden,
					models.NewAuthenticationRequiredError())
			}
			recordAuthorization(c, auth.Authorization{})
			return c.Next()
		}

		account, appErr := s.resolveIdentity(c, header)
		if appErr != nil {
			status := fiber.StatusForbidden
			if appErr.Code == "INTERNAL_ERROR" {
				status = fiber.StatusInternalServerError
			}
			return models.RespondWithError(c, status, appErr)
		}

		recordAuthorization(c, auth.Authorization{
			Account:      account,
			Capabilities: auth.EvaluateCapabilities(account),
		})

		// Expose the user ID to the logging/tracing context.
		c.Locals("userID", account.ID)
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, account.ID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// Guard checks a single capability against the authorization recorded by
// Authenticate. Required mode denies with a permission error when the
// capability is missing; Optional mode only leaves the recorded value for
// the handler to branch on.
func (s *Server) Guard(capability auth.Capability, mode auth.Mode) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if mode == auth.Optional {
			return c.Next()
		}

		authz := Authorization(c)
		if !authz.Capabilities.Has(capability) {
			middleware.AuthFailures.WithLabelValues("permission_denied").Inc()
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewPermissionDeniedError(auth.DenialReason(capability)))
		}
		return c.Next()
	}
}

// Authorization returns the authorization state recorded for the request,
// or an anonymous state when no Authenticate middleware ran.
func Authorization(c *fiber.Ctx) auth.Authorization {
	if authz, ok := c.Locals(authorizationLocal).(auth.Authorization); ok {
		return authz
	}
	return auth.Authorization{}
}

func recordAuthorization(c *fiber.Ctx, authz auth.Authorization) {
	c.Locals(authorizationLocal, authz)
}

// resolveIdentity validates the raw Authorization header and loads the
// account it asserts: header shape, scheme prefix, credential decode, then
// account lookup by subject. The client-facing error hides which step
// failed beyond the prefix/credential distinction; the precise cause is
// logged and counted.
func (s *Server) resolveIdentity(c *fiber.Ctx, header string) (*models.User, *models.AppError) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != s.config.TokenPrefix {
		middleware.AuthFailures.WithLabelValues("wrong_prefix").Inc()
		return nil, models.NewWrongTokenPrefixError()
	}

	subject, err := auth.DecodeToken(parts[1], s.config.JWTSecret)
	if err != nil {
		middleware.AuthFailures.WithLabelValues("invalid_credential").Inc()
		middleware.Logger.WarnContext(c.UserContext(), "credential rejected",
			slog.String("reason", err.Error()),
		)
		return nil, models.NewMalformedPayloadError(err)
	}

	account, err := s.userRepo.GetByUsername(c.Context(), subject)
	if err != nil {
		if appErr, ok := err.(*models.AppError); ok {
			return nil, appErr
		}
		return nil, models.NewInternalError(err)
	}
	if account == nil {
		// The token was once valid but its subject no longer resolves.
		middleware.AuthFailures.WithLabelValues("unknown_subject").Inc()
		middleware.Logger.WarnContext(c.UserContext(), "credential subject not found",
			slog.String("subject", subject),
		)
		return nil, models.NewMalformedPayloadError(nil)
	}

	return account, nil
}
