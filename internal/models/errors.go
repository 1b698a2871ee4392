package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// API messages, kept stable for clients.
const (
	MsgIncorrectLoginInput    = "incorrect login/email or password"
	MsgUsernameTaken          = "user with this username already exists"
	MsgEmailTaken             = "user with this email already exists"
	MsgWrongTokenPrefix       = "unsupported authorization type"
	MsgMalformedPayload       = "could not validate credentials"
	MsgAuthenticationRequired = "authentication required"
	MsgPermissionDenied       = "user don't have the permissions"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Detail  string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		Err:     err,
	}
}

// NewAuthenticationRequiredError is returned when no credential was presented
// on a route that requires one.
func NewAuthenticationRequiredError() *AppError {
	return &AppError{
		Code:    "AUTHENTICATION_REQUIRED",
		Message: MsgAuthenticationRequired,
	}
}

// NewWrongTokenPrefixError is returned when the Authorization header does not
// have the "<prefix> <token>" shape or carries an unsupported prefix.
func NewWrongTokenPrefixError() *AppError {
	return &AppError{
		Code:    "WRONG_TOKEN_PREFIX",
		Message: MsgWrongTokenPrefix,
	}
}

// NewMalformedPayloadError is returned when a presented credential fails to
// validate. It deliberately covers bad signatures, bad shapes, expiry and
// unknown subjects with the same client-facing message; the underlying cause
// is only kept for logging.
func NewMalformedPayloadError(err error) *AppError {
	return &AppError{
		Code:    "MALFORMED_PAYLOAD",
		Message: MsgMalformedPayload,
		Err:     err,
	}
}

// NewPermissionDeniedError is returned when a capability check fails. The sub
// reason ("user is not active" / "user is not admin") travels in Detail.
func NewPermissionDeniedError(sub string) *AppError {
	return &AppError{
		Code:    "PERMISSION_DENIED",
		Message: MsgPermissionDenied,
		Detail:  sub,
	}
}

func NewUsernameTakenError() *AppError {
	return &AppError{
		Code:    "USERNAME_TAKEN",
		Message: MsgUsernameTaken,
	}
}

func NewEmailTakenError() *AppError {
	return &AppError{
		Code:    "EMAIL_TAKEN",
		Message: MsgEmailTaken,
	}
}

func NewIncorrectLoginError() *AppError {
	return &AppError{
		Code:    "INCORRECT_LOGIN_INPUT",
		Message: MsgIncorrectLoginInput,
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	if appErr, ok := err.(*AppError); ok {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Detail != "" {
			response.Details = appErr.Detail
		} else if appErr.Err != nil && appErr.Code == "INTERNAL_ERROR" {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
