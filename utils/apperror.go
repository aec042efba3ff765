package utils

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Stable error codes. Callers branch on Code, never on message text.
const (
	ErrCodeValidation   = "VALIDATION_FAILED"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeDomainRule   = "DOMAIN_RULE"
	ErrCodeInternal     = "INTERNAL"
)

// AppError is a tagged error carried from services to the handler
// boundary, where it is turned into a structured JSON response.
type AppError struct {
	Code    string
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func ValidationError(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Status: fiber.StatusBadRequest, Message: message}
}

func DomainError(message string) *AppError {
	return &AppError{Code: ErrCodeDomainRule, Status: fiber.StatusBadRequest, Message: message}
}

func NotFoundError(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Status: fiber.StatusNotFound, Message: message}
}

func ConflictError(message string) *AppError {
	return &AppError{Code: ErrCodeConflict, Status: fiber.StatusConflict, Message: message}
}

func UnauthorizedError(message string) *AppError {
	return &AppError{Code: ErrCodeUnauthorized, Status: fiber.StatusUnauthorized, Message: message}
}

func InternalError(message string, err error) *AppError {
	return &AppError{Code: ErrCodeInternal, Status: fiber.StatusInternalServerError, Message: message, Err: err}
}

// Success writes a {success, data} body.
func Success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

// Created writes a {success, data} body with 201.
func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": data})
}

// RespondError maps an error to a {success, error} body. AppErrors
// keep their status and code; anything else is logged and collapsed
// to a generic 500 so internals never leak to clients.
func RespondError(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Status >= fiber.StatusInternalServerError {
			logrus.WithError(appErr).WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
				"code":   appErr.Code,
			}).Error("Request failed")
		}
		return c.Status(appErr.Status).JSON(fiber.Map{
			"success": false,
			"error":   fiber.Map{"code": appErr.Code, "message": appErr.Message},
		})
	}

	logrus.WithError(err).WithFields(logrus.Fields{
		"path":   c.Path(),
		"method": c.Method(),
	}).Error("Unexpected error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   fiber.Map{"code": ErrCodeInternal, "message": "Internal server error"},
	})
}
