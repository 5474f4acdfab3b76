package response

import (
	"errors"
	"log"
	"time"

	"library-api/internal/core/domain"

	"github.com/gofiber/fiber/v2"
)

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse represents a failed API response
type ErrorResponse struct {
	Success          bool              `json:"success"`
	Error            string            `json:"error"`
	ErrorCode        string            `json:"error_code"`
	Path             string            `json:"path"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors map[string]string `json:"validation_errors,omitempty"`
}

// Error codes
const (
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeQuotaExceeded   = "QUOTA_EXCEEDED"
	CodeValidation      = "VALIDATION_FAILED"
	CodeBadRequest      = "BAD_REQUEST"
	CodeInternal        = "INTERNAL_ERROR"
	CodeTooManyRequests = "TOO_MANY_REQUESTS"
)

// Success sends a success response
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created sends a 201 created response
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends an error response
func Error(c *fiber.Ctx, statusCode int, code, message string) error {
	return c.Status(statusCode).JSON(ErrorResponse{
		Success:   false,
		Error:     message,
		ErrorCode: code,
		Path:      c.Path(),
		Timestamp: time.Now().UTC(),
	})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, CodeBadRequest, message)
}

// NotFound sends a 404 not found response
func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, CodeNotFound, message)
}

// ValidationFailed sends a 400 response carrying the per-field messages
func ValidationFailed(c *fiber.Ctx, fields map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Success:          false,
		Error:            domain.ErrValidation.Error(),
		ErrorCode:        CodeValidation,
		Path:             c.Path(),
		Timestamp:        time.Now().UTC(),
		ValidationErrors: fields,
	})
}

// InternalServerError sends a 500 internal server error response
func InternalServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, CodeInternal, message)
}

// HandleError maps a service error to its HTTP response.
// NotFound -> 404, Conflict and Validation -> 400, everything else -> 500.
func HandleError(c *fiber.Ctx, err error) error {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return ValidationFailed(c, ve.Fields)
	case errors.Is(err, domain.ErrNotFound):
		return NotFound(c, err.Error())
	case errors.Is(err, domain.ErrQuotaExceeded):
		return Error(c, fiber.StatusBadRequest, CodeQuotaExceeded, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return Error(c, fiber.StatusBadRequest, CodeConflict, err.Error())
	default:
		log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
		return InternalServerError(c, "Internal Server Error")
	}
}
