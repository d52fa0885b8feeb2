// Package response provides the uniform JSON envelope and the mapping from
// domain error kinds to HTTP status codes.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ajar-homes/service-booking/internal/domain"
)

// Envelope is the standard response body.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// ErrorBody carries a machine-readable kind plus a human-readable message.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Meta carries pagination info.
type Meta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// Success writes a 200 with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Paginated writes a 200 with data and pagination meta.
func Paginated(c *gin.Context, data interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    data,
		Meta:    &Meta{Total: total, Page: page, Limit: limit},
	})
}

// BadRequest writes a 400 with a message.
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Envelope{
		Success: false,
		Error:   &ErrorBody{Kind: "bad_request", Message: msg},
	})
}

// Unauthorized writes a 401.
func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, Envelope{
		Success: false,
		Error:   &ErrorBody{Kind: "unauthorized", Message: msg},
	})
}

// Forbidden writes a 403.
func Forbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, Envelope{
		Success: false,
		Error:   &ErrorBody{Kind: "forbidden", Message: msg},
	})
}

// Error maps a domain error to its HTTP representation. Anything that is not
// a recognized domain kind becomes a 500 with a generic message.
func Error(c *gin.Context, err error) {
	kind, status := classify(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	c.JSON(status, Envelope{
		Success: false,
		Error:   &ErrorBody{Kind: kind, Message: msg},
	})
}

func classify(err error) (string, int) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found", http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidRange):
		return "invalid_range", http.StatusBadRequest
	case errors.Is(err, domain.ErrValidation):
		return "validation_failed", http.StatusBadRequest
	case errors.Is(err, domain.ErrAvailabilityConflict):
		return "availability_conflict", http.StatusConflict
	case errors.Is(err, domain.ErrAlreadyBlocked):
		return "already_blocked", http.StatusConflict
	case errors.Is(err, domain.ErrConflict):
		return "conflict", http.StatusConflict
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition", http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrCancellationWindowClosed):
		return "cancellation_window_closed", http.StatusUnprocessableEntity
	default:
		return "internal", http.StatusInternalServerError
	}
}
