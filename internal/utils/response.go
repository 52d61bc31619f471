package utils

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pagination is the page metadata echoed on every list response.
type Pagination struct {
	Count       int   `json:"count"`
	TotalCount  int64 `json:"totalCount"`
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	Limit       int   `json:"limit"`
}

// DataResponse sends a success envelope with a data payload
func DataResponse(c *fiber.Ctx, data interface{}, status int) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// MessageResponse sends a success envelope with only a message
func MessageResponse(c *fiber.Ctx, message string, status int) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}

// ListResponse sends a success envelope with a named collection and
// pagination metadata
func ListResponse(c *fiber.Ctx, key string, items interface{}, p Pagination) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":     true,
		key:           items,
		"count":       p.Count,
		"totalCount":  p.TotalCount,
		"currentPage": p.CurrentPage,
		"totalPages":  p.TotalPages,
		"limit":       p.Limit,
	})
}

// ErrorResponse sends a standard error envelope
func ErrorResponse(c *fiber.Ctx, message string, status int, errorType string) error {
	return c.Status(status).JSON(fiber.Map{
		"success":   false,
		"status":    status,
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}

// NotFoundResponse sends a 404 not found response
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, message, fiber.StatusNotFound, "not_found")
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Success   bool   `json:"success"`
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	URL       string `json:"url"`
	Type      string `json:"type,omitempty"`
}
