package server

import (
	"time"

	"github.com/gasline/gasline-api/internal/types"
	"github.com/gofiber/fiber/v2"
)

// errorHandler renders every unhandled error into the standard error
// envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	switch e := err.(type) {
	case *types.CustomError:
		code = e.Code
		message = e.Message
		errorType = e.Type
	case *fiber.Error:
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"success":   false,
		"status":    code,
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
