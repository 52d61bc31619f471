package handlers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gasline/gasline-api/internal/middleware"
	"github.com/gasline/gasline-api/internal/services"
	"github.com/gasline/gasline-api/internal/types"
	"github.com/gasline/gasline-api/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

// parsePage reads the 1-based page and limit query parameters.
func parsePage(c *fiber.Ctx) (int, int) {
	return c.QueryInt("page", 1), c.QueryInt("limit", 10)
}

// requireAccountID extracts the authenticated account ID from the
// verified claims.
func requireAccountID(c *fiber.Ctx) (string, error) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok || claims.AccountID == "" {
		return "", fmt.Errorf("account not found in context")
	}
	return claims.AccountID, nil
}

// saveUpload stores one multipart file under uploadDir with a random
// name, preserving the extension. Returns "" when the field is absent.
func saveUpload(c *fiber.Ctx, field, uploadDir string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return "", nil
	}
	name := uuid.New().String() + filepath.Ext(file.Filename)
	dest := filepath.Join(uploadDir, name)
	if err := c.SaveFile(file, dest); err != nil {
		return "", fmt.Errorf("failed to store %s: %w", field, err)
	}
	return name, nil
}

// collectDocuments reports every absent mandatory upload before
// persisting anything, so a rejected request leaves no files behind.
// Only when the full set is present are the uploads stored.
func collectDocuments(c *fiber.Ctx, required []string, uploadDir string) (map[string]string, []string, error) {
	present := make(map[string]string, len(required))
	for _, field := range required {
		if _, err := c.FormFile(field); err == nil {
			present[field] = field
		}
	}
	if missing := services.MissingDocuments(required, present); len(missing) > 0 {
		return nil, missing, nil
	}

	stored := make(map[string]string, len(required))
	for _, field := range required {
		name, err := saveUpload(c, field, uploadDir)
		if err != nil {
			removeUploads(uploadDir, stored)
			return nil, nil, err
		}
		if name != "" {
			stored[field] = name
		}
	}
	return stored, nil, nil
}

// removeUploads deletes previously stored upload files, typically after
// the application they belong to was rejected downstream.
func removeUploads(uploadDir string, stored map[string]string) {
	for _, name := range stored {
		_ = os.Remove(filepath.Join(uploadDir, name))
	}
}

// missingDocumentsError builds the single aggregated error naming every
// absent mandatory document.
func missingDocumentsError(c *fiber.Ctx, missing []string, errorType string) error {
	message := "Missing required documents: " + strings.Join(missing, ", ")
	return utils.ErrorResponse(c, message, fiber.StatusBadRequest, errorType)
}

// serviceError maps service sentinel errors onto HTTP statuses.
func serviceError(c *fiber.Ctx, err error, errorType string) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return utils.NotFoundResponse(c, err.Error())
	case errors.Is(err, services.ErrDuplicate), errors.Is(err, services.ErrImmutableStatus):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusConflict, errorType)
	case errors.Is(err, services.ErrInvalidStatus), errors.Is(err, services.ErrResetTokenExpired):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, errorType)
	case errors.Is(err, services.ErrInvalidCredentials):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, errorType)
	default:
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, errorType)
	}
}

// statusTarget resolves the requested status from either accepted field
// name. Older clients send Approval_Status, newer ones send status.
func statusTarget(status, altStatus string) types.ApprovalStatus {
	if status != "" {
		return types.ApprovalStatus(status)
	}
	return types.ApprovalStatus(altStatus)
}
