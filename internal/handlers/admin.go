package handlers

import (
	"github.com/gasline/gasline-api/internal/services"
	"github.com/gasline/gasline-api/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminHandler handles admin operations over agency applications.
type AdminHandler struct {
	DB *gorm.DB
}

// PendingAgencies handles GET /api/admin/agencies/pending
func (h *AdminHandler) PendingAgencies(c *fiber.Ctx) error {
	page, limit := parsePage(c)

	agencies, pagination, err := services.ListPendingAgencies(h.DB, page, limit)
	if err != nil {
		return serviceError(c, err, "admin.pendingAgencies")
	}

	return utils.ListResponse(c, "agencies", agencies, pagination)
}

// UpdateAgencyStatus handles PUT /api/admin/agencies/:registrationId/status
func (h *AdminHandler) UpdateAgencyStatus(c *fiber.Ctx) error {
	accountID, err := requireAccountID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "admin.updateAgencyStatus")
	}

	registrationID := c.Params("registrationId")
	if registrationID == "" {
		return utils.ErrorResponse(c, "Registration ID is required", fiber.StatusBadRequest, "admin.updateAgencyStatus")
	}

	var req statusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "admin.updateAgencyStatus")
	}

	app, err := services.UpdateAgencyStatus(h.DB, accountID, registrationID,
		statusTarget(req.Status, req.AltStatus), req.Comments)
	if err != nil {
		return serviceError(c, err, "admin.updateAgencyStatus")
	}

	return utils.DataResponse(c, app, fiber.StatusOK)
}
