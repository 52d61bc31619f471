package handlers

import (
	"github.com/gasline/gasline-api/internal/services"
	"github.com/gasline/gasline-api/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DeliveryStaffHandler handles delivery staff self-service routes.
type DeliveryStaffHandler struct {
	DB *gorm.DB
}

// Details handles GET /api/delivery-staff/details
func (h *DeliveryStaffHandler) Details(c *fiber.Ctx) error {
	accountID, err := requireAccountID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "deliveryStaff.details")
	}

	app, err := services.DeliveryStaffDetails(h.DB, accountID)
	if err != nil {
		return serviceError(c, err, "deliveryStaff.details")
	}

	return utils.DataResponse(c, app, fiber.StatusOK)
}

// Assignments handles GET /api/delivery-staff/assignments
func (h *DeliveryStaffHandler) Assignments(c *fiber.Ctx) error {
	accountID, err := requireAccountID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "deliveryStaff.assignments")
	}

	areas, err := services.StaffAssignments(h.DB, accountID)
	if err != nil {
		return serviceError(c, err, "deliveryStaff.assignments")
	}

	return utils.DataResponse(c, fiber.Map{"assignedArea": areas}, fiber.StatusOK)
}
