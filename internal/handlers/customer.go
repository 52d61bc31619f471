package handlers

import (
	"github.com/gasline/gasline-api/internal/services"
	"github.com/gasline/gasline-api/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CustomerHandler handles customer self-service routes.
type CustomerHandler struct {
	DB *gorm.DB
}

// Details handles GET /api/customer/details
func (h *CustomerHandler) Details(c *fiber.Ctx) error {
	accountID, err := requireAccountID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "customer.details")
	}

	app, err := services.CustomerDetails(h.DB, accountID)
	if err != nil {
		return serviceError(c, err, "customer.details")
	}

	return utils.DataResponse(c, app, fiber.StatusOK)
}
