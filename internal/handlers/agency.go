package handlers

import (
	"github.com/gasline/gasline-api/internal/models"
	"github.com/gasline/gasline-api/internal/services"
	"github.com/gasline/gasline-api/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AgencyHandler handles agency operations: reviewing customer and
// delivery staff applications and listing the agency's customers.
type AgencyHandler struct {
	DB *gorm.DB
}

type statusUpdateRequest struct {
	Status    string `json:"status"`
	AltStatus string `json:"Approval_Status"`
	Comments  string `json:"comments"`
}

// agencyForAccount resolves the approved agency owned by the caller.
func (h *AgencyHandler) agencyForAccount(c *fiber.Ctx) (*models.AgencyApplication, error) {
	accountID, err := requireAccountID(c)
	if err != nil {
		return nil, err
	}
	return services.AgencyDetails(h.DB, accountID)
}

// Details handles GET /api/agency/details
func (h *AgencyHandler) Details(c *fiber.Ctx) error {
	agency, err := h.agencyForAccount(c)
	if err != nil {
		return serviceError(c, err, "agency.details")
	}
	return utils.DataResponse(c, agency, fiber.StatusOK)
}

// PendingCustomers handles GET /api/agency/customers/pending
func (h *AgencyHandler) PendingCustomers(c *fiber.Ctx) error {
	agency, err := h.agencyForAccount(c)
	if err != nil {
		return serviceError(c, err, "agency.pendingCustomers")
	}

	page, limit := parsePage(c)
	customers, pagination, err := services.ListPendingCustomers(h.DB, agency.RegistrationID, page, limit)
	if err != nil {
		return serviceError(c, err, "agency.pendingCustomers")
	}

	return utils.ListResponse(c, "customers", customers, pagination)
}

// Customers handles GET /api/agency/customers
func (h *AgencyHandler) Customers(c *fiber.Ctx) error {
	agency, err := h.agencyForAccount(c)
	if err != nil {
		return serviceError(c, err, "agency.customers")
	}

	page, limit := parsePage(c)
	customers, pagination, err := services.ListCustomers(h.DB, agency.RegistrationID, page, limit)
	if err != nil {
		return serviceError(c, err, "agency.customers")
	}

	return utils.ListResponse(c, "customers", customers, pagination)
}

// PendingDeliveryStaff handles GET /api/agency/delivery-staff/pending
func (h *AgencyHandler) PendingDeliveryStaff(c *fiber.Ctx) error {
	agency, err := h.agencyForAccount(c)
	if err != nil {
		return serviceError(c, err, "agency.pendingDeliveryStaff")
	}

	page, limit := parsePage(c)
	staff, pagination, err := services.ListPendingDeliveryStaff(h.DB, agency.RegistrationID, page, limit)
	if err != nil {
		return serviceError(c, err, "agency.pendingDeliveryStaff")
	}

	return utils.ListResponse(c, "deliveryStaff", staff, pagination)
}

// UpdateCustomerStatus handles PUT /api/agency/customers/:registrationId/status
func (h *AgencyHandler) UpdateCustomerStatus(c *fiber.Ctx) error {
	agency, err := h.agencyForAccount(c)
	if err != nil {
		return serviceError(c, err, "agency.updateCustomerStatus")
	}

	registrationID := c.Params("registrationId")
	if registrationID == "" {
		return utils.ErrorResponse(c, "Registration ID is required", fiber.StatusBadRequest, "agency.updateCustomerStatus")
	}

	var req statusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "agency.updateCustomerStatus")
	}

	app, err := services.UpdateCustomerStatus(h.DB, agency.RegistrationID, registrationID,
		statusTarget(req.Status, req.AltStatus), req.Comments)
	if err != nil {
		return serviceError(c, err, "agency.updateCustomerStatus")
	}

	return utils.DataResponse(c, app, fiber.StatusOK)
}

// UpdateDeliveryStaffStatus handles PUT /api/agency/delivery-staff/:registrationId/status
func (h *AgencyHandler) UpdateDeliveryStaffStatus(c *fiber.Ctx) error {
	agency, err := h.agencyForAccount(c)
	if err != nil {
		return serviceError(c, err, "agency.updateDeliveryStaffStatus")
	}

	registrationID := c.Params("registrationId")
	if registrationID == "" {
		return utils.ErrorResponse(c, "Registration ID is required", fiber.StatusBadRequest, "agency.updateDeliveryStaffStatus")
	}

	var req statusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "agency.updateDeliveryStaffStatus")
	}

	app, err := services.UpdateDeliveryStaffStatus(h.DB, agency.RegistrationID, registrationID,
		statusTarget(req.Status, req.AltStatus), req.Comments)
	if err != nil {
		return serviceError(c, err, "agency.updateDeliveryStaffStatus")
	}

	return utils.DataResponse(c, app, fiber.StatusOK)
}
