package handlers

import (
	"strings"

	"github.com/gasline/gasline-api/internal/config"
	"github.com/gasline/gasline-api/internal/services"
	"github.com/gasline/gasline-api/internal/types"
	"github.com/gasline/gasline-api/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserHandler handles user self-service routes: filing applications,
// checking status and browsing agencies.
type UserHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// ApplyAgency handles POST /api/user/apply-agency
func (h *UserHandler) ApplyAgency(c *fiber.Ctx) error {
	accountID, err := requireAccountID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "user.applyAgency")
	}

	var input services.AgencyApplyInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "user.applyAgency")
	}
	if err := validate.Struct(input); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "user.applyAgency")
	}

	app, err := services.ApplyAgency(h.DB, accountID, input)
	if err != nil {
		return serviceError(c, err, "user.applyAgency")
	}

	return utils.DataResponse(c, app, fiber.StatusCreated)
}

// ApplyCustomer handles POST /api/user/apply-customer (multipart).
// Every mandatory document must be attached; the response names all
// missing ones at once.
func (h *UserHandler) ApplyCustomer(c *fiber.Ctx) error {
	accountID, err := requireAccountID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "user.applyCustomer")
	}

	input := services.CustomerApplyInput{
		CustomerName: c.FormValue("customerName"),
		Email:        c.FormValue("email"),
		MobileNo:     c.FormValue("mobileNo"),
		Address:      c.FormValue("address"),
		AgencyID:     c.FormValue("agencyId"),
		BankDetails: services.BankDetails{
			AccountHolder: c.FormValue("accountHolder"),
			AccountNumber: c.FormValue("accountNumber"),
			IFSC:          c.FormValue("ifsc"),
			BankName:      c.FormValue("bankName"),
		},
	}
	if err := validate.Struct(input); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "user.applyCustomer")
	}

	documents, missing, err := collectDocuments(c, services.RequiredCustomerDocuments, h.Cfg.UploadDir)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "user.applyCustomer")
	}
	if len(missing) > 0 {
		return missingDocumentsError(c, missing, "user.applyCustomer")
	}

	app, err := services.ApplyCustomer(h.DB, accountID, input, documents)
	if err != nil {
		removeUploads(h.Cfg.UploadDir, documents)
		return serviceError(c, err, "user.applyCustomer")
	}

	return utils.DataResponse(c, app, fiber.StatusCreated)
}

// ApplyDeliveryStaff handles POST /api/user/apply-delivery-staff
// (multipart). assignedArea may repeat or be comma-separated.
func (h *UserHandler) ApplyDeliveryStaff(c *fiber.Ctx) error {
	accountID, err := requireAccountID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "user.applyDeliveryStaff")
	}

	var salary types.FlexUint64
	if raw := c.FormValue("salary"); raw != "" {
		if err := salary.UnmarshalJSON([]byte(`"` + raw + `"`)); err != nil {
			return utils.ErrorResponse(c, "Invalid salary", fiber.StatusBadRequest, "user.applyDeliveryStaff")
		}
	}

	input := services.DeliveryStaffApplyInput{
		StaffName:    c.FormValue("staffName"),
		Email:        c.FormValue("email"),
		MobileNo:     c.FormValue("mobileNo"),
		StaffAddress: c.FormValue("staffAddress"),
		AadharNumber: c.FormValue("aadharNumber"),
		Salary:       salary,
		AssignedArea: parseAreas(c),
		AgencyID:     c.FormValue("agencyId"),
	}
	if err := validate.Struct(input); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "user.applyDeliveryStaff")
	}

	documents, missing, err := collectDocuments(c, services.RequiredDeliveryStaffDocuments, h.Cfg.UploadDir)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "user.applyDeliveryStaff")
	}
	if len(missing) > 0 {
		return missingDocumentsError(c, missing, "user.applyDeliveryStaff")
	}

	app, err := services.ApplyDeliveryStaff(h.DB, accountID, input, documents)
	if err != nil {
		removeUploads(h.Cfg.UploadDir, documents)
		return serviceError(c, err, "user.applyDeliveryStaff")
	}

	return utils.DataResponse(c, app, fiber.StatusCreated)
}

// ApplicationStatus handles GET /api/user/application-status
func (h *UserHandler) ApplicationStatus(c *fiber.Ctx) error {
	accountID, err := requireAccountID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "user.applicationStatus")
	}

	result, err := services.ApplicationStatus(h.DB, accountID)
	if err != nil {
		return serviceError(c, err, "user.applicationStatus")
	}

	return utils.DataResponse(c, result, fiber.StatusOK)
}

// ListAgencies handles GET /api/user/agencies
func (h *UserHandler) ListAgencies(c *fiber.Ctx) error {
	page, limit := parsePage(c)

	agencies, pagination, err := services.ListAgencies(h.DB, page, limit)
	if err != nil {
		return serviceError(c, err, "user.listAgencies")
	}

	return utils.ListResponse(c, "agencies", agencies, pagination)
}

// parseAreas collects assignedArea values from repeated form fields and
// comma-separated values.
func parseAreas(c *fiber.Ctx) types.FlexList[string] {
	var areas types.FlexList[string]
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return areas
	}
	for _, value := range form.Value["assignedArea"] {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				areas = append(areas, part)
			}
		}
	}
	return areas
}
