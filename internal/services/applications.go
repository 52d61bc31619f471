package services

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gasline/gasline-api/internal/models"
	"github.com/gasline/gasline-api/internal/types"
	"github.com/gasline/gasline-api/internal/utils"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Mandatory upload field names per application form. The names double as
// multipart form field names on the wire.
var (
	RequiredCustomerDocuments      = []string{"AadharDocument", "AddressProofDocument", "BankDocument", "ProfilePic", "Signature"}
	RequiredDeliveryStaffDocuments = []string{"AadharDocument", "StaffPhoto", "Signature"}
)

// Connection cost constants, in rupees. The server owns this computation;
// clients only echo the stored breakdown.
const (
	cylinderCost       = 1150
	securityDeposit    = 2200
	regulatorDeposit   = 150
	installationCharge = 118
	defaultCylinder    = "14.2kg Domestic"
)

// AgencyApplyInput carries the agency application form fields.
type AgencyApplyInput struct {
	AgencyName string `json:"agencyName" validate:"required,min=3,max=255"`
	Email      string `json:"email" validate:"required,email"`
	MobileNo   string `json:"mobileNo" validate:"required,min=10,max=15"`
	GSTNumber  string `json:"gstNumber" validate:"required,min=15,max=15"`
	Address    string `json:"address" validate:"required,max=512"`
}

// BankDetails is the bank account section of a customer application.
type BankDetails struct {
	AccountHolder string `json:"accountHolder" validate:"required"`
	AccountNumber string `json:"accountNumber" validate:"required,min=9,max=18"`
	IFSC          string `json:"ifsc" validate:"required,min=11,max=11"`
	BankName      string `json:"bankName" validate:"required"`
}

// CustomerApplyInput carries the customer application form fields.
type CustomerApplyInput struct {
	CustomerName string      `json:"customerName" validate:"required,min=3,max=255"`
	Email        string      `json:"email" validate:"required,email"`
	MobileNo     string      `json:"mobileNo" validate:"required,min=10,max=15"`
	Address      string      `json:"address" validate:"required,max=512"`
	AgencyID     string      `json:"agencyId" validate:"required,uuid"`
	BankDetails  BankDetails `json:"bankDetails" validate:"required"`
}

// DeliveryStaffApplyInput carries the delivery staff application form fields.
type DeliveryStaffApplyInput struct {
	StaffName    string                 `json:"staffName" validate:"required,min=3,max=255"`
	Email        string                 `json:"email" validate:"required,email"`
	MobileNo     string                 `json:"mobileNo" validate:"required,min=10,max=15"`
	StaffAddress string                 `json:"staffAddress" validate:"required,max=512"`
	AadharNumber string                 `json:"aadharNumber" validate:"required,min=12,max=12"`
	Salary       types.FlexUint64       `json:"salary" validate:"required"`
	AssignedArea types.FlexList[string] `json:"assignedArea" validate:"required,min=1"`
	AgencyID     string                 `json:"agencyId" validate:"required,uuid"`
}

// ApplicationStatusResult is the check-status payload: whichever
// applications the account has filed, in any state.
type ApplicationStatusResult struct {
	Agency        *models.AgencyApplication        `json:"agency,omitempty"`
	Customer      *models.CustomerApplication      `json:"customer,omitempty"`
	DeliveryStaff *models.DeliveryStaffApplication `json:"deliveryStaff,omitempty"`
}

// MissingDocuments returns every required upload field absent from the
// provided set, preserving the declaration order.
func MissingDocuments(required []string, provided map[string]string) []string {
	var missing []string
	for _, name := range required {
		if provided[name] == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// ApplyAgency files an agency application for the account. An account may
// hold at most one application that is not Denied.
func ApplyAgency(db *gorm.DB, accountID string, input AgencyApplyInput) (*models.AgencyApplication, error) {
	var existing models.AgencyApplication
	err := db.Where("account_id = ? AND approval_status <> ?", accountID, types.StatusDenied).
		First(&existing).Error
	if err == nil {
		return nil, ErrDuplicate
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	app := models.AgencyApplication{
		RegistrationID: uuid.New().String(),
		AccountID:      accountID,
		AgencyName:     input.AgencyName,
		Email:          input.Email,
		MobileNo:       input.MobileNo,
		GSTNumber:      input.GSTNumber,
		Address:        input.Address,
		ApprovalStatus: types.StatusPending,
		AppliedDate:    time.Now().UTC(),
	}

	if err := db.Create(&app).Error; err != nil {
		return nil, err
	}

	return &app, nil
}

// ApplyCustomer files a customer application with an approved agency.
// documents maps upload field names to stored file paths; presence of
// the mandatory set must be validated by the caller before any file is
// stored.
func ApplyCustomer(db *gorm.DB, accountID string, input CustomerApplyInput, documents map[string]string) (*models.CustomerApplication, error) {
	if _, err := approvedAgencyByID(db, input.AgencyID); err != nil {
		return nil, err
	}

	var existing models.CustomerApplication
	err := db.Where("account_id = ? AND approval_status <> ?", accountID, types.StatusDenied).
		First(&existing).Error
	if err == nil {
		return nil, ErrDuplicate
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	bank, err := json.Marshal(input.BankDetails)
	if err != nil {
		return nil, err
	}
	docs, err := json.Marshal(documents)
	if err != nil {
		return nil, err
	}
	cost, err := json.Marshal(map[string]interface{}{
		"cylinderCost":       cylinderCost,
		"securityDeposit":    securityDeposit,
		"regulatorDeposit":   regulatorDeposit,
		"installationCharge": installationCharge,
		"total":              cylinderCost + securityDeposit + regulatorDeposit + installationCharge,
	})
	if err != nil {
		return nil, err
	}

	app := models.CustomerApplication{
		RegistrationID:  uuid.New().String(),
		AccountID:       accountID,
		AgencyID:        input.AgencyID,
		CustomerName:    input.CustomerName,
		Email:           input.Email,
		MobileNo:        input.MobileNo,
		Address:         input.Address,
		BankDetails:     models.JSON{JSON: datatypes.JSON(bank)},
		Documents:       models.JSON{JSON: datatypes.JSON(docs)},
		CostBreakdown:   models.JSON{JSON: datatypes.JSON(cost)},
		AllotedCylinder: defaultCylinder,
		ApprovalStatus:  types.StatusPending,
		AppliedDate:     time.Now().UTC(),
	}

	if err := db.Create(&app).Error; err != nil {
		return nil, err
	}

	return &app, nil
}

// ApplyDeliveryStaff files a delivery staff application with an approved
// agency.
func ApplyDeliveryStaff(db *gorm.DB, accountID string, input DeliveryStaffApplyInput, documents map[string]string) (*models.DeliveryStaffApplication, error) {
	if _, err := approvedAgencyByID(db, input.AgencyID); err != nil {
		return nil, err
	}

	var existing models.DeliveryStaffApplication
	err := db.Where("account_id = ? AND approval_status <> ?", accountID, types.StatusDenied).
		First(&existing).Error
	if err == nil {
		return nil, ErrDuplicate
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	areas, err := json.Marshal([]string(input.AssignedArea))
	if err != nil {
		return nil, err
	}
	docs, err := json.Marshal(documents)
	if err != nil {
		return nil, err
	}

	app := models.DeliveryStaffApplication{
		RegistrationID: uuid.New().String(),
		AccountID:      accountID,
		AgencyID:       input.AgencyID,
		StaffName:      input.StaffName,
		Email:          input.Email,
		MobileNo:       input.MobileNo,
		StaffAddress:   input.StaffAddress,
		AadharNumber:   input.AadharNumber,
		Salary:         input.Salary.Uint64(),
		AssignedArea:   models.JSON{JSON: datatypes.JSON(areas)},
		Documents:      models.JSON{JSON: datatypes.JSON(docs)},
		ApprovalStatus: types.StatusPending,
		AppliedDate:    time.Now().UTC(),
	}

	if err := db.Create(&app).Error; err != nil {
		return nil, err
	}

	return &app, nil
}

// ApplicationStatus returns every application filed by the account.
func ApplicationStatus(db *gorm.DB, accountID string) (*ApplicationStatusResult, error) {
	result := &ApplicationStatusResult{}

	var agency models.AgencyApplication
	if err := db.Where("account_id = ?", accountID).Order("applied_date DESC").First(&agency).Error; err == nil {
		result.Agency = &agency
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var customer models.CustomerApplication
	if err := db.Where("account_id = ?", accountID).Order("applied_date DESC").First(&customer).Error; err == nil {
		result.Customer = &customer
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var staff models.DeliveryStaffApplication
	if err := db.Where("account_id = ?", accountID).Order("applied_date DESC").First(&staff).Error; err == nil {
		result.DeliveryStaff = &staff
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if result.Agency == nil && result.Customer == nil && result.DeliveryStaff == nil {
		return nil, ErrNotFound
	}

	return result, nil
}

// ListAgencies returns approved agencies, paginated.
func ListAgencies(db *gorm.DB, page, limit int) ([]models.AgencyApplication, utils.Pagination, error) {
	page, limit = NormalizePage(page, limit)

	var totalCount int64
	query := db.Model(&models.AgencyApplication{}).
		Where("approval_status = ?", types.StatusApproved)
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, utils.Pagination{}, err
	}
	page = ClampPage(page, limit, totalCount)

	var agencies []models.AgencyApplication
	err := query.Order("applied_date ASC, id ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&agencies).Error
	if err != nil {
		return nil, utils.Pagination{}, err
	}

	return agencies, BuildPagination(len(agencies), totalCount, page, limit), nil
}

// ListPendingAgencies returns agency applications awaiting a decision.
func ListPendingAgencies(db *gorm.DB, page, limit int) ([]models.AgencyApplication, utils.Pagination, error) {
	page, limit = NormalizePage(page, limit)

	var totalCount int64
	query := db.Model(&models.AgencyApplication{}).
		Where("approval_status = ?", types.StatusPending)
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, utils.Pagination{}, err
	}
	page = ClampPage(page, limit, totalCount)

	var agencies []models.AgencyApplication
	err := query.Order("applied_date ASC, id ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&agencies).Error
	if err != nil {
		return nil, utils.Pagination{}, err
	}

	return agencies, BuildPagination(len(agencies), totalCount, page, limit), nil
}

// ListPendingCustomers returns the agency's customer applications
// awaiting a decision.
func ListPendingCustomers(db *gorm.DB, agencyID string, page, limit int) ([]models.CustomerApplication, utils.Pagination, error) {
	page, limit = NormalizePage(page, limit)

	var totalCount int64
	query := db.Model(&models.CustomerApplication{}).
		Where("agency_id = ? AND approval_status = ?", agencyID, types.StatusPending)
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, utils.Pagination{}, err
	}
	page = ClampPage(page, limit, totalCount)

	var customers []models.CustomerApplication
	err := query.Order("applied_date ASC, id ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&customers).Error
	if err != nil {
		return nil, utils.Pagination{}, err
	}

	return customers, BuildPagination(len(customers), totalCount, page, limit), nil
}

// ListCustomers returns all of the agency's customer applications in any
// state.
func ListCustomers(db *gorm.DB, agencyID string, page, limit int) ([]models.CustomerApplication, utils.Pagination, error) {
	page, limit = NormalizePage(page, limit)

	var totalCount int64
	query := db.Model(&models.CustomerApplication{}).
		Where("agency_id = ?", agencyID)
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, utils.Pagination{}, err
	}
	page = ClampPage(page, limit, totalCount)

	var customers []models.CustomerApplication
	err := query.Order("applied_date ASC, id ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&customers).Error
	if err != nil {
		return nil, utils.Pagination{}, err
	}

	return customers, BuildPagination(len(customers), totalCount, page, limit), nil
}

// ListPendingDeliveryStaff returns the agency's delivery staff
// applications awaiting a decision.
func ListPendingDeliveryStaff(db *gorm.DB, agencyID string, page, limit int) ([]models.DeliveryStaffApplication, utils.Pagination, error) {
	page, limit = NormalizePage(page, limit)

	var totalCount int64
	query := db.Model(&models.DeliveryStaffApplication{}).
		Where("agency_id = ? AND approval_status = ?", agencyID, types.StatusPending)
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, utils.Pagination{}, err
	}
	page = ClampPage(page, limit, totalCount)

	var staff []models.DeliveryStaffApplication
	err := query.Order("applied_date ASC, id ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&staff).Error
	if err != nil {
		return nil, utils.Pagination{}, err
	}

	return staff, BuildPagination(len(staff), totalCount, page, limit), nil
}

// UpdateAgencyStatus decides a pending agency application. Approval
// promotes the applicant account to the agency role.
func UpdateAgencyStatus(db *gorm.DB, approverID, registrationID string, status types.ApprovalStatus, comments string) (*models.AgencyApplication, error) {
	if !types.ValidStatusTarget(status) {
		return nil, ErrInvalidStatus
	}

	var app models.AgencyApplication
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("registration_id = ?", registrationID).First(&app).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if !types.ValidTransition(status, app.ApprovalStatus) {
			return ErrImmutableStatus
		}

		now := time.Now().UTC()
		app.ApprovalStatus = status
		app.ApprovalDate = &now
		app.ApprovedBy = approverID
		app.Comments = comments

		if err := tx.Save(&app).Error; err != nil {
			return err
		}

		if status == types.StatusApproved {
			return assignRole(tx, app.AccountID, models.RoleAgency)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &app, nil
}

// UpdateCustomerStatus decides a pending customer application. Only the
// agency the application was filed with may decide it; applications
// belonging to other agencies are not found. Approval assigns a
// customer ID and promotes the applicant account.
func UpdateCustomerStatus(db *gorm.DB, agencyID, registrationID string, status types.ApprovalStatus, comments string) (*models.CustomerApplication, error) {
	if !types.ValidStatusTarget(status) {
		return nil, ErrInvalidStatus
	}

	var app models.CustomerApplication
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("registration_id = ? AND agency_id = ?", registrationID, agencyID).First(&app).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if !types.ValidTransition(status, app.ApprovalStatus) {
			return ErrImmutableStatus
		}

		now := time.Now().UTC()
		app.ApprovalStatus = status
		app.ApprovalDate = &now
		app.ApprovedBy = agencyID
		app.Comments = comments
		if status == types.StatusApproved {
			app.CustomerID = uuid.New().String()
		}

		if err := tx.Save(&app).Error; err != nil {
			return err
		}

		if status == types.StatusApproved {
			return assignRole(tx, app.AccountID, models.RoleCustomer)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &app, nil
}

// UpdateDeliveryStaffStatus decides a pending delivery staff
// application. Only the agency the application was filed with may
// decide it. Approval promotes the applicant account.
func UpdateDeliveryStaffStatus(db *gorm.DB, agencyID, registrationID string, status types.ApprovalStatus, comments string) (*models.DeliveryStaffApplication, error) {
	if !types.ValidStatusTarget(status) {
		return nil, ErrInvalidStatus
	}

	var app models.DeliveryStaffApplication
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("registration_id = ? AND agency_id = ?", registrationID, agencyID).First(&app).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if !types.ValidTransition(status, app.ApprovalStatus) {
			return ErrImmutableStatus
		}

		now := time.Now().UTC()
		app.ApprovalStatus = status
		app.ApprovalDate = &now
		app.ApprovedBy = agencyID
		app.Comments = comments

		if err := tx.Save(&app).Error; err != nil {
			return err
		}

		if status == types.StatusApproved {
			return assignRole(tx, app.AccountID, models.RoleDeliveryStaff)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &app, nil
}

// AgencyDetails returns the approved agency application belonging to the
// account.
func AgencyDetails(db *gorm.DB, accountID string) (*models.AgencyApplication, error) {
	var app models.AgencyApplication
	err := db.Where("account_id = ? AND approval_status = ?", accountID, types.StatusApproved).
		First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &app, nil
}

// CustomerDetails returns the customer application belonging to the
// account.
func CustomerDetails(db *gorm.DB, accountID string) (*models.CustomerApplication, error) {
	var app models.CustomerApplication
	err := db.Where("account_id = ?", accountID).
		Order("applied_date DESC").First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &app, nil
}

// DeliveryStaffDetails returns the delivery staff application belonging
// to the account.
func DeliveryStaffDetails(db *gorm.DB, accountID string) (*models.DeliveryStaffApplication, error) {
	var app models.DeliveryStaffApplication
	err := db.Where("account_id = ?", accountID).
		Order("applied_date DESC").First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &app, nil
}

// StaffAssignments returns the delivery areas assigned to approved
// staff.
func StaffAssignments(db *gorm.DB, accountID string) ([]string, error) {
	var app models.DeliveryStaffApplication
	err := db.Where("account_id = ? AND approval_status = ?", accountID, types.StatusApproved).
		First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var areas []string
	if len(app.AssignedArea.JSON) > 0 {
		if err := json.Unmarshal(app.AssignedArea.JSON, &areas); err != nil {
			return nil, err
		}
	}
	return areas, nil
}

// approvedAgencyByID checks the target agency exists and is approved.
func approvedAgencyByID(db *gorm.DB, agencyID string) (*models.AgencyApplication, error) {
	var agency models.AgencyApplication
	err := db.Where("registration_id = ? AND approval_status = ?", agencyID, types.StatusApproved).
		First(&agency).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &agency, nil
}
