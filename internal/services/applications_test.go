package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/gasline/gasline-api/internal/database"
	"github.com/gasline/gasline-api/internal/models"
	"github.com/gasline/gasline-api/internal/types"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func createAccount(t *testing.T, db *gorm.DB, role string) *models.Account {
	t.Helper()
	account := &models.Account{
		AccountID:    uuid.New().String(),
		Username:     "user-" + uuid.New().String()[:8],
		Email:        uuid.New().String()[:8] + "@test.local",
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, db.Create(account).Error)
	return account
}

func approvedAgency(t *testing.T, db *gorm.DB) *models.AgencyApplication {
	t.Helper()
	owner := createAccount(t, db, models.RoleAgency)
	app, err := ApplyAgency(db, owner.AccountID, AgencyApplyInput{
		AgencyName: "Sunrise Gas",
		Email:      "sunrise@agency.test",
		MobileNo:   "9876543210",
		GSTNumber:  "22AAAAA0000A1Z5",
		Address:    "12 Industrial Estate",
	})
	require.NoError(t, err)

	admin := createAccount(t, db, models.RoleAdmin)
	approved, err := UpdateAgencyStatus(db, admin.AccountID, app.RegistrationID, types.StatusApproved, "")
	require.NoError(t, err)
	return approved
}

func customerInput(agencyID string) CustomerApplyInput {
	return CustomerApplyInput{
		CustomerName: "Asha Nair",
		Email:        "asha@customer.test",
		MobileNo:     "9123456780",
		Address:      "4 Gas Lane",
		AgencyID:     agencyID,
		BankDetails: BankDetails{
			AccountHolder: "Asha Nair",
			AccountNumber: "123456789012",
			IFSC:          "HDFC0001234",
			BankName:      "HDFC",
		},
	}
}

var allCustomerDocs = map[string]string{
	"AadharDocument":       "a.pdf",
	"AddressProofDocument": "b.pdf",
	"BankDocument":         "c.pdf",
	"ProfilePic":           "d.jpg",
	"Signature":            "e.png",
}

func TestApplyAgencyDuplicate(t *testing.T) {
	db := setupDB(t)
	account := createAccount(t, db, models.RoleUser)

	input := AgencyApplyInput{
		AgencyName: "Sunrise Gas",
		Email:      "sunrise@agency.test",
		MobileNo:   "9876543210",
		GSTNumber:  "22AAAAA0000A1Z5",
		Address:    "12 Industrial Estate",
	}
	_, err := ApplyAgency(db, account.AccountID, input)
	require.NoError(t, err)

	_, err = ApplyAgency(db, account.AccountID, input)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestApplyAgencyAllowedAfterDenial(t *testing.T) {
	db := setupDB(t)
	account := createAccount(t, db, models.RoleUser)
	admin := createAccount(t, db, models.RoleAdmin)

	input := AgencyApplyInput{
		AgencyName: "Sunrise Gas",
		Email:      "sunrise@agency.test",
		MobileNo:   "9876543210",
		GSTNumber:  "22AAAAA0000A1Z5",
		Address:    "12 Industrial Estate",
	}
	first, err := ApplyAgency(db, account.AccountID, input)
	require.NoError(t, err)

	_, err = UpdateAgencyStatus(db, admin.AccountID, first.RegistrationID, types.StatusDenied, "incomplete GST records")
	require.NoError(t, err)

	_, err = ApplyAgency(db, account.AccountID, input)
	assert.NoError(t, err)
}

func TestApplyCustomerRequiresApprovedAgency(t *testing.T) {
	db := setupDB(t)
	account := createAccount(t, db, models.RoleUser)

	_, err := ApplyCustomer(db, account.AccountID, customerInput(uuid.New().String()), allCustomerDocs)
	assert.ErrorIs(t, err, ErrNotFound)

	// Pending agency is not bookable either
	owner := createAccount(t, db, models.RoleUser)
	pending, err := ApplyAgency(db, owner.AccountID, AgencyApplyInput{
		AgencyName: "Dawn Gas",
		Email:      "dawn@agency.test",
		MobileNo:   "9876500000",
		GSTNumber:  "22BBBBB0000B1Z5",
		Address:    "9 Dock Road",
	})
	require.NoError(t, err)

	_, err = ApplyCustomer(db, account.AccountID, customerInput(pending.RegistrationID), allCustomerDocs)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApplyCustomerComputesCostBreakdown(t *testing.T) {
	db := setupDB(t)
	agency := approvedAgency(t, db)
	account := createAccount(t, db, models.RoleUser)

	app, err := ApplyCustomer(db, account.AccountID, customerInput(agency.RegistrationID), allCustomerDocs)
	require.NoError(t, err)

	assert.Equal(t, "14.2kg Domestic", app.AllotedCylinder)
	assert.Contains(t, string(app.CostBreakdown.JSON), `"cylinderCost":1150`)
	assert.Contains(t, string(app.CostBreakdown.JSON), `"total":3618`)
	assert.Equal(t, types.StatusPending, app.ApprovalStatus)
	assert.Empty(t, app.CustomerID)
}

func TestUpdateCustomerStatusLifecycle(t *testing.T) {
	db := setupDB(t)
	agency := approvedAgency(t, db)
	account := createAccount(t, db, models.RoleUser)

	app, err := ApplyCustomer(db, account.AccountID, customerInput(agency.RegistrationID), allCustomerDocs)
	require.NoError(t, err)

	// Pending is never a valid target
	_, err = UpdateCustomerStatus(db, agency.RegistrationID, app.RegistrationID, types.StatusPending, "")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	// Unknown registration id
	_, err = UpdateCustomerStatus(db, agency.RegistrationID, uuid.New().String(), types.StatusApproved, "")
	assert.ErrorIs(t, err, ErrNotFound)

	approved, err := UpdateCustomerStatus(db, agency.RegistrationID, app.RegistrationID, types.StatusApproved, "welcome")
	require.NoError(t, err)
	assert.Equal(t, types.StatusApproved, approved.ApprovalStatus)
	assert.NotEmpty(t, approved.CustomerID)
	assert.NotNil(t, approved.ApprovalDate)
	assert.Equal(t, agency.RegistrationID, approved.ApprovedBy)

	// Approval promotes the account
	var promoted models.Account
	require.NoError(t, db.Where("account_id = ?", account.AccountID).First(&promoted).Error)
	assert.Equal(t, models.RoleCustomer, promoted.Role)

	// Terminal status is immutable
	_, err = UpdateCustomerStatus(db, agency.RegistrationID, app.RegistrationID, types.StatusDenied, "")
	assert.ErrorIs(t, err, ErrImmutableStatus)
}

func TestUpdateStatusRejectsOtherAgencies(t *testing.T) {
	db := setupDB(t)
	agency := approvedAgency(t, db)

	otherOwner := createAccount(t, db, models.RoleAgency)
	other, err := ApplyAgency(db, otherOwner.AccountID, AgencyApplyInput{
		AgencyName: "Rival Gas",
		Email:      "rival@agency.test",
		MobileNo:   "9876500002",
		GSTNumber:  "22DDDDD0000D1Z5",
		Address:    "2 Harbour Road",
	})
	require.NoError(t, err)
	admin := createAccount(t, db, models.RoleAdmin)
	other, err = UpdateAgencyStatus(db, admin.AccountID, other.RegistrationID, types.StatusApproved, "")
	require.NoError(t, err)

	account := createAccount(t, db, models.RoleUser)
	app, err := ApplyCustomer(db, account.AccountID, customerInput(agency.RegistrationID), allCustomerDocs)
	require.NoError(t, err)

	// Another agency cannot see or decide the application
	_, err = UpdateCustomerStatus(db, other.RegistrationID, app.RegistrationID, types.StatusApproved, "")
	assert.ErrorIs(t, err, ErrNotFound)

	var untouched models.CustomerApplication
	require.NoError(t, db.Where("registration_id = ?", app.RegistrationID).First(&untouched).Error)
	assert.Equal(t, types.StatusPending, untouched.ApprovalStatus)
	assert.Empty(t, untouched.CustomerID)

	staffAccount := createAccount(t, db, models.RoleUser)
	staffApp, err := ApplyDeliveryStaff(db, staffAccount.AccountID, DeliveryStaffApplyInput{
		StaffName:    "Meena Joseph",
		Email:        "meena@staff.test",
		MobileNo:     "9012345679",
		StaffAddress: "5 Depot Road",
		AadharNumber: "432143214321",
		Salary:       17000,
		AssignedArea: types.FlexList[string]{"South Zone"},
		AgencyID:     agency.RegistrationID,
	}, map[string]string{"AadharDocument": "a.pdf", "StaffPhoto": "b.jpg", "Signature": "c.png"})
	require.NoError(t, err)

	_, err = UpdateDeliveryStaffStatus(db, other.RegistrationID, staffApp.RegistrationID, types.StatusDenied, "")
	assert.ErrorIs(t, err, ErrNotFound)

	// The owning agency still can
	decided, err := UpdateCustomerStatus(db, agency.RegistrationID, app.RegistrationID, types.StatusApproved, "")
	require.NoError(t, err)
	assert.Equal(t, types.StatusApproved, decided.ApprovalStatus)
}

func TestUpdateDeliveryStaffStatusDenied(t *testing.T) {
	db := setupDB(t)
	agency := approvedAgency(t, db)
	account := createAccount(t, db, models.RoleUser)

	app, err := ApplyDeliveryStaff(db, account.AccountID, DeliveryStaffApplyInput{
		StaffName:    "Ravi Kumar",
		Email:        "ravi@staff.test",
		MobileNo:     "9012345678",
		StaffAddress: "8 Depot Road",
		AadharNumber: "123412341234",
		Salary:       18000,
		AssignedArea: types.FlexList[string]{"North Zone"},
		AgencyID:     agency.RegistrationID,
	}, map[string]string{"AadharDocument": "a.pdf", "StaffPhoto": "b.jpg", "Signature": "c.png"})
	require.NoError(t, err)

	denied, err := UpdateDeliveryStaffStatus(db, agency.RegistrationID, app.RegistrationID, types.StatusDenied, "area covered")
	require.NoError(t, err)
	assert.Equal(t, types.StatusDenied, denied.ApprovalStatus)

	// Denial must not promote the account
	var unchanged models.Account
	require.NoError(t, db.Where("account_id = ?", account.AccountID).First(&unchanged).Error)
	assert.Equal(t, models.RoleUser, unchanged.Role)
}

func TestListPendingCustomersPagination(t *testing.T) {
	db := setupDB(t)
	agency := approvedAgency(t, db)

	for i := 0; i < 7; i++ {
		account := createAccount(t, db, models.RoleUser)
		input := customerInput(agency.RegistrationID)
		input.Email = fmt.Sprintf("c%d@customer.test", i)
		_, err := ApplyCustomer(db, account.AccountID, input, allCustomerDocs)
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	customers, page1, err := ListPendingCustomers(db, agency.RegistrationID, 1, 3)
	require.NoError(t, err)
	assert.Len(t, customers, 3)
	assert.LessOrEqual(t, page1.Count, page1.Limit)
	assert.Equal(t, int64(7), page1.TotalCount)
	assert.Equal(t, 3, page1.TotalPages)
	assert.LessOrEqual(t, page1.CurrentPage, page1.TotalPages)

	// Last page holds the remainder
	tail, page3, err := ListPendingCustomers(db, agency.RegistrationID, 3, 3)
	require.NoError(t, err)
	assert.Len(t, tail, 1)
	assert.Equal(t, 3, page3.CurrentPage)

	// Idempotent re-fetch over unchanged data
	again, page1b, err := ListPendingCustomers(db, agency.RegistrationID, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, customers, again)
	assert.Equal(t, page1, page1b)

	// Page past the end serves the last page's rows, not an empty list
	overshoot, clamped, err := ListPendingCustomers(db, agency.RegistrationID, 99, 3)
	require.NoError(t, err)
	assert.Equal(t, tail, overshoot)
	assert.Equal(t, 3, clamped.CurrentPage)
	assert.Equal(t, 3, clamped.TotalPages)
	assert.Equal(t, 1, clamped.Count)
}

func TestListAgenciesOnlyApproved(t *testing.T) {
	db := setupDB(t)
	approvedAgency(t, db)

	owner := createAccount(t, db, models.RoleUser)
	_, err := ApplyAgency(db, owner.AccountID, AgencyApplyInput{
		AgencyName: "Pending Gas",
		Email:      "pending@agency.test",
		MobileNo:   "9876500001",
		GSTNumber:  "22CCCCC0000C1Z5",
		Address:    "1 Side Street",
	})
	require.NoError(t, err)

	agencies, page, err := ListAgencies(db, 1, 10)
	require.NoError(t, err)
	assert.Len(t, agencies, 1)
	assert.Equal(t, int64(1), page.TotalCount)
	assert.Equal(t, types.StatusApproved, agencies[0].ApprovalStatus)

	// An out-of-range page falls back to the last real page
	beyond, meta, err := ListAgencies(db, 5, 10)
	require.NoError(t, err)
	assert.Len(t, beyond, 1)
	assert.Equal(t, 1, meta.Count)
	assert.Equal(t, 1, meta.CurrentPage)
	assert.Equal(t, 1, meta.TotalPages)
}

func TestMissingDocuments(t *testing.T) {
	missing := MissingDocuments(RequiredCustomerDocuments, map[string]string{
		"AadharDocument": "a.pdf",
		"Signature":      "e.png",
	})
	assert.Equal(t, []string{"AddressProofDocument", "BankDocument", "ProfilePic"}, missing)

	assert.Nil(t, MissingDocuments(RequiredCustomerDocuments, allCustomerDocs))
}

func TestApplicationStatusAggregates(t *testing.T) {
	db := setupDB(t)
	agency := approvedAgency(t, db)
	account := createAccount(t, db, models.RoleUser)

	_, err := ApplicationStatus(db, account.AccountID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = ApplyCustomer(db, account.AccountID, customerInput(agency.RegistrationID), allCustomerDocs)
	require.NoError(t, err)

	result, err := ApplicationStatus(db, account.AccountID)
	require.NoError(t, err)
	assert.Nil(t, result.Agency)
	assert.NotNil(t, result.Customer)
	assert.Nil(t, result.DeliveryStaff)
}
