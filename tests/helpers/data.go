package helpers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/gasline/gasline-api/internal/auth"
	"github.com/gasline/gasline-api/internal/database"
	"github.com/gasline/gasline-api/internal/models"
	"github.com/gasline/gasline-api/internal/types"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenTestDB opens an in-memory database with the full schema migrated.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// CreateTestAccount creates an account with the given role and returns it.
// The password is always "Secret#123".
func CreateTestAccount(t *testing.T, db *gorm.DB, username, email, role string) *models.Account {
	t.Helper()

	hash, err := auth.HashPassword("Secret#123")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	account := &models.Account{
		AccountID:    uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}
	return account
}

// CreateTestAgency creates an agency application in the given status,
// owned by the account.
func CreateTestAgency(t *testing.T, db *gorm.DB, accountID, name string, status types.ApprovalStatus) *models.AgencyApplication {
	t.Helper()

	app := &models.AgencyApplication{
		RegistrationID: uuid.New().String(),
		AccountID:      accountID,
		AgencyName:     name,
		Email:          name + "@agency.test",
		MobileNo:       "9876543210",
		GSTNumber:      "22AAAAA0000A1Z5",
		Address:        "12 Industrial Estate",
		ApprovalStatus: status,
		AppliedDate:    time.Now().UTC(),
	}
	if status.IsTerminal() {
		now := time.Now().UTC()
		app.ApprovalDate = &now
		app.ApprovedBy = uuid.New().String()
	}
	if err := db.Create(app).Error; err != nil {
		t.Fatalf("Failed to create agency application: %v", err)
	}
	return app
}

// CreateTestCustomer creates a customer application with the standard
// document set attached.
func CreateTestCustomer(t *testing.T, db *gorm.DB, accountID, agencyID, name string, status types.ApprovalStatus) *models.CustomerApplication {
	t.Helper()

	docs := map[string]string{
		"AadharDocument":       "/uploads/aadhar.pdf",
		"AddressProofDocument": "/uploads/address.pdf",
		"BankDocument":         "/uploads/bank.pdf",
		"ProfilePic":           "/uploads/profile.jpg",
		"Signature":            "/uploads/sign.png",
	}
	docsJSON, _ := json.Marshal(docs)

	app := &models.CustomerApplication{
		RegistrationID: uuid.New().String(),
		AccountID:      accountID,
		AgencyID:       agencyID,
		CustomerName:   name,
		Email:          name + "@customer.test",
		MobileNo:       "9123456780",
		Address:        "4 Gas Lane",
		Documents:      models.JSON{JSON: datatypes.JSON(docsJSON)},
		ApprovalStatus: status,
		AppliedDate:    time.Now().UTC(),
	}
	if status == types.StatusApproved {
		now := time.Now().UTC()
		app.CustomerID = uuid.New().String()
		app.ApprovalDate = &now
	}
	if err := db.Create(app).Error; err != nil {
		t.Fatalf("Failed to create customer application: %v", err)
	}
	return app
}

// CreateTestDeliveryStaff creates a delivery staff application.
func CreateTestDeliveryStaff(t *testing.T, db *gorm.DB, accountID, agencyID, name string, status types.ApprovalStatus) *models.DeliveryStaffApplication {
	t.Helper()

	docs := map[string]string{
		"AadharDocument": "/uploads/aadhar.pdf",
		"StaffPhoto":     "/uploads/photo.jpg",
		"Signature":      "/uploads/sign.png",
	}
	docsJSON, _ := json.Marshal(docs)
	areas, _ := json.Marshal([]string{"North Zone"})

	app := &models.DeliveryStaffApplication{
		RegistrationID: uuid.New().String(),
		AccountID:      accountID,
		AgencyID:       agencyID,
		StaffName:      name,
		Email:          name + "@staff.test",
		MobileNo:       "9012345678",
		StaffAddress:   "8 Depot Road",
		AadharNumber:   "123412341234",
		Salary:         18000,
		AssignedArea:   models.JSON{JSON: datatypes.JSON(areas)},
		Documents:      models.JSON{JSON: datatypes.JSON(docsJSON)},
		ApprovalStatus: status,
		AppliedDate:    time.Now().UTC(),
	}
	if err := db.Create(app).Error; err != nil {
		t.Fatalf("Failed to create delivery staff application: %v", err)
	}
	return app
}
