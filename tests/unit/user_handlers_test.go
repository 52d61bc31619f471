package handlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gasline/gasline-api/internal/models"
	"github.com/gasline/gasline-api/internal/types"
	"github.com/gasline/gasline-api/tests/helpers"
)

// countUploads returns how many files sit in the upload directory.
func countUploads(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read upload dir: %v", err)
	}
	return len(entries)
}

// buildCustomerForm assembles a multipart apply-customer body with the
// given document fields attached.
func buildCustomerForm(t *testing.T, agencyID string, documents []string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	fields := map[string]string{
		"customerName":  "Asha Nair",
		"email":         "asha@customer.test",
		"mobileNo":      "9123456780",
		"address":       "4 Gas Lane",
		"agencyId":      agencyID,
		"accountHolder": "Asha Nair",
		"accountNumber": "123456789012",
		"ifsc":          "HDFC0001234",
		"bankName":      "HDFC",
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("Failed to write field: %v", err)
		}
	}
	for _, doc := range documents {
		part, err := writer.CreateFormFile(doc, doc+".pdf")
		if err != nil {
			t.Fatalf("Failed to create file part: %v", err)
		}
		if _, err := part.Write([]byte("stub content")); err != nil {
			t.Fatalf("Failed to write file part: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

// TestApplyCustomerMissingDocuments verifies the aggregated error names
// every missing mandatory document at once.
func TestApplyCustomerMissingDocuments(t *testing.T) {
	app, db, cfg := setupApp(t)

	owner := helpers.CreateTestAccount(t, db, "owner", "owner@test.local", models.RoleAgency)
	agency := helpers.CreateTestAgency(t, db, owner.AccountID, "sunrise", types.StatusApproved)
	applicant := helpers.CreateTestAccount(t, db, "asha", "asha@test.local", models.RoleUser)

	body, contentType := buildCustomerForm(t, agency.RegistrationID, []string{"AadharDocument", "Signature"})
	req := httptest.NewRequest("POST", "/api/user/apply-customer", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, applicant))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 400)

	var errBody struct {
		Message string `json:"message"`
	}
	helpers.ParseJSON(t, resp, &errBody)
	for _, doc := range []string{"AddressProofDocument", "BankDocument", "ProfilePic"} {
		if !strings.Contains(errBody.Message, doc) {
			t.Errorf("Expected %q in aggregated error, got %q", doc, errBody.Message)
		}
	}
	for _, doc := range []string{"AadharDocument", "Signature"} {
		if strings.Contains(errBody.Message, doc) {
			t.Errorf("Attached document %q must not be reported missing: %q", doc, errBody.Message)
		}
	}

	// Nothing was persisted
	var count int64
	db.Model(&models.CustomerApplication{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no customer applications, found %d", count)
	}
	if n := countUploads(t, cfg.UploadDir); n != 0 {
		t.Errorf("Expected no stored uploads after rejection, found %d", n)
	}
}

// TestApplyCustomerDuplicateCleansUploads verifies a rejected second
// application leaves no files behind in the upload directory.
func TestApplyCustomerDuplicateCleansUploads(t *testing.T) {
	app, db, cfg := setupApp(t)

	owner := helpers.CreateTestAccount(t, db, "owner", "owner@test.local", models.RoleAgency)
	agency := helpers.CreateTestAgency(t, db, owner.AccountID, "sunrise", types.StatusApproved)
	applicant := helpers.CreateTestAccount(t, db, "asha", "asha@test.local", models.RoleUser)

	allDocs := []string{"AadharDocument", "AddressProofDocument", "BankDocument", "ProfilePic", "Signature"}
	body, contentType := buildCustomerForm(t, agency.RegistrationID, allDocs)
	req := httptest.NewRequest("POST", "/api/user/apply-customer", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, applicant))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 201)
	if n := countUploads(t, cfg.UploadDir); n != len(allDocs) {
		t.Fatalf("Expected %d stored uploads, found %d", len(allDocs), n)
	}

	// The same account cannot apply twice
	body, contentType = buildCustomerForm(t, agency.RegistrationID, allDocs)
	req = httptest.NewRequest("POST", "/api/user/apply-customer", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, applicant))
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 409)
	if n := countUploads(t, cfg.UploadDir); n != len(allDocs) {
		t.Errorf("Expected the rejected request's uploads removed, found %d files", n)
	}
}

// TestApplyCustomerSuccess verifies the created echo carries the legacy
// JSON keys and the server-computed cost breakdown.
func TestApplyCustomerSuccess(t *testing.T) {
	app, db, _ := setupApp(t)

	owner := helpers.CreateTestAccount(t, db, "owner", "owner@test.local", models.RoleAgency)
	agency := helpers.CreateTestAgency(t, db, owner.AccountID, "sunrise", types.StatusApproved)
	applicant := helpers.CreateTestAccount(t, db, "asha", "asha@test.local", models.RoleUser)

	allDocs := []string{"AadharDocument", "AddressProofDocument", "BankDocument", "ProfilePic", "Signature"}
	body, contentType := buildCustomerForm(t, agency.RegistrationID, allDocs)
	req := httptest.NewRequest("POST", "/api/user/apply-customer", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, applicant))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 201)

	var created struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	helpers.ParseJSON(t, resp, &created)

	raw := string(created.Data)
	for _, key := range []string{`"id"`, `"Approval_Status":"Pending"`, `"costBreakdown"`, `"allotedCylinder":"14.2kg Domestic"`} {
		if !strings.Contains(raw, key) {
			t.Errorf("Expected %s in created echo, got %s", key, raw)
		}
	}

	var data struct {
		CostBreakdown map[string]float64 `json:"costBreakdown"`
	}
	if err := json.Unmarshal(created.Data, &data); err != nil {
		t.Fatalf("Failed to decode created echo: %v", err)
	}
	if data.CostBreakdown["total"] != 3618 {
		t.Errorf("Expected total 3618, got %v", data.CostBreakdown["total"])
	}
}

// TestApplyDeliveryStaff verifies salary string coercion and the
// comma-separated assignedArea contract.
func TestApplyDeliveryStaff(t *testing.T) {
	app, db, _ := setupApp(t)

	owner := helpers.CreateTestAccount(t, db, "owner", "owner@test.local", models.RoleAgency)
	agency := helpers.CreateTestAgency(t, db, owner.AccountID, "sunrise", types.StatusApproved)
	applicant := helpers.CreateTestAccount(t, db, "ravi", "ravi@test.local", models.RoleUser)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	fields := map[string]string{
		"staffName":    "Ravi Kumar",
		"email":        "ravi@staff.test",
		"mobileNo":     "9012345678",
		"staffAddress": "8 Depot Road",
		"aadharNumber": "123412341234",
		"salary":       "18000",
		"assignedArea": "North Zone, South Zone",
		"agencyId":     agency.RegistrationID,
	}
	for key, value := range fields {
		writer.WriteField(key, value)
	}
	for _, doc := range []string{"AadharDocument", "StaffPhoto", "Signature"} {
		part, _ := writer.CreateFormFile(doc, doc+".pdf")
		part.Write([]byte("stub content"))
	}
	writer.Close()

	req := httptest.NewRequest("POST", "/api/user/apply-delivery-staff", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, applicant))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 201)

	var created struct {
		Data struct {
			Salary       uint64   `json:"salary"`
			AssignedArea []string `json:"assignedArea"`
		} `json:"data"`
	}
	helpers.ParseJSON(t, resp, &created)
	if created.Data.Salary != 18000 {
		t.Errorf("Expected salary 18000, got %d", created.Data.Salary)
	}
	if len(created.Data.AssignedArea) != 2 {
		t.Errorf("Expected 2 areas, got %v", created.Data.AssignedArea)
	}
}

// TestUpdateStatusAcceptsLegacyField verifies the Approval_Status body
// key works on decision routes.
func TestUpdateStatusAcceptsLegacyField(t *testing.T) {
	app, db, _ := setupApp(t)

	owner := helpers.CreateTestAccount(t, db, "owner", "owner@test.local", models.RoleAgency)
	agency := helpers.CreateTestAgency(t, db, owner.AccountID, "sunrise", types.StatusApproved)
	applicant := helpers.CreateTestAccount(t, db, "asha", "asha@test.local", models.RoleUser)
	customer := helpers.CreateTestCustomer(t, db, applicant.AccountID, agency.RegistrationID, "asha", types.StatusPending)

	body, _ := json.Marshal(map[string]string{"Approval_Status": "Denied", "comments": "out of area"})
	req := httptest.NewRequest("PUT", "/api/agency/customers/"+customer.RegistrationID+"/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, owner))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertStatus(t, resp, 200)

	var updated struct {
		Data struct {
			Status string `json:"Approval_Status"`
		} `json:"data"`
	}
	helpers.ParseJSON(t, resp, &updated)
	if updated.Data.Status != "Denied" {
		t.Errorf("Expected Denied, got %q", updated.Data.Status)
	}
}
