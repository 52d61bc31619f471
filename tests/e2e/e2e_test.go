package e2e_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/gasline/gasline-api/pkg/client"
	"github.com/gasline/gasline-api/pkg/store"
	"github.com/gasline/gasline-api/tests/helpers"
)

// TestE2EWithFullStack boots the database and API containers and drives
// the whole approval chain through the SDK.
func TestE2EWithFullStack(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}
	if os.Getenv("DB_IMAGE") == "" {
		t.Skip("DB_IMAGE not set")
	}

	ctx := context.Background()

	tc, err := helpers.CreateAllTestContainers(t)
	if err != nil {
		t.Fatalf("Failed to start test containers: %v", err)
	}
	defer tc.Terminate(t)

	dbHost, _ := tc.DBContainer.Host(ctx)
	dbPort, _ := tc.DBContainer.MappedPort(ctx, "3306")

	// Wait a bit for everything to stabilize
	time.Sleep(5 * time.Second)

	t.Run("HealthEndpoint", func(t *testing.T) {
		testHealthEndpoint(t, tc.BaseURL)
	})

	t.Run("PrometheusMetrics", func(t *testing.T) {
		testPrometheusMetrics(t, tc.BaseURL)
	})

	t.Run("NotFoundEnvelope", func(t *testing.T) {
		testNotFoundEnvelope(t, tc.BaseURL)
	})

	t.Run("ApprovalChainThroughSDK", func(t *testing.T) {
		testApprovalChainThroughSDK(t, tc.BaseURL, dbHost, dbPort.Port())
	})
}

func testHealthEndpoint(t *testing.T, baseURL string) {
	resp, err := http.Get(baseURL + "/api/health")
	if err != nil {
		t.Fatalf("Failed to get health: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200 for health, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Health response is not valid JSON: %v", err)
	}
	if result["status"] != "healthy" {
		t.Errorf("Expected healthy status, got %v", result["status"])
	}
}

func testPrometheusMetrics(t *testing.T, baseURL string) {
	resp, err := http.Get(baseURL + "/metrics")
	if err != nil {
		t.Fatalf("Failed to get metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200 for metrics, got %d. Body: %s", resp.StatusCode, string(body))
	}

	t.Logf("Metrics endpoint working, found %d bytes of metrics", len(body))
}

func testNotFoundEnvelope(t *testing.T, baseURL string) {
	resp, err := http.Get(baseURL + "/api/no-such-route")
	if err != nil {
		t.Fatalf("Failed to access API: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 404 {
		t.Errorf("Expected status 404, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Errorf("Response is not valid JSON: %v", err)
	}
	if result["url"] != "/api/no-such-route" {
		t.Errorf("Expected the request url in the envelope, got %v", result["url"])
	}
}

// testApprovalChainThroughSDK plays four roles end to end: an admin
// approves an agency, the agency approves a customer, and the store's
// views reconcile along the way.
func testApprovalChainThroughSDK(t *testing.T, baseURL, dbHost, dbPort string) {
	ctx := context.Background()
	password := helpers.GeneratePassword()

	// Bootstrap the admin by direct role promotion
	_, adminID := helpers.AcquireAccount(t, baseURL, "e2e-admin", "e2e-admin@test.local", password)
	helpers.PromoteRole(t, dbHost, dbPort, adminID, "admin")

	// Track navigation per store
	var adminPath string
	adminStore := store.New(baseURL, store.NavigatorFunc(func(p string) { adminPath = p }))
	if err := adminStore.Login(ctx, "e2e-admin@test.local", password); err != nil {
		t.Fatalf("Admin login failed: %v", err)
	}
	if adminPath != "/admin-dashboard" {
		t.Errorf("Expected admin dashboard redirect, got %q", adminPath)
	}

	// A fresh account applies to run an agency
	helpers.AcquireAccount(t, baseURL, "e2e-owner", "e2e-owner@test.local", password)

	var ownerPath string
	ownerStore := store.New(baseURL, store.NavigatorFunc(func(p string) { ownerPath = p }))
	if err := ownerStore.Login(ctx, "e2e-owner@test.local", password); err != nil {
		t.Fatalf("Owner login failed: %v", err)
	}
	if ownerPath != "/application-status" {
		t.Errorf("Expected application-status redirect for base role, got %q", ownerPath)
	}

	agencyApp, err := ownerStore.ApplyAgency(ctx, client.AgencyApplyRequest{
		AgencyName: "E2E Gas Agency",
		Email:      "e2e-agency@test.local",
		MobileNo:   "9876543210",
		GSTNumber:  "22AAAAA0000A1Z5",
		Address:    "12 Industrial Estate",
	})
	if err != nil {
		t.Fatalf("Agency application failed: %v", err)
	}

	// The admin sees it pending and approves it
	if err := adminStore.FetchPendingAgencies(ctx, 1, 10); err != nil {
		t.Fatalf("Failed to fetch pending agencies: %v", err)
	}
	pending := adminStore.PendingAgencies()
	if len(pending.Agencies) == 0 {
		t.Fatal("Expected at least one pending agency")
	}

	if err := adminStore.UpdateAgencyStatus(ctx, agencyApp.RegistrationID, client.StatusUpdate{
		Status:   "Approved",
		Comments: "verified",
	}); err != nil {
		t.Fatalf("Agency approval failed: %v", err)
	}

	// Approval removed it from the admin's pending view
	pending = adminStore.PendingAgencies()
	for _, agency := range pending.Agencies {
		if agency.RegistrationID == agencyApp.RegistrationID {
			t.Error("Approved agency still present in the pending view")
		}
	}

	// The owner logs in again and lands on the agency dashboard
	ownerStore2 := store.New(baseURL, store.NavigatorFunc(func(p string) { ownerPath = p }))
	if err := ownerStore2.Login(ctx, "e2e-owner@test.local", password); err != nil {
		t.Fatalf("Owner re-login failed: %v", err)
	}
	if ownerPath != "/agency-dashboard" {
		t.Errorf("Expected agency dashboard after promotion, got %q", ownerPath)
	}

	// A customer applies to the approved agency with all documents
	helpers.AcquireAccount(t, baseURL, "e2e-customer", "e2e-customer@test.local", password)
	customerStore := store.New(baseURL, nil)
	if err := customerStore.Login(ctx, "e2e-customer@test.local", password); err != nil {
		t.Fatalf("Customer login failed: %v", err)
	}

	documents := make(map[string]client.Upload)
	for _, field := range []string{"AadharDocument", "AddressProofDocument", "BankDocument", "ProfilePic", "Signature"} {
		documents[field] = client.Upload{Filename: field + ".pdf", Content: strings.NewReader("e2e document")}
	}
	customerApp, err := customerStore.ApplyCustomer(ctx, client.CustomerApplyRequest{
		CustomerName:  "E2E Customer",
		Email:         "e2e-customer@test.local",
		MobileNo:      "9876501234",
		Address:       "4 Market Street",
		AgencyID:      agencyApp.RegistrationID,
		AccountHolder: "E2E Customer",
		AccountNumber: "000111222333",
		IFSC:          "HDFC0001234",
		BankName:      "HDFC",
		Documents:     documents,
	})
	if err != nil {
		t.Fatalf("Customer application failed: %v", err)
	}
	if customerApp.ApprovalStatus != "Pending" {
		t.Errorf("Expected Pending echo, got %q", customerApp.ApprovalStatus)
	}
	if customerApp.CostBreakdown["total"] != 3618 {
		t.Errorf("Expected total 3618, got %v", customerApp.CostBreakdown["total"])
	}

	// The agency approves and both views reconcile
	if err := ownerStore2.FetchPendingCustomers(ctx, 1, 10); err != nil {
		t.Fatalf("Failed to fetch pending customers: %v", err)
	}
	if err := ownerStore2.FetchAllCustomers(ctx, 1, 10); err != nil {
		t.Fatalf("Failed to fetch all customers: %v", err)
	}

	before := ownerStore2.PendingCustomers()
	if err := ownerStore2.UpdateCustomerStatus(ctx, customerApp.RegistrationID, client.StatusUpdate{
		Status: "Approved",
	}); err != nil {
		t.Fatalf("Customer approval failed: %v", err)
	}

	after := ownerStore2.PendingCustomers()
	if after.Page.TotalCount != before.Page.TotalCount-1 {
		t.Errorf("Expected pending totalCount to drop by 1: before=%d after=%d",
			before.Page.TotalCount, after.Page.TotalCount)
	}

	all := ownerStore2.AllCustomers()
	var found bool
	for _, customer := range all.Customers {
		if customer.RegistrationID == customerApp.RegistrationID {
			found = true
			if customer.ApprovalStatus != "Approved" {
				t.Errorf("Expected Approved in the full view, got %q", customer.ApprovalStatus)
			}
			if customer.CustomerID == "" {
				t.Error("Expected a CustomerID after approval")
			}
		}
	}
	if !found {
		t.Error("Approved customer missing from the full view")
	}

	// The customer dashboard now serves the connection record
	if err := customerStore.FetchCustomerDetails(ctx); err != nil {
		t.Fatalf("Failed to fetch customer details: %v", err)
	}
	details, status := customerStore.CustomerDetails()
	if status.Phase != store.PhaseFulfilled || details == nil {
		t.Fatalf("Expected fulfilled customer details, got phase %v", status.Phase)
	}
	if details.AllotedCylinder != "14.2kg Domestic" {
		t.Errorf("Expected default cylinder, got %q", details.AllotedCylinder)
	}
}
