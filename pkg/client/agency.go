package client

import (
	"context"
	"fmt"
	"net/http"
)

// AgencyService covers the agency dashboard endpoints.
type AgencyService struct {
	client *Client
}

// StatusUpdate is an approve or deny decision.
type StatusUpdate struct {
	Status   string `json:"status"`
	Comments string `json:"comments,omitempty"`
}

// validateStatusUpdate enforces the decision contract before any
// network traffic: an exact Approved or Denied on a known application.
func validateStatusUpdate(registrationID string, update StatusUpdate) error {
	if registrationID == "" {
		return validationError("registration id is required")
	}
	if update.Status != "Approved" && update.Status != "Denied" {
		return validationError(fmt.Sprintf("status must be Approved or Denied, got %q", update.Status))
	}
	return nil
}

// Details fetches the authenticated agency's own application record.
func (s *AgencyService) Details(ctx context.Context) (*Agency, error) {
	var out dataEnvelope[Agency]
	if err := s.client.do(ctx, http.MethodGet, "/api/agency/details", nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Customers lists every customer of the agency, paginated.
func (s *AgencyService) Customers(ctx context.Context, page, limit int) (*CustomerList, error) {
	var out CustomerList
	path := fmt.Sprintf("/api/agency/customers?page=%d&limit=%d", page, limit)
	if err := s.client.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PendingCustomers lists customer applications awaiting a decision.
func (s *AgencyService) PendingCustomers(ctx context.Context, page, limit int) (*CustomerList, error) {
	var out CustomerList
	path := fmt.Sprintf("/api/agency/customers/pending?page=%d&limit=%d", page, limit)
	if err := s.client.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PendingDeliveryStaff lists delivery staff applications awaiting a
// decision.
func (s *AgencyService) PendingDeliveryStaff(ctx context.Context, page, limit int) (*DeliveryStaffList, error) {
	var out DeliveryStaffList
	path := fmt.Sprintf("/api/agency/delivery-staff/pending?page=%d&limit=%d", page, limit)
	if err := s.client.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCustomerStatus approves or denies a customer application.
func (s *AgencyService) UpdateCustomerStatus(ctx context.Context, registrationID string, update StatusUpdate) (*Customer, error) {
	if err := validateStatusUpdate(registrationID, update); err != nil {
		return nil, err
	}

	var out dataEnvelope[Customer]
	path := "/api/agency/customers/" + registrationID + "/status"
	if err := s.client.do(ctx, http.MethodPut, path, update, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// UpdateDeliveryStaffStatus approves or denies a delivery staff
// application.
func (s *AgencyService) UpdateDeliveryStaffStatus(ctx context.Context, registrationID string, update StatusUpdate) (*DeliveryStaff, error) {
	if err := validateStatusUpdate(registrationID, update); err != nil {
		return nil, err
	}

	var out dataEnvelope[DeliveryStaff]
	path := "/api/agency/delivery-staff/" + registrationID + "/status"
	if err := s.client.do(ctx, http.MethodPut, path, update, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}
