package client

import (
	"context"
	"net/http"
)

// DeliveryStaffService covers the delivery staff dashboard endpoints.
type DeliveryStaffService struct {
	client *Client
}

// Details fetches the authenticated staff member's application record.
func (s *DeliveryStaffService) Details(ctx context.Context) (*DeliveryStaff, error) {
	var out dataEnvelope[DeliveryStaff]
	if err := s.client.do(ctx, http.MethodGet, "/api/delivery-staff/details", nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Assignments fetches the staff member's assigned delivery areas.
func (s *DeliveryStaffService) Assignments(ctx context.Context) ([]string, error) {
	var out dataEnvelope[struct {
		AssignedArea []string `json:"assignedArea"`
	}]
	if err := s.client.do(ctx, http.MethodGet, "/api/delivery-staff/assignments", nil, &out); err != nil {
		return nil, err
	}
	return out.Data.AssignedArea, nil
}
