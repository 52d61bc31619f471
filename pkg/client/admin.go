package client

import (
	"context"
	"fmt"
	"net/http"
)

// AdminService covers the admin dashboard endpoints.
type AdminService struct {
	client *Client
}

// PendingAgencies lists agency applications awaiting a decision.
func (s *AdminService) PendingAgencies(ctx context.Context, page, limit int) (*AgencyList, error) {
	var out AgencyList
	path := fmt.Sprintf("/api/admin/agencies/pending?page=%d&limit=%d", page, limit)
	if err := s.client.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAgencyStatus approves or denies an agency application.
func (s *AdminService) UpdateAgencyStatus(ctx context.Context, registrationID string, update StatusUpdate) (*Agency, error) {
	if err := validateStatusUpdate(registrationID, update); err != nil {
		return nil, err
	}

	var out dataEnvelope[Agency]
	path := "/api/admin/agencies/" + registrationID + "/status"
	if err := s.client.do(ctx, http.MethodPut, path, update, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}
