package client

import (
	"context"
	"net/http"
)

// CustomerService covers the customer dashboard endpoints.
type CustomerService struct {
	client *Client
}

// Details fetches the authenticated customer's connection record,
// including documents and the cost breakdown.
func (s *CustomerService) Details(ctx context.Context) (*Customer, error) {
	var out dataEnvelope[Customer]
	if err := s.client.do(ctx, http.MethodGet, "/api/customer/details", nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}
