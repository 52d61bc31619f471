package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// UserService covers self-service application endpoints.
type UserService struct {
	client *Client
}

// AgencyApplyRequest is the payload for an agency application.
type AgencyApplyRequest struct {
	AgencyName string `json:"agencyName"`
	Email      string `json:"email"`
	MobileNo   string `json:"mobileNo"`
	GSTNumber  string `json:"gstNumber"`
	Address    string `json:"address"`
}

// CustomerApplyRequest is the payload for a customer connection
// application. Documents maps the required field name to the upload.
type CustomerApplyRequest struct {
	CustomerName  string
	Email         string
	MobileNo      string
	Address       string
	AgencyID      string
	AccountHolder string
	AccountNumber string
	IFSC          string
	BankName      string
	Documents     map[string]Upload
}

// DeliveryStaffApplyRequest is the payload for a delivery staff
// application.
type DeliveryStaffApplyRequest struct {
	StaffName    string
	Email        string
	MobileNo     string
	StaffAddress string
	AadharNumber string
	Salary       uint64
	AssignedArea []string
	AgencyID     string
	Documents    map[string]Upload
}

// ApplyAgency files an agency application.
func (s *UserService) ApplyAgency(ctx context.Context, req AgencyApplyRequest) (*Agency, error) {
	if req.AgencyName == "" || req.Email == "" {
		return nil, validationError("agency name and email are required")
	}

	var out dataEnvelope[Agency]
	if err := s.client.do(ctx, http.MethodPost, "/api/user/apply-agency", req, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// ApplyCustomer files a customer application with its documents.
func (s *UserService) ApplyCustomer(ctx context.Context, req CustomerApplyRequest) (*Customer, error) {
	if req.AgencyID == "" {
		return nil, validationError("agency id is required")
	}
	if req.CustomerName == "" || req.Email == "" {
		return nil, validationError("customer name and email are required")
	}

	fields := map[string]string{
		"customerName":  req.CustomerName,
		"email":         req.Email,
		"mobileNo":      req.MobileNo,
		"address":       req.Address,
		"agencyId":      req.AgencyID,
		"accountHolder": req.AccountHolder,
		"accountNumber": req.AccountNumber,
		"ifsc":          req.IFSC,
		"bankName":      req.BankName,
	}

	var out dataEnvelope[Customer]
	err := s.client.doMultipart(ctx, http.MethodPost, "/api/user/apply-customer",
		fields, namedUploads(req.Documents), &out)
	if err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// ApplyDeliveryStaff files a delivery staff application with its
// documents.
func (s *UserService) ApplyDeliveryStaff(ctx context.Context, req DeliveryStaffApplyRequest) (*DeliveryStaff, error) {
	if req.AgencyID == "" {
		return nil, validationError("agency id is required")
	}
	if req.StaffName == "" || req.Email == "" {
		return nil, validationError("staff name and email are required")
	}

	fields := map[string]string{
		"staffName":    req.StaffName,
		"email":        req.Email,
		"mobileNo":     req.MobileNo,
		"staffAddress": req.StaffAddress,
		"aadharNumber": req.AadharNumber,
		"salary":       fmt.Sprintf("%d", req.Salary),
		"assignedArea": strings.Join(req.AssignedArea, ","),
		"agencyId":     req.AgencyID,
	}

	var out dataEnvelope[DeliveryStaff]
	err := s.client.doMultipart(ctx, http.MethodPost, "/api/user/apply-delivery-staff",
		fields, namedUploads(req.Documents), &out)
	if err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// ApplicationStatus fetches the account's applications across all three
// tracks.
func (s *UserService) ApplicationStatus(ctx context.Context) (*ApplicationStatus, error) {
	var out dataEnvelope[ApplicationStatus]
	if err := s.client.do(ctx, http.MethodGet, "/api/user/application-status", nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Agencies lists approved agencies, paginated.
func (s *UserService) Agencies(ctx context.Context, page, limit int) (*AgencyList, error) {
	var out AgencyList
	path := fmt.Sprintf("/api/user/agencies?page=%d&limit=%d", page, limit)
	if err := s.client.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// namedUploads stamps map keys onto the upload field names.
func namedUploads(documents map[string]Upload) []Upload {
	uploads := make([]Upload, 0, len(documents))
	for field, up := range documents {
		up.Field = field
		if up.Filename == "" {
			up.Filename = field
		}
		uploads = append(uploads, up)
	}
	return uploads
}
