package client

import "time"

// Account mirrors the server account payload.
type Account struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	ProfilePicture string    `json:"profilePicture"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Agency mirrors an agency application record.
type Agency struct {
	RegistrationID string     `json:"registrationId"`
	AgencyName     string     `json:"agencyName"`
	Email          string     `json:"email"`
	MobileNo       string     `json:"mobileNo"`
	GSTNumber      string     `json:"gstNumber"`
	Address        string     `json:"address"`
	ApprovalStatus string     `json:"approvalStatus"`
	AppliedDate    time.Time  `json:"appliedDate"`
	ApprovalDate   *time.Time `json:"approvalDate,omitempty"`
	ApprovedBy     string     `json:"approvedBy,omitempty"`
	Comments       string     `json:"comments,omitempty"`
}

// Customer mirrors a customer application record. The id, CustomerID
// and Approval_Status keys follow the wire contract existing clients
// depend on.
type Customer struct {
	RegistrationID  string             `json:"id"`
	CustomerID      string             `json:"CustomerID,omitempty"`
	AgencyID        string             `json:"agencyId"`
	CustomerName    string             `json:"customerName"`
	Email           string             `json:"email"`
	MobileNo        string             `json:"mobileNo"`
	Address         string             `json:"address"`
	BankDetails     map[string]string  `json:"bankDetails"`
	Documents       map[string]string  `json:"documents"`
	CostBreakdown   map[string]float64 `json:"costBreakdown"`
	AllotedCylinder string             `json:"allotedCylinder"`
	ApprovalStatus  string             `json:"Approval_Status"`
	AppliedDate     time.Time          `json:"appliedDate"`
	ApprovalDate    *time.Time         `json:"approvalDate,omitempty"`
	ApprovedBy      string             `json:"approvedBy,omitempty"`
	Comments        string             `json:"comments,omitempty"`
}

// DeliveryStaff mirrors a delivery staff application record.
type DeliveryStaff struct {
	RegistrationID string            `json:"registrationId"`
	AgencyID       string            `json:"agencyId"`
	StaffName      string            `json:"staffName"`
	Email          string            `json:"email"`
	MobileNo       string            `json:"mobileNo"`
	StaffAddress   string            `json:"staffAddress"`
	AadharNumber   string            `json:"aadharNumber"`
	Salary         uint64            `json:"salary"`
	AssignedArea   []string          `json:"assignedArea"`
	Documents      map[string]string `json:"documents"`
	ApprovalStatus string            `json:"approvalStatus"`
	AppliedDate    time.Time         `json:"appliedDate"`
	ApprovalDate   *time.Time        `json:"approvalDate,omitempty"`
	ApprovedBy     string            `json:"approvedBy,omitempty"`
	Comments       string            `json:"comments,omitempty"`
}

// ApplicationStatus reports every application filed by the account.
type ApplicationStatus struct {
	Agency        *Agency        `json:"agency,omitempty"`
	Customer      *Customer      `json:"customer,omitempty"`
	DeliveryStaff *DeliveryStaff `json:"deliveryStaff,omitempty"`
}

// Page is the pagination metadata echoed on list responses.
type Page struct {
	Count       int   `json:"count"`
	TotalCount  int64 `json:"totalCount"`
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	Limit       int   `json:"limit"`
}

// dataEnvelope is the single-payload success envelope.
type dataEnvelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

// messageEnvelope is the message-only success envelope.
type messageEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AgencyList is a page of agencies.
type AgencyList struct {
	Success  bool     `json:"success"`
	Agencies []Agency `json:"agencies"`
	Page
}

// CustomerList is a page of customer applications.
type CustomerList struct {
	Success   bool       `json:"success"`
	Customers []Customer `json:"customers"`
	Page
}

// DeliveryStaffList is a page of delivery staff applications.
type DeliveryStaffList struct {
	Success       bool            `json:"success"`
	DeliveryStaff []DeliveryStaff `json:"deliveryStaff"`
	Page
}
