package models

import (
	"time"

	"github.com/gasline/gasline-api/internal/types"
)

// AgencyApplication is a request to become a distributor agency.
// ApprovalStatus moves Pending -> {Approved, Denied} exactly once; only
// Comments may change afterwards.
type AgencyApplication struct {
	ID             uint64               `gorm:"primaryKey;autoIncrement" json:"-"`
	RegistrationID string               `gorm:"type:char(36);uniqueIndex;not null" json:"registrationId"`
	AccountID      string               `gorm:"type:char(36);not null;index" json:"-"`
	AgencyName     string               `gorm:"size:255;not null" json:"agencyName"`
	Email          string               `gorm:"size:255;not null" json:"email"`
	MobileNo       string               `gorm:"size:20;not null" json:"mobileNo"`
	GSTNumber      string               `gorm:"size:32;not null" json:"gstNumber"`
	Address        string               `gorm:"size:512;not null" json:"address"`
	ApprovalStatus types.ApprovalStatus `gorm:"size:16;not null;default:'Pending';index" json:"approvalStatus"`
	AppliedDate    time.Time            `json:"appliedDate"`
	ApprovalDate   *time.Time           `json:"approvalDate,omitempty"`
	ApprovedBy     string               `gorm:"type:char(36)" json:"approvedBy,omitempty"`
	Comments       string               `gorm:"size:512" json:"comments,omitempty"`
	CreatedAt      time.Time            `json:"-"`
	UpdatedAt      time.Time            `json:"-"`
}

// CustomerApplication is a request for a cylinder connection with an
// agency. JSON field names for id/CustomerID/Approval_Status follow the
// wire contract the web and mobile clients already depend on.
type CustomerApplication struct {
	ID              uint64               `gorm:"primaryKey;autoIncrement" json:"-"`
	RegistrationID  string               `gorm:"type:char(36);uniqueIndex;not null" json:"id"`
	CustomerID      string               `gorm:"type:char(36);index" json:"CustomerID,omitempty"`
	AccountID       string               `gorm:"type:char(36);not null;index" json:"-"`
	AgencyID        string               `gorm:"type:char(36);not null;index" json:"agencyId"`
	CustomerName    string               `gorm:"size:255;not null" json:"customerName"`
	Email           string               `gorm:"size:255;not null" json:"email"`
	MobileNo        string               `gorm:"size:20;not null" json:"mobileNo"`
	Address         string               `gorm:"size:512;not null" json:"address"`
	BankDetails     JSON                 `json:"bankDetails"`
	Documents       JSON                 `json:"documents"`
	CostBreakdown   JSON                 `json:"costBreakdown"`
	AllotedCylinder string               `gorm:"size:64" json:"allotedCylinder"`
	ApprovalStatus  types.ApprovalStatus `gorm:"size:16;not null;default:'Pending';index" json:"Approval_Status"`
	AppliedDate     time.Time            `json:"appliedDate"`
	ApprovalDate    *time.Time           `json:"approvalDate,omitempty"`
	ApprovedBy      string               `gorm:"type:char(36)" json:"approvedBy,omitempty"`
	Comments        string               `gorm:"size:512" json:"comments,omitempty"`
	CreatedAt       time.Time            `json:"-"`
	UpdatedAt       time.Time            `json:"-"`
}

// DeliveryStaffApplication is a request to work as delivery staff for an
// agency.
type DeliveryStaffApplication struct {
	ID             uint64               `gorm:"primaryKey;autoIncrement" json:"-"`
	RegistrationID string               `gorm:"type:char(36);uniqueIndex;not null" json:"registrationId"`
	AccountID      string               `gorm:"type:char(36);not null;index" json:"-"`
	AgencyID       string               `gorm:"type:char(36);not null;index" json:"agencyId"`
	StaffName      string               `gorm:"size:255;not null" json:"staffName"`
	Email          string               `gorm:"size:255;not null" json:"email"`
	MobileNo       string               `gorm:"size:20;not null" json:"mobileNo"`
	StaffAddress   string               `gorm:"size:512;not null" json:"staffAddress"`
	AadharNumber   string               `gorm:"size:16;not null" json:"aadharNumber"`
	Salary         uint64               `json:"salary"`
	AssignedArea   JSON                 `json:"assignedArea"`
	Documents      JSON                 `json:"documents"`
	ApprovalStatus types.ApprovalStatus `gorm:"size:16;not null;default:'Pending';index" json:"approvalStatus"`
	AppliedDate    time.Time            `json:"appliedDate"`
	ApprovalDate   *time.Time           `json:"approvalDate,omitempty"`
	ApprovedBy     string               `gorm:"type:char(36)" json:"approvedBy,omitempty"`
	Comments       string               `gorm:"size:512" json:"comments,omitempty"`
	CreatedAt      time.Time            `json:"-"`
	UpdatedAt      time.Time            `json:"-"`
}

// TableName overrides the table name for AgencyApplication
func (AgencyApplication) TableName() string {
	return "agency_applications"
}

// TableName overrides the table name for CustomerApplication
func (CustomerApplication) TableName() string {
	return "customer_applications"
}

// TableName overrides the table name for DeliveryStaffApplication
func (DeliveryStaffApplication) TableName() string {
	return "delivery_staff_applications"
}
