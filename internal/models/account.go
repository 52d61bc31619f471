package models

import "time"

// Account roles. Everyone starts as RoleUser; the server promotes the
// account when its application is approved.
const (
	RoleAdmin         = "admin"
	RoleAgency        = "agency"
	RoleCustomer      = "customer"
	RoleDeliveryStaff = "deliverystaff"
	RoleUser          = "user"
)

// Account is an identity record. PasswordHash is bcrypt and never leaves
// the server.
type Account struct {
	ID               uint64         `gorm:"primaryKey;autoIncrement" json:"-"`
	AccountID        string         `gorm:"type:char(36);uniqueIndex;not null" json:"id"`
	Username         string         `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email            string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash     string         `gorm:"size:255;not null" json:"-"`
	Role             string         `gorm:"size:32;not null;default:'user';index" json:"role"`
	Permissions      JSON           `json:"permissions"`
	ProfilePicture   string         `gorm:"size:512" json:"profilePicture"`
	ResetToken       string         `gorm:"size:64;index" json:"-"`
	ResetTokenExpiry *time.Time     `json:"-"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"-"`
}

// TableName overrides the table name for Account
func (Account) TableName() string {
	return "accounts"
}
