package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/gasline/gasline-api/internal/auth"
	"github.com/gasline/gasline-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SignupInput carries the fields required to create an account.
type SignupInput struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Signup creates a new account with the base user role.
func Signup(db *gorm.DB, input SignupInput) (*models.Account, error) {
	var existing models.Account
	err := db.Where("email = ? OR username = ?", input.Email, input.Username).
		First(&existing).Error
	if err == nil {
		return nil, ErrDuplicate
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	account := models.Account{
		AccountID:    uuid.New().String(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}

	if err := db.Create(&account).Error; err != nil {
		return nil, err
	}

	return &account, nil
}

// Login authenticates by username or email plus password.
func Login(db *gorm.DB, identifier, password string) (*models.Account, error) {
	var account models.Account
	err := db.Where("email = ? OR username = ?", identifier, identifier).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.CheckPassword(account.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &account, nil
}

// GetAccount fetches an account by its public ID.
func GetAccount(db *gorm.DB, accountID string) (*models.Account, error) {
	var account models.Account
	err := db.Where("account_id = ?", accountID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// SetProfilePicture records the stored profile picture path.
func SetProfilePicture(db *gorm.DB, accountID, path string) error {
	result := db.Model(&models.Account{}).
		Where("account_id = ?", accountID).
		Update("profile_picture", path)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IssueResetToken creates a password reset token valid for one hour.
// Mail delivery is owned by an external collaborator; the token is
// returned so the caller can hand it off.
func IssueResetToken(db *gorm.DB, email string) (string, error) {
	var account models.Account
	err := db.Where("email = ?", email).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)
	expiry := time.Now().Add(time.Hour)

	err = db.Model(&account).Updates(map[string]interface{}{
		"reset_token":        token,
		"reset_token_expiry": expiry,
	}).Error
	if err != nil {
		return "", err
	}

	return token, nil
}

// ResetPassword consumes a reset token and replaces the password.
func ResetPassword(db *gorm.DB, token, newPassword string) error {
	var account models.Account
	err := db.Where("reset_token = ?", token).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResetTokenExpired
		}
		return err
	}

	if account.ResetTokenExpiry == nil || account.ResetTokenExpiry.Before(time.Now()) {
		return ErrResetTokenExpired
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return db.Model(&account).Updates(map[string]interface{}{
		"password_hash":      hash,
		"reset_token":        "",
		"reset_token_expiry": nil,
	}).Error
}

// assignRole promotes an account after its application is approved.
func assignRole(tx *gorm.DB, accountID, role string) error {
	result := tx.Model(&models.Account{}).
		Where("account_id = ?", accountID).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
