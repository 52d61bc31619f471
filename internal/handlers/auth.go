package handlers

import (
	"github.com/gasline/gasline-api/internal/auth"
	"github.com/gasline/gasline-api/internal/config"
	"github.com/gasline/gasline-api/internal/services"
	"github.com/gasline/gasline-api/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthHandler handles signup, login and account self-service routes.
type AuthHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"Password" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var input services.SignupInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "auth.signup")
	}
	if err := validate.Struct(input); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "auth.signup")
	}

	account, err := services.Signup(h.DB, input)
	if err != nil {
		return serviceError(c, err, "auth.signup")
	}

	return utils.DataResponse(c, account, fiber.StatusCreated)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "auth.login")
	}
	if err := validate.Struct(req); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "auth.login")
	}

	account, err := services.Login(h.DB, req.Identifier, req.Password)
	if err != nil {
		return serviceError(c, err, "auth.login")
	}

	token, err := auth.GenerateToken(account.AccountID, account.Role, h.Cfg.JWTSecret, h.Cfg.TokenTTL)
	if err != nil {
		return utils.ErrorResponse(c, "Failed to generate token", fiber.StatusInternalServerError, "auth.login")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    account,
	})
}

// Logout handles POST /api/auth/logout. Tokens are stateless; the client
// discards its persisted copy.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return utils.MessageResponse(c, "Logged out", fiber.StatusOK)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	accountID, err := requireAccountID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.me")
	}

	account, err := services.GetAccount(h.DB, accountID)
	if err != nil {
		return serviceError(c, err, "auth.me")
	}

	return utils.DataResponse(c, account, fiber.StatusOK)
}

// ForgotPassword handles POST /api/auth/forgot-password. Delivery of the
// reset token is owned by the mail collaborator; the token is echoed for
// that handoff.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "auth.forgotPassword")
	}
	if err := validate.Struct(req); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "auth.forgotPassword")
	}

	token, err := services.IssueResetToken(h.DB, req.Email)
	if err != nil {
		return serviceError(c, err, "auth.forgotPassword")
	}

	return utils.DataResponse(c, fiber.Map{"resetToken": token}, fiber.StatusOK)
}

// ResetPassword handles POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "auth.resetPassword")
	}
	if err := validate.Struct(req); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "auth.resetPassword")
	}

	if err := services.ResetPassword(h.DB, req.Token, req.NewPassword); err != nil {
		return serviceError(c, err, "auth.resetPassword")
	}

	return utils.MessageResponse(c, "Password updated", fiber.StatusOK)
}

// ProfilePicture handles POST /api/auth/profile-picture (multipart,
// field ProfilePic).
func (h *AuthHandler) ProfilePicture(c *fiber.Ctx) error {
	accountID, err := requireAccountID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "auth.profilePicture")
	}

	name, err := saveUpload(c, "ProfilePic", h.Cfg.UploadDir)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "auth.profilePicture")
	}
	if name == "" {
		return missingDocumentsError(c, []string{"ProfilePic"}, "auth.profilePicture")
	}

	if err := services.SetProfilePicture(h.DB, accountID, name); err != nil {
		return serviceError(c, err, "auth.profilePicture")
	}

	return utils.DataResponse(c, fiber.Map{"profilePicture": name}, fiber.StatusOK)
}
