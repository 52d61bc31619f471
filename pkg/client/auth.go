package client

import (
	"context"
	"fmt"
	"net/http"
)

// AuthService covers signup, login and account self-service endpoints.
type AuthService struct {
	client *Client
}

// Session is the result of a successful login.
type Session struct {
	Token string  `json:"token"`
	User  Account `json:"user"`
}

// Signup registers a new account.
func (s *AuthService) Signup(ctx context.Context, username, email, password string) (*Account, error) {
	if username == "" || email == "" || password == "" {
		return nil, validationError("username, email and password are required")
	}

	var out dataEnvelope[Account]
	err := s.client.do(ctx, http.MethodPost, "/api/auth/signup", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Login authenticates with an email or username plus password. The
// returned token is persisted in the client's token store.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*Session, error) {
	if identifier == "" || password == "" {
		return nil, validationError("identifier and password are required")
	}

	var session Session
	err := s.client.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"identifier": identifier,
		"Password":   password,
	}, &session)
	if err != nil {
		return nil, err
	}
	if err := s.client.tokens.SetToken(session.Token); err != nil {
		return nil, &Error{Message: fmt.Sprintf("persist token: %v", err), Type: "storage"}
	}
	return &session, nil
}

// Logout tells the server goodbye and discards the persisted token.
func (s *AuthService) Logout(ctx context.Context) error {
	err := s.client.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	if clearErr := s.client.tokens.Clear(); clearErr != nil && err == nil {
		return &Error{Message: fmt.Sprintf("clear token: %v", clearErr), Type: "storage"}
	}
	return err
}

// Me fetches the authenticated account.
func (s *AuthService) Me(ctx context.Context) (*Account, error) {
	var out dataEnvelope[Account]
	if err := s.client.do(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// ForgotPassword requests a password reset token for the email.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", validationError("email is required")
	}

	var out dataEnvelope[struct {
		ResetToken string `json:"resetToken"`
	}]
	err := s.client.do(ctx, http.MethodPost, "/api/auth/forgot-password", map[string]string{
		"email": email,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Data.ResetToken, nil
}

// ResetPassword exchanges a reset token for a new password.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return validationError("token and new password are required")
	}

	var out messageEnvelope
	return s.client.do(ctx, http.MethodPost, "/api/auth/reset-password", map[string]string{
		"token":       token,
		"newPassword": newPassword,
	}, &out)
}

// UploadProfilePicture uploads a new profile picture.
func (s *AuthService) UploadProfilePicture(ctx context.Context, upload Upload) (string, error) {
	if upload.Content == nil {
		return "", validationError("profile picture content is required")
	}
	upload.Field = "ProfilePic"

	var out dataEnvelope[struct {
		ProfilePicture string `json:"profilePicture"`
	}]
	err := s.client.doMultipart(ctx, http.MethodPost, "/api/auth/profile-picture", nil, []Upload{upload}, &out)
	if err != nil {
		return "", err
	}
	return out.Data.ProfilePicture, nil
}
