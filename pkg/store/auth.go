package store

import (
	"context"
	"strings"

	"github.com/gasline/gasline-api/pkg/client"
)

type authState struct {
	user   *client.Account
	token  string
	status AsyncState
}

// AuthSnapshot is a consistent read of the session state. The invariant
// holds after every transition: IsAuthenticated is true exactly when a
// user and a non-empty token are both present.
type AuthSnapshot struct {
	User            *client.Account
	Token           string
	IsAuthenticated bool
	Status          AsyncState
}

// Auth returns the current session snapshot.
func (s *Store) Auth() AuthSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return AuthSnapshot{
		User:            s.auth.user,
		Token:           s.auth.token,
		IsAuthenticated: s.auth.user != nil && s.auth.token != "",
		Status:          s.auth.status,
	}
}

// dashboardPaths routes a fresh login to the role's landing page.
var dashboardPaths = map[string]string{
	"admin":         "/admin-dashboard",
	"agency":        "/agency-dashboard",
	"customer":      "/customer-dashboard",
	"deliverystaff": "/delivery-staff-dashboard",
	"user":          "/application-status",
}

// DashboardPath returns the landing route for a role.
func DashboardPath(role string) string {
	if path, ok := dashboardPaths[strings.ToLower(role)]; ok {
		return path
	}
	return "/"
}

// Login authenticates and, on success, navigates to the role dashboard.
func (s *Store) Login(ctx context.Context, identifier, password string) error {
	const key = "auth/login"
	if !s.begin(key) {
		return nil
	}
	defer s.end(key)

	s.mu.Lock()
	s.auth.status = AsyncState{Phase: PhasePending}
	s.mu.Unlock()

	session, err := s.client.Auth.Login(ctx, identifier, password)

	s.mu.Lock()
	if err != nil {
		s.auth.user = nil
		s.auth.token = ""
		s.auth.status = AsyncState{Phase: PhaseRejected, Err: normalizeErr(err)}
		s.mu.Unlock()
		return err
	}
	s.auth.user = &session.User
	s.auth.token = session.Token
	s.auth.status = AsyncState{Phase: PhaseFulfilled}
	role := session.User.Role
	s.mu.Unlock()

	if s.nav != nil {
		s.nav.Navigate(DashboardPath(role))
	}
	return nil
}

// Signup registers a new account. The caller still needs to log in.
func (s *Store) Signup(ctx context.Context, username, email, password string) (*client.Account, error) {
	const key = "auth/signup"
	if !s.begin(key) {
		return nil, nil
	}
	defer s.end(key)

	s.mu.Lock()
	s.auth.status = AsyncState{Phase: PhasePending}
	s.mu.Unlock()

	account, err := s.client.Auth.Signup(ctx, username, email, password)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.auth.status = AsyncState{Phase: PhaseRejected, Err: normalizeErr(err)}
		return nil, err
	}
	s.auth.status = AsyncState{Phase: PhaseFulfilled}
	return account, nil
}

// Restore rehydrates the session from a persisted token by asking the
// server who we are.
func (s *Store) Restore(ctx context.Context) error {
	if s.client.Token() == "" {
		return nil
	}

	const key = "auth/restore"
	if !s.begin(key) {
		return nil
	}
	defer s.end(key)

	account, err := s.client.Auth.Me(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.auth.user = nil
		s.auth.token = ""
		s.auth.status = AsyncState{Phase: PhaseRejected, Err: normalizeErr(err)}
		return err
	}
	s.auth.user = account
	s.auth.token = s.client.Token()
	s.auth.status = AsyncState{Phase: PhaseFulfilled}
	return nil
}

// Logout ends the session locally and on the server.
func (s *Store) Logout(ctx context.Context) error {
	err := s.client.Auth.Logout(ctx)

	s.mu.Lock()
	s.auth.user = nil
	s.auth.token = ""
	s.auth.status = AsyncState{Phase: PhaseIdle}
	s.mu.Unlock()

	if s.nav != nil {
		s.nav.Navigate("/login")
	}
	return err
}

// handleUnauthorized runs after any 401. The SDK has already cleared
// the persisted token; drop the in-memory session and bounce to login.
func (s *Store) handleUnauthorized() {
	s.mu.Lock()
	s.auth.user = nil
	s.auth.token = ""
	s.auth.status = AsyncState{Phase: PhaseIdle}
	s.mu.Unlock()

	if s.nav != nil {
		s.nav.Navigate("/login")
	}
}
