package store

// GuardOutcome is the decision for a guarded route.
type GuardOutcome int

const (
	// GuardRender allows the route.
	GuardRender GuardOutcome = iota
	// GuardRedirectLogin bounces an unauthenticated visitor to /login.
	GuardRedirectLogin
	// GuardRedirectUnauthorized bounces an authenticated visitor whose
	// role is not allowed.
	GuardRedirectUnauthorized
)

// Guard decides whether the current session may enter a route limited
// to allowedRoles. Role comparison is case-insensitive. An empty
// allowedRoles admits any authenticated account.
func (s *Store) Guard(allowedRoles ...string) GuardOutcome {
	auth := s.Auth()
	if !auth.IsAuthenticated {
		return GuardRedirectLogin
	}
	if len(allowedRoles) == 0 {
		return GuardRender
	}
	if equalFoldAny(auth.User.Role, allowedRoles) {
		return GuardRender
	}
	return GuardRedirectUnauthorized
}
