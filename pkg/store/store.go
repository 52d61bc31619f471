// Package store is a client-side state container over the gasline SDK.
// Each slice tracks one dashboard's data through pending, fulfilled and
// rejected phases, with one in-flight request per (action, key).
package store

import (
	"strings"
	"sync"
	"time"

	"github.com/gasline/gasline-api/pkg/client"
)

// Phase is the lifecycle of one async action.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseFulfilled
	PhaseRejected
)

// AsyncState is the observable status of an async action.
type AsyncState struct {
	Phase Phase
	Err   *client.Error
}

// Navigator receives route changes triggered by the store (login
// redirects, role dashboards, unauthorized bounces).
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Store aggregates every state slice and owns the shared SDK client.
type Store struct {
	mu     sync.RWMutex
	client *client.Client
	nav    Navigator

	inflight map[string]struct{}

	auth   authState
	user   userState
	agency agencyState
	admin  adminState

	customerDetails   *client.Customer
	customerStatus    AsyncState
	staffDetails      *client.DeliveryStaff
	staffAssignments  []string
	staffStatus       AsyncState
	staffAssignStatus AsyncState
}

// Option configures a Store.
type Option func(*Store)

// WithNavigator sets the navigation sink.
func WithNavigator(nav Navigator) Option {
	return func(s *Store) { s.nav = nav }
}

// WithTokenStore sets the SDK token persistence backend.
func WithTokenStore(ts client.TokenStore) func(*options) {
	return func(o *options) { o.tokenStore = ts }
}

// WithTimeout sets the SDK request timeout.
func WithTimeout(d time.Duration) func(*options) {
	return func(o *options) { o.timeout = d }
}

type options struct {
	tokenStore client.TokenStore
	timeout    time.Duration
}

// New creates a Store bound to the API at baseURL. Every 401 from the
// server clears the session and navigates to /login.
func New(baseURL string, nav Navigator, clientOpts ...func(*options)) *Store {
	o := &options{timeout: 15 * time.Second}
	for _, opt := range clientOpts {
		opt(o)
	}

	s := &Store{
		nav:      nav,
		inflight: make(map[string]struct{}),
	}
	s.agency.customers = make(map[string]client.Customer)
	s.agency.deliveryStaff = make(map[string]client.DeliveryStaff)
	s.admin.agencies = make(map[string]client.Agency)

	sdkOpts := []client.Option{
		client.WithTimeout(o.timeout),
		client.WithUnauthorizedHandler(s.handleUnauthorized),
	}
	if o.tokenStore != nil {
		sdkOpts = append(sdkOpts, client.WithTokenStore(o.tokenStore))
	}
	s.client = client.New(baseURL, sdkOpts...)
	return s
}

// Client exposes the underlying SDK client.
func (s *Store) Client() *client.Client {
	return s.client
}

// begin marks an action key in flight. It reports false when an
// identical action is already running, in which case the caller must
// not start another request.
func (s *Store) begin(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, running := s.inflight[key]; running {
		return false
	}
	s.inflight[key] = struct{}{}
	return true
}

func (s *Store) end(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, key)
}

// normalizeErr coerces any SDK error into *client.Error.
func normalizeErr(err error) *client.Error {
	if err == nil {
		return nil
	}
	if ce, ok := err.(*client.Error); ok {
		return ce
	}
	return &client.Error{Message: err.Error()}
}

func equalFoldAny(role string, roles []string) bool {
	for _, candidate := range roles {
		if strings.EqualFold(role, candidate) {
			return true
		}
	}
	return false
}
