package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gasline/gasline-api/pkg/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingNav captures navigation calls.
type recordingNav struct {
	mu    sync.Mutex
	paths []string
}

func (n *recordingNav) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *recordingNav) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.paths) == 0 {
		return ""
	}
	return n.paths[len(n.paths)-1]
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func loginHandler(role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]interface{}{
			"success": true,
			"token":   "tok-1",
			"user":    map[string]string{"id": "acct-1", "role": role},
		})
	}
}

func TestLoginAuthInvariantAndRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", loginHandler("customer"))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	nav := &recordingNav{}
	s := New(srv.URL, nav)

	before := s.Auth()
	assert.False(t, before.IsAuthenticated)
	assert.Equal(t, before.IsAuthenticated, before.User != nil && before.Token != "")

	require.NoError(t, s.Login(context.Background(), "asha", "pw"))

	after := s.Auth()
	assert.True(t, after.IsAuthenticated)
	assert.Equal(t, after.IsAuthenticated, after.User != nil && after.Token != "")
	assert.Equal(t, PhaseFulfilled, after.Status.Phase)
	assert.Equal(t, "/customer-dashboard", nav.last())
}

func TestLoginRejectedKeepsInvariant(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 401, map[string]interface{}{"success": false, "message": "Invalid credentials"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	nav := &recordingNav{}
	s := New(srv.URL, nav)

	err := s.Login(context.Background(), "asha", "bad")
	require.Error(t, err)

	snap := s.Auth()
	assert.False(t, snap.IsAuthenticated)
	assert.Equal(t, snap.IsAuthenticated, snap.User != nil && snap.Token != "")
	assert.Equal(t, PhaseRejected, snap.Status.Phase)
	assert.NotNil(t, snap.Status.Err)
}

func TestUnauthorizedInterception(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", loginHandler("agency"))
	mux.HandleFunc("/api/agency/details", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 401, map[string]interface{}{"success": false, "message": "Token expired"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	nav := &recordingNav{}
	s := New(srv.URL, nav)
	require.NoError(t, s.Login(context.Background(), "owner", "pw"))
	require.True(t, s.Auth().IsAuthenticated)

	err := s.FetchAgencyDetails(context.Background())
	require.Error(t, err)

	snap := s.Auth()
	assert.False(t, snap.IsAuthenticated, "401 must end the session")
	assert.Empty(t, s.Client().Token(), "persisted token must be cleared")
	assert.Equal(t, "/login", nav.last())
}

func pendingCustomersPayload(ids []string, total int64) map[string]interface{} {
	customers := make([]map[string]interface{}, 0, len(ids))
	for _, id := range ids {
		customers = append(customers, map[string]interface{}{
			"id":              id,
			"customerName":    "c-" + id,
			"agencyId":        "agency-1",
			"Approval_Status": "Pending",
		})
	}
	return map[string]interface{}{
		"success":     true,
		"customers":   customers,
		"count":       len(customers),
		"totalCount":  total,
		"currentPage": 1,
		"totalPages":  1,
		"limit":       10,
	}
}

func TestApproveCustomerReconciliation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/agency/customers/pending", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, pendingCustomersPayload([]string{"r1", "r2", "r3"}, 3))
	})
	mux.HandleFunc("/api/agency/customers", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, pendingCustomersPayload(nil, 0))
	})
	mux.HandleFunc("/api/agency/customers/r2/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"id":              "r2",
				"customerName":    "c-r2",
				"agencyId":        "agency-1",
				"CustomerID":      "cust-77",
				"Approval_Status": "Approved",
			},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := New(srv.URL, nil)
	ctx := context.Background()
	require.NoError(t, s.FetchPendingCustomers(ctx, 1, 10))
	require.NoError(t, s.FetchAllCustomers(ctx, 1, 10))

	pendingBefore := s.PendingCustomers()
	require.Len(t, pendingBefore.Customers, 3)
	require.Equal(t, int64(3), pendingBefore.Page.TotalCount)

	require.NoError(t, s.UpdateCustomerStatus(ctx, "r2", client.StatusUpdate{Status: "Approved"}))

	// Removed from the pending view, counters decremented by one
	pending := s.PendingCustomers()
	assert.Len(t, pending.Customers, 2)
	assert.Equal(t, 2, pending.Page.Count)
	assert.Equal(t, int64(2), pending.Page.TotalCount)
	for _, c := range pending.Customers {
		assert.NotEqual(t, "r2", c.RegistrationID)
	}

	// Appended to the full view with the updated record
	all := s.AllCustomers()
	require.Len(t, all.Customers, 1)
	assert.Equal(t, "r2", all.Customers[0].RegistrationID)
	assert.Equal(t, "Approved", all.Customers[0].ApprovalStatus)
	assert.Equal(t, "cust-77", all.Customers[0].CustomerID)
	assert.Equal(t, 1, all.Page.Count)

	assert.Equal(t, PhaseFulfilled, s.DecisionStatus().Phase)
}

func TestApproveCustomerPatchesExistingFullEntry(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/agency/customers/pending", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, pendingCustomersPayload([]string{"r1"}, 1))
	})
	mux.HandleFunc("/api/agency/customers", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, pendingCustomersPayload([]string{"r1"}, 1))
	})
	mux.HandleFunc("/api/agency/customers/r1/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"id":              "r1",
				"customerName":    "c-r1",
				"agencyId":        "agency-1",
				"Approval_Status": "Approved",
			},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := New(srv.URL, nil)
	ctx := context.Background()
	require.NoError(t, s.FetchPendingCustomers(ctx, 1, 10))
	require.NoError(t, s.FetchAllCustomers(ctx, 1, 10))
	require.NoError(t, s.UpdateCustomerStatus(ctx, "r1", client.StatusUpdate{Status: "Approved"}))

	// Patched in place, not duplicated
	all := s.AllCustomers()
	require.Len(t, all.Customers, 1)
	assert.Equal(t, "Approved", all.Customers[0].ApprovalStatus)
	assert.Equal(t, 1, all.Page.Count)
}

func TestInFlightDedup(t *testing.T) {
	release := make(chan struct{})
	var calls int
	mux := http.NewServeMux()
	mux.HandleFunc("/api/user/application-status", func(w http.ResponseWriter, r *http.Request) {
		calls++
		<-release
		writeJSON(w, 200, map[string]interface{}{"success": true, "data": map[string]interface{}{}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := New(srv.URL, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.FetchApplicationStatus(context.Background())
	}()

	// Wait for the first request to be in flight
	for {
		s.mu.RLock()
		_, running := s.inflight["user/applicationStatus"]
		s.mu.RUnlock()
		if running {
			break
		}
		time.Sleep(time.Millisecond)
	}

	// A duplicate dispatch while pending is a no-op
	require.NoError(t, s.FetchApplicationStatus(context.Background()))
	close(release)
	wg.Wait()

	assert.Equal(t, 1, calls, "identical in-flight action must not be re-dispatched")
}

func TestUserResultTaggedUnion(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/user/application-status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"customer": map[string]interface{}{"id": "r1"}},
		})
	})
	mux.HandleFunc("/api/user/agencies", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]interface{}{
			"success":  true,
			"agencies": []map[string]interface{}{{"registrationId": "a1"}},
			"count":    1, "totalCount": 1, "currentPage": 1, "totalPages": 1, "limit": 10,
		})
	})
	mux.HandleFunc("/api/user/apply-agency", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 201, map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"registrationId": "a2", "approvalStatus": "Pending"},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := New(srv.URL, nil)
	ctx := context.Background()

	result, _ := s.UserResult()
	assert.Equal(t, ResultNone, result.Kind)

	require.NoError(t, s.FetchApplicationStatus(ctx))
	result, status := s.UserResult()
	assert.Equal(t, ResultSingle, result.Kind)
	assert.NotNil(t, result.Status)
	assert.Equal(t, PhaseFulfilled, status.Phase)

	require.NoError(t, s.FetchAgencies(ctx, 1, 10))
	result, _ = s.UserResult()
	assert.Equal(t, ResultList, result.Kind)
	assert.NotNil(t, result.Agencies)
	assert.Nil(t, result.Status, "exactly one payload field per kind")

	created, err := s.ApplyAgency(ctx, client.AgencyApplyRequest{
		AgencyName: "Sunrise", Email: "s@a.test", MobileNo: "9876543210",
		GSTNumber: "22AAAAA0000A1Z5", Address: "12 Estate",
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	result, _ = s.UserResult()
	assert.Equal(t, ResultCreated, result.Kind)
	assert.NotNil(t, result.Created)
}

func TestGuardOutcomes(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", loginHandler("Agency"))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := New(srv.URL, nil)

	// Unauthenticated: always redirect to login
	assert.Equal(t, GuardRedirectLogin, s.Guard())
	assert.Equal(t, GuardRedirectLogin, s.Guard("admin"))

	require.NoError(t, s.Login(context.Background(), "owner", "pw"))

	// Empty role set admits any authenticated account
	assert.Equal(t, GuardRender, s.Guard())
	// Case-insensitive match
	assert.Equal(t, GuardRender, s.Guard("agency"))
	assert.Equal(t, GuardRender, s.Guard("AGENCY", "admin"))
	// Wrong role
	assert.Equal(t, GuardRedirectUnauthorized, s.Guard("admin"))
}
