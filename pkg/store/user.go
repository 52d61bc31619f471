package store

import (
	"context"
	"fmt"

	"github.com/gasline/gasline-api/pkg/client"
)

// ResultKind tags which shape the user slice currently holds.
type ResultKind int

const (
	// ResultNone means nothing has been loaded yet.
	ResultNone ResultKind = iota
	// ResultSingle holds the account's own application status.
	ResultSingle
	// ResultList holds a page of browseable agencies.
	ResultList
	// ResultCreated holds a just-filed application echo.
	ResultCreated
)

// ApplicationResult is the tagged value of the user slice. Exactly one
// of the payload fields matching Kind is populated.
type ApplicationResult struct {
	Kind     ResultKind
	Status   *client.ApplicationStatus
	Agencies *client.AgencyList
	Created  interface{}
}

type userState struct {
	result ApplicationResult
	status AsyncState
}

// UserResult returns the user slice value and its async phase.
func (s *Store) UserResult() (ApplicationResult, AsyncState) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.result, s.user.status
}

// FetchApplicationStatus loads the account's applications across all
// tracks.
func (s *Store) FetchApplicationStatus(ctx context.Context) error {
	const key = "user/applicationStatus"
	if !s.begin(key) {
		return nil
	}
	defer s.end(key)

	s.mu.Lock()
	s.user.status = AsyncState{Phase: PhasePending}
	s.mu.Unlock()

	status, err := s.client.User.ApplicationStatus(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.user.status = AsyncState{Phase: PhaseRejected, Err: normalizeErr(err)}
		return err
	}
	s.user.result = ApplicationResult{Kind: ResultSingle, Status: status}
	s.user.status = AsyncState{Phase: PhaseFulfilled}
	return nil
}

// FetchAgencies loads a page of approved agencies for the apply forms.
func (s *Store) FetchAgencies(ctx context.Context, page, limit int) error {
	key := fmt.Sprintf("user/agencies/%d/%d", page, limit)
	if !s.begin(key) {
		return nil
	}
	defer s.end(key)

	s.mu.Lock()
	s.user.status = AsyncState{Phase: PhasePending}
	s.mu.Unlock()

	list, err := s.client.User.Agencies(ctx, page, limit)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.user.status = AsyncState{Phase: PhaseRejected, Err: normalizeErr(err)}
		return err
	}
	s.user.result = ApplicationResult{Kind: ResultList, Agencies: list}
	s.user.status = AsyncState{Phase: PhaseFulfilled}
	return nil
}

// ApplyAgency files an agency application.
func (s *Store) ApplyAgency(ctx context.Context, req client.AgencyApplyRequest) (*client.Agency, error) {
	const key = "user/applyAgency"
	if !s.begin(key) {
		return nil, nil
	}
	defer s.end(key)

	return applyResult(s, func() (*client.Agency, error) {
		return s.client.User.ApplyAgency(ctx, req)
	})
}

// ApplyCustomer files a customer application.
func (s *Store) ApplyCustomer(ctx context.Context, req client.CustomerApplyRequest) (*client.Customer, error) {
	const key = "user/applyCustomer"
	if !s.begin(key) {
		return nil, nil
	}
	defer s.end(key)

	return applyResult(s, func() (*client.Customer, error) {
		return s.client.User.ApplyCustomer(ctx, req)
	})
}

// ApplyDeliveryStaff files a delivery staff application.
func (s *Store) ApplyDeliveryStaff(ctx context.Context, req client.DeliveryStaffApplyRequest) (*client.DeliveryStaff, error) {
	const key = "user/applyDeliveryStaff"
	if !s.begin(key) {
		return nil, nil
	}
	defer s.end(key)

	return applyResult(s, func() (*client.DeliveryStaff, error) {
		return s.client.User.ApplyDeliveryStaff(ctx, req)
	})
}

// applyResult runs one apply call and records the created echo in the
// user slice.
func applyResult[T any](s *Store, call func() (*T, error)) (*T, error) {
	s.mu.Lock()
	s.user.status = AsyncState{Phase: PhasePending}
	s.mu.Unlock()

	created, err := call()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.user.status = AsyncState{Phase: PhaseRejected, Err: normalizeErr(err)}
		return nil, err
	}
	s.user.result = ApplicationResult{Kind: ResultCreated, Created: created}
	s.user.status = AsyncState{Phase: PhaseFulfilled}
	return created, nil
}
