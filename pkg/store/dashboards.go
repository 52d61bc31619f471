package store

import (
	"context"

	"github.com/gasline/gasline-api/pkg/client"
)

// CustomerDetails returns the customer dashboard record.
func (s *Store) CustomerDetails() (*client.Customer, AsyncState) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.customerDetails, s.customerStatus
}

// FetchCustomerDetails loads the customer's connection record.
func (s *Store) FetchCustomerDetails(ctx context.Context) error {
	const key = "customer/details"
	if !s.begin(key) {
		return nil
	}
	defer s.end(key)

	s.mu.Lock()
	s.customerStatus = AsyncState{Phase: PhasePending}
	s.mu.Unlock()

	details, err := s.client.Customer.Details(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.customerStatus = AsyncState{Phase: PhaseRejected, Err: normalizeErr(err)}
		return err
	}
	s.customerDetails = details
	s.customerStatus = AsyncState{Phase: PhaseFulfilled}
	return nil
}

// StaffDetails returns the delivery staff dashboard record.
func (s *Store) StaffDetails() (*client.DeliveryStaff, AsyncState) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.staffDetails, s.staffStatus
}

// StaffAssignments returns the staff member's assigned areas.
func (s *Store) StaffAssignments() ([]string, AsyncState) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.staffAssignments, s.staffAssignStatus
}

// FetchStaffDetails loads the staff member's application record.
func (s *Store) FetchStaffDetails(ctx context.Context) error {
	const key = "deliverystaff/details"
	if !s.begin(key) {
		return nil
	}
	defer s.end(key)

	s.mu.Lock()
	s.staffStatus = AsyncState{Phase: PhasePending}
	s.mu.Unlock()

	details, err := s.client.DeliveryStaff.Details(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.staffStatus = AsyncState{Phase: PhaseRejected, Err: normalizeErr(err)}
		return err
	}
	s.staffDetails = details
	s.staffStatus = AsyncState{Phase: PhaseFulfilled}
	return nil
}

// FetchStaffAssignments loads the staff member's delivery areas.
func (s *Store) FetchStaffAssignments(ctx context.Context) error {
	const key = "deliverystaff/assignments"
	if !s.begin(key) {
		return nil
	}
	defer s.end(key)

	s.mu.Lock()
	s.staffAssignStatus = AsyncState{Phase: PhasePending}
	s.mu.Unlock()

	areas, err := s.client.DeliveryStaff.Assignments(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.staffAssignStatus = AsyncState{Phase: PhaseRejected, Err: normalizeErr(err)}
		return err
	}
	s.staffAssignments = areas
	s.staffAssignStatus = AsyncState{Phase: PhaseFulfilled}
	return nil
}
