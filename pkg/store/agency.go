package store

import (
	"context"
	"fmt"

	"github.com/gasline/gasline-api/pkg/client"
)

// listView is an ordered, paginated projection over the normalized
// entity maps.
type listView struct {
	ids    []string
	page   client.Page
	status AsyncState
}

type agencyState struct {
	details       *client.Agency
	detailsStatus AsyncState

	customers     map[string]client.Customer
	deliveryStaff map[string]client.DeliveryStaff

	pendingCustomers listView
	allCustomers     listView
	pendingStaff     listView

	decision AsyncState
}

// CustomerView is a materialized page of customer applications.
type CustomerView struct {
	Customers []client.Customer
	Page      client.Page
	Status    AsyncState
}

// StaffView is a materialized page of delivery staff applications.
type StaffView struct {
	Staff  []client.DeliveryStaff
	Page   client.Page
	Status AsyncState
}

// AgencyDetails returns the agency's own record.
func (s *Store) AgencyDetails() (*client.Agency, AsyncState) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.agency.details, s.agency.detailsStatus
}

// PendingCustomers materializes the pending customer view in fetch
// order.
func (s *Store) PendingCustomers() CustomerView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.customerView(s.agency.pendingCustomers)
}

// AllCustomers materializes the full customer view in fetch order.
func (s *Store) AllCustomers() CustomerView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.customerView(s.agency.allCustomers)
}

// PendingDeliveryStaff materializes the pending staff view.
func (s *Store) PendingDeliveryStaff() StaffView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view := StaffView{Page: s.agency.pendingStaff.page, Status: s.agency.pendingStaff.status}
	for _, id := range s.agency.pendingStaff.ids {
		if staff, ok := s.agency.deliveryStaff[id]; ok {
			view.Staff = append(view.Staff, staff)
		}
	}
	return view
}

// DecisionStatus reports the phase of the latest approve/deny action.
func (s *Store) DecisionStatus() AsyncState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.agency.decision
}

func (s *Store) customerView(view listView) CustomerView {
	out := CustomerView{Page: view.page, Status: view.status}
	for _, id := range view.ids {
		if customer, ok := s.agency.customers[id]; ok {
			out.Customers = append(out.Customers, customer)
		}
	}
	return out
}

// FetchAgencyDetails loads the agency's own record.
func (s *Store) FetchAgencyDetails(ctx context.Context) error {
	const key = "agency/details"
	if !s.begin(key) {
		return nil
	}
	defer s.end(key)

	s.mu.Lock()
	s.agency.detailsStatus = AsyncState{Phase: PhasePending}
	s.mu.Unlock()

	details, err := s.client.Agency.Details(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.agency.detailsStatus = AsyncState{Phase: PhaseRejected, Err: normalizeErr(err)}
		return err
	}
	s.agency.details = details
	s.agency.detailsStatus = AsyncState{Phase: PhaseFulfilled}
	return nil
}

// FetchPendingCustomers loads a page of customers awaiting a decision.
func (s *Store) FetchPendingCustomers(ctx context.Context, page, limit int) error {
	key := fmt.Sprintf("agency/pendingCustomers/%d/%d", page, limit)
	if !s.begin(key) {
		return nil
	}
	defer s.end(key)

	s.mu.Lock()
	s.agency.pendingCustomers.status = AsyncState{Phase: PhasePending}
	s.mu.Unlock()

	list, err := s.client.Agency.PendingCustomers(ctx, page, limit)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.agency.pendingCustomers.status = AsyncState{Phase: PhaseRejected, Err: normalizeErr(err)}
		return err
	}
	s.agency.pendingCustomers.ids = s.absorbCustomers(list.Customers)
	s.agency.pendingCustomers.page = list.Page
	s.agency.pendingCustomers.status = AsyncState{Phase: PhaseFulfilled}
	return nil
}

// FetchAllCustomers loads a page of every customer of the agency.
func (s *Store) FetchAllCustomers(ctx context.Context, page, limit int) error {
	key := fmt.Sprintf("agency/allCustomers/%d/%d", page, limit)
	if !s.begin(key) {
		return nil
	}
	defer s.end(key)

	s.mu.Lock()
	s.agency.allCustomers.status = AsyncState{Phase: PhasePending}
	s.mu.Unlock()

	list, err := s.client.Agency.Customers(ctx, page, limit)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.agency.allCustomers.status = AsyncState{Phase: PhaseRejected, Err: normalizeErr(err)}
		return err
	}
	s.agency.allCustomers.ids = s.absorbCustomers(list.Customers)
	s.agency.allCustomers.page = list.Page
	s.agency.allCustomers.status = AsyncState{Phase: PhaseFulfilled}
	return nil
}

// FetchPendingDeliveryStaff loads a page of staff awaiting a decision.
func (s *Store) FetchPendingDeliveryStaff(ctx context.Context, page, limit int) error {
	key := fmt.Sprintf("agency/pendingStaff/%d/%d", page, limit)
	if !s.begin(key) {
		return nil
	}
	defer s.end(key)

	s.mu.Lock()
	s.agency.pendingStaff.status = AsyncState{Phase: PhasePending}
	s.mu.Unlock()

	list, err := s.client.Agency.PendingDeliveryStaff(ctx, page, limit)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.agency.pendingStaff.status = AsyncState{Phase: PhaseRejected, Err: normalizeErr(err)}
		return err
	}

	ids := make([]string, 0, len(list.DeliveryStaff))
	for _, staff := range list.DeliveryStaff {
		s.agency.deliveryStaff[staff.RegistrationID] = staff
		ids = append(ids, staff.RegistrationID)
	}
	s.agency.pendingStaff.ids = ids
	s.agency.pendingStaff.page = list.Page
	s.agency.pendingStaff.status = AsyncState{Phase: PhaseFulfilled}
	return nil
}

// UpdateCustomerStatus approves or denies a customer application and
// reconciles both views: the record leaves the pending view (with its
// counters decremented) and is patched into or appended to the full
// view.
func (s *Store) UpdateCustomerStatus(ctx context.Context, registrationID string, update client.StatusUpdate) error {
	key := "agency/customerDecision/" + registrationID
	if !s.begin(key) {
		return nil
	}
	defer s.end(key)

	s.mu.Lock()
	s.agency.decision = AsyncState{Phase: PhasePending}
	s.mu.Unlock()

	updated, err := s.client.Agency.UpdateCustomerStatus(ctx, registrationID, update)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.agency.decision = AsyncState{Phase: PhaseRejected, Err: normalizeErr(err)}
		return err
	}

	s.agency.customers[updated.RegistrationID] = *updated

	if updated.ApprovalStatus != "Pending" {
		s.agency.pendingCustomers.drop(updated.RegistrationID)
	}
	s.agency.allCustomers.upsert(updated.RegistrationID)

	s.agency.decision = AsyncState{Phase: PhaseFulfilled}
	return nil
}

// UpdateDeliveryStaffStatus approves or denies a staff application and
// removes it from the pending view.
func (s *Store) UpdateDeliveryStaffStatus(ctx context.Context, registrationID string, update client.StatusUpdate) error {
	key := "agency/staffDecision/" + registrationID
	if !s.begin(key) {
		return nil
	}
	defer s.end(key)

	s.mu.Lock()
	s.agency.decision = AsyncState{Phase: PhasePending}
	s.mu.Unlock()

	updated, err := s.client.Agency.UpdateDeliveryStaffStatus(ctx, registrationID, update)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.agency.decision = AsyncState{Phase: PhaseRejected, Err: normalizeErr(err)}
		return err
	}

	s.agency.deliveryStaff[updated.RegistrationID] = *updated
	if updated.ApprovalStatus != "Pending" {
		s.agency.pendingStaff.drop(updated.RegistrationID)
	}
	s.agency.decision = AsyncState{Phase: PhaseFulfilled}
	return nil
}

// absorbCustomers normalizes a fetched page into the entity map and
// returns the ordered id list.
func (s *Store) absorbCustomers(customers []client.Customer) []string {
	ids := make([]string, 0, len(customers))
	for _, customer := range customers {
		s.agency.customers[customer.RegistrationID] = customer
		ids = append(ids, customer.RegistrationID)
	}
	return ids
}

// drop removes an id from the view and decrements its counters.
func (v *listView) drop(id string) {
	for i, existing := range v.ids {
		if existing == id {
			v.ids = append(v.ids[:i], v.ids[i+1:]...)
			v.page.Count--
			v.page.TotalCount--
			return
		}
	}
}

// upsert ensures an id is present in the view, appending and counting
// it when new.
func (v *listView) upsert(id string) {
	for _, existing := range v.ids {
		if existing == id {
			return
		}
	}
	v.ids = append(v.ids, id)
	v.page.Count++
	v.page.TotalCount++
}
