package store

import (
	"context"
	"fmt"

	"github.com/gasline/gasline-api/pkg/client"
)

type adminState struct {
	agencies        map[string]client.Agency
	pendingAgencies listView
	decision        AsyncState
}

// AgencyView is a materialized page of agency applications.
type AgencyView struct {
	Agencies []client.Agency
	Page     client.Page
	Status   AsyncState
}

// PendingAgencies materializes the pending agency view in fetch order.
func (s *Store) PendingAgencies() AgencyView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view := AgencyView{Page: s.admin.pendingAgencies.page, Status: s.admin.pendingAgencies.status}
	for _, id := range s.admin.pendingAgencies.ids {
		if agency, ok := s.admin.agencies[id]; ok {
			view.Agencies = append(view.Agencies, agency)
		}
	}
	return view
}

// AdminDecisionStatus reports the phase of the latest agency decision.
func (s *Store) AdminDecisionStatus() AsyncState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.admin.decision
}

// FetchPendingAgencies loads a page of agencies awaiting a decision.
func (s *Store) FetchPendingAgencies(ctx context.Context, page, limit int) error {
	key := fmt.Sprintf("admin/pendingAgencies/%d/%d", page, limit)
	if !s.begin(key) {
		return nil
	}
	defer s.end(key)

	s.mu.Lock()
	s.admin.pendingAgencies.status = AsyncState{Phase: PhasePending}
	s.mu.Unlock()

	list, err := s.client.Admin.PendingAgencies(ctx, page, limit)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.admin.pendingAgencies.status = AsyncState{Phase: PhaseRejected, Err: normalizeErr(err)}
		return err
	}

	ids := make([]string, 0, len(list.Agencies))
	for _, agency := range list.Agencies {
		s.admin.agencies[agency.RegistrationID] = agency
		ids = append(ids, agency.RegistrationID)
	}
	s.admin.pendingAgencies.ids = ids
	s.admin.pendingAgencies.page = list.Page
	s.admin.pendingAgencies.status = AsyncState{Phase: PhaseFulfilled}
	return nil
}

// UpdateAgencyStatus approves or denies an agency application and
// removes it from the pending view.
func (s *Store) UpdateAgencyStatus(ctx context.Context, registrationID string, update client.StatusUpdate) error {
	key := "admin/agencyDecision/" + registrationID
	if !s.begin(key) {
		return nil
	}
	defer s.end(key)

	s.mu.Lock()
	s.admin.decision = AsyncState{Phase: PhasePending}
	s.mu.Unlock()

	updated, err := s.client.Admin.UpdateAgencyStatus(ctx, registrationID, update)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.admin.decision = AsyncState{Phase: PhaseRejected, Err: normalizeErr(err)}
		return err
	}

	s.admin.agencies[updated.RegistrationID] = *updated
	if updated.ApprovalStatus != "Pending" {
		s.admin.pendingAgencies.drop(updated.RegistrationID)
	}
	s.admin.decision = AsyncState{Phase: PhaseFulfilled}
	return nil
}
