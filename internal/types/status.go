package types

// ApprovalStatus is the three-state lifecycle flag for an application.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "Pending"
	StatusApproved ApprovalStatus = "Approved"
	StatusDenied   ApprovalStatus = "Denied"
)

// transitionMap lists the statuses an application may be in for each
// requested target status. Pending is never a valid target; terminal
// statuses are immutable.
var transitionMap = map[ApprovalStatus][]ApprovalStatus{
	StatusApproved: {StatusPending},
	StatusDenied:   {StatusPending},
}

// IsTerminal reports whether the status is Approved or Denied.
func (s ApprovalStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusDenied
}

// ValidStatusTarget reports whether the value is an acceptable target
// for a status update request.
func ValidStatusTarget(s ApprovalStatus) bool {
	_, ok := transitionMap[s]
	return ok
}

// ValidTransition reports whether an application currently in fromStatus
// may move to the requested target status.
func ValidTransition(target, fromStatus ApprovalStatus) bool {
	allowed, ok := transitionMap[target]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == fromStatus {
			return true
		}
	}
	return false
}
