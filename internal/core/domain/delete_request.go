package domain

import (
	"fmt"
	"time"
)

// DeleteRequestStatus is the state of a delete request.
type DeleteRequestStatus string

const (
	DeleteRequestPending  DeleteRequestStatus = "PENDING"
	DeleteRequestApproved DeleteRequestStatus = "APPROVED"
	DeleteRequestRejected DeleteRequestStatus = "REJECTED"
)

// Valid reports whether s is a known status.
func (s DeleteRequestStatus) Valid() bool {
	switch s {
	case DeleteRequestPending, DeleteRequestApproved, DeleteRequestRejected:
		return true
	}
	return false
}

// DeleteDecision is the approver's verdict on a pending request.
type DeleteDecision int

const (
	DeleteDecisionApprove DeleteDecision = iota + 1
	DeleteDecisionReject
)

// ErrIllegalTransition is returned when a state machine refuses an event.
type ErrIllegalTransition struct {
	From  string
	Event string
}

func (e *ErrIllegalTransition) Error() string {
	return fmt.Sprintf("cannot %s from status %s", e.Event, e.From)
}

// ErrAlreadyResolved is returned when a decision targets a resolved request.
type ErrAlreadyResolved struct {
	Status DeleteRequestStatus
}

func (e *ErrAlreadyResolved) Error() string {
	return fmt.Sprintf("delete request already %s", e.Status)
}

// Resolve applies a decision to the request status. Resolved requests are terminal.
func (s DeleteRequestStatus) Resolve(d DeleteDecision) (DeleteRequestStatus, error) {
	switch s {
	case DeleteRequestPending:
		switch d {
		case DeleteDecisionApprove:
			return DeleteRequestApproved, nil
		case DeleteDecisionReject:
			return DeleteRequestRejected, nil
		}
		return s, fmt.Errorf("unknown delete decision %d", d)
	case DeleteRequestApproved, DeleteRequestRejected:
		return s, &ErrAlreadyResolved{Status: s}
	}
	return s, fmt.Errorf("unknown delete request status %q", string(s))
}

// RequestDeletion moves an entry status into the approval window.
func (s EntryStatus) RequestDeletion() (EntryStatus, error) {
	switch s {
	case EntryStatusActive:
		return EntryStatusPendingDeleteApproval, nil
	case EntryStatusReversed, EntryStatusPendingDeleteApproval, EntryStatusDeleted:
		return s, &ErrIllegalTransition{From: string(s), Event: "request deletion"}
	}
	return s, &ErrIllegalTransition{From: string(s), Event: "request deletion"}
}

// ResolveDeletion moves an entry out of the approval window.
func (s EntryStatus) ResolveDeletion(d DeleteDecision) (EntryStatus, error) {
	switch s {
	case EntryStatusPendingDeleteApproval:
		switch d {
		case DeleteDecisionApprove:
			return EntryStatusDeleted, nil
		case DeleteDecisionReject:
			return EntryStatusActive, nil
		}
		return s, fmt.Errorf("unknown delete decision %d", d)
	case EntryStatusActive, EntryStatusReversed, EntryStatusDeleted:
		return s, &ErrIllegalTransition{From: string(s), Event: "resolve deletion"}
	}
	return s, &ErrIllegalTransition{From: string(s), Event: "resolve deletion"}
}

// DeleteRequest gates the deletion of one entry behind an approver's decision.
type DeleteRequest struct {
	RequestID       string              `json:"requestID"`
	OrganizationID  string              `json:"organizationID"`
	CashbookID      string              `json:"cashbookID"`
	EntryID         string              `json:"entryID"`
	RequestedByID   string              `json:"requestedByID"`
	Reason          string              `json:"reason"`
	Status          DeleteRequestStatus `json:"status"`
	ApprovedByID    *string             `json:"approvedByID,omitempty"`
	RejectedByID    *string             `json:"rejectedByID,omitempty"`
	RejectionReason *string             `json:"rejectionReason,omitempty"`
	ResolvedAt      *time.Time          `json:"resolvedAt,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
}

// DeleteRequestFilter narrows delete request listings.
type DeleteRequestFilter struct {
	Scope  CashbookScope
	Status *DeleteRequestStatus
}
