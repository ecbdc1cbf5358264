package domain

import (
	"encoding/json"
	"time"
)

// AuditEntityType names the kind of record an audit log entry is about.
type AuditEntityType string

const (
	AuditEntityEntry          AuditEntityType = "LEDGER_ENTRY"
	AuditEntityTransfer       AuditEntityType = "TRANSFER"
	AuditEntityDeleteRequest  AuditEntityType = "DELETE_REQUEST"
	AuditEntityCashbook       AuditEntityType = "CASHBOOK"
	AuditEntityCashbookMember AuditEntityType = "CASHBOOK_MEMBER"
	AuditEntityAccount        AuditEntityType = "ACCOUNT"
	AuditEntityContact        AuditEntityType = "CONTACT"
)

// AuditAction names the mutation that was performed.
type AuditAction string

const (
	AuditActionCreate        AuditAction = "CREATE"
	AuditActionUpdate        AuditAction = "UPDATE"
	AuditActionDelete        AuditAction = "DELETE"
	AuditActionReverse       AuditAction = "REVERSE"
	AuditActionTransfer      AuditAction = "TRANSFER"
	AuditActionReconcile     AuditAction = "RECONCILE"
	AuditActionUnreconcile   AuditAction = "UNRECONCILE"
	AuditActionRequestDelete AuditAction = "REQUEST_DELETE"
	AuditActionApproveDelete AuditAction = "APPROVE_DELETE"
	AuditActionRejectDelete  AuditAction = "REJECT_DELETE"
	AuditActionArchive       AuditAction = "ARCHIVE"
	AuditActionAddMember     AuditAction = "ADD_MEMBER"
	AuditActionRemoveMember  AuditAction = "REMOVE_MEMBER"
)

// AuditLog is an append-only record of a mutation. It is never updated or
// deleted, and it outlives the entry it refers to.
type AuditLog struct {
	AuditLogID     string          `json:"auditLogID"`
	OrganizationID string          `json:"organizationID"`
	UserID         string          `json:"userID"`
	EntryID        *string         `json:"entryID,omitempty"`
	EntityType     AuditEntityType `json:"entityType"`
	EntityID       string          `json:"entityID"`
	Action         AuditAction     `json:"action"`
	PreviousData   json.RawMessage `json:"previousData,omitempty"`
	NewData        json.RawMessage `json:"newData,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
}

// AuditFilter narrows audit log listings; pagination is cursor based.
type AuditFilter struct {
	EntityType *AuditEntityType
	EntityID   *string
	EntryID    *string
	UserID     *string
	Action     *AuditAction
	Limit      int
	NextToken  *string
}
