package domain

import "time"

// NotificationType classifies messages sent to users about ledger activity.
type NotificationType string

const (
	NotificationNonStandardEntry      NotificationType = "NON_STANDARD_ENTRY"
	NotificationDeleteRequested       NotificationType = "DELETE_REQUESTED"
	NotificationDeleteRequestResolved NotificationType = "DELETE_REQUEST_RESOLVED"
	NotificationReportReady           NotificationType = "REPORT_READY"
)

// Notification is a message for one user in one organization.
type Notification struct {
	NotificationID string           `json:"notificationID"`
	UserID         string           `json:"userID"`
	OrganizationID string           `json:"organizationID"`
	Type           NotificationType `json:"type"`
	Title          string           `json:"title"`
	Message        string           `json:"message"`
	Data           map[string]any   `json:"data,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
}
