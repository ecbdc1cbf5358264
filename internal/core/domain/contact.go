package domain

// ContactType describes the relationship with a counterparty.
type ContactType string

const (
	ContactTypeCustomer ContactType = "CUSTOMER"
	ContactTypeVendor   ContactType = "VENDOR"
	ContactTypeEmployee ContactType = "EMPLOYEE"
	ContactTypeOther    ContactType = "OTHER"
)

// Contact is an organization-scoped payer or payee that entries may reference.
type Contact struct {
	ContactID      string      `json:"contactID"`
	OrganizationID string      `json:"organizationID"`
	Name           string      `json:"name"`
	ContactType    ContactType `json:"contactType"`
	Email          string      `json:"email"`
	Phone          string      `json:"phone"`
	Notes          string      `json:"notes"`
	AuditFields
}
