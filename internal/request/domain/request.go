package domain

import "time"

// RequestType classifies a client batch operation.
type RequestType string

const (
	RequestTypeAddition     RequestType = "addition"
	RequestTypeDeletion     RequestType = "deletion"
	RequestTypeModification RequestType = "modification"
)

// Label is the human form used in email subjects.
func (t RequestType) Label() string {
	switch t {
	case RequestTypeAddition:
		return "Addition"
	case RequestTypeDeletion:
		return "Deletion"
	default:
		return "Update"
	}
}

// RequestStatus is the request lifecycle state.
type RequestStatus string

const (
	RequestStatusDraft         RequestStatus = "draft"
	RequestStatusSubmitted     RequestStatus = "submitted"
	RequestStatusSentToInsurer RequestStatus = "sent_to_insurer"
	RequestStatusCompleted     RequestStatus = "completed"
	RequestStatusRejected      RequestStatus = "rejected"
)

// Client is a broker customer company.
type Client struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	CompanyName  string    `json:"company_name" gorm:"not null"`
	PolicyNumber string    `json:"policy_number"`
	ContactEmail string    `json:"contact_email"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Request is a client-submitted batch of member operations.
//
// RequestRef is the sole correlation mechanism between outbound dispatch and
// inbound reply matching: it is embedded in the email subject, insurers
// preserve it by replying in-thread, and the reconciliation search query is
// always "in:inbox <ref>". It is unique and never changes once assigned.
type Request struct {
	ID          string        `json:"id" gorm:"primaryKey"`
	RequestRef  string        `json:"request_ref" gorm:"uniqueIndex;not null"`
	RequestType RequestType   `json:"request_type" gorm:"not null"`
	Status      RequestStatus `json:"status" gorm:"index;default:draft"`
	ClientID    string        `json:"client_id" gorm:"index;not null"`
	Client      *Client       `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
