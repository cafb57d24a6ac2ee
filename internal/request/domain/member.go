package domain

import "time"

// ApprovalStatus is the reviewer's verdict on one member line.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// RequestMember is one person's add/delete/modify record inside a Request.
//
// NID is the natural join key against insurer replies. It is not globally
// unique across requests, so reply matching is always scoped to
// (request_id, nid).
type RequestMember struct {
	ID           string         `json:"id" gorm:"primaryKey"`
	RequestID    string         `json:"request_id" gorm:"index:idx_request_nid;not null"`
	NID          string         `json:"nid" gorm:"column:nid;index:idx_request_nid;not null"`
	Name         string         `json:"name"`
	DOB          *time.Time     `json:"dob,omitempty"`
	Gender       string         `json:"gender"`
	Phone        string         `json:"phone"`
	Email        string         `json:"email"`
	Plan         string         `json:"plan"`
	Relation     string         `json:"relation"`
	AdditionDate *time.Time     `json:"addition_date,omitempty"`
	Approval     ApprovalStatus `json:"approval" gorm:"default:pending"`
	CardNumber   *string        `json:"card_number,omitempty"`
	RejectReason *string        `json:"reject_reason,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}
