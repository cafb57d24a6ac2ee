package usecase

import (
	"time"

	"broker-portal-backend/internal/request/domain"
)

// MemberInput is one member row of a submission.
type MemberInput struct {
	NID          string     `json:"nid" binding:"required"`
	Name         string     `json:"name" binding:"required"`
	DOB          *time.Time `json:"dob"`
	Gender       string     `json:"gender"`
	Phone        string     `json:"phone"`
	Email        string     `json:"email"`
	Plan         string     `json:"plan"`
	Relation     string     `json:"relation"`
	AdditionDate *time.Time `json:"addition_date"`
}

// SubmitInput is a client batch submission.
type SubmitInput struct {
	ClientID    string             `json:"client_id" binding:"required"`
	RequestType domain.RequestType `json:"request_type" binding:"required"`
	Members     []MemberInput      `json:"members" binding:"required"`
}

// RequestDetail is a request with its member rows and reply ledger.
type RequestDetail struct {
	Request      domain.Request         `json:"request"`
	Members      []domain.RequestMember `json:"members"`
	Replies      []domain.InsurerReply  `json:"replies"`
	PendingCount int64                  `json:"pending_count"`
}

type RequestUsecase interface {
	Submit(input SubmitInput) (*domain.Request, error)
	List(status domain.RequestStatus) ([]domain.Request, error)
	Get(id string) (*RequestDetail, error)
	ApproveMember(memberID string) error
	RejectMember(memberID, reason string) error
}
