package repository

import (
	"broker-portal-backend/internal/request/domain"
)

// RequestRepository is the row-store surface for requests.
type RequestRepository interface {
	FindByID(id string) (*domain.Request, error)
	// FindByStatus returns requests in a stable oldest-first order.
	// limit <= 0 means no limit.
	FindByStatus(status domain.RequestStatus, limit int) ([]domain.Request, error)
	UpdateStatus(id string, status domain.RequestStatus) error
	// SubmitWithMembers persists a request and its member rows through the
	// server-side stored procedure, an opaque transactional boundary.
	SubmitWithMembers(req *domain.Request, members []domain.RequestMember) error
}

// MemberRepository is the row-store surface for request line items.
type MemberRepository interface {
	ListByRequest(requestID string) ([]domain.RequestMember, error)
	// AssignCard sets the card number on every member matching
	// (request_id, nid) and reports how many rows changed. The scope is the
	// whole guarantee: the same nid under another request is never touched.
	AssignCard(requestID, nid, card string) (int64, error)
	Approve(memberID string) error
	Reject(memberID, reason string) error
	PendingCount(requestID string) (int64, error)
}

// InsurerReplyRepository is the processed-message ledger.
type InsurerReplyRepository interface {
	// CreateIfAbsent inserts the ledger row unless one already exists for
	// the same mailbox message id, and reports whether this call inserted
	// it. The insert is the atomic claim on the message: two concurrent runs
	// cannot both win it.
	CreateIfAbsent(reply *domain.InsurerReply) (bool, error)
	// FindByMessageID returns nil, nil when no ledger row exists yet.
	FindByMessageID(gmailMessageID string) (*domain.InsurerReply, error)
	MarkCardsProcessed(id string) error
	FindByRequest(requestID string) ([]domain.InsurerReply, error)
}

// TemplateRepository resolves insurer template descriptors.
type TemplateRepository interface {
	FindByCompanyAndType(company string, requestType domain.RequestType) (*domain.InsuranceTemplate, error)
}
