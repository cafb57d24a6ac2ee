package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"broker-portal-backend/internal/request/domain"
	"broker-portal-backend/internal/request/repository"
)

type requestUsecase struct {
	requestRepo repository.RequestRepository
	memberRepo  repository.MemberRepository
	replyRepo   repository.InsurerReplyRepository
}

func NewRequestUsecase(
	requestRepo repository.RequestRepository,
	memberRepo repository.MemberRepository,
	replyRepo repository.InsurerReplyRepository,
) RequestUsecase {
	return &requestUsecase{
		requestRepo: requestRepo,
		memberRepo:  memberRepo,
		replyRepo:   replyRepo,
	}
}

// Submit assigns the request its permanent reference token and persists the
// whole batch atomically through the stored procedure.
func (u *requestUsecase) Submit(input SubmitInput) (*domain.Request, error) {
	if len(input.Members) == 0 {
		return nil, fmt.Errorf("a request needs at least one member")
	}

	req := &domain.Request{
		ID:          uuid.New().String(),
		RequestRef:  newRequestRef(),
		RequestType: input.RequestType,
		Status:      domain.RequestStatusSubmitted,
		ClientID:    input.ClientID,
	}

	members := make([]domain.RequestMember, 0, len(input.Members))
	for _, m := range input.Members {
		members = append(members, domain.RequestMember{
			ID:           uuid.New().String(),
			RequestID:    req.ID,
			NID:          strings.TrimSpace(m.NID),
			Name:         m.Name,
			DOB:          m.DOB,
			Gender:       m.Gender,
			Phone:        m.Phone,
			Email:        m.Email,
			Plan:         m.Plan,
			Relation:     m.Relation,
			AdditionDate: m.AdditionDate,
			Approval:     domain.ApprovalPending,
		})
	}

	if err := u.requestRepo.SubmitWithMembers(req, members); err != nil {
		return nil, fmt.Errorf("failed to submit request: %w", err)
	}
	return req, nil
}

func (u *requestUsecase) List(status domain.RequestStatus) ([]domain.Request, error) {
	return u.requestRepo.FindByStatus(status, 0)
}

func (u *requestUsecase) Get(id string) (*RequestDetail, error) {
	req, err := u.requestRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	members, err := u.memberRepo.ListByRequest(id)
	if err != nil {
		return nil, err
	}
	replies, err := u.replyRepo.FindByRequest(id)
	if err != nil {
		return nil, err
	}
	pending, err := u.memberRepo.PendingCount(id)
	if err != nil {
		return nil, err
	}
	return &RequestDetail{Request: *req, Members: members, Replies: replies, PendingCount: pending}, nil
}

func (u *requestUsecase) ApproveMember(memberID string) error {
	return u.memberRepo.Approve(memberID)
}

func (u *requestUsecase) RejectMember(memberID, reason string) error {
	return u.memberRepo.Reject(memberID, reason)
}

// newRequestRef builds the unique human-readable token that correlates this
// request with insurer email traffic, e.g. REQ-2026-4F7A21.
func newRequestRef() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:6]
	return fmt.Sprintf("REQ-%d-%s", time.Now().Year(), suffix)
}
