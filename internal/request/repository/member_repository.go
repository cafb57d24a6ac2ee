package repository

import (
	"time"

	"gorm.io/gorm"

	"broker-portal-backend/internal/request/domain"
)

type memberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) ListByRequest(requestID string) ([]domain.RequestMember, error) {
	var members []domain.RequestMember
	if err := r.db.Where("request_id = ?", requestID).Order("created_at ASC").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// AssignCard writes a parsed card number onto the member rows matching the
// request and nid. This races against a reviewer rejecting the same member;
// last writer wins.
func (r *memberRepository) AssignCard(requestID, nid, card string) (int64, error) {
	result := r.db.Model(&domain.RequestMember{}).
		Where("request_id = ? AND nid = ?", requestID, nid).
		Updates(map[string]interface{}{"card_number": card, "updated_at": time.Now()})
	return result.RowsAffected, result.Error
}

func (r *memberRepository) Approve(memberID string) error {
	return r.db.Model(&domain.RequestMember{}).
		Where("id = ?", memberID).
		Updates(map[string]interface{}{
			"approval":   domain.ApprovalApproved,
			"updated_at": time.Now(),
		}).Error
}

// Reject marks the member rejected and clears any assigned card number.
func (r *memberRepository) Reject(memberID, reason string) error {
	return r.db.Model(&domain.RequestMember{}).
		Where("id = ?", memberID).
		Updates(map[string]interface{}{
			"approval":      domain.ApprovalRejected,
			"reject_reason": reason,
			"card_number":   nil,
			"updated_at":    time.Now(),
		}).Error
}

func (r *memberRepository) PendingCount(requestID string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.RequestMember{}).
		Where("request_id = ? AND approval = ?", requestID, domain.ApprovalPending).
		Count(&count).Error
	return count, err
}
