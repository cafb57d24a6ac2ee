package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"broker-portal-backend/internal/request/domain"
)

type insurerReplyRepository struct {
	db *gorm.DB
}

func NewInsurerReplyRepository(db *gorm.DB) InsurerReplyRepository {
	return &insurerReplyRepository{db: db}
}

// CreateIfAbsent relies on the unique index on gmail_message_id plus
// ON CONFLICT DO NOTHING, so the existence check and the insert are one
// statement. RowsAffected == 0 means another run already claimed the message.
func (r *insurerReplyRepository) CreateIfAbsent(reply *domain.InsurerReply) (bool, error) {
	if reply.ID == "" {
		reply.ID = uuid.New().String()
	}

	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "gmail_message_id"}},
		DoNothing: true,
	}).Create(reply)

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *insurerReplyRepository) FindByMessageID(gmailMessageID string) (*domain.InsurerReply, error) {
	var reply domain.InsurerReply
	err := r.db.Where("gmail_message_id = ?", gmailMessageID).First(&reply).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

func (r *insurerReplyRepository) MarkCardsProcessed(id string) error {
	return r.db.Model(&domain.InsurerReply{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"cards_processed": true, "updated_at": time.Now()}).Error
}

func (r *insurerReplyRepository) FindByRequest(requestID string) ([]domain.InsurerReply, error) {
	var replies []domain.InsurerReply
	if err := r.db.Where("request_id = ?", requestID).Order("received_at ASC").Find(&replies).Error; err != nil {
		return nil, err
	}
	return replies, nil
}
