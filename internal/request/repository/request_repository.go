package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"broker-portal-backend/internal/request/domain"
)

type requestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) FindByID(id string) (*domain.Request, error) {
	var req domain.Request
	if err := r.db.Preload("Client").Where("id = ?", id).First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) FindByStatus(status domain.RequestStatus, limit int) ([]domain.Request, error) {
	var requests []domain.Request
	q := r.db.Where("status = ?", status).Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *requestRepository) UpdateStatus(id string, status domain.RequestStatus) error {
	return r.db.Model(&domain.Request{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()}).Error
}

// SubmitWithMembers calls the submit_request_with_members procedure so the
// request row and all member rows commit or fail as one unit. The procedure
// body lives in the database migrations and is treated as opaque here.
func (r *requestRepository) SubmitWithMembers(req *domain.Request, members []domain.RequestMember) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	for i := range members {
		if members[i].ID == "" {
			members[i].ID = uuid.New().String()
		}
		members[i].RequestID = req.ID
	}

	payload, err := json.Marshal(members)
	if err != nil {
		return fmt.Errorf("failed to encode members: %w", err)
	}

	return r.db.Exec(
		"SELECT submit_request_with_members(?, ?, ?, ?, ?::jsonb)",
		req.ID, req.RequestRef, string(req.RequestType), req.ClientID, string(payload),
	).Error
}
