package repository

import (
	"gorm.io/gorm"

	"broker-portal-backend/internal/request/domain"
)

type templateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) FindByCompanyAndType(company string, requestType domain.RequestType) (*domain.InsuranceTemplate, error) {
	var tpl domain.InsuranceTemplate
	err := r.db.Where("insurance_company = ? AND request_type = ?", company, requestType).First(&tpl).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}
