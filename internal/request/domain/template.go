package domain

import (
	"strings"
	"time"
)

// InsuranceTemplate describes how to reach one insurer for one request type:
// where its spreadsheet template lives, who receives the email, and the
// boilerplate body that accompanies the attachment.
type InsuranceTemplate struct {
	ID               string      `json:"id" gorm:"primaryKey"`
	InsuranceCompany string      `json:"insurance_company" gorm:"index:idx_company_type;not null"`
	RequestType      RequestType `json:"request_type" gorm:"index:idx_company_type;not null"`
	TemplatePath     string      `json:"template_path" gorm:"not null"`
	EmailList        string      `json:"email_list" gorm:"not null"`
	EmailBody        string      `json:"email_body"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// Recipients splits the stored comma-separated address list.
func (t *InsuranceTemplate) Recipients() []string {
	var out []string
	for _, addr := range strings.Split(t.EmailList, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
