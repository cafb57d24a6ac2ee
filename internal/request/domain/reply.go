package domain

import "time"

// InsurerReply is the processed-message ledger. The unique index on
// GmailMessageID is the deduplication boundary: inserting the row is the
// claim on that message, and at most one row can ever exist per message id,
// however many job runs see it.
type InsurerReply struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	RequestID      string    `json:"request_id" gorm:"index;not null"`
	GmailMessageID string    `json:"gmail_message_id" gorm:"uniqueIndex;not null"`
	GmailThreadID  string    `json:"gmail_thread_id"`
	Body           string    `json:"body"`
	ReceivedAt     time.Time `json:"received_at"`
	CardsProcessed bool      `json:"cards_processed" gorm:"default:false"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
