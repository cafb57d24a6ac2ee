package reconcile

import (
	"context"

	"broker-portal-backend/pkg/mailbody"
)

// Mailbox is the slice of the mail provider the reconciliation jobs consume.
// pkg/gmail implements it; tests inject a fake.
type Mailbox interface {
	SearchMessages(ctx context.Context, query string) ([]mailbody.MessageRef, error)
	GetMessage(ctx context.Context, id string) (*mailbody.Message, error)
}

// SearchQuery builds the provider search string for a request reference.
// The reference token is the only stable substring insurers are expected to
// preserve in their replies.
func SearchQuery(requestRef string) string {
	return "in:inbox " + requestRef
}
