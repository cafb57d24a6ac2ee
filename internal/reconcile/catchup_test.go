package reconcile

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"broker-portal-backend/internal/request/domain"
	"broker-portal-backend/internal/request/repository"
	"broker-portal-backend/pkg/gmail"
	"broker-portal-backend/pkg/mailbody"
)

func (m *fakeMailbox) addHTMLReply(ref, messageID, html string) {
	m.results[SearchQuery(ref)] = append(m.results[SearchQuery(ref)], mailbody.MessageRef{ID: messageID, ThreadID: "thread-" + messageID})
	m.messages[messageID] = &mailbody.Message{
		ID:         messageID,
		ThreadID:   "thread-" + messageID,
		ReceivedAt: time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC),
		Payload: &mailbody.Part{
			MimeType: "text/html",
			Data:     encode(html),
		},
	}
}

func newTestCatchupJob(db *gorm.DB, mailbox Mailbox) *CatchupJob {
	return NewCatchupJob(
		repository.NewRequestRepository(db),
		repository.NewMemberRepository(db),
		mailbox,
	)
}

func TestCatchup_ParsesHTMLReplies(t *testing.T) {
	db := openTestDB(t)
	seedRequest(t, db, "req-1", "REQ-2024-001", time.Now(), "30211234567890")

	mailbox := newFakeMailbox()
	mailbox.addHTMLReply("REQ-2024-001", "H1",
		`<html><body><table><tr><td>30211234567890</td><td>Card: AB-1234-XY</td></tr></table></body></html>`)

	job := newTestCatchupJob(db, mailbox)

	result, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Parsed)
	assert.Equal(t, 1, result.Updated)

	card := cardOf(t, db, "req-1", "30211234567890")
	require.NotNil(t, card)
	assert.Equal(t, "AB-1234-XY", *card)

	// The catch-up tier keeps no ledger.
	var replyCount int64
	require.NoError(t, db.Model(&domain.InsurerReply{}).Count(&replyCount).Error)
	assert.Equal(t, int64(0), replyCount)

	// Re-running re-issues the same write, which is a benign no-op.
	result, err = job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Parsed)

	card = cardOf(t, db, "req-1", "30211234567890")
	require.NotNil(t, card)
	assert.Equal(t, "AB-1234-XY", *card)
}

func TestCatchup_ScansAllRequestsWithoutBatchLimit(t *testing.T) {
	db := openTestDB(t)
	base := time.Now()
	for i := 0; i < 7; i++ {
		seedRequest(t, db, fmt.Sprintf("req-%d", i), fmt.Sprintf("REQ-2024-%03d", i),
			base.Add(time.Duration(i)*time.Second), fmt.Sprintf("3021123456789%d", i))
	}

	mailbox := newFakeMailbox()
	mailbox.addHTMLReply("REQ-2024-006", "H6", "<p>30211234567896 Card CATCH7896</p>")

	result, err := newTestCatchupJob(db, mailbox).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)

	// The seventh request was reached in one pass: no batch cap here.
	card := cardOf(t, db, "req-6", "30211234567896")
	require.NotNil(t, card)
	assert.Equal(t, "CATCH7896", *card)
}

func TestCatchup_SearchFailureSkipsRequest(t *testing.T) {
	db := openTestDB(t)
	seedRequest(t, db, "req-a", "REQ-2024-00A", time.Now(), "30211234567890")
	seedRequest(t, db, "req-b", "REQ-2024-00B", time.Now().Add(time.Second), "30211234567891")

	mailbox := newFakeMailbox()
	mailbox.searchErr[SearchQuery("REQ-2024-00A")] = &gmail.TransportError{Op: "search", StatusCode: 502, Err: errors.New("bad gateway")}
	mailbox.addHTMLReply("REQ-2024-00B", "H2", "<p>30211234567891 Card OK9999</p>")

	result, err := newTestCatchupJob(db, mailbox).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)

	assert.Nil(t, cardOf(t, db, "req-a", "30211234567890"))
}

func TestCatchup_AuthErrorIsFatal(t *testing.T) {
	db := openTestDB(t)
	seedRequest(t, db, "req-1", "REQ-2024-001", time.Now(), "30211234567890")

	mailbox := newFakeMailbox()
	mailbox.searchErr[SearchQuery("REQ-2024-001")] = &gmail.AuthError{Reason: "missing client id, client secret or refresh token"}

	_, err := newTestCatchupJob(db, mailbox).Run(context.Background())
	require.Error(t, err)

	var authErr *gmail.AuthError
	assert.True(t, errors.As(err, &authErr))
}
