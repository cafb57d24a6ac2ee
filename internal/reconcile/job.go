// Package reconcile polls the shared mailbox for insurer replies and writes
// parsed card numbers back onto member records.
//
// Two jobs live here. Job is the primary, ledgered pass: strict plaintext
// extraction, per-message idempotency through the insurer-reply ledger, and a
// bounded batch so one invocation stays inside the scheduler's time budget.
// CatchupJob is the deliberately weaker best-effort rescan over HTML replies.
package reconcile

import (
	"context"
	"errors"
	"log"

	"broker-portal-backend/internal/request/domain"
	"broker-portal-backend/internal/request/repository"
	"broker-portal-backend/pkg/cardparse"
	"broker-portal-backend/pkg/gmail"
	"broker-portal-backend/pkg/mailbody"
)

// requestBatchSize bounds one run's wall clock so a scheduled invocation
// finishes before the scheduler's timeout. Remaining requests are picked up
// on the next run.
const requestBatchSize = 5

// Result reports what one run committed.
type Result struct {
	Processed int `json:"processed"`
}

type Job struct {
	requestRepo repository.RequestRepository
	memberRepo  repository.MemberRepository
	replyRepo   repository.InsurerReplyRepository
	mailbox     Mailbox
}

func NewJob(
	requestRepo repository.RequestRepository,
	memberRepo repository.MemberRepository,
	replyRepo repository.InsurerReplyRepository,
	mailbox Mailbox,
) *Job {
	return &Job{
		requestRepo: requestRepo,
		memberRepo:  memberRepo,
		replyRepo:   replyRepo,
		mailbox:     mailbox,
	}
}

// Run executes one reconciliation pass. A failure on the initial request
// selection or on credential refresh aborts the run; a failure on any single
// request or message is logged and skipped so the rest of the batch still
// gets processed. No state is carried between runs: everything is re-derived
// from the ledger.
func (j *Job) Run(ctx context.Context) (Result, error) {
	var result Result

	requests, err := j.requestRepo.FindByStatus(domain.RequestStatusSentToInsurer, requestBatchSize)
	if err != nil {
		return result, err
	}
	if len(requests) == 0 {
		log.Printf("[Reconcile] No outstanding requests")
		return result, nil
	}

	for _, req := range requests {
		matches, err := j.mailbox.SearchMessages(ctx, SearchQuery(req.RequestRef))
		if err != nil {
			var authErr *gmail.AuthError
			if errors.As(err, &authErr) {
				// Every later call would fail the same way.
				return result, err
			}
			log.Printf("[Reconcile] Search failed for %s, skipping request: %v", req.RequestRef, err)
			continue
		}

		for _, ref := range matches {
			claimed, err := j.processMessage(ctx, req, ref)
			if err != nil {
				log.Printf("[Reconcile] Failed to process message %s for %s: %v", ref.ID, req.RequestRef, err)
				continue
			}
			if claimed {
				result.Processed++
			}
		}
	}

	log.Printf("[Reconcile] Run complete, %d replies processed", result.Processed)
	return result, nil
}

// processMessage applies one mailbox message. The ledger insert is the claim:
// a message whose ledger row already exists and is marked processed is
// skipped outright, and a concurrent run losing the insert race treats the
// message as someone else's. A row left unprocessed by a killed run is
// finished here from its stored body, without refetching.
func (j *Job) processMessage(ctx context.Context, req domain.Request, ref mailbody.MessageRef) (bool, error) {
	existing, err := j.replyRepo.FindByMessageID(ref.ID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		if existing.CardsProcessed {
			return false, nil
		}
		j.applyCards(req, existing.Body)
		return false, j.replyRepo.MarkCardsProcessed(existing.ID)
	}

	msg, err := j.mailbox.GetMessage(ctx, ref.ID)
	if err != nil {
		return false, err
	}

	body := mailbody.FirstPlainText(msg.Payload)
	reply := &domain.InsurerReply{
		RequestID:      req.ID,
		GmailMessageID: msg.ID,
		GmailThreadID:  msg.ThreadID,
		Body:           body,
		ReceivedAt:     msg.ReceivedAt,
		CardsProcessed: false,
	}

	inserted, err := j.replyRepo.CreateIfAbsent(reply)
	if err != nil {
		return false, err
	}
	if !inserted {
		// A concurrent run won the claim between our lookup and the insert.
		return false, nil
	}

	log.Printf("[Reconcile] Reply found for %s (message %s)", req.RequestRef, msg.ID)
	j.applyCards(req, body)

	if err := j.replyRepo.MarkCardsProcessed(reply.ID); err != nil {
		// The ledger row exists, so the next run finishes this message from
		// its stored body.
		return true, err
	}
	return true, nil
}

func (j *Job) applyCards(req domain.Request, body string) {
	pairs := cardparse.ParseTable(body)
	log.Printf("[Reconcile] Parsed %d card rows for %s", len(pairs), req.RequestRef)

	for _, pair := range pairs {
		rows, err := j.memberRepo.AssignCard(req.ID, pair.NID, pair.Card)
		if err != nil {
			log.Printf("[Reconcile] Card update failed for nid %s: %v", pair.NID, err)
			continue
		}
		if rows > 0 {
			log.Printf("[Reconcile] Assigned card to nid %s (%d rows)", pair.NID, rows)
		}
	}
}
