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

// CatchupResult reports what one catch-up pass saw and wrote.
type CatchupResult struct {
	Parsed  int `json:"parsed"`
	Updated int `json:"updated"`
}

// CatchupJob is the best-effort rescan tier. It walks every request still
// waiting on the insurer, flattens each reply (HTML included) and applies the
// loose pattern parser. It keeps no ledger: re-running it re-issues
// identical scoped updates, which are no-ops on already-correct rows, and an
// un-ledgered pass can repair members the strict pass recorded but failed to
// write.
type CatchupJob struct {
	requestRepo repository.RequestRepository
	memberRepo  repository.MemberRepository
	mailbox     Mailbox
}

func NewCatchupJob(
	requestRepo repository.RequestRepository,
	memberRepo repository.MemberRepository,
	mailbox Mailbox,
) *CatchupJob {
	return &CatchupJob{
		requestRepo: requestRepo,
		memberRepo:  memberRepo,
		mailbox:     mailbox,
	}
}

func (j *CatchupJob) Run(ctx context.Context) (CatchupResult, error) {
	var result CatchupResult

	requests, err := j.requestRepo.FindByStatus(domain.RequestStatusSentToInsurer, 0)
	if err != nil {
		return result, err
	}

	for _, req := range requests {
		matches, err := j.mailbox.SearchMessages(ctx, SearchQuery(req.RequestRef))
		if err != nil {
			var authErr *gmail.AuthError
			if errors.As(err, &authErr) {
				return result, err
			}
			log.Printf("[Catchup] Search failed for %s, skipping request: %v", req.RequestRef, err)
			continue
		}

		for _, ref := range matches {
			msg, err := j.mailbox.GetMessage(ctx, ref.ID)
			if err != nil {
				log.Printf("[Catchup] Fetch failed for message %s: %v", ref.ID, err)
				continue
			}

			text := mailbody.FlattenedText(msg.Payload)
			for _, pair := range cardparse.ParseLoose(text) {
				result.Parsed++
				rows, err := j.memberRepo.AssignCard(req.ID, pair.NID, pair.Card)
				if err != nil {
					log.Printf("[Catchup] Card update failed for nid %s: %v", pair.NID, err)
					continue
				}
				result.Updated += int(rows)
			}
		}
	}

	log.Printf("[Catchup] Run complete, %d pairs parsed, %d rows updated", result.Parsed, result.Updated)
	return result, nil
}
