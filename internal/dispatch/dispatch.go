// Package dispatch sends an approved request to the insurer: it projects the
// member rows into the insurer's spreadsheet template and emails it with the
// request reference embedded in the subject, which is what reply
// reconciliation later matches on.
package dispatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"broker-portal-backend/internal/request/domain"
	"broker-portal-backend/internal/request/repository"
)

// ErrTemplateNotFound means no template descriptor exists for the insurer
// and request type; the request status is left untouched so the caller can
// retry once the descriptor is configured.
var ErrTemplateNotFound = errors.New("insurance template not found")

// templateStartRow is the first data row of the insurer template; everything
// above it is the insurer's own header block.
const templateStartRow = 12

const additionSheetName = "Additions (New Joiners)"

// TemplateStore fetches spreadsheet templates by storage path.
type TemplateStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

// Mailer submits a raw MIME payload.
type Mailer interface {
	SendRaw(ctx context.Context, mime []byte) error
}

type Job struct {
	requestRepo  repository.RequestRepository
	memberRepo   repository.MemberRepository
	templateRepo repository.TemplateRepository
	store        TemplateStore
	mailer       Mailer
	from         string
	company      string
}

func NewJob(
	requestRepo repository.RequestRepository,
	memberRepo repository.MemberRepository,
	templateRepo repository.TemplateRepository,
	store TemplateStore,
	mailer Mailer,
	from string,
	company string,
) *Job {
	return &Job{
		requestRepo:  requestRepo,
		memberRepo:   memberRepo,
		templateRepo: templateRepo,
		store:        store,
		mailer:       mailer,
		from:         from,
		company:      company,
	}
}

// Send dispatches one request to the insurer. On success the request moves to
// sent_to_insurer; any failure leaves the status unchanged so the whole
// dispatch can be retried.
func (j *Job) Send(ctx context.Context, requestID string) error {
	req, err := j.requestRepo.FindByID(requestID)
	if err != nil {
		return fmt.Errorf("failed to load request: %w", err)
	}
	members, err := j.memberRepo.ListByRequest(requestID)
	if err != nil {
		return fmt.Errorf("failed to load members: %w", err)
	}

	tpl, err := j.templateRepo.FindByCompanyAndType(j.company, req.RequestType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s/%s", ErrTemplateNotFound, j.company, req.RequestType)
		}
		return fmt.Errorf("failed to load template descriptor: %w", err)
	}

	templateData, err := j.store.Download(ctx, tpl.TemplatePath)
	if err != nil {
		return fmt.Errorf("failed to download template: %w", err)
	}

	sheet, err := fillTemplate(templateData, req, members)
	if err != nil {
		return fmt.Errorf("failed to fill template: %w", err)
	}

	subject := Subject(req, time.Now())
	filename := fmt.Sprintf("%s_%s_%ss.xlsx", req.RequestRef, j.company, req.RequestType.Label())
	mime := buildMIME(j.from, tpl.Recipients(), subject, tpl.EmailBody, filename, sheet)

	log.Printf("[Dispatch] Sending %s to %s (%d members)", req.RequestRef, tpl.EmailList, len(members))
	if err := j.mailer.SendRaw(ctx, mime); err != nil {
		return err
	}

	if err := j.requestRepo.UpdateStatus(req.ID, domain.RequestStatusSentToInsurer); err != nil {
		// The mail is out; the reply job keys off sent_to_insurer, so a
		// failed transition here must surface rather than be absorbed.
		return fmt.Errorf("sent but failed to update request status: %w", err)
	}
	return nil
}

// Subject builds the fixed, parseable subject line insurers reply to:
// "<ref> | <client company> | <Addition|Deletion|Update> | <YYYY-MM-DD>".
func Subject(req *domain.Request, now time.Time) string {
	clientName := "UNKNOWN CLIENT"
	if req.Client != nil && req.Client.CompanyName != "" {
		clientName = req.Client.CompanyName
	}
	return fmt.Sprintf("%s | %s | %s | %s",
		req.RequestRef, clientName, req.RequestType.Label(), now.Format("2006-01-02"))
}

// fillTemplate writes one row per member into the template's fixed column
// layout, starting at templateStartRow.
func fillTemplate(templateData []byte, req *domain.Request, members []domain.RequestMember) ([]byte, error) {
	f, err := excelize.OpenReader(bytes.NewReader(templateData))
	if err != nil {
		return nil, fmt.Errorf("failed to open template workbook: %w", err)
	}
	defer f.Close()

	sheet := additionSheetName
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		sheet = f.GetSheetList()[0]
	}

	policyNumber := ""
	companyName := ""
	if req.Client != nil {
		policyNumber = req.Client.PolicyNumber
		companyName = req.Client.CompanyName
	}

	for i, m := range members {
		row := templateStartRow + i
		setCell := func(col int, value interface{}) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, value)
		}

		setCell(1, i+1)
		setCell(2, policyNumber)
		setCell(3, companyName)
		setCell(4, m.Name)
		setCell(5, mapRelation(m.Relation))
		setCell(6, mapPlan(m.Plan))
		if m.DOB != nil {
			setCell(7, m.DOB.Format("02/01/2006"))
		}
		setCell(8, mapGender(m.Gender))
		if m.AdditionDate != nil {
			setCell(9, m.AdditionDate.Format("02/01/2006"))
		}
		setCell(14, m.NID)
		setCell(18, m.Email)
		setCell(19, m.Phone)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
