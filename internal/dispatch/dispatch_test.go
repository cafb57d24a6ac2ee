package dispatch

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"broker-portal-backend/internal/request/domain"
	"broker-portal-backend/internal/request/repository"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Client{}, &domain.Request{}, &domain.RequestMember{},
		&domain.InsurerReply{}, &domain.InsuranceTemplate{},
	))
	return db
}

type fakeStore struct {
	data []byte
	err  error
}

func (s *fakeStore) Download(_ context.Context, _ string) ([]byte, error) {
	return s.data, s.err
}

type fakeMailer struct {
	sent [][]byte
	err  error
}

func (m *fakeMailer) SendRaw(_ context.Context, mime []byte) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, mime)
	return nil
}

func emptyWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func seedDispatchFixture(t *testing.T, db *gorm.DB, withTemplate bool) *domain.Request {
	t.Helper()

	client := &domain.Client{ID: "client-1", CompanyName: "Acme Industries", PolicyNumber: "POL-777"}
	require.NoError(t, db.Create(client).Error)

	req := &domain.Request{
		ID:          "req-1",
		RequestRef:  "REQ-2026-AB12CD",
		RequestType: domain.RequestTypeAddition,
		Status:      domain.RequestStatusSubmitted,
		ClientID:    client.ID,
	}
	require.NoError(t, db.Create(req).Error)

	dob := time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC)
	member := &domain.RequestMember{
		ID:        "member-1",
		RequestID: req.ID,
		NID:       "30112345678912",
		Name:      "John Doe",
		DOB:       &dob,
		Gender:    "male",
		Plan:      "gold",
		Relation:  "principal",
		Email:     "john@acme.example",
		Phone:     "0100000000",
	}
	require.NoError(t, db.Create(member).Error)

	if withTemplate {
		tpl := &domain.InsuranceTemplate{
			ID:               "tpl-1",
			InsuranceCompany: "AXA",
			RequestType:      domain.RequestTypeAddition,
			TemplatePath:     "templates/axa_additions.xlsx",
			EmailList:        "intake@axa.example, backup@axa.example",
			EmailBody:        "Please find the addition request attached.",
		}
		require.NoError(t, db.Create(tpl).Error)
	}

	return req
}

func newTestJob(db *gorm.DB, store TemplateStore, mailer Mailer) *Job {
	return NewJob(
		repository.NewRequestRepository(db),
		repository.NewMemberRepository(db),
		repository.NewTemplateRepository(db),
		store, mailer,
		"broker@portal.example",
		"AXA",
	)
}

func TestSubjectFormat(t *testing.T) {
	req := &domain.Request{
		RequestRef:  "REQ-2024-001",
		RequestType: domain.RequestTypeAddition,
		Client:      &domain.Client{CompanyName: "Acme Industries"},
	}
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

	got := Subject(req, now)
	assert.Equal(t, "REQ-2024-001 | Acme Industries | Addition | 2026-08-28", got)
}

func TestSubjectFormat_MissingClient(t *testing.T) {
	req := &domain.Request{
		RequestRef:  "REQ-2024-002",
		RequestType: domain.RequestTypeDeletion,
	}
	now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "REQ-2024-002 | UNKNOWN CLIENT | Deletion | 2026-01-02", Subject(req, now))
}

func TestFillTemplate_WritesFixedColumns(t *testing.T) {
	db := openTestDB(t)
	req := seedDispatchFixture(t, db, true)

	var loaded domain.Request
	require.NoError(t, db.Preload("Client").First(&loaded, "id = ?", req.ID).Error)
	var members []domain.RequestMember
	require.NoError(t, db.Find(&members, "request_id = ?", req.ID).Error)

	out, err := fillTemplate(emptyWorkbook(t), &loaded, members)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetList()[0]
	get := func(col int) string {
		cell, err := excelize.CoordinatesToCellName(col, templateStartRow)
		require.NoError(t, err)
		v, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "1", get(1))
	assert.Equal(t, "POL-777", get(2))
	assert.Equal(t, "Acme Industries", get(3))
	assert.Equal(t, "John Doe", get(4))
	assert.Equal(t, "E", get(5))
	assert.Equal(t, "GA3", get(6))
	assert.Equal(t, "20/05/1990", get(7))
	assert.Equal(t, "M", get(8))
	assert.Equal(t, "30112345678912", get(14))
	assert.Equal(t, "john@acme.example", get(18))
	assert.Equal(t, "0100000000", get(19))
}

func TestBuildMIME_Shape(t *testing.T) {
	mime := string(buildMIME(
		"broker@portal.example",
		[]string{"intake@axa.example", "backup@axa.example"},
		"REQ-2024-001 | Acme | Addition | 2026-08-28",
		"Body text",
		"REQ-2024-001_AXA_Additions.xlsx",
		[]byte("spreadsheet-bytes"),
	))

	assert.Contains(t, mime, "From: broker@portal.example\r\n")
	assert.Contains(t, mime, "To: intake@axa.example, backup@axa.example\r\n")
	assert.Contains(t, mime, "Subject: REQ-2024-001 | Acme | Addition | 2026-08-28\r\n")
	assert.Contains(t, mime, "Content-Type: multipart/mixed;")
	assert.Contains(t, mime, "Content-Transfer-Encoding: base64")
	assert.Contains(t, mime, `filename="REQ-2024-001_AXA_Additions.xlsx"`)
	assert.True(t, strings.HasSuffix(mime, "--insurer-dispatch-boundary--"))
}

func TestSend_HappyPath(t *testing.T) {
	db := openTestDB(t)
	req := seedDispatchFixture(t, db, true)
	mailer := &fakeMailer{}
	job := newTestJob(db, &fakeStore{data: emptyWorkbook(t)}, mailer)

	require.NoError(t, job.Send(context.Background(), req.ID))

	require.Len(t, mailer.sent, 1)
	assert.Contains(t, string(mailer.sent[0]), "REQ-2026-AB12CD | Acme Industries | Addition |")

	var updated domain.Request
	require.NoError(t, db.First(&updated, "id = ?", req.ID).Error)
	assert.Equal(t, domain.RequestStatusSentToInsurer, updated.Status)
}

func TestSend_TemplateNotFound(t *testing.T) {
	db := openTestDB(t)
	req := seedDispatchFixture(t, db, false)
	job := newTestJob(db, &fakeStore{data: emptyWorkbook(t)}, &fakeMailer{})

	err := job.Send(context.Background(), req.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTemplateNotFound))

	var unchanged domain.Request
	require.NoError(t, db.First(&unchanged, "id = ?", req.ID).Error)
	assert.Equal(t, domain.RequestStatusSubmitted, unchanged.Status)
}

func TestSend_MailerFailureLeavesStatusUnchanged(t *testing.T) {
	db := openTestDB(t)
	req := seedDispatchFixture(t, db, true)
	job := newTestJob(db, &fakeStore{data: emptyWorkbook(t)}, &fakeMailer{err: errors.New("provider rejected the send")})

	err := job.Send(context.Background(), req.ID)
	require.Error(t, err)

	var unchanged domain.Request
	require.NoError(t, db.First(&unchanged, "id = ?", req.ID).Error)
	assert.Equal(t, domain.RequestStatusSubmitted, unchanged.Status)
}
