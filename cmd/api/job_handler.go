package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"broker-portal-backend/internal/dispatch"
	"broker-portal-backend/internal/reconcile"
)

type JobHandler struct {
	reconcileJob *reconcile.Job
	catchupJob   *reconcile.CatchupJob
	dispatchJob  *dispatch.Job
}

func NewJobHandler(reconcileJob *reconcile.Job, catchupJob *reconcile.CatchupJob, dispatchJob *dispatch.Job) *JobHandler {
	return &JobHandler{
		reconcileJob: reconcileJob,
		catchupJob:   catchupJob,
		dispatchJob:  dispatchJob,
	}
}

// CheckReplies runs one ledgered reconciliation pass. Run-level failures
// (credential refresh, request selection) come back as a single error; all
// previously committed ledger rows stay intact for the next invocation.
func (h *JobHandler) CheckReplies(c *gin.Context) {
	result, err := h.reconcileJob.Run(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "processed": result.Processed})
}

// ProcessCards runs the best-effort catch-up pass.
func (h *JobHandler) ProcessCards(c *gin.Context) {
	result, err := h.catchupJob.Run(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "parsed": result.Parsed, "updated": result.Updated})
}

// Dispatch sends one request to the insurer. Any failure leaves the request
// status unchanged, so the caller may simply retry.
func (h *JobHandler) Dispatch(c *gin.Context) {
	requestID := c.Param("id")

	err := h.dispatchJob.Send(c.Request.Context(), requestID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"ok": true})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
	case errors.Is(err, dispatch.ErrTemplateNotFound):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
