package api

import (
	"github.com/gin-gonic/gin"

	"broker-portal-backend/internal/dispatch"
	"broker-portal-backend/internal/reconcile"
	"broker-portal-backend/internal/request/usecase"
	"broker-portal-backend/pkg/config"
)

// Handler owns the gin engine and the route wiring.
type Handler struct {
	engine *gin.Engine
}

func NewHandler(
	requestUsecase usecase.RequestUsecase,
	reconcileJob *reconcile.Job,
	catchupJob *reconcile.CatchupJob,
	dispatchJob *dispatch.Job,
	cfg *config.Config,
) *Handler {
	engine := gin.Default()

	requestHandler := NewRequestHandler(requestUsecase)
	jobHandler := NewJobHandler(reconcileJob, catchupJob, dispatchJob)
	SetupRoutes(engine, requestHandler, jobHandler, cfg)

	return &Handler{engine: engine}
}

func (h *Handler) Start(addr string) error {
	return h.engine.Run(addr)
}
