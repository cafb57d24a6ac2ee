package main

import (
	"context"
	"log"

	"broker-portal-backend/cmd/api"
	"broker-portal-backend/internal/dispatch"
	"broker-portal-backend/internal/reconcile"
	"broker-portal-backend/internal/request/domain"
	requestRepo "broker-portal-backend/internal/request/repository"
	requestUsecase "broker-portal-backend/internal/request/usecase"
	"broker-portal-backend/internal/scheduler"
	"broker-portal-backend/pkg/config"
	"broker-portal-backend/pkg/database"
	"broker-portal-backend/pkg/gmail"
	"broker-portal-backend/pkg/storage"
)

func main() {
	// Load and validate configuration. Jobs never start with a partial
	// credential set.
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&domain.Client{},
		&domain.Request{},
		&domain.RequestMember{},
		&domain.InsurerReply{},
		&domain.InsuranceTemplate{},
	); err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}

	// Initialize repositories (dependency injection)
	requestRepository := requestRepo.NewRequestRepository(db)
	memberRepository := requestRepo.NewMemberRepository(db)
	replyRepository := requestRepo.NewInsurerReplyRepository(db)
	templateRepository := requestRepo.NewTemplateRepository(db)

	// Initialize the mailbox client and template store
	mailbox := gmail.NewService(cfg.GmailClientID, cfg.GmailClientSecret, cfg.GmailRefreshToken, cfg.GmailSender)

	templateStore, err := storage.NewStore(context.Background(), cfg.TemplateRegion, cfg.TemplateBucket)
	if err != nil {
		log.Fatal("Failed to initialize template store: ", err)
	}

	// Initialize jobs and usecases
	reconcileJob := reconcile.NewJob(requestRepository, memberRepository, replyRepository, mailbox)
	catchupJob := reconcile.NewCatchupJob(requestRepository, memberRepository, mailbox)
	dispatchJob := dispatch.NewJob(
		requestRepository, memberRepository, templateRepository,
		templateStore, mailbox, cfg.GmailSender, cfg.InsuranceCompany,
	)
	requestUsecaseInstance := requestUsecase.NewRequestUsecase(requestRepository, memberRepository, replyRepository)

	// Start the periodic job scheduler
	sched := scheduler.New(reconcileJob, catchupJob, cfg.ReconcileSpec, cfg.CatchupSpec)
	if err := sched.Start(); err != nil {
		log.Fatal("Failed to start scheduler: ", err)
	}
	defer sched.Stop()

	// Initialize HTTP handler and start the server
	handler := api.NewHandler(requestUsecaseInstance, reconcileJob, catchupJob, dispatchJob, cfg)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
