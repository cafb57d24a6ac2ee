// Package scheduler drives the periodic job runs. A cron firing may overlap
// with a manual HTTP trigger: the reply ledger's insert-if-absent claim makes
// concurrent runs skip each other's messages.
package scheduler

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"broker-portal-backend/internal/reconcile"
)

type Service struct {
	cron          *cron.Cron
	reconcileJob  *reconcile.Job
	catchupJob    *reconcile.CatchupJob
	reconcileSpec string
	catchupSpec   string
}

func New(reconcileJob *reconcile.Job, catchupJob *reconcile.CatchupJob, reconcileSpec, catchupSpec string) *Service {
	return &Service{
		cron:          cron.New(),
		reconcileJob:  reconcileJob,
		catchupJob:    catchupJob,
		reconcileSpec: reconcileSpec,
		catchupSpec:   catchupSpec,
	}
}

// Start registers the entries and begins the cron loop. The reconcile job
// also runs once immediately so a restart does not wait out a full interval.
func (s *Service) Start() error {
	if _, err := s.cron.AddFunc(s.reconcileSpec, s.runReconcile); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.catchupSpec, s.runCatchup); err != nil {
		return err
	}

	log.Printf("[Scheduler] Starting (reconcile %q, catchup %q)", s.reconcileSpec, s.catchupSpec)
	go s.runReconcile()
	s.cron.Start()
	return nil
}

// Stop halts scheduling and waits for a running entry to finish.
func (s *Service) Stop() {
	<-s.cron.Stop().Done()
	log.Printf("[Scheduler] Stopped")
}

func (s *Service) runReconcile() {
	result, err := s.reconcileJob.Run(context.Background())
	if err != nil {
		log.Printf("[Scheduler] Reconcile run failed: %v", err)
		return
	}
	if result.Processed > 0 {
		log.Printf("[Scheduler] Reconcile processed %d replies", result.Processed)
	}
}

func (s *Service) runCatchup() {
	result, err := s.catchupJob.Run(context.Background())
	if err != nil {
		log.Printf("[Scheduler] Catchup run failed: %v", err)
		return
	}
	if result.Updated > 0 {
		log.Printf("[Scheduler] Catchup updated %d member rows", result.Updated)
	}
}
