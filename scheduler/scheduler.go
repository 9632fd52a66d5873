package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// LateReconciler persists Late for overdue loans.
type LateReconciler interface {
	ReconcileLate(ctx context.Context) (int, error)
}

// Scheduler runs the periodic bookkeeping jobs.
type Scheduler struct {
	cron       *cron.Cron
	reconciler LateReconciler
	spec       string
	logger     *zap.Logger
}

// NewScheduler parses spec as a standard 5-field cron expression evaluated in loc.
func NewScheduler(spec string, loc *time.Location, reconciler LateReconciler, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron:       cron.New(cron.WithLocation(loc)),
		reconciler: reconciler,
		spec:       spec,
		logger:     logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.reconcileLate); err != nil {
		return err
	}
	s.logger.Info("starting scheduler", zap.String("late_reconcile", s.spec))
	s.cron.Start()
	return nil
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) reconcileLate() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	n, err := s.reconciler.ReconcileLate(ctx)
	if err != nil {
		s.logger.Error("late reconciliation failed", zap.Error(err))
		return
	}
	s.logger.Info("late reconciliation finished", zap.Int("updated", n))
}
