// Package scheduler wires up the cron job that periodically marks
// past-deadline annonces as expired.
package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/port"
	"listing-service/internal/core/port/usecases_port"
)

// Scheduler wraps robfig/cron and manages the expiration sweep.
type Scheduler struct {
	cron     *cron.Cron
	useCase  usecases_port.MarkExpiredUseCase
	logger   port.LoggerPort
	cronSpec string
}

func New(useCase usecases_port.MarkExpiredUseCase, logger port.LoggerPort, cronSpec string) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		useCase:  useCase,
		logger:   logger.WithFields(port.Fields{"component": "scheduler"}),
		cronSpec: cronSpec,
	}
}

// Start registers the sweep and starts the scheduler. Also runs one
// sweep immediately so a long downtime is caught up without waiting for
// the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.cronSpec, func() {
		s.runSweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Cron started", port.Fields{"cron_spec": s.cronSpec})

	go s.runSweep(ctx)

	return nil
}

// Stop shuts down the scheduler, waiting for a running sweep to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("Cron stopped", nil)
}

func (s *Scheduler) runSweep(ctx context.Context) {
	traceID := uuid.New().String()
	sweepLogger := s.logger.WithFields(port.Fields{"trace_id": traceID})

	ctx = contextkeys.ContextWithTraceID(ctx, traceID)
	ctx = contextkeys.ContextWithLogger(ctx, sweepLogger)

	sweepLogger.Debug("Expiration sweep started", nil)

	count, err := s.useCase.Execute(ctx)
	if err != nil {
		sweepLogger.Error("Expiration sweep failed", err, nil)
		return
	}

	if count > 0 {
		sweepLogger.Info("Expiration sweep complete", port.Fields{"annonces_expirees": count})
	} else {
		sweepLogger.Debug("Expiration sweep complete, nothing to expire", nil)
	}
}
