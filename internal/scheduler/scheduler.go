// Package scheduler runs collection and processing on a cron schedule.
package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/saasfinder/backend/internal/pipeline"
	"github.com/saasfinder/backend/internal/reddit"
	"github.com/saasfinder/backend/pkg/logger"
)

// Service fires a collect-then-process cycle on the configured schedule.
// Overlapping runs are skipped rather than queued.
type Service struct {
	collector *reddit.Collector
	processor *pipeline.Processor
	spec      string
	cron      *cron.Cron
	running   atomic.Bool
}

func NewService(collector *reddit.Collector, processor *pipeline.Processor, spec string) *Service {
	return &Service{
		collector: collector,
		processor: processor,
		spec:      spec,
		cron:      cron.New(),
	}
}

func (s *Service) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if !s.running.CompareAndSwap(false, true) {
			logger.Warn("Previous pipeline run still in progress, skipping")
			return
		}
		defer s.running.Store(false)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		s.runCycle(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logger.Info("Scheduler started", zap.String("schedule", s.spec))
	return nil
}

// Stop halts scheduling and waits for a running job to finish.
func (s *Service) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Scheduler stopped")
}

func (s *Service) runCycle(ctx context.Context) {
	logger.Info("Starting scheduled pipeline run")

	if s.collector != nil {
		if _, err := s.collector.Collect(ctx); err != nil {
			logger.Error("Scheduled collection failed", zap.Error(err))
			return
		}
	}

	report, err := s.processor.Run(ctx)
	if err != nil {
		logger.Error("Scheduled pipeline run failed", zap.Error(err))
		return
	}

	logger.Info("Scheduled pipeline run finished",
		zap.Int("pain_points", report.PainPoints),
		zap.Int("opportunities", report.Opportunities),
	)
}
