package handlers

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/saasfinder/backend/internal/pipeline"
	"github.com/saasfinder/backend/internal/reddit"
	"github.com/saasfinder/backend/pkg/logger"
)

// PipelineHandler triggers collection and processing runs. Runs execute in
// the background because a full cycle can outlive any sane request timeout;
// only one run may be in flight at a time.
type PipelineHandler struct {
	collector *reddit.Collector
	processor *pipeline.Processor
	running   atomic.Bool
}

func NewPipelineHandler(collector *reddit.Collector, processor *pipeline.Processor) *PipelineHandler {
	return &PipelineHandler{
		collector: collector,
		processor: processor,
	}
}

func (h *PipelineHandler) Run(c *fiber.Ctx) error {
	collect := c.QueryBool("collect", false)

	if !h.running.CompareAndSwap(false, true) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "A pipeline run is already in progress",
		})
	}

	go func() {
		defer h.running.Store(false)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		if collect && h.collector != nil {
			if _, err := h.collector.Collect(ctx); err != nil {
				logger.Error("Collection failed", zap.Error(err))
				return
			}
		}

		report, err := h.processor.Run(ctx)
		if err != nil {
			logger.Error("Pipeline run failed", zap.Error(err))
			return
		}
		logger.Info("Pipeline run finished",
			zap.Int("pain_points", report.PainPoints),
			zap.Int("opportunities", report.Opportunities),
		)
	}()

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status":  "started",
		"collect": collect,
	})
}

func (h *PipelineHandler) Status(c *fiber.Ctx) error {
	status := "idle"
	if h.running.Load() {
		status = "running"
	}
	return c.JSON(fiber.Map{
		"status": status,
	})
}
