package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/saasfinder/backend/internal/ml/trends"
	"github.com/saasfinder/backend/pkg/logger"
)

type TrendHandler struct {
	detector *trends.Detector
}

func NewTrendHandler(detector *trends.Detector) *TrendHandler {
	return &TrendHandler{detector: detector}
}

func (h *TrendHandler) List(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)

	result, err := h.detector.AnalyzeOpportunityTrends(days)
	if err != nil {
		logger.Error("Failed to analyze trends", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to analyze trends",
		})
	}

	return c.JSON(fiber.Map{
		"trends": result,
		"days":   days,
	})
}

func (h *TrendHandler) Seasonal(c *fiber.Ctx) error {
	patterns, err := h.detector.SeasonalPatterns()
	if err != nil {
		logger.Error("Failed to compute seasonal patterns", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute seasonal patterns",
		})
	}

	return c.JSON(fiber.Map{
		"months": patterns,
	})
}
