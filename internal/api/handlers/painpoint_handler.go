package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/saasfinder/backend/internal/storage/models"
	"github.com/saasfinder/backend/internal/storage/sqlite"
	"github.com/saasfinder/backend/pkg/logger"
)

type PainPointHandler struct {
	store *sqlite.Client
}

func NewPainPointHandler(store *sqlite.Client) *PainPointHandler {
	return &PainPointHandler{store: store}
}

func (h *PainPointHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	category := c.Query("category")
	sourceType := c.Query("source_type")

	painPoints, err := h.store.FetchPainPoints()
	if err != nil {
		logger.Error("Failed to fetch pain points", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch pain points",
		})
	}

	filtered := make([]models.PainPoint, 0, len(painPoints))
	for _, pp := range painPoints {
		if category != "" && pp.Category != category {
			continue
		}
		if sourceType != "" && pp.SourceType != sourceType {
			continue
		}
		filtered = append(filtered, pp)
		if limit > 0 && len(filtered) >= limit {
			break
		}
	}

	return c.JSON(fiber.Map{
		"pain_points": filtered,
		"count":       len(filtered),
	})
}
