package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/saasfinder/backend/internal/storage/models"
	"github.com/saasfinder/backend/internal/storage/sqlite"
	"github.com/saasfinder/backend/pkg/logger"
)

type OpportunityHandler struct {
	store *sqlite.Client
}

func NewOpportunityHandler(store *sqlite.Client) *OpportunityHandler {
	return &OpportunityHandler{store: store}
}

// List returns opportunities ordered by total score, best first. Supports
// limit, min_score and category query filters.
func (h *OpportunityHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	minScore := c.QueryFloat("min_score", 0)
	category := c.Query("category")

	opportunities, err := h.store.FetchOpportunities(0)
	if err != nil {
		logger.Error("Failed to fetch opportunities", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch opportunities",
		})
	}

	filtered := make([]models.Opportunity, 0, len(opportunities))
	for _, opp := range opportunities {
		if opp.TotalScore < minScore {
			continue
		}
		if category != "" && opp.Category != category {
			continue
		}
		filtered = append(filtered, opp)
		if limit > 0 && len(filtered) >= limit {
			break
		}
	}

	return c.JSON(fiber.Map{
		"opportunities": filtered,
		"count":         len(filtered),
	})
}

// Stats reports how pain points distribute across categories.
func (h *OpportunityHandler) Stats(c *fiber.Ctx) error {
	distribution, err := h.store.CategoryDistribution()
	if err != nil {
		logger.Error("Failed to compute category distribution", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute statistics",
		})
	}

	total := 0
	for _, n := range distribution {
		total += n
	}

	return c.JSON(fiber.Map{
		"categories":        distribution,
		"total_pain_points": total,
	})
}
