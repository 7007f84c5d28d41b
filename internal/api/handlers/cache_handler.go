package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/saasfinder/backend/internal/cache"
	"github.com/saasfinder/backend/pkg/logger"
)

// CacheHandler clears the NLP result cache, forcing the next pipeline run
// to re-classify everything. Useful after swapping the classifier model.
type CacheHandler struct {
	cache cache.Cache
}

func NewCacheHandler(c cache.Cache) *CacheHandler {
	return &CacheHandler{cache: c}
}

func (h *CacheHandler) Clear(c *fiber.Ctx) error {
	if err := h.cache.Clear(c.Context()); err != nil {
		logger.Error("Failed to clear NLP cache", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to clear cache",
		})
	}
	return c.JSON(fiber.Map{
		"status": "cleared",
	})
}
