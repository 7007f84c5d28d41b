package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/saasfinder/backend/internal/nlp/keywords"
	"github.com/saasfinder/backend/pkg/logger"
)

// KeywordHandler manages the pain detection pattern lexicon. Changes are
// persisted immediately and take effect on the next extraction.
type KeywordHandler struct {
	manager *keywords.Manager
}

func NewKeywordHandler(manager *keywords.Manager) *KeywordHandler {
	return &KeywordHandler{manager: manager}
}

func (h *KeywordHandler) List(c *fiber.Ctx) error {
	patterns := h.manager.List()
	return c.JSON(fiber.Map{
		"keywords": patterns,
		"count":    len(patterns),
	})
}

func (h *KeywordHandler) Add(c *fiber.Ctx) error {
	var req struct {
		Pattern string `json:"pattern"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Pattern == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Pattern is required",
		})
	}

	if err := h.manager.Add(req.Pattern); err != nil {
		logger.Error("Failed to add keyword pattern", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"pattern": req.Pattern,
	})
}

func (h *KeywordHandler) Remove(c *fiber.Ctx) error {
	var req struct {
		Pattern string `json:"pattern"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Pattern == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Pattern is required",
		})
	}

	if err := h.manager.Remove(req.Pattern); err != nil {
		if errors.Is(err, keywords.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Pattern not found",
			})
		}
		logger.Error("Failed to remove keyword pattern", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to remove keyword",
		})
	}

	return c.JSON(fiber.Map{
		"pattern": req.Pattern,
	})
}

func (h *KeywordHandler) Export(c *fiber.Ctx) error {
	var req struct {
		Path string `json:"path"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Path is required",
		})
	}

	if err := h.manager.Export(req.Path); err != nil {
		logger.Error("Failed to export keyword patterns", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export keywords",
		})
	}

	return c.JSON(fiber.Map{
		"path": req.Path,
	})
}
