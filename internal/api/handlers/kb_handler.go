package handlers

import (
	"customhost-support/internal/dto"
	"customhost-support/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type KBHandler struct {
	index  *service.IndexService
	logger *zap.Logger
}

func NewKBHandler(index *service.IndexService, logger *zap.Logger) *KBHandler {
	return &KBHandler{
		index:  index,
		logger: logger,
	}
}

// Reindex triggers a full rebuild of the embedding index. A failed rebuild
// keeps the previous index in effect and is reported to the caller.
func (h *KBHandler) Reindex(c *fiber.Ctx) error {
	if err := h.index.Rebuild(c.UserContext()); err != nil {
		h.logger.Error("Reindex failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Reindex failed, previous index remains in effect",
		})
	}

	entries, _, _ := h.index.Info()
	return c.JSON(dto.ReindexResponse{Entries: entries})
}

// Info reports KB and index statistics.
func (h *KBHandler) Info(c *fiber.Ctx) error {
	entries, vectors, model := h.index.Info()
	return c.JSON(dto.KBInfoResponse{
		Entries: entries,
		Vectors: vectors,
		Model:   model,
	})
}
