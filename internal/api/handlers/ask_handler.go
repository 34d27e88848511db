package handlers

import (
	"strings"

	"customhost-support/internal/dto"
	"customhost-support/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AskHandler struct {
	answers *service.AnswerService
	logger  *zap.Logger
}

func NewAskHandler(answers *service.AnswerService, logger *zap.Logger) *AskHandler {
	return &AskHandler{
		answers: answers,
		logger:  logger,
	}
}

// Ask answers a one-off question. No history is consulted or updated.
func (h *AskHandler) Ask(c *fiber.Ctx) error {
	var req dto.AskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if strings.TrimSpace(req.Question) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Question is required",
		})
	}

	answer := h.answers.Answer(c.UserContext(), service.AnswerRequest{
		Prompt:   req.Question,
		AuthorID: req.AuthorID,
		Origin:   "ask",
	})

	return c.JSON(dto.AskResponse{Answer: answer})
}
