package handlers

import (
	"errors"
	"strings"

	"customhost-support/internal/dto"
	"customhost-support/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type TicketHandler struct {
	tickets *service.TicketService
	logger  *zap.Logger
}

func NewTicketHandler(tickets *service.TicketService, logger *zap.Logger) *TicketHandler {
	return &TicketHandler{
		tickets: tickets,
		logger:  logger,
	}
}

// Open creates a new ticket channel for the requester.
func (h *TicketHandler) Open(c *fiber.Ctx) error {
	var req dto.OpenTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if strings.TrimSpace(req.AuthorID) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "author_id is required",
		})
	}

	info, err := h.tickets.Open(c.UserContext(), service.OpenTicketRequest{
		AuthorID:   req.AuthorID,
		AuthorName: req.AuthorName,
		Topic:      req.Topic,
	})
	if err != nil {
		if errors.Is(err, service.ErrTooManyTickets) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "❌ You already have too many open tickets. Please close one first.",
			})
		}
		h.logger.Error("Failed to open ticket",
			zap.String("author_id", req.AuthorID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to open ticket",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.TicketResponse{
		ID:              info.ID.String(),
		ChannelID:       info.ChannelID,
		Welcome:         info.Welcome,
		ContractSummary: info.ContractSummary,
	})
}

// Message runs the history-backed auto-reply flow inside a ticket.
func (h *TicketHandler) Message(c *fiber.Ctx) error {
	channelID := c.Params("id")

	var req dto.TicketMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if strings.TrimSpace(req.Content) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Content is required",
		})
	}

	answer, err := h.tickets.Reply(c.UserContext(), channelID, req.AuthorID, req.Content)
	if err != nil {
		if errors.Is(err, service.ErrTicketNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Ticket not found",
			})
		}
		h.logger.Error("Failed to handle ticket message",
			zap.String("channel_id", channelID),
			zap.String("author_id", req.AuthorID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to handle message",
		})
	}

	return c.JSON(dto.AskResponse{Answer: answer})
}

// Close summarizes and removes a ticket channel.
func (h *TicketHandler) Close(c *fiber.Ctx) error {
	channelID := c.Params("id")

	var req dto.CloseTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	summary, err := h.tickets.Close(c.UserContext(), channelID, req.AuthorID)
	if err != nil {
		if errors.Is(err, service.ErrTicketNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Ticket not found",
			})
		}
		h.logger.Error("Failed to close ticket",
			zap.String("channel_id", channelID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to close ticket",
		})
	}

	return c.JSON(dto.CloseTicketResponse{Summary: summary})
}

// OpenCount reports the number of open tickets owned by a user.
func (h *TicketHandler) OpenCount(c *fiber.Ctx) error {
	owner := c.Query("owner")
	if owner == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "owner query parameter is required",
		})
	}

	count, err := h.tickets.CountOpenTickets(c.UserContext(), owner)
	if err != nil {
		h.logger.Error("Failed to count open tickets",
			zap.String("owner", owner),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to count open tickets",
		})
	}

	return c.JSON(dto.OpenTicketCountResponse{Owner: owner, Count: count})
}
