package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"customhost-support/internal/models"
	"customhost-support/internal/platform"
	"customhost-support/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrTooManyTickets means the requester is at the open-ticket limit.
	ErrTooManyTickets = errors.New("too many open tickets")
	// ErrTicketNotFound means the channel id is not a known ticket.
	ErrTicketNotFound = errors.New("ticket not found")
)

const (
	noContractText = "ℹ️ No contract data is linked to this account (or the customer database is unreachable)."

	// maxTopicChars bounds the topic fragment stored in channel metadata.
	maxTopicChars = 80
	// maxTranscriptChars bounds the transcript handed to the close summary.
	maxTranscriptChars = 4000
)

// CustomerStore is the external relational store, consumed best-effort.
type CustomerStore interface {
	GetByPlatformID(ctx context.Context, platformID string) (*models.Customer, error)
	GetActiveContract(ctx context.Context, customerID int64) (*models.Contract, error)
	InsertTicket(ctx context.Context, ticket *models.Ticket) error
}

// OpenTicketRequest carries a ticket-creation request.
type OpenTicketRequest struct {
	AuthorID   string
	AuthorName string
	Topic      string
}

// TicketInfo is returned to the requester after a successful creation.
type TicketInfo struct {
	ID              uuid.UUID
	ChannelID       string
	Welcome         string
	ContractSummary string
}

// TicketService gates ticket creation on the per-user open-ticket limit and
// drives the ticket lifecycle around the platform directory.
type TicketService struct {
	directory  platform.Directory
	customers  CustomerStore
	history    *HistoryStore
	answers    *AnswerService
	maxTickets int
	logger     *zap.Logger
}

func NewTicketService(
	directory platform.Directory,
	customers CustomerStore,
	history *HistoryStore,
	answers *AnswerService,
	maxTicketsPerUser int,
	logger *zap.Logger,
) *TicketService {
	if maxTicketsPerUser <= 0 {
		maxTicketsPerUser = 2
	}
	return &TicketService{
		directory:  directory,
		customers:  customers,
		history:    history,
		answers:    answers,
		maxTickets: maxTicketsPerUser,
		logger:     logger,
	}
}

// CountOpenTickets scans ticket channels for the owner marker. The count is
// derived on demand, never cached.
func (s *TicketService) CountOpenTickets(ctx context.Context, ownerID string) (int, error) {
	channels, err := s.directory.ListTicketChannels(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list ticket channels: %w", err)
	}

	marker := ownerMarker(ownerID)
	count := 0
	for _, ch := range channels {
		if strings.Contains(ch.Topic, marker) {
			count++
		}
	}
	return count, nil
}

// CanOpenTicket reports whether the owner is below the open-ticket limit.
func (s *TicketService) CanOpenTicket(ctx context.Context, ownerID string) (bool, error) {
	count, err := s.CountOpenTickets(ctx, ownerID)
	if err != nil {
		return false, err
	}
	return count < s.maxTickets, nil
}

// Open creates a ticket channel after the admission check. Customer and
// contract data enrich the result when available; their absence or a store
// failure never blocks creation.
func (s *TicketService) Open(ctx context.Context, req OpenTicketRequest) (*TicketInfo, error) {
	allowed, err := s.CanOpenTicket(ctx, req.AuthorID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrTooManyTickets
	}

	customer, contract := s.lookupContract(ctx, req.AuthorID)

	topic := strings.TrimSpace(req.Topic)
	if len(topic) > maxTopicChars {
		topic = topic[:maxTopicChars]
	}
	channelTopic := ownerMarker(req.AuthorID)
	if topic != "" {
		channelTopic += " • topic:" + topic
	}

	name := "ticket-" + strings.ToLower(strings.ReplaceAll(req.AuthorName, " ", "-"))
	channel, err := s.directory.CreateTicketChannel(ctx, name, channelTopic)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket channel: %w", err)
	}

	ticket := &models.Ticket{
		ID:         uuid.New(),
		PlatformID: req.AuthorID,
		ChannelID:  channel.ID,
		Title:      topic,
	}
	if customer != nil {
		ticket.CustomerID = &customer.ID
	}
	if contract != nil {
		ticket.ContractID = &contract.ID
	}
	if s.customers != nil {
		if err := s.customers.InsertTicket(ctx, ticket); err != nil {
			s.logger.Warn("Failed to record ticket",
				zap.String("channel_id", channel.ID),
				zap.String("author_id", req.AuthorID),
				zap.Error(err),
			)
		}
	}

	return &TicketInfo{
		ID:              ticket.ID,
		ChannelID:       channel.ID,
		Welcome:         welcomeText(req.AuthorName, topic),
		ContractSummary: contractSummary(contract),
	}, nil
}

// Reply runs the history-backed auto-reply flow for a ticket channel.
func (s *TicketService) Reply(ctx context.Context, channelID, authorID, content string) (string, error) {
	if err := s.requireTicket(ctx, channelID); err != nil {
		return "", err
	}

	s.history.Append(channelID, models.RoleUser, content)
	answer := s.answers.Answer(ctx, AnswerRequest{
		Prompt:   content,
		History:  s.history.Get(channelID),
		AuthorID: authorID,
		Origin:   channelID,
	})
	s.history.Append(channelID, models.RoleAssistant, answer)
	return answer, nil
}

// Close summarizes the ticket conversation and removes the channel.
func (s *TicketService) Close(ctx context.Context, channelID, authorID string) (string, error) {
	if err := s.requireTicket(ctx, channelID); err != nil {
		return "", err
	}

	transcript := buildTranscript(s.history.Get(channelID))
	summary := s.answers.Answer(ctx, AnswerRequest{
		Prompt:   "Summarize this hosting support ticket briefly and name the next steps:\n" + transcript,
		AuthorID: authorID,
		Origin:   channelID,
	})

	if err := s.directory.DeleteChannel(ctx, channelID); err != nil {
		s.logger.Warn("Failed to delete ticket channel",
			zap.String("channel_id", channelID),
			zap.Error(err),
		)
	}

	return "✅ Ticket closed.\n**Summary:**\n" + summary, nil
}

func (s *TicketService) requireTicket(ctx context.Context, channelID string) error {
	channels, err := s.directory.ListTicketChannels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list ticket channels: %w", err)
	}
	for _, ch := range channels {
		if ch.ID == channelID {
			return nil
		}
	}
	return ErrTicketNotFound
}

// lookupContract resolves customer and contract best-effort. Any store
// failure degrades to "no data".
func (s *TicketService) lookupContract(ctx context.Context, platformID string) (*models.Customer, *models.Contract) {
	if s.customers == nil {
		return nil, nil
	}

	customer, err := s.customers.GetByPlatformID(ctx, platformID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("Customer lookup failed",
				zap.String("author_id", platformID),
				zap.Error(err),
			)
		}
		return nil, nil
	}

	contract, err := s.customers.GetActiveContract(ctx, customer.ID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("Contract lookup failed",
				zap.Int64("customer_id", customer.ID),
				zap.Error(err),
			)
		}
		return customer, nil
	}
	return customer, contract
}

func ownerMarker(ownerID string) string {
	return "owner:" + ownerID
}

func welcomeText(authorName, topic string) string {
	var b strings.Builder
	b.WriteString("🎫 **New support ticket**\n")
	b.WriteString("Hello " + authorName + ", your ticket has been created.\n")
	if topic != "" {
		b.WriteString("**Topic:** " + topic + "\n")
	}
	b.WriteString("\nPlease describe your problem as precisely as possible:\n")
	b.WriteString("• system/version\n• steps leading to the error\n• error messages\n\n")
	b.WriteString("Our team will get back to you as soon as possible.")
	return b.String()
}

func contractSummary(c *models.Contract) string {
	if c == nil {
		return noContractText
	}

	end := "—"
	if c.EndDate != nil {
		end = c.EndDate.Format("2006-01-02")
	}
	return fmt.Sprintf("📄 **Contract:** %s (%s), %.2f €/month, SLA %s, start %s, end %s",
		c.Plan, c.Status, c.PriceEUR, c.SLATier, c.StartDate.Format("2006-01-02"), end)
}

func buildTranscript(turns []models.ChatMessage) string {
	lines := make([]string, len(turns))
	for i, t := range turns {
		lines[i] = t.Role + ": " + t.Content
	}
	transcript := strings.Join(lines, "\n")
	if len(transcript) > maxTranscriptChars {
		transcript = transcript[len(transcript)-maxTranscriptChars:]
	}
	return transcript
}
