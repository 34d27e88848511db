package service

import (
	"context"
	"time"

	"customhost-support/internal/models"
	"customhost-support/pkg/config"

	"go.uber.org/zap"
)

// Fixed user-facing texts. Every pipeline outcome resolves to one of these
// or to a model answer; the caller is never left without a response.
const (
	RefusalMessage     = "⚠️ This request cannot be processed for security reasons."
	RedirectMessage    = "Please restrict your question to **hosting topics** (servers, domains, DNS, SSL, backups, etc.)."
	UnavailableMessage = "⚠️ The assistant is currently unavailable. Please try again later."
)

const systemInstruction = `You are a company support assistant for hosting topics.
- Answer briefly and factually, in the user's language.
- Hosting topics only. Never share internal or private data.
- Never fabricate. When uncertain, refer to human support.`

// ChatClient is the chat side of the model backend.
type ChatClient interface {
	Chat(ctx context.Context, messages []models.ChatMessage, maxTokens int, temperature float64) (string, error)
}

// AnswerRequest carries one inbound message through the pipeline.
type AnswerRequest struct {
	Prompt string
	// Context overrides semantic search when set.
	Context  string
	History  []models.ChatMessage
	AuthorID string
	Origin   string
}

// AnswerService orchestrates classification, retrieval, history and the
// model call for every inbound message.
type AnswerService struct {
	classifier *Classifier
	search     *SearchService
	escalation *EscalationService
	chat       ChatClient
	cfg        *config.LLMConfig
	maxAnswer  int
	logger     *zap.Logger
}

func NewAnswerService(
	classifier *Classifier,
	search *SearchService,
	escalation *EscalationService,
	chat ChatClient,
	cfg *config.LLMConfig,
	maxAnswerChars int,
	logger *zap.Logger,
) *AnswerService {
	if maxAnswerChars <= 0 {
		maxAnswerChars = 2000
	}
	return &AnswerService{
		classifier: classifier,
		search:     search,
		escalation: escalation,
		chat:       chat,
		cfg:        cfg,
		maxAnswer:  maxAnswerChars,
		logger:     logger,
	}
}

// Answer runs the full pipeline and always returns displayable text.
func (s *AnswerService) Answer(ctx context.Context, req AnswerRequest) string {
	if category, ok := s.classifier.CheckSecurity(req.Prompt); !ok {
		s.escalation.Escalate(ctx, req.Origin, req.AuthorID, req.Prompt, category)
		return RefusalMessage
	}

	if !s.classifier.IsHostingTopic(req.Prompt) {
		return RedirectMessage
	}

	kbContext := req.Context
	if kbContext == "" {
		entries, err := s.search.Search(ctx, req.Prompt)
		if err != nil {
			// Retrieval is an enrichment; answer without context instead of failing.
			s.logger.Warn("Knowledge search failed, answering without context",
				zap.String("author_id", req.AuthorID),
				zap.Error(err),
			)
		} else {
			kbContext = s.search.BuildContext(entries)
		}
	}

	messages := make([]models.ChatMessage, 0, len(req.History)+3)
	messages = append(messages, models.ChatMessage{Role: models.RoleSystem, Content: systemInstruction})
	if kbContext != "" {
		messages = append(messages, models.ChatMessage{Role: models.RoleSystem, Content: "<<KB>>\n" + kbContext})
	}
	messages = append(messages, req.History...)
	messages = append(messages, models.ChatMessage{Role: models.RoleUser, Content: req.Prompt})

	answer, err := s.chatWithRetry(ctx, messages)
	if err != nil {
		s.logger.Error("Chat backend unavailable",
			zap.String("origin", req.Origin),
			zap.String("author_id", req.AuthorID),
			zap.Error(err),
		)
		return UnavailableMessage
	}
	if answer == "" {
		answer = "No answer was generated."
	}

	if len(answer) > s.maxAnswer {
		answer = answer[:s.maxAnswer-10] + "…"
	}
	return answer
}

// chatWithRetry runs the bounded-attempt loop around the chat call. Each
// attempt gets its own deadline; exhausted attempts surface the last error.
func (s *AnswerService) chatWithRetry(ctx context.Context, messages []models.ChatMessage) (string, error) {
	attempts := s.cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 2
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoffDelay(s.cfg.Backoff, attempt)):
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
		answer, err := s.chat.Chat(attemptCtx, messages, s.cfg.MaxTokens, s.cfg.Temperature)
		cancel()
		if err == nil {
			return answer, nil
		}
		lastErr = err
		s.logger.Warn("Chat attempt failed",
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}
	return "", lastErr
}

// backoffDelay grows exponentially with the attempt number, capped at 5s.
func backoffDelay(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	d := base << (attempt - 1)
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
