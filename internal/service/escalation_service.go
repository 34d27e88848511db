package service

import (
	"context"
	"time"

	"customhost-support/internal/platform"

	"go.uber.org/zap"
)

// maxAlertExcerptChars bounds the offending-content excerpt in alerts.
const maxAlertExcerptChars = 800

// EscalationService raises administrative alerts when the security check
// trips. Delivery is fire-and-forget: failures are logged and never reach
// the user-facing flow.
type EscalationService struct {
	notifier platform.Notifier
	mention  string
	logger   *zap.Logger
}

func NewEscalationService(notifier platform.Notifier, mention string, logger *zap.Logger) *EscalationService {
	return &EscalationService{
		notifier: notifier,
		mention:  mention,
		logger:   logger,
	}
}

// Escalate delivers a security alert for the offending message. A nil
// notifier (no surface configured) only logs.
func (s *EscalationService) Escalate(ctx context.Context, origin, authorID, content, category string) {
	excerpt := content
	if len(excerpt) > maxAlertExcerptChars {
		excerpt = excerpt[:maxAlertExcerptChars]
	}

	s.logger.Warn("Security escalation",
		zap.String("origin", origin),
		zap.String("author_id", authorID),
		zap.String("category", category),
	)

	if s.notifier == nil {
		return
	}

	// Detach from the request deadline so a slow webhook cannot be cut off
	// by the already-answered user request.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	alert := platform.Alert{
		Origin:   origin,
		AuthorID: authorID,
		Category: category,
		Excerpt:  excerpt,
		Mention:  s.mention,
	}
	if err := s.notifier.SendAlert(sendCtx, alert); err != nil {
		s.logger.Error("Failed to deliver security alert",
			zap.String("origin", origin),
			zap.String("author_id", authorID),
			zap.Error(err),
		)
	}
}
