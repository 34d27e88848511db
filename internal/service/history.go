package service

import (
	"sync"

	"customhost-support/internal/models"
)

// HistoryStore keeps the bounded per-conversation turn log. Entries are
// created lazily on first append and live for the process lifetime; there
// is no persistence across restarts.
type HistoryStore struct {
	mu       sync.Mutex
	turns    map[string][]models.ChatMessage
	maxTurns int
	maxChars int
}

func NewHistoryStore(maxTurns, maxChars int) *HistoryStore {
	if maxTurns <= 0 {
		maxTurns = 20
	}
	if maxChars <= 0 {
		maxChars = 3000
	}
	return &HistoryStore{
		turns:    make(map[string][]models.ChatMessage),
		maxTurns: maxTurns,
		maxChars: maxChars,
	}
}

// Append records a turn, truncating oversized content and dropping the
// oldest turns once the conversation exceeds the turn limit. Appends are
// serialized so concurrent delivery for one conversation cannot interleave.
func (h *HistoryStore) Append(conversationID, role, content string) {
	if len(content) > h.maxChars {
		content = content[:h.maxChars]
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	turns := append(h.turns[conversationID], models.ChatMessage{Role: role, Content: content})
	if len(turns) > h.maxTurns {
		turns = turns[len(turns)-h.maxTurns:]
	}
	h.turns[conversationID] = turns
}

// Get returns a copy of the conversation's turns in arrival order.
func (h *HistoryStore) Get(conversationID string) []models.ChatMessage {
	h.mu.Lock()
	defer h.mu.Unlock()

	turns := h.turns[conversationID]
	out := make([]models.ChatMessage, len(turns))
	copy(out, turns)
	return out
}
