package kb

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"customhost-support/internal/models"

	"go.uber.org/zap"
)

// Store holds the knowledge base loaded from disk. Entries are immutable
// for the lifetime of the store; a reindex loads a fresh store instead.
type Store struct {
	entries []models.KnowledgeEntry
	byID    map[string]models.KnowledgeEntry
}

// LoadStore reads the knowledge base file. A missing file yields an empty
// store, not an error, so the service can start before the KB is curated.
func LoadStore(path string, logger *zap.Logger) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("Knowledge base file missing, starting with empty KB", zap.String("path", path))
			return newStore(nil), nil
		}
		return nil, fmt.Errorf("failed to read knowledge base: %w", err)
	}

	var entries []models.KnowledgeEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge base: %w", err)
	}

	logger.Info("Knowledge base loaded", zap.String("path", path), zap.Int("entries", len(entries)))
	return newStore(entries), nil
}

// EmptyStore returns a store with no entries.
func EmptyStore() *Store {
	return newStore(nil)
}

func newStore(entries []models.KnowledgeEntry) *Store {
	byID := make(map[string]models.KnowledgeEntry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}
	return &Store{entries: entries, byID: byID}
}

// Entries returns all knowledge entries in file order.
func (s *Store) Entries() []models.KnowledgeEntry {
	return s.entries
}

// Get returns the entry with the given id.
func (s *Store) Get(id string) (models.KnowledgeEntry, bool) {
	e, ok := s.byID[id]
	return e, ok
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}
