package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"customhost-support/internal/kb"
	"customhost-support/internal/models"

	"go.uber.org/zap"
)

// SearchService ranks knowledge entries against a free-text query by
// cosine similarity over the current index snapshot.
type SearchService struct {
	index    *IndexService
	embedder Embedder
	topK     int
	logger   *zap.Logger
}

func NewSearchService(index *IndexService, embedder Embedder, topK int, logger *zap.Logger) *SearchService {
	if topK <= 0 {
		topK = 3
	}
	return &SearchService{
		index:    index,
		embedder: embedder,
		topK:     topK,
		logger:   logger,
	}
}

// Search returns up to topK entries ordered by descending similarity. A nil
// result means no relevant context: the index is empty or nothing survived
// the id mapping. Ties keep the index's original vector order.
func (s *SearchService) Search(ctx context.Context, query string) ([]models.KnowledgeEntry, error) {
	snap := s.index.Current()
	if len(snap.Index.Vectors) == 0 {
		return nil, nil
	}

	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	queryVec := vectors[0]

	type scored struct {
		id    string
		score float64
	}
	ranked := make([]scored, len(snap.Index.Vectors))
	for i, v := range snap.Index.Vectors {
		ranked[i] = scored{id: v.ID, score: kb.CosineSimilarity(queryVec, v.Embedding)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	picks := make([]models.KnowledgeEntry, 0, s.topK)
	for _, r := range ranked {
		if len(picks) == s.topK {
			break
		}
		// Drop ids the store no longer knows; defends against a stale index.
		if entry, ok := snap.Store.Get(r.id); ok {
			picks = append(picks, entry)
		}
	}

	s.logger.Debug("Knowledge search completed",
		zap.Int("candidates", len(ranked)),
		zap.Int("results", len(picks)),
	)

	if len(picks) == 0 {
		return nil, nil
	}
	return picks, nil
}

// BuildContext concatenates the selected entries into the context block
// handed to the chat model, in ranked order.
func (s *SearchService) BuildContext(entries []models.KnowledgeEntry) string {
	if len(entries) == 0 {
		return ""
	}

	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("# %s\n%s", e.Title, e.Content)
	}
	return strings.Join(parts, "\n\n")
}
