package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"customhost-support/internal/kb"
	"customhost-support/internal/models"
	"customhost-support/pkg/config"

	"go.uber.org/zap"
)

// Embedder produces one vector per input text, order-preserving.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Snapshot pairs a knowledge store with the index built from it. Searches
// read one snapshot so they never see a store and an index from different
// generations.
type Snapshot struct {
	Store *kb.Store
	Index *models.EmbeddingIndex
}

// IndexService owns the embedding index lifecycle: load-or-rebuild at
// startup, explicit full rebuilds, and the atomic snapshot swap that keeps
// concurrent searches on a consistent view.
type IndexService struct {
	kbPath    string
	indexPath string
	model     string
	embedder  Embedder
	logger    *zap.Logger

	rebuildMu sync.Mutex
	current   atomic.Pointer[Snapshot]
}

func NewIndexService(cfg *config.KBConfig, model string, embedder Embedder, logger *zap.Logger) *IndexService {
	s := &IndexService{
		kbPath:    cfg.Path,
		indexPath: cfg.IndexPath,
		model:     model,
		embedder:  embedder,
		logger:    logger,
	}
	s.current.Store(&Snapshot{
		Store: kb.EmptyStore(),
		Index: &models.EmbeddingIndex{Model: model},
	})
	return s
}

// Ensure loads the knowledge base and the persisted index, rebuilding when
// the index is missing, built by another model, or stale against the
// current entry set. It must complete before queries are served.
func (s *IndexService) Ensure(ctx context.Context) error {
	store, err := kb.LoadStore(s.kbPath, s.logger)
	if err != nil {
		return err
	}

	idx, err := kb.ReadIndexFile(s.indexPath, s.model)
	if err != nil {
		s.logger.Warn("Failed to load persisted index, rebuilding", zap.Error(err))
	} else if kb.IsValid(idx, store.Entries(), s.model) {
		s.current.Store(&Snapshot{Store: store, Index: idx})
		s.logger.Info("Embedding index loaded",
			zap.Int("vectors", len(idx.Vectors)),
			zap.String("model", s.model),
		)
		return nil
	}

	return s.Rebuild(ctx)
}

// Rebuild re-reads the knowledge base, re-embeds every entry in one batched
// request, persists the new index and swaps it in. On failure the previous
// snapshot and the on-disk index stay untouched.
func (s *IndexService) Rebuild(ctx context.Context) error {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	store, err := kb.LoadStore(s.kbPath, s.logger)
	if err != nil {
		return err
	}

	entries := store.Entries()
	idx := &models.EmbeddingIndex{Model: s.model}

	if len(entries) > 0 {
		texts := make([]string, len(entries))
		for i, e := range entries {
			texts[i] = e.Content
		}

		s.logger.Info("Rebuilding embedding index", zap.Int("entries", len(entries)))
		vectors, err := s.embedder.Embed(ctx, texts)
		if err != nil {
			return fmt.Errorf("failed to embed knowledge base: %w", err)
		}

		idx.Vectors = make([]models.EmbeddingRecord, len(entries))
		for i, e := range entries {
			idx.Vectors[i] = models.EmbeddingRecord{
				ID:        e.ID,
				Title:     e.Title,
				Tags:      e.Tags,
				Embedding: vectors[i],
			}
		}
	} else {
		s.logger.Info("Knowledge base empty, persisting empty index")
	}

	if err := kb.WriteIndexFile(s.indexPath, idx); err != nil {
		return err
	}

	s.current.Store(&Snapshot{Store: store, Index: idx})
	s.logger.Info("Embedding index rebuilt",
		zap.Int("vectors", len(idx.Vectors)),
		zap.String("model", s.model),
	)
	return nil
}

// Current returns the active snapshot. Never nil.
func (s *IndexService) Current() *Snapshot {
	return s.current.Load()
}

// Info reports KB and index statistics for the admin surface.
func (s *IndexService) Info() (entries, vectors int, model string) {
	snap := s.current.Load()
	return snap.Store.Len(), len(snap.Index.Vectors), snap.Index.Model
}
