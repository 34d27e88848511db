package kb

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"customhost-support/internal/models"
)

// ReadIndexFile loads a persisted embedding index. A missing file yields
// an empty index for the given model so startup can fall through to a
// full rebuild.
func ReadIndexFile(path, model string) (*models.EmbeddingIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &models.EmbeddingIndex{Model: model}, nil
		}
		return nil, fmt.Errorf("failed to read index file: %w", err)
	}

	var idx models.EmbeddingIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("failed to parse index file: %w", err)
	}
	return &idx, nil
}

// WriteIndexFile persists the index wholesale. The write goes through a
// temp file and rename so a crash mid-write never leaves a partial index.
func WriteIndexFile(path string, idx *models.EmbeddingIndex) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".kb.index.*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp index file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close index file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace index file: %w", err)
	}
	return nil
}

// IsValid reports whether the index can serve the given knowledge base:
// same embedding model and exactly the same id set.
func IsValid(idx *models.EmbeddingIndex, entries []models.KnowledgeEntry, model string) bool {
	if idx == nil || idx.Model != model {
		return false
	}
	if len(idx.Vectors) != len(entries) {
		return false
	}

	indexIDs := make(map[string]struct{}, len(idx.Vectors))
	for _, v := range idx.Vectors {
		indexIDs[v.ID] = struct{}{}
	}
	if len(indexIDs) != len(entries) {
		return false
	}
	for _, e := range entries {
		if _, ok := indexIDs[e.ID]; !ok {
			return false
		}
	}
	return true
}
