package kb

import (
	"os"
	"path/filepath"
	"testing"

	"customhost-support/internal/models"

	"github.com/stretchr/testify/require"
)

func testEntries(ids ...string) []models.KnowledgeEntry {
	entries := make([]models.KnowledgeEntry, len(ids))
	for i, id := range ids {
		entries[i] = models.KnowledgeEntry{ID: id, Title: "t-" + id, Content: "c-" + id}
	}
	return entries
}

func testIndex(model string, ids ...string) *models.EmbeddingIndex {
	idx := &models.EmbeddingIndex{Model: model}
	for _, id := range ids {
		idx.Vectors = append(idx.Vectors, models.EmbeddingRecord{ID: id, Embedding: []float32{1, 0}})
	}
	return idx
}

func TestIsValid_Matching(t *testing.T) {
	idx := testIndex("nomic-embed-text", "a", "b", "c")
	require.True(t, IsValid(idx, testEntries("a", "b", "c"), "nomic-embed-text"))
}

func TestIsValid_ModelMismatch(t *testing.T) {
	idx := testIndex("other-model", "a", "b")
	require.False(t, IsValid(idx, testEntries("a", "b"), "nomic-embed-text"))
}

func TestIsValid_EntryAdded(t *testing.T) {
	idx := testIndex("nomic-embed-text", "a", "b")
	require.False(t, IsValid(idx, testEntries("a", "b", "c"), "nomic-embed-text"))
}

func TestIsValid_EntryRemoved(t *testing.T) {
	idx := testIndex("nomic-embed-text", "a", "b", "c")
	require.False(t, IsValid(idx, testEntries("a", "b"), "nomic-embed-text"))
}

func TestIsValid_SameSizeDifferentIDs(t *testing.T) {
	idx := testIndex("nomic-embed-text", "a", "x")
	require.False(t, IsValid(idx, testEntries("a", "b"), "nomic-embed-text"))
}

func TestIsValid_Empty(t *testing.T) {
	idx := &models.EmbeddingIndex{Model: "nomic-embed-text"}
	require.True(t, IsValid(idx, nil, "nomic-embed-text"))
}

func TestReadIndexFile_Missing(t *testing.T) {
	idx, err := ReadIndexFile(filepath.Join(t.TempDir(), "missing.json"), "nomic-embed-text")
	require.NoError(t, err)
	require.Equal(t, "nomic-embed-text", idx.Model)
	require.Empty(t, idx.Vectors)
}

func TestReadIndexFile_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.index.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	_, err := ReadIndexFile(path, "nomic-embed-text")
	require.Error(t, err)
}

func TestWriteIndexFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.index.json")
	idx := testIndex("nomic-embed-text", "a", "b")
	idx.Vectors[0].Title = "DNS basics"
	idx.Vectors[0].Tags = []string{"dns"}

	require.NoError(t, WriteIndexFile(path, idx))

	loaded, err := ReadIndexFile(path, "nomic-embed-text")
	require.NoError(t, err)
	require.Equal(t, idx, loaded)

	// No temp files should survive the rename.
	dirEntries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, dirEntries, 1)
}

func TestWriteIndexFile_OverwritesWholesale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.index.json")
	require.NoError(t, WriteIndexFile(path, testIndex("nomic-embed-text", "a", "b", "c")))
	require.NoError(t, WriteIndexFile(path, testIndex("nomic-embed-text", "a")))

	loaded, err := ReadIndexFile(path, "nomic-embed-text")
	require.NoError(t, err)
	require.Len(t, loaded.Vectors, 1)
}
