package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const threeEntryKB = `[
  {"id": "dns-01", "title": "DNS propagation", "content": "DNS changes take time.", "tags": ["dns"]},
  {"id": "ssl-01", "title": "SSL renewal", "content": "Certificates renew automatically.", "tags": ["ssl"]},
  {"id": "bak-01", "title": "Backups", "content": "Backups run nightly.", "tags": ["backup"]}
]`

// searchFixture builds an index service over a three-entry KB where the
// query vector is closest to dns-01, then ssl-01, then bak-01.
func searchFixture(t *testing.T, topK int) (*SearchService, *fakeEmbedder, *IndexService) {
	t.Helper()
	cfg := writeKBFile(t, t.TempDir(), threeEntryKB)
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"DNS changes take time.":            {1, 0},
		"Certificates renew automatically.": {0.7, 0.7},
		"Backups run nightly.":              {0, 1},
		"dns question":                      {1, 0.1},
	}}
	index := NewIndexService(cfg, "nomic-embed-text", embedder, zap.NewNop())
	require.NoError(t, index.Rebuild(context.Background()))

	return NewSearchService(index, embedder, topK, zap.NewNop()), embedder, index
}

func TestSearch_RanksBySimilarity(t *testing.T) {
	search, _, _ := searchFixture(t, 2)

	entries, err := search.Search(context.Background(), "dns question")
	require.NoError(t, err)
	require.Len(t, entries, 2, "never more than topK results")
	require.Equal(t, "dns-01", entries[0].ID)
	require.Equal(t, "ssl-01", entries[1].ID)
}

func TestSearch_EmptyIndex(t *testing.T) {
	cfg := writeKBFile(t, t.TempDir(), "")
	embedder := &fakeEmbedder{}
	index := NewIndexService(cfg, "nomic-embed-text", embedder, zap.NewNop())
	require.NoError(t, index.Ensure(context.Background()))

	search := NewSearchService(index, embedder, 3, zap.NewNop())
	entries, err := search.Search(context.Background(), "dns question")
	require.NoError(t, err)
	require.Nil(t, entries)
	require.Equal(t, 0, embedder.calls, "an empty index must not embed the query")
}

func TestSearch_EmbedFailure(t *testing.T) {
	search, embedder, _ := searchFixture(t, 3)
	embedder.err = errors.New("backend unreachable")

	_, err := search.Search(context.Background(), "dns question")
	require.Error(t, err)
}

func TestSearch_DropsStaleIDs(t *testing.T) {
	search, _, index := searchFixture(t, 3)

	// Remove an entry from the store behind the index's back to simulate a
	// stale index; the search must not return the orphaned id.
	snap := index.Current()
	snap.Index.Vectors[0].ID = "gone-01"

	entries, err := search.Search(context.Background(), "dns question")
	require.NoError(t, err)
	for _, e := range entries {
		require.NotEqual(t, "gone-01", e.ID)
	}
	require.Len(t, entries, 2)
}

func TestBuildContext(t *testing.T) {
	search, _, _ := searchFixture(t, 3)

	entries, err := search.Search(context.Background(), "dns question")
	require.NoError(t, err)

	ctx := search.BuildContext(entries)
	require.Contains(t, ctx, "# DNS propagation\nDNS changes take time.")
	require.Contains(t, ctx, "\n\n# SSL renewal\n")
	require.Less(t,
		strings.Index(ctx, "DNS propagation"), strings.Index(ctx, "SSL renewal"),
		"context must keep ranked order",
	)
}

func TestBuildContext_Empty(t *testing.T) {
	search, _, _ := searchFixture(t, 3)
	require.Empty(t, search.BuildContext(nil))
}
