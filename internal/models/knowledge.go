package models

// KnowledgeEntry is one curated document of the hosting knowledge base.
// Entries are edited in the KB file and are read-only at runtime.
type KnowledgeEntry struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// EmbeddingRecord pairs a knowledge entry with its embedding vector.
// Title and tags are denormalized so index inspection needs no KB join.
type EmbeddingRecord struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Tags      []string  `json:"tags"`
	Embedding []float32 `json:"embedding"`
}

// EmbeddingIndex holds every KB vector produced by a single embedding model.
// Vectors from different models must never be mixed in one index.
type EmbeddingIndex struct {
	Model   string            `json:"model"`
	Vectors []EmbeddingRecord `json:"vectors"`
}
