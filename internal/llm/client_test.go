package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"customhost-support/internal/models"
	"customhost-support/pkg/config"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(&config.LLMConfig{
		BaseURL:    server.URL,
		APIKey:     "test-key",
		ChatModel:  "gpt-oss:20b",
		EmbedModel: "nomic-embed-text",
	}, zap.NewNop(), WithHTTPClient(server.Client()))
	return client, server
}

func TestEmbed_Batch(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody embeddingsRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"index": 0, "embedding": []float32{1, 0}},
				{"index": 1, "embedding": []float32{0, 1}},
			},
		})
	})

	vectors, err := client.Embed(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	require.Equal(t, [][]float32{{1, 0}, {0, 1}}, vectors)

	require.Equal(t, "/embeddings", gotPath)
	require.Equal(t, "Bearer test-key", gotAuth)
	require.Equal(t, "nomic-embed-text", gotBody.Model)
	require.Equal(t, []string{"first", "second"}, gotBody.Input)
}

func TestEmbed_NoInput(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for empty input")
	})

	vectors, err := client.Embed(context.Background(), nil)
	require.NoError(t, err)
	require.Nil(t, vectors)
}

func TestEmbed_CountMismatch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"index": 0, "embedding": []float32{1, 0}},
			},
		})
	})

	_, err := client.Embed(context.Background(), []string{"first", "second"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "1 vectors for 2 inputs")
}

func TestEmbed_UpstreamError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	})

	_, err := client.Embed(context.Background(), []string{"text"})
	var statusErr *HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	require.Contains(t, statusErr.Body, "model not loaded")
}

func TestChat_FirstChoice(t *testing.T) {
	var gotBody chatRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "  Check your DNS records.  "}},
				{"message": map[string]any{"role": "assistant", "content": "second choice"}},
			},
		})
	})

	messages := []models.ChatMessage{{Role: models.RoleUser, Content: "dns?"}}
	answer, err := client.Chat(context.Background(), messages, 600, 0.2)
	require.NoError(t, err)
	require.Equal(t, "Check your DNS records.", answer, "the first choice wins, trimmed")

	require.Equal(t, "gpt-oss:20b", gotBody.Model)
	require.Equal(t, messages, gotBody.Messages)
	require.Equal(t, 600, gotBody.MaxTokens)
	require.Equal(t, 0.2, gotBody.Temperature)
}

func TestChat_NoChoices(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	_, err := client.Chat(context.Background(), []models.ChatMessage{{Role: models.RoleUser, Content: "x"}}, 600, 0.2)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no choices")
}

func TestChat_CanceledContext(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Chat(ctx, []models.ChatMessage{{Role: models.RoleUser, Content: "x"}}, 600, 0.2)
	require.True(t, errors.Is(err, context.Canceled))
}
