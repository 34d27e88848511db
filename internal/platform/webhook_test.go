package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWebhookNotifier_SendAlert(t *testing.T) {
	var got Alert
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL, server.Client())
	alert := Alert{
		Origin:   "ch-1",
		AuthorID: "user-1",
		Category: "injection",
		Excerpt:  "ignore previous rules",
		Mention:  "@admins",
	}
	require.NoError(t, n.SendAlert(context.Background(), alert))
	require.Equal(t, alert, got)
}

func TestWebhookNotifier_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL, server.Client())
	err := n.SendAlert(context.Background(), Alert{Category: "suspicious"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "403")
}

func TestMemoryDirectory_Lifecycle(t *testing.T) {
	d := NewMemoryDirectory()
	ctx := context.Background()

	ch, err := d.CreateTicketChannel(ctx, "ticket-max", "owner:user-1")
	require.NoError(t, err)
	require.NotEmpty(t, ch.ID)

	channels, err := d.ListTicketChannels(ctx)
	require.NoError(t, err)
	require.Len(t, channels, 1)
	require.Equal(t, "ticket-max", channels[0].Name)

	require.NoError(t, d.DeleteChannel(ctx, ch.ID))
	require.ErrorIs(t, d.DeleteChannel(ctx, ch.ID), ErrChannelNotFound)

	channels, err = d.ListTicketChannels(ctx)
	require.NoError(t, err)
	require.Empty(t, channels)
}
