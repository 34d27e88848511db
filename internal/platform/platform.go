package platform

import "context"

// Channel is a ticket container managed by the chat platform. Ownership is
// encoded in the topic as an "owner:<id>" marker, which is the only piece
// of channel metadata the core reads.
type Channel struct {
	ID    string
	Name  string
	Topic string
}

// Directory is the platform-layer view of ticket channels. The bundled
// in-memory implementation backs the HTTP API; a chat-platform adapter can
// replace it without touching the services.
type Directory interface {
	ListTicketChannels(ctx context.Context) ([]Channel, error)
	CreateTicketChannel(ctx context.Context, name, topic string) (Channel, error)
	DeleteChannel(ctx context.Context, id string) error
}

// Alert is the payload delivered to the administrative notification surface
// when the input classifier trips.
type Alert struct {
	Origin   string `json:"origin"`
	AuthorID string `json:"author_id"`
	Category string `json:"category"`
	Excerpt  string `json:"excerpt"`
	Mention  string `json:"mention,omitempty"`
}

// Notifier delivers alerts to administrators. Implementations are expected
// to fail fast; the caller swallows delivery errors.
type Notifier interface {
	SendAlert(ctx context.Context, alert Alert) error
}
