package platform

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrChannelNotFound is returned when a channel id is unknown.
var ErrChannelNotFound = errors.New("channel not found")

// MemoryDirectory is an in-process Directory. Channels live for the process
// lifetime, which matches the conversation-history scope.
type MemoryDirectory struct {
	mu       sync.RWMutex
	channels map[string]Channel
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		channels: make(map[string]Channel),
	}
}

func (d *MemoryDirectory) ListTicketChannels(_ context.Context) ([]Channel, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	channels := make([]Channel, 0, len(d.channels))
	for _, ch := range d.channels {
		channels = append(channels, ch)
	}
	return channels, nil
}

func (d *MemoryDirectory) CreateTicketChannel(_ context.Context, name, topic string) (Channel, error) {
	ch := Channel{
		ID:    uuid.New().String(),
		Name:  name,
		Topic: topic,
	}

	d.mu.Lock()
	d.channels[ch.ID] = ch
	d.mu.Unlock()

	return ch, nil
}

func (d *MemoryDirectory) DeleteChannel(_ context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.channels[id]; !ok {
		return ErrChannelNotFound
	}
	delete(d.channels, id)
	return nil
}

// Get returns a channel by id.
func (d *MemoryDirectory) Get(id string) (Channel, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ch, ok := d.channels[id]
	return ch, ok
}
