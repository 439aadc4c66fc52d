package chat

import (
	"sync"

	"github.com/noah-isme/register-share-api/internal/models"
)

// Merger reconciles the server's confirmed message list with messages sent
// locally that the server may not have echoed back yet. A sent message is
// tracked until its id shows up in a poll, so a poll racing ahead of the send
// confirmation still renders the message exactly once.
type Merger struct {
	mu      sync.Mutex
	pending map[string]models.ChatMessage
	order   []string
}

// NewMerger constructs an empty merger.
func NewMerger() *Merger {
	return &Merger{pending: map[string]models.ChatMessage{}}
}

// Track registers a locally sent message awaiting server confirmation.
func (m *Merger) Track(msg models.ChatMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pending[msg.ID]; !ok {
		m.order = append(m.order, msg.ID)
	}
	m.pending[msg.ID] = msg
}

// Untrack drops a pending message, used when a send fails outright.
func (m *Merger) Untrack(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pending[id]; !ok {
		return
	}
	delete(m.pending, id)
	m.order = removeID(m.order, id)
}

// Merge folds a polled server list into the local view. Pending messages the
// server now carries are confirmed and dropped from tracking; the rest are
// appended after the server list in the order they were sent.
func (m *Merger) Merge(server []models.ChatMessage) []models.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	merged := make([]models.ChatMessage, 0, len(server)+len(m.pending))
	for _, msg := range server {
		merged = append(merged, msg)
		if _, ok := m.pending[msg.ID]; ok {
			delete(m.pending, msg.ID)
			m.order = removeID(m.order, msg.ID)
		}
	}

	for _, id := range m.order {
		merged = append(merged, m.pending[id])
	}
	return merged
}

// PendingCount reports how many sent messages still await confirmation.
func (m *Merger) PendingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

func removeID(ids []string, id string) []string {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
