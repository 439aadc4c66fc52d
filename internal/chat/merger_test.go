package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/register-share-api/internal/models"
)

func msg(id, sender, content string) models.ChatMessage {
	return models.ChatMessage{ID: id, SenderID: sender, Content: content, Type: models.MessageTypeText}
}

func ids(messages []models.ChatMessage) []string {
	out := make([]string, 0, len(messages))
	for _, m := range messages {
		out = append(out, m.ID)
	}
	return out
}

func TestMergerAppendsPendingAfterServerList(t *testing.T) {
	m := NewMerger()
	m.Track(msg("local-1", "student_a", "mine"))

	merged := m.Merge([]models.ChatMessage{
		msg("s1", models.TeacherSenderID, "hello"),
		msg("s2", "student_b", "hi"),
	})

	assert.Equal(t, []string{"s1", "s2", "local-1"}, ids(merged))
	assert.Equal(t, 1, m.PendingCount())
}

func TestMergerConfirmsPendingWhenServerEchoes(t *testing.T) {
	m := NewMerger()
	m.Track(msg("local-1", "student_a", "mine"))

	// Stale poll taken before the send landed: the message still renders once.
	merged := m.Merge([]models.ChatMessage{msg("s1", "student_b", "hi")})
	require.Equal(t, []string{"s1", "local-1"}, ids(merged))

	// Next poll includes it; tracking ends and it renders once, in server order.
	merged = m.Merge([]models.ChatMessage{
		msg("s1", "student_b", "hi"),
		msg("local-1", "student_a", "mine"),
	})
	assert.Equal(t, []string{"s1", "local-1"}, ids(merged))
	assert.Zero(t, m.PendingCount())

	// And it stays confirmed on later polls.
	merged = m.Merge([]models.ChatMessage{
		msg("s1", "student_b", "hi"),
		msg("local-1", "student_a", "mine"),
	})
	assert.Equal(t, []string{"s1", "local-1"}, ids(merged))
}

func TestMergerUntrackRemovesFailedSend(t *testing.T) {
	m := NewMerger()
	m.Track(msg("local-1", "student_a", "mine"))
	m.Untrack("local-1")

	merged := m.Merge(nil)
	assert.Empty(t, merged)
	assert.Zero(t, m.PendingCount())
}

func TestMergerPreservesSendOrderOfPending(t *testing.T) {
	m := NewMerger()
	m.Track(msg("local-1", "student_a", "first"))
	m.Track(msg("local-2", "student_a", "second"))

	merged := m.Merge(nil)
	assert.Equal(t, []string{"local-1", "local-2"}, ids(merged))
}
