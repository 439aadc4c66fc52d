package chat

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/register-share-api/internal/models"
	appErrors "github.com/noah-isme/register-share-api/pkg/errors"
)

// Registry is the slice of the sync client the chat engine needs.
type Registry interface {
	Fetch(ctx context.Context, code string) (*models.ShareSnapshot, error)
	SendMessage(ctx context.Context, code string, msg models.ChatMessage) error
	DeleteMessage(ctx context.Context, code, messageID, senderID string) error
	SetChatLock(ctx context.Context, code string, locked bool, senderID string) error
}

// Session is one participant's view of a shared class chat. It carries the
// participant's identity explicitly so every registry call is attributed to
// the same sender, and merges polled state through a Merger so optimistic
// local sends never duplicate.
type Session struct {
	registry Registry
	merger   *Merger

	code       string
	senderID   string
	senderName string

	locked atomic.Bool
}

// NewSession opens a chat session on a share code for the given identity.
// The teacher uses models.TeacherSenderID; viewers use their persistent
// session id.
func NewSession(registry Registry, code, senderID, senderName string) *Session {
	return &Session{
		registry:   registry,
		merger:     NewMerger(),
		code:       code,
		senderID:   senderID,
		senderName: senderName,
	}
}

// SenderID returns the identity this session acts as.
func (s *Session) SenderID() string {
	return s.senderID
}

// IsTeacher reports whether this session holds teacher authority.
func (s *Session) IsTeacher() bool {
	return s.senderID == models.TeacherSenderID
}

// CanSend mirrors the lock state seen on the last poll. The teacher can
// always send; the registry stays authoritative either way.
func (s *Session) CanSend() bool {
	return s.IsTeacher() || !s.locked.Load()
}

// Send posts a text message. The message is tracked optimistically before the
// request goes out; a failed send untracks it so it never lingers in the view.
func (s *Session) Send(ctx context.Context, content string) (models.ChatMessage, error) {
	return s.send(ctx, models.ChatMessage{
		ID:         uuid.NewString(),
		SenderID:   s.senderID,
		SenderName: s.senderName,
		Content:    content,
		Timestamp:  time.Now().UnixMilli(),
		Type:       models.MessageTypeText,
	})
}

// SendAttachment posts an image or file message carrying an inline data URL.
func (s *Session) SendAttachment(ctx context.Context, msgType models.MessageType, fileName, fileURL string) (models.ChatMessage, error) {
	return s.send(ctx, models.ChatMessage{
		ID:         uuid.NewString(),
		SenderID:   s.senderID,
		SenderName: s.senderName,
		Timestamp:  time.Now().UnixMilli(),
		Type:       msgType,
		FileURL:    fileURL,
		FileName:   fileName,
	})
}

func (s *Session) send(ctx context.Context, msg models.ChatMessage) (models.ChatMessage, error) {
	if !s.CanSend() {
		return models.ChatMessage{}, appErrors.ErrChatLocked
	}
	s.merger.Track(msg)
	if err := s.registry.SendMessage(ctx, s.code, msg); err != nil {
		s.merger.Untrack(msg.ID)
		return models.ChatMessage{}, err
	}
	return msg, nil
}

// Delete removes a message on behalf of this session's identity.
func (s *Session) Delete(ctx context.Context, messageID string) error {
	return s.registry.DeleteMessage(ctx, s.code, messageID, s.senderID)
}

// SetLock flips the chat lock. The registry rejects non-teacher identities.
func (s *Session) SetLock(ctx context.Context, locked bool) error {
	return s.registry.SetChatLock(ctx, s.code, locked, s.senderID)
}

// Poll fetches the current snapshot and returns the merged message view plus
// the lock flag.
func (s *Session) Poll(ctx context.Context) ([]models.ChatMessage, bool, error) {
	snap, err := s.registry.Fetch(ctx, s.code)
	if err != nil {
		return nil, false, err
	}
	s.locked.Store(snap.IsChatLocked)
	return s.merger.Merge(snap.Messages), snap.IsChatLocked, nil
}
