package models

// MessageType classifies a chat message payload.
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
	MessageTypeFile  MessageType = "file"
)

// Valid reports whether the type is supported.
func (t MessageType) Valid() bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeFile:
		return true
	default:
		return false
	}
}

// ChatMessage is immutable once created; deletion removes it from the
// registry list entirely. Attachments are inlined as data URLs.
type ChatMessage struct {
	ID         string      `json:"id"`
	SenderID   string      `json:"senderId"`
	SenderName string      `json:"senderName"`
	Content    string      `json:"content"`
	Timestamp  int64       `json:"timestamp"`
	Type       MessageType `json:"type"`
	FileURL    string      `json:"fileUrl,omitempty"`
	FileName   string      `json:"fileName,omitempty"`
}

// FromTeacher reports whether the message carries owner authority.
func (m ChatMessage) FromTeacher() bool {
	return m.SenderID == TeacherSenderID
}
