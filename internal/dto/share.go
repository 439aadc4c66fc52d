package dto

import "github.com/noah-isme/register-share-api/internal/models"

// PublishResponse carries the freshly issued share code.
type PublishResponse struct {
	Code string `json:"code"`
}

// SendMessageRequest posts one chat message against a code.
type SendMessageRequest struct {
	Code    string             `json:"code" binding:"required"`
	Message models.ChatMessage `json:"message" binding:"required"`
}

// DeleteMessageRequest removes one message by id.
type DeleteMessageRequest struct {
	Code      string `json:"code" binding:"required"`
	MessageID string `json:"messageId" binding:"required"`
	SenderID  string `json:"senderId" binding:"required"`
}

// ToggleLockRequest flips the chat lock flag. IsLocked is a pointer so an
// explicit false is distinguishable from a missing field.
type ToggleLockRequest struct {
	Code     string `json:"code" binding:"required"`
	IsLocked *bool  `json:"isLocked" binding:"required"`
	SenderID string `json:"senderId" binding:"required"`
}

// ActionResponse acknowledges a mutation.
type ActionResponse struct {
	Success bool `json:"success"`
}
