package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/noah-isme/register-share-api/internal/dto"
	"github.com/noah-isme/register-share-api/internal/models"
	appErrors "github.com/noah-isme/register-share-api/pkg/errors"
)

// SyncClient talks to a share registry server. It unwraps the server's
// response envelope and converts error envelopes back into typed errors, so
// callers can branch on the same codes the server raises.
type SyncClient struct {
	baseURL string
	http    *http.Client
}

// NewSyncClient constructs a client against the given base URL, which should
// include the API prefix (for example http://localhost:8080/api/v1).
func NewSyncClient(baseURL string) *SyncClient {
	return &SyncClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Publish uploads the snapshot and returns the issued share code.
func (c *SyncClient) Publish(ctx context.Context, snap *models.ShareSnapshot) (string, error) {
	var out dto.PublishResponse
	if err := c.post(ctx, "/share", snap, &out); err != nil {
		return "", err
	}
	return out.Code, nil
}

// Fetch resolves a share code to the published snapshot.
func (c *SyncClient) Fetch(ctx context.Context, code string) (*models.ShareSnapshot, error) {
	var snap models.ShareSnapshot
	if err := c.get(ctx, "/view?code="+code, &snap); err != nil {
		return nil, err
	}
	snap.Normalize()
	return &snap, nil
}

// SendMessage posts one chat message against the code.
func (c *SyncClient) SendMessage(ctx context.Context, code string, msg models.ChatMessage) error {
	return c.post(ctx, "/messages", dto.SendMessageRequest{Code: code, Message: msg}, nil)
}

// DeleteMessage removes one message by id on behalf of senderID.
func (c *SyncClient) DeleteMessage(ctx context.Context, code, messageID, senderID string) error {
	return c.post(ctx, "/messages/delete", dto.DeleteMessageRequest{
		Code:      code,
		MessageID: messageID,
		SenderID:  senderID,
	}, nil)
}

// SetChatLock flips the chat lock flag on behalf of senderID.
func (c *SyncClient) SetChatLock(ctx context.Context, code string, locked bool, senderID string) error {
	return c.post(ctx, "/lock", dto.ToggleLockRequest{
		Code:     code,
		IsLocked: &locked,
		SenderID: senderID,
	}, nil)
}

func (c *SyncClient) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *SyncClient) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *SyncClient) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("registry unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var envelope struct {
		Data  json.RawMessage  `json:"data"`
		Error *appErrors.Error `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode >= 400 {
		if envelope.Error != nil {
			return envelope.Error
		}
		return appErrors.New("HTTP_ERROR", resp.StatusCode, fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}
