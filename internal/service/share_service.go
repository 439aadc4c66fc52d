package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/register-share-api/internal/models"
	"github.com/noah-isme/register-share-api/internal/repository"
	appErrors "github.com/noah-isme/register-share-api/pkg/errors"
)

// CodeAlphabet is the share code character set: uppercase letters and digits
// minus the visually confusable 0/O and 1/I.
const CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// codeAttempts bounds collision retries when issuing a fresh code.
const codeAttempts = 5

// ShareServiceConfig tunes registry behaviour.
type ShareServiceConfig struct {
	CodeLength int
	// TTL of zero keeps entries resolvable for the lifetime of the store.
	TTL time.Duration
	// SupersedePrevious deletes the prior entry when a class is re-shared.
	// Left off, a stale code keeps serving the snapshot frozen at the time
	// it was superseded.
	SupersedePrevious  bool
	MaxAttachmentBytes int64
}

// ShareService implements the share registry protocol: publish, fetch, chat
// append/delete and the teacher chat lock.
type ShareService struct {
	store   repository.ShareStore
	logger  *zap.Logger
	metrics *MetricsService
	cfg     ShareServiceConfig
}

// NewShareService constructs a ShareService.
func NewShareService(store repository.ShareStore, logger *zap.Logger, metrics *MetricsService, cfg ShareServiceConfig) *ShareService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CodeLength <= 0 {
		cfg.CodeLength = 6
	}
	if cfg.MaxAttachmentBytes <= 0 {
		cfg.MaxAttachmentBytes = 500 * 1024
	}
	return &ShareService{store: store, logger: logger, metrics: metrics, cfg: cfg}
}

// Publish stores the full snapshot under a fresh random code and returns the
// code. Every call issues a new code; unless superseding is enabled the
// previously issued entry stays resolvable as a frozen snapshot.
func (s *ShareService) Publish(ctx context.Context, snap *models.ShareSnapshot) (string, error) {
	if snap == nil || snap.ID == "" || snap.Name == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "invalid class data")
	}
	snap.Normalize()

	previous := snap.ShareCode
	if s.cfg.SupersedePrevious && previous != "" {
		if err := s.store.Delete(ctx, previous); err != nil {
			s.logger.Warn("failed to delete superseded share entry",
				zap.String("code", previous), zap.Error(err))
		}
	}

	var code string
	for attempt := 0; ; attempt++ {
		candidate, err := s.generateCode()
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate code")
		}
		if _, err := s.store.Get(ctx, candidate); err == nil {
			if attempt+1 >= codeAttempts {
				return "", appErrors.Clone(appErrors.ErrInternal, "could not allocate a free code")
			}
			continue
		} else if !appErrors.Is(err, appErrors.ErrNotFound) {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "store unavailable")
		}
		code = candidate
		break
	}

	// Embed the code so the stored entry knows which code it is valid for.
	snap.ShareCode = code
	snap.SharedAt = time.Now().UnixMilli()
	snap.SchemaVersion = models.SnapshotSchemaVersion

	if err := s.store.Put(ctx, code, snap); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "store unavailable")
	}

	s.metrics.IncPublish()
	s.logger.Info("class published",
		zap.String("code", code),
		zap.String("class_id", snap.ID),
		zap.Bool("superseded_previous", s.cfg.SupersedePrevious && previous != ""))
	return code, nil
}

// Fetch resolves a code (case-insensitively) to the stored snapshot. When a
// TTL is configured, expired entries are deleted on access and reported Gone.
func (s *ShareService) Fetch(ctx context.Context, code string) (*models.ShareSnapshot, error) {
	normalized, err := s.normalizeCode(code)
	if err != nil {
		return nil, err
	}

	snap, err := s.store.Get(ctx, normalized)
	if err != nil {
		return nil, err
	}

	if s.cfg.TTL > 0 && snap.SharedAt > 0 {
		age := time.Since(time.UnixMilli(snap.SharedAt))
		if age > s.cfg.TTL {
			if err := s.store.Delete(ctx, normalized); err != nil {
				s.logger.Warn("failed to delete expired share entry", zap.String("code", normalized), zap.Error(err))
			}
			return nil, appErrors.ErrGone
		}
	}

	s.metrics.IncFetch()
	return snap, nil
}

// SendMessage appends one chat message to the entry. Rejected when the chat
// is locked and the sender is not the teacher.
func (s *ShareService) SendMessage(ctx context.Context, code string, msg models.ChatMessage) error {
	normalized, err := s.normalizeCode(code)
	if err != nil {
		return err
	}
	if err := s.validateMessage(&msg); err != nil {
		return err
	}

	err = s.store.Update(ctx, normalized, func(snap *models.ShareSnapshot) error {
		if snap.IsChatLocked && !msg.FromTeacher() {
			return appErrors.ErrChatLocked
		}
		snap.Messages = append(snap.Messages, msg)
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.IncMessageSent()
	return nil
}

// DeleteMessage removes one message by id. Only the teacher or the original
// sender may delete it.
func (s *ShareService) DeleteMessage(ctx context.Context, code, messageID, requesterID string) error {
	normalized, err := s.normalizeCode(code)
	if err != nil {
		return err
	}

	err = s.store.Update(ctx, normalized, func(snap *models.ShareSnapshot) error {
		for i, msg := range snap.Messages {
			if msg.ID != messageID {
				continue
			}
			if requesterID != models.TeacherSenderID && requesterID != msg.SenderID {
				return appErrors.Clone(appErrors.ErrForbidden, "not allowed to delete this message")
			}
			snap.Messages = append(snap.Messages[:i], snap.Messages[i+1:]...)
			return nil
		}
		return appErrors.Clone(appErrors.ErrNotFound, "message not found")
	})
	if err != nil {
		return err
	}

	s.metrics.IncMessageDeleted()
	return nil
}

// SetChatLock flips the stored lock flag. Teacher only.
func (s *ShareService) SetChatLock(ctx context.Context, code string, locked bool, requesterID string) error {
	normalized, err := s.normalizeCode(code)
	if err != nil {
		return err
	}
	if requesterID != models.TeacherSenderID {
		return appErrors.Clone(appErrors.ErrForbidden, "only the teacher can lock or unlock chat")
	}

	err = s.store.Update(ctx, normalized, func(snap *models.ShareSnapshot) error {
		snap.IsChatLocked = locked
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.IncLockToggle()
	return nil
}

// PurgeExpired removes entries older than the configured TTL. A zero TTL
// makes this a no-op.
func (s *ShareService) PurgeExpired(ctx context.Context) (int, error) {
	if s.cfg.TTL <= 0 {
		return 0, nil
	}
	purged, err := s.store.PurgeExpired(ctx, time.Now().Add(-s.cfg.TTL))
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		s.metrics.AddPurged(purged)
		s.logger.Info("purged expired share entries", zap.Int("count", purged))
	}
	return purged, nil
}

func (s *ShareService) normalizeCode(code string) (string, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(code))
	if len(trimmed) != s.cfg.CodeLength {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("code must be %d characters", s.cfg.CodeLength))
	}
	return trimmed, nil
}

func (s *ShareService) validateMessage(msg *models.ChatMessage) error {
	if msg.ID == "" || msg.SenderID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "message id and senderId are required")
	}
	if msg.Type == "" {
		msg.Type = models.MessageTypeText
	}
	if !msg.Type.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "unsupported message type")
	}
	if msg.Content == "" && msg.FileURL == "" {
		return appErrors.Clone(appErrors.ErrValidation, "message content is empty")
	}
	if int64(len(msg.FileURL)) > s.cfg.MaxAttachmentBytes {
		return appErrors.Clone(appErrors.ErrValidation, "attachment too large")
	}
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixMilli()
	}
	return nil
}

func (s *ShareService) generateCode() (string, error) {
	buf := make([]byte, s.cfg.CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	code := make([]byte, s.cfg.CodeLength)
	for i, b := range buf {
		code[i] = CodeAlphabet[int(b)%len(CodeAlphabet)]
	}
	return string(code), nil
}
