package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/register-share-api/internal/models"
	"github.com/noah-isme/register-share-api/internal/repository"
	appErrors "github.com/noah-isme/register-share-api/pkg/errors"
)

func newTestShareService(cfg ShareServiceConfig) (*ShareService, *repository.MemoryShareStore) {
	store := repository.NewMemoryShareStore()
	return NewShareService(store, nil, nil, cfg), store
}

func testSnapshot() *models.ShareSnapshot {
	return &models.ShareSnapshot{
		SchoolClass: models.SchoolClass{
			ID:   "c1",
			Name: "Grade 5-A",
			Students: []models.Student{
				{ID: "1", Name: "Aarav Patel", RollNo: "01"},
			},
			Attendance: map[string]models.ClassAttendance{
				"March": {"1": {3: models.AttendancePresent}},
			},
			Holidays:  map[string][]int{"March": {14}},
			CreatedAt: 1700000000000,
		},
	}
}

func testMessage(id, sender string) models.ChatMessage {
	return models.ChatMessage{
		ID:         id,
		SenderID:   sender,
		SenderName: "Someone",
		Content:    "hello",
		Timestamp:  time.Now().UnixMilli(),
		Type:       models.MessageTypeText,
	}
}

func TestPublishIssuesCodeFromSafeAlphabet(t *testing.T) {
	svc, _ := newTestShareService(ShareServiceConfig{})

	code, err := svc.Publish(context.Background(), testSnapshot())
	require.NoError(t, err)
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.Contains(t, CodeAlphabet, string(r))
	}
	assert.NotContains(t, code, "0")
	assert.NotContains(t, code, "O")
	assert.NotContains(t, code, "1")
	assert.NotContains(t, code, "I")
}

func TestPublishRejectsInvalidClassData(t *testing.T) {
	svc, _ := newTestShareService(ShareServiceConfig{})

	_, err := svc.Publish(context.Background(), &models.ShareSnapshot{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPublishFetchRoundTrip(t *testing.T) {
	svc, _ := newTestShareService(ShareServiceConfig{})
	published := testSnapshot()

	code, err := svc.Publish(context.Background(), published)
	require.NoError(t, err)

	fetched, err := svc.Fetch(context.Background(), strings.ToLower(code))
	require.NoError(t, err)
	assert.Equal(t, published.Students, fetched.Students)
	assert.Equal(t, published.Attendance, fetched.Attendance)
	assert.Equal(t, published.Holidays, fetched.Holidays)
	assert.Equal(t, code, fetched.ShareCode)
	assert.NotZero(t, fetched.SharedAt)
}

func TestFetchUnknownCodeIsNotFound(t *testing.T) {
	svc, _ := newTestShareService(ShareServiceConfig{})

	_, err := svc.Fetch(context.Background(), "ZZZZZZ")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestRepublishLeavesGhostEntryByDefault(t *testing.T) {
	svc, _ := newTestShareService(ShareServiceConfig{})
	snap := testSnapshot()

	first, err := svc.Publish(context.Background(), snap)
	require.NoError(t, err)

	snap.Name = "Grade 5-A (renamed)"
	second, err := svc.Publish(context.Background(), snap)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	// The stale code still resolves to the snapshot frozen when it was
	// superseded.
	ghost, err := svc.Fetch(context.Background(), first)
	require.NoError(t, err)
	assert.Equal(t, "Grade 5-A", ghost.Name)

	fresh, err := svc.Fetch(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, "Grade 5-A (renamed)", fresh.Name)
}

func TestRepublishDeletesOldEntryWhenSuperseding(t *testing.T) {
	svc, _ := newTestShareService(ShareServiceConfig{SupersedePrevious: true})
	snap := testSnapshot()

	first, err := svc.Publish(context.Background(), snap)
	require.NoError(t, err)

	_, err = svc.Publish(context.Background(), snap)
	require.NoError(t, err)

	_, err = svc.Fetch(context.Background(), first)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestFetchExpiredEntryIsGoneAndDeleted(t *testing.T) {
	svc, store := newTestShareService(ShareServiceConfig{TTL: time.Hour})
	snap := testSnapshot()

	code, err := svc.Publish(context.Background(), snap)
	require.NoError(t, err)

	// Age the entry past the TTL.
	require.NoError(t, store.Update(context.Background(), code, func(s *models.ShareSnapshot) error {
		s.SharedAt = time.Now().Add(-2 * time.Hour).UnixMilli()
		return nil
	}))

	_, err = svc.Fetch(context.Background(), code)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrGone.Code, appErrors.FromError(err).Code)

	_, err = store.Get(context.Background(), code)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSendMessageAppends(t *testing.T) {
	svc, _ := newTestShareService(ShareServiceConfig{})
	code, err := svc.Publish(context.Background(), testSnapshot())
	require.NoError(t, err)

	require.NoError(t, svc.SendMessage(context.Background(), code, testMessage("m1", "student_abc")))
	require.NoError(t, svc.SendMessage(context.Background(), code, testMessage("m2", models.TeacherSenderID)))

	snap, err := svc.Fetch(context.Background(), code)
	require.NoError(t, err)
	require.Len(t, snap.Messages, 2)
	assert.Equal(t, "m1", snap.Messages[0].ID)
	assert.Equal(t, "m2", snap.Messages[1].ID)
}

func TestSendMessageLockEnforcement(t *testing.T) {
	svc, _ := newTestShareService(ShareServiceConfig{})
	code, err := svc.Publish(context.Background(), testSnapshot())
	require.NoError(t, err)
	require.NoError(t, svc.SetChatLock(context.Background(), code, true, models.TeacherSenderID))

	err = svc.SendMessage(context.Background(), code, testMessage("m1", "student_abc"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrChatLocked.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 403, appErrors.FromError(err).Status)

	// The teacher can post regardless of the lock.
	require.NoError(t, svc.SendMessage(context.Background(), code, testMessage("m2", models.TeacherSenderID)))

	snap, err := svc.Fetch(context.Background(), code)
	require.NoError(t, err)
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, "m2", snap.Messages[0].ID)
}

func TestSendMessageRejectsOversizedAttachment(t *testing.T) {
	svc, _ := newTestShareService(ShareServiceConfig{MaxAttachmentBytes: 16})
	code, err := svc.Publish(context.Background(), testSnapshot())
	require.NoError(t, err)

	msg := testMessage("m1", "student_abc")
	msg.Type = models.MessageTypeImage
	msg.FileURL = strings.Repeat("x", 32)
	msg.FileName = "photo.png"

	err = svc.SendMessage(context.Background(), code, msg)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDeleteMessageAuthorization(t *testing.T) {
	svc, _ := newTestShareService(ShareServiceConfig{})
	code, err := svc.Publish(context.Background(), testSnapshot())
	require.NoError(t, err)
	require.NoError(t, svc.SendMessage(context.Background(), code, testMessage("m1", "student_abc")))

	// A stranger cannot delete someone else's message.
	err = svc.DeleteMessage(context.Background(), code, "m1", "student_other")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	// The original sender can.
	require.NoError(t, svc.DeleteMessage(context.Background(), code, "m1", "student_abc"))

	// And the teacher can delete anything.
	require.NoError(t, svc.SendMessage(context.Background(), code, testMessage("m2", "student_abc")))
	require.NoError(t, svc.DeleteMessage(context.Background(), code, "m2", models.TeacherSenderID))

	snap, err := svc.Fetch(context.Background(), code)
	require.NoError(t, err)
	assert.Empty(t, snap.Messages)
}

func TestDeleteMessageUnknownIDIsNotFound(t *testing.T) {
	svc, _ := newTestShareService(ShareServiceConfig{})
	code, err := svc.Publish(context.Background(), testSnapshot())
	require.NoError(t, err)

	err = svc.DeleteMessage(context.Background(), code, "missing", models.TeacherSenderID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSetChatLockTeacherOnly(t *testing.T) {
	svc, _ := newTestShareService(ShareServiceConfig{})
	code, err := svc.Publish(context.Background(), testSnapshot())
	require.NoError(t, err)

	err = svc.SetChatLock(context.Background(), code, true, "student_abc")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.SetChatLock(context.Background(), code, true, models.TeacherSenderID))
	snap, err := svc.Fetch(context.Background(), code)
	require.NoError(t, err)
	assert.True(t, snap.IsChatLocked)
}

func TestPurgeExpired(t *testing.T) {
	svc, store := newTestShareService(ShareServiceConfig{TTL: time.Hour})
	code, err := svc.Publish(context.Background(), testSnapshot())
	require.NoError(t, err)

	require.NoError(t, store.Update(context.Background(), code, func(s *models.ShareSnapshot) error {
		s.SharedAt = time.Now().Add(-2 * time.Hour).UnixMilli()
		return nil
	}))

	purged, err := svc.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	_, err = store.Get(context.Background(), code)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestPurgeExpiredNoTTLIsNoOp(t *testing.T) {
	svc, _ := newTestShareService(ShareServiceConfig{})
	purged, err := svc.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, purged)
}
