package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/register-share-api/internal/models"
	appErrors "github.com/noah-isme/register-share-api/pkg/errors"
)

func newShareStoreMock(t *testing.T) (*PostgresShareStore, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return NewPostgresShareStore(sqlxDB), mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func snapshotJSON(t *testing.T, snap *models.ShareSnapshot) []byte {
	raw, err := json.Marshal(snap)
	require.NoError(t, err)
	return raw
}

func TestPostgresShareStorePut(t *testing.T) {
	store, mock, cleanup := newShareStoreMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO share_entries").
		WithArgs("AB2CD3", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	snap := &models.ShareSnapshot{SchoolClass: models.SchoolClass{ID: "c1", Name: "Grade 5-A"}}
	require.NoError(t, store.Put(context.Background(), "AB2CD3", snap))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresShareStoreGetNormalizesLegacySnapshots(t *testing.T) {
	store, mock, cleanup := newShareStoreMock(t)
	defer cleanup()

	// A snapshot published before chat existed: no messages, no lock flag.
	legacy := []byte(`{"id":"c1","name":"Grade 5-A","createdAt":1}`)
	rows := sqlmock.NewRows([]string{"snapshot"}).AddRow(legacy)
	mock.ExpectQuery("SELECT snapshot FROM share_entries").
		WithArgs("AB2CD3").
		WillReturnRows(rows)

	snap, err := store.Get(context.Background(), "AB2CD3")
	require.NoError(t, err)
	assert.Equal(t, "Grade 5-A", snap.Name)
	assert.NotNil(t, snap.Messages)
	assert.NotNil(t, snap.Attendance)
	assert.NotNil(t, snap.Holidays)
	assert.Equal(t, models.SnapshotSchemaVersion, snap.SchemaVersion)
}

func TestPostgresShareStoreGetNotFound(t *testing.T) {
	store, mock, cleanup := newShareStoreMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT snapshot FROM share_entries").
		WithArgs("ZZZZZZ").
		WillReturnRows(sqlmock.NewRows([]string{"snapshot"}))

	_, err := store.Get(context.Background(), "ZZZZZZ")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestPostgresShareStoreUpdateHoldsRowLock(t *testing.T) {
	store, mock, cleanup := newShareStoreMock(t)
	defer cleanup()

	stored := snapshotJSON(t, &models.ShareSnapshot{SchoolClass: models.SchoolClass{ID: "c1", Name: "Grade 5-A"}})
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT snapshot FROM share_entries WHERE code = \\$1 FOR UPDATE").
		WithArgs("AB2CD3").
		WillReturnRows(sqlmock.NewRows([]string{"snapshot"}).AddRow(stored))
	mock.ExpectExec("UPDATE share_entries SET snapshot").
		WithArgs("AB2CD3", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.Update(context.Background(), "AB2CD3", func(snap *models.ShareSnapshot) error {
		snap.IsChatLocked = true
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresShareStoreUpdateMutatorErrorAbortsWrite(t *testing.T) {
	store, mock, cleanup := newShareStoreMock(t)
	defer cleanup()

	stored := snapshotJSON(t, &models.ShareSnapshot{SchoolClass: models.SchoolClass{ID: "c1", Name: "Grade 5-A", IsChatLocked: true}})
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT snapshot FROM share_entries WHERE code = \\$1 FOR UPDATE").
		WithArgs("AB2CD3").
		WillReturnRows(sqlmock.NewRows([]string{"snapshot"}).AddRow(stored))
	mock.ExpectRollback()

	err := store.Update(context.Background(), "AB2CD3", func(snap *models.ShareSnapshot) error {
		return appErrors.ErrChatLocked
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrChatLocked.Code, appErrors.FromError(err).Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresShareStorePurgeExpired(t *testing.T) {
	store, mock, cleanup := newShareStoreMock(t)
	defer cleanup()

	mock.ExpectExec("DELETE FROM share_entries WHERE shared_at").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	purged, err := store.PurgeExpired(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 3, purged)
}
