package history

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lnd-advisor/internal/common/logger"
)

func testEntry() Entry {
	return Entry{
		ID:         uuid.NewString(),
		IntentType: "channel_health",
		Query:      "how healthy are my channels",
		ResultType: "channel_health",
		DurationMs: 42,
		CreatedAt:  time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
	}
}

func TestStore_Record(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db, logger.NewTestLogger(t))
	e := testEntry()

	mock.ExpectExec("INSERT INTO query_history").
		WithArgs(e.ID, e.IntentType, e.Query, e.ResultType, e.DurationMs, e.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = store.Record(context.Background(), e)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Record_SurfacesErrorWithoutPanicking(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db, logger.NewTestLogger(t))
	e := testEntry()

	mock.ExpectExec("INSERT INTO query_history").
		WillReturnError(assert.AnError)

	err = store.Record(context.Background(), e)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Recent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db, logger.NewTestLogger(t))
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "intent_type", "query", "result_type", "duration_ms", "created_at"}).
		AddRow("id-2", "channel_list", "list channels", "channel_list", int64(10), now).
		AddRow("id-1", "channel_health", "health", "channel_health", int64(20), now.Add(-time.Minute))

	mock.ExpectQuery("SELECT id, intent_type, query, result_type, duration_ms, created_at").
		WithArgs(2).
		WillReturnRows(rows)

	entries, err := store.Recent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "id-2", entries[0].ID)
	assert.Equal(t, "channel_health", entries[1].IntentType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_EnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db, logger.NewTestLogger(t))

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS query_history").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, store.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
