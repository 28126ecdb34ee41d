package tickets

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketdesk/internal/models"
)

var ticketColumns = []string{
	"id", "ticket_number", "subject", "message", "status", "importance",
	"sentiment", "lang", "tags", "keywords", "user_id", "user_email",
	"project_id", "game_state", "device_info", "reopened", "created_at",
}

func ticketRows(ids ...int64) *sqlmock.Rows {
	rows := sqlmock.NewRows(ticketColumns)
	for _, id := range ids {
		rows.AddRow(
			id, id+1000, fmt.Sprintf("Subject %d", id), "body", "open", "normal",
			"Neutral", "en", []byte("[]"), []byte("[]"), int64(1), "user@example.com",
			nil, []byte("{}"), []byte("{}"), 0, time.Now(),
		)
	}
	return rows
}

func newTestLoader(t *testing.T) (*Loader, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "postgres")
	store := NewStore(db, nil, zerolog.Nop())
	return NewLoader(store, zerolog.Nop()), mock
}

func TestLoader_AppendDeduplicates(t *testing.T) {
	loader, mock := newTestLoader(t)
	f := FilterState{Status: StatusAll, DateRange: RangeAll}

	mock.ExpectQuery("SELECT t.id, t.ticket_number").
		WillReturnRows(ticketRows(1, 2, 3))

	got, hasMore, err := loader.Load(context.Background(), f, 0, true)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.False(t, hasMore)

	// Next page overlaps the first: id 3 already present, only 4 joins
	mock.ExpectQuery("SELECT t.id, t.ticket_number").
		WillReturnRows(ticketRows(3, 4))

	got, hasMore, err = loader.Load(context.Background(), f, 1, false)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, []int64{1, 2, 3, 4}, ticketIDs(got))
	assert.False(t, hasMore)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoader_FirstOccurrenceWins(t *testing.T) {
	loader, mock := newTestLoader(t)
	f := FilterState{Status: StatusAll, DateRange: RangeAll}

	mock.ExpectQuery("SELECT t.id, t.ticket_number").
		WillReturnRows(ticketRows(1, 2))
	_, _, err := loader.Load(context.Background(), f, 0, true)
	require.NoError(t, err)

	// Duplicate of id 2 arrives with a different subject; the original
	// row must be kept untouched and in its original position.
	rows := sqlmock.NewRows(ticketColumns).AddRow(
		int64(2), int64(1002), "Edited subject", "body", "open", "normal",
		"Neutral", "en", []byte("[]"), []byte("[]"), int64(1), "user@example.com",
		nil, []byte("{}"), []byte("{}"), 0, time.Now(),
	)
	mock.ExpectQuery("SELECT t.id, t.ticket_number").WillReturnRows(rows)

	got, _, err := loader.Load(context.Background(), f, 1, false)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Subject 2", got[1].Subject)
}

func TestLoader_NewFilterResets(t *testing.T) {
	loader, mock := newTestLoader(t)
	f := FilterState{Status: StatusAll, DateRange: RangeAll}

	mock.ExpectQuery("SELECT t.id, t.ticket_number").
		WillReturnRows(ticketRows(1, 2, 3))
	_, _, err := loader.Load(context.Background(), f, 0, true)
	require.NoError(t, err)

	// A filter change discards accumulated rows and forces page 0 even
	// when the caller asks for a later page
	mock.ExpectQuery("SELECT t.id, t.ticket_number").
		WithArgs("closed", PageSize, 0).
		WillReturnRows(ticketRows(9))

	got, _, err := loader.Load(context.Background(),
		FilterState{Status: "closed", DateRange: RangeAll}, 5, true)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(9), got[0].ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoader_HasMoreTracksFullPages(t *testing.T) {
	loader, mock := newTestLoader(t)
	f := FilterState{Status: StatusAll, DateRange: RangeAll}

	full := make([]int64, PageSize)
	for i := range full {
		full[i] = int64(i + 1)
	}
	mock.ExpectQuery("SELECT t.id, t.ticket_number").
		WillReturnRows(ticketRows(full...))

	_, hasMore, err := loader.Load(context.Background(), f, 0, true)
	require.NoError(t, err)
	assert.True(t, hasMore)
	assert.True(t, loader.HasMore())

	mock.ExpectQuery("SELECT t.id, t.ticket_number").
		WillReturnRows(ticketRows(int64(PageSize + 1)))

	_, hasMore, err = loader.Load(context.Background(), f, 1, false)
	require.NoError(t, err)
	assert.False(t, hasMore)
}

func TestLoader_RejectsConcurrentLoad(t *testing.T) {
	loader, mock := newTestLoader(t)
	f := FilterState{Status: StatusAll, DateRange: RangeAll}

	mock.ExpectQuery("SELECT t.id, t.ticket_number").
		WillReturnRows(ticketRows(1))
	_, _, err := loader.Load(context.Background(), f, 0, true)
	require.NoError(t, err)

	loader.mu.Lock()
	loader.loading = true
	loader.mu.Unlock()

	got, _, err := loader.Load(context.Background(), f, 1, false)
	assert.ErrorIs(t, err, ErrLoadInFlight)
	// The gated call still reports the current list
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestLoader_TimeoutKeepsLoadedRows(t *testing.T) {
	loader, mock := newTestLoader(t)
	f := FilterState{Status: StatusAll, DateRange: RangeAll}

	mock.ExpectQuery("SELECT t.id, t.ticket_number").
		WillReturnRows(ticketRows(1, 2))
	_, _, err := loader.Load(context.Background(), f, 0, true)
	require.NoError(t, err)

	// The next page outlives the deadline; the loader degrades silently
	loader.timeout = 10 * time.Millisecond
	mock.ExpectQuery("SELECT t.id, t.ticket_number").
		WillDelayFor(200 * time.Millisecond).
		WillReturnRows(ticketRows(3))

	got, _, err := loader.Load(context.Background(), f, 1, false)
	assert.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ticketIDs(got))

	// The gate cleared, so a healthy follow-up load succeeds
	mock.ExpectQuery("SELECT t.id, t.ticket_number").
		WillReturnRows(ticketRows(3))
	got, _, err = loader.Load(context.Background(), f, 1, false)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ticketIDs(got))
}

func TestLoader_SnapshotIsACopy(t *testing.T) {
	loader, mock := newTestLoader(t)
	f := FilterState{Status: StatusAll, DateRange: RangeAll}

	mock.ExpectQuery("SELECT t.id, t.ticket_number").
		WillReturnRows(ticketRows(1, 2))
	_, _, err := loader.Load(context.Background(), f, 0, true)
	require.NoError(t, err)

	snap := loader.Tickets()
	snap[0].Subject = "mutated"
	assert.Equal(t, "Subject 1", loader.Tickets()[0].Subject)
}

func ticketIDs(tickets []models.Ticket) []int64 {
	ids := make([]int64, len(tickets))
	for i, t := range tickets {
		ids[i] = t.ID
	}
	return ids
}
