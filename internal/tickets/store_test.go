package tickets

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketdesk/internal/models"
	"ticketdesk/internal/realtime"
)

func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock, *realtime.Hub) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	hub := realtime.NewHub()
	db := sqlx.NewDb(mockDB, "postgres")
	return NewStore(db, hub, zerolog.Nop()), mock, hub
}

func TestStore_ListPageWithSearch(t *testing.T) {
	store, mock, _ := newTestStore(t)

	// Search text triggers the email lookup before the list query
	mock.ExpectQuery("SELECT id FROM users WHERE LOWER\\(email\\) LIKE").
		WithArgs("%bob%").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectQuery("SELECT t.id, t.ticket_number").
		WillReturnRows(ticketRows(1))

	f := FilterState{Status: StatusAll, DateRange: RangeAll, Search: "Bob"}
	got, err := store.ListPage(context.Background(), f, time.Now(), 0)

	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetNotFound(t *testing.T) {
	store, mock, _ := newTestStore(t)

	mock.ExpectQuery("SELECT t.id, t.ticket_number").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(ticketColumns))

	_, err := store.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ToggleStatus(t *testing.T) {
	store, mock, _ := newTestStore(t)

	rows := sqlmock.NewRows(ticketColumns).AddRow(
		int64(7), int64(1007), "Subject", "body", models.StatusClosed, "normal",
		"Neutral", "en", []byte("[]"), []byte("[]"), int64(1), "user@example.com",
		nil, []byte("{}"), []byte("{}"), 0, time.Now(),
	)
	mock.ExpectQuery("SELECT t.id, t.ticket_number").WithArgs(int64(7)).WillReturnRows(rows)
	mock.ExpectExec("UPDATE tickets SET status =").
		WithArgs(models.StatusPending, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	next, err := store.ToggleStatus(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, next)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SetStatusInvalid(t *testing.T) {
	store, _, _ := newTestStore(t)

	err := store.SetStatus(context.Background(), 1, "archived")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid status")
}

func TestStore_AddMessageReopensClosedTicket(t *testing.T) {
	store, mock, hub := newTestStore(t)

	sub := hub.Subscribe(realtime.TableTickets)
	defer sub.Close()

	rows := sqlmock.NewRows(ticketColumns).AddRow(
		int64(5), int64(1005), "Subject", "body", models.StatusClosed, "normal",
		"Neutral", "en", []byte("[]"), []byte("[]"), int64(1), "user@example.com",
		nil, []byte("{}"), []byte("{}"), 0, time.Now(),
	)
	mock.ExpectQuery("SELECT t.id, t.ticket_number").WithArgs(int64(5)).WillReturnRows(rows)
	mock.ExpectQuery("INSERT INTO messages").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "ticket_id", "content", "translated", "sender", "created_at"}).
			AddRow(int64(1), int64(5), "still broken", nil, models.SenderUser, time.Now()))
	mock.ExpectExec("UPDATE tickets SET status = (.+), reopened = reopened \\+ 1").
		WithArgs(models.StatusOpen, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	msg, err := store.AddMessage(context.Background(), 5, "still broken", nil, models.SenderUser)

	require.NoError(t, err)
	assert.Equal(t, models.SenderUser, msg.Sender)
	assert.NoError(t, mock.ExpectationsWereMet())

	// The write published a change event
	select {
	case ev := <-sub.C:
		assert.Equal(t, realtime.OpUpdate, ev.Op)
	case <-time.After(time.Second):
		t.Fatal("expected a change event")
	}
}

func TestStore_AddMessageAgentDoesNotReopen(t *testing.T) {
	store, mock, _ := newTestStore(t)

	rows := sqlmock.NewRows(ticketColumns).AddRow(
		int64(5), int64(1005), "Subject", "body", models.StatusClosed, "normal",
		"Neutral", "en", []byte("[]"), []byte("[]"), int64(1), "user@example.com",
		nil, []byte("{}"), []byte("{}"), 0, time.Now(),
	)
	mock.ExpectQuery("SELECT t.id, t.ticket_number").WithArgs(int64(5)).WillReturnRows(rows)
	mock.ExpectQuery("INSERT INTO messages").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "ticket_id", "content", "translated", "sender", "created_at"}).
			AddRow(int64(1), int64(5), "resolved", nil, models.SenderAgent, time.Now()))

	_, err := store.AddMessage(context.Background(), 5, "resolved", nil, models.SenderAgent)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_BulkSetStatusEmptySelection(t *testing.T) {
	store, _, _ := newTestStore(t)

	// No ids means no query at all
	err := store.BulkSetStatus(context.Background(), nil, models.StatusClosed)
	assert.NoError(t, err)
}
