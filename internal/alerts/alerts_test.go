package alerts

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketdesk/internal/models"
	"ticketdesk/internal/webhook"
)

var alertSettingColumns = []string{"id", "key", "enabled", "threshold", "webhook_url", "updated_at"}

func newTestNotifier(t *testing.T) (*Notifier, sqlmock.Sqlmock, *[]webhook.Message) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	var mu sync.Mutex
	received := &[]webhook.Message{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var msg webhook.Message
		require.NoError(t, json.Unmarshal(body, &msg))
		mu.Lock()
		*received = append(*received, msg)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	// The settings rows point each alert key at the test server
	mock.ExpectQuery("SELECT id, key, enabled, threshold, webhook_url, updated_at FROM alert_settings").
		WillReturnRows(sqlmock.NewRows(alertSettingColumns).
			AddRow(int64(1), models.AlertVolumeSpike, true, 50.0, srv.URL, time.Now()).
			AddRow(int64(2), models.AlertAngryToday, true, 0.0, srv.URL, time.Now()))

	db := sqlx.NewDb(mockDB, "postgres")
	client := webhook.NewClient("", zerolog.Nop())
	return NewNotifier(db, client, zerolog.Nop()), mock, received
}

func TestNotifier_DeliverSkipsInfo(t *testing.T) {
	notifier, _, received := newTestNotifier(t)

	notifier.Deliver(context.Background(), []models.AlertItem{
		{Severity: models.AlertSeverityInfo, Title: "All clear"},
		{Key: models.AlertVolumeSpike, Severity: models.AlertSeverityWarning, Title: "Ticket volume spike", Detail: "up 120%"},
		{Key: models.AlertAngryToday, Severity: models.AlertSeverityCritical, Title: "Angry customers today", Detail: "3 angry"},
	})

	require.Len(t, *received, 2)
	titles := []string{(*received)[0].Embeds[0].Title, (*received)[1].Embeds[0].Title}
	assert.Contains(t, titles, "Ticket volume spike")
	assert.Contains(t, titles, "Angry customers today")
	assert.NotContains(t, titles, "All clear")
}

func TestNotifier_NoEnabledWebhooksIsANoop(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectQuery("SELECT id, key, enabled, threshold, webhook_url, updated_at FROM alert_settings").
		WillReturnRows(sqlmock.NewRows(alertSettingColumns).
			AddRow(int64(1), models.AlertVolumeSpike, false, 50.0, "https://hook.example", time.Now()).
			AddRow(int64(2), models.AlertAngryToday, true, 0.0, "", time.Now()))

	db := sqlx.NewDb(mockDB, "postgres")
	notifier := NewNotifier(db, webhook.NewClient("", zerolog.Nop()), zerolog.Nop())

	// No panic, no delivery attempt against the dead URLs
	notifier.Deliver(context.Background(), []models.AlertItem{
		{Key: models.AlertAngryToday, Severity: models.AlertSeverityCritical, Title: "Angry customers today"},
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotifier_RoutesByKey(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	var mu sync.Mutex
	var received []webhook.Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var msg webhook.Message
		require.NoError(t, json.Unmarshal(body, &msg))
		mu.Lock()
		received = append(received, msg)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	// The angry row is present but switched off, so its critical item
	// stays on the dashboard only
	mock.ExpectQuery("SELECT id, key, enabled, threshold, webhook_url, updated_at FROM alert_settings").
		WillReturnRows(sqlmock.NewRows(alertSettingColumns).
			AddRow(int64(1), models.AlertVolumeSpike, true, 50.0, srv.URL, time.Now()).
			AddRow(int64(2), models.AlertAngryToday, false, 0.0, srv.URL, time.Now()))

	db := sqlx.NewDb(mockDB, "postgres")
	notifier := NewNotifier(db, webhook.NewClient("", zerolog.Nop()), zerolog.Nop())

	notifier.Deliver(context.Background(), []models.AlertItem{
		{Key: models.AlertVolumeSpike, Severity: models.AlertSeverityWarning, Title: "Ticket volume spike"},
		{Key: models.AlertAngryToday, Severity: models.AlertSeverityCritical, Title: "Angry customers today"},
	})

	require.Len(t, received, 1)
	assert.Equal(t, "Ticket volume spike", received[0].Embeds[0].Title)
}

func TestEmbedFor(t *testing.T) {
	warning := embedFor(models.AlertItem{
		Severity: models.AlertSeverityWarning,
		Title:    "Resolution rate low",
		Detail:   "Only 12% of tickets are closed",
	})
	require.Len(t, warning.Embeds, 1)
	assert.Equal(t, webhook.ColorOrange, warning.Embeds[0].Color)
	assert.Equal(t, "Resolution rate low", warning.Embeds[0].Title)

	critical := embedFor(models.AlertItem{
		Severity: models.AlertSeverityCritical,
		Title:    "Angry customers today",
	})
	assert.Equal(t, webhook.ColorRed, critical.Embeds[0].Color)
}
