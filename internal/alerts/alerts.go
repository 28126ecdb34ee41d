package alerts

import (
	"context"
	"fmt"

	"ticketdesk/internal/models"
	"ticketdesk/internal/webhook"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

// Notifier delivers derived alert items to the Discord webhooks
// configured in alert_settings. Informational items (including the
// all-clear fallback) are presentation-only and never posted.
type Notifier struct {
	db      *sqlx.DB
	webhook *webhook.Client
	logger  zerolog.Logger
}

// NewNotifier creates an alert notifier
func NewNotifier(db *sqlx.DB, client *webhook.Client, logger zerolog.Logger) *Notifier {
	return &Notifier{db: db, webhook: client, logger: logger}
}

// Deliver posts every warning/critical item to the webhooks of its own
// alert settings row. An item whose row is disabled or missing is not
// posted anywhere. Failures are logged and do not stop delivery of the
// remaining items.
func (n *Notifier) Deliver(ctx context.Context, items []models.AlertItem) {
	settings, err := n.settings(ctx)
	if err != nil {
		n.logger.Warn().Err(err).Msg("Failed to load alert settings, skipping delivery")
		return
	}

	urlsByKey := map[string][]string{}
	for _, s := range settings {
		if s.Enabled && s.WebhookURL != "" {
			urlsByKey[s.Key] = append(urlsByKey[s.Key], s.WebhookURL)
		}
	}
	if len(urlsByKey) == 0 {
		return
	}

	for _, item := range items {
		if item.Severity == models.AlertSeverityInfo {
			continue
		}
		msg := embedFor(item)
		for _, url := range urlsByKey[item.Key] {
			if err := n.webhook.Post(ctx, url, msg); err != nil {
				n.logger.Warn().Err(err).Str("title", item.Title).Msg("Alert webhook delivery failed")
			}
		}
	}
}

func (n *Notifier) settings(ctx context.Context) ([]models.AlertSetting, error) {
	rows := []models.AlertSetting{}
	query := `SELECT id, key, enabled, threshold, webhook_url, updated_at FROM alert_settings`
	if err := n.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to load alert settings: %w", err)
	}
	return rows, nil
}

func embedFor(item models.AlertItem) webhook.Message {
	color := webhook.ColorOrange
	if item.Severity == models.AlertSeverityCritical {
		color = webhook.ColorRed
	}
	return webhook.Message{
		Embeds: []webhook.Embed{{
			Title:       item.Title,
			Description: item.Detail,
			Color:       color,
			Footer:      &webhook.EmbedFooter{Text: "ticketdesk alerts"},
		}},
	}
}
