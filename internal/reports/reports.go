package reports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ticketdesk/internal/analytics"
	"ticketdesk/internal/models"
	"ticketdesk/internal/webhook"

	"github.com/jmoiron/sqlx"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler posts periodic Discord summary reports based on the
// report_settings rows. Reload rebuilds the cron entries, so handlers
// call it after a settings write.
type Scheduler struct {
	db        *sqlx.DB
	analytics *analytics.Service
	webhook   *webhook.Client
	logger    zerolog.Logger
	loc       *time.Location
	cron      *cron.Cron
}

// NewScheduler creates a report scheduler in the given timezone
func NewScheduler(db *sqlx.DB, svc *analytics.Service, client *webhook.Client, logger zerolog.Logger, loc *time.Location) *Scheduler {
	return &Scheduler{
		db:        db,
		analytics: svc,
		webhook:   client,
		logger:    logger,
		loc:       loc,
	}
}

// Reload reads the report settings and replaces the running schedule
func (s *Scheduler) Reload(ctx context.Context) error {
	settings := []models.ReportSetting{}
	query := `SELECT id, frequency, enabled, hour, webhook_url, updated_at FROM report_settings`
	if err := s.db.SelectContext(ctx, &settings, query); err != nil {
		return fmt.Errorf("failed to load report settings: %w", err)
	}

	if s.cron != nil {
		s.cron.Stop()
	}
	s.cron = cron.New(cron.WithLocation(s.loc))

	for _, setting := range settings {
		if !setting.Enabled || setting.WebhookURL == "" {
			continue
		}
		setting := setting
		spec, period := scheduleFor(setting)
		if spec == "" {
			s.logger.Warn().Str("frequency", setting.Frequency).Msg("Unknown report frequency, skipping")
			continue
		}
		if _, err := s.cron.AddFunc(spec, func() { s.run(setting, period) }); err != nil {
			return fmt.Errorf("failed to schedule %s report: %w", setting.Frequency, err)
		}
		s.logger.Info().Str("frequency", setting.Frequency).Int("hour", setting.Hour).Msg("Report scheduled")
	}

	s.cron.Start()
	return nil
}

// Stop halts the running schedule
func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// scheduleFor maps a setting to a cron spec and the summary period the
// report covers: daily reports cover yesterday, weekly the last 7 days.
func scheduleFor(setting models.ReportSetting) (spec, period string) {
	switch setting.Frequency {
	case models.ReportDaily:
		return fmt.Sprintf("0 %d * * *", setting.Hour), "yesterday"
	case models.ReportWeekly:
		return fmt.Sprintf("0 %d * * 1", setting.Hour), "last_7_days"
	}
	return "", ""
}

func (s *Scheduler) run(setting models.ReportSetting, period string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	summary, err := s.analytics.GetSummary(ctx, period)
	if err != nil {
		s.logger.Error().Err(err).Str("frequency", setting.Frequency).Msg("Report aggregation failed")
		return
	}

	msg := BuildReport(setting.Frequency, period, summary)
	if err := s.webhook.Post(ctx, setting.WebhookURL, msg); err != nil {
		s.logger.Error().Err(err).Str("frequency", setting.Frequency).Msg("Report webhook delivery failed")
		return
	}
	s.logger.Info().Str("frequency", setting.Frequency).Msg("Report delivered")
}

// BuildReport renders a summary as a Discord embed message
func BuildReport(frequency, period string, s *models.DashboardSummary) webhook.Message {
	title := "Daily support report"
	if frequency == models.ReportWeekly {
		title = "Weekly support report"
	}

	fields := []webhook.EmbedField{
		{Name: "Tickets", Value: fmt.Sprintf("%d", s.Total), Inline: true},
		{Name: "Open", Value: fmt.Sprintf("%d", s.Statuses.Open), Inline: true},
		{Name: "Closed", Value: fmt.Sprintf("%d", s.Statuses.Closed), Inline: true},
		{Name: "Pending", Value: fmt.Sprintf("%d", s.Statuses.Pending), Inline: true},
		{Name: "Important", Value: fmt.Sprintf("%d", s.Importances.Important), Inline: true},
		{Name: "Reopened", Value: fmt.Sprintf("%d", s.Reopened), Inline: true},
	}

	if len(s.TopGames) > 0 {
		var lines []string
		for _, g := range s.TopGames {
			lines = append(lines, fmt.Sprintf("%s: %d", g.Name, g.Count))
		}
		fields = append(fields, webhook.EmbedField{Name: "Top games", Value: strings.Join(lines, "\n")})
	}
	if len(s.TopTags) > 0 {
		var lines []string
		for _, t := range s.TopTags {
			lines = append(lines, fmt.Sprintf("%s: %d", t.Name, t.Count))
		}
		fields = append(fields, webhook.EmbedField{Name: "Top tags", Value: strings.Join(lines, "\n")})
	}

	return webhook.Message{
		Embeds: []webhook.Embed{{
			Title:       title,
			Description: fmt.Sprintf("Period: %s", strings.ReplaceAll(period, "_", " ")),
			Color:       webhook.ColorBlue,
			Fields:      fields,
			Footer:      &webhook.EmbedFooter{Text: "ticketdesk reports"},
		}},
	}
}
