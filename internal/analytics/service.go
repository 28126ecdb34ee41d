package analytics

import (
	"context"
	"fmt"
	"time"

	"ticketdesk/internal/cache"
	"ticketdesk/internal/models"
	"ticketdesk/internal/realtime"
	"ticketdesk/internal/tickets"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

const dashboardCacheKey = "dashboard_summary"

// Service fetches ticket snapshots and computes dashboard aggregates.
// The dashboard aggregate is cached briefly and invalidated when a
// ticket change notification arrives.
type Service struct {
	store  *tickets.Store
	db     *sqlx.DB
	cache  *cache.Cache
	logger zerolog.Logger
	ttl    time.Duration
}

// NewService creates the analytics service
func NewService(store *tickets.Store, db *sqlx.DB, logger zerolog.Logger, ttl time.Duration) *Service {
	return &Service{
		store:  store,
		db:     db,
		cache:  cache.New(),
		logger: logger,
		ttl:    ttl,
	}
}

// GetDashboard returns the full-history dashboard aggregate, serving
// a cached copy when fresh.
func (s *Service) GetDashboard(ctx context.Context) (*models.DashboardSummary, error) {
	if cached, ok := s.cache.Get(dashboardCacheKey); ok {
		if summary, ok := cached.(*models.DashboardSummary); ok {
			return summary, nil
		}
	}
	summary, err := s.compute(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	s.cache.Set(dashboardCacheKey, summary, s.ttl)
	return summary, nil
}

// GetSummary computes the aggregate over a period preset (today,
// yesterday, last_7_days, last_30_days, ...). Not cached.
func (s *Service) GetSummary(ctx context.Context, period string) (*models.DashboardSummary, error) {
	f := tickets.FilterState{DateRange: period}
	from, to := f.DateBounds(time.Now())
	return s.compute(ctx, from, to)
}

func (s *Service) compute(ctx context.Context, from, to *time.Time) (*models.DashboardSummary, error) {
	snapshot, err := s.store.Snapshot(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ticket snapshot: %w", err)
	}
	gameNames, err := s.store.GameNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch game names: %w", err)
	}
	thresholds, err := s.Thresholds(ctx)
	if err != nil {
		// Read failure degrades to defaults
		s.logger.Warn().Err(err).Msg("Failed to load alert thresholds, using defaults")
		thresholds = Thresholds{}
	}

	summary := Summarize(snapshot, gameNames, time.Now())
	summary.Alerts = DeriveAlerts(summary, thresholds)
	return &summary, nil
}

// Thresholds assembles alert thresholds from the alert_settings rows
func (s *Service) Thresholds(ctx context.Context) (Thresholds, error) {
	rows := []models.AlertSetting{}
	query := `SELECT id, key, enabled, threshold, webhook_url, updated_at FROM alert_settings`
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return Thresholds{}, fmt.Errorf("failed to load alert settings: %w", err)
	}

	t := Thresholds{Disabled: map[string]bool{}}
	for _, row := range rows {
		if !row.Enabled {
			// A present-but-disabled row switches its condition off
			t.Disabled[row.Key] = true
			continue
		}
		switch row.Key {
		case models.AlertVolumeSpike:
			t.VolumeChangePct = row.Threshold
		case models.AlertOpenImportant:
			t.OpenImportant = int(row.Threshold)
		case models.AlertResolutionRate:
			t.ResolutionRatePct = row.Threshold
		}
	}
	return t, nil
}

// Watch subscribes to ticket change events and runs one full
// invalidate-and-recompute cycle per notification until ctx ends.
func (s *Service) Watch(ctx context.Context, hub *realtime.Hub) {
	sub := hub.Subscribe(realtime.TableTickets)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-sub.C:
			if !ok {
				return
			}
			s.cache.Delete(dashboardCacheKey)
			if _, err := s.GetDashboard(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("Dashboard recompute after change event failed")
			}
		}
	}
}
