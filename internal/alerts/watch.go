package alerts

import (
	"context"
	"time"

	"ticketdesk/internal/analytics"
	"ticketdesk/internal/debounce"
	"ticketdesk/internal/realtime"
)

// DefaultQuiescence is how long change events must go quiet before
// alert conditions are re-evaluated. Bulk actions fire one evaluation
// instead of one per row.
const DefaultQuiescence = 500 * time.Millisecond

// Watch subscribes to ticket change events, debounces bursts, then
// re-evaluates alert conditions and delivers any that fire. Blocks
// until ctx is cancelled.
func (n *Notifier) Watch(ctx context.Context, hub *realtime.Hub, svc *analytics.Service, quiescence time.Duration) {
	if quiescence <= 0 {
		quiescence = DefaultQuiescence
	}
	sub := hub.Subscribe(realtime.TableTickets)
	defer sub.Close()

	debouncer := debounce.New(quiescence)
	defer debouncer.Stop()

	evaluate := func() {
		evalCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		summary, err := svc.GetDashboard(evalCtx)
		if err != nil {
			n.logger.Warn().Err(err).Msg("Alert evaluation aggregate failed")
			return
		}
		n.Deliver(evalCtx, summary.Alerts)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-sub.C:
			if !ok {
				return
			}
			debouncer.Trigger(evaluate)
		}
	}
}
