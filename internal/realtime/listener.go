package realtime

import (
	"context"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

const (
	listenMinReconnect = 10 * time.Second
	listenMaxReconnect = time.Minute
	listenPingInterval = 90 * time.Second
)

// Listen attaches a Postgres LISTEN/NOTIFY listener to the hub so that
// ticket writes from any connection (including other processes) reach
// subscribers. Blocks until ctx is cancelled; callers run it in a
// goroutine. The notification payload is the SQL operation name.
func Listen(ctx context.Context, databaseURL, channel string, hub *Hub, logger zerolog.Logger) error {
	listener := pq.NewListener(databaseURL, listenMinReconnect, listenMaxReconnect,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				logger.Warn().Err(err).Msg("Postgres listener event error")
			}
		})
	defer listener.Close()

	if err := listener.Listen(channel); err != nil {
		return err
	}
	logger.Info().Str("channel", channel).Msg("Listening for ticket changes")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n := <-listener.Notify:
			if n == nil {
				// Reconnect marker; state may have changed while away
				hub.Publish(TableTickets, OpUpdate)
				continue
			}
			hub.Publish(TableTickets, n.Extra)
		case <-time.After(listenPingInterval):
			if err := listener.Ping(); err != nil {
				logger.Warn().Err(err).Msg("Postgres listener ping failed")
			}
		}
	}
}
