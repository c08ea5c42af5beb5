package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"glowup/internal/middleware"

	"github.com/nats-io/nats.go"
)

// NATSSubject returns the subject an event type is published on.
func NATSSubject(eventType string) string {
	return defaultSubjectNamespace + "." + eventType
}

// NATSPublisher publishes events as core NATS messages.
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher connects to url. Reconnects are unbounded so a broker
// restart does not require a service restart.
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(
		url,
		nats.Name("glowup-api"),
		nats.Timeout(2*time.Second),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.PingInterval(20*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				middleware.Logger.Warn("NATS disconnected", slog.String("error", err.Error()))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			middleware.Logger.Info("NATS reconnected", slog.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

// Publish sends the event to glowup.<type>.
func (p *NATSPublisher) Publish(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.conn.Publish(NATSSubject(event.Type), payload)
}

// Backend implements Publisher.
func (p *NATSPublisher) Backend() string { return "nats" }

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}
