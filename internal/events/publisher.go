// Package events publishes build lifecycle events to NATS when configured.
// Publishing is best-effort: a broker outage never fails a build.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// BuildEvent is the wire payload for build lifecycle notifications.
type BuildEvent struct {
	Type      string    `json:"type"` // build.started | build.completed | build.failed
	RunID     string    `json:"run_id"`
	Timestamp time.Time `json:"timestamp"`
	Pages     int       `json:"pages,omitempty"`
	Duration  string    `json:"duration,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Publisher sends build events to a NATS subject.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher connects to the configured NATS server.
func NewPublisher(cfg *config.EventsConfig) (*Publisher, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, fmt.Errorf("events config is required")
	}

	conn, err := nats.Connect(cfg.URL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	return &Publisher{conn: conn, subject: cfg.Subject}, nil
}

// Publish sends one event. Failures are logged, not returned.
func (p *Publisher) Publish(event BuildEvent) {
	if p == nil || p.conn == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		slog.Warn("Failed to encode build event", logfields.Error(err))
		return
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		slog.Warn("Failed to publish build event", logfields.Error(err))
	}
}

// Close flushes and closes the connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	_ = p.conn.Flush()
	p.conn.Close()
}
