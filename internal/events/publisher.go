// Package events publishes audit events for each chat turn to NATS.
// The publisher is optional: a nil *Publisher is a no-op, the pipeline
// works without an event bus, just without an audit trail.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	SubjectTurnCompleted = "shop.turn.completed"
	SubjectGuardRejected = "shop.guard.rejected"
)

// TurnCompleted is emitted after a turn terminates, whatever the outcome.
type TurnCompleted struct {
	TurnID        string `json:"turn_id"`
	SessionID     string `json:"session_id"`
	UserID        int64  `json:"user_id"`
	Status        string `json:"status"` // ok | guard_rejected | executor_failed | oracle_failed
	StatementsRun int    `json:"statements_run"`
	Timestamp     string `json:"timestamp"`
}

// GuardRejected is emitted when a guard turns an artifact away.
type GuardRejected struct {
	TurnID    string `json:"turn_id"`
	SessionID string `json:"session_id"`
	UserID    int64  `json:"user_id"`
	Guard     string `json:"guard"` // sql | markup
	Reason    string `json:"reason"`
	Timestamp string `json:"timestamp"`
}

type Publisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func NewPublisher(url, token string, logger *slog.Logger) (*Publisher, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Publisher{conn: nc, logger: logger}, nil
}

// Publish sends one event. A nil publisher drops it silently; publish
// errors are logged, never surfaced — auditing must not fail a turn.
func (p *Publisher) Publish(subject string, data any) {
	if p == nil {
		return
	}
	payload, err := json.Marshal(data)
	if err != nil {
		p.logger.Warn("failed to marshal event", "subject", subject, "error", err)
		return
	}
	if err := p.conn.Publish(subject, payload); err != nil {
		p.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.conn.Close()
}

// Now returns the timestamp format used on every event.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
