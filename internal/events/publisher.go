package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// NATS subjects published by chatlens.
const (
	SubjectAnalysisCompleted = "chatlens.analysis.completed"
	SubjectServiceStarted    = "chatlens.service.started"
)

// AnalysisCompleted is emitted after a transcript has been analyzed,
// letting downstream consumers react without polling the history table.
type AnalysisCompleted struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	Participants []string  `json:"participants"`
	MessageCount int       `json:"message_count"`
	Language     string    `json:"language,omitempty"`
	Sentiment    string    `json:"sentiment"`
	Topics       []string  `json:"topics"`
	CompletedAt  time.Time `json:"completed_at"`
}

type Publisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func Connect(url, token string, logger *slog.Logger) (*Publisher, error) {
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

func (p *Publisher) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return p.conn.Publish(subject, payload)
}

func (p *Publisher) Close() {
	p.conn.Close()
}
