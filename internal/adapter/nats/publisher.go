// Package natspub publishes domain notifications as CloudEvents on a NATS
// JetStream stream.
package natspub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"soulboard/internal/config/configs"
	"soulboard/internal/core/domain"
	"soulboard/internal/core/port"
)

const (
	eventSource = "soulboard/core"
	typePrefix  = "io.soulboard."
)

// CloudEvent is the CloudEvents 1.0 JSON envelope.
type CloudEvent struct {
	SpecVersion     string     `json:"specversion"`
	ID              string     `json:"id"`
	Source          string     `json:"source"`
	Type            string     `json:"type"`
	DataContentType string     `json:"datacontenttype"`
	Subject         string     `json:"subject,omitempty"`
	Time            *time.Time `json:"time,omitempty"`
	Data            any        `json:"data,omitempty"`
}

// streamPublisher is the part of jetstream.JetStream the publisher needs.
type streamPublisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// EventPublisher implements port.EventPublisher on JetStream.
type EventPublisher struct {
	js     streamPublisher
	prefix string
	logger *slog.Logger
	newID  func() string
}

var _ port.EventPublisher = (*EventPublisher)(nil)

// NewEventPublisher returns a publisher sending every event to
// "<prefix>.<event name>".
func NewEventPublisher(js streamPublisher, prefix string, logger *slog.Logger) *EventPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventPublisher{
		js:     js,
		prefix: strings.TrimSuffix(prefix, "."),
		logger: logger,
		newID:  uuid.NewString,
	}
}

// Envelope wraps e in a CloudEvent.
func (p *EventPublisher) Envelope(e domain.Event) CloudEvent {
	at := e.OccurredAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	return CloudEvent{
		SpecVersion:     "1.0",
		ID:              p.newID(),
		Source:          eventSource,
		Type:            typePrefix + e.Name,
		DataContentType: "application/json",
		Subject:         p.subject(e.Name),
		Time:            &at,
		Data:            e.Data,
	}
}

func (p *EventPublisher) subject(name string) string {
	return p.prefix + "." + name
}

// Publish marshals the envelope and waits for the JetStream ack.
func (p *EventPublisher) Publish(ctx context.Context, e domain.Event) error {
	if e.Name == "" {
		return errors.New("event without name")
	}
	event := p.Envelope(e)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", e.Name, err)
	}

	ack, err := p.js.Publish(ctx, event.Subject, payload, jetstream.WithMsgID(event.ID))
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", e.Name, err)
	}

	p.logger.Debug("event published",
		slog.String("id", event.ID),
		slog.String("subject", event.Subject),
		slog.Uint64("seq", ack.Sequence))
	return nil
}

// Connect dials NATS, ensures the stream covering "<prefix>.>" exists and
// returns a publisher on it. The caller owns the returned connection.
func Connect(ctx context.Context, cfg configs.NATS, logger *slog.Logger) (*EventPublisher, *nats.Conn, error) {
	nc, err := nats.Connect(cfg.URL,
		nats.Name(cfg.Name),
		nats.Timeout(cfg.ConnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", slog.Any("error", err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", slog.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	if err = ensureStream(ctx, js, cfg.Stream, SubjectFilter(cfg.SubjectPrefix)); err != nil {
		nc.Close()
		return nil, nil, err
	}

	return NewEventPublisher(js, cfg.SubjectPrefix, logger), nc, nil
}

// SubjectFilter returns the wildcard subject covering every event under prefix.
func SubjectFilter(prefix string) string {
	return strings.TrimSuffix(prefix, ".") + ".>"
}

func ensureStream(ctx context.Context, js jetstream.JetStream, name, subject string) error {
	stream, err := js.Stream(ctx, name)
	if errors.Is(err, jetstream.ErrStreamNotFound) {
		_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
			Name:     name,
			Subjects: []string{subject},
		})
		if err != nil {
			return fmt.Errorf("failed to create stream %s: %w", name, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get stream %s: %w", name, err)
	}

	info, err := stream.Info(ctx)
	if err != nil {
		return fmt.Errorf("failed to get stream info: %w", err)
	}
	subjects := ensureSubjectList(info.Config.Subjects, subject)
	if len(subjects) == len(info.Config.Subjects) {
		return nil
	}
	cfg := info.Config
	cfg.Subjects = subjects
	if _, err = js.UpdateStream(ctx, cfg); err != nil {
		return fmt.Errorf("failed to add subject %s to stream %s: %w", subject, name, err)
	}
	return nil
}

// ensureSubjectList appends subject unless an existing entry already covers it.
func ensureSubjectList(subjects []string, subject string) []string {
	for _, s := range subjects {
		if matchesSubject(s, subject) {
			return subjects
		}
	}
	return append(subjects, subject)
}

// matchesSubject reports whether pattern covers subject using NATS token
// wildcards. A pattern ending in ">" covers subject's own ">" filter too.
func matchesSubject(pattern, subject string) bool {
	pt := strings.Split(pattern, ".")
	st := strings.Split(subject, ".")
	for i, tok := range pt {
		if tok == ">" {
			return len(st) > i
		}
		if i >= len(st) {
			return false
		}
		if tok != "*" && tok != st[i] {
			return false
		}
	}
	return len(pt) == len(st)
}
