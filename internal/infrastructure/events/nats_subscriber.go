// Package events bridges entity-mutation events from the CRUD layer onto
// the cache invalidation coordinator.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go"

	"resmatch/internal/bootstrap/config"
	"resmatch/internal/bootstrap/logging"
	"resmatch/internal/errs"
)

// Invalidator is the slice of the coordinator the subscriber needs.
type Invalidator interface {
	OnStudentChanged(ctx context.Context, studentID string) error
	OnProjectChanged(ctx context.Context, projectID string) error
}

// entityEvent is the published payload shape. A bare entity id as the
// message body is accepted too.
type entityEvent struct {
	ID string `json:"id"`
}

// Subscriber consumes studentProfileUpdated / projectUpdated subjects and
// drives cache invalidation.
type Subscriber struct {
	cfg         config.EventsConfig
	invalidator Invalidator

	conn *nats.Conn
	subs []*nats.Subscription
}

func NewSubscriber(cfg config.EventsConfig, invalidator Invalidator) *Subscriber {
	return &Subscriber{cfg: cfg, invalidator: invalidator}
}

// Start connects and subscribes. With no NATS URL configured the
// subscriber stays idle; invalidation then only happens through the HTTP
// internal endpoints.
func (s *Subscriber) Start(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if s.invalidator == nil {
		return errors.New("invalidator is required")
	}
	if strings.TrimSpace(s.cfg.NATSURL) == "" {
		logging.Info(ctx, "nats url not configured, event subscriber disabled")
		return nil
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "events.subscriber"))

	conn, err := nats.Connect(s.cfg.NATSURL, nats.Name("resmatch-invalidation"))
	if err != nil {
		return errs.Wrap(err, "connect nats")
	}
	s.conn = conn

	studentSub, err := conn.Subscribe(s.cfg.StudentSubject, func(msg *nats.Msg) {
		s.handle(logCtx, msg, s.invalidator.OnStudentChanged)
	})
	if err != nil {
		conn.Close()
		return errs.Wrap(err, "subscribe student subject")
	}
	s.subs = append(s.subs, studentSub)

	projectSub, err := conn.Subscribe(s.cfg.ProjectSubject, func(msg *nats.Msg) {
		s.handle(logCtx, msg, s.invalidator.OnProjectChanged)
	})
	if err != nil {
		conn.Close()
		return errs.Wrap(err, "subscribe project subject")
	}
	s.subs = append(s.subs, projectSub)

	logging.Info(logCtx, "event subscriber started",
		slog.String("student_subject", s.cfg.StudentSubject),
		slog.String("project_subject", s.cfg.ProjectSubject),
	)
	return nil
}

func (s *Subscriber) handle(ctx context.Context, msg *nats.Msg, onChanged func(context.Context, string) error) {
	entityID, err := ParseEntityID(msg.Data)
	if err != nil {
		logging.Warn(ctx, "dropping undecodable entity event",
			slog.String("subject", msg.Subject), slog.Any("err", errs.Loggable(err)))
		return
	}

	if err := onChanged(ctx, entityID); err != nil {
		logging.Error(ctx, "invalidation for entity event failed",
			slog.String("subject", msg.Subject),
			slog.String("entity_id", entityID),
			slog.Any("err", errs.Loggable(err)),
		)
	}
}

// ParseEntityID accepts either a JSON {"id": "..."} payload or a bare id.
func ParseEntityID(data []byte) (string, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return "", errors.New("empty event payload")
	}

	if strings.HasPrefix(trimmed, "{") {
		var event entityEvent
		if err := json.Unmarshal([]byte(trimmed), &event); err != nil {
			return "", errs.Wrap(err, "decode entity event")
		}
		if strings.TrimSpace(event.ID) == "" {
			return "", errors.New("entity event missing id")
		}
		return strings.TrimSpace(event.ID), nil
	}

	return trimmed, nil
}

// Stop drains the subscriptions and closes the connection.
func (s *Subscriber) Stop(ctx context.Context) error {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	s.subs = nil

	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
		logging.Info(ctx, "event subscriber stopped")
	}
	return nil
}
