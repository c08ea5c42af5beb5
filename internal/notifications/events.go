// Package notifications publishes domain events after successful writes.
package notifications

import (
	"context"
	"log/slog"
	"time"

	"glowup/internal/middleware"
	"glowup/internal/observability"
)

// Event types emitted by the services.
const (
	EventUserCreated       = "user.created"
	EventUserUpdated       = "user.updated"
	EventPostCreated       = "post.created"
	EventPostDetailCreated = "post.detail_created"
	EventFollowCreated     = "follow.created"
	EventFollowDeleted     = "follow.deleted"
	EventLikeCreated       = "like.created"
	EventLikeDeleted       = "like.deleted"
	EventCommentCreated    = "comment.created"
	EventCommentUpdated    = "comment.updated"
	EventCommentDeleted    = "comment.deleted"
)

const (
	publishTimeout          = 2 * time.Second
	defaultSubjectNamespace = "glowup"
)

// Event is the JSON envelope delivered to subscribers.
type Event struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

// Publisher delivers events to a broker.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Backend() string
	Close() error
}

// NewEvent stamps an event with the current UTC time.
func NewEvent(eventType string, data interface{}) Event {
	return Event{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

// Emit publishes an event and only logs failures. A nil publisher is a no-op.
func Emit(ctx context.Context, p Publisher, eventType string, data interface{}) {
	if p == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	ctx, span := observability.StartPublishSpan(ctx, p.Backend(), eventType)
	defer span.End()

	if err := p.Publish(ctx, NewEvent(eventType, data)); err != nil {
		observability.RecordError(span, err)
		observability.EventsPublished.WithLabelValues(eventType, "error").Inc()
		middleware.Logger.WarnContext(ctx, "Failed to publish event",
			slog.String("type", eventType),
			slog.String("backend", p.Backend()),
			slog.String("error", err.Error()),
		)
		return
	}
	observability.EventsPublished.WithLabelValues(eventType, "ok").Inc()
}

// NopPublisher drops every event.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Backend implements Publisher.
func (NopPublisher) Backend() string { return "none" }

// Close implements Publisher.
func (NopPublisher) Close() error { return nil }
