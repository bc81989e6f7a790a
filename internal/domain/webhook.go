package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"example.com/wearsync/internal/observability"
)

// Webhook event types delivered by the provider.
const (
	EventDailyDataProfileCreated      = "daily.data.profile.created"
	EventHistoricalDataProfileCreated = "historical.data.profile.created"
	EventProviderConnectionCreated    = "provider.connection.created"
)

// WebhookEvent is the provider's delivery envelope. UserID is the
// provider-assigned identifier and matches the value stored on user and
// device rows at provisioning time; ClientUserID echoes the local user id
// the identity was created with.
type WebhookEvent struct {
	EventType    string         `json:"event_type"`
	UserID       string         `json:"user_id"`
	ClientUserID string         `json:"client_user_id"`
	TeamID       string         `json:"team_id"`
	Data         map[string]any `json:"data"`
}

// EventPublisher mirrors applied webhook events to a broker for downstream
// consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event WebhookEvent) error
}

// ProcessWebhook applies one provider event to local state. Data events append
// a health metric row; connection events flip matching devices to active.
// Unrecognised event types are a silent no-op. There is no dedup key, so a
// redelivered data event inserts a second row.
func (s *Service) ProcessWebhook(ctx context.Context, event WebhookEvent) error {
	switch event.EventType {
	case EventDailyDataProfileCreated, EventHistoricalDataProfileCreated:
		now := time.Now().UTC()
		metric := HealthMetric{
			ID:         uuid.NewString(),
			UserID:     event.UserID,
			Payload:    event.Data,
			Source:     MetricSource,
			ReceivedAt: now,
		}
		if err := s.store.InsertMetric(ctx, metric); err != nil {
			observability.RecordWebhookEvent(event.EventType, "error")
			return err
		}
		observability.RecordWebhookEvent(event.EventType, "applied")
		observability.RecordMetricIngested(now)

	case EventProviderConnectionCreated:
		affected, err := s.store.ActivateByProviderUser(ctx, event.UserID, time.Now().UTC())
		if err != nil {
			observability.RecordWebhookEvent(event.EventType, "error")
			return err
		}
		observability.RecordWebhookEvent(event.EventType, "applied")
		if affected == 0 {
			s.log.Warn("connection event matched no device",
				zap.String("provider_user_id", event.UserID))
		}

	default:
		observability.RecordWebhookEvent(event.EventType, "ignored")
		return nil
	}

	s.mirror(ctx, event)
	return nil
}

// mirror publishes the applied event to the broker when a publisher is wired.
// Publish failures are logged, never surfaced to the delivery attempt.
func (s *Service) mirror(ctx context.Context, event WebhookEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Error("failed to mirror webhook event",
			zap.String("event_type", event.EventType),
			zap.Error(err))
	}
}
