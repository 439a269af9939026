package service

import (
	"context"
	"fmt"

	"notefiber-assign-be/internal/pkg/logger"
	"notefiber-assign-be/pkg/events"
	pktNats "notefiber-assign-be/pkg/nats"

	"github.com/google/uuid"
)

// RelationsDelivery pushes live relation updates to a user's open clients.
// Typically implemented by the WebSocket Hub.
type RelationsDelivery interface {
	Send(userID uuid.UUID, kind string, payload map[string]interface{})
}

// RelationEventsService turns relation events from the bus into an audit
// trail and live pushes.
type RelationEventsService struct {
	subscriber *pktNats.Subscriber
	delivery   RelationsDelivery
	audit      logger.ILogger
	logger     logger.ILogger
}

func NewRelationEventsService(sub *pktNats.Subscriber, delivery RelationsDelivery, audit logger.ILogger, log logger.ILogger) *RelationEventsService {
	return &RelationEventsService{
		subscriber: sub,
		delivery:   delivery,
		audit:      audit,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *RelationEventsService) Start() {
	for _, eventType := range []string{events.TypeRelationsUpdated, events.TypeContainerCreated} {
		subject := "events." + eventType
		durable := "relations-audit-" + eventType
		if err := s.subscriber.Subscribe(subject, durable, s.HandleEvent); err != nil {
			s.logger.Error("RelationEventsService", "Failed to start relation subscriber", map[string]interface{}{
				"subject": subject,
				"error":   err.Error(),
			})
			continue
		}
		s.logger.Info("RelationEventsService", fmt.Sprintf("Listening to %s", subject), nil)
	}
}

// HandleEvent records the event and forwards it to the owner's clients.
func (s *RelationEventsService) HandleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	s.audit.Info("RelationAudit", event.EventType(), map[string]interface{}{
		"occurred_at": event.Timestamp(),
		"payload":     payload,
	})

	uidStr, ok := payload["user_id"].(string)
	if !ok {
		s.logger.Warn("RelationEventsService", fmt.Sprintf("No user_id in payload for event %s", event.EventType()), nil)
		return nil
	}
	userID, err := uuid.Parse(uidStr)
	if err != nil {
		s.logger.Warn("RelationEventsService", "Invalid user_id in event payload", map[string]interface{}{"user_id": uidStr})
		return nil
	}

	if s.delivery != nil {
		s.delivery.Send(userID, event.EventType(), payload)
	}
	return nil
}
