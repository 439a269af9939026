package service

import (
	"context"
	"testing"
	"time"

	"notefiber-assign-be/internal/pkg/logger"
	"notefiber-assign-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pushed struct {
	userID  uuid.UUID
	kind    string
	payload map[string]interface{}
}

type fakeDelivery struct {
	pushed []pushed
}

func (f *fakeDelivery) Send(userID uuid.UUID, kind string, payload map[string]interface{}) {
	f.pushed = append(f.pushed, pushed{userID: userID, kind: kind, payload: payload})
}

func TestRelationEventsService_HandleEvent(t *testing.T) {
	delivery := &fakeDelivery{}
	svc := NewRelationEventsService(nil, delivery, logger.NewNopLogger(), logger.NewNopLogger())
	userID := uuid.New()

	err := svc.HandleEvent(context.Background(), events.BaseEvent{
		Type:       events.TypeRelationsUpdated,
		Data:       map[string]interface{}{"user_id": userID.String(), "kind": "tag"},
		OccurredAt: time.Now(),
	})
	require.NoError(t, err)

	require.Len(t, delivery.pushed, 1)
	assert.Equal(t, userID, delivery.pushed[0].userID)
	assert.Equal(t, events.TypeRelationsUpdated, delivery.pushed[0].kind)
	assert.Equal(t, "tag", delivery.pushed[0].payload["kind"])
}

func TestRelationEventsService_SkipsEventsWithoutOwner(t *testing.T) {
	delivery := &fakeDelivery{}
	svc := NewRelationEventsService(nil, delivery, logger.NewNopLogger(), logger.NewNopLogger())

	for _, data := range []map[string]interface{}{
		{},
		{"user_id": "not-a-uuid"},
	} {
		err := svc.HandleEvent(context.Background(), events.BaseEvent{Type: events.TypeContainerCreated, Data: data})
		assert.NoError(t, err)
	}
	assert.Empty(t, delivery.pushed)
}
