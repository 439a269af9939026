package service

import (
	"context"
	"testing"
	"time"

	"notefiber-assign-be/internal/dto"
	"notefiber-assign-be/internal/pkg/logger"
	"notefiber-assign-be/internal/repository/memory"
	"notefiber-assign-be/pkg/store"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumerService_InvalidatesCandidates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	cache := memory.NewCandidateCache(time.Minute)
	userID := uuid.New()
	cache.Set(userID, store.KindTag, []store.Candidate{{Title: "urgent"}})

	consumer := NewConsumerService(pubSub, "relations-test", cache, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	// malformed payloads are acked and skipped
	require.NoError(t, pubSub.Publish("relations-test", message.NewMessage(watermill.NewUUID(), []byte("{"))))

	publisher := NewPublisherService("relations-test", pubSub)
	require.NoError(t, publisher.Publish(ctx, dto.PublishRelationsChangedMessage{UserId: userID, Kind: store.KindTag}))

	assert.Eventually(t, func() bool {
		_, ok := cache.Get(userID, store.KindTag)
		return !ok
	}, time.Second, 10*time.Millisecond)
}
