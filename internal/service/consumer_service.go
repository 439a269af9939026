package service

import (
	"context"
	"encoding/json"

	"notefiber-assign-be/internal/dto"
	"notefiber-assign-be/internal/pkg/logger"
	"notefiber-assign-be/internal/repository/memory"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drops cached candidate lists once relations or containers
// change, so the next dialog lists fresh containers.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	candidates *memory.CandidateCache
	logger     logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	candidates *memory.CandidateCache,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		candidates: candidates,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload dto.PublishRelationsChangedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal refresh message", map[string]interface{}{"error": err.Error()})
		// Ack invalid messages to prevent infinite redelivery
		msg.Ack()
		return
	}

	cs.candidates.Invalidate(payload.UserId)
	cs.logger.Debug("ConsumerService", "Candidate cache invalidated", map[string]interface{}{
		"user_id": payload.UserId,
		"kind":    payload.Kind,
	})
	msg.Ack()
}
