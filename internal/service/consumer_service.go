// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"kb-assistant-be/internal/dto"
	"kb-assistant-be/pkg/events"
	pkgnats "kb-assistant-be/pkg/nats"
)

// ChangeNotifier delivers knowledge-base change notices to connected
// clients. Implemented by the websocket hub.
type ChangeNotifier interface {
	BroadcastEvent(eventType string, data interface{})
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	notifier  ChangeNotifier
	eventsSub *pkgnats.Subscriber // nil unless EVENT_BUS=nats
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	notifier ChangeNotifier,
	eventsSub *pkgnats.Subscriber,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		notifier:  notifier,
		eventsSub: eventsSub,
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

	// Changes made by other instances arrive over NATS, not the local bus.
	if cs.eventsSub != nil {
		if err := cs.eventsSub.Subscribe("events.>", "kb-assistant", cs.processRemoteEvent); err != nil {
			return err
		}
	}

	return nil
}

func (cs *consumerService) processRemoteEvent(_ context.Context, evt events.Event) error {
	log.Printf("[INFO] Remote knowledge base event: %s", evt.EventType())
	if cs.notifier != nil {
		cs.notifier.BroadcastEvent("kb_changed", evt.Payload())
	}
	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload dto.KnowledgeBaseEventMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal KB event: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Knowledge base %s: %s", payload.Action, payload.Filename)

	if cs.notifier != nil {
		cs.notifier.BroadcastEvent("kb_changed", payload)
	}
	msg.Ack()
}
