package events

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"

	"eventdesk/internal/entities"
)

const (
	internalTopicPrefix = "internal-events.eventdesk."
	externalTopicPrefix = "events."
)

var marshaler = cqrs.JSONMarshaler{
	GenerateName: cqrs.StructName,
}

func topicFor(event any, eventName string) (string, error) {
	e, ok := event.(entities.Event)
	if !ok {
		return "", fmt.Errorf("invalid event type: %T doesn't implement entities.Event", event)
	}

	if e.IsInternal() {
		return internalTopicPrefix + eventName, nil
	}

	return externalTopicPrefix + eventName, nil
}

func NewEventBus(
	pub message.Publisher,
	logger watermill.LoggerAdapter,
) (*cqrs.EventBus, error) {
	return cqrs.NewEventBusWithConfig(
		pub,
		cqrs.EventBusConfig{
			GeneratePublishTopic: func(params cqrs.GenerateEventPublishTopicParams) (string, error) {
				return topicFor(params.Event, params.EventName)
			},
			Marshaler: marshaler,
			Logger:    logger,
		},
	)
}
