package event_publisher

import (
	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill/message"

	"eventdesk/internal/idempotency"
)

// CorrelationPublisherDecorator stamps the request's correlation id and the
// submission's idempotency key onto outgoing messages.
type CorrelationPublisherDecorator struct {
	message.Publisher
}

func (c CorrelationPublisherDecorator) Publish(topic string, messages ...*message.Message) error {
	for _, msg := range messages {
		msg.Metadata.Set("correlation_id", log.CorrelationIDFromContext(msg.Context()))

		if key, ok := idempotency.KeyFromContext(msg.Context()); ok {
			msg.Metadata.Set("idempotency_key", key)
		}
	}

	return c.Publisher.Publish(topic, messages...)
}
