package event_publisher

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
)

const consumerGroupPrefix = "eventdesk."

func NewRedisPublisher(
	wlogger watermill.LoggerAdapter,
	redisClient *redis.Client,
) (message.Publisher, error) {
	publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: redisClient,
	}, wlogger)
	if err != nil {
		return nil, fmt.Errorf("error creating redis publisher: %w", err)
	}

	return publisher, nil
}

// NewRedisTransport publishes to redis streams and gives every handler its
// own consumer group, so each handler sees every event once.
func NewRedisTransport(
	wlogger watermill.LoggerAdapter,
	redisClient *redis.Client,
) (Transport, error) {
	publisher, err := NewRedisPublisher(wlogger, redisClient)
	if err != nil {
		return Transport{}, err
	}

	return Transport{
		Publisher: publisher,
		NewSubscriber: func(handlerName string) (message.Subscriber, error) {
			return redisstream.NewSubscriber(redisstream.SubscriberConfig{
				Client:        redisClient,
				ConsumerGroup: consumerGroupPrefix + handlerName,
			}, wlogger)
		},
	}, nil
}
