package poisonqueue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// Topic receives messages whose handler kept failing after retries.
const Topic = "eventdesk.poison_queue"

const walkTimeout = 10 * time.Second

var ErrMessageNotFound = errors.New("message not found")

type Message struct {
	ID      string
	Topic   string
	Handler string
	Reason  string
}

// Queue inspects the poison queue. Every operation walks the topic once by
// consuming each message and publishing it back until the first one comes
// around again.
type Queue struct {
	newSubscriber func() (message.Subscriber, error)
	publisher     message.Publisher
	logger        watermill.LoggerAdapter
	timeout       time.Duration
}

// New takes a subscriber constructor because the router closes its
// subscriber at the end of every walk.
func New(
	newSubscriber func() (message.Subscriber, error),
	publisher message.Publisher,
	logger watermill.LoggerAdapter,
) *Queue {
	return &Queue{
		newSubscriber: newSubscriber,
		publisher:     publisher,
		logger:        logger,
		timeout:       walkTimeout,
	}
}

// WithTimeout bounds a single walk. An empty queue always takes the full
// timeout.
func (q *Queue) WithTimeout(d time.Duration) *Queue {
	q.timeout = d
	return q
}

// Middleware moves messages to the queue once the wrapped handlers give up on
// them.
func Middleware(publisher message.Publisher) (message.HandlerMiddleware, error) {
	return middleware.PoisonQueue(publisher, Topic)
}

func (q *Queue) Preview(ctx context.Context) ([]Message, error) {
	var res []Message

	err := q.walk(ctx, func(msg *message.Message) (keep bool, stop bool) {
		res = append(res, messageOf(msg))
		return true, false
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

func (q *Queue) Remove(ctx context.Context, id string) error {
	found := false

	err := q.walk(ctx, func(msg *message.Message) (bool, bool) {
		if msg.UUID == id {
			found = true
			return false, true
		}
		return true, false
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrMessageNotFound, id)
	}

	return nil
}

// Requeue publishes the message back to the topic it was poisoned on and drops
// it from the queue.
func (q *Queue) Requeue(ctx context.Context, id string) error {
	found := false
	var publishErr error

	err := q.walk(ctx, func(msg *message.Message) (bool, bool) {
		if msg.UUID != id {
			return true, false
		}
		found = true

		topic := msg.Metadata.Get(middleware.PoisonedTopicKey)
		if topic == "" {
			publishErr = fmt.Errorf("message %s has no %s metadata", id, middleware.PoisonedTopicKey)
			return true, true
		}

		retry := message.NewMessage(msg.UUID, msg.Payload)
		for k, v := range msg.Metadata {
			switch k {
			case middleware.PoisonedTopicKey, middleware.PoisonedHandlerKey, middleware.PoisonedSubscriberKey, middleware.ReasonForPoisonedKey:
				continue
			}
			retry.Metadata.Set(k, v)
		}

		if err := q.publisher.Publish(topic, retry); err != nil {
			publishErr = fmt.Errorf("error requeueing message %s: %w", id, err)
			return true, true
		}

		return false, true
	})
	if err != nil {
		return err
	}
	if publishErr != nil {
		return publishErr
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrMessageNotFound, id)
	}

	return nil
}

// walk calls visit for every queued message once. A message is published back
// to the queue when visit keeps it.
func (q *Queue) walk(ctx context.Context, visit func(msg *message.Message) (keep bool, stop bool)) error {
	subscriber, err := q.newSubscriber()
	if err != nil {
		return fmt.Errorf("error creating subscriber: %w", err)
	}

	router, err := message.NewRouter(message.RouterConfig{}, q.logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	firstMessageID := ""
	done := false

	router.AddHandler(
		"walk_poison_queue",
		Topic,
		subscriber,
		Topic,
		q.publisher,
		func(msg *message.Message) ([]*message.Message, error) {
			// messages seen after the walk finished go back untouched
			if done {
				cancel()
				return []*message.Message{msg}, nil
			}

			// the router still publishes and acks the current message after
			// cancel
			if firstMessageID == "" {
				firstMessageID = msg.UUID
			} else if msg.UUID == firstMessageID {
				done = true
				cancel()
				return []*message.Message{msg}, nil
			}

			keep, stop := visit(msg)
			if stop {
				done = true
				cancel()
			}
			if !keep {
				return nil, nil
			}

			return []*message.Message{msg}, nil
		},
	)

	err = router.Run(ctx)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}

func messageOf(msg *message.Message) Message {
	return Message{
		ID:      msg.UUID,
		Topic:   msg.Metadata.Get(middleware.PoisonedTopicKey),
		Handler: msg.Metadata.Get(middleware.PoisonedHandlerKey),
		Reason:  msg.Metadata.Get(middleware.ReasonForPoisonedKey),
	}
}
