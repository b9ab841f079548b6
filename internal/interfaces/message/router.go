package message

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"eventdesk/internal/interfaces/message/events"
	"eventdesk/internal/poisonqueue"
)

func NewRouter(
	watermillLogger watermill.LoggerAdapter,
	poisonQueuePublisher message.Publisher,
	eventHandler *events.Handler,
	eventProcessorConfig cqrs.EventProcessorConfig,
) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, watermillLogger)
	if err != nil {
		return nil, err
	}

	poisonQueue, err := poisonqueue.Middleware(poisonQueuePublisher)
	if err != nil {
		return nil, err
	}

	initMiddlewares(watermillLogger, router, poisonQueue)

	eventProcessor, err := cqrs.NewEventProcessorWithConfig(router, eventProcessorConfig)
	if err != nil {
		return nil, err
	}

	err = eventProcessor.AddHandlers(
		// attendee views
		eventHandler.RefreshAfterBookingHandler(),
		eventHandler.RefreshAfterRejectionHandler(),

		// organizer views
		eventHandler.RefreshAfterEventSavedHandler(),
		eventHandler.RefreshAfterEventCancelledHandler(),
	)
	if err != nil {
		return nil, err
	}

	return router, nil
}

func initMiddlewares(
	watermillLogger watermill.LoggerAdapter,
	router *message.Router,
	poisonQueue message.HandlerMiddleware,
) {
	router.AddMiddleware(events.TracingMiddleware)
	router.AddMiddleware(middleware.Recoverer)
	router.AddMiddleware(events.CorrelationIDMiddleware)
	router.AddMiddleware(events.LoggingMiddleware)

	// messages still failing after retries are parked for poison-queue-cli
	router.AddMiddleware(poisonQueue)

	router.AddMiddleware(middleware.Retry{
		MaxRetries:      3,
		InitialInterval: time.Millisecond * 100,
		MaxInterval:     time.Second,
		Multiplier:      2,
		Logger:          watermillLogger,
	}.Middleware)

	// skip marshalling errors before retrying
	router.AddMiddleware(events.SkipMarshallingErrorsMiddleware)
	router.AddMiddleware(events.MetricsMiddleware)
}
