package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	commonHTTP "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"

	"eventdesk/internal/config"
	"eventdesk/internal/infrastructure/clients"
	"eventdesk/internal/infrastructure/event_publisher"
	httpSrv "eventdesk/internal/interfaces/http"
	messageRouter "eventdesk/internal/interfaces/message"
	"eventdesk/internal/interfaces/message/events"
	"eventdesk/internal/observability"
	"eventdesk/internal/session"
	"eventdesk/internal/views"
)

const viewSweepInterval = time.Minute

type App struct {
	watermillLogger watermill.LoggerAdapter
	logger          zerolog.Logger
	router          *message.Router
	srv             *httpSrv.Server
	traceProvider   *tracesdk.TracerProvider
	registry        *views.Registry
	sessionAlive    func(ctx context.Context, id string) bool
}

// NewApp wires the service. A nil redisClient keeps sessions and events in
// process memory.
func NewApp(
	cfg config.Config,
	watermillLogger watermill.LoggerAdapter,
	httpClient *http.Client,
	redisClient *redis.Client,
) (*App, error) {
	traceProvider, err := observability.ConfigureTraceProvider(cfg.JaegerEndpoint)
	if err != nil {
		return nil, err
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout}
	}
	eventService := clients.NewEventServiceClient(cfg.EventAPIURL, httpClient)

	var (
		sessions  session.Store
		transport event_publisher.Transport
	)
	if redisClient != nil {
		sessions = session.NewRedisStore(redisClient, cfg.SessionTTL)

		transport, err = event_publisher.NewRedisTransport(watermillLogger, redisClient)
		if err != nil {
			return nil, err
		}
	} else {
		sessions = session.NewMemoryStore(cfg.SessionTTL, time.Now)
		transport = event_publisher.NewGoChannelTransport(watermillLogger)
	}

	var publisher message.Publisher = event_publisher.CorrelationPublisherDecorator{
		Publisher: transport.Publisher,
	}
	publisher = observability.PublisherWithTracing{
		Publisher: publisher,
	}

	eventBus, err := events.NewEventBus(publisher, watermillLogger)
	if err != nil {
		return nil, fmt.Errorf("error creating event bus: %w", err)
	}

	registry := views.NewRegistry(eventService, eventBus, views.RegistryConfig{
		PageSize:           cfg.PageSize,
		ProfileConcurrency: cfg.ProfileConcurrency,
	})

	router, err := messageRouter.NewRouter(
		watermillLogger,
		publisher,
		events.NewHandler(sessions, registry),
		events.NewEventProcessorConfig(transport.NewSubscriber, watermillLogger),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating router: %w", err)
	}

	srv := httpSrv.NewServer(
		commonHTTP.NewEcho(),
		cfg.HTTPAddr,
		sessions,
		registry,
		router.IsRunning,
		time.Now,
	)

	return &App{
		watermillLogger: watermillLogger,
		logger:          zerolog.New(os.Stdout).With().Timestamp().Logger(),
		router:          router,
		srv:             srv,
		traceProvider:   traceProvider,
		registry:        registry,
		sessionAlive:    session.Alive(sessions, time.Now),
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info().Msg("starting router")

		return a.router.Run(ctx)
	})

	g.Go(func() error {
		select {
		case <-a.router.Running():
		case <-ctx.Done():
			return nil
		}
		a.logger.Info().Msg("router is running")

		a.logger.Info().Msg("starting server")
		return a.srv.Start()
	})

	g.Go(func() error {
		ticker := time.NewTicker(viewSweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if dropped := a.registry.Sweep(ctx, a.sessionAlive); dropped > 0 {
					a.logger.Info().Int("dropped", dropped).Msg("dropped views of expired sessions")
				}
			}
		}
	})

	g.Go(func() error {
		// Shut down
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()

		err := a.srv.Stop(shutdownCtx)
		if err != nil {
			a.logger.Err(err).Msg("error stopping server")
		}

		if a.traceProvider != nil {
			if tpErr := a.traceProvider.Shutdown(shutdownCtx); tpErr != nil {
				a.logger.Err(tpErr).Msg("error stopping trace provider")
				err = errors.Join(err, tpErr)
			}
		}

		return err
	})

	// Will block until all goroutines finish
	return g.Wait()
}
