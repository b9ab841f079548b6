package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"eventdesk/internal/app"
	"eventdesk/internal/config"
)

func main() {
	log.Init(logrus.InfoLevel)

	cfg, err := config.Load(".env")
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load config")
	}

	flagSet := pflag.NewFlagSet("eventdesk", pflag.ExitOnError)
	cfg.AddFlags(flagSet)
	_ = flagSet.Parse(os.Args[1:])

	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("Invalid config")
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})
		defer redisClient.Close()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := app.NewApp(
		cfg,
		watermill.NewStdLogger(false, false),
		nil,
		redisClient,
	)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create app")
	}

	logrus.WithField("addr", cfg.HTTPAddr).Info("Server starting...")

	if err := a.Run(ctx); err != nil {
		logrus.WithError(err).Error("App stopped with error")
		os.Exit(1)
	}
}
