package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"

	"eventdesk/internal/infrastructure/event_publisher"
	"eventdesk/internal/poisonqueue"
)

func newQueue(c *cli.Context) (*poisonqueue.Queue, func() error, error) {
	logger := watermill.NewStdLogger(c.Bool("debug"), false)

	redisClient := redis.NewClient(&redis.Options{
		Addr: c.String("redis-addr"),
	})

	transport, err := event_publisher.NewRedisTransport(logger, redisClient)
	if err != nil {
		_ = redisClient.Close()
		return nil, nil, err
	}

	q := poisonqueue.New(
		func() (message.Subscriber, error) {
			return transport.NewSubscriber("poison_queue_cli")
		},
		transport.Publisher,
		logger,
	).WithTimeout(c.Duration("timeout"))

	return q, redisClient.Close, nil
}

func main() {
	app := &cli.App{
		Name:  "poison-queue-cli",
		Usage: "Manage the eventdesk Poison Queue",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "redis-addr",
				EnvVars:  []string{"REDIS_ADDR"},
				Required: true,
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 10 * time.Second,
				Usage: "how long a single pass over the queue may take",
			},
			&cli.BoolFlag{
				Name: "debug",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "preview",
				Usage: "preview messages",
				Action: func(c *cli.Context) error {
					q, closeFn, err := newQueue(c)
					if err != nil {
						return err
					}
					defer closeFn()

					messages, err := q.Preview(c.Context)
					if err != nil {
						return err
					}

					for _, m := range messages {
						fmt.Printf("%v\t%v\t%v\t%v\n", m.ID, m.Topic, m.Handler, m.Reason)
					}

					return nil
				},
			},
			{
				Name:      "remove",
				ArgsUsage: "<message_id>",
				Usage:     "remove message",
				Action: func(c *cli.Context) error {
					q, closeFn, err := newQueue(c)
					if err != nil {
						return err
					}
					defer closeFn()

					return q.Remove(c.Context, c.Args().First())
				},
			},
			{
				Name:      "requeue",
				ArgsUsage: "<message_id>",
				Usage:     "send message back to its original topic",
				Action: func(c *cli.Context) error {
					q, closeFn, err := newQueue(c)
					if err != nil {
						return err
					}
					defer closeFn()

					return q.Requeue(c.Context, c.Args().First())
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
