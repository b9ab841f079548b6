// Package config reads the service settings from the environment, an
// optional .env file and command line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

var ErrMissingEventAPIURL = errors.New("EVENT_API_URL is required")

type Config struct {
	EventAPIURL        string
	HTTPAddr           string
	RedisAddr          string
	JaegerEndpoint     string
	SessionTTL         time.Duration
	RequestTimeout     time.Duration
	PageSize           int
	ProfileConcurrency int
}

func defaults() Config {
	return Config{
		HTTPAddr:           ":8080",
		SessionTTL:         24 * time.Hour,
		RequestTimeout:     10 * time.Second,
		PageSize:           5,
		ProfileConcurrency: 8,
	}
}

// Load reads envFile when it exists and then the process environment.
// Variables already set in the environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("error loading %s: %w", envFile, err)
		}
	}

	return FromLookup(os.LookupEnv)
}

// FromLookup builds the config from any variable source.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := defaults()

	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}
	str("EVENT_API_URL", &cfg.EventAPIURL)
	str("HTTP_ADDR", &cfg.HTTPAddr)
	str("REDIS_ADDR", &cfg.RedisAddr)
	str("JAEGER_ENDPOINT", &cfg.JaegerEndpoint)

	var errs []error
	duration := func(name string, dst *time.Duration) {
		v, ok := lookup(name)
		if !ok || v == "" {
			return
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", name, err))
			return
		}
		*dst = d
	}
	duration("SESSION_TTL", &cfg.SessionTTL)
	duration("REQUEST_TIMEOUT", &cfg.RequestTimeout)

	integer := func(name string, dst *int) {
		v, ok := lookup(name)
		if !ok || v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", name, err))
			return
		}
		*dst = n
	}
	integer("PAGE_SIZE", &cfg.PageSize)
	integer("PROFILE_CONCURRENCY", &cfg.ProfileConcurrency)

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// AddFlags registers one flag per setting, defaulting to the loaded values.
func (c *Config) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&c.EventAPIURL, "event-api-url", c.EventAPIURL, "base URL of the Event Service API")
	flagSet.StringVar(&c.HTTPAddr, "http-addr", c.HTTPAddr, "address the HTTP server listens on")
	flagSet.StringVar(&c.RedisAddr, "redis-addr", c.RedisAddr, "redis address for sessions and event streams; empty keeps both in memory")
	flagSet.StringVar(&c.JaegerEndpoint, "jaeger-endpoint", c.JaegerEndpoint, "jaeger collector endpoint; empty disables trace export")
	flagSet.DurationVar(&c.SessionTTL, "session-ttl", c.SessionTTL, "how long a session lives after sign-in")
	flagSet.DurationVar(&c.RequestTimeout, "request-timeout", c.RequestTimeout, "timeout of a single Event Service request")
	flagSet.IntVar(&c.PageSize, "page-size", c.PageSize, "items per page in list views")
	flagSet.IntVar(&c.ProfileConcurrency, "profile-concurrency", c.ProfileConcurrency, "parallel attendee profile lookups in analytics")
}

func (c Config) Validate() error {
	if c.EventAPIURL == "" {
		return ErrMissingEventAPIURL
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", c.PageSize)
	}
	if c.ProfileConcurrency <= 0 {
		return fmt.Errorf("profile concurrency must be positive, got %d", c.ProfileConcurrency)
	}

	return nil
}
