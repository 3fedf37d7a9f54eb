package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL string

	// Redis configuration (leaderboard cache)
	RedisAddr               string
	LeaderboardCacheSeconds int

	// Kafka configuration (settlement event stream)
	KafkaBrokers       string
	TopicRoundSettled  string
	SettlementStreamOn bool

	// Pool defaults applied when an operator leaves round fields blank
	DefaultStartingCredits int64
	DefaultStakeStep       int64

	// Metrics listener
	MetricsPort string

	// Environment: "development", "production" or "test"
	Environment string
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),

		RedisAddr:               os.Getenv("REDIS_ADDR"),
		LeaderboardCacheSeconds: 30,

		KafkaBrokers:       os.Getenv("KAFKA_BROKERS"),
		TopicRoundSettled:  "round_settled",
		SettlementStreamOn: os.Getenv("SETTLEMENT_STREAM") == "true",

		DefaultStartingCredits: 1000,
		DefaultStakeStep:       50,

		MetricsPort: "9090",

		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if credits := os.Getenv("STARTING_CREDITS"); credits != "" {
		if parsed, err := strconv.ParseInt(credits, 10, 64); err == nil {
			config.DefaultStartingCredits = parsed
		}
	}
	if step := os.Getenv("STAKE_STEP"); step != "" {
		if parsed, err := strconv.ParseInt(step, 10, 64); err == nil {
			config.DefaultStakeStep = parsed
		}
	}
	if ttl := os.Getenv("LEADERBOARD_CACHE_SECONDS"); ttl != "" {
		if parsed, err := strconv.Atoi(ttl); err == nil {
			config.LeaderboardCacheSeconds = parsed
		}
	}
	if topic := os.Getenv("KAFKA_TOPIC_ROUND_SETTLED"); topic != "" {
		config.TopicRoundSettled = topic
	}
	if port := os.Getenv("METRICS_PORT"); port != "" {
		config.MetricsPort = port
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
