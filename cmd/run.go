package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Danimr96/SportsRank-sub000/cache"
	"github.com/Danimr96/SportsRank-sub000/config"
	"github.com/Danimr96/SportsRank-sub000/database"
	"github.com/Danimr96/SportsRank-sub000/events"
	"github.com/Danimr96/SportsRank-sub000/metrics"
	"github.com/Danimr96/SportsRank-sub000/models"
	"github.com/Danimr96/SportsRank-sub000/repository"
	"github.com/Danimr96/SportsRank-sub000/service"
	"github.com/Danimr96/SportsRank-sub000/stream"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting pool engine...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Leaderboard cache is optional; standings recompute on every read
	// when redis is not configured.
	var boardCache *cache.LeaderboardCache
	if cfg.RedisAddr != "" {
		log.Println("Connecting to redis...")
		rdb, err := cache.ConnectRedis(cfg.RedisAddr)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer rdb.Close()
		boardCache = cache.NewLeaderboardCache(rdb, time.Duration(cfg.LeaderboardCacheSeconds)*time.Second)
		log.Println("Redis connection established successfully")
	}

	// Initialize the services the lifecycle worker drives
	log.Println("Initializing services...")
	roundService := service.NewRoundService(uowFactory)
	settlementService := service.NewSettlementService(uowFactory)
	log.Println("Services initialized successfully")

	// Lock expired rounds and settle fully-resolved ones in the background
	go runRoundLifecycle(ctx, roundService, settlementService)

	// Settled rounds fan out to kafka for downstream consumers
	if cfg.SettlementStreamOn {
		log.Println("Starting settlement stream publisher...")
		publisher := stream.NewPublisher(stream.NewWriter(cfg.KafkaBrokers, cfg.TopicRoundSettled))
		defer publisher.Close()

		eventBus.Subscribe(events.EventTypeRoundSettled, func(ctx context.Context, event events.Event) {
			settled, ok := event.(events.RoundSettledEvent)
			if !ok {
				return
			}
			publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			if err := publisher.PublishRoundSettled(publishCtx, settled.RoundID, settled.EntriesSettled, settled.SettledAt); err != nil {
				log.Printf("Error publishing round settled message: %v", err)
			}
		})
	}

	// Cached boards go stale the moment a round settles
	if boardCache != nil {
		invalidating := boardCache
		eventBus.Subscribe(events.EventTypeRoundSettled, func(ctx context.Context, event events.Event) {
			settled, ok := event.(events.RoundSettledEvent)
			if !ok {
				return
			}
			if err := invalidating.Invalidate(ctx, settled.RoundID); err != nil {
				log.Printf("Error invalidating leaderboard cache: %v", err)
			}
		})
	}

	// Metrics and health endpoint
	metricsServer := metrics.StartServer(cfg.MetricsPort, func(ctx context.Context) error {
		return db.Ping(ctx)
	})

	// Wait for context cancellation
	log.Printf("Pool engine is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down metrics server: %v", err)
	}

	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}

// runRoundLifecycle periodically locks open rounds whose selection
// window passed and settles locked rounds once every option resolved.
func runRoundLifecycle(ctx context.Context, rounds service.RoundService, settlements service.SettlementService) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		now := time.Now()

		open, err := rounds.ListRounds(ctx, models.RoundStatusOpen)
		if err != nil {
			log.Printf("Error listing open rounds: %v", err)
			continue
		}
		for _, round := range open {
			if !round.IsClosed(now) {
				continue
			}
			if _, err := rounds.LockRound(ctx, round.ID); err != nil {
				log.Printf("Error locking round %d: %v", round.ID, err)
			}
		}

		locked, err := rounds.ListRounds(ctx, models.RoundStatusLocked)
		if err != nil {
			log.Printf("Error listing locked rounds: %v", err)
			continue
		}
		for _, round := range locked {
			summary, err := settlements.SettleRound(ctx, round.ID)
			if err != nil {
				// Most locked rounds still wait on results; that is
				// not worth a log line.
				if !strings.Contains(err.Error(), "unresolved") {
					log.Printf("Error settling round %d: %v", round.ID, err)
				}
				continue
			}
			log.Printf("Settled round %d (%d entries)", summary.RoundID, summary.EntriesSettled)
		}
	}
}
