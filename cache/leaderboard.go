package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Danimr96/SportsRank-sub000/models"
)

// ConnectRedis opens and ping-verifies a redis client
func ConnectRedis(addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return rdb, nil
}

// LeaderboardCache holds computed leaderboards for a short TTL so that
// repeated reads during a live round don't recompute standings every time.
type LeaderboardCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewLeaderboardCache creates a cache with the given TTL
func NewLeaderboardCache(rdb *redis.Client, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{rdb: rdb, ttl: ttl}
}

func leaderboardKey(roundID int64, mode models.Mode) string {
	return fmt.Sprintf("leaderboard:round:%d:%s", roundID, mode.String())
}

// Get fetches a cached leaderboard. Returns (nil, nil) on a miss.
func (c *LeaderboardCache) Get(ctx context.Context, roundID int64, mode models.Mode) (*models.Leaderboard, error) {
	b, err := c.rdb.Get(ctx, leaderboardKey(roundID, mode)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached leaderboard: %w", err)
	}

	var board models.Leaderboard
	if err := json.Unmarshal(b, &board); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached leaderboard: %w", err)
	}
	return &board, nil
}

// Set stores a leaderboard under the round+mode key
func (c *LeaderboardCache) Set(ctx context.Context, roundID int64, mode models.Mode, board *models.Leaderboard) error {
	b, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("failed to marshal leaderboard: %w", err)
	}

	if err := c.rdb.Set(ctx, leaderboardKey(roundID, mode), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache leaderboard: %w", err)
	}
	return nil
}

// Invalidate drops all cached boards for a round. Used on settlement,
// when cached live standings go stale immediately.
func (c *LeaderboardCache) Invalidate(ctx context.Context, roundID int64) error {
	pattern := fmt.Sprintf("leaderboard:round:%d:*", roundID)

	iter := c.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan leaderboard keys: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate leaderboard cache: %w", err)
	}
	return nil
}
