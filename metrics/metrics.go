package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SelectionsValidated counts selection validations by outcome (ok/rejected).
	SelectionsValidated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pool_selections_validated_total",
		Help: "Selection validations by outcome",
	}, []string{"outcome"})

	// EntriesLocked counts entries locked in across all rounds.
	EntriesLocked = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pool_entries_locked_total",
		Help: "Entries locked in",
	})

	// EntriesSettled counts entries settled across all rounds.
	EntriesSettled = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pool_entries_settled_total",
		Help: "Entries settled",
	})

	// RoundsSettled counts rounds fully settled.
	RoundsSettled = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pool_rounds_settled_total",
		Help: "Rounds fully settled",
	})

	// LeaderboardComputations counts full leaderboard recomputations by mode.
	LeaderboardComputations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pool_leaderboard_computations_total",
		Help: "Full leaderboard computations by mode",
	}, []string{"mode"})

	// LeaderboardCacheHits counts leaderboard cache lookups by result (hit/miss).
	LeaderboardCacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pool_leaderboard_cache_lookups_total",
		Help: "Leaderboard cache lookups by result",
	}, []string{"result"})

	// SettlementDuration observes how long a full round settlement takes.
	SettlementDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pool_round_settlement_duration_seconds",
		Help:    "Duration of full round settlements",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(
		SelectionsValidated,
		EntriesLocked,
		EntriesSettled,
		RoundsSettled,
		LeaderboardComputations,
		LeaderboardCacheHits,
		SettlementDuration,
	)
}

// HealthFunc reports whether the service's dependencies are reachable.
type HealthFunc func(ctx context.Context) error

// StartServer runs a small HTTP server exposing /metrics and /healthz.
// It listens in a background goroutine; the caller shuts it down.
func StartServer(port string, healthFn HealthFunc) *http.Server {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()

		if err := healthFn(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(fmt.Sprintf("unhealthy: %v", err)))
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	go func() {
		_ = srv.ListenAndServe()
	}()

	return srv
}
