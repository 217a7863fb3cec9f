// queue-monitor polls the life-certificate queue service and renders the
// current serving order and aggregate statistics in the terminal. Entries are
// masked the same way the public status page masks them.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"lifecert-queue/internal/api"
	"lifecert-queue/internal/config"
	"lifecert-queue/internal/poller"
	"lifecert-queue/internal/priority"
	"lifecert-queue/internal/projection"
	"lifecert-queue/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config.Load()", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	kv, cleanup, err := openKV(ctx, cfg)
	if err != nil {
		slog.Error("openKV()", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	tokens := store.NewTokenStore(ctx, kv)
	if cfg.AdminToken != "" {
		if err := tokens.SetToken(cfg.AdminToken); err != nil {
			slog.Error("tokens.SetToken()", "error", err)
			os.Exit(1)
		}
	}

	client := api.New(cfg.APIBaseURL,
		api.WithHTTPClient(&http.Client{Timeout: cfg.APITimeout}),
		api.WithTokens(tokens),
		api.WithAuthExpiredHook(func() {
			slog.Warn("admin session expired, privileged calls disabled")
		}),
	)

	queuePoller := poller.New(func(ctx context.Context) (*api.QueueSnapshot, error) {
		return client.ListQueue(ctx)
	}, cfg.QueuePollInterval, poller.WithCallbacks(renderQueue, renderFetchError))

	statsPoller := poller.New(func(ctx context.Context) (*api.QueueStatistics, error) {
		return client.GetStats(ctx)
	}, cfg.StatsPollInterval, poller.WithCallbacks(renderStats, nil))

	queuePoller.Start(ctx)
	statsPoller.Start(ctx)
	defer queuePoller.Stop()
	defer statsPoller.Stop()

	slog.Info("monitoring queue", "url", cfg.APIBaseURL, "interval", cfg.QueuePollInterval)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down")
}

func openKV(ctx context.Context, cfg *config.Config) (store.KV, func(), error) {
	if cfg.RedisAddr == "" {
		return store.NewMemory(), func() {}, nil
	}
	r, err := store.NewRedis(ctx, cfg.RedisAddr)
	if err != nil {
		return nil, nil, err
	}
	return r, func() { r.Close() }, nil
}

func renderQueue(snap *api.QueueSnapshot) {
	fmt.Printf("\n=== Queue (%d waiting) ===\n", snap.QueueLength)
	if snap.QueueLength == 0 {
		fmt.Println("  queue is empty")
		return
	}
	for i, entry := range snap.Queue {
		marker := projection.FormatPosition(i + 1)
		if i == 0 {
			marker = projection.FormatPosition(0)
		}
		ahead := projection.PeopleAhead(i + 1)
		fmt.Printf("  %-12s %-14s %-16s age %3d  %-15s wait %s\n",
			marker,
			projection.MaskCertificateNo(entry.LifeCertificateNo),
			projection.MaskName(entry.Name),
			entry.Age,
			priority.Label(entry.Priority),
			projection.FormatWaitTime(projection.EstimatedWaitMinutes(ahead)),
		)
	}
}

func renderStats(stats *api.QueueStatistics) {
	fmt.Printf("\n--- Stats: total=%d senior=%d general=%d presence=%d online=%d avg age=%.1f est wait=%s ---\n",
		stats.TotalInQueue,
		stats.Priority0Count,
		stats.Priority1Count,
		stats.PresenceModeCount,
		stats.OnlineModeCount,
		stats.AverageAge,
		projection.FormatWaitTime(stats.EstimatedWaitMinutes),
	)
}

func renderFetchError(err error) {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx > 0 {
		msg = msg[idx+2:]
	}
	fmt.Printf("\n!!! refresh failed, showing last known data: %s\n", msg)
}
