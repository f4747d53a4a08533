package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"neighborconnect/internal/backend"
	"neighborconnect/internal/bidstream"
	"neighborconnect/internal/config"
	listing "neighborconnect/internal/listingService"
	"neighborconnect/internal/liveview"
	"neighborconnect/internal/repository"
	"neighborconnect/internal/server"
	"neighborconnect/internal/snapshot"
	"neighborconnect/utils"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (defaults to $NC_CONFIG or config.yaml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		utils.Fatal("Failed to load configuration", map[string]any{"error": err.Error()})
	}

	if err := utils.ConfigureLogger(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		utils.Fatal("Failed to configure logger", map[string]any{"error": err.Error()})
	}

	repo := repository.NewMemoryRepo()
	listingSvc := listing.NewListingService(repo, listing.NewControllerMounter(newMounter(cfg)), newMarketplace(cfg))

	router := server.SetupRouter(listingSvc, repo)

	released := make(chan struct{})
	srv := server.NewHTTPServer(cfg.Addr(), router, func() {
		defer close(released)
		closeViews(repo)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		utils.Info("Starting listing view server", map[string]any{
			"addr":        srv.Addr,
			"backend_url": cfg.Backend.BaseURL,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Fatal("Failed to start server", map[string]any{"error": err.Error()})
		}
	}()

	<-ctx.Done()
	utils.Info("Shutting down listing view server", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Error("Server shutdown failed", map[string]any{"error": err.Error()})
	}

	select {
	case <-released:
	case <-shutdownCtx.Done():
		utils.Warn("Views still closing at shutdown deadline", map[string]any{"open_views": repo.Count()})
	}
}

// newMounter wires the snapshot loader and bid stream into mounted views
func newMounter(cfg *config.Config) *liveview.Mounter {
	loader := snapshot.NewLoader(cfg.Backend.BaseURL, &http.Client{Timeout: cfg.Backend.RequestTimeout})

	streamOpts := bidstream.Options{
		Retry: bidstream.RetryPolicy{
			MaxAttempts: cfg.Stream.Retry.MaxAttempts,
			BaseDelay:   cfg.Stream.Retry.BaseDelay,
			MaxDelay:    cfg.Stream.Retry.MaxDelay,
			Multiplier:  cfg.Stream.Retry.BackoffMultiplier,
		},
		KeepAlive:  cfg.Stream.KeepAlive,
		BufferSize: cfg.Stream.BufferSize,
	}
	openStream := func(ctx context.Context, listingID int64) liveview.EventSource {
		return bidstream.Open(ctx, cfg.Backend.StreamURLTemplate, listingID, streamOpts)
	}

	return liveview.NewMounter(loader, openStream, liveview.Options{
		RefreshInterval: cfg.View.RefreshInterval,
		TickInterval:    cfg.View.TickInterval,
	})
}

// newMarketplace returns the rate-limited client used for bids and purchases
func newMarketplace(cfg *config.Config) *backend.Client {
	return backend.NewClient(
		cfg.Backend.BaseURL,
		&http.Client{Timeout: cfg.Backend.RequestTimeout},
		cfg.Marketplace.RequestsPerSecond,
		cfg.Marketplace.BurstSize,
	)
}

// closeViews releases every view still mounted at shutdown
func closeViews(repo *repository.MemoryRepo) {
	ids := repo.ViewIDs()
	for _, id := range ids {
		if view, err := repo.DeleteView(id); err == nil {
			view.Close()
		}
	}
	utils.Info("Closed open views", map[string]any{"count": len(ids)})
}
