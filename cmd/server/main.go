package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/EliJ91/albion-market-history/config"
	"github.com/EliJ91/albion-market-history/internal/catalog"
	httpDelivery "github.com/EliJ91/albion-market-history/internal/delivery/http"
	"github.com/EliJ91/albion-market-history/internal/infrastructure/albion"
	"github.com/EliJ91/albion-market-history/internal/infrastructure/cache"
	"github.com/EliJ91/albion-market-history/internal/logging"
	"github.com/EliJ91/albion-market-history/internal/usecase"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Albion market history backend starting",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("region", cfg.Market.Region),
	)

	// An unreadable catalog is not fatal: search answers empty until a reload succeeds
	store := catalog.NewStore(nil)
	snapshot, stats, err := catalog.LoadFile(cfg.Catalog.Path, cfg.Catalog.Format)
	if err != nil {
		logger.Error("failed to load item catalog", zap.String("path", cfg.Catalog.Path), zap.Error(err))
	} else {
		store.Replace(snapshot)
		logger.Info("item catalog loaded",
			zap.String("path", cfg.Catalog.Path),
			zap.Int("items", snapshot.Len()),
			zap.Int("skipped", stats.Skipped),
			zap.Int("failed", stats.Failed),
			zap.Int("duplicates", stats.Duplicates),
		)
	}

	// Infrastructure
	selectionCache := cache.NewMemoryCache(cfg.Selections.CleanupInterval)
	defer selectionCache.Close()

	marketClient := albion.NewClient(albion.ClientConfig{
		BaseURL:           cfg.Market.BaseURL,
		Timeout:           cfg.Market.Timeout,
		RequestsPerMinute: cfg.Market.RequestsPerMinute,
		Burst:             cfg.Market.Burst,
	}, logger)

	// Usecases
	searchService := usecase.NewSearchService(store, logger, usecase.SearchServiceConfig{
		DefaultLimit:  cfg.Search.DefaultLimit,
		MaxLimit:      cfg.Search.MaxLimit,
		FeaturedCount: cfg.Search.FeaturedCount,
		CatalogPath:   cfg.Catalog.Path,
		CatalogFormat: cfg.Catalog.Format,
	})
	marketService := usecase.NewMarketService(marketClient, store, logger)
	selectionService := usecase.NewSelectionService(selectionCache, cfg.Selections.TTL, logger)

	handler := httpDelivery.NewHandler(searchService, marketService, selectionService, logger)
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * cfg.Market.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}
