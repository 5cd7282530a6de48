// Package main implements the catalog HTTP service for managing products.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "net/http/pprof"

	"github.com/storecore/catalog/internal/app"
	"github.com/storecore/catalog/internal/cache"
	"github.com/storecore/catalog/internal/config"
	"github.com/storecore/catalog/internal/store"
	"github.com/storecore/catalog/pkg/bootstrap"
	"github.com/storecore/catalog/pkg/config/configloader"
	"github.com/storecore/catalog/pkg/messaging"
	pnats "github.com/storecore/catalog/pkg/nats"
	"golang.org/x/sync/errgroup"
)

const serviceName = "catalog"

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}

// run initializes the application, sets up MongoDB, the optional Redis cache
// and NATS publisher, and starts the HTTP and pprof servers.
func run(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*config.Config](serviceName)
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	logger := bootstrap.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	client, err := bootstrap.NewMongoClient(ctx, cfg.Mongo.URI, cfg.Mongo.Timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error("Failed to disconnect from MongoDB", "error", err)
		}
	}()
	logger.Info("Successfully connected to MongoDB!")

	collection := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
	mongoStore := store.NewMongoStore(collection)
	if err := mongoStore.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to ensure indexes: %w", err)
	}

	var productStore store.ProductStore = mongoStore
	if cfg.Cache.Enabled {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Cache.Addr)
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		defer func() {
			if err := redisCache.Close(); err != nil {
				logger.Error("Failed to close Redis connection", "error", err)
			}
		}()
		logger.Info("Successfully connected to Redis!")
		productStore = store.NewCachedStore(mongoStore, redisCache, cfg.Cache.TTL, logger)
	}

	var publisher messaging.Publisher = messaging.NoOpPublisher{}
	if cfg.NATS.Enabled {
		nc, err := pnats.NewClient(cfg.NATS.Url, cfg.NATS.Timeout)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer nc.Close()
		js, err := pnats.NewJetStreamContext(nc)
		if err != nil {
			return err
		}
		if err := pnats.EnsureStream(ctx, js, cfg.NATS.Stream, messaging.ProductSubjectsWildcard); err != nil {
			return err
		}
		publisher = pnats.NewNatsPublisher(js)
		logger.Info("Successfully connected to NATS!", slog.String("stream", cfg.NATS.Stream))
	}

	httpServer, pprofServer := setupServers(productStore, publisher, logger, cfg)

	g, gCtx := errgroup.WithContext(ctx)

	// Start the HTTP server
	g.Go(func() error {
		logger.Info("HTTP server listening", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	// gracefully shutdown HTTP server on context cancellation
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	// Start the pprof server if enabled
	if cfg.PProf.Enabled {
		g.Go(func() error {
			logger.Info("Pprof server listening", slog.String("addr", pprofServer.Addr))
			if err := pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("pprof server failed: %w", err)
			}
			return nil
		})
		// gracefully shutdown pprof server on context cancellation
		g.Go(func() error {
			<-gCtx.Done()
			logger.Info("Shutting down pprof server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
			defer cancel()
			return pprofServer.Shutdown(shutdownCtx)
		})
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("errgroup encountered an error: %w", err)
	}
	return nil
}

// setupServers initializes the HTTP and pprof servers with the provided store, publisher, logger, and configuration.
func setupServers(productStore store.ProductStore, publisher messaging.Publisher, logger *slog.Logger, cfg *config.Config) (*http.Server, *http.Server) {
	deps := app.SetupDependencies(productStore, publisher, logger)
	httpServer := app.SetupHttpServer(deps, cfg)
	pprofServer := &http.Server{
		Addr: cfg.PProf.Addr,
	}
	return httpServer, pprofServer
}
