package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"vastusite/internal/cache"
	"vastusite/internal/config"
	"vastusite/internal/handlers"
	"vastusite/internal/jobs"
	"vastusite/internal/log"
	"vastusite/internal/queue"
	"vastusite/internal/repository"
	"vastusite/internal/security"
	"vastusite/internal/server"
	"vastusite/internal/service"
	"vastusite/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, cfg.Logging.Level)

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	codec, err := security.NewSessionCodec(cfg.Security.SessionSecret)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init session codec")
	}

	leads := repository.NewLeadRepository(cfg.Leads.DataDir, cfg.Leads.FileName)

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}
	if redisClient == nil {
		logger.Warn().Msg("redis not configured, lead events disabled")
	}

	scheduler := newScheduler(ctx, cfg, logger, leads, redisClient)
	if err := scheduler.Start(); err != nil {
		logger.Fatal().Err(err).Msg("scheduler start failed")
	}

	handlerSet := handlers.NewHandlerSet(logger, cfg, codec, leads, redisClient)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet, codec)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(httpServer.Start)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutdown signal received")
		return shutdown(logger, httpServer, scheduler, redisClient)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("server exited with error")
	}
	logger.Info().Msg("server exited cleanly")
}

func newScheduler(ctx context.Context, cfg *config.AppConfig, logger zerolog.Logger, leads *repository.LeadRepository, redisClient *redis.Client) *jobs.Scheduler {
	deps := jobs.Deps{}

	objectStore, err := storage.NewObjectStore(cfg.Storage)
	switch {
	case err != nil:
		logger.Error().Err(err).Msg("failed to init object store, backups disabled")
	case objectStore == nil:
		logger.Info().Msg("object storage not configured, backups disabled")
	default:
		if err := objectStore.EnsureBucket(ctx); err != nil {
			logger.Warn().Err(err).Msg("ensure backup bucket failed")
		}
		deps.Snapshots = leads
		deps.Backups = objectStore
	}

	if redisClient != nil {
		producer := queue.NewProducer(redisClient, cfg.Redis.Stream)
		deps.Stats = service.NewLeadService(leads, producer, logger)
		deps.Events = producer
	}

	return jobs.NewScheduler(cfg.Jobs, deps, logger)
}

func shutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, redisClient *redis.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := srv.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}

	scheduler.Stop(ctx)

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}
	}
	return errors.Join(errs...)
}
