package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"content-optimizer-service/internal/ai"
	"content-optimizer-service/internal/config"
	"content-optimizer-service/internal/logging"
	"content-optimizer-service/internal/pipeline"
	"content-optimizer-service/internal/queue"
	"content-optimizer-service/internal/repository/memory"
	"content-optimizer-service/internal/repository/mongodb"
	"content-optimizer-service/internal/repository/postgresql"
	"content-optimizer-service/internal/service"
	"content-optimizer-service/internal/worker"
)

// jobStore is what both the HTTP side and the pipeline need from a store.
type jobStore interface {
	service.JobStore
	pipeline.Store
}

type jobQueue interface {
	service.JobQueue
	worker.Queue
}

// runtime holds the process-wide clients, opened once and closed on exit.
type runtime struct {
	cfg   *config.Config
	log   zerolog.Logger
	store jobStore
	queue jobQueue
	// nil for the in-process queue: nothing to redeliver after a restart
	requeuer worker.StaleRequeuer

	closers []func()
}

func newRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg, log: logging.New(cfg.AppEnv, cfg.LogLevel)}

	if err := rt.openStore(ctx); err != nil {
		rt.Close()
		return nil, err
	}
	if err := rt.openQueue(ctx); err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

func (rt *runtime) openStore(ctx context.Context) error {
	switch rt.cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := postgresql.NewPool(ctx, rt.cfg.PostgresDSN)
		if err != nil {
			return err
		}
		rt.closers = append(rt.closers, pool.Close)
		if err := postgresql.Migrate(ctx, pool); err != nil {
			return err
		}
		rt.store = postgresql.NewJobRepository(pool)

	case config.StoreMongo:
		client, err := mongodb.Connect(ctx, rt.cfg.MongoURL)
		if err != nil {
			return err
		}
		rt.closers = append(rt.closers, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(ctx)
		})
		repo := mongodb.NewJobRepository(client.Database(rt.cfg.DBName))
		if err := repo.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("mongo indexes: %w", err)
		}
		rt.store = repo

	default:
		rt.log.Warn().Msg("using in-memory job store: jobs are lost on restart")
		rt.store = memory.NewJobRepository()
	}
	return nil
}

func (rt *runtime) openQueue(ctx context.Context) error {
	if rt.cfg.RedisAddr == "" {
		rt.queue = queue.NewLocalQueue(0)
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     rt.cfg.RedisAddr,
		Password: rt.cfg.RedisPassword,
		DB:       rt.cfg.RedisDB,
	})
	rt.closers = append(rt.closers, func() { _ = rdb.Close() })
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}

	low, normal, high := queue.LanesFor(rt.cfg.RedisQueueKey, rt.cfg.RedisProcessingKey)
	q := queue.NewRedisPriorityQueue(rdb, rt.cfg.RedisProcessingKey+":map", low, normal, high)
	rt.queue = q
	rt.requeuer = q
	return nil
}

// distributed reports whether jobs can be handed to other processes.
func (rt *runtime) distributed() bool {
	return rt.requeuer != nil
}

func (rt *runtime) newWorkerPool() (*worker.Pool, error) {
	gen, err := ai.New(rt.cfg.AI)
	if err != nil {
		return nil, err
	}
	orchestrator := pipeline.New(rt.store, gen, rt.log)
	processor := worker.NewProcessor(orchestrator, rt.log.With().Str("component", "worker").Logger())
	return worker.NewPool(rt.queue, processor, rt.cfg.Workers, rt.log), nil
}

func (rt *runtime) newReaper() *worker.Reaper {
	if rt.requeuer == nil {
		return nil
	}
	return worker.NewReaper(rt.requeuer, rt.cfg.RequeueStaleAfter, rt.log.With().Str("component", "reaper").Logger())
}

func (rt *runtime) logConfig(mode string) {
	c := rt.cfg.Redacted()
	rt.log.Info().
		Str("mode", mode).
		Str("store", c.StoreDriver).
		Str("postgres_dsn", c.PostgresDSN).
		Str("mongo_url", c.MongoURL).
		Str("redis_addr", c.RedisAddr).
		Str("queue_key", c.RedisQueueKey).
		Str("processing_key", c.RedisProcessingKey).
		Int("workers", c.Workers).
		Str("ai_provider", c.AI.Provider).
		Msg("config")
}

// Close releases clients in reverse order of opening.
func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
	rt.closers = nil
}
