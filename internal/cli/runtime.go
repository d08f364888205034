package cli

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/itayyoh/k8s-questions-gen/internal/app"
	"github.com/itayyoh/k8s-questions-gen/internal/config"
	"github.com/itayyoh/k8s-questions-gen/internal/infra/httpapi"
	"github.com/itayyoh/k8s-questions-gen/internal/infra/memory"
	"github.com/itayyoh/k8s-questions-gen/internal/infra/postgres"
	rediscache "github.com/itayyoh/k8s-questions-gen/internal/infra/redis"
)

// runtime holds the wired dependencies shared by every command.
type runtime struct {
	cfg     config.Config
	client  *httpapi.Client
	content *app.ContentService
	history *app.HistoryRecorder
	factory *app.WorkspaceFactory
	redis   *redis.Client
	pool    *pgxpool.Pool
}

func loadRuntime(ctx context.Context, path string) (*runtime, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return newRuntime(ctx, cfg)
}

func newRuntime(ctx context.Context, cfg config.Config) (*runtime, error) {
	rt := &runtime{cfg: cfg}
	rt.client = httpapi.NewClient(cfg.API.BaseURL, config.Duration(cfg.API.Timeout, 10*time.Second))

	if cfg.Redis.Addr != "" {
		rt.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.pool = pool
	}

	contentTTL := config.Duration(cfg.Content.TTL, 10*time.Minute)
	var loader app.ContentLoader
	if rt.redis != nil {
		loader = rediscache.NewContentRepository(rt.redis, rt.client, contentTTL)
	} else {
		loader = memory.NewContentRepository(rt.client, contentTTL)
	}
	rt.content = app.NewContentService(loader, rt.client)

	var history app.HistoryRepository = memory.NewHistoryRepository()
	if rt.pool != nil {
		history = postgres.NewHistoryRepository(rt.pool)
	}
	rt.history = app.NewHistoryRecorder(history)

	rt.factory = app.NewWorkspaceFactory(rt.client, rt.content, rt.history,
		app.WithTickInterval(config.Duration(cfg.Interview.Tick, time.Second)))
	return rt, nil
}

// workspaces returns a Redis-tracked store when Redis is configured.
func (rt *runtime) workspaces() app.WorkspaceRepository {
	if rt.redis != nil {
		return rediscache.NewWorkspaceStore(rt.redis, config.Duration(rt.cfg.Redis.TTL, 10*time.Minute), rt.factory.New)
	}
	return memory.NewWorkspaceStore(rt.factory.New)
}

func (rt *runtime) Close() {
	if rt.redis != nil {
		_ = rt.redis.Close()
	}
	if rt.pool != nil {
		rt.pool.Close()
	}
}
