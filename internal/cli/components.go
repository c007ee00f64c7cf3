package cli

import (
	"context"
	"fmt"
	"time"

	"ai-quiz-service/internal/app"
	"ai-quiz-service/internal/config"
	"ai-quiz-service/internal/generator"
	"ai-quiz-service/internal/infra/memory"
	pghistory "ai-quiz-service/internal/infra/postgres"
	redishistory "ai-quiz-service/internal/infra/redis"
	"ai-quiz-service/internal/logging"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newLogger(cfg config.Config) *zap.Logger {
	return logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
}

func newRequester(cfg config.Config, logger *zap.Logger) *generator.Requester {
	return generator.NewRequester(generator.Config{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		Referer: cfg.LLM.Referer,
		Title:   cfg.LLM.Title,
		Timeout: config.TTLDuration(cfg.LLM.Timeout, 60*time.Second),
	}, logger.Named("generator"))
}

// openHistory connects the configured history backend. The returned func releases
// any connection it opened.
func openHistory(ctx context.Context, cfg config.Config, logger *zap.Logger) (app.HistoryRepository, func(), error) {
	switch cfg.History.Backend {
	case "file":
		store, err := memory.OpenFileHistoryStore(cfg.History.File)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("history backend ready", zap.String("backend", "file"), zap.String("path", cfg.History.File))
		return store, func() {}, nil
	case "memory":
		logger.Warn("history backend memory keeps results only until the process exits")
		return memory.NewHistoryStore(), func() {}, nil
	case "redis":
		if cfg.Redis.Addr == "" {
			return nil, nil, fmt.Errorf("history backend redis requires redis.addr")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		logger.Info("history backend ready", zap.String("backend", "redis"), zap.String("addr", cfg.Redis.Addr))
		return redishistory.NewHistoryStore(client, cfg.History.RedisKey), func() { client.Close() }, nil
	case "postgres":
		if cfg.Postgres.URL == "" {
			return nil, nil, fmt.Errorf("history backend postgres requires postgres.url")
		}
		if err := runMigrationsWithConfig(ctx, cfg, logger); err != nil {
			return nil, nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		logger.Info("history backend ready", zap.String("backend", "postgres"))
		return pghistory.NewHistoryStore(pool), pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown history backend %q", cfg.History.Backend)
}
