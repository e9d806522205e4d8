package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"warbler/internal/app"
	"warbler/internal/cache"
	"warbler/internal/config"
	"warbler/internal/observability"
	"warbler/internal/platform/database"
	rabbitmqClient "warbler/internal/platform/rabbitmq"
	redisClient "warbler/internal/platform/redis"
)

type App struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *gorm.DB
	Redis  *redis.Client
	MQConn *amqp.Connection

	Flashes   cache.FlashStore
	Publisher app.ActivityPublisher

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	logger := observability.NewLogger(cfg.App.Env, cfg.App.LogLevel)
	slog.SetDefault(logger)

	a := &App{Config: cfg, Logger: logger, StartedAt: time.Now()}

	a.DB, err = database.New(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(a.DB); err != nil {
		_ = a.Close()
		return nil, err
	}

	flashTTL := time.Duration(cfg.Redis.FlashTTLSeconds) * time.Second
	if cfg.Redis.Addr != "" {
		a.Redis, err = redisClient.New(ctx, cfg.Redis)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.Flashes = cache.NewRedisFlashStore(a.Redis, flashTTL)
	} else {
		logger.Info("redis not configured, keeping flash notices in memory")
		a.Flashes = cache.NewMemoryFlashStore(flashTTL)
	}

	if cfg.RabbitMQ.URL != "" {
		a.MQConn, err = rabbitmqClient.New(ctx, cfg.RabbitMQ)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.Publisher = rabbitmqClient.NewActivityPublisher(a.MQConn, cfg.RabbitMQ.ActivityQueue)
	} else {
		a.Publisher = app.NoopActivityPublisher{}
	}

	return a, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
