package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"mathsolve/internal/cache"
	"mathsolve/internal/config"
	"mathsolve/internal/logger"
	"mathsolve/internal/model"
	postgresClient "mathsolve/internal/platform/postgres"
	rabbitmqClient "mathsolve/internal/platform/rabbitmq"
	redisClient "mathsolve/internal/platform/redis"
	"mathsolve/internal/repository"
	"mathsolve/internal/worker"
)

type App struct {
	Config         *config.Config
	Log            *logger.Logger
	DB             *gorm.DB
	Redis          *redis.Client
	Cache          *cache.Cache
	MQConn         *amqp.Connection
	EventPublisher *rabbitmqClient.EventPublisher
	EventWorker    *worker.SolveEventWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger failed: %w", err)
	}

	db, err := postgresClient.New(ctx, cfg.PostgresDSN())
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.User{}, &model.Question{}, &model.Answer{}, &model.SolveEvent{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		Log:       log,
		DB:        db,
		Redis:     redisCli,
		Cache:     cache.New(redisCli, log),
		StartedAt: time.Now(),
	}

	if cfg.RabbitMQ.Enabled {
		mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
		if err != nil {
			return nil, err
		}
		app.MQConn = mqConn
		app.EventPublisher = rabbitmqClient.NewEventPublisher(mqConn, cfg.RabbitMQ.SolveEventQueue)

		eventRepo := repository.NewSolveEventRepository(db)
		app.EventWorker = worker.NewSolveEventWorker(mqConn, eventRepo, cfg.RabbitMQ.SolveEventQueue, log)
		if err := app.EventWorker.Start(ctx); err != nil {
			return nil, fmt.Errorf("start solve event worker failed: %w", err)
		}
	}

	return app, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.EventWorker != nil {
		a.EventWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
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
	if a.Log != nil {
		a.Log.Sync()
	}
	return closeErr
}
