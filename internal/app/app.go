package app

import (
	"context"
	"net/http"

	"hr-console/internal/apiclient"
	"hr-console/internal/audit"
	"hr-console/internal/config"
	"hr-console/internal/middleware"
	"hr-console/internal/notify"
	"hr-console/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisMaxRetries = 5

// Infra is what main needs to shut the console down cleanly.
type Infra struct {
	Audit   audit.Logger
	Closers []func() error
}

func BuildApp(ctx context.Context, router *gin.Engine, cfg config.Config) (*Infra, error) {
	logger := zap.L().Named("app")
	infra := &Infra{}

	// 1. Setup Infrastructure
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		client, err := connection.ConnectRedisWithRetry(ctx, cfg.RedisAddr, redisMaxRetries)
		if err != nil {
			return nil, err
		}
		rdb = client
		infra.Closers = append(infra.Closers, rdb.Close)
		logger.Info("redis connection established", zap.String("addr", cfg.RedisAddr))
	}

	var store notify.Store
	if rdb != nil {
		store = notify.NewRedisStore(rdb, notify.DefaultRedisKey, notify.DefaultTTL)
	} else {
		store = notify.NewMemoryStore()
	}

	auditSinks := audit.Multi{audit.NewStdoutLogger()}
	if len(cfg.KafkaBrokers) > 0 {
		writer := audit.NewKafkaWriter(cfg.KafkaBrokers)
		auditSinks = append(auditSinks, audit.NewKafkaLogger(writer, audit.Topic))
		infra.Closers = append(infra.Closers, writer.Close)
		logger.Info("audit events published to kafka", zap.Strings("brokers", cfg.KafkaBrokers))
	}
	infra.Audit = auditSinks

	client := apiclient.New(apiclient.Config{
		BaseURL:   cfg.APIBaseURL,
		Timeout:   cfg.APITimeout,
		UserAgent: "hr-console",
	})

	router.Use(
		middleware.RequestID(),
		middleware.CORS(cfg.CORSOrigins),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Register Modules & Routes
	registerModules(router, modules{
		client:         client,
		rdb:            rdb,
		store:          store,
		audit:          infra.Audit,
		searchDebounce: cfg.SearchDebounce,
	})

	return infra, nil
}
