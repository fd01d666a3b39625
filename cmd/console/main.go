package main

import (
	"context"
	"time"

	"hr-console/internal/app"
	"hr-console/internal/bootstrap"
	"hr-console/internal/config"
	"hr-console/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config failed", zap.Error(err))
	}

	apperror.Init()
	r := gin.Default()

	// build dependency + routes
	infra, err := app.BuildApp(context.Background(), r, cfg)
	if err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}

	bootstrap.StartHTTPServer(
		r,
		bootstrap.ServerConfig{
			Port:        cfg.Port,
			ReadTimeout: 5 * time.Second,
			// no write timeout: /stream endpoints hold the response open
			WriteTimeout: 0,
			IdleTimeout:  60 * time.Second,
		},
		infra.Audit,
		infra.Closers...,
	)
}
