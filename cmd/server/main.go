package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/shashwat0010/streamify-chat-app/internal/cache"
	"github.com/shashwat0010/streamify-chat-app/internal/config"
	"github.com/shashwat0010/streamify-chat-app/internal/database"
	"github.com/shashwat0010/streamify-chat-app/internal/logger"
	"github.com/shashwat0010/streamify-chat-app/internal/server"
)

func main() {
	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.Service)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// 데이터베이스 연결
	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.Ping(db); err != nil {
		log.Fatal("database ping failed", zap.Error(err))
	}
	log.Info("database connected", zap.String("host", cfg.Database.Host), zap.String("db", cfg.Database.DBName))

	// Redis (선택)
	var redisClient *cache.RedisClient
	if cfg.Redis.Enabled() {
		redisClient, err = cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Recording.CacheTTL, log.Named("redis"))
		if err != nil {
			log.Fatal("redis connection failed", zap.Error(err))
		}
		defer redisClient.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 서버 생성 및 설정
	srv := server.New(cfg, db, redisClient, log)
	srv.SetupMiddleware()
	srv.SetupRoutes()

	if err := srv.Start(ctx); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
	log.Info("server stopped")
}
