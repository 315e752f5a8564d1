package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Raj72620/meet-relay/internal/config"
	"github.com/Raj72620/meet-relay/internal/database"
	"github.com/Raj72620/meet-relay/internal/directory"
	"github.com/Raj72620/meet-relay/internal/domain"
	"github.com/Raj72620/meet-relay/internal/handler"
	"github.com/Raj72620/meet-relay/internal/hub"
	"github.com/Raj72620/meet-relay/internal/kafka"
	"github.com/Raj72620/meet-relay/internal/registry"
	"github.com/Raj72620/meet-relay/internal/repository"
	"github.com/Raj72620/meet-relay/internal/service"
	"github.com/Raj72620/meet-relay/pkg/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.L().Fatal().Err(err).Msg("failed to load configuration")
	}

	log.Init(log.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty, ServiceName: "meet-relay"})
	logger := log.L()

	logger.Info().Str("host", cfg.Server.Host).Int("port", cfg.Server.Port).Msg("starting meet-relay")

	// Persistent meeting store
	db, err := database.New(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.AutoMigrate(db, &domain.MeetingModel{}); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate meetings table")
	}
	meetingRepo := repository.NewGormMeetingRepository(db)
	logger.Info().Str("driver", cfg.Database.Driver).Msg("connected to meeting store")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Presence registry (optional)
	advertiseAddress := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	var presenceReg registry.Registry
	redisReg, err := registry.NewRedisRegistry(cfg.Redis, advertiseAddress)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to connect to redis, presence registry disabled")
	} else {
		redisReg.StartHeartbeat(ctx)
		defer redisReg.Close()
		presenceReg = redisReg
		logger.Info().Str("address", cfg.Redis.Address).Msg("connected to presence registry")
	}

	// Lifecycle event producer (optional)
	var producer kafka.LifecycleEventProducer
	confluentProducer, err := kafka.NewConfluentProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.Partitions)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to create kafka producer, lifecycle events disabled")
	} else {
		defer confluentProducer.Close()
		producer = confluentProducer
		logger.Info().Str("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("connected to kafka")
	}

	// Core wiring
	dir := directory.New()
	wsHub := hub.NewHub()
	go wsHub.Run()

	sessionSvc := service.NewSessionService(dir, wsHub, meetingRepo, presenceReg, producer)
	wsHandler := handler.NewWSHandler(wsHub, sessionSvc, cfg.WebSocket)

	mux := http.NewServeMux()
	wsHandler.RegisterRoutes(mux)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	server := &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:     log.HTTPMiddleware(logger)(mux),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info().Str("host", cfg.Server.Host).Int("port", cfg.Server.Port).Msg("meet-relay listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down meet-relay")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	wsHub.Stop()
	logger.Info().Msg("meet-relay stopped")
}
