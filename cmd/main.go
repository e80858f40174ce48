package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"vehicle-alert-service/internal/alert"
	"vehicle-alert-service/internal/api"
	"vehicle-alert-service/internal/config"
	"vehicle-alert-service/internal/db"
	"vehicle-alert-service/internal/feed"
	"vehicle-alert-service/internal/logging"
	"vehicle-alert-service/internal/producer"
	"vehicle-alert-service/internal/scheduler"
	"vehicle-alert-service/internal/stream"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := logging.New(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	// Connect to database
	dbConn, err := db.New(cfg.DB.DSN)
	if err != nil {
		logger.Errorf("Failed to connect to database: %v", err)
		log.Fatalf("Database connection failed: %v", err)
	}
	defer dbConn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Registry and dispatcher
	registry := stream.NewRegistry(cfg.Stream.Timeout, logger)
	dispatcher := alert.NewDispatcher(registry, dbConn, logger)

	// Change feed watchers
	consumableSource, err := feed.NewKafkaSource(cfg.Kafka.Broker, cfg.Kafka.ConsumableTopic, cfg.Kafka.GroupID, logger)
	if err != nil {
		log.Fatalf("Failed to open consumable change feed: %v", err)
	}
	defer consumableSource.Close()

	drivingSource, err := feed.NewKafkaSource(cfg.Kafka.Broker, cfg.Kafka.DrivingTopic, cfg.Kafka.GroupID, logger)
	if err != nil {
		log.Fatalf("Failed to open driving pattern change feed: %v", err)
	}
	defer drivingSource.Close()

	consumableWatcher := producer.NewConsumableWatcher(consumableSource, dispatcher, logger)
	go func() {
		if err := consumableWatcher.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Fatalf("Consumable change feed lost: %v", err)
		}
	}()

	drivingWatcher := producer.NewDrivingWatcher(drivingSource, dispatcher, logger)
	go func() {
		if err := drivingWatcher.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Fatalf("Driving pattern change feed lost: %v", err)
		}
	}()

	// Daily inspection scheduler
	sched, err := scheduler.New(dbConn, dbConn, dispatcher, cfg.Schedule.Timezone, logger)
	if err != nil {
		log.Fatalf("Failed to init scheduler: %v", err)
	}
	go sched.Run(ctx)

	// Start API server
	handler := api.NewHandler(registry, dispatcher, dbConn, logger)
	router := api.NewRouter(handler, logger)
	go func() {
		logger.Infof("Starting API server on %s", cfg.API.Port)
		if err := router.Run(cfg.API.Port); err != nil {
			logger.Errorf("API server failed: %v", err)
		}
	}()

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	logger.Infof("Shutting down...")
	cancel()
	logger.Infof("Service stopped")
}
