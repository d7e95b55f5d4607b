package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/tnqbao/gau-video-service/config"
	"github.com/tnqbao/gau-video-service/consumer/worker"
	infraPkg "github.com/tnqbao/gau-video-service/infra"
	"github.com/tnqbao/gau-video-service/repository"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	infra := infraPkg.InitInfra(cfg)
	repo := repository.InitRepository(infra)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cleanupConsumer := worker.NewCleanupConsumer(infra.RabbitMQ.Channel, infra, repo)
	if err := cleanupConsumer.Start(ctx); err != nil {
		infra.Logger.ErrorWithContextf(ctx, err, "Failed to start Cleanup consumer: %v", err)
		log.Fatalf("Failed to start Cleanup consumer: %v", err)
	}

	emailConsumer := worker.NewEmailConsumer(infra.RabbitMQ.Channel, infra, repo)
	if err := emailConsumer.Start(ctx); err != nil {
		infra.Logger.ErrorWithContextf(ctx, err, "Failed to start Email consumer: %v", err)
		log.Fatalf("Failed to start Email consumer: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	infra.Logger.InfoWithContextf(ctx, "Shutting down consumer...")
	cancel()

	infra.Telemetry.Shutdown(context.Background())
	infra.Logger.InfoWithContextf(ctx, "Consumer exited properly")
}
