package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/hotelportal/config"
	"github.com/Domenick1991/hotelportal/internal/email"
	"github.com/Domenick1991/hotelportal/internal/kafka"
	"github.com/Domenick1991/hotelportal/internal/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl, err := logger.New(cfg.Log.Env, cfg.Log.Level)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()

	if !cfg.Kafka.Enabled() {
		zl.Fatal("kafka brokers and events topic must be configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	probe := kafka.NewProducer(cfg.Kafka.Brokers, zl.Named("kafka"))
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := probe.CheckConnection(probeCtx); err != nil {
		zl.Warn("kafka not reachable yet", zap.Error(err))
	}
	cancel()
	probe.Close()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.EventsTopic, zl.Named("kafka"))
	defer consumer.Close()

	sender := email.NewSender(zl.Named("email"))

	zl.Info("worker started", zap.String("topic", cfg.Kafka.EventsTopic), zap.String("group", cfg.Kafka.GroupID))
	err = consumer.Consume(ctx, func(ctx context.Context, event kafka.PortalEvent) error {
		if err := sender.Send(ctx, event); err != nil {
			zl.Warn("notification failed", zap.String("type", event.Type), zap.Error(err))
		}
		return nil
	})
	if err != nil {
		zl.Error("consumer stopped", zap.Error(err))
		return
	}
	zl.Info("worker stopped")
}
