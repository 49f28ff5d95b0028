package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/huntclub/hunt-api/internal/infra"
	"github.com/huntclub/hunt-api/internal/projection"
	"github.com/joho/godotenv"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("score consumer failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	// The tally is held in memory, so each boot joins a fresh group and
	// rebuilds it from the start of the topic.
	groupID := infra.ReplayGroupID(cfg.KafkaGroupID)
	consumer := infra.NewKafkaConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, groupID, cfg.KafkaEnabled, logger)
	defer consumer.Close()
	if !consumer.Enabled() {
		return errors.New("KAFKA_ENABLED is false or KAFKA_BROKERS is empty")
	}

	projector := projection.NewProjector(projection.NewInMemoryStore(), logger)
	logger.Info("score consumer starting", "topic", cfg.KafkaTopic, "group", groupID)

	for {
		msg, err := consumer.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("score consumer shutting down")
				return nil
			}
			return fmt.Errorf("read message: %w", err)
		}

		score, err := projector.Handle(ctx, msg.Value)
		if err != nil {
			logger.Error("skipping event", "partition", msg.Partition, "offset", msg.Offset, "error", err)
			continue
		}
		if score == nil {
			continue
		}
		logger.Info("team score",
			"team", score.Team,
			"points", score.Points,
			"gifts", score.Gifts,
			"enigmas", score.Enigmas,
			"last_code", score.LastCode,
			"offset", msg.Offset,
		)
	}
}
