package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"porosity-bot/config"
	telegram "porosity-bot/internal/api"
	"porosity-bot/internal/container"
	"porosity-bot/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync(log)

	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}

	// Собираем сервисы приложения
	appContainer, cleanup, err := container.FromConfig(cfg, log)
	if err != nil {
		log.Fatal("failed to build services", zap.Error(err))
	}
	defer cleanup()

	// Создаём бота
	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer, log)
	if err != nil {
		log.Fatal("failed to create bot", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("bot is running",
		zap.String("detector", cfg.Detector),
		zap.String("results_dir", cfg.ResultsDir))
	if err := bot.Run(ctx); err != nil {
		log.Error("bot error", zap.Error(err))
	}
	log.Info("bot stopped")
}
