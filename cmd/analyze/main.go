// Command analyze прогоняет микрофотографии через детектор одной серией и
// сохраняет размеченные изображения в каталог результатов.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"porosity-bot/config"
	"porosity-bot/internal/container"
	"porosity-bot/internal/logger"
)

// Серия CLI не привязана к пользователю Telegram
const cliSession = 0

func main() {
	resultsDir := flag.String("results", "", "results directory (overrides RESULTS_DIR)")
	policy := flag.String("policy", "", "aspect ratio policy: first or mean (overrides ASPECT_POLICY)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] image...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *resultsDir != "" {
		cfg.ResultsDir = *resultsDir
	}
	if *policy != "" {
		cfg.AspectPolicy = *policy
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync(log)

	services, cleanup, err := container.FromConfig(cfg, log)
	if err != nil {
		log.Fatal("failed to build services", zap.Error(err))
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	failed := 0
	for _, path := range flag.Args() {
		if ctx.Err() != nil {
			break
		}

		data, err := os.ReadFile(path)
		if err != nil {
			log.Error("read image", zap.String("path", path), zap.Error(err))
			failed++
			continue
		}

		out, err := services.AnalysisService.Analyze(ctx, cliSession, cliSession, path, data)
		if err != nil {
			log.Error("analysis failed", zap.String("path", path), zap.Error(err))
			failed++
			continue
		}

		fmt.Printf("%s: %d pores, ratio %.2f, average %.2f, %s -> %s\n",
			path,
			len(out.Result.Boxes),
			out.Result.AspectRatio,
			out.Result.AverageRatio,
			out.Result.Classification,
			out.ResultPath)
	}

	if failed > 0 {
		cleanup()
		logger.Sync(log)
		os.Exit(1)
	}
}
