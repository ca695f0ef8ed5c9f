package container

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"porosity-bot/config"
	app "porosity-bot/internal/application"
	"porosity-bot/internal/domain/porosity"
	"porosity-bot/internal/domain/port"
	"porosity-bot/internal/infrastructure/inference"
	"porosity-bot/internal/infrastructure/storage"
	"porosity-bot/internal/infrastructure/vision"
)

// FromConfig собирает контейнер по конфигурации. Возвращаемая функция
// освобождает модель и базу журнала.
func FromConfig(cfg *config.Config, log *zap.Logger) (*Container, func(), error) {
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Warn("cleanup", zap.Error(err))
			}
		}
	}

	policy, err := porosity.ParsePolicy(cfg.AspectPolicy)
	if err != nil {
		return nil, nil, err
	}

	detector, closeDetector, err := NewDetector(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, closeDetector)

	results, err := storage.NewFileResultStore(cfg.ResultsDir)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	annotator, err := NewAnnotator(cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	deps := app.AnalysisDeps{
		Detector:   detector,
		Classifier: porosity.NewPoreClassifier(policy),
		Annotator:  annotator,
		Results:    results,
		Logger:     log,
	}

	if cfg.AnalysisDB != "" {
		journal, err := storage.NewSQLiteAnalysisLog(cfg.AnalysisDB)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, journal.Close)
		deps.Journal = journal
	}

	return New(storage.NewMemorySessionRepository(), deps), cleanup, nil
}

// NewAnnotator выбирает отрисовку: с моделью в процессе OpenCV уже
// слинкован, и рамки рисует он, иначе используется аннотатор на чистом Go.
func NewAnnotator(cfg *config.Config) (port.Annotator, error) {
	if cfg.Detector == config.DetectorGoCV {
		a, err := vision.NewGoCVAnnotator()
		if err != nil {
			return nil, fmt.Errorf("create gocv annotator: %w", err)
		}
		return a, nil
	}
	return vision.NewImageAnnotator(), nil
}

// NewDetector создаёт детектор, выбранный в конфигурации.
func NewDetector(cfg *config.Config, log *zap.Logger) (port.PoreDetector, func() error, error) {
	switch cfg.Detector {
	case config.DetectorGoCV:
		d, err := vision.NewGoCVDetector(cfg.ModelPath, vision.DetectorOptions{
			ConfThreshold: cfg.ConfidenceThreshold,
			NMSThreshold:  cfg.NMSThreshold,
			InputSize:     cfg.InputSize,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create gocv detector: %w", err)
		}
		log.Info("using in-process model", zap.String("model", cfg.ModelPath))
		return d, d.Close, nil

	case config.DetectorHTTP:
		d := inference.NewHTTPDetector(cfg.InferenceURL, cfg.ConfidenceThreshold, cfg.InferenceTimeout)
		if err := d.CheckHealth(context.Background()); err != nil {
			log.Warn("inference service not available", zap.Error(err))
		}
		log.Info("using inference service", zap.String("url", cfg.InferenceURL))
		return d, func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown detector %q", cfg.Detector)
}
