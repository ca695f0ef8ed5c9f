package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"porosity-bot/internal/domain/porosity"
)

// Варианты детектора
const (
	DetectorGoCV = "gocv" // ONNX-модель внутри процесса
	DetectorHTTP = "http" // внешний сервис инференса
)

// Режимы логирования
const (
	LogModeDebug   = "debug"
	LogModeRelease = "release"
)

type Config struct {
	TelegramToken string

	Detector            string
	ModelPath           string
	InferenceURL        string
	InferenceTimeout    time.Duration
	ConfidenceThreshold float64
	NMSThreshold        float64
	InputSize           int

	AspectPolicy string
	ResultsDir   string
	AnalysisDB   string // пусто — журнал анализов отключён

	LogMode string
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		Detector:      getEnv("DETECTOR", DetectorHTTP),
		ModelPath:     getEnv("MODEL_PATH", "./models/porosity_model.onnx"),
		InferenceURL:  getEnv("INFERENCE_URL", "http://localhost:5000/predict"),
		AspectPolicy:  getEnv("ASPECT_POLICY", "first"),
		ResultsDir:    getEnv("RESULTS_DIR", "./results"),
		AnalysisDB:    os.Getenv("ANALYSIS_DB"),
		LogMode:       getEnv("LOG_MODE", LogModeDebug),
	}

	var err error
	if cfg.InferenceTimeout, err = getDuration("INFERENCE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ConfidenceThreshold, err = getFloat("CONFIDENCE_THRESHOLD", 0.25); err != nil {
		return nil, err
	}
	if cfg.NMSThreshold, err = getFloat("NMS_THRESHOLD", 0.45); err != nil {
		return nil, err
	}
	if cfg.InputSize, err = getInt("INPUT_SIZE", 640); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Detector != DetectorGoCV && c.Detector != DetectorHTTP {
		return fmt.Errorf("DETECTOR must be %q or %q, got %q", DetectorGoCV, DetectorHTTP, c.Detector)
	}
	if _, err := porosity.ParsePolicy(c.AspectPolicy); err != nil {
		return fmt.Errorf("ASPECT_POLICY: %w", err)
	}
	if c.LogMode != LogModeDebug && c.LogMode != LogModeRelease {
		return fmt.Errorf("LOG_MODE must be %q or %q, got %q", LogModeDebug, LogModeRelease, c.LogMode)
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("CONFIDENCE_THRESHOLD must be within [0, 1], got %v", c.ConfidenceThreshold)
	}
	if c.NMSThreshold < 0 || c.NMSThreshold > 1 {
		return fmt.Errorf("NMS_THRESHOLD must be within [0, 1], got %v", c.NMSThreshold)
	}
	if c.InputSize <= 0 {
		return fmt.Errorf("INPUT_SIZE must be positive, got %d", c.InputSize)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getFloat(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return f, nil
}

func getInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}
