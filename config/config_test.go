package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var keys = []string{
	"TELEGRAM_TOKEN", "DETECTOR", "MODEL_PATH", "INFERENCE_URL", "INFERENCE_TIMEOUT",
	"CONFIDENCE_THRESHOLD", "NMS_THRESHOLD", "INPUT_SIZE", "ASPECT_POLICY",
	"RESULTS_DIR", "ANALYSIS_DB", "LOG_MODE",
}

// clearEnv сбрасывает переменные и уходит во временный каталог, чтобы не
// подхватить .env разработчика.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		// Setenv запоминает исходное значение для восстановления
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, DetectorHTTP, cfg.Detector)
	require.Equal(t, "http://localhost:5000/predict", cfg.InferenceURL)
	require.Equal(t, 30*time.Second, cfg.InferenceTimeout)
	require.Equal(t, 0.25, cfg.ConfidenceThreshold)
	require.Equal(t, 0.45, cfg.NMSThreshold)
	require.Equal(t, 640, cfg.InputSize)
	require.Equal(t, "first", cfg.AspectPolicy)
	require.Equal(t, "./results", cfg.ResultsDir)
	require.Empty(t, cfg.AnalysisDB)
	require.Equal(t, "debug", cfg.LogMode)
}

func TestLoad_FromEnvAndDotenv(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.WriteFile(".env", []byte("TELEGRAM_TOKEN=from-dotenv\nRESULTS_DIR=/tmp/out\n"), 0o600))
	t.Setenv("DETECTOR", "gocv")
	t.Setenv("CONFIDENCE_THRESHOLD", "0.5")
	t.Setenv("INPUT_SIZE", "320")
	t.Setenv("INFERENCE_TIMEOUT", "2s")
	t.Setenv("ASPECT_POLICY", "mean")
	t.Setenv("LOG_MODE", "release")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "from-dotenv", cfg.TelegramToken)
	require.Equal(t, "/tmp/out", cfg.ResultsDir)
	require.Equal(t, DetectorGoCV, cfg.Detector)
	require.Equal(t, 0.5, cfg.ConfidenceThreshold)
	require.Equal(t, 320, cfg.InputSize)
	require.Equal(t, 2*time.Second, cfg.InferenceTimeout)
	require.Equal(t, "mean", cfg.AspectPolicy)
	require.Equal(t, LogModeRelease, cfg.LogMode)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"DETECTOR":             "tflite",
		"CONFIDENCE_THRESHOLD": "high",
		"NMS_THRESHOLD":        "1.5",
		"INPUT_SIZE":           "0",
		"INFERENCE_TIMEOUT":    "soon",
		"ASPECT_POLICY":        "median",
		"LOG_MODE":             "relase",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, val)
			_, err := Load()
			require.Error(t, err)
		})
	}
}
