// Package logger собирает zap-логгер для бота и CLI.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New создаёт логгер: в режиме release — продовый JSON, иначе
// консольный с цветными уровнями.
func New(mode string) (*zap.Logger, error) {
	var config zap.Config

	if mode == "release" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	return config.Build()
}

// Sync сбрасывает буферы, ошибку синхронизации stderr игнорируем.
func Sync(log *zap.Logger) {
	if log != nil {
		_ = log.Sync()
	}
}
