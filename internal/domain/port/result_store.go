package port

import (
	"context"

	"porosity-bot/internal/domain/entity"
)

// ResultStore сохраняет размеченные изображения
type ResultStore interface {
	// Save записывает результат для исходного файла и возвращает путь
	Save(ctx context.Context, sourceName string, data []byte) (string, error)
}

// AnalysisLog журнал выполненных анализов
type AnalysisLog interface {
	Record(ctx context.Context, rec entity.AnalysisRecord) error
	// List возвращает последние записи сессии, новые первыми
	List(ctx context.Context, sessionID int64, limit int) ([]entity.AnalysisRecord, error)
}
