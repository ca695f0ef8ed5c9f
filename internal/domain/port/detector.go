package port

import (
	"context"

	"porosity-bot/internal/domain/entity"
)

// PoreDetector интерфейс детектора пор
type PoreDetector interface {
	// Detect находит поры на изображении и возвращает рамки по убыванию уверенности
	Detect(ctx context.Context, imageData []byte) (entity.DetectionSet, error)
}

// Annotator интерфейс отрисовки результата
type Annotator interface {
	// Annotate рисует рамки и подпись, кодируя результат в формате исходника
	Annotate(imageData []byte, result *entity.AnalysisResult) ([]byte, error)
}
