package entity

import (
	"fmt"
	"time"
)

// AnalysisResult итог анализа одного изображения.
type AnalysisResult struct {
	ImageWidth     int            // ширина изображения
	ImageHeight    int            // высота изображения
	Boxes          DetectionSet   // найденные поры
	AspectRatio    float64        // соотношение сторон этого изображения
	AverageRatio   float64        // взвешенное среднее по сессии
	Samples        int            // сколько изображений вошло в среднее
	Classification Classification // тип пор по среднему
}

// Caption возвращает две строки подписи, которые наносятся на изображение.
func (r *AnalysisResult) Caption() []string {
	return []string{
		fmt.Sprintf("Classification: %s", r.Classification),
		fmt.Sprintf("Aspect Ratio: %.2f", r.AverageRatio),
	}
}

// AnalysisRecord запись журнала анализов
type AnalysisRecord struct {
	ID             string
	SessionID      int64
	SourceName     string
	ResultPath     string
	Detections     int
	AspectRatio    float64
	AverageRatio   float64
	Classification Classification
	CreatedAt      time.Time
}
