package entity

import (
	"image"
	"math"
	"sort"
)

// BoundingBox прямоугольник найденной поры в пиксельных координатах изображения
type BoundingBox struct {
	X1         float64 // левый край
	Y1         float64 // верхний край
	X2         float64 // правый край
	Y2         float64 // нижний край
	Confidence float64 // уверенность детектора, 0..1
}

// Width возвращает ширину рамки
func (b BoundingBox) Width() float64 {
	return b.X2 - b.X1
}

// Height возвращает высоту рамки
func (b BoundingBox) Height() float64 {
	return b.Y2 - b.Y1
}

// Center возвращает координаты центра рамки
func (b BoundingBox) Center() (x, y float64) {
	return b.X1 + b.Width()/2, b.Y1 + b.Height()/2
}

// Rect переводит рамку в целочисленный прямоугольник для отрисовки.
func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(
		int(math.Round(b.X1)),
		int(math.Round(b.Y1)),
		int(math.Round(b.X2)),
		int(math.Round(b.Y2)),
	)
}

// DetectionSet рамки, найденные на одном изображении. Порядок значим:
// детекторы отдают их по убыванию уверенности.
type DetectionSet []BoundingBox

// SortByConfidence упорядочивает рамки по убыванию уверенности, сохраняя
// порядок рамок с равной уверенностью.
func (s DetectionSet) SortByConfidence() {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Confidence > s[j].Confidence
	})
}

// FilterByConfidence возвращает рамки с уверенностью не ниже порога.
func (s DetectionSet) FilterByConfidence(threshold float64) DetectionSet {
	out := make(DetectionSet, 0, len(s))
	for _, b := range s {
		if b.Confidence >= threshold {
			out = append(out, b)
		}
	}
	return out
}
