//go:build !gocv
// +build !gocv

package vision

import "porosity-bot/internal/domain/entity"

// GoCVAnnotator заглушка для сборки без OpenCV.
type GoCVAnnotator struct{}

// NewGoCVAnnotator возвращает ошибку, если сборка без тега gocv.
func NewGoCVAnnotator() (*GoCVAnnotator, error) {
	return nil, ErrGoCVDisabled
}

// Annotate возвращает ошибку, если сборка без тега gocv.
func (a *GoCVAnnotator) Annotate(imageData []byte, result *entity.AnalysisResult) ([]byte, error) {
	_ = imageData
	_ = result
	return nil, ErrGoCVDisabled
}
