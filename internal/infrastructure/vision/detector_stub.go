//go:build !gocv
// +build !gocv

package vision

import (
	"context"

	"porosity-bot/internal/domain/entity"
)

// GoCVDetector заглушка для сборки без OpenCV.
type GoCVDetector struct{}

// NewGoCVDetector возвращает ошибку, если сборка без тега gocv.
func NewGoCVDetector(modelPath string, opts DetectorOptions) (*GoCVDetector, error) {
	_ = modelPath
	_ = opts
	return nil, ErrGoCVDisabled
}

// Detect возвращает ошибку, если сборка без тега gocv.
func (d *GoCVDetector) Detect(ctx context.Context, imageData []byte) (entity.DetectionSet, error) {
	_ = ctx
	_ = imageData
	return nil, ErrGoCVDisabled
}

// Close ничего не делает
func (d *GoCVDetector) Close() error {
	return nil
}
