package vision

import "errors"

// ErrGoCVDisabled возвращается, если бинарник собран без тега gocv.
var ErrGoCVDisabled = errors.New("gocv build tag is not enabled")

// DetectorOptions параметры инференса YOLO-модели.
type DetectorOptions struct {
	ConfThreshold float64 // минимальная уверенность рамки
	NMSThreshold  float64 // порог IoU для подавления немаксимумов
	InputSize     int     // сторона квадратного входа сети
}

// DefaultDetectorOptions значения, с которыми обучалась модель пористости.
func DefaultDetectorOptions() DetectorOptions {
	return DetectorOptions{
		ConfThreshold: 0.25,
		NMSThreshold:  0.45,
		InputSize:     640,
	}
}
