//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"gocv.io/x/gocv"

	"porosity-bot/internal/domain/entity"
	"porosity-bot/internal/domain/port"
)

// GoCVDetector запускает обученную YOLO-модель (ONNX) через модуль DNN OpenCV.
type GoCVDetector struct {
	opts DetectorOptions

	mu  sync.Mutex
	net gocv.Net
}

// NewGoCVDetector загружает модель из modelPath.
func NewGoCVDetector(modelPath string, opts DetectorOptions) (*GoCVDetector, error) {
	net := gocv.ReadNetFromONNX(modelPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load model %s", modelPath)
	}
	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		net.Close()
		return nil, fmt.Errorf("set backend: %w", err)
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		net.Close()
		return nil, fmt.Errorf("set target: %w", err)
	}
	if opts.InputSize <= 0 {
		opts.InputSize = DefaultDetectorOptions().InputSize
	}
	return &GoCVDetector{opts: opts, net: net}, nil
}

// Detect находит поры и возвращает рамки по убыванию уверенности.
func (d *GoCVDetector) Detect(ctx context.Context, imageData []byte) (entity.DetectionSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	// Дополняем до квадрата справа и снизу, чтобы масштаб по осям совпадал.
	side := maxInt(mat.Cols(), mat.Rows())
	square := gocv.NewMat()
	defer square.Close()
	gocv.CopyMakeBorder(mat, &square, 0, side-mat.Rows(), 0, side-mat.Cols(), gocv.BorderConstant, color.RGBA{A: 255})

	size := d.opts.InputSize
	blob := gocv.BlobFromImage(square, 1.0/255.0, image.Pt(size, size), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.mu.Lock()
	d.net.SetInput(blob, "")
	out := d.net.Forward("")
	d.mu.Unlock()
	defer out.Close()

	scale := float64(side) / float64(size)
	return d.parseOutput(out, scale, mat.Cols(), mat.Rows())
}

// parseOutput разбирает выход YOLOv8 [1, 4+классы, якоря] (или
// транспонированный) и применяет NMS.
func (d *GoCVDetector) parseOutput(out gocv.Mat, scale float64, width, height int) (entity.DetectionSet, error) {
	dims := out.Size()
	if len(dims) != 3 {
		return nil, fmt.Errorf("unexpected output shape %v", dims)
	}
	data, err := out.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}

	rows, anchors := dims[1], dims[2]
	transposed := rows > anchors
	if transposed {
		rows, anchors = anchors, rows
	}
	if rows < 5 {
		return nil, fmt.Errorf("unexpected output shape %v", dims)
	}
	at := func(row, anchor int) float64 {
		if transposed {
			return float64(data[anchor*rows+row])
		}
		return float64(data[row*anchors+anchor])
	}

	rects := make([]image.Rectangle, 0)
	scores := make([]float32, 0)
	boxes := make(entity.DetectionSet, 0)
	for i := 0; i < anchors; i++ {
		best := 0.0
		for c := 4; c < rows; c++ {
			if s := at(c, i); s > best {
				best = s
			}
		}
		if best < d.opts.ConfThreshold {
			continue
		}

		cx, cy, w, h := at(0, i)*scale, at(1, i)*scale, at(2, i)*scale, at(3, i)*scale
		b := entity.BoundingBox{
			X1:         clamp(cx-w/2, 0, float64(width)),
			Y1:         clamp(cy-h/2, 0, float64(height)),
			X2:         clamp(cx+w/2, 0, float64(width)),
			Y2:         clamp(cy+h/2, 0, float64(height)),
			Confidence: best,
		}
		boxes = append(boxes, b)
		rects = append(rects, b.Rect())
		scores = append(scores, float32(best))
	}
	if len(boxes) == 0 {
		return entity.DetectionSet{}, nil
	}

	keep := gocv.NMSBoxes(rects, scores, float32(d.opts.ConfThreshold), float32(d.opts.NMSThreshold))
	result := make(entity.DetectionSet, 0, len(keep))
	for _, idx := range keep {
		result = append(result, boxes[idx])
	}
	result.SortByConfidence()
	return result, nil
}

// Close освобождает сеть
func (d *GoCVDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}

// decodeToMat превращает байты изображения в gocv.Mat.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	return gocv.NewMat(), errors.New("failed to decode image")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var _ port.PoreDetector = (*GoCVDetector)(nil)
