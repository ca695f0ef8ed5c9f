// Package inference обращается к внешнему сервису с YOLO-моделью по HTTP.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"porosity-bot/internal/domain/entity"
	"porosity-bot/internal/domain/port"
)

// box рамка в ответе сервиса: углы xyxy и уверенность
type box struct {
	X1         float64 `json:"x1"`
	Y1         float64 `json:"y1"`
	X2         float64 `json:"x2"`
	Y2         float64 `json:"y2"`
	Confidence float64 `json:"confidence"`
}

type predictResponse struct {
	Detections []box  `json:"detections"`
	Error      string `json:"error,omitempty"`
}

// HTTPDetector отправляет изображение в сервис инференса
type HTTPDetector struct {
	predictURL    string
	confThreshold float64
	client        *http.Client
}

// NewHTTPDetector создаёт клиент. predictURL — полный адрес ручки /predict.
func NewHTTPDetector(predictURL string, confThreshold float64, timeout time.Duration) *HTTPDetector {
	return &HTTPDetector{
		predictURL:    predictURL,
		confThreshold: confThreshold,
		client:        &http.Client{Timeout: timeout},
	}
}

// Detect выполняет инференс через внешний сервис
func (d *HTTPDetector) Detect(ctx context.Context, imageData []byte) (entity.DetectionSet, error) {
	// Создаём multipart запрос
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "image")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(imageData)); err != nil {
		return nil, fmt.Errorf("copy image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.predictURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	var result predictResponse
	if resp.StatusCode != http.StatusOK {
		_ = json.NewDecoder(resp.Body).Decode(&result)
		if result.Error != "" {
			return nil, fmt.Errorf("inference failed with status %d: %s", resp.StatusCode, result.Error)
		}
		return nil, fmt.Errorf("inference failed with status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	detections := make(entity.DetectionSet, 0, len(result.Detections))
	for _, b := range result.Detections {
		detections = append(detections, entity.BoundingBox{
			X1:         b.X1,
			Y1:         b.Y1,
			X2:         b.X2,
			Y2:         b.Y2,
			Confidence: b.Confidence,
		})
	}

	detections = detections.FilterByConfidence(d.confThreshold)
	detections.SortByConfidence()
	return detections, nil
}

// CheckHealth проверяет доступность сервиса
func (d *HTTPDetector) CheckHealth(ctx context.Context) error {
	target, err := healthURL(d.predictURL)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inference service unhealthy: %d", resp.StatusCode)
	}
	return nil
}

// healthURL заменяет последний сегмент пути ручки предсказания на /health,
// отбрасывая query и fragment.
func healthURL(predictURL string) (string, error) {
	u, err := url.Parse(predictURL)
	if err != nil {
		return "", fmt.Errorf("parse inference url: %w", err)
	}
	u.Path = path.Join(path.Dir(strings.TrimSuffix(u.Path, "/")), "health")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

var _ port.PoreDetector = (*HTTPDetector)(nil)
