package telegram

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"porosity-bot/internal/domain/entity"
	"porosity-bot/internal/domain/porosity"
)

// formatResult текст ответа с итогом анализа одного изображения
func formatResult(r *entity.AnalysisResult) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(r.Caption(), "\n"))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "🔎 Найдено пор: %d\n", len(r.Boxes))
	fmt.Fprintf(&sb, "📐 Соотношение сторон на снимке: %.2f\n", r.AspectRatio)
	fmt.Fprintf(&sb, "📊 Снимков в серии: %d", r.Samples)
	if !r.Classification.Known() {
		sb.WriteString("\n\n⚠️ Соотношение вне известных диапазонов (1–14), тип пор не определён.")
	}
	return sb.String()
}

// formatHistory текст со сводкой серии замеров
func formatHistory(h *entity.MeasurementHistory) string {
	if h.Len() == 0 {
		return msgHistoryEmpty
	}
	var sb strings.Builder
	sb.WriteString("📊 Серия замеров:\n")
	ratios, weights := h.Ratios(), h.Weights()
	for i := range ratios {
		fmt.Fprintf(&sb, "%d. соотношение %.2f, пор: %d\n", i+1, ratios[i], weights[i])
	}
	fmt.Fprintf(&sb, "Всего пор: %d", h.TotalWeight())
	return sb.String()
}

// formatRecent текст со списком последних анализов из журнала
func formatRecent(records []entity.AnalysisRecord) string {
	if len(records) == 0 {
		return msgHistoryEmpty
	}
	var sb strings.Builder
	sb.WriteString("🗂 Последние анализы:\n")
	for _, rec := range records {
		fmt.Fprintf(&sb, "%s — %s, среднее %.2f (%s)\n",
			rec.CreatedAt.Format("02.01 15:04"),
			filepath.Base(rec.SourceName),
			rec.AverageRatio,
			rec.Classification)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// errorMessage переводит ошибку анализа в сообщение для пользователя
func errorMessage(err error) string {
	switch {
	case errors.Is(err, porosity.ErrNoDetections):
		return msgNoPores
	case errors.Is(err, porosity.ErrDegenerateBox):
		return msgDegenerateBox
	case errors.Is(err, porosity.ErrZeroTotalWeight):
		return msgZeroWeight
	default:
		return msgProcessingError
	}
}

// isImageDocument проверяет, что документ — изображение поддерживаемого формата
func isImageDocument(fileName, mimeType string) bool {
	if strings.HasPrefix(mimeType, "image/") {
		return true
	}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".png", ".jpg", ".jpeg", ".bmp", ".gif":
		return true
	}
	return false
}

// sendAsPhoto сообщает, примет ли Telegram файл как фото
func sendAsPhoto(fileName string) bool {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}
