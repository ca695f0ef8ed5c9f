package telegram

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"porosity-bot/internal/domain/entity"
	"porosity-bot/internal/domain/porosity"
)

func TestFormatResult(t *testing.T) {
	r := &entity.AnalysisResult{
		Boxes:          entity.DetectionSet{{}, {}, {}},
		AspectRatio:    3.5,
		AverageRatio:   3.25,
		Samples:        2,
		Classification: entity.EjectionPores,
	}
	text := formatResult(r)
	require.True(t, strings.HasPrefix(text, "Classification: Ejection pores\nAspect Ratio: 3.25"))
	require.Contains(t, text, "Найдено пор: 3")
	require.Contains(t, text, "3.50")
	require.NotContains(t, text, "не определён")

	r.Classification = entity.Unclassified
	require.Contains(t, formatResult(r), "не определён")
}

func TestFormatHistory(t *testing.T) {
	var h entity.MeasurementHistory
	require.Equal(t, msgHistoryEmpty, formatHistory(&h))

	h.Append(1, 2)
	h.Append(3, 4)
	text := formatHistory(&h)
	require.Contains(t, text, "1. соотношение 1.00, пор: 2")
	require.Contains(t, text, "2. соотношение 3.00, пор: 4")
	require.Contains(t, text, "Всего пор: 6")
}

func TestFormatRecent(t *testing.T) {
	require.Equal(t, msgHistoryEmpty, formatRecent(nil))

	text := formatRecent([]entity.AnalysisRecord{{
		SourceName:     "photos/file_3.jpg",
		AverageRatio:   10,
		Classification: entity.Capillaries,
		CreatedAt:      time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC),
	}})
	require.Contains(t, text, "04.05 09:30 — file_3.jpg, среднее 10.00 (Capillaries)")
}

func TestErrorMessage(t *testing.T) {
	require.Equal(t, msgNoPores, errorMessage(fmt.Errorf("compute: %w", porosity.ErrNoDetections)))
	require.Equal(t, msgDegenerateBox, errorMessage(fmt.Errorf("compute: %w", porosity.ErrDegenerateBox)))
	require.Equal(t, msgZeroWeight, errorMessage(porosity.ErrZeroTotalWeight))
	require.Equal(t, msgProcessingError, errorMessage(fmt.Errorf("boom")))
}

func TestImageDocumentChecks(t *testing.T) {
	require.True(t, isImageDocument("sample.tif", "image/tiff"))
	require.True(t, isImageDocument("sample.BMP", ""))
	require.False(t, isImageDocument("report.pdf", "application/pdf"))

	require.True(t, sendAsPhoto("a.JPG"))
	require.True(t, sendAsPhoto("a.png"))
	require.False(t, sendAsPhoto("a.bmp"))
}
