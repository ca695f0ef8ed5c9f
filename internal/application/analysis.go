package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"

	"porosity-bot/internal/domain/entity"
	"porosity-bot/internal/domain/porosity"
	"porosity-bot/internal/domain/port"
)

// ErrAnalysisLogDisabled журнал анализов не настроен.
var ErrAnalysisLogDisabled = errors.New("analysis log is disabled")

type AnalysisService struct {
	sessions   *SessionService
	detector   port.PoreDetector
	classifier *porosity.PoreClassifier
	annotator  port.Annotator
	results    port.ResultStore
	journal    port.AnalysisLog
	log        *zap.Logger
	now        func() time.Time
}

// AnalysisOutput результат анализа и размеченное изображение.
type AnalysisOutput struct {
	Result     *entity.AnalysisResult
	Annotated  []byte
	ResultPath string // пусто, если хранилище результатов не настроено
	RecordID   string
}

// AnalysisDeps зависимости сервиса анализа. Results и Journal необязательны.
type AnalysisDeps struct {
	Detector   port.PoreDetector
	Classifier *porosity.PoreClassifier
	Annotator  port.Annotator
	Results    port.ResultStore
	Journal    port.AnalysisLog
	Logger     *zap.Logger
}

// NewAnalysisService создаёт сервис, который ведёт анализ микрофотографий.
func NewAnalysisService(sessions *SessionService, deps AnalysisDeps) *AnalysisService {
	classifier := deps.Classifier
	if classifier == nil {
		classifier = porosity.NewPoreClassifier(porosity.PolicyFirstBox)
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &AnalysisService{
		sessions:   sessions,
		detector:   deps.Detector,
		classifier: classifier,
		annotator:  deps.Annotator,
		results:    deps.Results,
		journal:    deps.Journal,
		log:        log,
		now:        time.Now,
	}
}

// Analyze находит поры, добавляет замер в историю сессии, классифицирует
// взвешенное среднее и сохраняет размеченное изображение. Если соотношение
// сторон посчитать нельзя, история не меняется.
func (s *AnalysisService) Analyze(ctx context.Context, sessionID, chatID int64, sourceName string, imageData []byte) (*AnalysisOutput, error) {
	if s.detector == nil {
		return nil, errors.New("detector is not configured")
	}
	if s.annotator == nil {
		return nil, errors.New("annotator is not configured")
	}
	if len(imageData) == 0 {
		return nil, errors.New("no image data provided")
	}

	session, err := s.sessions.Get(ctx, sessionID, chatID)
	if err != nil {
		return nil, err
	}

	started := s.now()
	boxes, err := s.detector.Detect(ctx, imageData)
	if err != nil {
		return nil, fmt.Errorf("detect pores: %w", err)
	}
	s.log.Debug("detection finished",
		zap.Int64("session", sessionID),
		zap.String("source", sourceName),
		zap.Int("boxes", len(boxes)),
		zap.Duration("cost", s.now().Sub(started)))

	ratio, err := s.classifier.ComputeAspectRatio(boxes)
	if err != nil {
		return nil, fmt.Errorf("compute aspect ratio: %w", err)
	}

	avg, err := s.classifier.RecordAndAverage(&session.History, ratio, len(boxes))
	if err != nil {
		return nil, fmt.Errorf("weighted average: %w", err)
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	result := &entity.AnalysisResult{
		Boxes:          boxes,
		AspectRatio:    ratio,
		AverageRatio:   avg,
		Samples:        session.History.Len(),
		Classification: s.classifier.Classify(avg),
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(imageData)); err == nil {
		result.ImageWidth, result.ImageHeight = cfg.Width, cfg.Height
	}

	annotated, err := s.annotator.Annotate(imageData, result)
	if err != nil {
		return nil, fmt.Errorf("annotate image: %w", err)
	}

	out := &AnalysisOutput{Result: result, Annotated: annotated}
	if s.results != nil {
		path, err := s.results.Save(ctx, sourceName, annotated)
		if err != nil {
			return nil, fmt.Errorf("save result: %w", err)
		}
		out.ResultPath = path
	}

	if s.journal != nil {
		rec := entity.AnalysisRecord{
			ID:             uuid.NewString(),
			SessionID:      sessionID,
			SourceName:     sourceName,
			ResultPath:     out.ResultPath,
			Detections:     len(boxes),
			AspectRatio:    ratio,
			AverageRatio:   avg,
			Classification: result.Classification,
			CreatedAt:      s.now(),
		}
		// Журнал вспомогательный: сбой записи не отменяет анализ
		if err := s.journal.Record(ctx, rec); err != nil {
			s.log.Warn("failed to record analysis", zap.Error(err))
		} else {
			out.RecordID = rec.ID
		}
	}

	s.log.Info("image analysed",
		zap.Int64("session", sessionID),
		zap.String("source", sourceName),
		zap.Int("boxes", len(boxes)),
		zap.Float64("aspect_ratio", ratio),
		zap.Float64("average_ratio", avg),
		zap.String("classification", result.Classification.String()),
		zap.String("result_path", out.ResultPath))

	return out, nil
}

// Recent возвращает последние анализы сессии из журнала.
func (s *AnalysisService) Recent(ctx context.Context, sessionID int64, limit int) ([]entity.AnalysisRecord, error) {
	if s.journal == nil {
		return nil, ErrAnalysisLogDisabled
	}
	return s.journal.List(ctx, sessionID, limit)
}
