package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"porosity-bot/internal/domain/entity"
	"porosity-bot/internal/domain/port"
)

// SQLiteAnalysisLog журнал анализов в файле SQLite.
type SQLiteAnalysisLog struct {
	db *sql.DB
}

// NewSQLiteAnalysisLog открывает базу и создаёт таблицу при необходимости.
func NewSQLiteAnalysisLog(path string) (*SQLiteAnalysisLog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open analysis db: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS analyses (
			analysis_id       TEXT PRIMARY KEY,
			session_id        BIGINT NOT NULL,
			source_name       TEXT,
			result_path       TEXT,
			detections        BIGINT,
			aspect_ratio      DOUBLE,
			average_ratio     DOUBLE,
			classification    TEXT,
			created_at        BIGINT
		);
		CREATE INDEX IF NOT EXISTS analyses_session_idx ON analyses (session_id, created_at);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create analyses table: %w", err)
	}

	return &SQLiteAnalysisLog{db: db}, nil
}

// Record сохраняет запись анализа
func (l *SQLiteAnalysisLog) Record(ctx context.Context, rec entity.AnalysisRecord) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO analyses (
			analysis_id, session_id, source_name, result_path, detections,
			aspect_ratio, average_ratio, classification, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.SessionID,
		rec.SourceName,
		rec.ResultPath,
		rec.Detections,
		rec.AspectRatio,
		rec.AverageRatio,
		string(rec.Classification),
		rec.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

// List возвращает последние записи сессии, новые первыми
func (l *SQLiteAnalysisLog) List(ctx context.Context, sessionID int64, limit int) ([]entity.AnalysisRecord, error) {
	if limit <= 0 {
		limit = -1 // в SQLite отрицательный LIMIT снимает ограничение
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT analysis_id, session_id, source_name, result_path, detections,
			aspect_ratio, average_ratio, classification, created_at
		FROM analyses
		WHERE session_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	var out []entity.AnalysisRecord
	for rows.Next() {
		var (
			rec            entity.AnalysisRecord
			classification string
			createdAt      int64
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.SessionID,
			&rec.SourceName,
			&rec.ResultPath,
			&rec.Detections,
			&rec.AspectRatio,
			&rec.AverageRatio,
			&classification,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		rec.Classification = entity.Classification(classification)
		rec.CreatedAt = time.Unix(0, createdAt).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close закрывает базу
func (l *SQLiteAnalysisLog) Close() error {
	return l.db.Close()
}

var _ port.AnalysisLog = (*SQLiteAnalysisLog)(nil)
