package port

import (
	"context"

	"porosity-bot/internal/domain/entity"
)

// SessionRepository интерфейс хранилища сессий
type SessionRepository interface {
	// Get возвращает сессию по ID, создаёт новую если не найдена
	Get(ctx context.Context, sessionID, chatID int64) (*entity.Session, error)

	// Save сохраняет сессию
	Save(ctx context.Context, session *entity.Session) error

	// UpdateState обновляет состояние сессии
	UpdateState(ctx context.Context, sessionID int64, state entity.SessionState) error

	// Reset очищает историю замеров сессии
	Reset(ctx context.Context, sessionID int64) error
}
