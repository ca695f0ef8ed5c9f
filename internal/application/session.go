package app

import (
	"context"

	"porosity-bot/internal/domain/entity"
	"porosity-bot/internal/domain/port"
)

type SessionService struct {
	repo port.SessionRepository
}

func NewSessionService(repo port.SessionRepository) *SessionService {
	return &SessionService{repo: repo}
}

func (s *SessionService) Get(ctx context.Context, sessionID, chatID int64) (*entity.Session, error) {
	return s.repo.Get(ctx, sessionID, chatID)
}

func (s *SessionService) SetState(ctx context.Context, sessionID, chatID int64, state entity.SessionState) (*entity.Session, error) {
	session, err := s.repo.Get(ctx, sessionID, chatID)
	if err != nil {
		return nil, err
	}

	session.SetState(state)
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// Save сохраняет сессию после изменения истории замеров
func (s *SessionService) Save(ctx context.Context, session *entity.Session) error {
	return s.repo.Save(ctx, session)
}

func (s *SessionService) BeginAnalysis(ctx context.Context, sessionID, chatID int64) (*entity.Session, error) {
	return s.SetState(ctx, sessionID, chatID, entity.StateAwaitingImage)
}

func (s *SessionService) Cancel(ctx context.Context, sessionID, chatID int64) (*entity.Session, error) {
	return s.SetState(ctx, sessionID, chatID, entity.StateMainMenu)
}

// Reset начинает новую серию замеров и возвращает в главное меню.
func (s *SessionService) Reset(ctx context.Context, sessionID, chatID int64) (*entity.Session, error) {
	if _, err := s.repo.Get(ctx, sessionID, chatID); err != nil {
		return nil, err
	}
	if err := s.repo.Reset(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.SetState(ctx, sessionID, chatID, entity.StateMainMenu)
}
