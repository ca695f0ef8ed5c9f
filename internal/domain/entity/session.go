package entity

// SessionState состояние пользователя в диалоге
type SessionState string

const (
	StateMainMenu      SessionState = "main_menu"      // В главном меню
	StateAwaitingImage SessionState = "awaiting_image" // Ожидание микрофотографии
	StateProcessing    SessionState = "processing"     // Обработка изображения
)

// Session сессия анализа одного пользователя: состояние диалога и
// накопленные замеры.
type Session struct {
	ID      int64        // Telegram User ID
	ChatID  int64        // Telegram Chat ID
	State   SessionState // Текущее состояние
	History MeasurementHistory
}

// NewSession создаёт сессию с начальным состоянием и пустой историей
func NewSession(sessionID, chatID int64) *Session {
	return &Session{
		ID:     sessionID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние сессии
func (s *Session) SetState(state SessionState) {
	s.State = state
}

// Reset начинает новую серию замеров, состояние диалога не меняется.
func (s *Session) Reset() {
	s.History.Reset()
}
