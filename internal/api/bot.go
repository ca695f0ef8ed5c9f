package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	app "porosity-bot/internal/application"
	"porosity-bot/internal/container"
	"porosity-bot/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я бот для анализа пористости по микрофотографиям.

🔬 Отправьте мне микрофотографию, я найду поры, посчитаю соотношение сторон и определю преобладающий тип пор.

📋 Команды:
/analyze — начать анализ
/history — серия замеров
/reset — начать новую серию
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте микрофотографию (лучше файлом, без сжатия)
2️⃣ Бот найдёт поры и отметит их рамками
3️⃣ Вы получите размеченное изображение и тип пор

📐 Тип определяется по взвешенному среднему соотношения сторон всех снимков серии. Вес снимка — число найденных пор.

📋 Команды:
/analyze — начать анализ
/history — серия замеров
/reset — начать новую серию
/cancel — отменить операцию`

	msgAwaitingImage   = "🔬 Отправьте микрофотографию для анализа."
	msgCancelled       = "❌ Операция отменена. Отправьте /analyze для нового анализа."
	msgReset           = "🧹 Серия замеров очищена."
	msgSendImage       = "🔬 Пожалуйста, отправьте микрофотографию для анализа."
	msgNotAnImage      = "⚠️ Файл не похож на изображение. Поддерживаются PNG, JPEG, BMP и GIF."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgHistoryEmpty    = "📭 В серии пока нет замеров."
	msgNoPores         = "✅ Поры не обнаружены, замер не добавлен в серию."
	msgDegenerateBox   = "⚠️ Детектор вернул рамку нулевого размера, замер не добавлен в серию."
	msgZeroWeight      = "⚠️ В серии нет ни одной поры, среднее не определено."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте другое."

	recentLimit = 10
)

// Bot представляет Telegram-бота
type Bot struct {
	api      *tgbotapi.BotAPI
	services *container.Container
	log      *zap.Logger
	download *http.Client
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Info("authorized", zap.String("account", api.Self.UserName))

	return &Bot{
		api:      api,
		services: c,
		log:      log,
		download: &http.Client{Timeout: time.Minute},
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx.
// Сообщения обрабатываются по одному.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	session, err := b.services.SessionService.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		b.log.Error("get session", zap.Error(err))
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, session)
		return
	}

	// Фото приходит сжатым, берём максимальное разрешение
	if len(msg.Photo) > 0 {
		photo := msg.Photo[len(msg.Photo)-1]
		b.handleImage(ctx, msg, photo.FileID, "")
		return
	}

	// Изображение, отправленное файлом
	if msg.Document != nil {
		if !isImageDocument(msg.Document.FileName, msg.Document.MimeType) {
			b.sendMessage(msg.Chat.ID, msgNotAnImage)
			return
		}
		b.handleImage(ctx, msg, msg.Document.FileID, msg.Document.FileName)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendImage)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, session *entity.Session) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.setState(ctx, userID, chatID, entity.StateMainMenu)
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "analyze":
		if _, err := b.services.SessionService.BeginAnalysis(ctx, userID, chatID); err != nil {
			b.log.Error("begin analysis", zap.Error(err))
		}
		b.sendMessage(chatID, msgAwaitingImage)

	case "history":
		recent, err := b.services.AnalysisService.Recent(ctx, userID, recentLimit)
		if err != nil {
			// без журнала показываем серию из памяти
			b.sendMessage(chatID, formatHistory(&session.History))
			return
		}
		b.sendMessage(chatID, formatHistory(&session.History)+"\n\n"+formatRecent(recent))

	case "reset":
		if _, err := b.services.SessionService.Reset(ctx, userID, chatID); err != nil {
			b.log.Error("reset session", zap.Error(err))
			b.sendMessage(chatID, msgProcessingError)
			return
		}
		b.sendMessage(chatID, msgReset)

	case "cancel":
		if _, err := b.services.SessionService.Cancel(ctx, userID, chatID); err != nil {
			b.log.Error("cancel", zap.Error(err))
		}
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// handleImage скачивает изображение, анализирует его и отправляет результат
func (b *Bot) handleImage(ctx context.Context, msg *tgbotapi.Message, fileID, fileName string) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	b.setState(ctx, userID, chatID, entity.StateProcessing)
	defer b.setState(ctx, userID, chatID, entity.StateMainMenu)

	b.sendMessage(chatID, msgProcessing)

	imageData, filePath, err := b.downloadFile(ctx, fileID)
	if err != nil {
		b.log.Error("download image", zap.Error(err))
		b.sendMessage(chatID, msgProcessingError)
		return
	}
	if fileName == "" {
		fileName = filepath.Base(filePath)
	}

	out, err := b.services.AnalysisService.Analyze(ctx, userID, chatID, fileName, imageData)
	if err != nil {
		b.log.Warn("analysis failed",
			zap.Int64("user", userID),
			zap.String("file", fileName),
			zap.Error(err))
		b.sendMessage(chatID, errorMessage(err))
		return
	}

	b.sendResult(chatID, fileName, out)
}

// sendResult отправляет размеченное изображение с подписью
func (b *Bot) sendResult(chatID int64, fileName string, out *app.AnalysisOutput) {
	file := tgbotapi.FileBytes{Name: fileName, Bytes: out.Annotated}
	caption := formatResult(out.Result)

	var c tgbotapi.Chattable
	if sendAsPhoto(fileName) {
		photo := tgbotapi.NewPhoto(chatID, file)
		photo.Caption = caption
		c = photo
	} else {
		doc := tgbotapi.NewDocument(chatID, file)
		doc.Caption = caption
		c = doc
	}

	if _, err := b.api.Send(c); err != nil {
		b.log.Error("send result", zap.Error(err))
		// хотя бы текст
		b.sendMessage(chatID, caption)
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, string, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, "", fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}

	resp, err := b.download.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read file: %w", err)
	}

	return data, file.FilePath, nil
}

func (b *Bot) setState(ctx context.Context, userID, chatID int64, state entity.SessionState) {
	if _, err := b.services.SessionService.SetState(ctx, userID, chatID, state); err != nil {
		b.log.Error("set state", zap.Error(err))
	}
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send message", zap.Error(err))
	}
}
