// Package bot handles inbound Telegram webhook updates: the /start, /help and
// /status commands and inline keyboard callbacks.
package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"reportbot/internal/domain/models"
	"reportbot/pkg/clients/telegram"
)

// Service reacts to chat commands. It never returns errors to the webhook
// route: Telegram retries failed webhooks, and a retried /start would just
// spam the user.
type Service struct {
	client     telegram.Client
	miniAppURL string
	logger     *zap.Logger
}

// NewService creates the command handler.
func NewService(client telegram.Client, miniAppURL string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, miniAppURL: miniAppURL, logger: logger}
}

// HandleUpdate dispatches a webhook update to the matching command handler.
// Unknown commands and non-command messages are ignored.
func (s *Service) HandleUpdate(ctx context.Context, update models.TelegramUpdate) {
	switch {
	case update.Message != nil:
		s.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		s.handleCallback(ctx, update.CallbackQuery)
	}
}

func (s *Service) handleMessage(ctx context.Context, msg *models.TelegramMessage) {
	chatID := strconv.FormatInt(msg.Chat.ID, 10)

	switch {
	case strings.HasPrefix(msg.Text, "/start"):
		s.sendWelcome(ctx, chatID)
	case strings.HasPrefix(msg.Text, "/help"):
		s.send(ctx, chatID, helpMessage)
	case strings.HasPrefix(msg.Text, "/status"):
		s.send(ctx, chatID, fmt.Sprintf(statusMessage, s.miniAppURL))
	}
}

func (s *Service) handleCallback(ctx context.Context, query *models.TelegramCallbackQuery) {
	if query.Data != "open_app" {
		return
	}
	if err := s.client.AnswerCallbackQuery(ctx, query.ID, "Открываю приложение..."); err != nil {
		s.logger.Warn("answer callback query failed", zap.Error(err))
	}
}

func (s *Service) sendWelcome(ctx context.Context, chatID string) {
	keyboard := map[string]any{
		"inline_keyboard": [][]map[string]any{{
			{
				"text":    "📱 Открыть приложение отчетов →",
				"web_app": map[string]string{"url": s.miniAppURL},
			},
		}},
	}

	err := s.client.SendMessage(ctx, telegram.SendMessageRequest{
		ChatID:      chatID,
		Text:        welcomeMessage,
		ReplyMarkup: keyboard,
	})
	if err != nil {
		s.logger.Warn("welcome message failed", zap.String("chat_id", chatID), zap.Error(err))
	}
}

func (s *Service) send(ctx context.Context, chatID, text string) {
	err := s.client.SendMessage(ctx, telegram.SendMessageRequest{ChatID: chatID, Text: text})
	if err != nil {
		s.logger.Warn("command reply failed", zap.String("chat_id", chatID), zap.Error(err))
	}
}

const welcomeMessage = `<b>Кассовая отчетность Durum & Gyros</b>

Этот бот поможет создавать отчеты:

📊 <b>Доступные отчеты:</b>
- Отчеты завершения смены
- Ежедневная инвентаризация
- Отчеты приема товаров
- Акты списания/перемещения

🚀 <b>Для начала работы нажмите кнопку ниже:</b>`

const helpMessage = `📖 <b>Справка по ReportBot</b>

<b>Доступные команды:</b>
/start - Запустить бота и открыть меню
/help - Показать эту справку
/status - Проверить статус системы

<b>Типы отчетов:</b>

🏪 <b>Отчет завершения смены</b>
- Финансовая информация
- Приходы и расходы
- Сверка кассы
- Обязательное фото отчета

📦 <b>Ежедневная инвентаризация</b>
- Подсчет товаров по категориям
- Динамическая система товаров
- Контроль остатков

📋 <b>Отчет приема товаров</b>
- Товары для кухни
- Товары для бара
- Упаковки и хозтовары

🗑 <b>Акт списания/перемещения</b>
- Списание испорченных товаров
- Перемещение между точками`

const statusMessage = `⚡ <b>Статус системы ReportBot</b>

🤖 <b>Бот:</b> ✅ Работает
📡 <b>API:</b> ✅ Доступно
🌐 <b>Мини-приложение:</b> ✅ Активно

<b>URL приложения:</b>
%s`
