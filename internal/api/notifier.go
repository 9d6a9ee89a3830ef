package telegram

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"facecrop/internal/domain/entity"
	"facecrop/internal/domain/port"
)

const (
	msgHeader      = "🙂 facecrop: batch finished"
	msgInterrupted = "⚠️ facecrop: batch interrupted"
)

// sender часть BotAPI, нужная уведомителю
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier отправляет итог обработки в чат Telegram
type Notifier struct {
	api    sender
	chatID int64
}

// NewNotifier авторизуется в Telegram и создаёт уведомитель
func NewNotifier(token string, chatID int64) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Notifier{api: api, chatID: chatID}, nil
}

// Notify отправляет сводку по завершённому запуску
func (n *Notifier) Notify(ctx context.Context, report *entity.BatchReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(n.chatID, formatReport(report))
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// formatReport собирает текст сообщения
func formatReport(report *entity.BatchReport) string {
	header := msgHeader
	if report.Interrupted {
		header = msgInterrupted
	}
	return header + "\n\n" + report.Summary()
}

// Проверка реализации интерфейса
var _ port.Notifier = (*Notifier)(nil)
