package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mryabova/salon-booking-service/internal/domain"
	"github.com/mryabova/salon-booking-service/pkg/logger"
)

// Notifier отправляет уведомления о новых записях в телеграм-чат администратора
// Уведомления best-effort: ошибка отправки логируется и не влияет на запись
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *logger.Logger
}

// NewNotifier создает нотификатор
// Возвращает nil при пустом токене - вызывающий код должен проверять на nil
func NewNotifier(token string, chatID int64, log *logger.Logger) (*Notifier, error) {
	if token == "" {
		return nil, nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram.notifier: create bot: %w", err)
	}

	return &Notifier{
		bot:    bot,
		chatID: chatID,
		logger: log,
	}, nil
}

// BookingCreated уведомляет администратора о новой записи
func (n *Notifier) BookingCreated(ctx context.Context, booking *domain.Booking, service *domain.Service, master *domain.Master) {
	if n == nil {
		return
	}

	masterName := "без мастера"
	if master != nil {
		masterName = master.Name
	}

	text := fmt.Sprintf(
		"Новая запись #%d\nКлиент: %s (%s)\nУслуга: %s\nМастер: %s\nВремя: %s - %s",
		booking.ID,
		booking.ClientName,
		booking.ClientPhone,
		service.Title,
		masterName,
		booking.StartsAt.Format("02.01.2006 15:04"),
		booking.EndsAt.Format("15:04"),
	)

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Warn("telegram.notifier: failed to send booking notification: %v", err)
	}
}
