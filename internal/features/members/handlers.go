// Package members — handlers.go обрабатывает события Telegram,
// связанные с участниками чата.
package members

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"roulette-bot/internal/common"
	"roulette-bot/internal/features/economy"
)

type Handler struct {
	bot     *tgbotapi.BotAPI
	service *Service
	economy *economy.Service
}

func NewHandler(bot *tgbotapi.BotAPI, service *Service, economyService *economy.Service) *Handler {
	return &Handler{bot: bot, service: service, economy: economyService}
}

// HandleNewChatMembers регистрирует вступивших участников и заводит им
// счета. Ботов регистрируем тоже (чтобы переводы на них отклонялись по
// флагу is_bot), но счёт им не нужен.
func (h *Handler) HandleNewChatMembers(ctx context.Context, message *tgbotapi.Message) {
	for _, user := range message.NewChatMembers {
		if err := h.service.HandleNewMember(ctx, &user); err != nil {
			log.WithError(err).Error("Ошибка регистрации нового участника")
			continue
		}
		if user.IsBot {
			continue
		}
		if err := h.economy.CreateAccount(ctx, user.ID); err != nil {
			log.WithError(err).WithField("user_id", user.ID).Error("Ошибка создания счёта новому участнику")
			continue
		}

		welcome := common.FormatWelcome(user.FirstName)
		msg := tgbotapi.NewMessage(message.Chat.ID, welcome)
		if _, err := h.bot.Send(msg); err != nil {
			log.WithError(err).Error("Ошибка отправки приветствия")
		}
	}
}
