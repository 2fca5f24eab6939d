// Package work — handlers.go обрабатывает команду !работать.
package work

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"roulette-bot/internal/common"
	"roulette-bot/internal/config"
)

type Handler struct {
	bot     *tgbotapi.BotAPI
	service *Service
	cfg     *config.Config
}

func NewHandler(bot *tgbotapi.BotAPI, service *Service, cfg *config.Config) *Handler {
	return &Handler{bot: bot, service: service, cfg: cfg}
}

// HandleWork обрабатывает команду !работать.
func (h *Handler) HandleWork(ctx context.Context, message *tgbotapi.Message) {
	if !h.cfg.FeatureWorkEnabled {
		h.reply(message, "❌ Работа временно отключена")
		return
	}

	result, err := h.service.Work(ctx, message.From.ID)
	if err != nil {
		log.WithError(err).Error("Ошибка рабочей сессии")
		h.reply(message, "❌ Что-то пошло не так, попробуйте позже")
		return
	}

	if !result.OK {
		h.reply(message, fmt.Sprintf("⏳ Вы уже отработали смену. Возвращайтесь через %s",
			common.FormatDuration(result.Remaining)))
		return
	}

	if result.Bailout {
		h.reply(message, fmt.Sprintf(
			"🆘 Антикризисная программа: вы получили %s.\nВаш баланс: %s\nСледующая такая выплата — только после проигрыша всего ва-банк.",
			common.FormatBalance(result.Reward), common.FormatBalance(result.NewBalance)))
		return
	}

	h.reply(message, fmt.Sprintf("💼 Смена отработана! Вы заработали %s.\nВаш баланс: %s",
		common.FormatBalance(result.Reward), common.FormatBalance(result.NewBalance)))
}

func (h *Handler) reply(message *tgbotapi.Message, text string) {
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyToMessageID = message.MessageID
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
