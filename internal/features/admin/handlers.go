// Package admin — handlers.go обрабатывает админ-команды.
// Все команды работают только в личных сообщениях: пароль и операции
// над счетами в общем чате светиться не должны.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"roulette-bot/internal/common"
	"roulette-bot/internal/features/members"
)

type Handler struct {
	bot     *tgbotapi.BotAPI
	service *Service
	members *members.Service
}

func NewHandler(bot *tgbotapi.BotAPI, service *Service, membersService *members.Service) *Handler {
	return &Handler{bot: bot, service: service, members: membersService}
}

const adminHelp = `🔐 Админ-команды (только в ЛС):

/login <пароль> — вход в панель
/logout — выход
/give @user <сумма> — выдать фишки
/take @user <сумма> — изъять фишки
/reset @user — обнулить счёт`

// HandleLogin обрабатывает /login <пароль>.
func (h *Handler) HandleLogin(ctx context.Context, message *tgbotapi.Message, args []string) {
	if !message.Chat.IsPrivate() {
		return
	}
	if len(args) != 1 {
		h.reply(message, "ℹ️ Использование: /login <пароль>")
		return
	}

	if err := h.service.Login(ctx, message.From.ID, args[0]); err != nil {
		h.replyAdminError(message, err)
		return
	}
	h.reply(message, "✅ Вы вошли в админ-панель (сессия 24 часа)\n\n"+adminHelp)
}

// HandleLogout обрабатывает /logout.
func (h *Handler) HandleLogout(ctx context.Context, message *tgbotapi.Message) {
	if !message.Chat.IsPrivate() {
		return
	}
	if err := h.service.Logout(ctx, message.From.ID); err != nil {
		log.WithError(err).Error("Ошибка выхода из админ-панели")
	}
	h.reply(message, "👋 Сессия завершена")
}

// HandleGive обрабатывает /give @user <сумма>.
func (h *Handler) HandleGive(ctx context.Context, message *tgbotapi.Message, args []string) {
	if !message.Chat.IsPrivate() {
		return
	}
	userID, amount, err := h.parseUserAmount(ctx, args)
	if err != nil {
		h.replyAdminError(message, err)
		return
	}

	newBalance, err := h.service.Give(ctx, message.From.ID, userID, amount)
	if err != nil {
		h.replyAdminError(message, err)
		return
	}
	h.reply(message, fmt.Sprintf("✅ Выдано %s. Новый баланс: %s",
		common.FormatBalance(amount), common.FormatBalance(newBalance)))
}

// HandleTake обрабатывает /take @user <сумма>.
func (h *Handler) HandleTake(ctx context.Context, message *tgbotapi.Message, args []string) {
	if !message.Chat.IsPrivate() {
		return
	}
	userID, amount, err := h.parseUserAmount(ctx, args)
	if err != nil {
		h.replyAdminError(message, err)
		return
	}

	newBalance, err := h.service.Take(ctx, message.From.ID, userID, amount)
	if err != nil {
		h.replyAdminError(message, err)
		return
	}
	h.reply(message, fmt.Sprintf("✅ Изъято %s. Новый баланс: %s",
		common.FormatBalance(amount), common.FormatBalance(newBalance)))
}

// HandleReset обрабатывает /reset @user.
func (h *Handler) HandleReset(ctx context.Context, message *tgbotapi.Message, args []string) {
	if !message.Chat.IsPrivate() {
		return
	}
	if len(args) != 1 {
		h.reply(message, "ℹ️ Использование: /reset @user")
		return
	}
	member, err := h.resolveMember(ctx, args[0])
	if err != nil {
		h.replyAdminError(message, err)
		return
	}

	if err := h.service.Reset(ctx, message.From.ID, member.UserID); err != nil {
		h.replyAdminError(message, err)
		return
	}
	h.reply(message, fmt.Sprintf("✅ Счёт %s обнулён", member.DisplayName()))
}

// parseUserAmount разбирает аргументы "@user <сумма>".
func (h *Handler) parseUserAmount(ctx context.Context, args []string) (int64, int64, error) {
	if len(args) != 2 {
		return 0, 0, common.ErrInvalidAmount
	}
	member, err := h.resolveMember(ctx, args[0])
	if err != nil {
		return 0, 0, err
	}
	amount, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || amount <= 0 {
		return 0, 0, common.ErrInvalidAmount
	}
	return member.UserID, amount, nil
}

func (h *Handler) resolveMember(ctx context.Context, arg string) (*members.Member, error) {
	username := strings.TrimPrefix(arg, "@")
	member, err := h.members.GetByUsername(ctx, username)
	if err != nil {
		return nil, common.ErrUserNotFound
	}
	return member, nil
}

func (h *Handler) reply(message *tgbotapi.Message, text string) {
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}

func (h *Handler) replyAdminError(message *tgbotapi.Message, err error) {
	switch {
	case errors.Is(err, common.ErrNotAdmin):
		// Не-админам не подтверждаем существование панели
		return
	case errors.Is(err, common.ErrWrongPassword):
		h.reply(message, "❌ Неверный пароль")
	case errors.Is(err, common.ErrTooManyAttempts):
		h.reply(message, "⛔ Слишком много попыток, подождите час")
	case errors.Is(err, common.ErrSessionExpired):
		h.reply(message, "🔐 Сессия истекла, выполните /login")
	case errors.Is(err, common.ErrUserNotFound):
		h.reply(message, "❌ Пользователь не найден")
	case errors.Is(err, common.ErrInvalidAmount):
		h.reply(message, "❌ Некорректные аргументы\n\n"+adminHelp)
	case errors.Is(err, common.ErrInsufficientBalance):
		h.reply(message, "❌ На счёте недостаточно фишек для изъятия")
	default:
		log.WithError(err).Error("Ошибка админ-операции")
		h.reply(message, "❌ Что-то пошло не так")
	}
}
