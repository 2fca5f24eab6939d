// Package economy — handlers.go обрабатывает команды экономики:
// баланс, переводы, топ и история транзакций.
package economy

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"roulette-bot/internal/common"
	"roulette-bot/internal/config"
)

// Префиксы callback-данных кнопок подтверждения перевода.
const (
	CallbackTransferConfirm = "transfer_confirm:"
	CallbackTransferCancel  = "transfer_cancel:"
)

// Recipient — получатель перевода, найденный в реестре участников.
type Recipient struct {
	UserID    int64
	Username  string
	FirstName string
	IsBot     bool
}

// MemberDirectory ищет участников для переводов и таблицы лидеров.
// Реализуется сервисом участников; интерфейс здесь, чтобы не тянуть
// пакет members в экономику.
type MemberDirectory interface {
	ResolveRecipient(ctx context.Context, username string) (*Recipient, error)
	DisplayName(ctx context.Context, userID int64) (string, error)
}

type Handler struct {
	bot       *tgbotapi.BotAPI
	service   *Service
	directory MemberDirectory
	cfg       *config.Config
}

func NewHandler(bot *tgbotapi.BotAPI, service *Service, directory MemberDirectory, cfg *config.Config) *Handler {
	return &Handler{bot: bot, service: service, directory: directory, cfg: cfg}
}

// HandleBalance обрабатывает команды !баланс и !фишки.
func (h *Handler) HandleBalance(ctx context.Context, message *tgbotapi.Message) {
	balance, err := h.service.GetBalance(ctx, message.From.ID)
	if err != nil {
		log.WithError(err).Error("Ошибка получения баланса")
		h.reply(message, "❌ Не удалось получить баланс, попробуйте позже")
		return
	}
	h.reply(message, fmt.Sprintf("💰 Ваш баланс: %s", common.FormatBalance(balance)))
}

// HandleTransfer обрабатывает команду перевода:
//
//	!перевод @username 100 [комментарий]
//	!перевод 100 [комментарий]  — ответом на сообщение получателя
//
// При успешной котировке отправляет сообщение с кнопками
// подтверждения/отмены. Сам перевод происходит в HandleTransferCallback.
func (h *Handler) HandleTransfer(ctx context.Context, message *tgbotapi.Message, args []string) {
	if !h.cfg.FeatureTransfersEnabled {
		h.reply(message, "❌ Переводы временно отключены")
		return
	}

	recipient, rest, err := h.resolveTransferTarget(ctx, message, args)
	if err != nil {
		h.replyEconomyError(message, err)
		return
	}
	if len(rest) == 0 {
		h.reply(message, "ℹ️ Использование: !перевод @получатель <сумма> [комментарий]")
		return
	}

	amount, err := strconv.ParseInt(rest[0], 10, 64)
	if err != nil || amount <= 0 {
		h.reply(message, "❌ Укажите сумму перевода целым положительным числом")
		return
	}
	memo := strings.Join(rest[1:], " ")

	quote, err := h.service.QuoteTransfer(ctx, message.From.ID, recipient.UserID, recipient.IsBot, recipient.Username, amount, memo)
	if err != nil {
		h.replyEconomyError(message, err)
		return
	}

	text := fmt.Sprintf("💸 Перевод %s → %s\n",
		common.FormatBalance(quote.Amount), h.recipientName(recipient))
	if quote.Fee > 0 {
		text += fmt.Sprintf("Комиссия: %s (будет списано %s)\n",
			common.FormatBalance(quote.Fee), common.FormatBalance(quote.Total))
	}
	text += fmt.Sprintf("\nПодтвердите в течение %s.", common.FormatDuration(h.cfg.TransferConfirmWindow))

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Подтвердить", CallbackTransferConfirm+quote.Token),
			tgbotapi.NewInlineKeyboardButtonData("❌ Отменить", CallbackTransferCancel+quote.Token),
		),
	)

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyToMessageID = message.MessageID
	msg.ReplyMarkup = keyboard
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки котировки перевода")
	}
}

// HandleTransferCallback обрабатывает нажатия кнопок подтверждения
// и отмены перевода.
func (h *Handler) HandleTransferCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	data := callback.Data

	switch {
	case strings.HasPrefix(data, CallbackTransferConfirm):
		token := strings.TrimPrefix(data, CallbackTransferConfirm)
		h.confirmTransfer(ctx, callback, token)
	case strings.HasPrefix(data, CallbackTransferCancel):
		token := strings.TrimPrefix(data, CallbackTransferCancel)
		h.cancelTransfer(ctx, callback, token)
	}
}

func (h *Handler) confirmTransfer(ctx context.Context, callback *tgbotapi.CallbackQuery, token string) {
	receipt, err := h.service.ConfirmTransfer(ctx, token, callback.From.ID)
	if err != nil {
		// Чужой клик не трогает ни котировку, ни сообщение
		if errors.Is(err, common.ErrQuoteForeign) {
			h.answerCallback(callback, "Подтвердить может только отправитель")
			return
		}
		h.answerCallback(callback, "Перевод не выполнен")
		h.finishQuoteMessage(callback, "❌ "+h.economyErrorText(err))
		return
	}

	q := receipt.Quote
	text := fmt.Sprintf("✅ Перевод выполнен: %s → @%s\nВаш баланс: %s",
		common.FormatBalance(q.Amount), q.ToUsername, common.FormatBalance(receipt.SenderBalance))
	if q.Fee > 0 {
		text += fmt.Sprintf("\nКомиссия: %s", common.FormatBalance(q.Fee))
	}

	h.answerCallback(callback, "Перевод выполнен")
	h.finishQuoteMessage(callback, text)
}

func (h *Handler) cancelTransfer(ctx context.Context, callback *tgbotapi.CallbackQuery, token string) {
	_, err := h.service.CancelTransfer(token, callback.From.ID)
	if err != nil {
		if errors.Is(err, common.ErrQuoteForeign) {
			h.answerCallback(callback, "Отменить может только отправитель")
			return
		}
		h.answerCallback(callback, "Перевод уже обработан")
		return
	}
	h.answerCallback(callback, "Перевод отменён")
	h.finishQuoteMessage(callback, "🚫 Перевод отменён")
}

// HandleTop обрабатывает команду !топ — таблица лидеров по балансу.
func (h *Handler) HandleTop(ctx context.Context, message *tgbotapi.Message) {
	entries, err := h.service.Leaderboard(ctx, 10)
	if err != nil {
		log.WithError(err).Error("Ошибка получения таблицы лидеров")
		h.reply(message, "❌ Не удалось получить топ, попробуйте позже")
		return
	}
	if len(entries) == 0 {
		h.reply(message, "🏆 Пока никто не заработал ни одной фишки")
		return
	}

	medals := []string{"🥇", "🥈", "🥉"}
	var sb strings.Builder
	sb.WriteString("🏆 Топ по фишкам:\n\n")
	for i, e := range entries {
		prefix := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			prefix = medals[i]
		}
		name, err := h.directory.DisplayName(ctx, e.UserID)
		if err != nil {
			name = fmt.Sprintf("id%d", e.UserID)
		}
		sb.WriteString(fmt.Sprintf("%s %s — %s %s\n",
			prefix, name, common.FormatNumber(e.Balance), common.PluralizeChips(e.Balance)))
	}
	h.reply(message, sb.String())
}

// HandleTransactions обрабатывает команду !транзакции.
func (h *Handler) HandleTransactions(ctx context.Context, message *tgbotapi.Message) {
	history, err := h.service.GetTransactionHistory(ctx, message.From.ID)
	if err != nil {
		log.WithError(err).Error("Ошибка получения истории транзакций")
		h.reply(message, "❌ Не удалось получить историю, попробуйте позже")
		return
	}
	h.reply(message, history)
}

// resolveTransferTarget определяет получателя: либо из @username в
// первом аргументе, либо из сообщения, на которое ответили.
// Возвращает получателя и оставшиеся аргументы (сумма, комментарий).
func (h *Handler) resolveTransferTarget(ctx context.Context, message *tgbotapi.Message, args []string) (*Recipient, []string, error) {
	if len(args) > 0 && strings.HasPrefix(args[0], "@") {
		username := strings.TrimPrefix(args[0], "@")
		r, err := h.directory.ResolveRecipient(ctx, username)
		if err != nil {
			return nil, nil, common.ErrUserNotFound
		}
		return r, args[1:], nil
	}

	if reply := message.ReplyToMessage; reply != nil && reply.From != nil {
		return &Recipient{
			UserID:    reply.From.ID,
			Username:  reply.From.UserName,
			FirstName: reply.From.FirstName,
			IsBot:     reply.From.IsBot,
		}, args, nil
	}

	return nil, nil, common.ErrUserNotFound
}

func (h *Handler) recipientName(r *Recipient) string {
	if r.Username != "" {
		return "@" + r.Username
	}
	return r.FirstName
}

// reply отправляет ответ на сообщение пользователя.
func (h *Handler) reply(message *tgbotapi.Message, text string) {
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyToMessageID = message.MessageID
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}

func (h *Handler) answerCallback(callback *tgbotapi.CallbackQuery, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(callback.ID, text)); err != nil {
		log.WithError(err).Error("Ошибка ответа на callback")
	}
}

// finishQuoteMessage заменяет сообщение с котировкой итоговым текстом
// и убирает кнопки, чтобы по ним нельзя было кликнуть повторно.
func (h *Handler) finishQuoteMessage(callback *tgbotapi.CallbackQuery, text string) {
	if callback.Message == nil {
		return
	}
	edit := tgbotapi.NewEditMessageText(callback.Message.Chat.ID, callback.Message.MessageID, text)
	if _, err := h.bot.Send(edit); err != nil {
		log.WithError(err).Error("Ошибка редактирования сообщения перевода")
	}
}

// replyEconomyError переводит бизнес-ошибку в сообщение пользователю.
func (h *Handler) replyEconomyError(message *tgbotapi.Message, err error) {
	h.reply(message, "❌ "+h.economyErrorText(err))
}

func (h *Handler) economyErrorText(err error) string {
	var cooldown *common.CooldownError
	if errors.As(err, &cooldown) {
		return fmt.Sprintf("Слишком часто! Подождите ещё %s", common.FormatDuration(cooldown.Remaining))
	}

	switch {
	case errors.Is(err, common.ErrSelfTransfer):
		return "Нельзя переводить фишки самому себе"
	case errors.Is(err, common.ErrReceiverIsBot):
		return "Ботам фишки не нужны"
	case errors.Is(err, common.ErrAmountTooSmall):
		return fmt.Sprintf("Минимальная сумма перевода: %s", common.FormatBalance(h.cfg.TransferMin))
	case errors.Is(err, common.ErrAmountTooLarge):
		return fmt.Sprintf("Максимальная сумма перевода: %s", common.FormatBalance(h.cfg.TransferMax))
	case errors.Is(err, common.ErrInsufficientBalance):
		return "Недостаточно фишек на счёте"
	case errors.Is(err, common.ErrDailyCountLimit):
		return fmt.Sprintf("Дневной лимит переводов исчерпан (%d в день)", h.cfg.TransferDailyCount)
	case errors.Is(err, common.ErrDailyAmountLimit):
		return fmt.Sprintf("Дневной лимит суммы переводов исчерпан (%s в день)", common.FormatBalance(h.cfg.TransferDailyAmount))
	case errors.Is(err, common.ErrQuoteExpired):
		return "Время подтверждения перевода истекло"
	case errors.Is(err, common.ErrQuoteNotFound):
		return "Перевод не найден или уже обработан"
	case errors.Is(err, common.ErrUserNotFound):
		return "Получатель не найден. Укажите @username или ответьте на его сообщение"
	default:
		log.WithError(err).Error("Необработанная ошибка экономики")
		return "Что-то пошло не так, попробуйте позже"
	}
}
