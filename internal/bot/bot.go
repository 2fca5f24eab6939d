// Package bot содержит главный модуль бота — инициализацию, запуск и
// остановку. bot.go принимает апдейты Telegram, прогоняет их через
// фильтры и маршрутизирует команды к обработчикам.
package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"roulette-bot/internal/bot/filters"
	"roulette-bot/internal/bot/middleware"
	"roulette-bot/internal/config"
	"roulette-bot/internal/features/admin"
	"roulette-bot/internal/features/economy"
	"roulette-bot/internal/features/members"
	"roulette-bot/internal/features/roulette"
	"roulette-bot/internal/features/work"
)

// Bot — главная структура бота, объединяющая все компоненты.
type Bot struct {
	api *tgbotapi.BotAPI
	cfg *config.Config

	chatFilter  *filters.ChatFilter
	rateLimiter *middleware.RateLimiter

	memberHandler   *members.Handler
	economyHandler  *economy.Handler
	workHandler     *work.Handler
	rouletteHandler *roulette.Handler
	adminHandler    *admin.Handler

	memberService  *members.Service
	economyService *economy.Service

	parser *CommandParser

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
}

// New создаёт новый экземпляр бота со всеми зависимостями.
func New(
	api *tgbotapi.BotAPI,
	cfg *config.Config,
	memberService *members.Service,
	memberHandler *members.Handler,
	economyService *economy.Service,
	economyHandler *economy.Handler,
	workHandler *work.Handler,
	rouletteHandler *roulette.Handler,
	adminHandler *admin.Handler,
	chatFilter *filters.ChatFilter,
) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	return &Bot{
		api:             api,
		cfg:             cfg,
		chatFilter:      chatFilter,
		rateLimiter:     middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		memberHandler:   memberHandler,
		economyHandler:  economyHandler,
		workHandler:     workHandler,
		rouletteHandler: rouletteHandler,
		adminHandler:    adminHandler,
		memberService:   memberService,
		economyService:  economyService,
		parser:          NewCommandParser(),
		inflight:        make(chan struct{}, maxInFlight),
	}
}

// Start запускает polling обновлений от Telegram. Блокируется до
// отмены контекста.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.BotUpdateTimeoutSeconds

	updates := b.api.GetUpdatesChan(u)

	log.WithFields(log.Fields{
		"max_inflight": b.cfg.BotMaxInflight,
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
	}).Info("Бот запущен и ожидает сообщения...")

	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			b.api.StopReceivingUpdates()
			b.rateLimiter.Close()
			return

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				return
			}

			// лимит параллелизма
			b.inflight <- struct{}{}
			go func(upd tgbotapi.Update) {
				defer func() { <-b.inflight }()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

// handleUpdate обрабатывает одно обновление от Telegram.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer middleware.RecoverFromPanic()

	// Кнопки подтверждения перевода
	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}

	// Событие вступления новых участников
	if update.Message != nil && update.Message.NewChatMembers != nil {
		if update.Message.Chat != nil && update.Message.Chat.ID == b.cfg.FloodChatID {
			b.memberHandler.HandleNewChatMembers(ctx, update.Message)
		}
		return
	}

	if update.Message == nil || update.Message.Text == "" {
		return
	}

	message := update.Message

	middleware.LogMessage(message)

	// Доступ: FLOOD_CHAT_ID или личка участника
	if !b.chatFilter.CheckAccess(ctx, message) {
		return
	}

	// Rate limiting
	if message.From != nil && !b.rateLimiter.Allow(message.From.ID) {
		log.WithField("user_id", message.From.ID).Debug("rate limited")
		return
	}

	// EnsureMember на каждое сообщение: реестр не должен отставать
	if _, err := b.memberService.EnsureMember(ctx, message.From); err != nil {
		log.WithError(err).WithField("user_id", message.From.ID).Warn("EnsureMember failed")
	}

	cmd, args, isCommand := b.parser.ParseCommand(message.Text)
	if !isCommand {
		return
	}
	b.routeCommand(ctx, message, cmd, args)
}

// handleCallback маршрутизирует нажатия inline-кнопок.
func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	data := callback.Data
	if strings.HasPrefix(data, economy.CallbackTransferConfirm) ||
		strings.HasPrefix(data, economy.CallbackTransferCancel) {
		b.economyHandler.HandleTransferCallback(ctx, callback)
	}
}

const helpText = `🤖 Команды бота:

💼 Экономика:
!работать — заработать фишки (раз в 30 минут)
!баланс — ваш баланс
!перевод @user <сумма> [комментарий] — перевод фишек
!топ — таблица лидеров
!транзакции — история операций

🎰 Рулетка:
!рулетка <ставка> <сумма> — сыграть
!ставки — справка по ставкам
!статистика — ваша статистика за день`

// routeCommand маршрутизирует команду к нужному обработчику.
func (b *Bot) routeCommand(ctx context.Context, message *tgbotapi.Message, cmd string, args []string) {
	log.WithFields(log.Fields{
		"cmd":  cmd,
		"args": args,
	}).Debug("routing command")

	switch cmd {
	case "start", "help", "помощь":
		b.sendMessage(message.Chat.ID, helpText)

	case "работать":
		b.workHandler.HandleWork(ctx, message)

	case "баланс", "фишки":
		b.economyHandler.HandleBalance(ctx, message)

	case "перевод", "отсыпать":
		b.economyHandler.HandleTransfer(ctx, message, args)

	case "топ":
		b.economyHandler.HandleTop(ctx, message)

	case "транзакции":
		b.economyHandler.HandleTransactions(ctx, message)

	case "рулетка":
		b.rouletteHandler.HandleRoulette(ctx, message, args)

	case "ставки":
		b.rouletteHandler.HandleBets(ctx, message)

	case "статистика":
		b.rouletteHandler.HandleStats(ctx, message)

	case "login":
		b.adminHandler.HandleLogin(ctx, message, args)

	case "logout":
		b.adminHandler.HandleLogout(ctx, message)

	case "give":
		b.adminHandler.HandleGive(ctx, message, args)

	case "take":
		b.adminHandler.HandleTake(ctx, message, args)

	case "reset":
		b.adminHandler.HandleReset(ctx, message, args)
	}
}

// sendMessage — утилита для отправки сообщений.
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}

// SendMessageToChat отправляет сообщение в чат (для плановых сводок).
func (b *Bot) SendMessageToChat(chatID int64, text string) {
	b.sendMessage(chatID, text)
}

// CommandParser парсит русские команды с префиксами !, . и /.
type CommandParser struct {
	validPrefixes []string
}

// NewCommandParser создаёт парсер команд.
func NewCommandParser() *CommandParser {
	return &CommandParser{
		validPrefixes: []string{"!", ".", "/"},
	}
}

// ParseCommand разбирает текст на команду и аргументы.
func (p *CommandParser) ParseCommand(text string) (string, []string, bool) {
	text = strings.TrimSpace(text)

	hasPrefix := false
	for _, prefix := range p.validPrefixes {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimPrefix(text, prefix)
			hasPrefix = true
			break
		}
	}

	if !hasPrefix {
		return "", nil, false
	}

	text = strings.TrimSpace(text)
	parts := strings.Fields(text)

	if len(parts) == 0 {
		return "", nil, false
	}

	// Команды вида /start@my_bot приходят с суффиксом
	command := strings.ToLower(parts[0])
	if at := strings.Index(command, "@"); at > 0 {
		command = command[:at]
	}

	var args []string
	if len(parts) > 1 {
		args = parts[1:]
	}

	return command, args, true
}
