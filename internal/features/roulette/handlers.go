// Package roulette — handlers.go обрабатывает команды рулетки:
// !рулетка, !ставки, !статистика.
package roulette

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
	"roulette-bot/internal/features/economy"
)

type Handler struct {
	bot     *tgbotapi.BotAPI
	service *Service
	economy *economy.Service
	cfg     *config.Config
}

func NewHandler(bot *tgbotapi.BotAPI, service *Service, economyService *economy.Service, cfg *config.Config) *Handler {
	return &Handler{bot: bot, service: service, economy: economyService, cfg: cfg}
}

const betsHelp = `🎰 Ставки рулетки:

!рулетка <число 0-36> <сумма> — на число, 35:1
!рулетка красное <сумма> — 1:1
!рулетка чёрное <сумма> — 1:1
!рулетка чет <сумма> — 1:1
!рулетка нечет <сумма> — 1:1
!рулетка низкие <сумма> — на 1-18, 1:1
!рулетка высокие <сумма> — на 19-36, 1:1
!рулетка дюжина <1-3> <сумма> — 2:1
!рулетка колонка <1-3> <сумма> — 2:1

Зеро (0) выигрывает только ставкам на число 0.`

// HandleBets обрабатывает команду !ставки — справка по ставкам.
func (h *Handler) HandleBets(ctx context.Context, message *tgbotapi.Message) {
	h.reply(message, betsHelp)
}

// HandleRoulette обрабатывает команду !рулетка.
func (h *Handler) HandleRoulette(ctx context.Context, message *tgbotapi.Message, args []string) {
	if !h.cfg.FeatureRouletteEnabled {
		h.reply(message, "❌ Рулетка временно отключена")
		return
	}

	bet, err := parseBet(args)
	if err != nil {
		h.reply(message, "ℹ️ Не понял ставку. Напишите !ставки, чтобы посмотреть варианты")
		return
	}

	result, err := h.service.Play(ctx, message.From.ID, *bet)
	if err != nil {
		h.replyRouletteError(message, err)
		return
	}

	h.reply(message, formatRoundResult(result))
}

// HandleStats обрабатывает команду !статистика — дневная сводка игрока.
func (h *Handler) HandleStats(ctx context.Context, message *tgbotapi.Message) {
	stats, err := h.economy.DailyStats(ctx, message.From.ID)
	if err != nil {
		log.WithError(err).Error("Ошибка получения статистики рулетки")
		h.reply(message, "❌ Не удалось получить статистику, попробуйте позже")
		return
	}

	if stats.GamesPlayed == 0 {
		h.reply(message, "📊 Сегодня вы ещё не играли в рулетку")
		return
	}

	profit := stats.NetProfit()
	profitLine := fmt.Sprintf("+%s", common.FormatBalance(profit))
	if profit < 0 {
		profitLine = fmt.Sprintf("-%s", common.FormatBalance(-profit))
	}

	h.reply(message, fmt.Sprintf(
		"📊 Статистика за сегодня:\n\nРаундов: %d\nПобед: %d (%.0f%%)\nПоставлено: %s\nВыиграно: %s\nИтог: %s",
		stats.GamesPlayed, stats.GamesWon, stats.WinRate()*100,
		common.FormatBalance(stats.TotalWagered),
		common.FormatBalance(stats.TotalWon),
		profitLine,
	))
}

// parseBet разбирает аргументы команды !рулетка.
// Форматы:
//
//	<число 0-36> <сумма>
//	красное|чёрное|чет|нечет|низкие|высокие <сумма>
//	дюжина|колонка <1-3> <сумма>
func parseBet(args []string) (*Bet, error) {
	if len(args) < 2 {
		return nil, common.ErrUnknownBetCategory
	}

	kind := strings.ToLower(args[0])
	// ё и е в командах равнозначны
	kind = strings.ReplaceAll(kind, "ё", "е")

	parseAmount := func(s string) (int64, error) {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil || v <= 0 {
			return 0, common.ErrInvalidAmount
		}
		return v, nil
	}

	switch kind {
	case "красное", "красный":
		amount, err := parseAmount(args[1])
		if err != nil {
			return nil, err
		}
		return &Bet{Category: BetRed, Amount: amount}, nil
	case "черное", "черный":
		amount, err := parseAmount(args[1])
		if err != nil {
			return nil, err
		}
		return &Bet{Category: BetBlack, Amount: amount}, nil
	case "чет", "четное":
		amount, err := parseAmount(args[1])
		if err != nil {
			return nil, err
		}
		return &Bet{Category: BetEven, Amount: amount}, nil
	case "нечет", "нечетное":
		amount, err := parseAmount(args[1])
		if err != nil {
			return nil, err
		}
		return &Bet{Category: BetOdd, Amount: amount}, nil
	case "низкие", "меньше":
		amount, err := parseAmount(args[1])
		if err != nil {
			return nil, err
		}
		return &Bet{Category: BetLow, Amount: amount}, nil
	case "высокие", "больше":
		amount, err := parseAmount(args[1])
		if err != nil {
			return nil, err
		}
		return &Bet{Category: BetHigh, Amount: amount}, nil
	case "дюжина", "колонка":
		if len(args) < 3 {
			return nil, common.ErrUnknownBetCategory
		}
		selector, err := strconv.Atoi(args[1])
		if err != nil || selector < 1 || selector > 3 {
			return nil, common.ErrUnknownBetCategory
		}
		amount, err := parseAmount(args[2])
		if err != nil {
			return nil, err
		}
		category := BetDozen
		if kind == "колонка" {
			category = BetColumn
		}
		return &Bet{Category: category, Selector: selector, Amount: amount}, nil
	}

	// Голое число — ставка straight
	if n, err := strconv.Atoi(kind); err == nil && n >= 0 && n <= 36 {
		amount, err := parseAmount(args[1])
		if err != nil {
			return nil, err
		}
		return &Bet{Category: BetStraight, Selector: n, Amount: amount}, nil
	}

	return nil, common.ErrUnknownBetCategory
}

// formatRoundResult собирает сообщение об итоге раунда.
func formatRoundResult(r *RoundResult) string {
	emoji := map[string]string{ColorRed: "🔴", ColorBlack: "⚫", ColorGreen: "🟢"}[r.Outcome.Color]

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🎰 Выпало: %s %d\n\n", emoji, r.Outcome.Number))

	if r.Won {
		sb.WriteString(fmt.Sprintf("🎉 Победа! Выплата %d:1 — вы получили %s\n",
			r.PayoutRatio, common.FormatBalance(r.WinAmount)))
	} else {
		sb.WriteString(fmt.Sprintf("💔 Проигрыш: -%s\n", common.FormatBalance(r.Bet.Amount)))
		if r.LosingStreak >= 2 {
			sb.WriteString(fmt.Sprintf("Серия поражений: %d\n", r.LosingStreak))
		}
	}
	if r.Consolation {
		sb.WriteString(fmt.Sprintf("🎁 Утешительный бонус: +%s\n",
			common.FormatBalance(r.ConsolationAmount)))
	}

	sb.WriteString(fmt.Sprintf("\nВаш баланс: %s", common.FormatBalance(r.BalanceAfter)))
	return sb.String()
}

func (h *Handler) reply(message *tgbotapi.Message, text string) {
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyToMessageID = message.MessageID
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}

func (h *Handler) replyRouletteError(message *tgbotapi.Message, err error) {
	switch {
	case errors.Is(err, common.ErrBetTooSmall):
		h.reply(message, fmt.Sprintf("❌ Минимальная ставка: %s", common.FormatBalance(h.cfg.RouletteMinBet)))
	case errors.Is(err, common.ErrInsufficientBalance):
		h.reply(message, "❌ Недостаточно фишек для такой ставки")
	case errors.Is(err, common.ErrUnknownBetCategory), errors.Is(err, common.ErrInvalidAmount):
		h.reply(message, "ℹ️ Не понял ставку. Напишите !ставки, чтобы посмотреть варианты")
	default:
		log.WithError(err).Error("Ошибка раунда рулетки")
		h.reply(message, "❌ Что-то пошло не так, попробуйте позже")
	}
}
