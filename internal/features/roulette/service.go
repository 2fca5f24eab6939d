// Package roulette — service.go связывает колесо, оценку раунда и
// леджер: списывает ставку, крутит, зачисляет выигрыш и утешительный
// бонус, перевзводит антикризисную программу после проигрыша ва-банк.
package roulette

import (
	"context"

	log "github.com/sirupsen/logrus"

	"roulette-bot/internal/common"
	"roulette-bot/internal/config"
	"roulette-bot/internal/features/economy"
)

type Service struct {
	store economy.Store
	cfg   *config.Config
	wheel *Wheel
}

func NewService(store economy.Store, cfg *config.Config, wheel *Wheel) *Service {
	if wheel == nil {
		wheel = NewWheel()
	}
	return &Service{store: store, cfg: cfg, wheel: wheel}
}

// Play разыгрывает один раунд рулетки.
// Порядок строгий: сначала атомарное списание ставки (проигрыш уже
// зафиксирован), потом вращение и зачисления. Недостаток средств —
// бизнес-ошибка, инфраструктурные ошибки пробрасываются как есть.
func (s *Service) Play(ctx context.Context, userID int64, bet Bet) (*RoundResult, error) {
	if !ValidBet(bet) {
		return nil, common.ErrUnknownBetCategory
	}
	if bet.Amount < s.cfg.RouletteMinBet {
		return nil, common.ErrBetTooSmall
	}

	// История раундов до списания: серия поражений и привычная ставка
	rounds, err := s.store.RecentWagerRounds(ctx, userID, s.cfg.RouletteStreakWindow)
	if err != nil {
		return nil, err
	}
	priorLosses, recentAvg := summarizeHistory(rounds)

	afterDebit, err := s.debitBet(ctx, userID, bet.Amount)
	if err != nil {
		return nil, err
	}
	balanceBefore := afterDebit + bet.Amount

	outcome := s.wheel.Spin()
	result := EvaluateRound(bet, outcome, balanceBefore, priorLosses, recentAvg)

	if result.Won {
		if _, err := s.store.Credit(ctx, userID, result.WinAmount); err != nil {
			return nil, err
		}
	}
	if result.Consolation {
		if _, err := s.store.Credit(ctx, userID, result.ConsolationAmount); err != nil {
			return nil, err
		}
	}

	// Проигрыш всего ва-банк снова открывает антикризисную программу:
	// банкротство должно иметь выход. Утешительный бонус сверху этого
	// не отменяет — счёт опустошило именно поражение
	if !result.Won && bet.Amount == balanceBefore {
		if err := s.store.SetBailoutFlag(ctx, userID, false); err != nil {
			return nil, err
		}
		log.WithField("user_id", userID).Info("Проигрыш ва-банк: антикризисная программа перевзведена")
	}

	if err := s.store.AppendWagerRound(ctx, &economy.WagerRound{
		UserID:            userID,
		Category:          bet.Category.String(),
		Selector:          bet.Selector,
		Amount:            bet.Amount,
		OutcomeNumber:     outcome.Number,
		OutcomeColor:      outcome.Color,
		Won:               result.Won,
		WinAmount:         result.WinAmount,
		PayoutRatio:       result.PayoutRatio,
		Consolation:       result.Consolation,
		ConsolationAmount: result.ConsolationAmount,
		LosingStreak:      result.LosingStreak,
		BalanceBefore:     result.BalanceBefore,
		BalanceAfter:      result.BalanceAfter,
	}); err != nil {
		// Раунд уже разыгран и деньги двигались: журнал не должен
		// ронять результат
		log.WithError(err).Error("Ошибка записи раунда рулетки в журнал")
	}

	return &result, nil
}

// debitBet списывает ставку. Условное обновление перепроверяется один
// раз: баланс мог измениться между чтением истории и списанием.
func (s *Service) debitBet(ctx context.Context, userID int64, amount int64) (int64, error) {
	ok, newBalance, err := s.store.Debit(ctx, userID, amount)
	if err != nil {
		return 0, err
	}
	if !ok {
		ok, newBalance, err = s.store.Debit(ctx, userID, amount)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, common.ErrInsufficientBalance
		}
	}
	return newBalance, nil
}

// summarizeHistory извлекает из истории (от новых к старым) текущую
// серию поражений и среднюю ставку последних 10 раундов.
func summarizeHistory(rounds []*economy.WagerRound) (priorLosses int, recentAvg int64) {
	won := make([]bool, len(rounds))
	amounts := make([]int64, len(rounds))
	for i, r := range rounds {
		won[i] = r.Won
		amounts[i] = r.Amount
	}
	return LosingStreak(won), RecentAverageBet(amounts, 10)
}
