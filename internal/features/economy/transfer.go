// Package economy — transfer.go реализует протокол перевода фишек.
// Перевод двухшаговый: котировка (валидация + расчёт комиссии) и
// подтверждение в ограниченном окне. Котировка живёт в памяти процесса
// под одноразовым токеном: первый клик (подтвердить или отменить)
// поглощает токен, повторный клик перевод не перезапустит. Пока
// пользователь думает, счёт не блокируется — при подтверждении баланс
// и дневные лимиты перепроверяются по свежему состоянию.
package economy

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"roulette-bot/internal/common"
)

// Quote — котировка перевода, ожидающая подтверждения.
type Quote struct {
	Token      string // Одноразовый токен (uuid)
	FromUserID int64
	ToUserID   int64
	ToUsername string // Для отображения в сообщениях
	Amount     int64  // Зачисляется получателю
	Fee        int64  // Сжигается
	Total      int64  // Amount + Fee, списывается с отправителя
	Memo       string
	ExpiresAt  time.Time
}

// Receipt — результат успешно исполненного перевода.
type Receipt struct {
	Quote           *Quote
	SenderBalance   int64
	ReceiverBalance int64
}

// QuoteTransfer проверяет перевод и создаёт котировку.
// Конвейер валидации обрывается на первой ошибке:
//  1. не самому себе;
//  2. получатель — живой пользователь, не бот;
//  3. сумма в пределах [TransferMin, TransferMax];
//  4. кулдаун отправителя (volatile, сбрасывается рестартом);
//  5. хватает ли баланса на сумму с комиссией;
//  6. дневные лимиты по журналу транзакций.
//
// Комиссия 10% добавляется, если отправитель ИЛИ получатель когда-либо
// пользовались антикризисной программой — мультиаккаунтам невыгодно
// гонять фишки через обнулённые счета.
func (s *Service) QuoteTransfer(ctx context.Context, fromUserID, toUserID int64, toIsBot bool, toUsername string, amount int64, memo string) (*Quote, error) {
	if toUserID == fromUserID {
		return nil, common.ErrSelfTransfer
	}
	if toIsBot {
		return nil, common.ErrReceiverIsBot
	}
	if amount < s.cfg.TransferMin {
		return nil, common.ErrAmountTooSmall
	}
	if amount > s.cfg.TransferMax {
		return nil, common.ErrAmountTooLarge
	}

	if remaining := s.transferCooldownRemaining(fromUserID); remaining > 0 {
		return nil, common.NewCooldownError(remaining)
	}

	sender, err := s.store.GetOrCreateAccount(ctx, fromUserID)
	if err != nil {
		return nil, err
	}
	receiver, err := s.store.GetOrCreateAccount(ctx, toUserID)
	if err != nil {
		return nil, err
	}

	fee := s.transferFee(amount, sender, receiver)
	total := amount + fee

	if sender.Balance < total {
		return nil, common.ErrInsufficientBalance
	}

	if err := s.checkDailyLimits(ctx, fromUserID, amount); err != nil {
		return nil, err
	}

	q := &Quote{
		Token:      uuid.NewString(),
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		ToUsername: toUsername,
		Amount:     amount,
		Fee:        fee,
		Total:      total,
		Memo:       memo,
		ExpiresAt:  time.Now().Add(s.cfg.TransferConfirmWindow),
	}

	s.quotesMu.Lock()
	s.quotes[q.Token] = q
	s.quotesMu.Unlock()

	log.WithFields(log.Fields{
		"from":   fromUserID,
		"to":     toUserID,
		"amount": amount,
		"fee":    fee,
	}).Debug("Котировка перевода создана")

	return q, nil
}

// ConfirmTransfer исполняет котировку по токену. Токен поглощается
// первым вызовом; повторное подтверждение вернёт ErrQuoteNotFound.
// Баланс и дневные лимиты перепроверяются по текущему состоянию —
// с момента котировки они могли уехать.
func (s *Service) ConfirmTransfer(ctx context.Context, token string, byUserID int64) (*Receipt, error) {
	q, err := s.consumeQuote(token, byUserID)
	if err != nil {
		return nil, err
	}

	if err := s.checkDailyLimits(ctx, q.FromUserID, q.Amount); err != nil {
		return nil, err
	}

	outcome, err := s.store.ExecuteTransfer(ctx, &TransferExec{
		FromUserID: q.FromUserID,
		ToUserID:   q.ToUserID,
		Amount:     q.Amount,
		Fee:        q.Fee,
		Memo:       q.Memo,
	})
	if err != nil {
		return nil, err
	}
	if !outcome.OK {
		return nil, common.ErrInsufficientBalance
	}

	s.quotesMu.Lock()
	s.lastTransferAt[q.FromUserID] = time.Now()
	s.quotesMu.Unlock()

	log.WithFields(log.Fields{
		"from":   q.FromUserID,
		"to":     q.ToUserID,
		"amount": q.Amount,
		"fee":    q.Fee,
	}).Info("Перевод выполнен")

	return &Receipt{
		Quote:           q,
		SenderBalance:   outcome.SenderBalance,
		ReceiverBalance: outcome.ReceiverBalance,
	}, nil
}

// CancelTransfer отменяет котировку. Средства не двигались, так что
// отмена — это просто поглощение токена.
func (s *Service) CancelTransfer(token string, byUserID int64) (*Quote, error) {
	return s.consumeQuote(token, byUserID)
}

// PruneQuotes удаляет истёкшие котировки и возвращает их количество.
// Вызывается планировщиком; истёкшая котировка и так не исполнится,
// чистка нужна только чтобы карта не росла бесконечно.
func (s *Service) PruneQuotes() int {
	s.quotesMu.Lock()
	defer s.quotesMu.Unlock()

	now := time.Now()
	pruned := 0
	for token, q := range s.quotes {
		if now.After(q.ExpiresAt) {
			delete(s.quotes, token)
			pruned++
		}
	}
	return pruned
}

// consumeQuote атомарно изымает котировку по токену.
// Именно удаление под мьютексом гарантирует, что двойной клик
// исполнит перевод ровно один раз.
func (s *Service) consumeQuote(token string, byUserID int64) (*Quote, error) {
	s.quotesMu.Lock()
	defer s.quotesMu.Unlock()

	q, ok := s.quotes[token]
	if !ok {
		return nil, common.ErrQuoteNotFound
	}
	if q.FromUserID != byUserID {
		// Чужие клики токен не поглощают
		return nil, common.ErrQuoteForeign
	}
	delete(s.quotes, token)

	if time.Now().After(q.ExpiresAt) {
		return nil, common.ErrQuoteExpired
	}
	return q, nil
}

// transferCooldownRemaining возвращает остаток кулдауна отправителя.
// Состояние живёт в памяти процесса: после рестарта кулдаун обнуляется,
// это осознанный компромисс — он защищает от спама, а не от потери денег.
func (s *Service) transferCooldownRemaining(fromUserID int64) time.Duration {
	s.quotesMu.Lock()
	defer s.quotesMu.Unlock()

	last, ok := s.lastTransferAt[fromUserID]
	if !ok {
		return 0
	}
	elapsed := time.Since(last)
	if elapsed >= s.cfg.TransferCooldown {
		return 0
	}
	return s.cfg.TransferCooldown - elapsed
}

// transferFee считает комиссию перевода: ceil(amount * percent / 100),
// если любая из сторон пользовалась антикризисной программой.
func (s *Service) transferFee(amount int64, sender, receiver *Account) int64 {
	if !sender.BailoutUsed && !receiver.BailoutUsed {
		return 0
	}
	pct := s.cfg.TransferBailoutFeePercent
	return (amount*pct + 99) / 100
}

// checkDailyLimits проверяет дневные лимиты отправителя по журналу
// транзакций за текущий московский день.
func (s *Service) checkDailyLimits(ctx context.Context, fromUserID int64, amount int64) error {
	count, total, err := s.store.DailyTransferTotals(ctx, fromUserID, common.GetMoscowDate())
	if err != nil {
		return err
	}
	if count >= s.cfg.TransferDailyCount {
		return common.ErrDailyCountLimit
	}
	if total+amount > s.cfg.TransferDailyAmount {
		return common.ErrDailyAmountLimit
	}
	return nil
}
