// Package economy — service.go содержит бизнес-логику леджера:
// балансы, начисления/списания, таблица лидеров, история транзакций
// и административные операции. Протокол переводов — в transfer.go.
package economy

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"roulette-bot/internal/common"
	"roulette-bot/internal/config"
)

// Service управляет экономикой бота (фишки).
type Service struct {
	store Store
	cfg   *config.Config

	// Протокол переводов (transfer.go): котировки с одноразовыми
	// токенами и volatile-кулдаун по отправителям.
	quotesMu       sync.Mutex
	quotes         map[string]*Quote
	lastTransferAt map[int64]time.Time
}

// NewService создаёт новый сервис экономики.
func NewService(store Store, cfg *config.Config) *Service {
	return &Service{
		store:          store,
		cfg:            cfg,
		quotes:         make(map[string]*Quote),
		lastTransferAt: make(map[int64]time.Time),
	}
}

// CreateAccount гарантирует, что у пользователя есть счёт (0 фишек).
// Вызывается при регистрации участника. Идемпотентно.
func (s *Service) CreateAccount(ctx context.Context, userID int64) error {
	_, err := s.store.GetOrCreateAccount(ctx, userID)
	return err
}

// GetBalance возвращает текущий баланс пользователя.
func (s *Service) GetBalance(ctx context.Context, userID int64) (int64, error) {
	a, err := s.store.GetOrCreateAccount(ctx, userID)
	if err != nil {
		return 0, err
	}
	return a.Balance, nil
}

// GetAccount возвращает счёт пользователя, создавая нулевой при необходимости.
func (s *Service) GetAccount(ctx context.Context, userID int64) (*Account, error) {
	return s.store.GetOrCreateAccount(ctx, userID)
}

// Credit начисляет фишки пользователю.
func (s *Service) Credit(ctx context.Context, userID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, common.ErrInvalidAmount
	}
	return s.store.Credit(ctx, userID, amount)
}

// Debit списывает фишки. Условное обновление может не найти строку,
// если баланс изменился между чтением вызывающего кода и записью —
// перед тем как признать нехватку средств, пробуем ещё раз по свежему
// состоянию.
func (s *Service) Debit(ctx context.Context, userID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, common.ErrInvalidAmount
	}

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

// SetBailoutFlag выставляет флаг антикризисной программы.
// Единственная точка, через которую флаг меняют и рабочая сессия,
// и рулетка (перевзвод после проигрыша ва-банк).
func (s *Service) SetBailoutFlag(ctx context.Context, userID int64, used bool) error {
	log.WithFields(log.Fields{
		"user_id": userID,
		"used":    used,
	}).Info("Флаг антикризисной программы изменён")
	return s.store.SetBailoutFlag(ctx, userID, used)
}

// Leaderboard возвращает счета с наибольшим балансом.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.store.TopBalances(ctx, limit)
}

// GetTransactionHistory возвращает форматированную историю переводов.
// Последние 10 транзакций.
func (s *Service) GetTransactionHistory(ctx context.Context, userID int64) (string, error) {
	transactions, err := s.store.RecentTransactions(ctx, userID, 10)
	if err != nil {
		return "", err
	}

	if len(transactions) == 0 {
		return "📋 У вас пока нет транзакций", nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 Последние %d транзакций:\n\n", len(transactions)))

	for i, tx := range transactions {
		// Знак: + если получили, - если отправили (с учётом комиссии)
		delta := tx.Amount
		if tx.FromUserID != nil && *tx.FromUserID == userID {
			delta = -(tx.Amount + tx.Fee)
		}

		line := fmt.Sprintf("%d. %s | %s",
			i+1,
			common.FormatDateTime(tx.CreatedAt),
			common.FormatChipsAmount(delta),
		)
		if tx.Fee > 0 {
			line += fmt.Sprintf(" (комиссия %d)", tx.Fee)
		}
		if tx.Memo != "" {
			line += " | " + tx.Memo
		}
		sb.WriteString(line + "\n")
	}

	return sb.String(), nil
}

// DailyStats возвращает дневную статистику рулетки пользователя
// (по московскому календарному дню).
func (s *Service) DailyStats(ctx context.Context, userID int64) (*DailyWagerStats, error) {
	return s.store.DailyWagerStats(ctx, userID, common.GetMoscowDate())
}

// --- Административные операции ---

// AdminGive начисляет фишки решением администратора.
func (s *Service) AdminGive(ctx context.Context, userID int64, amount int64, memo string) (int64, error) {
	if amount <= 0 {
		return 0, common.ErrInvalidAmount
	}

	newBalance, err := s.store.Credit(ctx, userID, amount)
	if err != nil {
		return 0, err
	}

	to := userID
	if err := s.store.AppendTransaction(ctx, &Transaction{
		ToUserID:              &to,
		Amount:                amount,
		ReceiverBalanceBefore: newBalance - amount,
		ReceiverBalanceAfter:  newBalance,
		TransactionType:       TxTypeAdminGive,
		Memo:                  memo,
	}); err != nil {
		log.WithError(err).Error("Ошибка записи admin_give в журнал")
	}

	log.WithFields(log.Fields{"user_id": userID, "amount": amount}).Info("Админ выдал фишки")
	return newBalance, nil
}

// AdminTake изымает фишки решением администратора.
func (s *Service) AdminTake(ctx context.Context, userID int64, amount int64, memo string) (int64, error) {
	if amount <= 0 {
		return 0, common.ErrInvalidAmount
	}

	newBalance, err := s.Debit(ctx, userID, amount)
	if err != nil {
		return 0, err
	}

	from := userID
	if err := s.store.AppendTransaction(ctx, &Transaction{
		FromUserID:          &from,
		Amount:              amount,
		SenderBalanceBefore: newBalance + amount,
		SenderBalanceAfter:  newBalance,
		TransactionType:     TxTypeAdminTake,
		Memo:                memo,
	}); err != nil {
		log.WithError(err).Error("Ошибка записи admin_take в журнал")
	}

	log.WithFields(log.Fields{"user_id": userID, "amount": amount}).Info("Админ изъял фишки")
	return newBalance, nil
}

// AdminReset обнуляет счёт: баланс в 0, антикризисная программа
// снова доступна. Единственный способ «удалить» счёт.
func (s *Service) AdminReset(ctx context.Context, userID int64) error {
	a, err := s.store.GetOrCreateAccount(ctx, userID)
	if err != nil {
		return err
	}

	if a.Balance > 0 {
		// Условное списание: если баланс уехал — счёт всё равно
		// останется неотрицательным, просто не обнулится до конца
		if _, err := s.Debit(ctx, userID, a.Balance); err != nil {
			return err
		}
	}
	if err := s.store.SetBailoutFlag(ctx, userID, false); err != nil {
		return err
	}

	from := userID
	if err := s.store.AppendTransaction(ctx, &Transaction{
		FromUserID:          &from,
		Amount:              a.Balance,
		SenderBalanceBefore: a.Balance,
		SenderBalanceAfter:  0,
		TransactionType:     TxTypeAdminReset,
		Memo:                "Административный сброс счёта",
	}); err != nil {
		log.WithError(err).Error("Ошибка записи admin_reset в журнал")
	}

	log.WithField("user_id", userID).Info("Счёт сброшен администратором")
	return nil
}
