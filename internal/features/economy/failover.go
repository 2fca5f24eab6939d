// Package economy — failover.go реализует деградацию леджера.
// FailoverStore работает через постоянное хранилище, а при отказе
// инфраструктуры (error от PostgresStore) один раз логирует деградацию
// и навсегда переключается на volatile-хранилище с тем же контрактом.
// Бизнес-отказы возвращаются значениями и деградацию не вызывают.
package economy

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
)

// FailoverStore — Store с аварийным переключением на память.
// После переключения балансы начинаются с нуля и не переживают
// рестарт — известная и принятая цена того, что бот продолжает
// отвечать вместо отказа на каждое действие.
type FailoverStore struct {
	primary  Store
	fallback Store
	degraded atomic.Bool
	tripOnce sync.Once
}

// NewFailoverStore оборачивает постоянное хранилище volatile-запасным.
func NewFailoverStore(primary, fallback Store) *FailoverStore {
	return &FailoverStore{primary: primary, fallback: fallback}
}

// Degraded сообщает, переключился ли леджер на volatile-режим.
func (f *FailoverStore) Degraded() bool {
	return f.degraded.Load()
}

// trip переводит хранилище в деградированный режим.
func (f *FailoverStore) trip(err error) {
	f.degraded.Store(true)
	f.tripOnce.Do(func() {
		log.WithError(err).Error("Хранилище недоступно — леджер переключён на volatile-режим, балансы не переживут рестарт")
	})
}

func (f *FailoverStore) GetOrCreateAccount(ctx context.Context, userID int64) (*Account, error) {
	if !f.degraded.Load() {
		a, err := f.primary.GetOrCreateAccount(ctx, userID)
		if err == nil {
			return a, nil
		}
		f.trip(err)
	}
	return f.fallback.GetOrCreateAccount(ctx, userID)
}

func (f *FailoverStore) Credit(ctx context.Context, userID int64, amount int64) (int64, error) {
	if !f.degraded.Load() {
		nb, err := f.primary.Credit(ctx, userID, amount)
		if err == nil {
			return nb, nil
		}
		f.trip(err)
	}
	return f.fallback.Credit(ctx, userID, amount)
}

func (f *FailoverStore) Debit(ctx context.Context, userID int64, amount int64) (bool, int64, error) {
	if !f.degraded.Load() {
		ok, nb, err := f.primary.Debit(ctx, userID, amount)
		if err == nil {
			return ok, nb, nil
		}
		f.trip(err)
	}
	return f.fallback.Debit(ctx, userID, amount)
}

func (f *FailoverStore) SetBailoutFlag(ctx context.Context, userID int64, used bool) error {
	if !f.degraded.Load() {
		if err := f.primary.SetBailoutFlag(ctx, userID, used); err == nil {
			return nil
		} else {
			f.trip(err)
		}
	}
	return f.fallback.SetBailoutFlag(ctx, userID, used)
}

func (f *FailoverStore) ApplyWork(ctx context.Context, userID int64, reward int64, cooldown time.Duration) (*WorkResult, error) {
	if !f.degraded.Load() {
		res, err := f.primary.ApplyWork(ctx, userID, reward, cooldown)
		if err == nil {
			return res, nil
		}
		f.trip(err)
	}
	return f.fallback.ApplyWork(ctx, userID, reward, cooldown)
}

func (f *FailoverStore) ExecuteTransfer(ctx context.Context, exec *TransferExec) (*TransferOutcome, error) {
	if !f.degraded.Load() {
		out, err := f.primary.ExecuteTransfer(ctx, exec)
		if err == nil {
			return out, nil
		}
		f.trip(err)
	}
	return f.fallback.ExecuteTransfer(ctx, exec)
}

func (f *FailoverStore) DailyTransferTotals(ctx context.Context, senderID int64, dayStart time.Time) (int, int64, error) {
	if !f.degraded.Load() {
		count, total, err := f.primary.DailyTransferTotals(ctx, senderID, dayStart)
		if err == nil {
			return count, total, nil
		}
		f.trip(err)
	}
	return f.fallback.DailyTransferTotals(ctx, senderID, dayStart)
}

func (f *FailoverStore) AppendTransaction(ctx context.Context, t *Transaction) error {
	if !f.degraded.Load() {
		if err := f.primary.AppendTransaction(ctx, t); err == nil {
			return nil
		} else {
			f.trip(err)
		}
	}
	return f.fallback.AppendTransaction(ctx, t)
}

func (f *FailoverStore) RecentTransactions(ctx context.Context, userID int64, limit int) ([]*Transaction, error) {
	if !f.degraded.Load() {
		txs, err := f.primary.RecentTransactions(ctx, userID, limit)
		if err == nil {
			return txs, nil
		}
		f.trip(err)
	}
	return f.fallback.RecentTransactions(ctx, userID, limit)
}

func (f *FailoverStore) TopBalances(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if !f.degraded.Load() {
		entries, err := f.primary.TopBalances(ctx, limit)
		if err == nil {
			return entries, nil
		}
		f.trip(err)
	}
	return f.fallback.TopBalances(ctx, limit)
}

func (f *FailoverStore) AppendWagerRound(ctx context.Context, r *WagerRound) error {
	if !f.degraded.Load() {
		if err := f.primary.AppendWagerRound(ctx, r); err == nil {
			return nil
		} else {
			f.trip(err)
		}
	}
	return f.fallback.AppendWagerRound(ctx, r)
}

func (f *FailoverStore) RecentWagerRounds(ctx context.Context, userID int64, limit int) ([]*WagerRound, error) {
	if !f.degraded.Load() {
		rounds, err := f.primary.RecentWagerRounds(ctx, userID, limit)
		if err == nil {
			return rounds, nil
		}
		f.trip(err)
	}
	return f.fallback.RecentWagerRounds(ctx, userID, limit)
}

func (f *FailoverStore) DailyWagerStats(ctx context.Context, userID int64, dayStart time.Time) (*DailyWagerStats, error) {
	if !f.degraded.Load() {
		stats, err := f.primary.DailyWagerStats(ctx, userID, dayStart)
		if err == nil {
			return stats, nil
		}
		f.trip(err)
	}
	return f.fallback.DailyWagerStats(ctx, userID, dayStart)
}
