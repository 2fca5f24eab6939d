package economy

import (
	"context"
	"errors"
	"testing"
	"time"

	"roulette-bot/internal/common"
)

// failingStore — хранилище, у которого «упала база».
type failingStore struct{}

var errStoreDown = errors.New("хранилище недоступно")

func (f *failingStore) GetOrCreateAccount(context.Context, int64) (*Account, error) {
	return nil, errStoreDown
}
func (f *failingStore) Credit(context.Context, int64, int64) (int64, error) {
	return 0, errStoreDown
}
func (f *failingStore) Debit(context.Context, int64, int64) (bool, int64, error) {
	return false, 0, errStoreDown
}
func (f *failingStore) SetBailoutFlag(context.Context, int64, bool) error { return errStoreDown }
func (f *failingStore) ApplyWork(context.Context, int64, int64, time.Duration) (*WorkResult, error) {
	return nil, errStoreDown
}
func (f *failingStore) ExecuteTransfer(context.Context, *TransferExec) (*TransferOutcome, error) {
	return nil, errStoreDown
}
func (f *failingStore) DailyTransferTotals(context.Context, int64, time.Time) (int, int64, error) {
	return 0, 0, errStoreDown
}
func (f *failingStore) AppendTransaction(context.Context, *Transaction) error { return errStoreDown }
func (f *failingStore) RecentTransactions(context.Context, int64, int) ([]*Transaction, error) {
	return nil, errStoreDown
}
func (f *failingStore) TopBalances(context.Context, int) ([]LeaderboardEntry, error) {
	return nil, errStoreDown
}
func (f *failingStore) AppendWagerRound(context.Context, *WagerRound) error { return errStoreDown }
func (f *failingStore) RecentWagerRounds(context.Context, int64, int) ([]*WagerRound, error) {
	return nil, errStoreDown
}
func (f *failingStore) DailyWagerStats(context.Context, int64, time.Time) (*DailyWagerStats, error) {
	return nil, errStoreDown
}

func TestServiceDebitInsufficient(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTransferService(t, 50)

	if _, err := svc.Debit(ctx, 1, 51); !errors.Is(err, common.ErrInsufficientBalance) {
		t.Errorf("Debit(51) err = %v, ожидалось ErrInsufficientBalance", err)
	}
	if _, err := svc.Debit(ctx, 1, 0); !errors.Is(err, common.ErrInvalidAmount) {
		t.Errorf("Debit(0) err = %v, ожидалось ErrInvalidAmount", err)
	}

	newBalance, err := svc.Debit(ctx, 1, 50)
	if err != nil || newBalance != 0 {
		t.Errorf("Debit(50) = (%d, %v), ожидалось (0, nil)", newBalance, err)
	}
}

func TestAdminGiveTakeReset(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	svc := NewService(store, transferTestConfig())

	balance, err := svc.AdminGive(ctx, 1, 500, "тест")
	if err != nil || balance != 500 {
		t.Fatalf("AdminGive = (%d, %v), ожидалось (500, nil)", balance, err)
	}

	balance, err = svc.AdminTake(ctx, 1, 200, "тест")
	if err != nil || balance != 300 {
		t.Fatalf("AdminTake = (%d, %v), ожидалось (300, nil)", balance, err)
	}

	// Изъятие больше баланса — бизнес-отказ
	if _, err := svc.AdminTake(ctx, 1, 1000, "тест"); !errors.Is(err, common.ErrInsufficientBalance) {
		t.Errorf("AdminTake(1000) err = %v, ожидалось ErrInsufficientBalance", err)
	}

	// Сброс: баланс в ноль, антикризисная программа снова доступна
	store.SetBailoutFlag(ctx, 1, true)
	if err := svc.AdminReset(ctx, 1); err != nil {
		t.Fatalf("AdminReset: %v", err)
	}
	a, _ := store.GetOrCreateAccount(ctx, 1)
	if a.Balance != 0 || a.BailoutUsed {
		t.Errorf("после сброса баланс=%d bailout_used=%v, ожидалось 0/false", a.Balance, a.BailoutUsed)
	}

	// Все три операции оставили след в журнале
	txs, _ := store.RecentTransactions(ctx, 1, 10)
	if len(txs) != 3 {
		t.Errorf("записей в журнале = %d, ожидалось 3", len(txs))
	}
}

func TestFailoverStoreTripsToMemory(t *testing.T) {
	ctx := context.Background()

	// Первичное хранилище сразу падает: FailoverStore должен
	// переключиться на запасное и больше не трогать первичное
	failover := NewFailoverStore(&failingStore{}, NewMemoryStore())

	if failover.Degraded() {
		t.Fatal("хранилище деградировано до первой ошибки")
	}

	if _, err := failover.Credit(ctx, 1, 100); err != nil {
		t.Fatalf("Credit через failover: %v", err)
	}
	if !failover.Degraded() {
		t.Fatal("хранилище не деградировало после ошибки первичного")
	}

	// Данные живут в запасном
	a, err := failover.GetOrCreateAccount(ctx, 1)
	if err != nil {
		t.Fatalf("GetOrCreateAccount: %v", err)
	}
	if a.Balance != 100 {
		t.Errorf("баланс = %d, ожидалось 100", a.Balance)
	}
}
