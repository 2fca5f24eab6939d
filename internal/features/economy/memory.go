// Package economy — memory.go реализует контракт Store в памяти процесса.
// Используется как аварийный режим при недоступной БД (тот же контракт,
// слабее долговечность: рестарт обнуляет балансы) и как подмена в тестах.
package economy

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore — volatile-реализация леджера. Один мьютекс на всё
// хранилище: операции короткие, линеаризуемость по счёту получается
// автоматически.
type MemoryStore struct {
	mu           sync.Mutex
	accounts     map[int64]*Account
	transactions []*Transaction
	sessions     []*WorkSession
	rounds       []*WagerRound
	nextID       int64

	// подменяется в тестах для управления временем
	now func() time.Time
}

// NewMemoryStore создаёт пустое in-memory хранилище.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[int64]*Account),
		now:      time.Now,
	}
}

func (s *MemoryStore) nextSeq() int64 {
	s.nextID++
	return s.nextID
}

// getOrCreateLocked возвращает счёт, создавая нулевой. Вызывается под мьютексом.
func (s *MemoryStore) getOrCreateLocked(userID int64) *Account {
	if a, ok := s.accounts[userID]; ok {
		return a
	}
	now := s.now()
	a := &Account{
		ID:        s.nextSeq(),
		UserID:    userID,
		Balance:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.accounts[userID] = a
	return a
}

func copyAccount(a *Account) *Account {
	c := *a
	if a.LastWorkAt != nil {
		t := *a.LastWorkAt
		c.LastWorkAt = &t
	}
	return &c
}

// GetOrCreateAccount возвращает копию счёта (создавая нулевой при первом обращении).
func (s *MemoryStore) GetOrCreateAccount(ctx context.Context, userID int64) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyAccount(s.getOrCreateLocked(userID)), nil
}

// Credit увеличивает баланс и возвращает новый.
func (s *MemoryStore) Credit(ctx context.Context, userID int64, amount int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.getOrCreateLocked(userID)
	a.Balance += amount
	a.UpdatedAt = s.now()
	return a.Balance, nil
}

// Debit уменьшает баланс, если средств хватает.
func (s *MemoryStore) Debit(ctx context.Context, userID int64, amount int64) (bool, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.getOrCreateLocked(userID)
	if a.Balance < amount {
		return false, 0, nil
	}
	a.Balance -= amount
	a.UpdatedAt = s.now()
	return true, a.Balance, nil
}

// SetBailoutFlag выставляет флаг антикризисной программы.
func (s *MemoryStore) SetBailoutFlag(ctx context.Context, userID int64, used bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.getOrCreateLocked(userID)
	a.BailoutUsed = used
	a.UpdatedAt = s.now()
	return nil
}

// ApplyWork проверяет кулдаун и применяет рабочую сессию под мьютексом.
func (s *MemoryStore) ApplyWork(ctx context.Context, userID int64, reward int64, cooldown time.Duration) (*WorkResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.getOrCreateLocked(userID)
	now := s.now()

	status := a.WorkStatus(now, cooldown)
	if status.State == WorkOnCooldown {
		return &WorkResult{OK: false, Remaining: status.Remaining}, nil
	}
	bailout := status.State == WorkBailoutEligible

	before := a.Balance
	a.Balance += reward
	workedAt := now
	a.LastWorkAt = &workedAt
	if bailout {
		a.BailoutUsed = true
	}
	a.UpdatedAt = now

	s.sessions = append(s.sessions, &WorkSession{
		ID:            s.nextSeq(),
		UserID:        userID,
		Reward:        reward,
		BalanceBefore: before,
		BalanceAfter:  a.Balance,
		Bailout:       bailout,
		CreatedAt:     now,
	})

	return &WorkResult{OK: true, Reward: reward, Bailout: bailout, NewBalance: a.Balance}, nil
}

// ExecuteTransfer исполняет перевод атомарно под мьютексом.
func (s *MemoryStore) ExecuteTransfer(ctx context.Context, exec *TransferExec) (*TransferOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := exec.Amount + exec.Fee
	sender := s.getOrCreateLocked(exec.FromUserID)
	if sender.Balance < total {
		return &TransferOutcome{OK: false}, nil
	}
	receiver := s.getOrCreateLocked(exec.ToUserID)

	now := s.now()
	senderBefore := sender.Balance
	receiverBefore := receiver.Balance
	sender.Balance -= total
	receiver.Balance += exec.Amount
	sender.UpdatedAt = now
	receiver.UpdatedAt = now

	from, to := exec.FromUserID, exec.ToUserID
	s.transactions = append(s.transactions, &Transaction{
		ID:                    s.nextSeq(),
		FromUserID:            &from,
		ToUserID:              &to,
		Amount:                exec.Amount,
		Fee:                   exec.Fee,
		SenderBalanceBefore:   senderBefore,
		SenderBalanceAfter:    sender.Balance,
		ReceiverBalanceBefore: receiverBefore,
		ReceiverBalanceAfter:  receiver.Balance,
		TransactionType:       TxTypeTransfer,
		Memo:                  exec.Memo,
		CreatedAt:             now,
	})

	return &TransferOutcome{OK: true, SenderBalance: sender.Balance, ReceiverBalance: receiver.Balance}, nil
}

// DailyTransferTotals агрегирует переводы отправителя с начала дня.
func (s *MemoryStore) DailyTransferTotals(ctx context.Context, senderID int64, dayStart time.Time) (int, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	var total int64
	for _, t := range s.transactions {
		if t.TransactionType != TxTypeTransfer || t.FromUserID == nil || *t.FromUserID != senderID {
			continue
		}
		if t.CreatedAt.Before(dayStart) {
			continue
		}
		count++
		total += t.Amount
	}
	return count, total, nil
}

// AppendTransaction пишет строку журнала.
func (s *MemoryStore) AppendTransaction(ctx context.Context, t *Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *t
	c.ID = s.nextSeq()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	s.transactions = append(s.transactions, &c)
	return nil
}

// RecentTransactions возвращает последние переводы пользователя, новые первыми.
func (s *MemoryStore) RecentTransactions(ctx context.Context, userID int64, limit int) ([]*Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*Transaction
	for i := len(s.transactions) - 1; i >= 0 && len(out) < limit; i-- {
		t := s.transactions[i]
		if (t.FromUserID != nil && *t.FromUserID == userID) ||
			(t.ToUserID != nil && *t.ToUserID == userID) {
			c := *t
			out = append(out, &c)
		}
	}
	return out, nil
}

// TopBalances возвращает счета с наибольшим балансом.
func (s *MemoryStore) TopBalances(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]LeaderboardEntry, 0, len(s.accounts))
	for _, a := range s.accounts {
		entries = append(entries, LeaderboardEntry{UserID: a.UserID, Balance: a.Balance})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Balance != entries[j].Balance {
			return entries[i].Balance > entries[j].Balance
		}
		return entries[i].UserID < entries[j].UserID
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// AppendWagerRound пишет строку раунда рулетки.
func (s *MemoryStore) AppendWagerRound(ctx context.Context, r *WagerRound) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *r
	c.ID = s.nextSeq()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	s.rounds = append(s.rounds, &c)
	return nil
}

// RecentWagerRounds возвращает последние раунды пользователя, новые первыми.
func (s *MemoryStore) RecentWagerRounds(ctx context.Context, userID int64, limit int) ([]*WagerRound, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*WagerRound
	for i := len(s.rounds) - 1; i >= 0 && len(out) < limit; i-- {
		if s.rounds[i].UserID == userID {
			c := *s.rounds[i]
			out = append(out, &c)
		}
	}
	return out, nil
}

// DailyWagerStats агрегирует раунды пользователя с начала дня.
func (s *MemoryStore) DailyWagerStats(ctx context.Context, userID int64, dayStart time.Time) (*DailyWagerStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats DailyWagerStats
	for _, r := range s.rounds {
		if r.UserID != userID || r.CreatedAt.Before(dayStart) {
			continue
		}
		stats.GamesPlayed++
		if r.Won {
			stats.GamesWon++
		}
		stats.TotalWagered += r.Amount
		stats.TotalWon += r.WinAmount
	}
	return &stats, nil
}
