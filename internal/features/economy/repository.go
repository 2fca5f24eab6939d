// Package economy — repository.go реализует контракт Store поверх PostgreSQL.
// Списания выполняются одиночным условным UPDATE (balance >= amount),
// а не парой чтение-запись: две конкурентные операции по одному счёту
// (перевод и расчёт ставки в один момент) иначе потеряли бы обновление.
// Составные операции (работа, перевод) — короткие транзакции.
package economy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore — постоянное хранилище леджера.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore создаёт хранилище поверх пула соединений.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

const accountColumns = `id, user_id, balance, last_work_at, bailout_used, created_at, updated_at`

func scanAccount(row pgx.Row) (*Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.UserID, &a.Balance, &a.LastWorkAt, &a.BailoutUsed, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetOrCreateAccount возвращает счёт, создавая нулевой при первом обращении.
func (s *PostgresStore) GetOrCreateAccount(ctx context.Context, userID int64) (*Account, error) {
	_, err := s.db.Exec(ctx, `
		INSERT INTO accounts (user_id, balance, bailout_used)
		VALUES ($1, 0, FALSE)
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания счёта: %w", err)
	}

	row := s.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1`, userID)
	a, err := scanAccount(row)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения счёта: %w", err)
	}
	return a, nil
}

// Credit увеличивает баланс и возвращает новый. Для валидной
// положительной суммы не может отказать по бизнес-причине.
func (s *PostgresStore) Credit(ctx context.Context, userID int64, amount int64) (int64, error) {
	var newBalance int64
	err := s.db.QueryRow(ctx, `
		UPDATE accounts
		SET balance = balance + $2, updated_at = NOW()
		WHERE user_id = $1
		RETURNING balance
	`, userID, amount).Scan(&newBalance)
	if err != nil {
		return 0, fmt.Errorf("ошибка начисления: %w", err)
	}
	return newBalance, nil
}

// Debit списывает сумму одиночным условным обновлением.
// Ноль затронутых строк = средств не хватило, баланс не изменён.
func (s *PostgresStore) Debit(ctx context.Context, userID int64, amount int64) (bool, int64, error) {
	var newBalance int64
	err := s.db.QueryRow(ctx, `
		UPDATE accounts
		SET balance = balance - $2, updated_at = NOW()
		WHERE user_id = $1 AND balance >= $2
		RETURNING balance
	`, userID, amount).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Условие balance >= amount не выполнилось
			return false, 0, nil
		}
		return false, 0, fmt.Errorf("ошибка списания: %w", err)
	}
	return true, newBalance, nil
}

// SetBailoutFlag выставляет флаг антикризисной программы.
func (s *PostgresStore) SetBailoutFlag(ctx context.Context, userID int64, used bool) error {
	_, err := s.db.Exec(ctx, `
		UPDATE accounts
		SET bailout_used = $2, updated_at = NOW()
		WHERE user_id = $1
	`, userID, used)
	if err != nil {
		return fmt.Errorf("ошибка установки флага bailout: %w", err)
	}
	return nil
}

// ApplyWork проверяет кулдаун и применяет рабочую сессию в одной
// транзакции. SELECT ... FOR UPDATE даёт согласованное чтение: между
// проверкой кулдауна и записью никто не вклинится.
func (s *PostgresStore) ApplyWork(ctx context.Context, userID int64, reward int64, cooldown time.Duration) (*WorkResult, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO accounts (user_id, balance, bailout_used)
		VALUES ($1, 0, FALSE)
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания счёта: %w", err)
	}

	row := tx.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1 FOR UPDATE`, userID)
	acct, err := scanAccount(row)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения счёта: %w", err)
	}

	now := time.Now().UTC()
	status := acct.WorkStatus(now, cooldown)
	if status.State == WorkOnCooldown {
		return &WorkResult{OK: false, Remaining: status.Remaining}, nil
	}
	bailout := status.State == WorkBailoutEligible

	newBalance := acct.Balance + reward
	_, err = tx.Exec(ctx, `
		UPDATE accounts
		SET balance = $2, last_work_at = $3, bailout_used = bailout_used OR $4, updated_at = NOW()
		WHERE user_id = $1
	`, userID, newBalance, now, bailout)
	if err != nil {
		return nil, fmt.Errorf("ошибка применения рабочей сессии: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO work_sessions (user_id, reward, balance_before, balance_after, bailout, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, userID, reward, acct.Balance, newBalance, bailout, now)
	if err != nil {
		return nil, fmt.Errorf("ошибка записи рабочей сессии: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}

	return &WorkResult{OK: true, Reward: reward, Bailout: bailout, NewBalance: newBalance}, nil
}

// ExecuteTransfer исполняет перевод: условное списание amount+fee,
// зачисление amount, строка журнала — одной транзакцией. Комиссия
// никому не зачисляется (сжигается).
func (s *PostgresStore) ExecuteTransfer(ctx context.Context, exec *TransferExec) (*TransferOutcome, error) {
	total := exec.Amount + exec.Fee

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var senderAfter int64
	err = tx.QueryRow(ctx, `
		UPDATE accounts
		SET balance = balance - $2, updated_at = NOW()
		WHERE user_id = $1 AND balance >= $2
		RETURNING balance
	`, exec.FromUserID, total).Scan(&senderAfter)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Баланс уехал между котировкой и подтверждением
			return &TransferOutcome{OK: false}, nil
		}
		return nil, fmt.Errorf("ошибка списания у отправителя: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO accounts (user_id, balance, bailout_used)
		VALUES ($1, 0, FALSE)
		ON CONFLICT (user_id) DO NOTHING
	`, exec.ToUserID)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания счёта получателя: %w", err)
	}

	var receiverAfter int64
	err = tx.QueryRow(ctx, `
		UPDATE accounts
		SET balance = balance + $2, updated_at = NOW()
		WHERE user_id = $1
		RETURNING balance
	`, exec.ToUserID, exec.Amount).Scan(&receiverAfter)
	if err != nil {
		return nil, fmt.Errorf("ошибка начисления получателю: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO transactions (
			from_user_id, to_user_id, amount, fee,
			sender_balance_before, sender_balance_after,
			receiver_balance_before, receiver_balance_after,
			transaction_type, memo
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, exec.FromUserID, exec.ToUserID, exec.Amount, exec.Fee,
		senderAfter+total, senderAfter,
		receiverAfter-exec.Amount, receiverAfter,
		TxTypeTransfer, exec.Memo,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка записи транзакции: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}

	return &TransferOutcome{OK: true, SenderBalance: senderAfter, ReceiverBalance: receiverAfter}, nil
}

// DailyTransferTotals агрегирует переводы отправителя с начала дня.
func (s *PostgresStore) DailyTransferTotals(ctx context.Context, senderID int64, dayStart time.Time) (int, int64, error) {
	var count int
	var total int64
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE from_user_id = $1 AND transaction_type = $2 AND created_at >= $3
	`, senderID, TxTypeTransfer, dayStart).Scan(&count, &total)
	if err != nil {
		return 0, 0, fmt.Errorf("ошибка подсчёта дневных переводов: %w", err)
	}
	return count, total, nil
}

// AppendTransaction пишет строку журнала.
func (s *PostgresStore) AppendTransaction(ctx context.Context, t *Transaction) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO transactions (
			from_user_id, to_user_id, amount, fee,
			sender_balance_before, sender_balance_after,
			receiver_balance_before, receiver_balance_after,
			transaction_type, memo
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, t.FromUserID, t.ToUserID, t.Amount, t.Fee,
		t.SenderBalanceBefore, t.SenderBalanceAfter,
		t.ReceiverBalanceBefore, t.ReceiverBalanceAfter,
		t.TransactionType, t.Memo,
	)
	if err != nil {
		return fmt.Errorf("ошибка записи транзакции: %w", err)
	}
	return nil
}

// RecentTransactions возвращает последние переводы пользователя.
func (s *PostgresStore) RecentTransactions(ctx context.Context, userID int64, limit int) ([]*Transaction, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, from_user_id, to_user_id, amount, fee,
		       sender_balance_before, sender_balance_after,
		       receiver_balance_before, receiver_balance_after,
		       transaction_type, memo, created_at
		FROM transactions
		WHERE from_user_id = $1 OR to_user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения транзакций: %w", err)
	}
	defer rows.Close()

	var transactions []*Transaction
	for rows.Next() {
		var t Transaction
		err := rows.Scan(
			&t.ID, &t.FromUserID, &t.ToUserID, &t.Amount, &t.Fee,
			&t.SenderBalanceBefore, &t.SenderBalanceAfter,
			&t.ReceiverBalanceBefore, &t.ReceiverBalanceAfter,
			&t.TransactionType, &t.Memo, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования транзакции: %w", err)
		}
		transactions = append(transactions, &t)
	}
	return transactions, rows.Err()
}

// TopBalances возвращает счета с наибольшим балансом.
func (s *PostgresStore) TopBalances(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT user_id, balance
		FROM accounts
		ORDER BY balance DESC, user_id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения таблицы лидеров: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Balance); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки лидеров: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// AppendWagerRound пишет строку раунда рулетки.
func (s *PostgresStore) AppendWagerRound(ctx context.Context, r *WagerRound) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO wager_rounds (
			user_id, category, selector, amount,
			outcome_number, outcome_color, won, win_amount, payout_ratio,
			consolation, consolation_amount, losing_streak,
			balance_before, balance_after
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, r.UserID, r.Category, r.Selector, r.Amount,
		r.OutcomeNumber, r.OutcomeColor, r.Won, r.WinAmount, r.PayoutRatio,
		r.Consolation, r.ConsolationAmount, r.LosingStreak,
		r.BalanceBefore, r.BalanceAfter,
	)
	if err != nil {
		return fmt.Errorf("ошибка записи раунда: %w", err)
	}
	return nil
}

// RecentWagerRounds возвращает последние раунды пользователя, новые первыми.
func (s *PostgresStore) RecentWagerRounds(ctx context.Context, userID int64, limit int) ([]*WagerRound, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, category, selector, amount,
		       outcome_number, outcome_color, won, win_amount, payout_ratio,
		       consolation, consolation_amount, losing_streak,
		       balance_before, balance_after, created_at
		FROM wager_rounds
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения раундов: %w", err)
	}
	defer rows.Close()

	var rounds []*WagerRound
	for rows.Next() {
		var r WagerRound
		err := rows.Scan(
			&r.ID, &r.UserID, &r.Category, &r.Selector, &r.Amount,
			&r.OutcomeNumber, &r.OutcomeColor, &r.Won, &r.WinAmount, &r.PayoutRatio,
			&r.Consolation, &r.ConsolationAmount, &r.LosingStreak,
			&r.BalanceBefore, &r.BalanceAfter, &r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования раунда: %w", err)
		}
		rounds = append(rounds, &r)
	}
	return rounds, rows.Err()
}

// DailyWagerStats агрегирует раунды пользователя с начала дня.
func (s *PostgresStore) DailyWagerStats(ctx context.Context, userID int64, dayStart time.Time) (*DailyWagerStats, error) {
	var stats DailyWagerStats
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE won),
		       COALESCE(SUM(amount), 0),
		       COALESCE(SUM(win_amount), 0)
		FROM wager_rounds
		WHERE user_id = $1 AND created_at >= $2
	`, userID, dayStart).Scan(&stats.GamesPlayed, &stats.GamesWon, &stats.TotalWagered, &stats.TotalWon)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчёта дневной статистики: %w", err)
	}
	return &stats, nil
}
