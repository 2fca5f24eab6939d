// Package economy — леджер виртуальной валюты «фишки»: счета, атомарные
// начисления/списания, машина состояний работы и протокол переводов.
// models.go описывает структуры счетов и журнальных записей.
package economy

import "time"

// Account — счёт участника. Ровно одна запись на пользователя.
// Инвариант: Balance >= 0 всегда; BailoutUsed переходит false→true
// только через антикризисную рабочую сессию и перевзводится обратно
// только рулеткой после проигрыша ва-банк.
type Account struct {
	ID          int64      `db:"id"`
	UserID      int64      `db:"user_id"`      // Telegram user ID
	Balance     int64      `db:"balance"`      // Текущий баланс (минимальные единицы, >= 0)
	LastWorkAt  *time.Time `db:"last_work_at"` // Когда последний раз работал (nil = никогда)
	BailoutUsed bool       `db:"bailout_used"` // Использована ли антикризисная программа
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// Transaction — запись одного перевода или административной операции.
// Журнал append-only: записи никогда не изменяются. Дневные лимиты
// переводов считаются агрегацией по этим строкам, а не по счётчику.
type Transaction struct {
	ID                    int64     `db:"id"`
	FromUserID            *int64    `db:"from_user_id"` // nil для системных начислений
	ToUserID              *int64    `db:"to_user_id"`   // nil для системных списаний
	Amount                int64     `db:"amount"`       // Сумма, которую получил получатель
	Fee                   int64     `db:"fee"`          // Комиссия (сжигается, никому не зачисляется)
	SenderBalanceBefore   int64     `db:"sender_balance_before"`
	SenderBalanceAfter    int64     `db:"sender_balance_after"`
	ReceiverBalanceBefore int64     `db:"receiver_balance_before"`
	ReceiverBalanceAfter  int64     `db:"receiver_balance_after"`
	TransactionType       string    `db:"transaction_type"` // 'transfer', 'admin_give', ...
	Memo                  string    `db:"memo"`             // Произвольный комментарий
	CreatedAt             time.Time `db:"created_at"`
}

// Допустимые типы транзакций
const (
	TxTypeTransfer   = "transfer"    // Перевод между пользователями
	TxTypeAdminGive  = "admin_give"  // Выдача админом
	TxTypeAdminTake  = "admin_take"  // Изъятие админом
	TxTypeAdminReset = "admin_reset" // Административный сброс счёта
)

// WorkSession — запись одной успешной рабочей сессии. Append-only.
type WorkSession struct {
	ID            int64     `db:"id"`
	UserID        int64     `db:"user_id"`
	Reward        int64     `db:"reward"`
	BalanceBefore int64     `db:"balance_before"`
	BalanceAfter  int64     `db:"balance_after"`
	Bailout       bool      `db:"bailout"` // Была ли это антикризисная сессия
	CreatedAt     time.Time `db:"created_at"`
}

// WagerRound — запись одного раунда рулетки. Append-only; по этим
// строкам считаются серии поражений и дневная статистика.
type WagerRound struct {
	ID                int64     `db:"id"`
	UserID            int64     `db:"user_id"`
	Category          string    `db:"category"` // Тип ставки: straight, red, dozen, ...
	Selector          int       `db:"selector"` // Число для straight, номер дюжины/колонки
	Amount            int64     `db:"amount"`
	OutcomeNumber     int       `db:"outcome_number"`
	OutcomeColor      string    `db:"outcome_color"`
	Won               bool      `db:"won"`
	WinAmount         int64     `db:"win_amount"` // Выплата при выигрыше (ставка + выигрыш)
	PayoutRatio       int       `db:"payout_ratio"`
	Consolation       bool      `db:"consolation"`
	ConsolationAmount int64     `db:"consolation_amount"`
	LosingStreak      int       `db:"losing_streak"` // Серия поражений на момент раунда
	BalanceBefore     int64     `db:"balance_before"`
	BalanceAfter      int64     `db:"balance_after"`
	CreatedAt         time.Time `db:"created_at"`
}

// WorkState — состояние машины «работа/кулдаун».
type WorkState int

const (
	// WorkReady — можно работать (кулдаун прошёл или работы ещё не было)
	WorkReady WorkState = iota
	// WorkOnCooldown — надо подождать Remaining
	WorkOnCooldown
	// WorkBailoutEligible — баланс 0 и антикризисная программа не
	// использована: работа разрешена в обход кулдауна
	WorkBailoutEligible
)

// WorkStatus — результат проверки «можно ли работать».
type WorkStatus struct {
	State     WorkState
	Remaining time.Duration // Заполнено только для WorkOnCooldown
}

// WorkStatus вычисляет состояние машины работы по согласованному
// снимку счёта. Антикризисная ветка имеет приоритет над кулдауном.
func (a *Account) WorkStatus(now time.Time, cooldown time.Duration) WorkStatus {
	if a.Balance == 0 && !a.BailoutUsed {
		return WorkStatus{State: WorkBailoutEligible}
	}
	if a.LastWorkAt == nil {
		return WorkStatus{State: WorkReady}
	}
	elapsed := now.Sub(*a.LastWorkAt)
	if elapsed >= cooldown {
		return WorkStatus{State: WorkReady}
	}
	return WorkStatus{State: WorkOnCooldown, Remaining: cooldown - elapsed}
}

// WorkResult — результат попытки поработать.
// Бизнес-отказ (кулдаун) — это OK=false, а не ошибка.
type WorkResult struct {
	OK         bool
	Remaining  time.Duration // Сколько ждать, если OK=false
	Reward     int64         // Сколько заработано, если OK=true
	Bailout    bool          // Была ли это антикризисная сессия
	NewBalance int64
}

// TransferExec — параметры атомарного исполнения перевода в хранилище.
type TransferExec struct {
	FromUserID int64
	ToUserID   int64
	Amount     int64 // Зачисляется получателю
	Fee        int64 // Сжигается
	Memo       string
}

// TransferOutcome — результат исполнения перевода.
// OK=false означает, что у отправителя не хватило средств в момент
// исполнения (баланс мог уехать между котировкой и подтверждением).
type TransferOutcome struct {
	OK              bool
	SenderBalance   int64
	ReceiverBalance int64
}

// LeaderboardEntry — строка таблицы лидеров.
type LeaderboardEntry struct {
	UserID  int64
	Balance int64
}

// DailyWagerStats — дневная статистика рулетки пользователя.
type DailyWagerStats struct {
	GamesPlayed  int
	GamesWon     int
	TotalWagered int64
	TotalWon     int64
}

// WinRate возвращает долю выигранных раундов за день (0..1).
func (s *DailyWagerStats) WinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.GamesWon) / float64(s.GamesPlayed)
}

// NetProfit возвращает чистый результат дня (может быть отрицательным).
func (s *DailyWagerStats) NetProfit() int64 {
	return s.TotalWon - s.TotalWagered
}
