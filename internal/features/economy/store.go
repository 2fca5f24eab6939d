// Package economy — store.go описывает контракт хранилища леджера.
// У контракта две полные реализации: PostgresStore (постоянное хранение)
// и MemoryStore (volatile, для деградации и тестов). FailoverStore
// оборачивает обе и переключается на volatile при отказе БД.
package economy

import (
	"context"
	"time"
)

// Store — хранилище леджера: счета, журнал переводов, рабочие сессии
// и раунды рулетки. Все денежные операции атомарны относительно
// конкурентных вызовов по одному счёту: либо одиночный условный
// UPDATE, либо короткая транзакция. Бизнес-отказы (нехватка средств,
// кулдаун) возвращаются как значения; error — только отказ
// инфраструктуры (недоступное хранилище).
type Store interface {
	// GetOrCreateAccount возвращает счёт, создавая нулевой при
	// первом обращении. Идемпотентно.
	GetOrCreateAccount(ctx context.Context, userID int64) (*Account, error)

	// Credit увеличивает баланс на amount (>0) и возвращает новый баланс.
	Credit(ctx context.Context, userID int64, amount int64) (int64, error)

	// Debit уменьшает баланс на amount (>0) одиночным условным
	// обновлением. ok=false (баланс не изменён), если средств не хватает.
	Debit(ctx context.Context, userID int64, amount int64) (ok bool, newBalance int64, err error)

	// SetBailoutFlag выставляет флаг антикризисной программы.
	// Единственная точка записи флага: через неё проходят и рабочая
	// сессия, и перевзвод после проигрыша ва-банк.
	SetBailoutFlag(ctx context.Context, userID int64, used bool) error

	// ApplyWork атомарно проверяет кулдаун и применяет рабочую сессию:
	// начисляет reward, выставляет lastWorkAt, помечает антикризисную
	// сессию и пишет строку WorkSession — всё в одной короткой
	// транзакции против одного согласованного чтения счёта.
	ApplyWork(ctx context.Context, userID int64, reward int64, cooldown time.Duration) (*WorkResult, error)

	// ExecuteTransfer атомарно исполняет перевод: условное списание
	// amount+fee у отправителя, зачисление amount получателю и строка
	// журнала. Комиссия сжигается. OK=false — средств не хватило.
	ExecuteTransfer(ctx context.Context, exec *TransferExec) (*TransferOutcome, error)

	// DailyTransferTotals возвращает количество и сумму переводов
	// отправителя с начала дня dayStart (агрегат по журналу).
	DailyTransferTotals(ctx context.Context, senderID int64, dayStart time.Time) (count int, total int64, err error)

	// AppendTransaction пишет строку журнала без движения средств
	// (используется административными операциями после Credit/Debit).
	AppendTransaction(ctx context.Context, tx *Transaction) error

	// RecentTransactions возвращает последние переводы пользователя
	// (входящие и исходящие), новые первыми.
	RecentTransactions(ctx context.Context, userID int64, limit int) ([]*Transaction, error)

	// TopBalances возвращает счета с наибольшим балансом.
	TopBalances(ctx context.Context, limit int) ([]LeaderboardEntry, error)

	// AppendWagerRound пишет строку раунда рулетки.
	AppendWagerRound(ctx context.Context, round *WagerRound) error

	// RecentWagerRounds возвращает последние раунды пользователя,
	// новые первыми (для подсчёта серий поражений).
	RecentWagerRounds(ctx context.Context, userID int64, limit int) ([]*WagerRound, error)

	// DailyWagerStats возвращает агрегаты раундов с начала дня dayStart.
	DailyWagerStats(ctx context.Context, userID int64, dayStart time.Time) (*DailyWagerStats, error)
}
