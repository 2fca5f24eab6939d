// Package roulette реализует европейскую рулетку: одно колесо 0-36,
// категории ставок, выплаты и утешительную систему против серий
// поражений. models.go описывает ставки и результаты раундов.
package roulette

// BetCategory — тип ставки.
type BetCategory int

const (
	// BetStraight — ставка на конкретное число 0-36, выплата 35:1
	BetStraight BetCategory = iota
	// BetRed — ставка на красное, выплата 1:1
	BetRed
	// BetBlack — ставка на чёрное, выплата 1:1
	BetBlack
	// BetOdd — ставка на нечётное, выплата 1:1
	BetOdd
	// BetEven — ставка на чётное, выплата 1:1
	BetEven
	// BetLow — ставка на 1-18, выплата 1:1
	BetLow
	// BetHigh — ставка на 19-36, выплата 1:1
	BetHigh
	// BetDozen — ставка на дюжину (1-12, 13-24, 25-36), выплата 2:1
	BetDozen
	// BetColumn — ставка на колонку, выплата 2:1
	BetColumn
)

// String возвращает имя категории для журнала раундов.
func (c BetCategory) String() string {
	switch c {
	case BetStraight:
		return "straight"
	case BetRed:
		return "red"
	case BetBlack:
		return "black"
	case BetOdd:
		return "odd"
	case BetEven:
		return "even"
	case BetLow:
		return "low"
	case BetHigh:
		return "high"
	case BetDozen:
		return "dozen"
	case BetColumn:
		return "column"
	default:
		return "unknown"
	}
}

// Bet — ставка игрока. Selector используется только для BetStraight
// (число 0-36), BetDozen и BetColumn (1-3).
type Bet struct {
	Category BetCategory
	Selector int
	Amount   int64
}

// Цвета чисел на колесе
const (
	ColorRed   = "red"
	ColorBlack = "black"
	ColorGreen = "green" // Только зеро
)

// Outcome — результат вращения колеса.
type Outcome struct {
	Number int
	Color  string
}

// PityInput — снимок состояния игрока для расчёта утешительного бонуса.
type PityInput struct {
	LosingStreak int   // Серия поражений перед этим раундом
	Balance      int64 // Баланс после расчёта исхода раунда (до бонуса)
	RecentAvgBet int64 // Средняя ставка последних раундов
}

// RoundResult — полный итог одного раунда.
type RoundResult struct {
	Bet               Bet
	Outcome           Outcome
	Won               bool
	PayoutRatio       int   // 35, 2 или 1; 0 при проигрыше
	WinAmount         int64 // Ставка + выигрыш, зачисляется при победе
	Consolation       bool
	ConsolationAmount int64
	LosingStreak      int // Серия поражений с учётом этого раунда
	BalanceBefore     int64
	BalanceAfter      int64
}
