// Package roulette — payout.go: проверка выигрыша и коэффициенты выплат.
package roulette

// PayoutRatio возвращает коэффициент выплаты категории (N в "N:1").
func PayoutRatio(c BetCategory) int {
	switch c {
	case BetStraight:
		return 35
	case BetDozen, BetColumn:
		return 2
	default:
		return 1
	}
}

// CheckWin проверяет, выиграла ли ставка при данном исходе.
// Зеро проигрывает всем ставкам, кроме straight на 0: красное/чёрное,
// чёт/нечет, низкие/высокие, дюжины и колонки зеро не покрывают.
// В этом и состоит преимущество казино.
func CheckWin(bet Bet, outcome Outcome) bool {
	n := outcome.Number

	if bet.Category == BetStraight {
		return n == bet.Selector
	}
	if n == 0 {
		return false
	}

	switch bet.Category {
	case BetRed:
		return outcome.Color == ColorRed
	case BetBlack:
		return outcome.Color == ColorBlack
	case BetOdd:
		return n%2 == 1
	case BetEven:
		return n%2 == 0
	case BetLow:
		return n >= 1 && n <= 18
	case BetHigh:
		return n >= 19 && n <= 36
	case BetDozen:
		return (n-1)/12 == bet.Selector-1
	case BetColumn:
		return (n-1)%3 == bet.Selector-1
	default:
		return false
	}
}

// ValidBet проверяет корректность селектора ставки.
func ValidBet(bet Bet) bool {
	switch bet.Category {
	case BetStraight:
		return bet.Selector >= 0 && bet.Selector <= 36
	case BetDozen, BetColumn:
		return bet.Selector >= 1 && bet.Selector <= 3
	default:
		return true
	}
}
