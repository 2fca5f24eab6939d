// Package roulette — engine.go: чистая оценка раунда.
// Никаких побочных эффектов: на входе ставка, исход и снимок состояния
// игрока, на выходе полный итог раунда. Движение денег — забота сервиса.
package roulette

// EvaluateRound оценивает раунд. balanceBefore — баланс до списания
// ставки, priorLosses — серия поражений перед этим раундом, recentAvgBet —
// средняя ставка последних раундов (для защиты утешительной системы).
func EvaluateRound(bet Bet, outcome Outcome, balanceBefore int64, priorLosses int, recentAvgBet int64) RoundResult {
	afterDebit := balanceBefore - bet.Amount

	result := RoundResult{
		Bet:           bet,
		Outcome:       outcome,
		BalanceBefore: balanceBefore,
	}

	if CheckWin(bet, outcome) {
		ratio := PayoutRatio(bet.Category)
		result.Won = true
		result.PayoutRatio = ratio
		// Ставка возвращается вместе с выигрышем: N:1 означает
		// зачисление bet*(N+1) после списания bet
		result.WinAmount = bet.Amount * int64(ratio+1)
		result.BalanceAfter = afterDebit + result.WinAmount
		result.LosingStreak = 0
	} else {
		result.LosingStreak = priorLosses + 1
		result.BalanceAfter = afterDebit
	}

	// Утешительный бонус заработан пережитой серией поражений и не
	// зависит от исхода этого раунда: выигрыш серию закрывает, но
	// положенный за неё бонус не отменяет
	consolation := ConsolationAmount(bet.Amount, PityInput{
		LosingStreak: priorLosses,
		Balance:      result.BalanceAfter,
		RecentAvgBet: recentAvgBet,
	})
	if consolation > 0 {
		result.Consolation = true
		result.ConsolationAmount = consolation
		result.BalanceAfter += consolation
	}

	return result
}
