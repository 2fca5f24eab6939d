package roulette

import "testing"

func TestEvaluateRoundWin(t *testing.T) {
	// Красное 100 при балансе 500: списали 100, зачислили 200
	bet := Bet{Category: BetRed, Amount: 100}
	outcome := Outcome{Number: 14, Color: ColorRed}

	r := EvaluateRound(bet, outcome, 500, 3, 100)

	if !r.Won || r.PayoutRatio != 1 {
		t.Fatalf("r = %+v, ожидался выигрыш 1:1", r)
	}
	if r.WinAmount != 200 {
		t.Errorf("WinAmount = %d, ожидалось 200", r.WinAmount)
	}
	if r.BalanceAfter != 600 {
		t.Errorf("BalanceAfter = %d, ожидалось 600", r.BalanceAfter)
	}
	if r.LosingStreak != 0 {
		t.Errorf("LosingStreak = %d, выигрыш должен обнулять серию", r.LosingStreak)
	}
	// Серия из трёх поражений бонуса ещё не заработала
	if r.Consolation {
		t.Errorf("r = %+v, бонус на серии 3 не положен", r)
	}
}

func TestEvaluateRoundWinWithConsolation(t *testing.T) {
	// Бонус заработан шестью поражениями перед раундом и выплачивается
	// поверх выигрыша: 25 * 0.5 = 12.5 -> 13
	bet := Bet{Category: BetRed, Amount: 50}
	outcome := Outcome{Number: 14, Color: ColorRed}

	r := EvaluateRound(bet, outcome, 500, 6, 50)

	if !r.Won || r.WinAmount != 100 {
		t.Fatalf("r = %+v, ожидался выигрыш 100", r)
	}
	if !r.Consolation || r.ConsolationAmount != 13 {
		t.Fatalf("r = %+v, ожидался утешительный бонус 13 поверх выигрыша", r)
	}
	if r.BalanceAfter != 563 {
		t.Errorf("BalanceAfter = %d, ожидалось 563 (500 - 50 + 100 + 13)", r.BalanceAfter)
	}
	if r.LosingStreak != 0 {
		t.Errorf("LosingStreak = %d, выигрыш должен обнулять серию", r.LosingStreak)
	}
}

func TestEvaluateRoundStraightWin(t *testing.T) {
	// Число 7 со ставкой 100: зачисление 100*(35+1) = 3600
	bet := Bet{Category: BetStraight, Selector: 7, Amount: 100}
	outcome := Outcome{Number: 7, Color: ColorOf(7)}

	r := EvaluateRound(bet, outcome, 500, 0, 100)

	if !r.Won || r.WinAmount != 3600 {
		t.Fatalf("r = %+v, ожидался выигрыш 3600", r)
	}
	if r.BalanceAfter != 4000 {
		t.Errorf("BalanceAfter = %d, ожидалось 4000", r.BalanceAfter)
	}
}

func TestEvaluateRoundLoss(t *testing.T) {
	bet := Bet{Category: BetRed, Amount: 300}
	outcome := Outcome{Number: 2, Color: ColorBlack}

	r := EvaluateRound(bet, outcome, 1000, 1, 300)

	if r.Won {
		t.Fatal("красное на чёрном засчитано выигрышем")
	}
	if r.LosingStreak != 2 {
		t.Errorf("LosingStreak = %d, ожидалось 2", r.LosingStreak)
	}
	// Ставка 300 > 200: утешительный бонус не положен
	if r.Consolation || r.BalanceAfter != 700 {
		t.Errorf("r = %+v, ожидался чистый проигрыш до 700", r)
	}
}

func TestEvaluateRoundLossWithConsolation(t *testing.T) {
	// Пять поражений перед раундом: бонус 25 * 0.5 = 12.5 -> 13
	bet := Bet{Category: BetBlack, Amount: 50}
	outcome := Outcome{Number: 1, Color: ColorRed}

	r := EvaluateRound(bet, outcome, 1000, 5, 50)

	if r.Won {
		t.Fatal("чёрное на красном засчитано выигрышем")
	}
	if !r.Consolation || r.ConsolationAmount != 13 {
		t.Fatalf("r = %+v, ожидался утешительный бонус 13", r)
	}
	if r.BalanceAfter != 963 {
		t.Errorf("BalanceAfter = %d, ожидалось 963 (1000 - 50 + 13)", r.BalanceAfter)
	}
	if r.LosingStreak != 6 {
		t.Errorf("LosingStreak = %d, ожидалось 6", r.LosingStreak)
	}
}

func TestEvaluateRoundLossShortStreakNoConsolation(t *testing.T) {
	// Четырёх поражений перед раундом для бонуса недостаточно,
	// даже если это поражение станет пятым
	bet := Bet{Category: BetBlack, Amount: 50}
	outcome := Outcome{Number: 1, Color: ColorRed}

	r := EvaluateRound(bet, outcome, 1000, 4, 50)

	if r.Won {
		t.Fatal("чёрное на красном засчитано выигрышем")
	}
	if r.Consolation || r.ConsolationAmount != 0 {
		t.Fatalf("r = %+v, бонус на серии 4 не положен", r)
	}
	if r.BalanceAfter != 950 {
		t.Errorf("BalanceAfter = %d, ожидалось 950", r.BalanceAfter)
	}
}
