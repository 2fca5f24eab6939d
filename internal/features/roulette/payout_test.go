package roulette

import "testing"

func TestPayoutRatio(t *testing.T) {
	tests := []struct {
		category BetCategory
		want     int
	}{
		{BetStraight, 35},
		{BetDozen, 2},
		{BetColumn, 2},
		{BetRed, 1},
		{BetBlack, 1},
		{BetOdd, 1},
		{BetEven, 1},
		{BetLow, 1},
		{BetHigh, 1},
	}
	for _, tt := range tests {
		if got := PayoutRatio(tt.category); got != tt.want {
			t.Errorf("PayoutRatio(%s) = %d, ожидалось %d", tt.category, got, tt.want)
		}
	}
}

func TestCheckWin(t *testing.T) {
	tests := []struct {
		name    string
		bet     Bet
		outcome int
		want    bool
	}{
		{"straight попадание", Bet{Category: BetStraight, Selector: 7}, 7, true},
		{"straight промах", Bet{Category: BetStraight, Selector: 7}, 8, false},
		{"straight на зеро", Bet{Category: BetStraight, Selector: 0}, 0, true},

		{"красное на красном", Bet{Category: BetRed}, 1, true},
		{"красное на чёрном", Bet{Category: BetRed}, 2, false},
		{"чёрное на чёрном", Bet{Category: BetBlack}, 2, true},

		{"чет на чётном", Bet{Category: BetEven}, 4, true},
		{"чет на нечётном", Bet{Category: BetEven}, 5, false},
		{"нечет на нечётном", Bet{Category: BetOdd}, 5, true},

		{"низкие на 18", Bet{Category: BetLow}, 18, true},
		{"низкие на 19", Bet{Category: BetLow}, 19, false},
		{"высокие на 19", Bet{Category: BetHigh}, 19, true},
		{"высокие на 18", Bet{Category: BetHigh}, 18, false},

		{"дюжина 1 на 12", Bet{Category: BetDozen, Selector: 1}, 12, true},
		{"дюжина 1 на 13", Bet{Category: BetDozen, Selector: 1}, 13, false},
		{"дюжина 2 на 13", Bet{Category: BetDozen, Selector: 2}, 13, true},
		{"дюжина 3 на 36", Bet{Category: BetDozen, Selector: 3}, 36, true},

		{"колонка 1 на 1", Bet{Category: BetColumn, Selector: 1}, 1, true},
		{"колонка 1 на 34", Bet{Category: BetColumn, Selector: 1}, 34, true},
		{"колонка 2 на 35", Bet{Category: BetColumn, Selector: 2}, 35, true},
		{"колонка 3 на 36", Bet{Category: BetColumn, Selector: 3}, 36, true},
		{"колонка 3 на 35", Bet{Category: BetColumn, Selector: 3}, 35, false},

		// Зеро проигрывает всем внешним ставкам
		{"зеро против красного", Bet{Category: BetRed}, 0, false},
		{"зеро против чёрного", Bet{Category: BetBlack}, 0, false},
		{"зеро против чета", Bet{Category: BetEven}, 0, false},
		{"зеро против нечета", Bet{Category: BetOdd}, 0, false},
		{"зеро против низких", Bet{Category: BetLow}, 0, false},
		{"зеро против высоких", Bet{Category: BetHigh}, 0, false},
		{"зеро против дюжины", Bet{Category: BetDozen, Selector: 1}, 0, false},
		{"зеро против колонки", Bet{Category: BetColumn, Selector: 1}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := Outcome{Number: tt.outcome, Color: ColorOf(tt.outcome)}
			if got := CheckWin(tt.bet, outcome); got != tt.want {
				t.Errorf("CheckWin(%+v, %d) = %v, ожидалось %v", tt.bet, tt.outcome, got, tt.want)
			}
		})
	}
}

func TestValidBet(t *testing.T) {
	tests := []struct {
		bet  Bet
		want bool
	}{
		{Bet{Category: BetStraight, Selector: 0}, true},
		{Bet{Category: BetStraight, Selector: 36}, true},
		{Bet{Category: BetStraight, Selector: 37}, false},
		{Bet{Category: BetStraight, Selector: -1}, false},
		{Bet{Category: BetDozen, Selector: 1}, true},
		{Bet{Category: BetDozen, Selector: 4}, false},
		{Bet{Category: BetColumn, Selector: 0}, false},
		{Bet{Category: BetRed}, true},
	}
	for _, tt := range tests {
		if got := ValidBet(tt.bet); got != tt.want {
			t.Errorf("ValidBet(%+v) = %v, ожидалось %v", tt.bet, got, tt.want)
		}
	}
}
