package roulette

import (
	"errors"
	"testing"

	"roulette-bot/internal/common"
)

func TestParseBet(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want *Bet
	}{
		{"красное", []string{"красное", "100"}, &Bet{Category: BetRed, Amount: 100}},
		{"чёрное через е", []string{"черное", "50"}, &Bet{Category: BetBlack, Amount: 50}},
		{"чёрное через ё", []string{"чёрное", "50"}, &Bet{Category: BetBlack, Amount: 50}},
		{"чет", []string{"чет", "20"}, &Bet{Category: BetEven, Amount: 20}},
		{"нечет", []string{"нечет", "20"}, &Bet{Category: BetOdd, Amount: 20}},
		{"низкие", []string{"низкие", "30"}, &Bet{Category: BetLow, Amount: 30}},
		{"высокие", []string{"высокие", "30"}, &Bet{Category: BetHigh, Amount: 30}},
		{"дюжина", []string{"дюжина", "2", "100"}, &Bet{Category: BetDozen, Selector: 2, Amount: 100}},
		{"колонка", []string{"колонка", "3", "100"}, &Bet{Category: BetColumn, Selector: 3, Amount: 100}},
		{"число", []string{"7", "100"}, &Bet{Category: BetStraight, Selector: 7, Amount: 100}},
		{"зеро", []string{"0", "100"}, &Bet{Category: BetStraight, Selector: 0, Amount: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseBet(tt.args)
			if err != nil {
				t.Fatalf("parseBet(%v): %v", tt.args, err)
			}
			if *got != *tt.want {
				t.Errorf("parseBet(%v) = %+v, ожидалось %+v", tt.args, got, tt.want)
			}
		})
	}
}

func TestParseBetErrors(t *testing.T) {
	bad := [][]string{
		nil,
		{"красное"},              // нет суммы
		{"красное", "ноль"},      // не число
		{"красное", "-5"},        // отрицательная
		{"37", "100"},            // вне колеса
		{"дюжина", "4", "100"},   // дюжины только 1-3
		{"дюжина", "2"},          // нет суммы
		{"пельмени", "100"},      // неизвестная ставка
	}
	for _, args := range bad {
		if _, err := parseBet(args); err == nil {
			t.Errorf("parseBet(%v) прошёл, ожидалась ошибка", args)
		}
	}

	if _, err := parseBet([]string{"пельмени", "100"}); !errors.Is(err, common.ErrUnknownBetCategory) {
		t.Errorf("err = %v, ожидалось ErrUnknownBetCategory", err)
	}
}
