package roulette

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestColorOf(t *testing.T) {
	if got := ColorOf(0); got != ColorGreen {
		t.Errorf("ColorOf(0) = %s, ожидалось green", got)
	}

	reds, blacks := 0, 0
	for n := 1; n <= 36; n++ {
		switch ColorOf(n) {
		case ColorRed:
			reds++
		case ColorBlack:
			blacks++
		default:
			t.Errorf("ColorOf(%d) = %s, ожидалось red или black", n, ColorOf(n))
		}
	}
	if reds != 18 || blacks != 18 {
		t.Errorf("красных/чёрных = %d/%d, ожидалось 18/18", reds, blacks)
	}
}

func TestSpinRange(t *testing.T) {
	wheel := NewWheelFromSource(rand.New(rand.NewPCG(1, 2)))
	for i := 0; i < 1000; i++ {
		out := wheel.Spin()
		if out.Number < 0 || out.Number > 36 {
			t.Fatalf("Spin вернул %d, вне диапазона 0-36", out.Number)
		}
		if out.Color != ColorOf(out.Number) {
			t.Fatalf("цвет %s не совпадает с ColorOf(%d)", out.Color, out.Number)
		}
	}
}

// Ставка на красное на честном колесе: вероятность выигрыша 18/37,
// матожидание минус 1/37 ставки (преимущество казино ~2.7%).
func TestHouseEdgeSimulation(t *testing.T) {
	if testing.Short() {
		t.Skip("длинная симуляция")
	}

	wheel := NewWheelFromSource(rand.New(rand.NewPCG(42, 1337)))
	bet := Bet{Category: BetRed, Amount: 100}

	const spins = 1_000_000
	wins := 0
	var net int64
	for i := 0; i < spins; i++ {
		outcome := wheel.Spin()
		if CheckWin(bet, outcome) {
			wins++
			net += bet.Amount * int64(PayoutRatio(bet.Category))
		} else {
			net -= bet.Amount
		}
	}

	winRate := float64(wins) / spins
	expected := 18.0 / 37.0
	if math.Abs(winRate-expected) > 0.003 {
		t.Errorf("доля выигрышей = %.4f, ожидалось ~%.4f", winRate, expected)
	}

	// EV = -1/37 от оборота
	evPerSpin := float64(net) / spins
	if evPerSpin > 0 || evPerSpin < -6 {
		t.Errorf("средний результат на спин = %.3f, ожидалось около -2.7", evPerSpin)
	}
}
