// Package roulette — wheel.go реализует колесо европейской рулетки:
// 37 карманов (0-36), зеро зелёное, остальные числа красные или чёрные
// по стандартной раскладке.
package roulette

import "math/rand/v2"

// redNumbers — красные числа стандартной европейской раскладки.
// Всё остальное в 1-36 чёрное, 0 зелёное.
var redNumbers = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true,
	14: true, 16: true, 18: true, 19: true, 21: true, 23: true,
	25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

// ColorOf возвращает цвет числа на колесе.
func ColorOf(n int) string {
	if n == 0 {
		return ColorGreen
	}
	if redNumbers[n] {
		return ColorRed
	}
	return ColorBlack
}

// Wheel — колесо рулетки. Источник случайности подменяется в тестах.
type Wheel struct {
	intn func(n int) int
}

// NewWheel создаёт колесо на глобальном генераторе math/rand/v2
// (безопасен для конкурентного использования).
func NewWheel() *Wheel {
	return &Wheel{intn: rand.IntN}
}

// NewWheelFromSource создаёт колесо на отдельном генераторе.
// Генератор НЕ потокобезопасен, использовать только из одной горутины
// (детерминированные тесты, симуляции).
func NewWheelFromSource(r *rand.Rand) *Wheel {
	return &Wheel{intn: r.IntN}
}

// Spin вращает колесо и возвращает выпавший карман.
func (w *Wheel) Spin() Outcome {
	n := w.intn(37)
	return Outcome{Number: n, Color: ColorOf(n)}
}
