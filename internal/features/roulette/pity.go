// Package roulette — pity.go: утешительная система против длинных серий
// поражений. Бонус заработан серией поражений перед раундом и начисляется
// независимо от его исхода; положен только мелким ставкам и срезается для
// богатых игроков и для тех, кто резко поднял ставку ради бонуса.
package roulette

import "math"

// Порог допуска к утешительному бонусу
const (
	consolationMaxBet    = 200 // Ставки крупнее бонуса не получают
	consolationMinStreak = 5
	consolationFloor     = 5 // Минимальный бонус, если он вообще положен
)

// consolationBase возвращает базовый бонус по длине серии поражений.
// Берётся высшая достигнутая ступень.
func consolationBase(streak int) int64 {
	switch {
	case streak >= 25:
		return 100
	case streak >= 15:
		return 75
	case streak >= 10:
		return 50
	case streak >= 5:
		return 25
	default:
		return 0
	}
}

// ConsolationAmount считает утешительный бонус раунда по серии
// поражений, предшествовавшей ему. Возвращает 0, если бонус не положен.
//
// База по серии умножается на три коэффициента:
//   - масштаб ставки min(bet/100, 1) — копеечные ставки не фармят бонус;
//   - срез по балансу 1 - min((balance-1000)/10000, 0.8) при балансе
//     выше 1000 — богатым утешение не нужно;
//   - 0.5, если ставка вдвое выше привычной — защита от накрутки
//     серии мелкими ставками с финальной крупной.
func ConsolationAmount(bet int64, in PityInput) int64 {
	if bet > consolationMaxBet || in.LosingStreak < consolationMinStreak {
		return 0
	}

	amount := float64(consolationBase(in.LosingStreak))

	betScale := math.Min(float64(bet)/100, 1)
	amount *= betScale

	if in.Balance > 1000 {
		cut := math.Min(float64(in.Balance-1000)/10000, 0.8)
		amount *= 1 - cut
	}

	if in.RecentAvgBet > 0 && in.RecentAvgBet < bet/2 {
		amount *= 0.5
	}

	result := int64(math.Round(amount))
	if result < consolationFloor {
		result = consolationFloor
	}
	return result
}

// LosingStreak считает текущую серию поражений по истории раундов,
// отсортированной от новых к старым: идём от последнего раунда и
// останавливаемся на первом выигрыше.
func LosingStreak(won []bool) int {
	streak := 0
	for _, w := range won {
		if w {
			break
		}
		streak++
	}
	return streak
}

// RecentAverageBet считает среднюю ставку последних limit раундов
// (история от новых к старым). 0, если раундов не было.
func RecentAverageBet(amounts []int64, limit int) int64 {
	if limit > len(amounts) {
		limit = len(amounts)
	}
	if limit == 0 {
		return 0
	}
	var total int64
	for _, a := range amounts[:limit] {
		total += a
	}
	return total / int64(limit)
}
