// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: русская плюрализация, форматирование чисел и времени.
package common

import (
	"fmt"
	"math"
	"time"
)

// PluralizeChips возвращает правильную форму слова «фишка» для числа n.
//
// Правила русского языка:
//   - n%10==1 И n%100!=11 → "фишка" (1, 21, 31, 101, ...)
//   - n%10 в [2,4] И n%100 НЕ в [12,14] → "фишки" (2, 3, 4, 22, ...)
//   - Остальные случаи → "фишек" (0, 5-20, 25-30, 100, ...)
//
// Примеры:
//
//	PluralizeChips(1)  → "фишка"
//	PluralizeChips(3)  → "фишки"
//	PluralizeChips(11) → "фишек"
//	PluralizeChips(21) → "фишка"
func PluralizeChips(n int64) string {
	absN := int64(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return "фишка"
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return "фишки"
	}
	return "фишек"
}

// FormatBalance форматирует баланс в читабельную строку.
// Пример: FormatBalance(150) → "150 фишек"
func FormatBalance(balance int64) string {
	return fmt.Sprintf("%d %s", balance, PluralizeChips(balance))
}

// FormatDuration форматирует длительность по-русски: "29 мин 15 сек".
// Длительности меньше минуты показываются только в секундах.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	// Округляем вверх, чтобы не показывать "0 сек" при остатке 500мс
	totalSeconds := int64(math.Ceil(d.Seconds()))
	minutes := totalSeconds / 60
	seconds := totalSeconds % 60

	if minutes == 0 {
		return fmt.Sprintf("%d сек", seconds)
	}
	if seconds == 0 {
		return fmt.Sprintf("%d мин", minutes)
	}
	return fmt.Sprintf("%d мин %d сек", minutes, seconds)
}

// GetMoscowTime возвращает текущее время в часовом поясе Москвы (Europe/Moscow).
// Все «календарные» правила бота (дневные лимиты, ежедневная сводка)
// считаются по московскому дню.
func GetMoscowTime() time.Time {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		// Если не удалось загрузить — используем UTC+3 вручную
		loc = time.FixedZone("MSK", 3*60*60)
	}
	return time.Now().In(loc)
}

// GetMoscowDate возвращает начало текущего дня в часовом поясе Москвы.
// Используется как нижняя граница для дневных агрегатов.
func GetMoscowDate() time.Time {
	t := GetMoscowTime()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// FormatWelcome возвращает приветствие для нового участника чата.
func FormatWelcome(firstName string) string {
	if firstName == "" {
		firstName = "гость"
	}
	return fmt.Sprintf("👋 Добро пожаловать, %s!\nНапиши !работать, чтобы заработать первые фишки, и !помощь, чтобы узнать остальные команды.", firstName)
}

// FormatDateTime форматирует время в формат "02.01.2006 15:04".
// Используется для отображения дат транзакций.
func FormatDateTime(t time.Time) string {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		loc = time.FixedZone("MSK", 3*60*60)
	}
	return t.In(loc).Format("02.01.2006 15:04")
}
