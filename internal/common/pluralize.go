// Package common — pluralize.go содержит вспомогательные функции
// для форматирования сумм со знаком и чисел с разделителями.
package common

import "fmt"

// FormatChipsAmount создаёт строку вида "+100 фишек" или "-50 фишек".
// Знак «+» или «-» добавляется автоматически.
func FormatChipsAmount(amount int64) string {
	if amount >= 0 {
		return fmt.Sprintf("+%d %s", amount, PluralizeChips(amount))
	}
	return fmt.Sprintf("%d %s", amount, PluralizeChips(amount))
}

// FormatNumber форматирует число с разделителями тысяч (пробелами).
// Пример: FormatNumber(2350) → "2 350"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	rest := n / 1000
	last := n % 1000
	return fmt.Sprintf("%s %03d", FormatNumber(rest), last)
}
