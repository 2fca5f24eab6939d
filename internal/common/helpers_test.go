package common

import (
	"testing"
	"time"
)

func TestPluralizeChips(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "фишек"},
		{1, "фишка"},
		{2, "фишки"},
		{4, "фишки"},
		{5, "фишек"},
		{11, "фишек"},
		{12, "фишек"},
		{14, "фишек"},
		{21, "фишка"},
		{22, "фишки"},
		{100, "фишек"},
		{101, "фишка"},
		{111, "фишек"},
		{-1, "фишка"},
	}
	for _, tt := range tests {
		if got := PluralizeChips(tt.n); got != tt.want {
			t.Errorf("PluralizeChips(%d) = %q, ожидалось %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0 сек"},
		{500 * time.Millisecond, "1 сек"}, // округление вверх
		{45 * time.Second, "45 сек"},
		{time.Minute, "1 мин"},
		{29*time.Minute + 15*time.Second, "29 мин 15 сек"},
		{-5 * time.Second, "0 сек"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, ожидалось %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatBalance(t *testing.T) {
	if got := FormatBalance(150); got != "150 фишек" {
		t.Errorf("FormatBalance(150) = %q", got)
	}
	if got := FormatBalance(21); got != "21 фишка" {
		t.Errorf("FormatBalance(21) = %q", got)
	}
}

func TestCooldownError(t *testing.T) {
	err := NewCooldownError(90 * time.Second)
	if err.Remaining != 90*time.Second {
		t.Errorf("Remaining = %v", err.Remaining)
	}
	if got := err.Error(); got != "подождите ещё 1 мин 30 сек" {
		t.Errorf("Error() = %q", got)
	}
}
