package common

import "testing"

func TestFormatChipsAmount(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{100, "+100 фишек"},
		{1, "+1 фишка"},
		{-50, "-50 фишек"},
		{0, "+0 фишек"},
	}
	for _, tt := range tests {
		if got := FormatChipsAmount(tt.amount); got != tt.want {
			t.Errorf("FormatChipsAmount(%d) = %q, ожидалось %q", tt.amount, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1 000"},
		{2350, "2 350"},
		{1234567, "1 234 567"},
		{-2350, "-2 350"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.n); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, ожидалось %q", tt.n, got, tt.want)
		}
	}
}
