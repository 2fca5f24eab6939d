package roulette

import "testing"

func TestConsolationAmount(t *testing.T) {
	tests := []struct {
		name string
		bet  int64
		in   PityInput
		want int64
	}{
		{
			// База 25 за серию 5, масштаб ставки 50/100 = 0.5,
			// округление 12.5 -> 13
			name: "мелкая ставка на короткой серии",
			bet:  50,
			in:   PityInput{LosingStreak: 5, Balance: 500, RecentAvgBet: 50},
			want: 13,
		},
		{
			name: "серия короче пяти — бонуса нет",
			bet:  50,
			in:   PityInput{LosingStreak: 4, Balance: 500, RecentAvgBet: 50},
			want: 0,
		},
		{
			name: "крупная ставка не получает бонус",
			bet:  201,
			in:   PityInput{LosingStreak: 10, Balance: 0, RecentAvgBet: 200},
			want: 0,
		},
		{
			name: "полная база без срезов",
			bet:  100,
			in:   PityInput{LosingStreak: 5, Balance: 500, RecentAvgBet: 100},
			want: 25,
		},
		{
			name: "серия 10",
			bet:  100,
			in:   PityInput{LosingStreak: 10, Balance: 500, RecentAvgBet: 100},
			want: 50,
		},
		{
			name: "серия 15",
			bet:  100,
			in:   PityInput{LosingStreak: 15, Balance: 500, RecentAvgBet: 100},
			want: 75,
		},
		{
			name: "серия 25 — высшая ступень",
			bet:  100,
			in:   PityInput{LosingStreak: 30, Balance: 500, RecentAvgBet: 100},
			want: 100,
		},
		{
			// Срез по балансу: 1 - (6000-1000)/10000 = 0.5
			name: "богатому срезается половина",
			bet:  100,
			in:   PityInput{LosingStreak: 10, Balance: 6000, RecentAvgBet: 100},
			want: 25,
		},
		{
			// Срез по балансу ограничен 80%: 50 * 0.2 = 10
			name: "максимальный срез по балансу",
			bet:  100,
			in:   PityInput{LosingStreak: 10, Balance: 100000, RecentAvgBet: 100},
			want: 10,
		},
		{
			// Накрутка: привычная ставка 20 < 100/2, бонус пополам
			name: "резкий рост ставки режет бонус вдвое",
			bet:  100,
			in:   PityInput{LosingStreak: 10, Balance: 500, RecentAvgBet: 20},
			want: 25,
		},
		{
			// 25 * 0.1 = 2.5, но не ниже пола 5
			name: "минимальный бонус",
			bet:  10,
			in:   PityInput{LosingStreak: 5, Balance: 500, RecentAvgBet: 10},
			want: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConsolationAmount(tt.bet, tt.in); got != tt.want {
				t.Errorf("ConsolationAmount(%d, %+v) = %d, ожидалось %d", tt.bet, tt.in, got, tt.want)
			}
		})
	}
}

func TestConsolationBaseMonotonic(t *testing.T) {
	// Бонус не убывает с ростом серии
	prev := int64(0)
	for streak := 5; streak <= 40; streak++ {
		base := consolationBase(streak)
		if base < prev {
			t.Fatalf("база упала на серии %d: %d < %d", streak, base, prev)
		}
		prev = base
	}
}

func TestLosingStreak(t *testing.T) {
	tests := []struct {
		name string
		won  []bool // от новых к старым
		want int
	}{
		{"пустая история", nil, 0},
		{"последний выигран", []bool{true, false, false}, 0},
		{"три поражения подряд", []bool{false, false, false, true, false}, 3},
		{"все поражения", []bool{false, false}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LosingStreak(tt.won); got != tt.want {
				t.Errorf("LosingStreak(%v) = %d, ожидалось %d", tt.won, got, tt.want)
			}
		})
	}
}

func TestRecentAverageBet(t *testing.T) {
	if got := RecentAverageBet(nil, 10); got != 0 {
		t.Errorf("пустая история = %d, ожидалось 0", got)
	}
	if got := RecentAverageBet([]int64{100, 200, 300}, 10); got != 200 {
		t.Errorf("среднее = %d, ожидалось 200", got)
	}
	// Лимит режет историю: среднее только по первым двум (новейшим)
	if got := RecentAverageBet([]int64{100, 200, 9000}, 2); got != 150 {
		t.Errorf("среднее с лимитом = %d, ожидалось 150", got)
	}
}
