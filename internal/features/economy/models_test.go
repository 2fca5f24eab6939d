package economy

import (
	"testing"
	"time"
)

func TestAccountWorkStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cooldown := 30 * time.Minute
	recent := now.Add(-10 * time.Minute)
	old := now.Add(-31 * time.Minute)

	tests := []struct {
		name          string
		account       Account
		wantState     WorkState
		wantRemaining time.Duration
	}{
		{
			name:      "никогда не работал",
			account:   Account{Balance: 50},
			wantState: WorkReady,
		},
		{
			name:          "на кулдауне",
			account:       Account{Balance: 50, LastWorkAt: &recent},
			wantState:     WorkOnCooldown,
			wantRemaining: 20 * time.Minute,
		},
		{
			name:      "кулдаун прошёл",
			account:   Account{Balance: 50, LastWorkAt: &old},
			wantState: WorkReady,
		},
		{
			name:      "ноль на счёте, программа не использована",
			account:   Account{Balance: 0, LastWorkAt: &recent},
			wantState: WorkBailoutEligible,
		},
		{
			name:      "ноль на счёте, программа использована",
			account:   Account{Balance: 0, BailoutUsed: true, LastWorkAt: &recent},
			wantState: WorkOnCooldown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.account.WorkStatus(now, cooldown)
			if got.State != tt.wantState {
				t.Errorf("State = %v, ожидалось %v", got.State, tt.wantState)
			}
			if tt.wantRemaining != 0 && got.Remaining != tt.wantRemaining {
				t.Errorf("Remaining = %v, ожидалось %v", got.Remaining, tt.wantRemaining)
			}
		})
	}
}

func TestDailyWagerStats(t *testing.T) {
	s := DailyWagerStats{GamesPlayed: 4, GamesWon: 1, TotalWagered: 400, TotalWon: 200}

	if got := s.WinRate(); got != 0.25 {
		t.Errorf("WinRate = %v, ожидалось 0.25", got)
	}
	if got := s.NetProfit(); got != -200 {
		t.Errorf("NetProfit = %d, ожидалось -200", got)
	}

	empty := DailyWagerStats{}
	if got := empty.WinRate(); got != 0 {
		t.Errorf("WinRate пустой статистики = %v, ожидалось 0", got)
	}
}
