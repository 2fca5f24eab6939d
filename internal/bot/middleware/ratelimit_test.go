package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	defer rl.Close()

	for i := 0; i < 3; i++ {
		if !rl.Allow(1) {
			t.Fatalf("обращение %d отклонено, лимит ещё не исчерпан", i+1)
		}
	}
	if rl.Allow(1) {
		t.Error("четвёртое обращение пропущено при лимите 3")
	}
}

func TestRateLimiterPerUser(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Close()

	if !rl.Allow(1) {
		t.Fatal("первое обращение пользователя 1 отклонено")
	}
	if rl.Allow(1) {
		t.Error("второе обращение пользователя 1 пропущено")
	}
	// Лимит считается на каждого пользователя отдельно
	if !rl.Allow(2) {
		t.Error("обращение пользователя 2 отклонено из-за чужого лимита")
	}
}

func TestPruneBefore(t *testing.T) {
	base := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	stamps := []time.Time{
		base.Add(-3 * time.Minute),
		base.Add(-2 * time.Minute),
		base.Add(-30 * time.Second),
	}

	fresh := pruneBefore(stamps, base.Add(-time.Minute))
	if len(fresh) != 1 || !fresh[0].Equal(stamps[2]) {
		t.Errorf("pruneBefore = %v, ожидалась одна свежая отметка", fresh)
	}

	if got := pruneBefore(stamps, base); got != nil {
		t.Errorf("pruneBefore всех устаревших = %v, ожидался nil", got)
	}
	if got := pruneBefore(nil, base); got != nil {
		t.Errorf("pruneBefore(nil) = %v, ожидался nil", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("короткий текст", 50); got != "короткий текст" {
		t.Errorf("truncate короткой строки = %q", got)
	}
	// Обрезка по рунам, не по байтам: кириллица не должна ломаться
	if got := truncate("привет", 3); got != "при..." {
		t.Errorf("truncate(привет, 3) = %q, ожидалось %q", got, "при...")
	}
}
