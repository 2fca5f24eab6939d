package middleware

import (
	"sync"
	"time"
)

// RateLimiter ограничивает частоту команд: не больше limit сообщений
// на пользователя за скользящее окно window.
type RateLimiter struct {
	limit  int
	window time.Duration

	mu   sync.Mutex
	seen map[int64][]time.Time

	done chan struct{}
	once sync.Once
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		limit:  limit,
		window: window,
		seen:   make(map[int64][]time.Time),
		done:   make(chan struct{}),
	}
	go rl.pruneLoop()
	return rl
}

// Allow регистрирует обращение пользователя и сообщает, пропускать ли его.
func (rl *RateLimiter) Allow(userID int64) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	fresh := pruneBefore(rl.seen[userID], now.Add(-rl.window))
	if len(fresh) >= rl.limit {
		rl.seen[userID] = fresh
		return false
	}
	rl.seen[userID] = append(fresh, now)
	return true
}

// Close останавливает фоновую чистку. Повторный вызов безопасен.
func (rl *RateLimiter) Close() {
	rl.once.Do(func() { close(rl.done) })
}

// pruneLoop периодически выбрасывает записи неактивных пользователей,
// иначе карта растёт неограниченно.
func (rl *RateLimiter) pruneLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case now := <-ticker.C:
			cutoff := now.Add(-rl.window)
			rl.mu.Lock()
			for id, stamps := range rl.seen {
				if fresh := pruneBefore(stamps, cutoff); len(fresh) == 0 {
					delete(rl.seen, id)
				} else {
					rl.seen[id] = fresh
				}
			}
			rl.mu.Unlock()
		}
	}
}

// pruneBefore отбрасывает отметки не новее cutoff. Отметки добавляются
// в хронологическом порядке, так что достаточно найти первую свежую.
func pruneBefore(stamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(stamps) && !stamps[i].After(cutoff) {
		i++
	}
	if i == len(stamps) {
		return nil
	}
	return stamps[i:]
}
