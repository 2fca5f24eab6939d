// Package admin реализует админ-панель с парольной аутентификацией:
// выдача и изъятие фишек, сброс счетов. models.go описывает структуры
// сессий и попыток входа.
package admin

import "time"

// Session — активная сессия администратора. Живёт 24 часа.
type Session struct {
	ID              int64     `db:"id"`
	UserID          int64     `db:"user_id"`
	SessionToken    string    `db:"session_token"`
	AuthenticatedAt time.Time `db:"authenticated_at"`
	ExpiresAt       time.Time `db:"expires_at"`
	LastActivity    time.Time `db:"last_activity"`
	IsActive        bool      `db:"is_active"`
}

// LoginAttempt — попытка входа. По этим записям работает защита
// от brute-force: 3 неудачи за час блокируют вход.
type LoginAttempt struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	AttemptTime time.Time `db:"attempt_time"`
	Success     bool      `db:"success"`
}
