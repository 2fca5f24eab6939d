// Package members управляет реестром участников чата.
// models.go описывает структуру участника.
package members

import "time"

// Member — участник чата. Регистрируется лениво при первом сообщении
// или при вступлении в чат.
type Member struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"` // Telegram user ID
	Username  string    `db:"username"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	IsBot     bool      `db:"is_bot"`    // Боты не могут получать переводы
	IsBanned  bool      `db:"is_banned"` // Забаненные игнорируются
	JoinedAt  time.Time `db:"joined_at"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// DisplayName возвращает имя для отображения: @username, если есть,
// иначе имя и фамилия.
func (m *Member) DisplayName() string {
	if m.Username != "" {
		return "@" + m.Username
	}
	name := m.FirstName
	if m.LastName != "" {
		name += " " + m.LastName
	}
	return name
}
