// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях бота.
// Обработчики различают их через errors.Is/errors.As и отправляют
// пользователю понятные сообщения. Бизнес-условия — это всегда
// ошибки-сентинелы или структурные результаты, никогда не паники.
package common

import (
	"errors"
	"fmt"
	"time"
)

// Ошибки экономики (фишки, переводы)
var (
	// ErrInsufficientBalance — недостаточно фишек на счёте
	ErrInsufficientBalance = errors.New("недостаточно фишек на счёте")
	// ErrSelfTransfer — попытка перевести фишки самому себе
	ErrSelfTransfer = errors.New("нельзя переводить фишки самому себе")
	// ErrInvalidAmount — некорректная сумма (ноль или отрицательная)
	ErrInvalidAmount = errors.New("сумма должна быть положительной")
	// ErrAmountTooSmall — сумма меньше минимальной для перевода
	ErrAmountTooSmall = errors.New("сумма меньше минимальной")
	// ErrAmountTooLarge — сумма больше максимальной для перевода
	ErrAmountTooLarge = errors.New("сумма больше максимальной")
	// ErrUserNotFound — пользователь не найден в базе
	ErrUserNotFound = errors.New("пользователь не найден")
	// ErrReceiverIsBot — получатель является ботом
	ErrReceiverIsBot = errors.New("нельзя переводить фишки ботам")
	// ErrDailyCountLimit — дневной лимит количества переводов исчерпан
	ErrDailyCountLimit = errors.New("дневной лимит переводов исчерпан")
	// ErrDailyAmountLimit — дневной лимит суммы переводов исчерпан
	ErrDailyAmountLimit = errors.New("дневной лимит суммы переводов исчерпан")
)

// Ошибки подтверждения перевода
var (
	// ErrQuoteNotFound — котировка не найдена или уже использована.
	// Возвращается и при повторном нажатии «Подтвердить»: токен
	// одноразовый, второй клик его уже не застаёт.
	ErrQuoteNotFound = errors.New("перевод не найден или уже обработан")
	// ErrQuoteExpired — окно подтверждения истекло
	ErrQuoteExpired = errors.New("время подтверждения перевода истекло")
	// ErrQuoteForeign — кнопку нажал не отправитель перевода
	ErrQuoteForeign = errors.New("подтвердить перевод может только отправитель")
)

// Ошибки рулетки
var (
	// ErrUnknownBetCategory — неизвестный тип ставки
	ErrUnknownBetCategory = errors.New("неизвестный тип ставки")
	// ErrBetTooSmall — ставка меньше минимальной
	ErrBetTooSmall = errors.New("ставка меньше минимальной")
	// ErrRouletteDisabled — рулетка отключена в настройках
	ErrRouletteDisabled = errors.New("рулетка временно отключена")
)

// Ошибки админки
var (
	// ErrNotAdmin — пользователь не является администратором
	ErrNotAdmin = errors.New("у вас нет прав администратора")
	// ErrWrongPassword — неверный пароль
	ErrWrongPassword = errors.New("неверный пароль")
	// ErrTooManyAttempts — слишком много неудачных попыток входа
	ErrTooManyAttempts = errors.New("слишком много попыток, подождите 1 час")
	// ErrSessionExpired — сессия истекла
	ErrSessionExpired = errors.New("сессия истекла, авторизуйтесь заново")
)

// CooldownError — операция ограничена по времени.
// Remaining показывает, сколько осталось ждать. Обработчики достают
// её через errors.As и показывают пользователю оставшееся время.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("подождите ещё %s", FormatDuration(e.Remaining))
}

// NewCooldownError создаёт ошибку кулдауна с оставшимся временем.
func NewCooldownError(remaining time.Duration) *CooldownError {
	return &CooldownError{Remaining: remaining}
}
