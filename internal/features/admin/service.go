// Package admin — service.go: аутентификация администраторов
// и операции над счетами от их имени.
package admin

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"slices"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/argon2"

	"roulette-bot/internal/common"
	"roulette-bot/internal/config"
	"roulette-bot/internal/features/economy"
)

const (
	sessionTTL        = 24 * time.Hour
	lockoutWindow     = 1 * time.Hour
	maxFailedAttempts = 3
)

// Service управляет админ-панелью. Все денежные операции идут через
// сервис экономики, чтобы попадать в журнал транзакций.
type Service struct {
	repo    *Repository
	economy *economy.Service
	cfg     *config.Config
}

func NewService(repo *Repository, economyService *economy.Service, cfg *config.Config) *Service {
	return &Service{repo: repo, economy: economyService, cfg: cfg}
}

// IsAdmin проверяет, входит ли пользователь в список администраторов.
func (s *Service) IsAdmin(userID int64) bool {
	return slices.Contains(s.cfg.AdminIDs, userID)
}

// Login проверяет пароль и открывает сессию на 24 часа.
// Защита от brute-force: 3 неудачные попытки за час блокируют вход.
func (s *Service) Login(ctx context.Context, userID int64, password string) error {
	if !s.IsAdmin(userID) {
		return common.ErrNotAdmin
	}

	attempts, err := s.repo.CountFailedAttempts(ctx, userID, lockoutWindow)
	if err != nil {
		return err
	}
	if attempts >= maxFailedAttempts {
		return common.ErrTooManyAttempts
	}

	match := verifyArgon2id(password, s.cfg.AdminPasswordHash)

	if err := s.repo.LogAttempt(ctx, userID, match); err != nil {
		log.WithError(err).Error("Ошибка записи попытки входа")
	}
	if !match {
		return common.ErrWrongPassword
	}

	session := &Session{
		UserID:       userID,
		SessionToken: generateSecureToken(),
		ExpiresAt:    time.Now().Add(sessionTTL),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return err
	}

	log.WithField("user_id", userID).Info("Администратор вошёл в панель")
	return nil
}

// Logout деактивирует сессии администратора.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	return s.repo.DeactivateSessions(ctx, userID)
}

// RequireSession проверяет активную сессию перед админ-операцией
// и продлевает активность.
func (s *Service) RequireSession(ctx context.Context, userID int64) error {
	if !s.IsAdmin(userID) {
		return common.ErrNotAdmin
	}
	if _, err := s.repo.GetActiveSession(ctx, userID); err != nil {
		return common.ErrSessionExpired
	}
	if err := s.repo.TouchSession(ctx, userID); err != nil {
		log.WithError(err).Error("Ошибка обновления активности сессии")
	}
	return nil
}

// Give выдаёт фишки от имени администратора.
func (s *Service) Give(ctx context.Context, adminID, userID int64, amount int64) (int64, error) {
	if err := s.RequireSession(ctx, adminID); err != nil {
		return 0, err
	}
	memo := fmt.Sprintf("Выдано администратором %d", adminID)
	return s.economy.AdminGive(ctx, userID, amount, memo)
}

// Take изымает фишки от имени администратора.
func (s *Service) Take(ctx context.Context, adminID, userID int64, amount int64) (int64, error) {
	if err := s.RequireSession(ctx, adminID); err != nil {
		return 0, err
	}
	memo := fmt.Sprintf("Изъято администратором %d", adminID)
	return s.economy.AdminTake(ctx, userID, amount, memo)
}

// Reset обнуляет счёт пользователя от имени администратора.
func (s *Service) Reset(ctx context.Context, adminID, userID int64) error {
	if err := s.RequireSession(ctx, adminID); err != nil {
		return err
	}
	return s.economy.AdminReset(ctx, userID)
}

// --- Криптографические утилиты ---

// verifyArgon2id проверяет пароль по хешу Argon2id.
// Формат хеша: $argon2id$v=19$m=65536,t=3,p=2$<salt_base64>$<hash_base64>
func verifyArgon2id(password, encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		log.Error("Некорректный формат хеша Argon2id")
		return false
	}

	var memory uint32
	var iterations uint32
	var parallelism uint8
	_, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism)
	if err != nil {
		log.WithError(err).Error("Ошибка парсинга параметров Argon2id")
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		log.WithError(err).Error("Ошибка декодирования соли")
		return false
	}

	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		log.WithError(err).Error("Ошибка декодирования хеша")
		return false
	}

	computedHash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(expectedHash)))

	// Сравнение в постоянном времени (защита от timing attack)
	return subtle.ConstantTimeCompare(computedHash, expectedHash) == 1
}

// generateSecureToken генерирует криптографически безопасный токен сессии.
func generateSecureToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return base64.URLEncoding.EncodeToString(b)
}
