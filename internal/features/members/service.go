// Package members — service.go содержит бизнес-логику работы с участниками.
package members

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"roulette-bot/internal/features/economy"
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// EnsureMember регистрирует участника по данным Telegram, если его ещё
// нет, и освежает username/имя, если есть. Вызывается на каждый апдейт.
func (s *Service) EnsureMember(ctx context.Context, user *tgbotapi.User) (*Member, error) {
	if user == nil {
		return nil, fmt.Errorf("пустой пользователь в апдейте")
	}

	m := &Member{
		UserID:    user.ID,
		Username:  user.UserName,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		IsBot:     user.IsBot,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return s.repo.GetByUserID(ctx, user.ID)
}

// GetByUserID возвращает участника по Telegram ID.
func (s *Service) GetByUserID(ctx context.Context, userID int64) (*Member, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// GetByUsername возвращает участника по @username (без @, регистр не важен).
func (s *Service) GetByUsername(ctx context.Context, username string) (*Member, error) {
	return s.repo.GetByUsername(ctx, username)
}

// IsMember проверяет, зарегистрирован ли пользователь в реестре.
func (s *Service) IsMember(ctx context.Context, userID int64) (bool, error) {
	return s.repo.Exists(ctx, userID)
}

// ResolveRecipient реализует economy.MemberDirectory: ищет получателя
// перевода по @username.
func (s *Service) ResolveRecipient(ctx context.Context, username string) (*economy.Recipient, error) {
	m, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return &economy.Recipient{
		UserID:    m.UserID,
		Username:  m.Username,
		FirstName: m.FirstName,
		IsBot:     m.IsBot,
	}, nil
}

// DisplayName реализует economy.MemberDirectory: имя участника для
// таблицы лидеров и сводок.
func (s *Service) DisplayName(ctx context.Context, userID int64) (string, error) {
	m, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	return m.DisplayName(), nil
}

// HandleNewMember регистрирует вступившего в чат участника.
func (s *Service) HandleNewMember(ctx context.Context, user *tgbotapi.User) error {
	m, err := s.EnsureMember(ctx, user)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"user_id":  m.UserID,
		"username": m.Username,
	}).Info("Новый участник зарегистрирован")
	return nil
}
