// Package work реализует заработок фишек командой !работать.
// Смена либо даёт случайную награду, либо упирается в кулдаун,
// либо (при нулевом балансе) запускает антикризисную программу.
package work

import (
	"context"
	"math/rand/v2"

	log "github.com/sirupsen/logrus"

	"roulette-bot/internal/common"
	"roulette-bot/internal/config"
	"roulette-bot/internal/features/economy"
)

type Service struct {
	store economy.Store
	cfg   *config.Config
}

func NewService(store economy.Store, cfg *config.Config) *Service {
	return &Service{store: store, cfg: cfg}
}

// Status возвращает текущее состояние смены пользователя без побочных
// эффектов: можно ли работать, сколько ждать, положена ли антикризисная
// выплата.
func (s *Service) Status(ctx context.Context, userID int64) (*economy.WorkStatus, error) {
	a, err := s.store.GetOrCreateAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	status := a.WorkStatus(common.GetMoscowTime(), s.cfg.WorkCooldown)
	return &status, nil
}

// Work отрабатывает смену. Награда разыгрывается заранее, а решение
// (награда, антикризисная выплата или отказ по кулдауну) принимает
// хранилище атомарно по актуальному состоянию счёта.
func (s *Service) Work(ctx context.Context, userID int64) (*economy.WorkResult, error) {
	reward := s.drawReward()

	result, err := s.store.ApplyWork(ctx, userID, reward, s.cfg.WorkCooldown)
	if err != nil {
		return nil, err
	}

	if result.OK {
		log.WithFields(log.Fields{
			"user_id": userID,
			"reward":  result.Reward,
			"bailout": result.Bailout,
			"balance": result.NewBalance,
		}).Info("Смена отработана")
	}
	return result, nil
}

// drawReward разыгрывает награду за смену: равномерно из
// [WorkRewardMin, WorkRewardMax].
func (s *Service) drawReward() int64 {
	span := s.cfg.WorkRewardMax - s.cfg.WorkRewardMin + 1
	return s.cfg.WorkRewardMin + rand.Int64N(span)
}
