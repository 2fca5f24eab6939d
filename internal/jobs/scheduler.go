// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: вечерняя сводка лидеров
// и ежечасная чистка истёкших котировок переводов.
package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"roulette-bot/internal/common"
	"roulette-bot/internal/features/economy"
)

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron           *cron.Cron
	economyService *economy.Service
	directory      economy.MemberDirectory
	floodChatID    int64
	sendFunc       func(chatID int64, text string)
}

// NewScheduler создаёт планировщик задач с московским часовым поясом.
func NewScheduler(
	economyService *economy.Service,
	directory economy.MemberDirectory,
	floodChatID int64,
	sendFunc func(chatID int64, text string),
) *Scheduler {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		log.WithError(err).Warn("Не удалось загрузить Europe/Moscow, используем UTC+3")
		loc = time.FixedZone("MSK", 3*60*60)
	}

	return &Scheduler{
		cron:           cron.New(cron.WithLocation(loc)),
		economyService: economyService,
		directory:      directory,
		floodChatID:    floodChatID,
		sendFunc:       sendFunc,
	}
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) {
	// Вечерняя сводка лидеров в 20:00 по Москве
	s.cron.AddFunc("0 20 * * *", func() {
		log.Info("[CRON] Вечерняя сводка лидеров")
		s.sendLeaderboardDigest(ctx)
	})

	// Чистка истёкших котировок каждый час
	s.cron.AddFunc("0 * * * *", func() {
		if pruned := s.economyService.PruneQuotes(); pruned > 0 {
			log.WithField("pruned", pruned).Debug("[CRON] Истёкшие котировки удалены")
		}
	})

	s.cron.Start()
	log.Info("Планировщик задач запущен (Europe/Moscow)")
}

// Stop останавливает планировщик и дожидается завершения текущих задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}

// sendLeaderboardDigest отправляет топ-5 по фишкам в основной чат.
func (s *Scheduler) sendLeaderboardDigest(ctx context.Context) {
	entries, err := s.economyService.Leaderboard(ctx, 5)
	if err != nil {
		log.WithError(err).Error("[CRON] Ошибка получения таблицы лидеров")
		return
	}
	if len(entries) == 0 {
		return
	}

	medals := []string{"🥇", "🥈", "🥉", "4.", "5."}
	var sb strings.Builder
	sb.WriteString("🌙 Вечерняя сводка — богатейшие игроки:\n\n")
	for i, e := range entries {
		name, err := s.directory.DisplayName(ctx, e.UserID)
		if err != nil {
			name = fmt.Sprintf("id%d", e.UserID)
		}
		sb.WriteString(fmt.Sprintf("%s %s — %s %s\n",
			medals[i], name, common.FormatNumber(e.Balance), common.PluralizeChips(e.Balance)))
	}

	s.sendFunc(s.floodChatID, sb.String())
}
