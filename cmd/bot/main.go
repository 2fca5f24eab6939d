// Точка входа бота: конфигурация, сборка приложения, запуск и
// остановка по SIGINT/SIGTERM.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"roulette-bot/internal/app"
	"roulette-bot/internal/config"
)

func main() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetOutput(os.Stdout)

	log.Info("=== Бот запускается ===")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Не удалось загрузить конфигурацию")
	}
	applyLogLevel(cfg.AppLogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("Не удалось инициализировать приложение")
	}
	defer application.DB.Close()

	application.Scheduler.Start(ctx)
	defer application.Scheduler.Stop()

	go application.Bot.Start(ctx)

	log.Info("=== Бот готов к работе ===")

	<-ctx.Done()
	log.Info("Получен сигнал остановки, завершаем работу...")

	log.Info("=== Бот остановлен ===")
}

// applyLogLevel переключает уровень логирования по значению из окружения.
// Непонятное значение не роняет бота: остаёмся на уровне по умолчанию.
func applyLogLevel(raw string) {
	level, err := log.ParseLevel(raw)
	if err != nil {
		log.WithField("log_level", raw).Warn("Неизвестный уровень логирования, используется info")
		return
	}
	log.SetLevel(level)
}
