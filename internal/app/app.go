// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт БД-пул, хранилища, сервисы,
// обработчики, фильтры и собирает всё в один объект Bot.
package app

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"roulette-bot/internal/bot"
	"roulette-bot/internal/bot/filters"
	"roulette-bot/internal/config"
	"roulette-bot/internal/db/postgres"
	"roulette-bot/internal/features/admin"
	"roulette-bot/internal/features/economy"
	"roulette-bot/internal/features/members"
	"roulette-bot/internal/features/roulette"
	"roulette-bot/internal/features/work"
	"roulette-bot/internal/jobs"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	DB        *pgxpool.Pool
	BotAPI    *tgbotapi.BotAPI
	Ledger    *economy.FailoverStore
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 2. Telegram Bot API ===
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	botAPI.Debug = cfg.AppEnv == "development"
	log.Infof("Авторизован как @%s", botAPI.Self.UserName)

	// === 3. Хранилища и репозитории ===
	// Леджер работает через failover: при отказе БД в рантайме бот
	// переключается на volatile-хранилище и продолжает отвечать
	ledger := economy.NewFailoverStore(
		economy.NewPostgresStore(pool),
		economy.NewMemoryStore(),
	)
	memberRepo := members.NewRepository(pool)
	adminRepo := admin.NewRepository(pool)

	// === 4. Сервисы ===
	memberService := members.NewService(memberRepo)
	economyService := economy.NewService(ledger, cfg)
	workService := work.NewService(ledger, cfg)
	rouletteService := roulette.NewService(ledger, cfg, roulette.NewWheel())
	adminService := admin.NewService(adminRepo, economyService, cfg)

	// === 5. Обработчики ===
	memberHandler := members.NewHandler(botAPI, memberService, economyService)
	economyHandler := economy.NewHandler(botAPI, economyService, memberService, cfg)
	workHandler := work.NewHandler(botAPI, workService, cfg)
	rouletteHandler := roulette.NewHandler(botAPI, rouletteService, economyService, cfg)
	adminHandler := admin.NewHandler(botAPI, adminService, memberService)

	// === 6. Фильтры ===
	chatFilter := filters.NewChatFilter(cfg.FloodChatID, memberService, botAPI)

	// === 7. Собираем бота ===
	b := bot.New(
		botAPI, cfg,
		memberService, memberHandler,
		economyService, economyHandler,
		workHandler,
		rouletteHandler,
		adminHandler,
		chatFilter,
	)

	// === 8. Планировщик задач ===
	scheduler := jobs.NewScheduler(economyService, memberService, cfg.FloodChatID, b.SendMessageToChat)

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		DB:        pool,
		BotAPI:    botAPI,
		Ledger:    ledger,
	}, nil
}

// runMigrations выполняет все SQL-миграции.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if err := postgres.EnsureMigrationsTable(ctx, pool); err != nil {
		return err
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migration001Members},
		{2, migration002Accounts},
		{3, migration003Transactions},
		{4, migration004WorkSessions},
		{5, migration005WagerRounds},
		{6, migration006Admin},
	}

	for _, m := range migrations {
		if err := postgres.ExecMigrationSQL(ctx, pool, m.version, m.sql); err != nil {
			return fmt.Errorf("миграция %d: %w", m.version, err)
		}
		log.Infof("Миграция %d применена", m.version)
	}

	return nil
}

// SQL-миграции встроены в код для упрощения деплоя.

var migration001Members = `
CREATE TABLE IF NOT EXISTS members (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT UNIQUE NOT NULL,
    username VARCHAR(255) DEFAULT '',
    first_name VARCHAR(255) DEFAULT '',
    last_name VARCHAR(255) DEFAULT '',
    is_bot BOOLEAN DEFAULT FALSE,
    is_banned BOOLEAN DEFAULT FALSE,
    joined_at TIMESTAMP DEFAULT NOW(),
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_members_user_id ON members(user_id);
CREATE INDEX IF NOT EXISTS idx_members_username ON members(LOWER(username));
`

var migration002Accounts = `
CREATE TABLE IF NOT EXISTS accounts (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT UNIQUE NOT NULL,
    balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
    last_work_at TIMESTAMP,
    bailout_used BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_accounts_user_id ON accounts(user_id);
CREATE INDEX IF NOT EXISTS idx_accounts_balance ON accounts(balance DESC);
`

var migration003Transactions = `
CREATE TABLE IF NOT EXISTS transactions (
    id BIGSERIAL PRIMARY KEY,
    from_user_id BIGINT,
    to_user_id BIGINT,
    amount BIGINT NOT NULL,
    fee BIGINT NOT NULL DEFAULT 0,
    sender_balance_before BIGINT NOT NULL DEFAULT 0,
    sender_balance_after BIGINT NOT NULL DEFAULT 0,
    receiver_balance_before BIGINT NOT NULL DEFAULT 0,
    receiver_balance_after BIGINT NOT NULL DEFAULT 0,
    transaction_type VARCHAR(50) NOT NULL,
    memo TEXT DEFAULT '',
    created_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_transactions_from_user ON transactions(from_user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_transactions_to_user ON transactions(to_user_id, created_at DESC);
`

var migration004WorkSessions = `
CREATE TABLE IF NOT EXISTS work_sessions (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL,
    reward BIGINT NOT NULL,
    balance_before BIGINT NOT NULL,
    balance_after BIGINT NOT NULL,
    bailout BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_work_sessions_user_id ON work_sessions(user_id, created_at DESC);
`

var migration005WagerRounds = `
CREATE TABLE IF NOT EXISTS wager_rounds (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL,
    category VARCHAR(20) NOT NULL,
    selector INTEGER NOT NULL DEFAULT 0,
    amount BIGINT NOT NULL,
    outcome_number INTEGER NOT NULL,
    outcome_color VARCHAR(10) NOT NULL,
    won BOOLEAN NOT NULL,
    win_amount BIGINT NOT NULL DEFAULT 0,
    payout_ratio INTEGER NOT NULL DEFAULT 0,
    consolation BOOLEAN NOT NULL DEFAULT FALSE,
    consolation_amount BIGINT NOT NULL DEFAULT 0,
    losing_streak INTEGER NOT NULL DEFAULT 0,
    balance_before BIGINT NOT NULL,
    balance_after BIGINT NOT NULL,
    created_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_wager_rounds_user_id ON wager_rounds(user_id, created_at DESC);
`

var migration006Admin = `
CREATE TABLE IF NOT EXISTS admin_sessions (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL,
    session_token VARCHAR(255) UNIQUE,
    authenticated_at TIMESTAMP DEFAULT NOW(),
    expires_at TIMESTAMP,
    last_activity TIMESTAMP DEFAULT NOW(),
    is_active BOOLEAN DEFAULT TRUE
);
CREATE INDEX IF NOT EXISTS idx_admin_sessions_user_id ON admin_sessions(user_id);
CREATE TABLE IF NOT EXISTS admin_login_attempts (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL,
    attempt_time TIMESTAMP DEFAULT NOW(),
    success BOOLEAN DEFAULT FALSE
);
CREATE INDEX IF NOT EXISTS idx_admin_login_attempts_user ON admin_login_attempts(user_id, attempt_time DESC);
`
