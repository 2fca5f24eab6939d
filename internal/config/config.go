// Package config загружает конфигурацию бота из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- Telegram ---
	AdminIDsRaw      string  `envconfig:"ADMIN_IDS" required:"true"`
	AdminIDs         []int64 `envconfig:"-"` // заполним вручную из AdminIDsRaw
	TelegramBotToken string  `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	// ID чата, в котором бот работает (единственный разрешённый групповой чат)
	FloodChatID int64 `envconfig:"FLOOD_CHAT_ID" required:"true"`

	// --- Database ---
	// В Docker внутри контейнера "localhost" почти всегда неправильно.
	// Дефолт ставим "postgres" (имя сервиса в docker-compose).
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"botuser"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"roulette_bot"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`

	// --- Bot runtime ---
	// Сколько апдейтов обрабатываем параллельно.
	BotMaxInflight int `envconfig:"BOT_MAX_INFLIGHT" default:"64"`
	// Таймаут long polling (секунды)
	BotUpdateTimeoutSeconds int `envconfig:"BOT_UPDATE_TIMEOUT_SECONDS" default:"60"`

	// --- Admin ---
	AdminPasswordHash string `envconfig:"ADMIN_PASSWORD_HASH" required:"true"`

	// --- Работа (заработок фишек) ---
	WorkCooldown  time.Duration `envconfig:"WORK_COOLDOWN" default:"30m"`
	WorkRewardMin int64         `envconfig:"WORK_REWARD_MIN" default:"50"`
	WorkRewardMax int64         `envconfig:"WORK_REWARD_MAX" default:"150"`

	// --- Переводы ---
	TransferMin           int64         `envconfig:"TRANSFER_MIN" default:"10"`
	TransferMax           int64         `envconfig:"TRANSFER_MAX" default:"50000"`
	TransferCooldown      time.Duration `envconfig:"TRANSFER_COOLDOWN" default:"30s"`
	TransferConfirmWindow time.Duration `envconfig:"TRANSFER_CONFIRM_WINDOW" default:"60s"`
	TransferDailyCount    int           `envconfig:"TRANSFER_DAILY_COUNT" default:"10"`
	TransferDailyAmount   int64         `envconfig:"TRANSFER_DAILY_AMOUNT" default:"200000"`
	// Процент комиссии для счетов, замешанных в антикризисной программе
	TransferBailoutFeePercent int64 `envconfig:"TRANSFER_BAILOUT_FEE_PERCENT" default:"10"`

	// --- Рулетка ---
	RouletteMinBet int64 `envconfig:"ROULETTE_MIN_BET" default:"10"`
	// Сколько последних раундов сканируем при подсчёте серии поражений
	RouletteStreakWindow int `envconfig:"ROULETTE_STREAK_WINDOW" default:"50"`

	// --- Rate Limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"10"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// --- Feature Flags ---
	FeatureRouletteEnabled  bool `envconfig:"FEATURE_ROULETTE_ENABLED" default:"true"`
	FeatureTransfersEnabled bool `envconfig:"FEATURE_TRANSFERS_ENABLED" default:"true"`
	FeatureWorkEnabled      bool `envconfig:"FEATURE_WORK_ENABLED" default:"true"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	if c.FloodChatID == 0 {
		return fmt.Errorf("FLOOD_CHAT_ID не задан или равен 0")
	}
	if c.BotMaxInflight <= 0 {
		return fmt.Errorf("BOT_MAX_INFLIGHT должен быть > 0")
	}
	if c.BotUpdateTimeoutSeconds <= 0 {
		return fmt.Errorf("BOT_UPDATE_TIMEOUT_SECONDS должен быть > 0")
	}
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
	}
	if c.WorkRewardMin <= 0 || c.WorkRewardMax < c.WorkRewardMin {
		return fmt.Errorf("некорректные WORK_REWARD_MIN/WORK_REWARD_MAX")
	}
	if c.TransferMin <= 0 || c.TransferMax < c.TransferMin {
		return fmt.Errorf("некорректные TRANSFER_MIN/TRANSFER_MAX")
	}
	if c.TransferBailoutFeePercent < 0 || c.TransferBailoutFeePercent > 100 {
		return fmt.Errorf("TRANSFER_BAILOUT_FEE_PERCENT должен быть в [0,100]")
	}
	if c.RouletteStreakWindow <= 0 {
		return fmt.Errorf("ROULETTE_STREAK_WINDOW должен быть > 0")
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}

	ids, err := parseInt64CSV(cfg.AdminIDsRaw)
	if err != nil {
		return nil, fmt.Errorf("ADMIN_IDS parse: %w", err)
	}
	cfg.AdminIDs = ids

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parseInt64CSV(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad int64 %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}
