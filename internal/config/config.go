package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Telegram TelegramConfig
}

type ServerConfig struct {
	Port           string   `env:"SERVER_PORT" envDefault:"8080"`
	Environment    string   `env:"ENVIRONMENT" envDefault:"development"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"https://web.telegram.org"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
}

type DatabaseConfig struct {
	URL      string `env:"DATABASE_URL"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"bearapp"`
	Password string `env:"DB_PASSWORD" envDefault:"bearapp"`
	Name     string `env:"DB_NAME" envDefault:"bearapp"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
}

type TelegramConfig struct {
	BotToken          string `env:"TELEGRAM_BOT_TOKEN"`
	WebhookSecret     string `env:"TELEGRAM_WEBHOOK_SECRET"`
	WebAppURL         string `env:"TELEGRAM_WEBAPP_URL"`
	InitDataMaxAgeSec int64  `env:"INITDATA_MAX_AGE_SEC" envDefault:"86400"`
}

func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.Name + "?sslmode=" + d.SSLMode
}

// InitDataMaxAge is the oldest auth_date the server accepts on incoming
// credentials. The mini-app uses a much tighter window on its side.
func (t TelegramConfig) InitDataMaxAge() time.Duration {
	return time.Duration(t.InitDataMaxAgeSec) * time.Second
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	for i, origin := range cfg.Server.AllowedOrigins {
		cfg.Server.AllowedOrigins[i] = strings.TrimSpace(origin)
	}

	return cfg, nil
}
