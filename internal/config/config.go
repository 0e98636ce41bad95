package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
)

// EnvPrefix префикс переменных окружения, перекрывающих config.toml
// Например: CONSOLE_RENTAL_DB_PASSWORD, CONSOLE_RENTAL_TELEGRAM_TOKEN, CONSOLE_RENTAL_KAFKA_BROKERS
const EnvPrefix = "CONSOLE_RENTAL"

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database" envconfig:"DB"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Auth     AuthConfig     `toml:"auth"`
	Telegram TelegramConfig `toml:"telegram"`
	Kafka    KafkaConfig    `toml:"kafka"`
	Jobs     JobsConfig     `toml:"jobs"`
	Rental   RentalConfig   `toml:"rental"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port" envconfig:"HTTP_PORT"`
	ReadTimeout     int `toml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    int `toml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     int `toml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout int `toml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname" envconfig:"NAME"`
	SSLMode         string `toml:"sslmode" envconfig:"SSLMODE"`
	MaxOpenConns    int    `toml:"max_open_conns" envconfig:"MAX_OPEN_CONNS"`
	MaxIdleConns    int    `toml:"max_idle_conns" envconfig:"MAX_IDLE_CONNS"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" envconfig:"CONN_MAX_LIFETIME"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name" envconfig:"SERVICE_NAME"`
	Path        string `toml:"path"`
}

type AuthConfig struct {
	// AdminIDs Telegram ID администраторов
	AdminIDs []int64 `toml:"admin_ids" envconfig:"ADMIN_IDS"`
}

type TelegramConfig struct {
	// Token пустой токен отключает отправку сообщений
	Token             string  `toml:"token"`
	MessagesPerSecond float64 `toml:"messages_per_second" envconfig:"MESSAGES_PER_SECOND"`
}

// Enabled уведомления отправляются только с токеном бота
func (c TelegramConfig) Enabled() bool {
	return c.Token != ""
}

type KafkaConfig struct {
	// Brokers пустой список отключает публикацию событий
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
}

func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

type JobsConfig struct {
	Enabled bool `toml:"enabled"`
	// Timeout ограничение одного запуска задачи, секунды
	Timeout             int    `toml:"timeout"`
	ReconcileConsoles   string `toml:"reconcile_consoles" envconfig:"RECONCILE_CONSOLES"`
	SendReturnReminders string `toml:"send_return_reminders" envconfig:"SEND_RETURN_REMINDERS"`
	SweepExpiredHolds   string `toml:"sweep_expired_holds" envconfig:"SWEEP_EXPIRED_HOLDS"`
}

// RentalConfig настройки проката, действующие до первого сохранения администратором
type RentalConfig struct {
	AdminChatID          int64 `toml:"admin_chat_id" envconfig:"ADMIN_CHAT_ID"`
	RequireApproval      *bool `toml:"require_approval" envconfig:"REQUIRE_APPROVAL"`
	NotificationsEnabled *bool `toml:"notifications_enabled" envconfig:"NOTIFICATIONS_ENABLED"`
	MaxRentalHours       int   `toml:"max_rental_hours" envconfig:"MAX_RENTAL_HOURS"`
	ReminderHours        int   `toml:"reminder_hours" envconfig:"REMINDER_HOURS"`
	TempHoldMinutes      int   `toml:"temp_hold_minutes" envconfig:"TEMP_HOLD_MINUTES"`
}

// Settings настройки проката по умолчанию
func (c RentalConfig) Settings() *domain.AdminSettings {
	settings := domain.DefaultAdminSettings()
	settings.AdminChatID = c.AdminChatID
	if c.RequireApproval != nil {
		settings.RequireApproval = *c.RequireApproval
	}
	if c.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *c.NotificationsEnabled
	}
	if c.MaxRentalHours > 0 {
		settings.MaxRentalHours = c.MaxRentalHours
	}
	if c.ReminderHours > 0 {
		settings.ReminderHours = c.ReminderHours
	}
	if c.TempHoldMinutes > 0 {
		settings.TempHoldMinutes = c.TempHoldMinutes
	}
	return settings
}

// Load читает config.toml, затем .env и переменные окружения с префиксом EnvPrefix
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}

	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "console_rental"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}

	if c.Jobs.Timeout == 0 {
		c.Jobs.Timeout = 60
	}
}

func (c *Config) validate() error {
	if c.Server.HTTPPort < 1 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid server.http_port: %d", c.Server.HTTPPort)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return errors.New("database.host and database.dbname are required")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) exceeds max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	for _, id := range c.Auth.AdminIDs {
		if id <= 0 {
			return fmt.Errorf("invalid auth.admin_ids entry: %d", id)
		}
	}
	if c.Telegram.MessagesPerSecond < 0 {
		return errors.New("telegram.messages_per_second must not be negative")
	}
	if c.Rental.MaxRentalHours < 0 || c.Rental.MaxRentalHours > domain.MaxRentalHoursLimit {
		return fmt.Errorf("invalid rental.max_rental_hours: %d", c.Rental.MaxRentalHours)
	}
	if c.Rental.TempHoldMinutes < 0 || c.Rental.TempHoldMinutes > domain.MaxTempHoldMinutes {
		return fmt.Errorf("invalid rental.temp_hold_minutes: %d", c.Rental.TempHoldMinutes)
	}
	if c.Rental.ReminderHours < 0 {
		return fmt.Errorf("invalid rental.reminder_hours: %d", c.Rental.ReminderHours)
	}
	return nil
}
