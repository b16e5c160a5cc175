package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

// EnvPrefix префикс переменных окружения, например GROOM_DATABASE_PASSWORD
const EnvPrefix = "GROOM"

var ErrInvalidConfig = errors.New("invalid config")

// Config конфигурация сервиса
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Scheduling SchedulingConfig `toml:"scheduling"`
	OTP        OTPConfig        `toml:"otp"`
	Ledger     LedgerConfig     `toml:"ledger"`
	Reminders  RemindersConfig  `toml:"reminders"`
	Directory  DirectoryConfig  `toml:"directory"`
	SMSGateway SMSGatewayConfig `toml:"smsgateway"`
	Redis      RedisConfig      `toml:"redis"`
	Events     EventsConfig     `toml:"events"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type SchedulingConfig struct {
	Timezone string `toml:"timezone"` // IANA, например "Asia/Kolkata"
}

type OTPConfig struct {
	Length         int `toml:"length"`
	BcryptCost     int `toml:"bcrypt_cost"`
	MaxAttempts    int `toml:"max_attempts"`
	LockoutMinutes int `toml:"lockout_minutes"`
}

type LedgerConfig struct {
	OverpaymentTolerance string `toml:"overpayment_tolerance"` // "0.00" - переплата запрещена
}

type RemindersConfig struct {
	Enabled               bool             `toml:"enabled"`
	Horizons              []int            `toml:"horizons"`
	IntervalMinutes       int              `toml:"interval_minutes"`
	CustomerWindowMinutes int              `toml:"customer_window_minutes"`
	GroomerWindowMinutes  int              `toml:"groomer_window_minutes"`
	WindowStart           types.TimeString `toml:"window_start"`
	WindowEnd             types.TimeString `toml:"window_end"`
	SendTimeout           int              `toml:"send_timeout"` // секунды
	LockKey               string           `toml:"lock_key"`
	LockTTL               int              `toml:"lock_ttl"` // секунды
}

type DirectoryConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

type SMSGatewayConfig struct {
	URL          string `toml:"url"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	SenderID     string `toml:"sender_id"`
	Timeout      int    `toml:"timeout"` // секунды
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type EventsConfig struct {
	Enabled  bool   `toml:"enabled"`
	URL      string `toml:"url"`
	Exchange string `toml:"exchange"`
}

// Default конфигурация по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "grooming",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "grooming_service",
		},
		Scheduling: SchedulingConfig{
			Timezone: "Asia/Kolkata",
		},
		OTP: OTPConfig{
			Length:         domain.DefaultOTPLength,
			MaxAttempts:    domain.DefaultOTPMaxAttempts,
			LockoutMinutes: domain.DefaultOTPLockoutMinutes,
		},
		Ledger: LedgerConfig{
			OverpaymentTolerance: "0.00",
		},
		Reminders: RemindersConfig{
			Enabled:               true,
			Horizons:              append([]int(nil), domain.DefaultReminderHorizons...),
			IntervalMinutes:       domain.DefaultReminderIntervalMins,
			CustomerWindowMinutes: domain.DefaultCustomerWindowHours * 60,
			GroomerWindowMinutes:  domain.DefaultGroomerWindowHours * 60,
			WindowStart:           types.MustTimeString("08:00"),
			WindowEnd:             types.MustTimeString("20:00"),
			SendTimeout:           10,
			LockKey:               "grooming:reminders:run",
			LockTTL:               600,
		},
		Directory: DirectoryConfig{
			URL:     "http://localhost:8081",
			Timeout: 5,
		},
		SMSGateway: SMSGatewayConfig{
			Timeout: 10,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Events: EventsConfig{
			Exchange: "grooming.events",
		},
	}
}

// Load читает TOML файл поверх значений по умолчанию, затем применяет
// переменные окружения с префиксом GROOM и проверяет результат
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535", ErrInvalidConfig)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("%w: scheduling.timezone: %v", ErrInvalidConfig, err)
	}
	if c.OTP.Length < 4 || c.OTP.Length > 10 {
		return fmt.Errorf("%w: otp.length must be in 4..10", ErrInvalidConfig)
	}
	if c.OTP.MaxAttempts <= 0 || c.OTP.LockoutMinutes <= 0 {
		return fmt.Errorf("%w: otp.max_attempts and otp.lockout_minutes must be positive", ErrInvalidConfig)
	}

	tolerance, err := decimal.NewFromString(c.Ledger.OverpaymentTolerance)
	if err != nil || tolerance.IsNegative() {
		return fmt.Errorf("%w: ledger.overpayment_tolerance must be a non-negative decimal", ErrInvalidConfig)
	}

	if c.Reminders.Enabled {
		if err := c.validateReminders(); err != nil {
			return err
		}
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalidConfig)
	}
	if c.Events.Enabled && (c.Events.URL == "" || c.Events.Exchange == "") {
		return fmt.Errorf("%w: events.url and events.exchange are required when events are enabled", ErrInvalidConfig)
	}

	return nil
}

func (c *Config) validateReminders() error {
	r := c.Reminders
	if len(r.Horizons) == 0 {
		return fmt.Errorf("%w: reminders.horizons must not be empty", ErrInvalidConfig)
	}
	for _, h := range r.Horizons {
		if h < 0 {
			return fmt.Errorf("%w: reminders.horizons must not be negative", ErrInvalidConfig)
		}
	}
	if r.IntervalMinutes <= 0 {
		return fmt.Errorf("%w: reminders.interval_minutes must be positive", ErrInvalidConfig)
	}
	if r.CustomerWindowMinutes <= 0 || r.GroomerWindowMinutes <= 0 {
		return fmt.Errorf("%w: reminder proximity windows must be positive", ErrInvalidConfig)
	}
	if !r.WindowStart.IsZero() || !r.WindowEnd.IsZero() {
		if !r.WindowStart.IsBefore(r.WindowEnd) {
			return fmt.Errorf("%w: reminders.window_start must be before window_end", ErrInvalidConfig)
		}
	}
	if c.SMSGateway.URL == "" {
		return fmt.Errorf("%w: smsgateway.url is required when reminders are enabled", ErrInvalidConfig)
	}
	return nil
}

// Location рабочий часовой пояс
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Scheduling.Timezone)
}

// OverpaymentTolerance допустимое превышение итога бронирования
func (c *Config) OverpaymentTolerance() decimal.Decimal {
	return decimal.RequireFromString(c.Ledger.OverpaymentTolerance)
}

// Seconds переводит секунды из конфигурации в time.Duration
func Seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
