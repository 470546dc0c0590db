package configs

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/0sokrat0/TGSamui/internal/constants"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// RabbitMQConfig хранит конфигурацию для RabbitMQ
type RabbitMQConfig struct {
	URL      string
	Exchange string `validate:"required"`
}

// DBconfig хранит конфигурацию для БД
type DBconfig struct {
	URL      string `validate:"required"`
	MinConns int32  `validate:"gte=0"`
	MaxConns int32  `validate:"gte=1,gtefield=MinConns"`
}

// RedisConfig хранит конфигурацию хранилища сессий. Пустой URL - сессии в памяти.
type RedisConfig struct {
	URL    string
	Prefix string `validate:"required"`
}

// TelegramConfig хранит конфигурацию транспорта
type TelegramConfig struct {
	Token    string
	Workers  int `validate:"gte=1,lte=256"`
	AdminIDs []int64
}

// BotConfig хранит настройки сценариев
type BotConfig struct {
	CoordinateMode string `validate:"oneof=dms literal"`
	FavoritesLimit int    `validate:"gte=0"`
	CatalogPath    string
}

// DigestConfig хранит настройки ежедневной рассылки новинок
type DigestConfig struct {
	Enabled  bool
	Interval time.Duration `validate:"gte=1m"`
}

// LogConfig хранит настройки логгера
type LogConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=json console"`
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	Database DBconfig
	RabbitMQ RabbitMQConfig
	Redis    RedisConfig
	Telegram TelegramConfig
	Bot      BotConfig
	Digest   DigestConfig
	Log      LogConfig

	// EnvFileLoaded - был ли найден .env
	EnvFileLoaded bool `validate:"-"`
}

var validate = validator.New()

// LoadConfig загружает конфигурацию из .env (если он есть) и переменных окружения.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 && envPath[0] != "" {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}

	cfg := &AppConfig{EnvFileLoaded: err == nil}
	if err != nil && len(envPath) > 0 && envPath[0] != "" {
		// Явно указанный файл обязан существовать
		return nil, fmt.Errorf("could not load .env file (path: %v): %w", envPath[0], err)
	}

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	cfg.Database.URL = getEnvAsString("DATABASE_URL", "")
	minConns, err := getEnvAsInt("DB_MIN_CONNS", 1)
	collect(err)
	maxConns, err := getEnvAsInt("DB_MAX_CONNS", 10)
	collect(err)
	cfg.Database.MinConns, cfg.Database.MaxConns = int32(minConns), int32(maxConns)

	cfg.RabbitMQ.URL = getEnvAsString("RABBITMQ_URL", "")
	cfg.RabbitMQ.Exchange = getEnvAsString("RABBITMQ_EXCHANGE", constants.ExchangeDelivery)

	cfg.Redis.URL = getEnvAsString("REDIS_URL", "")
	cfg.Redis.Prefix = getEnvAsString("REDIS_PREFIX", "estate_bot")

	cfg.Telegram.Token = getEnvAsString("TELEGRAM_TOKEN", "")
	cfg.Telegram.Workers, err = getEnvAsInt("TELEGRAM_WORKERS", 4)
	collect(err)
	cfg.Telegram.AdminIDs, err = getEnvAsInt64List("ADMIN_IDS")
	collect(err)

	cfg.Bot.CoordinateMode = strings.ToLower(getEnvAsString("COORDINATE_MODE", "dms"))
	cfg.Bot.FavoritesLimit, err = getEnvAsInt("FAVORITES_LIMIT", 0)
	collect(err)
	cfg.Bot.CatalogPath = getEnvAsString("FILTER_CATALOG_PATH", "")

	cfg.Digest.Enabled, err = getEnvAsBool("DIGEST_ENABLED", true)
	collect(err)
	cfg.Digest.Interval, err = getEnvAsDuration("DIGEST_INTERVAL", 24*time.Hour)
	collect(err)

	cfg.Log.Level = strings.ToLower(getEnvAsString("LOG_LEVEL", "info"))
	cfg.Log.Format = strings.ToLower(getEnvAsString("LOG_FORMAT", "json"))

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// RequireServe проверяет ключи, нужные для запуска бота.
func (c *AppConfig) RequireServe() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("TELEGRAM_TOKEN environment variable is required")
	}
	return c.RequireBroker()
}

// RequireBroker проверяет ключи, нужные для публикации задач доставки.
func (c *AppConfig) RequireBroker() error {
	if err := validate.Var(c.RabbitMQ.URL, "required,url"); err != nil {
		return fmt.Errorf("RABBITMQ_URL environment variable is required: %w", err)
	}
	return nil
}

// IsAdmin сообщает, входит ли пользователь в список администраторов.
func (c *AppConfig) IsAdmin(userID int64) bool {
	for _, id := range c.Telegram.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// getEnvAsString читает переменную окружения как строку или возвращает значение по умолчанию
func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

// getEnvAsInt читает переменную окружения как int или возвращает значение по умолчанию
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(valueStr) == "" {
		return defaultValue, nil
	}

	valueInt, err := strconv.Atoi(strings.TrimSpace(valueStr))
	if err != nil {
		return defaultValue, fmt.Errorf("%s (value: %s) could not be parsed as int: %w", key, valueStr, err)
	}
	return valueInt, nil
}

// getEnvAsBool читает переменную окружения как bool или возвращает значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	valStr, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(valStr) == "" {
		return defaultValue, nil
	}
	valBool, err := strconv.ParseBool(strings.TrimSpace(valStr))
	if err != nil {
		return defaultValue, fmt.Errorf("%s (value: %s) could not be parsed as bool: %w", key, valStr, err)
	}
	return valBool, nil
}

// getEnvAsDuration читает переменную окружения в формате time.ParseDuration
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valStr, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(valStr) == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(valStr))
	if err != nil {
		return defaultValue, fmt.Errorf("%s (value: %s) could not be parsed as duration: %w", key, valStr, err)
	}
	return d, nil
}

// getEnvAsInt64List читает список чисел через запятую
func getEnvAsInt64List(key string) ([]int64, error) {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return nil, nil
	}
	var out []int64
	for _, part := range strings.Split(valStr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s contains non-integer id %q: %w", key, part, err)
		}
		out = append(out, id)
	}
	return out, nil
}
