package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// EnvDevelopment - локальный режим разработки.
	EnvDevelopment = "development"
	// EnvProduction - боевой режим.
	EnvProduction = "production"

	// DevelopmentBaseURL - адрес бэкенда по умолчанию, допустимый только в режиме разработки.
	DevelopmentBaseURL = "http://localhost:5000"
)

// DefaultBidsRouteCandidates - варианты маршрута "предложения по заявке", которые перебираются по порядку.
var DefaultBidsRouteCandidates = []string{
	"/api/bids/request/{requestId}",
	"/api/requests/{requestId}/bids",
	"/api/bids/by-request/{requestId}",
	"/api/bids?requestId={requestId}",
}

// Config - структура для хранения конфигураций приложения
type Config struct {
	AppEnv              string        `mapstructure:"APP_ENV"`
	APIBaseURL          string        `mapstructure:"API_BASE_URL"`
	ServerAddress       string        `mapstructure:"SERVER_ADDRESS"`
	RequestTimeout      time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	AuthTimeout         time.Duration `mapstructure:"AUTH_TIMEOUT"`
	OutboundRPS         float64       `mapstructure:"OUTBOUND_RPS"`
	OffersConcurrency   int           `mapstructure:"OFFERS_CONCURRENCY"`
	BidsRouteCandidates string        `mapstructure:"BIDS_ROUTE_CANDIDATES"`
	StorageDriver       string        `mapstructure:"STORAGE_DRIVER"`
	StorageNamespace    string        `mapstructure:"STORAGE_NAMESPACE"`
	RedisAddr           string        `mapstructure:"REDIS_ADDR"`
	RedisPassword       string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB             int           `mapstructure:"REDIS_DB"`
	PostgresConn        string        `mapstructure:"POSTGRES_CONN"`
	MigrationURL        string        `mapstructure:"MIGRATION_URL"`
	LogLevel            string        `mapstructure:"LOG_LEVEL"`
	LogFormat           string        `mapstructure:"LOG_FORMAT"`
}

// ConfigError - ошибка конфигурации, которая блокирует работу и не исправляется повтором запроса.
type ConfigError struct {
	Key     string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error (%s): %s", e.Key, e.Message)
}

// LoadConfig загружает конфигурацию из файла app.env (если он есть) и переменных окружения
func LoadConfig(path string) (cfg Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.SetDefault("APP_ENV", EnvProduction)
	v.SetDefault("API_BASE_URL", "")
	v.SetDefault("SERVER_ADDRESS", "localhost:8090")
	v.SetDefault("REQUEST_TIMEOUT", 10*time.Second)
	v.SetDefault("AUTH_TIMEOUT", 15*time.Second)
	v.SetDefault("OUTBOUND_RPS", 20)
	v.SetDefault("OFFERS_CONCURRENCY", 8)
	v.SetDefault("BIDS_ROUTE_CANDIDATES", strings.Join(DefaultBidsRouteCandidates, ","))
	v.SetDefault("STORAGE_DRIVER", "memory")
	v.SetDefault("STORAGE_NAMESPACE", "default")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("POSTGRES_CONN", "")
	v.SetDefault("MIGRATION_URL", "file://migrations")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
	}
	if err = v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// IsDevelopment сообщает, запущено ли приложение в режиме разработки.
func (c Config) IsDevelopment() bool {
	return strings.EqualFold(strings.TrimSpace(c.AppEnv), EnvDevelopment)
}

// ResolveBaseURL возвращает адрес бэкенда площадки.
// Вне режима разработки отсутствие API_BASE_URL является ошибкой конфигурации.
func (c Config) ResolveBaseURL() (string, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	if baseURL != "" {
		if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
			return "", &ConfigError{Key: "API_BASE_URL", Message: fmt.Sprintf("%q must start with http:// or https://", baseURL)}
		}
		return baseURL, nil
	}
	if c.IsDevelopment() {
		return DevelopmentBaseURL, nil
	}
	return "", &ConfigError{
		Key:     "API_BASE_URL",
		Message: "backend address is not configured; set API_BASE_URL (or APP_ENV=development to use " + DevelopmentBaseURL + ")",
	}
}

// BidsCandidates возвращает шаблоны маршрутов предложений по заявке.
func (c Config) BidsCandidates() []string {
	var candidates []string
	for _, candidate := range strings.Split(c.BidsRouteCandidates, ",") {
		if candidate = strings.TrimSpace(candidate); candidate != "" {
			candidates = append(candidates, candidate)
		}
	}
	if len(candidates) == 0 {
		return append([]string(nil), DefaultBidsRouteCandidates...)
	}
	return candidates
}
