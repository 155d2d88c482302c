// Пакет config — загрузка и валидация конфигурации Files Module
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Допустимые значения бэкендов хранилищ.
const (
	// BackendPostgres — метаданные в PostgreSQL.
	BackendPostgres = "postgres"
	// BackendRedis — сессии в Redis.
	BackendRedis = "redis"
	// BackendMemory — in-memory хранилище (тесты, локальный запуск).
	BackendMemory = "memory"
)

// Config содержит все параметры конфигурации Files Module.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера (по умолчанию 5000)
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- Хранилище содержимого ---

	// Корневой каталог для содержимого файлов
	FolderPath string
	// Максимальный размер тела запроса загрузки (байт)
	MaxUploadSize int64

	// --- Метаданные ---

	// Бэкенд метаданных: postgres или memory
	MetadataBackend string
	// Хост PostgreSQL
	DBHost string
	// Порт PostgreSQL
	DBPort int
	// Имя базы данных
	DBName string
	// Пользователь БД
	DBUser string
	// Пароль БД
	DBPassword string
	// Режим SSL (disable, require, verify-ca, verify-full)
	DBSSLMode string

	// --- Сессии ---

	// Бэкенд сессий: redis или memory
	TokenBackend string
	// Адрес Redis (host:port)
	RedisAddr string
	// Пароль Redis
	RedisPassword string
	// Номер базы Redis
	RedisDB int
	// Время жизни сессии (по умолчанию 24h)
	SessionTTL time.Duration

	// --- Кэш метаданных ---

	// Максимальное количество записей в LRU-кэше (0 — кэш отключён)
	CacheSize int
	// Время жизни записи в кэше
	CacheTTL time.Duration

	// --- topologymetrics ---

	// Группа сервиса в метриках зависимостей
	DephealthGroup string
	// Интервал проверки зависимостей
	DephealthCheckInterval time.Duration

	// --- HTTP Server Timeouts ---

	// Таймаут чтения HTTP-сервера (по умолчанию 30s)
	HTTPReadTimeout time.Duration
	// Таймаут записи HTTP-сервера (по умолчанию 60s)
	HTTPWriteTimeout time.Duration
	// Таймаут простоя HTTP-сервера (по умолчанию 120s)
	HTTPIdleTimeout time.Duration

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown (по умолчанию 5s)
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения.
// Возвращает ошибку, если обязательные переменные не заданы
// или значения некорректны.
//
//nolint:cyclop,funlen // линейный разбор переменных окружения
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// FM_PORT — порт HTTP-сервера (по умолчанию 5000)
	cfg.Port, err = getEnvInt("FM_PORT", 5000)
	if err != nil {
		return nil, fmt.Errorf("FM_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("FM_PORT: порт %d вне диапазона 1-65535", cfg.Port)
	}

	// FM_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("FM_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("FM_LOG_LEVEL: %w", err)
	}

	// FM_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("FM_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("FM_LOG_FORMAT: недопустимый формат %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- Хранилище содержимого ---

	// FM_FOLDER_PATH — корневой каталог (по умолчанию /tmp/files_manager)
	cfg.FolderPath = getEnvDefault("FM_FOLDER_PATH", "/tmp/files_manager")

	// FM_MAX_UPLOAD_SIZE — лимит тела запроса (по умолчанию 64 MiB)
	cfg.MaxUploadSize, err = getEnvInt64("FM_MAX_UPLOAD_SIZE", 64<<20)
	if err != nil {
		return nil, fmt.Errorf("FM_MAX_UPLOAD_SIZE: %w", err)
	}
	if cfg.MaxUploadSize <= 0 {
		return nil, fmt.Errorf("FM_MAX_UPLOAD_SIZE: значение должно быть > 0")
	}

	// --- Метаданные ---

	cfg.MetadataBackend = strings.ToLower(getEnvDefault("FM_METADATA_BACKEND", BackendPostgres))
	switch cfg.MetadataBackend {
	case BackendPostgres:
		if err := loadDatabase(cfg); err != nil {
			return nil, err
		}
	case BackendMemory:
	default:
		return nil, fmt.Errorf("FM_METADATA_BACKEND: недопустимое значение %q, допустимые: postgres, memory", cfg.MetadataBackend)
	}

	// --- Сессии ---

	cfg.TokenBackend = strings.ToLower(getEnvDefault("FM_TOKEN_BACKEND", BackendRedis))
	switch cfg.TokenBackend {
	case BackendRedis, BackendMemory:
	default:
		return nil, fmt.Errorf("FM_TOKEN_BACKEND: недопустимое значение %q, допустимые: redis, memory", cfg.TokenBackend)
	}

	// FM_REDIS_ADDR — адрес Redis (по умолчанию localhost:6379)
	cfg.RedisAddr = getEnvDefault("FM_REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = os.Getenv("FM_REDIS_PASSWORD")
	cfg.RedisDB, err = getEnvInt("FM_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("FM_REDIS_DB: %w", err)
	}
	if cfg.RedisDB < 0 {
		return nil, fmt.Errorf("FM_REDIS_DB: значение должно быть >= 0")
	}

	// FM_SESSION_TTL — время жизни сессии (по умолчанию 24h)
	cfg.SessionTTL, err = getEnvPositiveDuration("FM_SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("FM_SESSION_TTL: %w", err)
	}

	// --- Кэш метаданных ---

	cfg.CacheSize, err = getEnvInt("FM_CACHE_SIZE", 10000)
	if err != nil {
		return nil, fmt.Errorf("FM_CACHE_SIZE: %w", err)
	}
	if cfg.CacheSize < 0 {
		return nil, fmt.Errorf("FM_CACHE_SIZE: значение должно быть >= 0")
	}

	cfg.CacheTTL, err = getEnvPositiveDuration("FM_CACHE_TTL", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FM_CACHE_TTL: %w", err)
	}

	// --- topologymetrics ---

	cfg.DephealthGroup = getEnvDefault("FM_DEPHEALTH_GROUP", "files-manager")
	cfg.DephealthCheckInterval, err = getEnvPositiveDuration("FM_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FM_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// --- HTTP Server Timeouts ---

	cfg.HTTPReadTimeout, err = getEnvDuration("FM_HTTP_READ_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FM_HTTP_READ_TIMEOUT: %w", err)
	}

	cfg.HTTPWriteTimeout, err = getEnvDuration("FM_HTTP_WRITE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FM_HTTP_WRITE_TIMEOUT: %w", err)
	}

	cfg.HTTPIdleTimeout, err = getEnvDuration("FM_HTTP_IDLE_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FM_HTTP_IDLE_TIMEOUT: %w", err)
	}

	// --- Graceful shutdown ---

	cfg.ShutdownTimeout, err = getEnvDuration("FM_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FM_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// loadDatabase читает параметры подключения к PostgreSQL.
func loadDatabase(cfg *Config) error {
	var err error

	// FM_DB_HOST — обязательный
	cfg.DBHost, err = getEnvRequired("FM_DB_HOST")
	if err != nil {
		return err
	}

	// FM_DB_PORT — порт PostgreSQL (по умолчанию 5432)
	cfg.DBPort, err = getEnvInt("FM_DB_PORT", 5432)
	if err != nil {
		return fmt.Errorf("FM_DB_PORT: %w", err)
	}

	// FM_DB_NAME — обязательный
	cfg.DBName, err = getEnvRequired("FM_DB_NAME")
	if err != nil {
		return err
	}

	// FM_DB_USER — обязательный
	cfg.DBUser, err = getEnvRequired("FM_DB_USER")
	if err != nil {
		return err
	}

	// FM_DB_PASSWORD — обязательный
	cfg.DBPassword, err = getEnvRequired("FM_DB_PASSWORD")
	if err != nil {
		return err
	}

	// FM_DB_SSL_MODE — режим SSL (по умолчанию disable)
	cfg.DBSSLMode = getEnvDefault("FM_DB_SSL_MODE", "disable")
	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[cfg.DBSSLMode] {
		return fmt.Errorf("FM_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}

	return nil
}

// DatabaseURL возвращает URL PostgreSQL в формате postgres://.
// Используется для pgxpool, лейблов topologymetrics и golang-migrate.
func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvInt64 возвращает int64 из переменной окружения или значение по умолчанию.
func getEnvInt64(key string, defaultVal int64) (int64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// getEnvPositiveDuration — как getEnvDuration, но значение должно быть > 0.
func getEnvPositiveDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	d, err := getEnvDuration(key, defaultVal)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("значение должно быть > 0")
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
