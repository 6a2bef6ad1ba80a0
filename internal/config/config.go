// Пакет config — загрузка и валидация конфигурации tienda-admin
// из переменных окружения (опционально — из файла .env).
package config

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// DefaultBackendURL — REST-бэкенд магазина, с которым работал исходный фронтенд.
const DefaultBackendURL = "https://learnapifront-9de8a2348f9a.herokuapp.com"

// Допустимые размеры страницы в таблицах.
var AllowedPageSizes = []int{5, 10, 20, 50}

// Config содержит все параметры конфигурации tienda-admin.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int `env:"TA_PORT, default=8080"`
	// Уровень логирования (debug, info, warn, error)
	LogLevelName string `env:"TA_LOG_LEVEL, default=info"`
	// Разобранный уровень логирования; без тега env, заполняется в Load
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string `env:"TA_LOG_FORMAT, default=json"`

	// --- REST-бэкенд ---

	// Базовый URL бэкенда; пути /api/... фиксированы
	BackendURL string `env:"TA_BACKEND_URL, default=https://learnapifront-9de8a2348f9a.herokuapp.com"`
	// Путь, который dephealth и readiness используют для проверки бэкенда
	BackendHealthPath string `env:"TA_BACKEND_HEALTH_PATH, default=/api/auth/me"`

	// --- Сессия UI ---

	// Ключ шифрования cookie с учётными данными бэкенда
	SessionSecret string `env:"TA_SESSION_SECRET"`
	// Secure flag для cookie (true за HTTPS)
	SecureCookie bool `env:"TA_SECURE_COOKIE, default=false"`

	// --- Таблицы и формы ---

	// Размер страницы таблицы продуктов по умолчанию
	DefaultPageSize int `env:"TA_DEFAULT_PAGE_SIZE, default=10"`
	// Количество карточек на главной странице
	IndexPageSize int `env:"TA_INDEX_PAGE_SIZE, default=24"`
	// Папка для загрузки изображений продуктов
	ProductImageFolder string `env:"TA_PRODUCT_IMAGE_FOLDER, default=products"`
	// usuarioId, который бэкенд ожидает в payload продукта
	ProductOwnerID int64 `env:"TA_PRODUCT_OWNER_ID, default=2"`
	// Язык интерфейса по умолчанию (es, en)
	DefaultLang string `env:"TA_DEFAULT_LANG, default=es"`

	// --- Мониторинг ---

	// Группа в метриках topologymetrics
	DephealthGroup string `env:"TA_DEPHEALTH_GROUP, default=tienda"`
	// Интервал проверки зависимостей
	DephealthCheckInterval time.Duration `env:"TA_DEPHEALTH_CHECK_INTERVAL, default=15s"`
	// OTLP gRPC endpoint; пустой — трассировка выключена
	OTelEndpoint string `env:"TA_OTEL_ENDPOINT"`

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration `env:"TA_SHUTDOWN_TIMEOUT, default=5s"`
}

// LoadDotEnv подгружает переменные из файла .env, если он есть.
// Уже заданные переменные окружения не перезаписываются.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	existing := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("загрузка .env: %w", err)
	}
	return nil
}

// Load загружает конфигурацию из переменных окружения, валидирует
// значения и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("разбор переменных окружения: %w", err)
	}

	var err error
	cfg.LogLevel, err = parseLogLevel(cfg.LogLevelName)
	if err != nil {
		return nil, fmt.Errorf("TA_LOG_LEVEL: %w", err)
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("TA_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("TA_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// Убираем trailing slash: пути бэкенда дописываются к базовому URL
	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")
	u, err := url.Parse(cfg.BackendURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("TA_BACKEND_URL: некорректный URL %q", cfg.BackendURL)
	}

	if !strings.HasPrefix(cfg.BackendHealthPath, "/") {
		return nil, fmt.Errorf("TA_BACKEND_HEALTH_PATH: путь должен начинаться с '/': %q", cfg.BackendHealthPath)
	}

	if !IsAllowedPageSize(cfg.DefaultPageSize) {
		return nil, fmt.Errorf("TA_DEFAULT_PAGE_SIZE: значение %d не входит в %v", cfg.DefaultPageSize, AllowedPageSizes)
	}

	if cfg.IndexPageSize < 1 || cfg.IndexPageSize > 100 {
		return nil, fmt.Errorf("TA_INDEX_PAGE_SIZE: значение %d вне допустимого диапазона 1-100", cfg.IndexPageSize)
	}

	if strings.TrimSpace(cfg.ProductImageFolder) == "" {
		return nil, fmt.Errorf("TA_PRODUCT_IMAGE_FOLDER: пустое значение")
	}

	if cfg.DefaultLang != "es" && cfg.DefaultLang != "en" {
		return nil, fmt.Errorf("TA_DEFAULT_LANG: недопустимое значение %q, допустимые: es, en", cfg.DefaultLang)
	}

	if cfg.DephealthCheckInterval <= 0 {
		return nil, fmt.Errorf("TA_DEPHEALTH_CHECK_INTERVAL: значение должно быть положительным")
	}

	return cfg, nil
}

// BackendHealthURL возвращает полный URL проверки доступности бэкенда.
func (c *Config) BackendHealthURL() string {
	return c.BackendURL + c.BackendHealthPath
}

// IsAllowedPageSize проверяет, входит ли размер страницы в список допустимых.
func IsAllowedPageSize(size int) bool {
	for _, s := range AllowedPageSizes {
		if s == size {
			return true
		}
	}
	return false
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
