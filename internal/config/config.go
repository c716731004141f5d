// Пакет config — загрузка и валидация конфигурации СтройДок
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Варианты хранилища актов.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config содержит все параметры конфигурации СтройДок.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- Хранилище ---

	// Хранилище актов: memory (по умолчанию) или postgres
	Store string
	// Хост PostgreSQL
	DBHost string
	// Порт PostgreSQL
	DBPort int
	// Имя базы данных
	DBName string
	// Имя пользователя PostgreSQL
	DBUser string
	// Пароль пользователя PostgreSQL
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string

	// --- Реестр и экспорт ---

	// Префикс имени файлов экспорта
	RegistryName string
	// Имя листа XLSX
	RegistrySheet string
	// Путь к TrueType-шрифту с кириллицей для PDF
	PDFFontPath string

	// --- Форма создания акта ---

	// Записывать созданный из черновика акт в хранилище
	DraftWriteBack bool

	// --- UI ---

	// Ключ шифрования cookie сессии (пустой — случайный при старте)
	UISessionSecret string
	// Флаг Secure для cookie сессии (включать за HTTPS)
	UISecureCookie bool
	// Время жизни состояния UI-сессии
	UISessionTTL time.Duration
	// Максимальное количество UI-сессий в кэше
	UISessionCacheSize int
	// Имя пользователя в боковой панели
	UserName string
	// Должность пользователя в боковой панели
	UserPosition string

	// --- topologymetrics ---

	// Группа сервиса в метриках зависимостей
	DephealthGroup string
	// Интервал проверки зависимостей
	DephealthCheckInterval time.Duration

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// значения и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// SD_PORT — порт HTTP-сервера (по умолчанию 8080)
	cfg.Port, err = getEnvInt("SD_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("SD_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("SD_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// SD_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("SD_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("SD_LOG_LEVEL: %w", err)
	}

	// SD_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("SD_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("SD_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- Хранилище ---

	// SD_STORE — memory или postgres (по умолчанию memory)
	cfg.Store = getEnvDefault("SD_STORE", StoreMemory)
	if cfg.Store != StoreMemory && cfg.Store != StorePostgres {
		return nil, fmt.Errorf("SD_STORE: недопустимое значение %q, допустимые: memory, postgres", cfg.Store)
	}

	if cfg.Store == StorePostgres {
		if err := loadDatabase(cfg); err != nil {
			return nil, err
		}
	}

	// --- Реестр и экспорт ---

	// SD_REGISTRY_NAME — префикс имени файлов экспорта
	cfg.RegistryName = getEnvDefault("SD_REGISTRY_NAME", "Реестр_актов")
	if strings.ContainsAny(cfg.RegistryName, `/\`) {
		return nil, fmt.Errorf("SD_REGISTRY_NAME: имя %q не должно содержать разделители пути", cfg.RegistryName)
	}

	// SD_REGISTRY_SHEET — имя листа XLSX (ограничения Excel: до 31 символа, без : \ / ? * [ ])
	cfg.RegistrySheet = getEnvDefault("SD_REGISTRY_SHEET", "Реестр актов")
	if err := validateSheetName(cfg.RegistrySheet); err != nil {
		return nil, fmt.Errorf("SD_REGISTRY_SHEET: %w", err)
	}

	// SD_PDF_FONT_PATH — путь к шрифту (при отсутствии файла используется Helvetica)
	cfg.PDFFontPath = getEnvDefault("SD_PDF_FONT_PATH", "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf")

	// --- Форма создания акта ---

	// SD_DRAFT_WRITE_BACK — записывать созданный акт в хранилище (по умолчанию false)
	cfg.DraftWriteBack, err = getEnvBool("SD_DRAFT_WRITE_BACK", false)
	if err != nil {
		return nil, fmt.Errorf("SD_DRAFT_WRITE_BACK: %w", err)
	}

	// --- UI ---

	cfg.UISessionSecret = getEnvDefault("SD_UI_SESSION_SECRET", "")

	cfg.UISecureCookie, err = getEnvBool("SD_UI_SECURE_COOKIE", false)
	if err != nil {
		return nil, fmt.Errorf("SD_UI_SECURE_COOKIE: %w", err)
	}

	// SD_UI_SESSION_TTL — время жизни состояния UI-сессии (по умолчанию 12h)
	cfg.UISessionTTL, err = getEnvDuration("SD_UI_SESSION_TTL", 12*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("SD_UI_SESSION_TTL: %w", err)
	}
	if cfg.UISessionTTL <= 0 {
		return nil, fmt.Errorf("SD_UI_SESSION_TTL: значение должно быть положительным")
	}

	// SD_UI_SESSION_CACHE_SIZE — размер кэша сессий (по умолчанию 1000)
	cfg.UISessionCacheSize, err = getEnvInt("SD_UI_SESSION_CACHE_SIZE", 1000)
	if err != nil {
		return nil, fmt.Errorf("SD_UI_SESSION_CACHE_SIZE: %w", err)
	}
	if cfg.UISessionCacheSize < 1 || cfg.UISessionCacheSize > 100000 {
		return nil, fmt.Errorf("SD_UI_SESSION_CACHE_SIZE: значение %d вне допустимого диапазона 1-100000", cfg.UISessionCacheSize)
	}

	cfg.UserName = getEnvDefault("SD_USER_NAME", "Иван Петров")
	cfg.UserPosition = getEnvDefault("SD_USER_POSITION", "Инженер ПТО")

	// --- topologymetrics ---

	cfg.DephealthGroup = getEnvDefault("SD_DEPHEALTH_GROUP", "stroydoc")

	// SD_DEPHEALTH_CHECK_INTERVAL — интервал проверки зависимостей (по умолчанию 15s)
	cfg.DephealthCheckInterval, err = getEnvDuration("SD_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("SD_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}
	if cfg.DephealthCheckInterval <= 0 {
		return nil, fmt.Errorf("SD_DEPHEALTH_CHECK_INTERVAL: значение должно быть положительным")
	}

	// --- Graceful shutdown ---

	// SD_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("SD_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("SD_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// loadDatabase загружает параметры PostgreSQL (обязательны при SD_STORE=postgres).
func loadDatabase(cfg *Config) error {
	var err error

	if cfg.DBHost, err = getEnvRequired("SD_DB_HOST"); err != nil {
		return err
	}

	cfg.DBPort, err = getEnvInt("SD_DB_PORT", 5432)
	if err != nil {
		return fmt.Errorf("SD_DB_PORT: %w", err)
	}

	if cfg.DBName, err = getEnvRequired("SD_DB_NAME"); err != nil {
		return err
	}
	if cfg.DBUser, err = getEnvRequired("SD_DB_USER"); err != nil {
		return err
	}
	if cfg.DBPassword, err = getEnvRequired("SD_DB_PASSWORD"); err != nil {
		return err
	}

	cfg.DBSSLMode = getEnvDefault("SD_DB_SSL_MODE", "disable")
	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[cfg.DBSSLMode] {
		return fmt.Errorf("SD_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}
	return nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// DatabaseURL возвращает URL PostgreSQL без учётных данных
// (метки метрик зависимостей).
func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(c.DBHost, strconv.Itoa(c.DBPort)),
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

// getEnvBool возвращает логическое значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное логическое значение: %q (используйте true/false)", val)
	}
	return b, nil
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

// validateSheetName проверяет имя листа по правилам Excel.
func validateSheetName(name string) error {
	n := len([]rune(name))
	if n == 0 || n > 31 {
		return fmt.Errorf("длина имени листа %d вне диапазона 1-31", n)
	}
	if strings.ContainsAny(name, `:\/?*[]`) {
		return fmt.Errorf("имя листа %q содержит недопустимые символы", name)
	}
	return nil
}
