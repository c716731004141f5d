// Пакет i18n — интернационализация интерфейса и выгрузок СтройДок.
// Предоставляет T(ctx, key) и Tf(ctx, key, args...) для строк из контекста
// HTTP-запроса и TLang(lang, key) для мест без контекста (шаблоны, экспорт).
// Поддерживаемые языки: Русский (ru, по умолчанию), English (en).
// Язык определяется middleware: cookie "lang" → Accept-Language → "ru".
package i18n

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// Поддерживаемые языки
var (
	// SupportedLanguages — список поддерживаемых тегов языков.
	SupportedLanguages = []language.Tag{
		language.Russian,
		language.English,
	}

	// matcher — языковой matcher для Accept-Language.
	matcher = language.NewMatcher(SupportedLanguages)
)

// DefaultLang — язык по умолчанию и язык fallback-каталога.
const DefaultLang = "ru"

// contextKey — тип ключа для контекста (избегаем коллизий).
type contextKey string

const (
	// contextKeyLang — текущий язык в контексте запроса.
	contextKeyLang contextKey = "i18n_lang"
)

// Bundle — хранилище переводов для всех языков.
// Загружается один раз при старте приложения.
type Bundle struct {
	mu       sync.RWMutex
	catalogs map[string]map[string]string // lang → key → translation
	logger   *slog.Logger
}

// NewBundle создаёт пустой Bundle.
func NewBundle(logger *slog.Logger) *Bundle {
	return &Bundle{
		catalogs: make(map[string]map[string]string),
		logger:   logger,
	}
}

// LoadMessages загружает JSON-каталог переводов для указанного языка.
// JSON формат: {"key": "translation", ...} (плоский).
func (b *Bundle) LoadMessages(lang string, data []byte) error {
	var messages map[string]string
	if err := json.Unmarshal(data, &messages); err != nil {
		return fmt.Errorf("i18n: ошибка парсинга каталога %s: %w", lang, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.catalogs[lang] = messages

	if b.logger != nil {
		b.logger.Info("i18n каталог загружен",
			slog.String("lang", lang),
			slog.Int("keys", len(messages)),
		)
	}
	return nil
}

// Translate возвращает перевод по ключу для указанного языка.
// Если ключ не найден — возвращает ключ как есть (для отладки).
func (b *Bundle) Translate(lang, key string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	// Ищем в запрошенном языке
	if catalog, ok := b.catalogs[lang]; ok {
		if msg, ok := catalog[key]; ok {
			return msg
		}
	}

	// Fallback на русский
	if lang != DefaultLang {
		if catalog, ok := b.catalogs[DefaultLang]; ok {
			if msg, ok := catalog[key]; ok {
				return msg
			}
		}
	}

	// Ключ не найден ни в одном каталоге
	return key
}

// Translatef возвращает перевод по ключу с подстановкой аргументов (fmt.Sprintf).
// Формат-строка загружается из JSON-каталога во время выполнения,
// поэтому go vet не может проверить соответствие аргументов.
func (b *Bundle) Translatef(lang, key string, args ...any) string {
	template := b.Translate(lang, key)
	if len(args) == 0 {
		return template
	}
	return formatFunc(template, args...)
}

// Translator возвращает функцию перевода для фиксированного языка.
func (b *Bundle) Translator(lang string) func(key string) string {
	return func(key string) string {
		return b.Translate(lang, key)
	}
}

// --- Глобальный Bundle (singleton) ---

var (
	globalBundle *Bundle
	globalOnce   sync.Once
)

// Init инициализирует глобальный Bundle. Вызывается один раз при старте.
func Init(logger *slog.Logger) *Bundle {
	globalOnce.Do(func() {
		globalBundle = NewBundle(logger)
	})
	return globalBundle
}

// GetBundle возвращает глобальный Bundle (nil если не инициализирован).
func GetBundle() *Bundle {
	return globalBundle
}

// --- Функции для использования в шаблонах и обработчиках ---

// WithLang помещает язык в контекст.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, contextKeyLang, lang)
}

// LangFromContext извлекает язык из контекста. Default: "ru".
func LangFromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(contextKeyLang).(string); ok && lang != "" {
		return lang
	}
	return DefaultLang
}

// T возвращает перевод по ключу, используя язык из контекста.
func T(ctx context.Context, key string) string {
	return TLang(LangFromContext(ctx), key)
}

// TLang возвращает перевод по ключу для явно заданного языка.
// Используется в шаблонах страниц: {{t .Lang "key"}}.
func TLang(lang, key string) string {
	if globalBundle == nil {
		return key
	}
	return globalBundle.Translate(lang, key)
}

// TfLang — TLang с подстановкой аргументов.
func TfLang(lang, key string, args ...any) string {
	template := TLang(lang, key)
	if len(args) == 0 {
		return template
	}
	return formatFunc(template, args...)
}

// Tf возвращает перевод по ключу с аргументами (fmt.Sprintf).
// Формат-строка загружается из JSON-каталога, поэтому используется
// обёртка formatFunc.
func Tf(ctx context.Context, key string, args ...any) string {
	if globalBundle == nil {
		if len(args) == 0 {
			return key
		}
		return formatFunc(key, args...)
	}
	return globalBundle.Translatef(LangFromContext(ctx), key, args...)
}

// formatFunc — fmt.Sprintf через переменную: формат-строки приходят из каталогов.
//
//nolint:govet // обход go vet printf-анализатора
var formatFunc = fmt.Sprintf

// MatchLanguage определяет лучший язык из Accept-Language заголовка.
// Возвращает "ru" или "en".
func MatchLanguage(acceptLanguage string) string {
	tag, _ := language.MatchStrings(matcher, acceptLanguage)
	base, _ := tag.Base()

	switch {
	case strings.HasPrefix(base.String(), "en"):
		return "en"
	default:
		return DefaultLang
	}
}

// IsSupported сообщает, есть ли каталог для языка.
func IsSupported(lang string) bool {
	return lang == "ru" || lang == "en"
}
