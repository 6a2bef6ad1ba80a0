// Пакет i18n — интернационализация страниц tienda-admin.
// Поддерживаемые языки: Español (es, по умолчанию), English (en).
// Язык определяется middleware: cookie "lang" → Accept-Language → язык по умолчанию.
package i18n

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/text/language"
)

// Поддерживаемые языки
const (
	LangES = "es"
	LangEN = "en"
)

var (
	// SupportedLanguages — теги в порядке предпочтения; первый — запасной для matcher.
	SupportedLanguages = []language.Tag{
		language.Spanish,
		language.English,
	}

	matcher = language.NewMatcher(SupportedLanguages)
)

// IsSupported проверяет код языка.
func IsSupported(lang string) bool {
	return lang == LangES || lang == LangEN
}

type contextKey string

const (
	contextKeyLang   contextKey = "i18n_lang"
	contextKeyBundle contextKey = "i18n_bundle"
)

// Bundle — хранилище переводов для всех языков.
// Загружается один раз при старте приложения.
type Bundle struct {
	mu       sync.RWMutex
	catalogs map[string]map[string]string // lang → key → translation
	fallback string
	logger   *slog.Logger
}

// NewBundle создаёт пустой Bundle. fallback — язык, в котором ищется
// отсутствующий ключ.
func NewBundle(fallback string, logger *slog.Logger) *Bundle {
	if !IsSupported(fallback) {
		fallback = LangES
	}
	return &Bundle{
		catalogs: make(map[string]map[string]string),
		fallback: fallback,
		logger:   logger,
	}
}

// Fallback возвращает язык по умолчанию.
func (b *Bundle) Fallback() string {
	return b.fallback
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
		b.logger.Debug("i18n каталог загружен",
			slog.String("lang", lang),
			slog.Int("keys", len(messages)),
		)
	}
	return nil
}

// T возвращает перевод по ключу.
// Порядок поиска: lang → язык по умолчанию → сам ключ.
func (b *Bundle) T(lang, key string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if msg, ok := b.catalogs[lang][key]; ok {
		return msg
	}
	if msg, ok := b.catalogs[b.fallback][key]; ok {
		return msg
	}
	return key
}

// Tf возвращает перевод с подстановкой аргументов.
func (b *Bundle) Tf(lang, key string, args ...any) string {
	tmpl := b.T(lang, key)
	if len(args) == 0 {
		return tmpl
	}
	return formatFunc(tmpl, args...)
}

// formatFunc — fmt.Sprintf через переменную: формат-строки приходят из JSON-каталогов.
var formatFunc = fmt.Sprintf

// WithLang помещает язык в контекст.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, contextKeyLang, lang)
}

// LangFromContext извлекает язык из контекста. По умолчанию "es".
func LangFromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(contextKeyLang).(string); ok && lang != "" {
		return lang
	}
	return LangES
}

// --- Функции для использования в templ ---

// WithBundle помещает каталог переводов в контекст рендеринга.
func WithBundle(ctx context.Context, b *Bundle) context.Context {
	return context.WithValue(ctx, contextKeyBundle, b)
}

// T возвращает перевод по ключу на языке из контекста.
// Используется в .templ файлах: { i18n.T(ctx, "key") }
func T(ctx context.Context, key string) string {
	b, _ := ctx.Value(contextKeyBundle).(*Bundle)
	if b == nil {
		return key
	}
	return b.T(LangFromContext(ctx), key)
}

// Tf возвращает перевод с подстановкой аргументов: { i18n.Tf(ctx, "key", arg) }
func Tf(ctx context.Context, key string, args ...any) string {
	b, _ := ctx.Value(contextKeyBundle).(*Bundle)
	if b == nil {
		if len(args) == 0 {
			return key
		}
		return formatFunc(key, args...)
	}
	return b.Tf(LangFromContext(ctx), key, args...)
}

// MatchLanguage определяет лучший язык из заголовка Accept-Language.
func MatchLanguage(acceptLanguage string) string {
	tag, _ := language.MatchStrings(matcher, acceptLanguage)
	base, _ := tag.Base()
	if base.String() == LangEN {
		return LangEN
	}
	return LangES
}
