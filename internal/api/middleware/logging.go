// logging.go — middleware логирования входящих HTTP-запросов через slog.
// Построен на chi RequestLogger: запись запроса лежит в context, и chi
// Recoverer пишет панику в тот же slog-лог через LogEntry.Panic.
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger возвращает middleware, логирующий каждый HTTP-запрос:
// метод, путь, статус, длительность, размер ответа, remote_addr, request_id.
// Уровень логирования зависит от статус-кода: INFO (1xx-3xx), WARN (4xx), ERROR (5xx).
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return chimw.RequestLogger(&slogFormatter{logger: logger})
}

// slogFormatter создаёт запись лога на запрос.
type slogFormatter struct {
	logger *slog.Logger
}

func (f *slogFormatter) NewLogEntry(r *http.Request) chimw.LogEntry {
	return &slogEntry{
		ctx: r.Context(),
		logger: f.logger.With(
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("request_id", RequestIDFromContext(r.Context())),
		),
	}
}

type slogEntry struct {
	ctx    context.Context
	logger *slog.Logger
}

func (e *slogEntry) Write(status, bytes int, _ http.Header, elapsed time.Duration, _ any) {
	if status == 0 {
		// Обработчик ничего не записал: net/http ответит 200
		status = http.StatusOK
	}
	level := slog.LevelInfo
	if status >= 500 {
		level = slog.LevelError
	} else if status >= 400 {
		level = slog.LevelWarn
	}
	e.logger.LogAttrs(e.ctx, level, "HTTP запрос",
		slog.Int("status", status),
		slog.Duration("duration", elapsed),
		slog.Int("bytes", bytes),
	)
}

// Panic вызывается chi Recoverer.
func (e *slogEntry) Panic(v any, stack []byte) {
	e.logger.LogAttrs(e.ctx, slog.LevelError, "Паника в обработчике",
		slog.String("panic", fmt.Sprint(v)),
		slog.String("stack", string(stack)),
	)
}
