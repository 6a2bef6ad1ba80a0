// Пакет handlers — HTTP-обработчики страниц tienda-admin: вход и выход,
// главная, смена языка и схемы сущностей для controller.Resource.
package handlers

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/bigkaa/tienda-admin/internal/ui/i18n"
	"github.com/bigkaa/tienda-admin/internal/ui/pages"
	"github.com/bigkaa/tienda-admin/internal/ui/session"
)

// renderHTML рендерит компонент в буфер и отдаёт его со статусом status.
func renderHTML(w http.ResponseWriter, r *http.Request, status int, comp templ.Component, bundle *i18n.Bundle, logger *slog.Logger) {
	var buf bytes.Buffer
	if err := comp.Render(r.Context(), &buf); err != nil {
		logger.Error("Ошибка рендеринга страницы",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		http.Error(w, bundle.T(i18n.LangFromContext(r.Context()), "errors.render"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// base собирает общие данные layout. Без Gate в context меню строится
// как для анонимного посетителя.
func base(r *http.Request, title, path string) pages.Base {
	b := pages.Base{Title: title, Path: path}
	if gate := session.FromContext(r.Context()); gate != nil {
		b.Chrome = gate.Chrome()
	} else {
		b.Chrome = session.Chrome{ShowLogin: true}
	}
	return b
}
