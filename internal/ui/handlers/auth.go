// auth.go — вход по email и паролю через бэкенд и выход.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bigkaa/tienda-admin/internal/backend"
	"github.com/bigkaa/tienda-admin/internal/domain/model"
	"github.com/bigkaa/tienda-admin/internal/ui/i18n"
	"github.com/bigkaa/tienda-admin/internal/ui/pages"
	"github.com/bigkaa/tienda-admin/internal/ui/session"
)

// maxBackendMessage — длиннее этого текст ответа бэкенда пользователю не показывается.
const maxBackendMessage = 200

// LoginClient — операции Auth Client, нужные для входа.
type LoginClient interface {
	Login(ctx context.Context, email, password string) (backend.Credentials, error)
	Me(ctx context.Context, cred backend.Credentials) (model.Session, error)
}

// CredentialSaver сохраняет учётные данные бэкенда в cookie браузера.
type CredentialSaver interface {
	Save(w http.ResponseWriter, cred backend.Credentials) error
}

// AuthHandler — обработчики входа и выхода.
type AuthHandler struct {
	client   LoginClient
	store    CredentialSaver
	renderer *pages.Renderer
	bundle   *i18n.Bundle
	logger   *slog.Logger
}

// NewAuthHandler создаёт AuthHandler.
func NewAuthHandler(client LoginClient, store CredentialSaver, renderer *pages.Renderer, bundle *i18n.Bundle, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		client:   client,
		store:    store,
		renderer: renderer,
		bundle:   bundle,
		logger:   logger.With(slog.String("component", "ui_auth")),
	}
}

// HandleLoginPage — GET /login. Форма показывается и вошедшему пользователю.
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if gate := session.FromContext(r.Context()); gate != nil {
		gate.Refresh(r.Context())
	}
	h.renderLogin(w, r, http.StatusOK, "", nil)
}

// HandleLogin — POST /login.
// Пустые поля: бэкенд не вызывается. После Login вызывается Me: если бэкенд
// не признал только что выданную cookie, пользователь получает предупреждение.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, http.StatusBadRequest, "", &pages.Alert{Kind: "danger", Key: "errors.bad_request"})
		return
	}
	email := strings.TrimSpace(r.PostForm.Get("email"))
	password := r.PostForm.Get("password")

	if email == "" || strings.TrimSpace(password) == "" {
		h.renderLogin(w, r, http.StatusUnprocessableEntity, email, &pages.Alert{Kind: "warning", Key: "login.required"})
		return
	}

	ctx := r.Context()
	cred, err := h.client.Login(ctx, email, password)
	if err != nil {
		h.logger.Warn("Вход отклонён",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		status := http.StatusBadGateway
		if errors.Is(err, backend.ErrUnauthenticated) {
			status = http.StatusUnauthorized
		}
		alert := &pages.Alert{Kind: "danger", Key: "login.failed"}
		if msg := backendMessage(err); msg != "" {
			alert.Text = msg
		}
		h.renderLogin(w, r, status, email, alert)
		return
	}

	sess, err := h.client.Me(ctx, cred)
	if err != nil {
		h.logger.Error("Проверка сессии после входа не удалась", slog.String("error", err.Error()))
		h.renderLogin(w, r, http.StatusBadGateway, email, &pages.Alert{Kind: "danger", Key: "login.failed"})
		return
	}
	if !sess.Authenticated {
		h.logger.Warn("Бэкенд не принял cookie сессии после входа",
			slog.String("email", email),
			slog.Int("cookies", len(cred)),
		)
		h.renderLogin(w, r, http.StatusOK, email, &pages.Alert{Kind: "warning", Key: "login.cookie_blocked"})
		return
	}

	if err := h.store.Save(w, cred); err != nil {
		h.logger.Error("Ошибка сохранения cookie сессии", slog.String("error", err.Error()))
		h.renderLogin(w, r, http.StatusInternalServerError, email, &pages.Alert{Kind: "danger", Key: "login.failed"})
		return
	}

	h.logger.Info("Пользователь вошёл",
		slog.String("email", email),
		slog.String("role", sess.Role().String()),
	)
	session.RedirectReplace(w, r, "/")
}

// HandleLogout — POST /logout.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	gate := session.FromContext(r.Context())
	if gate == nil {
		session.RedirectReplace(w, r, session.LoginPath)
		return
	}
	gate.Logout(r.Context(), w, r)
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, email string, alert *pages.Alert) {
	data := pages.LoginData{
		Base:  base(r, "login.title", session.LoginPath),
		Email: email,
		Alert: alert,
	}
	renderHTML(w, r, status, h.renderer.Login(data), h.bundle, h.logger)
}

// backendMessage достаёт текст ошибки из ответа бэкенда: поле message/mensaje/error
// JSON-объекта или короткий текст как есть.
func backendMessage(err error) string {
	var se *backend.StatusError
	if !errors.As(err, &se) || se.Body == "" {
		return ""
	}

	var obj map[string]any
	if json.Unmarshal([]byte(se.Body), &obj) == nil {
		for _, k := range []string{"message", "mensaje", "error"} {
			if s, ok := obj[k].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
		return ""
	}

	if strings.HasPrefix(se.Body, "<") || len(se.Body) > maxBackendMessage {
		return ""
	}
	return se.Body
}
