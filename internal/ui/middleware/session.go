// Пакет middleware — HTTP middleware страниц tienda-admin.
// session.go — создание Session Gate на каждый запрос.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/bigkaa/tienda-admin/internal/backend"
	"github.com/bigkaa/tienda-admin/internal/domain/model"
	"github.com/bigkaa/tienda-admin/internal/ui/session"
)

// CredentialLoader читает и очищает cookie с учётными данными бэкенда.
type CredentialLoader interface {
	Load(r *http.Request) (backend.Credentials, error)
	Clear(w http.ResponseWriter)
}

// SessionGate — middleware, который кладёт в context свежий session.Gate.
// Проверка сессии не выполняется: страница сама решает, когда звать Require.
type SessionGate struct {
	auth   session.Authenticator
	store  CredentialLoader
	logger *slog.Logger
}

// NewSessionGate создаёт middleware.
func NewSessionGate(auth session.Authenticator, store CredentialLoader, logger *slog.Logger) *SessionGate {
	return &SessionGate{
		auth:   auth,
		store:  store,
		logger: logger.With(slog.String("component", "ui_session_gate")),
	}
}

// Middleware возвращает HTTP middleware.
func (sg *SessionGate) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cred, err := sg.store.Load(r)
			if err != nil {
				// Повреждённая или чужая cookie — удаляем и продолжаем анонимом
				sg.logger.Debug("Ошибка чтения cookie учётных данных",
					slog.String("error", err.Error()),
					slog.String("remote_addr", r.RemoteAddr),
				)
				sg.store.Clear(w)
				cred = nil
			}

			gate := session.New(sg.auth, cred, sg.store, sg.logger)
			gate.Subscribe(func(s model.Session) {
				sg.logger.Debug("Состояние сессии",
					slog.String("path", r.URL.Path),
					slog.Bool("authenticated", s.Authenticated),
					slog.String("role", s.Role().String()),
				)
			})

			next.ServeHTTP(w, r.WithContext(session.WithGate(r.Context(), gate)))
		})
	}
}
