// Пакет session — Session Gate: состояние аутентификации одной загрузки страницы.
//
// Gate создаётся middleware на каждый входящий запрос и кладётся в context.
// Состояние не хранится между запросами: Refresh всегда спрашивает бэкенд
// (/api/auth/me). Любая ошибка (транспорт, статус вне 2xx, неожиданный ответ)
// превращается в анонима. Gate — удобство интерфейса; авторизацию выполняет бэкенд.
package session

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"sync"

	"github.com/bigkaa/tienda-admin/internal/backend"
	"github.com/bigkaa/tienda-admin/internal/domain/model"
	"github.com/bigkaa/tienda-admin/internal/domain/rbac"
)

// LoginPath — страница входа, куда ведут редиректы Gate.
const LoginPath = "/login"

// State — состояние Gate в рамках одной загрузки страницы.
type State int

const (
	// StateUnknown — Refresh ещё не выполнялся.
	StateUnknown State = iota
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Authenticator — вызовы Auth Client, нужные Gate.
type Authenticator interface {
	Me(ctx context.Context, cred backend.Credentials) (model.Session, error)
	Logout(ctx context.Context, cred backend.Credentials) error
}

// CookieClearer удаляет cookie с учётными данными.
type CookieClearer interface {
	Clear(w http.ResponseWriter)
}

// Gate — Session Gate одного запроса.
type Gate struct {
	auth   Authenticator
	clear  CookieClearer
	logger *slog.Logger

	mu          sync.Mutex
	cred        backend.Credentials
	state       State
	session     model.Session
	subscribers []func(model.Session)
}

// New создаёт Gate для запроса с учётными данными cred.
func New(auth Authenticator, cred backend.Credentials, clear CookieClearer, logger *slog.Logger) *Gate {
	return &Gate{
		auth:    auth,
		cred:    cred,
		clear:   clear,
		logger:  logger,
		session: model.Anonymous(),
	}
}

// Refresh запрашивает текущего пользователя у бэкенда и фиксирует результат.
// Никогда не возвращает ошибку. При параллельных вызовах побеждает
// последний завершившийся.
func (g *Gate) Refresh(ctx context.Context) {
	next, result := g.resolve(ctx)
	sessionChecksTotal.WithLabelValues(result).Inc()
	g.commit(next)
}

// resolve опрашивает бэкенд и сводит ответ к сессии и исходу для метрики.
func (g *Gate) resolve(ctx context.Context) (model.Session, string) {
	cred := g.Credentials()
	// Без cookie бэкенд всё равно ответит анонимом
	if cred.Empty() {
		return model.Anonymous(), resultAnonymous
	}

	sess, err := g.auth.Me(ctx, cred)
	if err != nil {
		g.logger.Debug("Проверка сессии не удалась, считаем анонимом",
			slog.String("error", err.Error()),
		)
		return model.Anonymous(), resultError
	}
	if !sess.Authenticated {
		return model.Anonymous(), resultAnonymous
	}
	if sess.User == nil {
		sess.User = &model.User{}
	}
	return sess, resultAuthenticated
}

// commit атомарно заменяет состояние и уведомляет подписчиков.
func (g *Gate) commit(s model.Session) {
	g.mu.Lock()
	g.session = s
	if s.Authenticated {
		g.state = StateAuthenticated
	} else {
		g.state = StateAnonymous
	}
	subs := slices.Clone(g.subscribers)
	g.mu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
}

// Session возвращает последнее зафиксированное состояние.
func (g *Gate) Session() model.Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session
}

// State возвращает текущее состояние автомата.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Credentials возвращает учётные данные запроса для вызовов Resource Client.
func (g *Gate) Credentials() backend.Credentials {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cred
}

// Subscribe регистрирует fn, который вызывается после каждой фиксации состояния.
func (g *Gate) Subscribe(fn func(model.Session)) {
	g.mu.Lock()
	g.subscribers = append(g.subscribers, fn)
	g.mu.Unlock()
}

// Require выполняет Refresh; если пользователь аноним и redirect=true,
// отправляет браузер на страницу входа с заменой истории. Возвращает
// признак аутентификации. При redirect=false ответ не трогается.
func (g *Gate) Require(w http.ResponseWriter, r *http.Request, redirect bool) bool {
	g.Refresh(r.Context())
	ok := g.Session().Authenticated
	if !ok && redirect {
		RedirectReplace(w, r, LoginPath)
	}
	return ok
}

// IsRole проверяет роль последнего известного пользователя. Сети не касается.
func (g *Gate) IsRole(role rbac.Role) bool {
	return g.Session().Role() == role
}

// CanMutate сообщает, показывать ли создание, изменение и удаление.
func (g *Gate) CanMutate() bool {
	return rbac.CanMutate(g.Session().Role())
}

// Logout завершает сессию на бэкенде, очищает состояние и cookie
// независимо от исхода вызова и отправляет браузер на страницу входа.
func (g *Gate) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if cred := g.Credentials(); !cred.Empty() {
		if err := g.auth.Logout(ctx, cred); err != nil {
			g.logger.Warn("Выход на бэкенде не удался, сессия очищена локально",
				slog.String("error", err.Error()),
			)
		}
	}
	g.mu.Lock()
	g.cred = nil
	g.mu.Unlock()
	g.clear.Clear(w)
	g.commit(model.Anonymous())
	RedirectReplace(w, r, LoginPath)
}

// RedirectReplace отправляет браузер на target так, чтобы текущая страница
// не осталась в истории: 303 + no-store. Для HTMX-запросов — HX-Redirect.
func RedirectReplace(w http.ResponseWriter, r *http.Request, target string) {
	w.Header().Set("Cache-Control", "no-store")
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

type ctxKey struct{}

// WithGate кладёт Gate в context.
func WithGate(ctx context.Context, g *Gate) context.Context {
	return context.WithValue(ctx, ctxKey{}, g)
}

// FromContext достаёт Gate из context. nil, если middleware не подключён.
func FromContext(ctx context.Context) *Gate {
	g, _ := ctx.Value(ctxKey{}).(*Gate)
	return g
}
