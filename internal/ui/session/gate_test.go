package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"

	"github.com/bigkaa/tienda-admin/internal/backend"
	"github.com/bigkaa/tienda-admin/internal/domain/model"
	"github.com/bigkaa/tienda-admin/internal/domain/rbac"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeAuth — управляемый Auth Client.
type fakeAuth struct {
	mu        sync.Mutex
	me        func(ctx context.Context) (model.Session, error)
	logoutErr error
	meCalls   int
	logouts   int
}

func (f *fakeAuth) Me(ctx context.Context, _ backend.Credentials) (model.Session, error) {
	f.mu.Lock()
	f.meCalls++
	me := f.me
	f.mu.Unlock()
	return me(ctx)
}

func (f *fakeAuth) Logout(context.Context, backend.Credentials) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logouts++
	return f.logoutErr
}

// fakeClearer считает удаления cookie.
type fakeClearer struct{ cleared int }

func (c *fakeClearer) Clear(http.ResponseWriter) { c.cleared++ }

var testCred = backend.Credentials{{Name: "JSESSIONID", Value: "abc"}}

func admin() model.Session {
	return model.Session{Authenticated: true, User: &model.User{Name: "Ana", Role: rbac.RoleAdministrator}}
}

func stocker() model.Session {
	return model.Session{Authenticated: true, User: &model.User{Email: "bob@tienda.sv", Role: rbac.RoleStocker}}
}

func fixed(s model.Session, err error) func(context.Context) (model.Session, error) {
	return func(context.Context) (model.Session, error) { return s, err }
}

func newGate(auth *fakeAuth, cred backend.Credentials) (*Gate, *fakeClearer) {
	c := &fakeClearer{}
	return New(auth, cred, c, testLogger()), c
}

func TestRefresh(t *testing.T) {
	tests := []struct {
		name      string
		me        func(context.Context) (model.Session, error)
		cred      backend.Credentials
		wantState State
		wantCalls int
	}{
		{name: "аутентифицирован", me: fixed(admin(), nil), cred: testCred, wantState: StateAuthenticated, wantCalls: 1},
		{name: "аноним", me: fixed(model.Anonymous(), nil), cred: testCred, wantState: StateAnonymous, wantCalls: 1},
		{name: "ошибка бэкенда — аноним", me: fixed(admin(), errors.New("boom")), cred: testCred, wantState: StateAnonymous, wantCalls: 1},
		{name: "без cookie бэкенд не вызывается", me: fixed(admin(), nil), wantState: StateAnonymous, wantCalls: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &fakeAuth{me: tt.me}
			g, _ := newGate(auth, tt.cred)
			if g.State() != StateUnknown {
				t.Fatalf("начальное состояние = %v", g.State())
			}

			g.Refresh(context.Background())

			if g.State() != tt.wantState {
				t.Errorf("State = %v, хотели %v", g.State(), tt.wantState)
			}
			if auth.meCalls != tt.wantCalls {
				t.Errorf("вызовов Me = %d, хотели %d", auth.meCalls, tt.wantCalls)
			}
			s := g.Session()
			if !s.Authenticated && s.User != nil {
				t.Error("у анонима не должно быть пользователя")
			}
		})
	}
}

// TestRefresh_LastCompletedWins — медленный первый вызов завершается последним
// и определяет итоговое состояние.
func TestRefresh_LastCompletedWins(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var n int
	var mu sync.Mutex

	auth := &fakeAuth{me: func(context.Context) (model.Session, error) {
		mu.Lock()
		n++
		call := n
		mu.Unlock()
		if call == 1 {
			close(entered)
			<-release
			return admin(), nil
		}
		return model.Anonymous(), nil
	}}
	g, _ := newGate(auth, testCred)

	done := make(chan struct{})
	go func() {
		g.Refresh(context.Background())
		close(done)
	}()
	<-entered

	g.Refresh(context.Background())
	if g.State() != StateAnonymous {
		t.Fatalf("после второго вызова State = %v, хотели anonymous", g.State())
	}

	close(release)
	<-done
	if g.State() != StateAuthenticated {
		t.Errorf("после завершения первого вызова State = %v, хотели authenticated", g.State())
	}
}

func TestRequire(t *testing.T) {
	tests := []struct {
		name         string
		session      model.Session
		redirect     bool
		hx           bool
		want         bool
		wantRedirect bool
	}{
		{name: "аноним с редиректом", session: model.Anonymous(), redirect: true, want: false, wantRedirect: true},
		{name: "аноним без редиректа", session: model.Anonymous(), redirect: false, want: false},
		{name: "пользователь с редиректом", session: stocker(), redirect: true, want: true},
		{name: "пользователь без редиректа", session: stocker(), redirect: false, want: true},
		{name: "HTMX-запрос анонима", session: model.Anonymous(), redirect: true, hx: true, want: false, wantRedirect: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newGate(&fakeAuth{me: fixed(tt.session, nil)}, testCred)
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/products", nil)
			if tt.hx {
				req.Header.Set("HX-Request", "true")
			}

			got := g.Require(rec, req, tt.redirect)
			if got != tt.want {
				t.Errorf("Require = %v, хотели %v", got, tt.want)
			}

			redirected := rec.Header().Get("Location") == LoginPath || rec.Header().Get("HX-Redirect") == LoginPath
			if redirected != tt.wantRedirect {
				t.Errorf("редирект = %v, хотели %v (code %d)", redirected, tt.wantRedirect, rec.Code)
			}
			if !tt.wantRedirect {
				if len(rec.Header()) != 0 || rec.Body.Len() != 0 {
					t.Error("без редиректа ответ не должен меняться")
				}
				return
			}
			if rec.Header().Get("Cache-Control") != "no-store" {
				t.Error("редирект без Cache-Control: no-store")
			}
			if !tt.hx && rec.Code != http.StatusSeeOther {
				t.Errorf("code = %d, хотели 303", rec.Code)
			}
		})
	}
}

func TestChrome(t *testing.T) {
	t.Run("аноним", func(t *testing.T) {
		g, _ := newGate(&fakeAuth{me: fixed(model.Anonymous(), nil)}, testCred)
		g.Refresh(context.Background())
		c := g.Chrome()
		if !c.ShowLogin || c.ShowLogout || c.Greeting != "" || len(c.Menu) != 0 || c.CanMutate {
			t.Errorf("Chrome = %+v", c)
		}
	})

	t.Run("администратор, повторные вызовы идемпотентны", func(t *testing.T) {
		g, _ := newGate(&fakeAuth{me: fixed(admin(), nil)}, testCred)
		g.Refresh(context.Background())
		first := g.Chrome()
		for i := 0; i < 3; i++ {
			if again := g.Chrome(); !reflect.DeepEqual(first, again) {
				t.Fatalf("вызов %d: %+v != %+v", i, again, first)
			}
		}
		if first.ShowLogin || !first.ShowLogout || first.Greeting != "Ana" || !first.CanMutate {
			t.Errorf("Chrome = %+v", first)
		}
		if len(first.Menu) != 2 {
			t.Errorf("пунктов меню %d, хотели 2", len(first.Menu))
		}
	})

	t.Run("приветствие по email", func(t *testing.T) {
		g, _ := newGate(&fakeAuth{me: fixed(stocker(), nil)}, testCred)
		g.Refresh(context.Background())
		if c := g.Chrome(); c.Greeting != "bob@tienda.sv" || c.CanMutate {
			t.Errorf("Chrome = %+v", c)
		}
	})
}

func TestIsRole(t *testing.T) {
	auth := &fakeAuth{me: fixed(stocker(), nil)}
	g, _ := newGate(auth, testCred)
	g.Refresh(context.Background())

	if !g.IsRole(rbac.RoleStocker) || g.IsRole(rbac.RoleAdministrator) {
		t.Error("IsRole не соответствует роли")
	}
	if g.CanMutate() {
		t.Error("складской работник не должен изменять данные")
	}
	if auth.meCalls != 1 {
		t.Errorf("IsRole не должен вызывать бэкенд: вызовов %d", auth.meCalls)
	}
}

func TestLogout(t *testing.T) {
	for _, logoutErr := range []error{nil, errors.New("сеть недоступна")} {
		name := "успех"
		if logoutErr != nil {
			name = "ошибка бэкенда"
		}
		t.Run(name, func(t *testing.T) {
			auth := &fakeAuth{me: fixed(admin(), nil), logoutErr: logoutErr}
			g, clearer := newGate(auth, testCred)
			g.Refresh(context.Background())

			var notified []model.Session
			g.Subscribe(func(s model.Session) { notified = append(notified, s) })

			rec := httptest.NewRecorder()
			g.Logout(context.Background(), rec, httptest.NewRequest(http.MethodPost, "/logout", nil))

			if auth.logouts != 1 {
				t.Errorf("вызовов Logout = %d", auth.logouts)
			}
			if g.State() != StateAnonymous || g.Session().User != nil {
				t.Errorf("после выхода State = %v", g.State())
			}
			if clearer.cleared != 1 {
				t.Error("cookie не удалена")
			}
			if !g.Credentials().Empty() {
				t.Error("учётные данные не очищены")
			}
			if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != LoginPath {
				t.Errorf("редирект: %d %q", rec.Code, rec.Header().Get("Location"))
			}
			if len(notified) != 1 || notified[0].Authenticated {
				t.Errorf("подписчик получил %+v", notified)
			}
		})
	}
}

func TestSubscribe(t *testing.T) {
	g, _ := newGate(&fakeAuth{me: fixed(admin(), nil)}, testCred)
	var got []bool
	g.Subscribe(func(s model.Session) { got = append(got, s.Authenticated) })

	g.Refresh(context.Background())
	g.Refresh(context.Background())

	if !reflect.DeepEqual(got, []bool{true, true}) {
		t.Errorf("уведомления = %v", got)
	}
}

func TestSubscribe_NotifiesOutsideLock(t *testing.T) {
	g, _ := newGate(&fakeAuth{me: fixed(admin(), nil)}, testCred)
	var seen []bool
	late := 0
	g.Subscribe(func(s model.Session) {
		// Подписчик читает Gate и подписывает ещё одного: под блокировкой это был бы deadlock
		seen = append(seen, g.Session().Authenticated)
		g.Subscribe(func(model.Session) { late++ })
	})

	g.Refresh(context.Background())

	if !reflect.DeepEqual(seen, []bool{true}) {
		t.Errorf("подписчик видел %v", seen)
	}
	if late != 0 {
		t.Errorf("подписка во время уведомления сработала %d раз, ожидается 0", late)
	}
}

func TestContext(t *testing.T) {
	if FromContext(context.Background()) != nil {
		t.Error("пустой context должен давать nil")
	}
	g, _ := newGate(&fakeAuth{me: fixed(admin(), nil)}, nil)
	if FromContext(WithGate(context.Background(), g)) != g {
		t.Error("Gate не найден в context")
	}
}
