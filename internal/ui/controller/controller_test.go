package controller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/bigkaa/tienda-admin/internal/backend"
	"github.com/bigkaa/tienda-admin/internal/domain/model"
	"github.com/bigkaa/tienda-admin/internal/domain/rbac"
	"github.com/bigkaa/tienda-admin/internal/ui/i18n"
	"github.com/bigkaa/tienda-admin/internal/ui/pages"
	"github.com/bigkaa/tienda-admin/internal/ui/session"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeAuth отвечает заданной сессией.
type fakeAuth struct{ sess model.Session }

func (f fakeAuth) Me(context.Context, backend.Credentials) (model.Session, error) { return f.sess, nil }
func (f fakeAuth) Logout(context.Context, backend.Credentials) error              { return nil }

type noopClearer struct{}

func (noopClearer) Clear(http.ResponseWriter) {}

// fakeStore записывает вызовы Resource Client.
type fakeStore struct {
	mu        sync.Mutex
	items     []model.Category
	total     int
	listErr   error
	saveErr   error
	deleteErr error

	lists   []ViewState
	creates []model.CategoryInput
	updates map[int64]model.CategoryInput
	deletes []int64
}

func (s *fakeStore) List(_ context.Context, _ backend.Credentials, vs ViewState) (model.Page[model.Category], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists = append(s.lists, vs)
	if s.listErr != nil {
		return model.Page[model.Category]{}, s.listErr
	}
	return model.NewPage(s.items, vs.Page, vs.Size, 0, s.total), nil
}

func (s *fakeStore) Create(_ context.Context, _ backend.Credentials, in model.CategoryInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates = append(s.creates, in)
	return s.saveErr
}

func (s *fakeStore) Update(_ context.Context, _ backend.Credentials, id int64, in model.CategoryInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updates == nil {
		s.updates = map[int64]model.CategoryInput{}
	}
	s.updates[id] = in
	return s.saveErr
}

func (s *fakeStore) Delete(_ context.Context, _ backend.Credentials, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, id)
	return s.deleteErr
}

func testSchema(store *fakeStore) Schema[model.Category, model.CategoryInput] {
	return Schema[model.Category, model.CategoryInput]{
		Entity:    "categories",
		Base:      "/categories",
		Paginated: true,
		Store:     store,
		Columns: []Column[model.Category]{
			{HeaderKey: "categories.col.id", Cell: func(c model.Category) pages.Cell { return pages.Cell{Text: c.Key()} }},
			{HeaderKey: "categories.col.name", Cell: func(c model.Category) pages.Cell { return pages.Cell{Text: c.Name} }},
		},
		Values: func(c model.Category) url.Values {
			return url.Values{"name": {c.Name}, "description": {c.Description}}
		},
		Decode: func(v url.Values) (model.CategoryInput, FieldErrors) {
			return model.CategoryInput{Name: v.Get("name"), Description: v.Get("description")}, nil
		},
		Fields: func(_ context.Context, _ backend.Credentials, v url.Values) ([]pages.Field, error) {
			return []pages.Field{
				{Name: "name", LabelKey: "categories.field.name", Type: "text", Value: v.Get("name"), Required: true},
				{Name: "description", LabelKey: "categories.field.description", Type: "textarea", Value: v.Get("description"), Required: true},
			}, nil
		},
	}
}

type testEnv struct {
	router http.Handler
	store  *fakeStore
	bundle *i18n.Bundle
}

// newEnv собирает Resource и router, который кладёт в context Gate с ролью role.
// RoleNone — анонимный посетитель без cookie.
func newEnv(t *testing.T, role rbac.Role, store *fakeStore, opts ...func(*Schema[model.Category, model.CategoryInput])) testEnv {
	t.Helper()
	logger := testLogger()
	bundle, err := i18n.Load(i18n.LangES, logger)
	if err != nil {
		t.Fatalf("i18n.Load() error = %v", err)
	}
	renderer := pages.New(bundle)
	schema := testSchema(store)
	for _, opt := range opts {
		opt(&schema)
	}
	res := NewResource(schema, Deps{
		Renderer: renderer,
		Bundle:   bundle,
		Paging:   Paging{DefaultSize: 10, Sizes: []int{5, 10, 20}},
		Logger:   logger,
	})

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			var cred backend.Credentials
			auth := fakeAuth{sess: model.Anonymous()}
			if role != rbac.RoleNone {
				cred = backend.Credentials{{Name: "JSESSIONID", Value: "abc"}}
				auth.sess = model.Session{Authenticated: true, User: &model.User{Name: "Ana", Role: role}}
			}
			gate := session.New(auth, cred, noopClearer{}, logger)
			next.ServeHTTP(w, req.WithContext(session.WithGate(req.Context(), gate)))
		})
	})
	res.Routes(r)
	return testEnv{router: r, store: store, bundle: bundle}
}

func (e testEnv) get(path string, htmx bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e testEnv) post(path string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func bebidas() []model.Category {
	return []model.Category{
		{ID: 1, Name: "Bebidas", Description: "Refrescos"},
		{ID: 2, Name: "Snacks", Description: "Botanas"},
	}
}

func TestPagingParse(t *testing.T) {
	p := Paging{DefaultSize: 10, Sizes: []int{5, 10, 20}}
	tests := []struct {
		name  string
		query string
		want  ViewState
	}{
		{name: "пустой запрос", query: "", want: ViewState{Page: 0, Size: 10}},
		{name: "страница и размер", query: "page=2&size=20", want: ViewState{Page: 2, Size: 20}},
		{name: "недопустимый размер", query: "page=1&size=7", want: ViewState{Page: 1, Size: 10}},
		{name: "отрицательная страница", query: "page=-3&size=5", want: ViewState{Page: 0, Size: 5}},
		{name: "смена размера сбрасывает страницу", query: "page=3&size=20&prev_size=10", want: ViewState{Page: 0, Size: 20}},
		{name: "тот же размер сохраняет страницу", query: "page=3&size=20&prev_size=20", want: ViewState{Page: 3, Size: 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			if got := p.Parse(q); got != tt.want {
				t.Errorf("Parse(%q) = %+v, хотели %+v", tt.query, got, tt.want)
			}
		})
	}
}

func TestViewStateURL(t *testing.T) {
	if got := (ViewState{Page: 4, Size: 20}).Reset().URL("/products"); got != "/products?page=0&size=20" {
		t.Errorf("URL() = %q", got)
	}
	if got := (ViewState{}).URL("/categories"); got != "/categories" {
		t.Errorf("URL() без пагинации = %q", got)
	}
}

func TestPager(t *testing.T) {
	tests := []struct {
		name         string
		number       int
		total        int
		wantPages    int
		wantPrevOff  bool
		wantNextOff  bool
		wantActive   int
		wantPrevPage int
		wantNextPage int
	}{
		{name: "первая из трёх", number: 0, total: 3, wantPages: 3, wantPrevOff: true, wantNextOff: false, wantActive: 0, wantPrevPage: 0, wantNextPage: 1},
		{name: "средняя", number: 1, total: 3, wantPages: 3, wantPrevOff: false, wantNextOff: false, wantActive: 1, wantPrevPage: 0, wantNextPage: 2},
		{name: "последняя", number: 2, total: 3, wantPages: 3, wantPrevOff: false, wantNextOff: true, wantActive: 2, wantPrevPage: 1, wantNextPage: 2},
		{name: "ноль страниц — одна", number: 0, total: 0, wantPages: 1, wantPrevOff: true, wantNextOff: true, wantActive: 0},
		{name: "номер за последней страницей", number: 5, total: 1, wantPages: 1, wantPrevOff: true, wantNextOff: true, wantActive: 0},
		{name: "отрицательный номер", number: -2, total: 2, wantPages: 2, wantPrevOff: true, wantNextOff: false, wantActive: 0, wantPrevPage: 0, wantNextPage: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Pager(tt.number, tt.total)
			if len(p.Pages) != tt.wantPages {
				t.Fatalf("len(Pages) = %d, хотели %d", len(p.Pages), tt.wantPages)
			}
			if p.Prev.Disabled != tt.wantPrevOff || p.Next.Disabled != tt.wantNextOff {
				t.Errorf("Prev.Disabled = %v, Next.Disabled = %v", p.Prev.Disabled, p.Next.Disabled)
			}
			if p.Prev.Page != tt.wantPrevPage || p.Next.Page != tt.wantNextPage {
				t.Errorf("Prev.Page = %d, Next.Page = %d", p.Prev.Page, p.Next.Page)
			}
			for i, l := range p.Pages {
				if l.Active != (i == tt.wantActive) {
					t.Errorf("Pages[%d].Active = %v", i, l.Active)
				}
				if l.Label != string(rune('1'+i)) {
					t.Errorf("Pages[%d].Label = %q", i, l.Label)
				}
			}
		})
	}
}

func TestHandleList_Anonymous(t *testing.T) {
	env := newEnv(t, rbac.RoleNone, &fakeStore{items: bebidas()})

	rec := env.get("/categories", false)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, хотели 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != session.LoginPath {
		t.Errorf("Location = %q", loc)
	}
	if len(env.store.lists) != 0 {
		t.Error("список загружен для анонима")
	}
}

func TestHandleList_Administrator(t *testing.T) {
	env := newEnv(t, rbac.RoleAdministrator, &fakeStore{items: bebidas(), total: 25})

	rec := env.get("/categories?page=1&size=10", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, хотели 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{`id="add-button"`, `data-action="edit"`, `data-action="delete"`, `data-id="1"`, "Bebidas", `id="pagination"`} {
		if !strings.Contains(body, want) {
			t.Errorf("в ответе нет %s", want)
		}
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("Cache-Control = %q", cc)
	}
}

func TestHandleList_StockerHasNoControls(t *testing.T) {
	env := newEnv(t, rbac.RoleStocker, &fakeStore{items: bebidas()})

	rec := env.get("/categories", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, хотели 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Bebidas") {
		t.Error("строки не отрисованы")
	}
	for _, unwanted := range []string{`id="add-button"`, `data-action=`} {
		if strings.Contains(body, unwanted) {
			t.Errorf("в ответе есть %s", unwanted)
		}
	}
}

func TestMutationsForbiddenForStocker(t *testing.T) {
	env := newEnv(t, rbac.RoleStocker, &fakeStore{items: bebidas()})

	tests := []struct {
		name string
		do   func() *httptest.ResponseRecorder
	}{
		{name: "новая форма", do: func() *httptest.ResponseRecorder { return env.get("/categories/new", true) }},
		{name: "изменение", do: func() *httptest.ResponseRecorder { return env.get("/categories/1/edit", true) }},
		{name: "сохранение", do: func() *httptest.ResponseRecorder {
			return env.post("/categories/save", url.Values{"name": {"X"}, "description": {"Y"}}, true)
		}},
		{name: "удаление", do: func() *httptest.ResponseRecorder {
			return env.post("/categories/1/delete", url.Values{"confirm": {"yes"}}, true)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := tt.do(); rec.Code != http.StatusForbidden {
				t.Errorf("status = %d, хотели 403", rec.Code)
			}
		})
	}
	if len(env.store.creates)+len(env.store.updates)+len(env.store.deletes) != 0 {
		t.Error("бэкенд вызван без прав")
	}
}

func TestHandleTable(t *testing.T) {
	t.Run("смена размера сбрасывает страницу", func(t *testing.T) {
		env := newEnv(t, rbac.RoleAdministrator, &fakeStore{items: bebidas(), total: 40})
		rec := env.get("/categories/table?page=3&size=20&prev_size=10", true)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if got := env.store.lists[0]; got != (ViewState{Page: 0, Size: 20}) {
			t.Errorf("List(%+v), хотели страницу 0 размера 20", got)
		}
		body := rec.Body.String()
		if !strings.Contains(body, `id="table-region"`) || strings.Contains(body, "<html") {
			t.Error("ожидался фрагмент таблицы")
		}
	})

	t.Run("пустой список", func(t *testing.T) {
		env := newEnv(t, rbac.RoleAdministrator, &fakeStore{})
		rec := env.get("/categories/table", true)
		if !strings.Contains(rec.Body.String(), `id="list-empty"`) {
			t.Error("нет строки пустого списка")
		}
	})

	t.Run("ошибка загрузки", func(t *testing.T) {
		env := newEnv(t, rbac.RoleAdministrator, &fakeStore{listErr: errors.New("boom")})
		rec := env.get("/categories/table", true)
		if rec.Code != http.StatusBadGateway {
			t.Errorf("status = %d, хотели 502", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `id="list-error"`) {
			t.Error("нет строки ошибки")
		}
	})

	t.Run("ошибка загрузки дальней страницы", func(t *testing.T) {
		env := newEnv(t, rbac.RoleAdministrator, &fakeStore{listErr: errors.New("boom")})
		rec := env.get("/categories/table?page=4&size=10", true)
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("status = %d, хотели 502", rec.Code)
		}
		body := rec.Body.String()
		if strings.Contains(body, "page=4") || strings.Contains(body, `name="page" value="4"`) {
			t.Error("пагинация построена от недоступной страницы")
		}
		if !strings.Contains(body, `id="pagination"`) {
			t.Error("нет пагинации")
		}
	})
}

func TestHandleSave(t *testing.T) {
	t.Run("пустое обязательное поле", func(t *testing.T) {
		env := newEnv(t, rbac.RoleAdministrator, &fakeStore{})
		rec := env.post("/categories/save", url.Values{"name": {"   "}, "description": {"Refrescos"}}, true)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, хотели 422", rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, "is-invalid") || !strings.Contains(body, "invalid-feedback") {
			t.Error("нет сообщения у поля")
		}
		if !strings.Contains(body, "Refrescos") {
			t.Error("введённые значения потеряны")
		}
		if len(env.store.creates) != 0 {
			t.Error("бэкенд вызван при ошибке валидации")
		}
	})

	t.Run("создание возвращает на первую страницу", func(t *testing.T) {
		env := newEnv(t, rbac.RoleAdministrator, &fakeStore{})
		form := url.Values{"name": {" Bebidas "}, "description": {"Refrescos"}, "page": {"3"}, "size": {"20"}}
		rec := env.post("/categories/save", form, false)
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, хотели 303", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/categories?page=0&size=20" {
			t.Errorf("Location = %q", loc)
		}
		if len(env.store.creates) != 1 || env.store.creates[0].Name != "Bebidas" {
			t.Errorf("creates = %+v", env.store.creates)
		}
	})

	t.Run("изменение через HTMX", func(t *testing.T) {
		env := newEnv(t, rbac.RoleAdministrator, &fakeStore{})
		form := url.Values{"id": {"7"}, "name": {"Lácteos"}, "description": {"Leche"}, "size": {"10"}}
		rec := env.post("/categories/save", form, true)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, хотели 204", rec.Code)
		}
		if got := rec.Header().Get("HX-Redirect"); got != "/categories?page=0&size=10" {
			t.Errorf("HX-Redirect = %q", got)
		}
		if in, ok := env.store.updates[7]; !ok || in.Name != "Lácteos" {
			t.Errorf("updates = %+v", env.store.updates)
		}
	})

	t.Run("ошибка бэкенда сохраняет форму", func(t *testing.T) {
		env := newEnv(t, rbac.RoleAdministrator, &fakeStore{saveErr: errors.New("500")})
		rec := env.post("/categories/save", url.Values{"name": {"Bebidas"}, "description": {"Refrescos"}}, true)
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("status = %d, хотели 502", rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, `id="entity-modal"`) || !strings.Contains(body, `value="Bebidas"`) {
			t.Error("форма не сохранена")
		}
		if !strings.Contains(body, "alert-danger") {
			t.Error("нет сообщения об ошибке")
		}
	})

	t.Run("сообщение из AlertError", func(t *testing.T) {
		env := newEnv(t, rbac.RoleAdministrator, &fakeStore{}, func(s *Schema[model.Category, model.CategoryInput]) {
			s.BeforeSave = func(context.Context, backend.Credentials, *http.Request, *model.CategoryInput) error {
				return &AlertError{Key: "products.upload_failed", Err: errors.New("upload")}
			}
		})
		rec := env.post("/categories/save", url.Values{"name": {"A"}, "description": {"B"}}, true)
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("status = %d, хотели 502", rec.Code)
		}
		if want := env.bundle.T(i18n.LangES, "products.upload_failed"); !strings.Contains(rec.Body.String(), want) {
			t.Errorf("нет сообщения %q", want)
		}
		if len(env.store.creates) != 0 {
			t.Error("сохранение после ошибки BeforeSave")
		}
	})
}

func TestHandleSave_TooLarge(t *testing.T) {
	env := newEnv(t, rbac.RoleAdministrator, &fakeStore{}, func(s *Schema[model.Category, model.CategoryInput]) {
		s.Multipart = true
	})
	req := httptest.NewRequest(http.MethodPost, "/categories/save", strings.NewReader("--x--"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	req.Header.Set("HX-Request", "true")
	req.ContentLength = MaxUploadBytes + 1
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, хотели 413", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `id="notice-modal"`) {
		t.Error("ожидалось модальное сообщение")
	}
	if want := env.bundle.T(i18n.LangES, "errors.too_large"); !strings.Contains(body, want) {
		t.Errorf("нет сообщения %q", want)
	}
	if len(env.store.creates) != 0 {
		t.Error("бэкенд вызван")
	}
}

func TestFail(t *testing.T) {
	env := newEnv(t, rbac.RoleAdministrator, &fakeStore{items: bebidas()})

	tests := []struct {
		name        string
		htmx        bool
		wantNotice  bool
		wantContent string
	}{
		{name: "HTMX получает модальное окно", htmx: true, wantNotice: true, wantContent: "text/html"},
		{name: "обычный запрос получает текст", htmx: false, wantNotice: false, wantContent: "text/plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.get("/categories/99/edit", tt.htmx)
			if rec.Code != http.StatusNotFound {
				t.Fatalf("status = %d, хотели 404", rec.Code)
			}
			if got := strings.Contains(rec.Body.String(), `id="notice-modal"`); got != tt.wantNotice {
				t.Errorf("notice-modal = %v, хотели %v", got, tt.wantNotice)
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, tt.wantContent) {
				t.Errorf("Content-Type = %q", ct)
			}
			if want := env.bundle.T(i18n.LangES, "errors.not_found"); !strings.Contains(rec.Body.String(), want) {
				t.Errorf("нет сообщения %q", want)
			}
		})
	}
}

func TestHandleEdit(t *testing.T) {
	env := newEnv(t, rbac.RoleAdministrator, &fakeStore{items: bebidas()})

	rec := env.get("/categories/2/edit?page=0&size=10", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `value="Snacks"`) || !strings.Contains(body, `name="id" value="2"`) {
		t.Error("форма не заполнена значениями сущности")
	}

	if rec := env.get("/categories/99/edit", true); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, хотели 404", rec.Code)
	}
	if rec := env.get("/categories/abc/edit", true); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, хотели 400", rec.Code)
	}
}

func TestHandleNew_FullPage(t *testing.T) {
	env := newEnv(t, rbac.RoleAdministrator, &fakeStore{items: bebidas()})

	rec := env.get("/categories/new", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<html") || !strings.Contains(body, `id="entity-modal"`) || !strings.Contains(body, `id="table-region"`) {
		t.Error("ожидалась страница со списком и открытой формой")
	}
}

func TestHandleDelete(t *testing.T) {
	t.Run("без подтверждения бэкенд не вызывается", func(t *testing.T) {
		env := newEnv(t, rbac.RoleAdministrator, &fakeStore{})
		rec := env.post("/categories/5/delete", url.Values{}, true)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `id="confirm-modal"`) {
			t.Error("подтверждение не показано")
		}
		if len(env.store.deletes) != 0 {
			t.Error("удаление без подтверждения")
		}
	})

	t.Run("вопрос подтверждения", func(t *testing.T) {
		env := newEnv(t, rbac.RoleAdministrator, &fakeStore{})
		rec := env.get("/categories/5/delete", true)
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `id="confirm-delete"`) {
			t.Errorf("status = %d", rec.Code)
		}
		if len(env.store.deletes) != 0 {
			t.Error("удаление при показе вопроса")
		}
	})

	t.Run("подтверждённое удаление", func(t *testing.T) {
		env := newEnv(t, rbac.RoleAdministrator, &fakeStore{})
		rec := env.post("/categories/5/delete", url.Values{"confirm": {"yes"}, "page": {"2"}, "size": {"5"}}, false)
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, хотели 303", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/categories?page=0&size=5" {
			t.Errorf("Location = %q", loc)
		}
		if len(env.store.deletes) != 1 || env.store.deletes[0] != 5 {
			t.Errorf("deletes = %v", env.store.deletes)
		}
	})

	t.Run("ошибка бэкенда", func(t *testing.T) {
		env := newEnv(t, rbac.RoleAdministrator, &fakeStore{deleteErr: errors.New("409")})
		rec := env.post("/categories/5/delete", url.Values{"confirm": {"yes"}}, true)
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("status = %d, хотели 502", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "alert-danger") {
			t.Error("нет сообщения об ошибке")
		}
	})
}
