package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bigkaa/tienda-admin/internal/api/handlers"
	"github.com/bigkaa/tienda-admin/internal/backend"
	"github.com/bigkaa/tienda-admin/internal/config"
	"github.com/bigkaa/tienda-admin/internal/domain/model"
	"github.com/bigkaa/tienda-admin/internal/ui/auth"
	"github.com/bigkaa/tienda-admin/internal/ui/controller"
	uihandlers "github.com/bigkaa/tienda-admin/internal/ui/handlers"
	"github.com/bigkaa/tienda-admin/internal/ui/i18n"
	uimiddleware "github.com/bigkaa/tienda-admin/internal/ui/middleware"
	"github.com/bigkaa/tienda-admin/internal/ui/pages"
)

type readyChecker struct{}

func (readyChecker) CheckReady() (string, string) { return "ok", "" }

// stubBackend — бэкенд без пользователей и данных.
type stubBackend struct{}

func (stubBackend) Login(context.Context, string, string) (backend.Credentials, error) {
	return nil, backend.ErrUnauthenticated
}

func (stubBackend) Me(context.Context, backend.Credentials) (model.Session, error) {
	return model.Anonymous(), nil
}

func (stubBackend) Logout(context.Context, backend.Credentials) error { return nil }

func (stubBackend) ListProducts(context.Context, backend.Credentials, int, int) (model.Page[model.Product], error) {
	return model.Page[model.Product]{}, nil
}

func (stubBackend) ListCategories(context.Context, backend.Credentials) (model.Page[model.Category], error) {
	return model.Page[model.Category]{}, nil
}

func (stubBackend) CreateCategory(context.Context, backend.Credentials, model.CategoryInput) error {
	return nil
}

func (stubBackend) UpdateCategory(context.Context, backend.Credentials, int64, model.CategoryInput) error {
	return nil
}

func (stubBackend) DeleteCategory(context.Context, backend.Credentials, int64) error { return nil }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{Port: 8080, DefaultLang: i18n.LangES}

	bundle, err := i18n.Load(cfg.DefaultLang, logger)
	if err != nil {
		t.Fatalf("i18n.Load() error = %v", err)
	}
	renderer := pages.New(bundle)
	store, err := auth.NewCredentialStore("test-secret", false)
	if err != nil {
		t.Fatalf("NewCredentialStore() error = %v", err)
	}

	client := stubBackend{}
	deps := controller.Deps{Renderer: renderer, Bundle: bundle, Logger: logger}
	ui := &UIComponents{
		SessionGate:  uimiddleware.NewSessionGate(client, store, logger),
		AuthHandler:  uihandlers.NewAuthHandler(client, store, renderer, bundle, logger),
		IndexHandler: uihandlers.NewIndexHandler(client, 12, renderer, bundle, logger),
		Resources: []Mounter{
			controller.NewResource(uihandlers.CategorySchema(client), deps),
		},
	}
	return NewRouter(cfg, logger, handlers.NewHealthHandler(readyChecker{}), ui)
}

func TestRouter(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name         string
		method       string
		path         string
		wantStatus   int
		wantLocation string
		wantBody     string
	}{
		{name: "liveness", method: http.MethodGet, path: "/health/live", wantStatus: http.StatusOK, wantBody: `"status":"ok"`},
		{name: "readiness", method: http.MethodGet, path: "/health/ready", wantStatus: http.StatusOK, wantBody: `"backend"`},
		{name: "метрики", method: http.MethodGet, path: "/metrics", wantStatus: http.StatusOK, wantBody: "go_goroutines"},
		{name: "статика", method: http.MethodGet, path: "/static/css/app.css", wantStatus: http.StatusOK},
		{name: "главная без входа", method: http.MethodGet, path: "/", wantStatus: http.StatusOK, wantBody: `href="/login"`},
		{name: "форма входа", method: http.MethodGet, path: "/login", wantStatus: http.StatusOK, wantBody: `name="password"`},
		{name: "категории без входа", method: http.MethodGet, path: "/categories", wantStatus: http.StatusSeeOther, wantLocation: "/login"},
		{name: "неизвестный путь", method: http.MethodGet, path: "/nope", wantStatus: http.StatusNotFound, wantBody: "NOT_FOUND"},
		{name: "неверный метод", method: http.MethodDelete, path: "/login", wantStatus: http.StatusMethodNotAllowed, wantBody: "METHOD_NOT_ALLOWED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, хотели %d; body = %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantLocation != "" && rec.Header().Get("Location") != tt.wantLocation {
				t.Errorf("Location = %q, хотели %q", rec.Header().Get("Location"), tt.wantLocation)
			}
			if tt.wantBody != "" && !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("тело не содержит %q", tt.wantBody)
			}
			if rec.Header().Get("X-Request-ID") == "" {
				t.Error("нет X-Request-ID")
			}
		})
	}
}

func TestRouter_WithoutUI(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter(&config.Config{DefaultLang: i18n.LangES}, logger, handlers.NewHealthHandler(nil), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusServiceUnavailable || body.Status != "fail" {
		t.Errorf("status = %d, body = %+v", rec.Code, body)
	}
}
