package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	dto "github.com/prometheus/client_model/go"
)

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	t.Run("новый идентификатор", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if _, err := uuid.Parse(seen); err != nil {
			t.Errorf("request_id %q не UUID", seen)
		}
		if rec.Header().Get(RequestIDHeader) != seen {
			t.Error("заголовок ответа не совпадает с context")
		}
	})

	t.Run("входящий UUID сохраняется", func(t *testing.T) {
		in := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, in)
		h.ServeHTTP(httptest.NewRecorder(), req)
		if seen != in {
			t.Errorf("request_id = %q, хотели %q", seen, in)
		}
	})

	t.Run("мусор заменяется", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "<script>")
		h.ServeHTTP(httptest.NewRecorder(), req)
		if seen == "<script>" {
			t.Error("невалидный request_id принят")
		}
	})
}

func TestRequestLogger_Level(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  string
	}{
		{name: "200 — INFO", status: http.StatusOK, level: "level=INFO"},
		{name: "303 — INFO", status: http.StatusSeeOther, level: "level=INFO"},
		{name: "422 — WARN", status: http.StatusUnprocessableEntity, level: "level=WARN"},
		{name: "502 — ERROR", status: http.StatusBadGateway, level: "level=ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))
			h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte("ok"))
			}))
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products", nil))

			out := buf.String()
			if !strings.Contains(out, tt.level) || !strings.Contains(out, "path=/products") || !strings.Contains(out, "bytes=2") {
				t.Errorf("лог = %s", out)
			}
		})
	}
}

func TestRoutePattern(t *testing.T) {
	var got string
	r := chi.NewRouter()
	r.Get("/products/{id}/edit", func(w http.ResponseWriter, r *http.Request) {})
	h := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.ServeHTTP(w, req)
		got = routePattern(req)
	})

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/42/edit", nil))
	if got != "unmatched" {
		// Вне роутера context chi ещё не создан
		t.Errorf("routePattern вне роутера = %q", got)
	}

	var inner string
	r2 := chi.NewRouter()
	r2.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req)
			inner = routePattern(req)
		})
	})
	r2.Get("/products/{id}/edit", func(w http.ResponseWriter, r *http.Request) {})
	r2.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/42/edit", nil))
	if inner != "/products/{id}/edit" {
		t.Errorf("routePattern = %q", inner)
	}
}

// requestsCount читает текущее значение ta_http_requests_total.
func requestsCount(t *testing.T, method, path, status string) float64 {
	t.Helper()
	var m dto.Metric
	if err := httpRequestsTotal.WithLabelValues(method, path, status).Write(&m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestRecoverer_LoggedAndCounted(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	r := chi.NewRouter()
	r.Use(RequestID())
	r.Use(MetricsMiddleware())
	r.Use(RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Get("/boom", func(http.ResponseWriter, *http.Request) {
		panic("сломалось")
	})

	before := requestsCount(t, http.MethodGet, "/boom", "500")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, хотели 500", rec.Code)
	}
	if got := requestsCount(t, http.MethodGet, "/boom", "500"); got != before+1 {
		t.Errorf("ta_http_requests_total = %v, хотели %v", got, before+1)
	}
	out := buf.String()
	for _, want := range []string{"Паника в обработчике", "сломалось", "status=500", "path=/boom", "request_id="} {
		if !strings.Contains(out, want) {
			t.Errorf("в логе нет %q: %s", want, out)
		}
	}
}
