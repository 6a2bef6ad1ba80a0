package i18n

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoad(t *testing.T) {
	b, err := Load(LangES, testLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := b.T(LangES, "list.empty"); got != "Actualmente no hay registros" {
		t.Errorf("es list.empty = %q", got)
	}
	if got := b.T(LangEN, "pager.next"); got != "Next" {
		t.Errorf("en pager.next = %q", got)
	}
	if got := b.Tf(LangES, "nav.greeting", "Ana"); got != "Hola, Ana" {
		t.Errorf("nav.greeting = %q", got)
	}
}

// TestCatalogsHaveSameKeys проверяет, что каталоги не разошлись.
func TestCatalogsHaveSameKeys(t *testing.T) {
	b, err := Load(LangES, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	for key := range b.catalogs[LangES] {
		if _, ok := b.catalogs[LangEN][key]; !ok {
			t.Errorf("ключ %q отсутствует в en", key)
		}
	}
	for key := range b.catalogs[LangEN] {
		if _, ok := b.catalogs[LangES][key]; !ok {
			t.Errorf("ключ %q отсутствует в es", key)
		}
	}
}

func TestTranslateFallback(t *testing.T) {
	b := NewBundle(LangES, nil)
	_ = b.LoadMessages(LangES, []byte(`{"only.es":"solo"}`))
	_ = b.LoadMessages(LangEN, []byte(`{}`))

	if got := b.T(LangEN, "only.es"); got != "solo" {
		t.Errorf("запасной язык: %q", got)
	}
	if got := b.T(LangEN, "missing"); got != "missing" {
		t.Errorf("отсутствующий ключ: %q", got)
	}
}

func TestContextTranslate(t *testing.T) {
	b, err := Load(LangES, testLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	tests := []struct {
		name string
		ctx  context.Context
		want string
	}{
		{name: "без каталога — ключ", ctx: context.Background(), want: "pager.next"},
		{name: "испанский по умолчанию", ctx: WithBundle(context.Background(), b), want: "Siguiente"},
		{name: "язык из контекста", ctx: WithLang(WithBundle(context.Background(), b), LangEN), want: "Next"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := T(tt.ctx, "pager.next"); got != tt.want {
				t.Errorf("T() = %q, хотели %q", got, tt.want)
			}
		})
	}

	ctx := WithBundle(context.Background(), b)
	if got := Tf(ctx, "nav.greeting", "Ana"); got != "Hola, Ana" {
		t.Errorf("Tf() = %q", got)
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		accept string
		def    string
		want   string
	}{
		{name: "cookie en", cookie: "en", accept: "es", def: "es", want: "en"},
		{name: "неизвестная cookie", cookie: "ru", def: "en", want: "en"},
		{name: "Accept-Language английский", accept: "en-US,en;q=0.9", def: "es", want: "en"},
		{name: "Accept-Language испанский", accept: "es-SV", def: "en", want: "es"},
		{name: "Accept-Language без поддержки", accept: "ru-RU", def: "en", want: "es"},
		{name: "по умолчанию", def: "en", want: "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := Middleware(tt.def)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = LangFromContext(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: LangCookieName, Value: tt.cookie})
			}
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			if got != tt.want {
				t.Errorf("язык = %q, хотели %q", got, tt.want)
			}
		})
	}
}
