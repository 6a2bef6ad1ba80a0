package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bigkaa/tienda-admin/internal/backend"
)

func newTestStore(t *testing.T, secret string) *CredentialStore {
	t.Helper()
	s, err := NewCredentialStore(secret, false)
	if err != nil {
		t.Fatalf("Ошибка создания CredentialStore: %v", err)
	}
	return s
}

// TestSaveLoad проверяет запись cookie в ответ и чтение из следующего запроса.
func TestSaveLoad(t *testing.T) {
	s := newTestStore(t, "dev-secret")
	cred := backend.Credentials{{Name: "JSESSIONID", Value: "abc"}, {Name: "XSRF", Value: "q"}}

	rec := httptest.NewRecorder()
	if err := s.Save(rec, cred); err != nil {
		t.Fatalf("Save: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, хотели 1", len(cookies))
	}
	ck := cookies[0]
	if ck.Name != CookieName || !ck.HttpOnly || ck.Path != "/" || ck.SameSite != http.SameSiteLaxMode {
		t.Errorf("атрибуты cookie: %+v", ck)
	}
	if strings.Contains(ck.Value, "abc") {
		t.Error("значение cookie бэкенда видно в открытом виде")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(ck)
	got, err := s.Load(req)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 || got[0] != cred[0] || got[1] != cred[1] {
		t.Errorf("Load = %+v, хотели %+v", got, cred)
	}
}

func TestLoad_NoCookie(t *testing.T) {
	s := newTestStore(t, "")
	got, err := s.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil || got != nil {
		t.Errorf("Load без cookie = %v, %v", got, err)
	}
}

// TestOpen_Invalid проверяет отказ на мусоре и на чужом ключе.
func TestOpen_Invalid(t *testing.T) {
	a := newTestStore(t, "key-a")
	b := newTestStore(t, "key-b")

	value, err := a.Seal(backend.Credentials{{Name: "n", Value: "v"}})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		value string
	}{
		{name: "чужой ключ", value: value},
		{name: "не base64", value: "%%%"},
		{name: "слишком коротко", value: "YQ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := b.Open(tt.value); err == nil {
				t.Error("ожидалась ошибка")
			}
		})
	}
}

// TestBase64Key проверяет, что base64 от 32 байт используется как ключ напрямую.
func TestBase64Key(t *testing.T) {
	const key = "MDEyMzQ1Njc4OTAxMjM0NTY3ODkwMTIzNDU2Nzg5MDE=" // "01234567890123456789012345678901"
	a := newTestStore(t, key)
	b := newTestStore(t, key)

	value, err := a.Seal(backend.Credentials{{Name: "n", Value: "v"}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Open(value); err != nil {
		t.Errorf("Open с тем же ключом: %v", err)
	}
}

func TestClear(t *testing.T) {
	s := newTestStore(t, "x")
	rec := httptest.NewRecorder()
	s.Clear(rec)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 || cookies[0].Value != "" {
		t.Errorf("Clear: %+v", cookies)
	}
}
