package static

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandler(t *testing.T) {
	tests := []struct {
		path       string
		wantStatus int
		wantType   string
	}{
		{path: "/static/css/app.css", wantStatus: http.StatusOK, wantType: "text/css"},
		{path: "/static/js/app.js", wantStatus: http.StatusOK, wantType: "javascript"},
		{path: "/static/missing.js", wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, хотели %d", rec.Code, tt.wantStatus)
			}
			if tt.wantType != "" && !strings.Contains(rec.Header().Get("Content-Type"), tt.wantType) {
				t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestAppJSSwapsErrorFragments(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/js/app.js", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	line := ""
	for _, l := range strings.Split(rec.Body.String(), "\n") {
		if strings.HasPrefix(l, "var swapStatuses") {
			line = l
		}
	}
	if line == "" {
		t.Fatal("нет списка swapStatuses")
	}
	for _, status := range []string{"400", "403", "404", "413", "422", "502"} {
		if !strings.Contains(line, status) {
			t.Errorf("статус %s не вставляется", status)
		}
	}
}
