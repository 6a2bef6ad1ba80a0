package service

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestBackendReadinessChecker(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		wantStatus string
	}{
		{name: "200 — доступен", status: http.StatusOK, wantStatus: "ok"},
		{name: "401 без cookie — доступен", status: http.StatusUnauthorized, wantStatus: "ok"},
		{name: "503 — деградация", status: http.StatusServiceUnavailable, wantStatus: "degraded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/auth/me" {
					t.Errorf("путь = %s", r.URL.Path)
				}
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			checker := NewBackendReadinessChecker(srv.URL+"/api/auth/me", time.Second)
			status, msg := checker.CheckReady()
			if status != tt.wantStatus {
				t.Errorf("CheckReady() status = %q, message = %q; ожидали %q", status, msg, tt.wantStatus)
			}
		})
	}
}

func TestBackendReadinessChecker_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	status, _ := NewBackendReadinessChecker(url, time.Second).CheckReady()
	if status != "fail" {
		t.Errorf("CheckReady() status = %q, ожидали fail", status)
	}
}

func TestNewDephealthServiceWithRegisterer(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ds, err := NewDephealthServiceWithRegisterer("tienda-admin", "tienda",
		"http://127.0.0.1:8081", "/api/auth/me", 15*time.Second, logger, prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewDephealthServiceWithRegisterer() error = %v", err)
	}
	if ds == nil {
		t.Fatal("сервис не создан")
	}
}
