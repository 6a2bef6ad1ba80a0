package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubChecker struct{ status, message string }

func (s stubChecker) CheckReady() (string, string) { return s.status, s.message }

func TestHealthLive(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(nil).HealthLive(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body healthLiveResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" || body.Service != serviceName {
		t.Errorf("body = %+v", body)
	}
}

func TestHealthReady(t *testing.T) {
	tests := []struct {
		name       string
		checker    ReadinessChecker
		wantStatus int
		wantBody   string
	}{
		{name: "бэкенд доступен", checker: stubChecker{status: "ok"}, wantStatus: http.StatusOK, wantBody: "ok"},
		{name: "деградация", checker: stubChecker{status: "degraded"}, wantStatus: http.StatusOK, wantBody: "degraded"},
		{name: "бэкенд недоступен", checker: stubChecker{status: "fail", message: "refused"}, wantStatus: http.StatusServiceUnavailable, wantBody: "fail"},
		{name: "checker не задан", checker: nil, wantStatus: http.StatusServiceUnavailable, wantBody: "fail"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewHealthHandler(tt.checker).HealthReady(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, хотели %d", rec.Code, tt.wantStatus)
			}
			var body healthReadyResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Status != tt.wantBody || body.Checks.Backend.Status != tt.wantBody {
				t.Errorf("body = %+v", body)
			}
		})
	}
}
