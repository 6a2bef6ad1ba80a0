// readiness.go — проверка готовности: отвечает ли REST-бэкенд магазина.
package service

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const (
	statusOK       = "ok"
	statusDegraded = "degraded"
	statusFail     = "fail"
)

// BackendReadinessChecker проверяет доступность бэкенда одним GET-запросом.
// Любой ответ сервера ниже 500 (включая 401 без cookie) — бэкенд доступен.
type BackendReadinessChecker struct {
	url    string
	client *http.Client
}

// NewBackendReadinessChecker создаёт checker для полного URL проверки.
func NewBackendReadinessChecker(healthURL string, timeout time.Duration) *BackendReadinessChecker {
	return &BackendReadinessChecker{
		url:    healthURL,
		client: &http.Client{Timeout: timeout},
	}
}

// CheckReady возвращает статус ("ok", "degraded", "fail") и сообщение.
func (c *BackendReadinessChecker) CheckReady() (status string, message string) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, c.url, http.NoBody)
	if err != nil {
		return statusFail, "ошибка создания запроса: " + err.Error()
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return statusFail, fmt.Sprintf("бэкенд недоступен: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return statusDegraded, fmt.Sprintf("бэкенд вернул статус %d", resp.StatusCode)
	}
	return statusOK, fmt.Sprintf("бэкенд отвечает, статус %d", resp.StatusCode)
}
