package backend

import (
	"context"
	"net/http"
	"testing"

	dto "github.com/prometheus/client_model/go"
)

// requestsCount читает текущее значение ta_backend_requests_total.
func requestsCount(t *testing.T, op, outcome string) float64 {
	t.Helper()
	var m dto.Metric
	if err := backendRequestsTotal.WithLabelValues(op, outcome).Write(&m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestMetrics_Outcomes(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		call    func(*Client) error
		op      string
		outcome string
	}{
		{
			name:   "успешный выход",
			status: http.StatusOK,
			call: func(c *Client) error {
				return c.Logout(context.Background(), testCred)
			},
			op:      "logout",
			outcome: outcomeOK,
		},
		{
			name:   "ошибка статуса",
			status: http.StatusInternalServerError,
			call: func(c *Client) error {
				return c.DeleteCategory(context.Background(), testCred, 7)
			},
			op:      "delete_category",
			outcome: outcomeStatus,
		},
		{
			name:   "неразборчивый ответ",
			status: http.StatusOK,
			body:   "<html>",
			call: func(c *Client) error {
				_, err := c.Me(context.Background(), testCred)
				return err
			},
			op:      "me",
			outcome: outcomeMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := setupMockBackend(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			before := requestsCount(t, tt.op, tt.outcome)

			_ = tt.call(client)

			if got := requestsCount(t, tt.op, tt.outcome); got != before+1 {
				t.Errorf("%s/%s = %v, хотели %v", tt.op, tt.outcome, got, before+1)
			}
		})
	}
}

func TestMetrics_Transport(t *testing.T) {
	client, err := New(Options{BaseURL: "http://127.0.0.1:1"}, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	before := requestsCount(t, "list_categories", outcomeTransport)

	if _, err := client.ListCategories(context.Background(), testCred); err == nil {
		t.Fatal("ожидалась ошибка транспорта")
	}
	if got := requestsCount(t, "list_categories", outcomeTransport); got != before+1 {
		t.Errorf("transport_error = %v, хотели %v", got, before+1)
	}
}
