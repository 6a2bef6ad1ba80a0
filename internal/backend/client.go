// Пакет backend — HTTP-клиент REST-бэкенда магазина.
// Одна операция на один endpoint: auth (login, me, logout), category, products, image.
// Каждый запрос несёт cookie сессии бэкенда (Credentials) вызывающего пользователя.
// Повторов, таймаутов и кэширования ответов нет; отмена — только через context.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Фиксированные пути бэкенда.
const (
	pathLogin  = "/api/auth/login"
	pathMe     = "/api/auth/me"
	pathLogout = "/api/auth/logout"

	pathCategoryList   = "/api/category/getDataCategories"
	pathCategoryCreate = "/api/category/newCategory"
	pathCategoryUpdate = "/api/category/updateCategory/"
	pathCategoryDelete = "/api/category/deleteCategory/"

	pathProductList   = "/api/products/getAllProducts"
	pathProductCreate = "/api/products/newProduct"
	pathProductUpdate = "/api/products/updateProduct/"
	pathProductDelete = "/api/products/deleteProduct/"

	pathImageUpload         = "/api/image/upload"
	pathImageUploadToFolder = "/api/image/upload-to-folder"
)

// maxErrorBody — сколько байт тела ответа с ошибкой сохраняется в StatusError.
const maxErrorBody = 4096

// ErrUnauthenticated — бэкенд не признал учётные данные (401/403).
var ErrUnauthenticated = errors.New("бэкенд отклонил учётные данные")

// Cookie — одна cookie сессии бэкенда.
type Cookie struct {
	Name  string `json:"n"`
	Value string `json:"v"`
}

// Credentials — cookie сессии бэкенда, которые браузер получил при логине.
// Хранятся в зашифрованной cookie tienda-admin и передаются в каждом запросе.
type Credentials []Cookie

// Empty сообщает, что учётных данных нет.
func (c Credentials) Empty() bool {
	return len(c) == 0
}

// StatusError — бэкенд ответил статусом вне 2xx.
type StatusError struct {
	// Op — имя операции клиента (login, me, list_products, ...)
	Op         string
	StatusCode int
	// Body — начало тела ответа (для диагностики и сообщений логина)
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("бэкенд %s: статус %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("бэкенд %s: статус %d: %s", e.Op, e.StatusCode, e.Body)
}

// Is позволяет errors.Is(err, ErrUnauthenticated) для 401 и 403.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthenticated &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// Options — параметры клиента бэкенда.
type Options struct {
	// BaseURL — схема и хост бэкенда без завершающего слэша
	BaseURL string
	// HTTPClient — nil означает http.Client без таймаута
	HTTPClient *http.Client
	// ProductOwnerID — usuarioId, который бэкенд ожидает в payload товара
	ProductOwnerID int64
}

// Client — клиент REST-бэкенда магазина.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	productOwnerID int64
	logger         *slog.Logger
}

// New создаёт клиент бэкенда.
func New(opts Options, logger *slog.Logger) (*Client, error) {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		return nil, errors.New("не задан базовый URL бэкенда")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		baseURL:        baseURL,
		httpClient:     httpClient,
		productOwnerID: opts.ProductOwnerID,
		logger:         logger.With(slog.String("component", "backend_client")),
	}, nil
}

// BaseURL возвращает базовый URL бэкенда.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request — описание одного вызова бэкенда.
type request struct {
	op          string
	method      string
	path        string
	cred        Credentials
	body        io.Reader
	contentType string
}

// jsonRequest собирает request с JSON-телом.
func jsonRequest(op, method, path string, cred Credentials, payload any) (request, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return request{}, fmt.Errorf("сериализация запроса %s: %w", op, err)
	}
	return request{
		op:          op,
		method:      method,
		path:        path,
		cred:        cred,
		body:        bytes.NewReader(data),
		contentType: "application/json",
	}, nil
}

// do выполняет запрос и возвращает ответ со статусом 2xx.
// Для остальных статусов тело читается, ответ закрывается, возвращается *StatusError.
// Вызывающий обязан закрыть resp.Body.
func (c *Client) do(ctx context.Context, req request) (*http.Response, error) {
	start := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, req.body)
	if err != nil {
		observeBackendCall(req.op, outcomeTransport, start)
		return nil, fmt.Errorf("создание запроса %s: %w", req.op, err)
	}
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	for _, ck := range req.cred {
		httpReq.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		observeBackendCall(req.op, outcomeTransport, start)
		return nil, fmt.Errorf("запрос %s к бэкенду: %w", req.op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()
		observeBackendCall(req.op, outcomeStatus, start)
		c.logger.Debug("Бэкенд вернул ошибку",
			slog.String("op", req.op),
			slog.Int("status", resp.StatusCode),
		)
		return nil, &StatusError{
			Op:         req.op,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	observeBackendCall(req.op, outcomeOK, start)
	return resp, nil
}

// doDiscard выполняет запрос, тело успешного ответа не нужно.
func (c *Client) doDiscard(ctx context.Context, req request) error {
	resp, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// doRead выполняет запрос и возвращает тело успешного ответа.
func (c *Client) doRead(ctx context.Context, req request) ([]byte, error) {
	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("чтение ответа %s: %w", req.op, err)
	}
	return body, nil
}
