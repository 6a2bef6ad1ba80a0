package backend

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/bigkaa/tienda-admin/internal/domain/model"
)

// loginPayload — тело POST /api/auth/login.
type loginPayload struct {
	Correo     string `json:"correo"`
	Contrasena string `json:"contrasena"`
}

// Login выполняет вход по email и паролю.
// Возвращает cookie, выставленные бэкендом (Set-Cookie). Пустой результат
// не является ошибкой: проверка сессии делается отдельным вызовом Me.
// При статусе вне 2xx возвращается *StatusError с текстом ответа бэкенда.
func (c *Client) Login(ctx context.Context, email, password string) (Credentials, error) {
	req, err := jsonRequest("login", http.MethodPost, pathLogin, nil,
		loginPayload{Correo: email, Contrasena: password})
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	cookies := resp.Cookies()
	cred := make(Credentials, 0, len(cookies))
	for _, ck := range cookies {
		// Удаляющие cookie (MaxAge<0) не несут сессии
		if ck.MaxAge < 0 || ck.Value == "" {
			continue
		}
		cred = append(cred, Cookie{Name: ck.Name, Value: ck.Value})
	}

	c.logger.Debug("Вход в бэкенд выполнен", slog.Int("cookies", len(cred)))
	return cred, nil
}

// Me запрашивает текущего пользователя.
// Статус вне 2xx, ошибка транспорта и неожиданная форма ответа возвращаются как ошибка;
// решение "считать анонимом" принимает вызывающий.
func (c *Client) Me(ctx context.Context, cred Credentials) (model.Session, error) {
	body, err := c.doRead(ctx, request{op: "me", method: http.MethodGet, path: pathMe, cred: cred})
	if err != nil {
		return model.Session{}, err
	}

	sess, err := decodeMe(body)
	if err != nil {
		countMalformed("me")
		return model.Session{}, fmt.Errorf("разбор ответа me: %w", err)
	}
	return sess, nil
}

// Logout завершает сессию на бэкенде.
func (c *Client) Logout(ctx context.Context, cred Credentials) error {
	return c.doDiscard(ctx, request{op: "logout", method: http.MethodPost, path: pathLogout, cred: cred})
}
