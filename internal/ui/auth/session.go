// Пакет auth — хранение учётных данных бэкенда в браузере.
// Cookie сессии REST-бэкенда не отдаются браузеру напрямую: они лежат
// в одной зашифрованной (AES-256-GCM) HttpOnly cookie tienda-admin.
// Состояние аутентификации здесь не хранится, только сами cookie бэкенда.
package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/bigkaa/tienda-admin/internal/backend"
)

// CookieName — имя cookie с зашифрованными учётными данными.
const CookieName = "tienda_session"

// CookieMaxAge — срок жизни cookie (12 часов). Реальный срок сессии
// определяет бэкенд: просроченные данные дают анонима на /api/auth/me.
const CookieMaxAge = 12 * 60 * 60

// sealed — то, что лежит внутри зашифрованной cookie.
type sealed struct {
	Cookies backend.Credentials `json:"c"`
}

// CredentialStore шифрует backend.Credentials в cookie и обратно.
type CredentialStore struct {
	aead   cipher.AEAD
	secure bool
}

// NewCredentialStore создаёт хранилище.
// secret — base64 от 32 байт или произвольная строка (хешируется SHA-256).
// Пустой secret — случайный ключ: после рестарта все входы сбрасываются.
func NewCredentialStore(secret string, secure bool) (*CredentialStore, error) {
	key, err := deriveKey(secret)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания AES cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания GCM: %w", err)
	}

	return &CredentialStore{aead: aead, secure: secure}, nil
}

func deriveKey(secret string) ([]byte, error) {
	if secret == "" {
		key := make([]byte, 32)
		if _, err := io.ReadFull(rand.Reader, key); err != nil {
			return nil, fmt.Errorf("ошибка генерации ключа сессии: %w", err)
		}
		return key, nil
	}
	if raw, err := base64.StdEncoding.DecodeString(secret); err == nil && len(raw) == 32 {
		return raw, nil
	}
	sum := sha256.Sum256([]byte(secret))
	return sum[:], nil
}

// Seal шифрует учётные данные в строку для значения cookie.
func (s *CredentialStore) Seal(cred backend.Credentials) (string, error) {
	plaintext, err := json.Marshal(sealed{Cookies: cred})
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации учётных данных: %w", err)
	}

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("ошибка генерации nonce: %w", err)
	}
	// nonce идёт префиксом к шифртексту
	out := s.aead.Seal(nonce, nonce, plaintext, []byte(CookieName))
	return base64.RawURLEncoding.EncodeToString(out), nil
}

// Open расшифровывает значение cookie.
func (s *CredentialStore) Open(value string) (backend.Credentials, error) {
	data, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("ошибка декодирования base64: %w", err)
	}
	n := s.aead.NonceSize()
	if len(data) < n {
		return nil, errors.New("зашифрованные данные слишком короткие")
	}

	plaintext, err := s.aead.Open(nil, data[:n], data[n:], []byte(CookieName))
	if err != nil {
		return nil, fmt.Errorf("ошибка дешифрования учётных данных: %w", err)
	}

	var v sealed
	if err := json.Unmarshal(plaintext, &v); err != nil {
		return nil, fmt.Errorf("ошибка десериализации учётных данных: %w", err)
	}
	return v.Cookies, nil
}

// Save записывает учётные данные в ответ.
func (s *CredentialStore) Save(w http.ResponseWriter, cred backend.Credentials) error {
	value, err := s.Seal(cred)
	if err != nil {
		return err
	}
	http.SetCookie(w, s.cookie(value, CookieMaxAge))
	return nil
}

// Load достаёт учётные данные из запроса.
// Отсутствие cookie — пустые данные без ошибки.
func (s *CredentialStore) Load(r *http.Request) (backend.Credentials, error) {
	ck, err := r.Cookie(CookieName)
	if errors.Is(err, http.ErrNoCookie) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.Open(ck.Value)
}

// Clear удаляет cookie (выход).
func (s *CredentialStore) Clear(w http.ResponseWriter) {
	http.SetCookie(w, s.cookie("", -1))
}

func (s *CredentialStore) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
