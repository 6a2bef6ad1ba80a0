// Пакет controller — обобщённый Resource Controller: список, форма создания/изменения
// и удаление с подтверждением для одной сущности, описанной Schema.
package controller

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/bigkaa/tienda-admin/internal/backend"
	"github.com/bigkaa/tienda-admin/internal/domain/model"
	"github.com/bigkaa/tienda-admin/internal/ui/pages"
	"github.com/bigkaa/tienda-admin/internal/ui/session"
)

// MaxUploadBytes — предел тела multipart-формы (с изображением).
const MaxUploadBytes = 10 << 20

// ErrForbidden — роль пользователя не позволяет изменять данные.
var ErrForbidden = errors.New("недостаточно прав")

// Entity — сущность с идентификатором для URL.
type Entity interface {
	Key() string
}

// Store — операции Resource Client над сущностью T с входом In.
type Store[T any, In any] interface {
	List(ctx context.Context, cred backend.Credentials, vs ViewState) (model.Page[T], error)
	Create(ctx context.Context, cred backend.Credentials, in In) error
	Update(ctx context.Context, cred backend.Credentials, id int64, in In) error
	Delete(ctx context.Context, cred backend.Credentials, id int64) error
}

// Column — колонка таблицы.
type Column[T any] struct {
	// HeaderKey — ключ перевода заголовка
	HeaderKey string
	Cell      func(T) pages.Cell
}

// FieldErrors — ошибки формы: имя поля → ключ перевода сообщения.
type FieldErrors map[string]string

// AlertError — ошибка с собственным сообщением для пользователя.
type AlertError struct {
	Key string
	Err error
}

func (e *AlertError) Error() string { return e.Err.Error() }

func (e *AlertError) Unwrap() error { return e.Err }

// Schema описывает сущность для Resource.
type Schema[T Entity, In any] struct {
	// Entity — префикс ключей перевода (products, categories)
	Entity string
	// Base — корень маршрутов (/products)
	Base    string
	Columns []Column[T]
	// Paginated — false: список целиком на одной странице, без пагинации
	Paginated bool
	// Multipart — форма содержит файл
	Multipart bool
	Store     Store[T, In]

	// Values — значения формы для изменения существующей сущности.
	Values func(T) url.Values
	// Decode переводит значения формы во вход, собирая ошибки преобразования.
	// Значения уже обрезаны от пробелов.
	Decode func(url.Values) (In, FieldErrors)
	// Fields строит поля формы, заполненные values.
	Fields func(ctx context.Context, cred backend.Credentials, values url.Values) ([]pages.Field, error)
	// BeforeSave вызывается после успешной валидации, перед сохранением.
	BeforeSave func(ctx context.Context, cred backend.Credentials, r *http.Request, in *In) error
	// CanMutate — право на создание, изменение и удаление; по умолчанию rbac.CanMutate.
	CanMutate func(*session.Gate) bool
}
