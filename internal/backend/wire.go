// wire.go — единственный слой нормализации ответов бэкенда.
// Бэкенд называет одни и те же поля по-разному (id / idCategoria / categoriaId,
// nombre / nombreProducto, ...), а списки отдаёт то массивом, то конвертом
// {content, number, totalPages, totalElements}. Здесь всё сводится к model.*;
// цепочки запасных имён не выходят за пределы этого файла.
package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bigkaa/tienda-admin/internal/domain/model"
	"github.com/bigkaa/tienda-admin/internal/domain/rbac"
)

// Запасные имена полей в порядке приоритета.
var (
	categoryIDKeys   = []string{"idCategoria", "id", "categoriaId"}
	categoryNameKeys = []string{"nombreCategoria", "nombre", "name"}
	descriptionKeys  = []string{"descripcion", "description"}
	categoryDateKeys = []string{"fechaCreacion", "createdAt", "fecha"}

	productIDKeys       = []string{"id", "idProducto", "productoId"}
	productNameKeys     = []string{"nombre", "nombreProducto", "name"}
	productPriceKeys    = []string{"precio", "precioUnitario", "price"}
	productStockKeys    = []string{"stock"}
	productDateKeys     = []string{"fechaIngreso", "createdAt", "fecha"}
	productImageKeys    = []string{"imagen_url", "imagenUrl", "imageUrl"}
	productCategoryKeys = []string{"categoriaId", "idCategoria"}

	userNameKeys  = []string{"nombre", "name", "username"}
	userEmailKeys = []string{"correo", "email"}
	userRoleKeys  = []string{"role", "rol"}
)

// errMalformed — ответ 2xx не соответствует ожидаемой форме.
var errMalformed = errors.New("неожиданная форма ответа бэкенда")

// rawObject — JSON-объект сущности с ещё не разобранными полями.
type rawObject map[string]json.RawMessage

// pick возвращает первое присутствующее и не-null поле из списка имён.
func (o rawObject) pick(keys []string) (json.RawMessage, bool) {
	for _, k := range keys {
		v, ok := o[k]
		if !ok {
			continue
		}
		if t := bytes.TrimSpace(v); len(t) == 0 || bytes.Equal(t, []byte("null")) {
			continue
		}
		return v, true
	}
	return nil, false
}

// str возвращает строковое значение; числа и bool приводятся к строке.
func (o rawObject) str(keys []string) string {
	v, ok := o.pick(keys)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return strings.TrimSpace(s)
	}
	// Не строка — берём литерал как есть (число, bool)
	return strings.TrimSpace(string(v))
}

// int возвращает целое; допускаются JSON-числа и строки с числом.
func (o rawObject) int(keys []string) (int64, bool) {
	f, ok := o.float(keys)
	if !ok {
		return 0, false
	}
	return int64(f), true
}

// float возвращает число; допускаются JSON-числа и строки с числом.
func (o rawObject) float(keys []string) (float64, bool) {
	v, ok := o.pick(keys)
	if !ok {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(v, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// Форматы дат, которые встречаются в ответах бэкенда.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// time возвращает дату; nil если поле отсутствует или не разбирается.
// Числа трактуются как Unix-время в миллисекундах.
func (o rawObject) time(keys []string) *time.Time {
	v, ok := o.pick(keys)
	if !ok {
		return nil
	}
	var ms float64
	if err := json.Unmarshal(v, &ms); err == nil {
		t := time.UnixMilli(int64(ms)).UTC()
		return &t
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return nil
	}
	return parseDate(s)
}

// parseDate разбирает строку даты в одном из известных форматов.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// toCategory нормализует объект категории.
func toCategory(o rawObject) model.Category {
	id, _ := o.int(categoryIDKeys)
	return model.Category{
		ID:          id,
		Name:        o.str(categoryNameKeys),
		Description: o.str(descriptionKeys),
		CreatedAt:   o.time(categoryDateKeys),
	}
}

// toProduct нормализует объект товара.
func toProduct(o rawObject) model.Product {
	id, _ := o.int(productIDKeys)
	price, _ := o.float(productPriceKeys)
	stock, _ := o.int(productStockKeys)
	categoryID, _ := o.int(productCategoryKeys)
	// Категория может прийти вложенным объектом
	if categoryID == 0 {
		if nested, ok := o.pick([]string{"categoria", "category"}); ok {
			var obj rawObject
			if err := json.Unmarshal(nested, &obj); err == nil {
				categoryID, _ = obj.int(categoryIDKeys)
			}
		}
	}
	return model.Product{
		ID:          id,
		Name:        o.str(productNameKeys),
		Description: o.str(descriptionKeys),
		Price:       price,
		Stock:       stock,
		CategoryID:  categoryID,
		ImageURL:    o.str(productImageKeys),
		CreatedAt:   o.time(productDateKeys),
	}
}

// envelope — постраничный конверт Spring Data.
type envelope struct {
	Content       json.RawMessage `json:"content"`
	Number        int             `json:"number"`
	Size          int             `json:"size"`
	TotalPages    int             `json:"totalPages"`
	TotalElements int             `json:"totalElements"`
}

// decodeList разбирает список сущностей: массив или конверт.
// requestedSize используется для вычисления числа страниц, если конверт его не содержит.
func decodeList[T any](body []byte, requestedSize int, convert func(rawObject) T) (model.Page[T], error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return model.SinglePage[T](nil), nil
	}

	switch trimmed[0] {
	case '[':
		var objs []rawObject
		if err := json.Unmarshal(trimmed, &objs); err != nil {
			return model.Page[T]{}, fmt.Errorf("%w: %v", errMalformed, err)
		}
		return model.SinglePage(convertAll(objs, convert)), nil

	case '{':
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return model.Page[T]{}, fmt.Errorf("%w: %v", errMalformed, err)
		}
		if env.Content == nil {
			return model.Page[T]{}, fmt.Errorf("%w: объект без поля content", errMalformed)
		}
		// "content": null — пустая страница
		var objs []rawObject
		if err := json.Unmarshal(env.Content, &objs); err != nil {
			return model.Page[T]{}, fmt.Errorf("%w: content: %v", errMalformed, err)
		}
		size := env.Size
		if size <= 0 {
			size = requestedSize
		}
		return model.NewPage(convertAll(objs, convert), env.Number, size, env.TotalPages, env.TotalElements), nil

	default:
		return model.Page[T]{}, fmt.Errorf("%w: ожидался массив или объект", errMalformed)
	}
}

// convertAll применяет convert ко всем объектам.
func convertAll[T any](objs []rawObject, convert func(rawObject) T) []T {
	items := make([]T, 0, len(objs))
	for _, o := range objs {
		if o == nil {
			continue
		}
		items = append(items, convert(o))
	}
	return items
}

// meResponse — ответ /api/auth/me.
type meResponse struct {
	Authenticated *bool     `json:"authenticated"`
	User          rawObject `json:"user"`
}

// decodeMe разбирает ответ /api/auth/me в model.Session.
// Отсутствие поля authenticated — неожиданная форма, а не "аноним".
func decodeMe(body []byte) (model.Session, error) {
	var me meResponse
	if err := json.Unmarshal(body, &me); err != nil {
		return model.Session{}, fmt.Errorf("%w: %v", errMalformed, err)
	}
	if me.Authenticated == nil {
		return model.Session{}, fmt.Errorf("%w: нет поля authenticated", errMalformed)
	}
	if !*me.Authenticated {
		return model.Anonymous(), nil
	}

	user := &model.User{}
	if me.User != nil {
		user.Name = me.User.str(userNameKeys)
		user.Email = me.User.str(userEmailKeys)
		user.Authorities = decodeAuthorities(me.User["authorities"])
		user.Role = rbac.Normalize(me.User.str(userRoleKeys), user.Authorities)
	}
	return model.Session{Authenticated: true, User: user}, nil
}

// decodeAuthorities принимает ["ROLE_X"] и [{"authority":"ROLE_X"}].
func decodeAuthorities(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var plain []string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain
	}
	var objs []struct {
		Authority string `json:"authority"`
	}
	if err := json.Unmarshal(raw, &objs); err == nil {
		out := make([]string, 0, len(objs))
		for _, o := range objs {
			if o.Authority != "" {
				out = append(out, o.Authority)
			}
		}
		return out
	}
	return nil
}

// categoryPayload — тело newCategory / updateCategory.
type categoryPayload struct {
	NombreCategoria string `json:"nombreCategoria"`
	Descripcion     string `json:"descripcion"`
}

// productPayload — тело newProduct / updateProduct.
type productPayload struct {
	Nombre       string  `json:"nombre"`
	Precio       float64 `json:"precio"`
	Descripcion  string  `json:"descripcion"`
	Stock        int64   `json:"stock"`
	FechaIngreso string  `json:"fechaIngreso"`
	CategoriaID  int64   `json:"categoriaId"`
	UsuarioID    int64   `json:"usuarioId"`
	ImagenURL    *string `json:"imagen_url"`
}

// imageUploadResponse — ответ /api/image/upload*.
type imageUploadResponse struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}
