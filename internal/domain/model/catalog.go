package model

import (
	"strconv"
	"time"
)

// Category — категория товаров.
type Category struct {
	ID          int64
	Name        string
	Description string
	// CreatedAt — nil, если бэкенд не прислал дату или её не удалось разобрать
	CreatedAt *time.Time
}

// Key возвращает идентификатор для URL.
func (c Category) Key() string {
	return strconv.FormatInt(c.ID, 10)
}

// CategoryInput — данные формы категории для создания/изменения.
// Тег form — имя поля HTML-формы (сообщения валидации привязываются к нему).
type CategoryInput struct {
	Name        string `form:"name" validate:"required"`
	Description string `form:"description" validate:"required"`
}

// Product — товар каталога.
type Product struct {
	ID          int64
	Name        string
	Description string
	// Price — цена, не меньше нуля
	Price float64
	// Stock — остаток на складе, не меньше нуля
	Stock      int64
	CategoryID int64
	// ImageURL — пустая строка, если изображения нет
	ImageURL  string
	CreatedAt *time.Time
}

// Key возвращает идентификатор для URL.
func (p Product) Key() string {
	return strconv.FormatInt(p.ID, 10)
}

// ProductInput — данные формы товара для создания/изменения.
type ProductInput struct {
	Name        string  `form:"name" validate:"required"`
	Description string  `form:"description" validate:"required"`
	Price       float64 `form:"price" validate:"gte=0"`
	Stock       int64   `form:"stock" validate:"gte=0"`
	// Date — дата поступления из input type=date; бэкенд принимает её как есть
	Date       string `form:"date"`
	CategoryID int64  `form:"category_id" validate:"required,gt=0"`
	// ImageURL — абсолютный URL или путь, который вернул бэкенд при загрузке
	ImageURL string `form:"image_url"`
}

// ImageUpload — ответ бэкенда на загрузку изображения.
type ImageUpload struct {
	Message string
	URL     string
}
