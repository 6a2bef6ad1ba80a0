// categories.go — схема сущности "категория" для controller.Resource.
package handlers

import (
	"context"
	"net/url"
	"time"

	"github.com/bigkaa/tienda-admin/internal/backend"
	"github.com/bigkaa/tienda-admin/internal/domain/model"
	"github.com/bigkaa/tienda-admin/internal/ui/controller"
	"github.com/bigkaa/tienda-admin/internal/ui/pages"
)

// displayDate — формат даты в таблицах (dd/MM/yyyy).
const displayDate = "02/01/2006"

// CategoryClient — Resource Client категорий.
type CategoryClient interface {
	ListCategories(ctx context.Context, cred backend.Credentials) (model.Page[model.Category], error)
	CreateCategory(ctx context.Context, cred backend.Credentials, in model.CategoryInput) error
	UpdateCategory(ctx context.Context, cred backend.Credentials, id int64, in model.CategoryInput) error
	DeleteCategory(ctx context.Context, cred backend.Credentials, id int64) error
}

// categoryStore приводит CategoryClient к controller.Store.
// Бэкенд отдаёт категории одним списком, ViewState не используется.
type categoryStore struct{ client CategoryClient }

func (s categoryStore) List(ctx context.Context, cred backend.Credentials, _ controller.ViewState) (model.Page[model.Category], error) {
	return s.client.ListCategories(ctx, cred)
}

func (s categoryStore) Create(ctx context.Context, cred backend.Credentials, in model.CategoryInput) error {
	return s.client.CreateCategory(ctx, cred, in)
}

func (s categoryStore) Update(ctx context.Context, cred backend.Credentials, id int64, in model.CategoryInput) error {
	return s.client.UpdateCategory(ctx, cred, id, in)
}

func (s categoryStore) Delete(ctx context.Context, cred backend.Credentials, id int64) error {
	return s.client.DeleteCategory(ctx, cred, id)
}

// CategorySchema описывает таблицу и форму категорий.
func CategorySchema(client CategoryClient) controller.Schema[model.Category, model.CategoryInput] {
	return controller.Schema[model.Category, model.CategoryInput]{
		Entity: "categories",
		Base:   "/categories",
		Store:  categoryStore{client: client},
		Columns: []controller.Column[model.Category]{
			{HeaderKey: "categories.col.id", Cell: func(c model.Category) pages.Cell { return pages.Cell{Text: c.Key()} }},
			{HeaderKey: "categories.col.name", Cell: func(c model.Category) pages.Cell { return pages.Cell{Text: c.Name} }},
			{HeaderKey: "categories.col.description", Cell: func(c model.Category) pages.Cell {
				if c.Description == "" {
					return pages.Cell{Key: "categories.no_description"}
				}
				return pages.Cell{Text: c.Description}
			}},
			{HeaderKey: "categories.col.date", Cell: func(c model.Category) pages.Cell { return pages.Cell{Text: formatDate(c.CreatedAt)} }},
		},
		Values: func(c model.Category) url.Values {
			return url.Values{"name": {c.Name}, "description": {c.Description}}
		},
		Decode: func(v url.Values) (model.CategoryInput, controller.FieldErrors) {
			return model.CategoryInput{Name: v.Get("name"), Description: v.Get("description")}, nil
		},
		Fields: func(_ context.Context, _ backend.Credentials, v url.Values) ([]pages.Field, error) {
			return []pages.Field{
				{Name: "name", LabelKey: "categories.field.name", Type: "text", Value: v.Get("name"), Required: true},
				{Name: "description", LabelKey: "categories.field.description", Type: "textarea", Value: v.Get("description"), Required: true},
			}, nil
		},
	}
}

// formatDate — dd/MM/yyyy или "-", если даты нет.
func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format(displayDate)
}
