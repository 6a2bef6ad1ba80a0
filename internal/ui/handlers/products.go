// products.go — схема сущности "товар" для controller.Resource.
package handlers

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bigkaa/tienda-admin/internal/backend"
	"github.com/bigkaa/tienda-admin/internal/domain/model"
	"github.com/bigkaa/tienda-admin/internal/ui/controller"
	"github.com/bigkaa/tienda-admin/internal/ui/pages"
)

// imageField — поле формы с файлом изображения.
const imageField = "image"

// ProductClient — Resource Client товаров и загрузки изображений.
type ProductClient interface {
	ProductLister
	CreateProduct(ctx context.Context, cred backend.Credentials, in model.ProductInput) error
	UpdateProduct(ctx context.Context, cred backend.Credentials, id int64, in model.ProductInput) error
	DeleteProduct(ctx context.Context, cred backend.Credentials, id int64) error
	ListCategories(ctx context.Context, cred backend.Credentials) (model.Page[model.Category], error)
	UploadImageToFolder(ctx context.Context, cred backend.Credentials, filename string, r io.Reader, folder string) (model.ImageUpload, error)
}

// productStore приводит ProductClient к controller.Store.
type productStore struct{ client ProductClient }

func (s productStore) List(ctx context.Context, cred backend.Credentials, vs controller.ViewState) (model.Page[model.Product], error) {
	return s.client.ListProducts(ctx, cred, vs.Page, vs.Size)
}

func (s productStore) Create(ctx context.Context, cred backend.Credentials, in model.ProductInput) error {
	return s.client.CreateProduct(ctx, cred, in)
}

func (s productStore) Update(ctx context.Context, cred backend.Credentials, id int64, in model.ProductInput) error {
	return s.client.UpdateProduct(ctx, cred, id, in)
}

func (s productStore) Delete(ctx context.Context, cred backend.Credentials, id int64) error {
	return s.client.DeleteProduct(ctx, cred, id)
}

// ProductSchema описывает таблицу и форму товаров.
// Приложенный файл загружается в папку imageFolder до сохранения товара.
func ProductSchema(client ProductClient, imageFolder string) controller.Schema[model.Product, model.ProductInput] {
	return controller.Schema[model.Product, model.ProductInput]{
		Entity:    "products",
		Base:      "/products",
		Paginated: true,
		Multipart: true,
		Store:     productStore{client: client},
		Columns: []controller.Column[model.Product]{
			{HeaderKey: "products.col.id", Cell: func(p model.Product) pages.Cell { return pages.Cell{Text: p.Key()} }},
			{HeaderKey: "products.col.image", Cell: func(p model.Product) pages.Cell {
				if p.ImageURL == "" {
					return pages.Cell{Key: "products.no_image"}
				}
				return pages.Cell{Image: p.ImageURL}
			}},
			{HeaderKey: "products.col.name", Cell: func(p model.Product) pages.Cell { return pages.Cell{Text: p.Name} }},
			{HeaderKey: "products.col.description", Cell: func(p model.Product) pages.Cell { return pages.Cell{Text: p.Description} }},
			{HeaderKey: "products.col.stock", Cell: func(p model.Product) pages.Cell {
				return pages.Cell{Text: strconv.FormatInt(p.Stock, 10)}
			}},
			{HeaderKey: "products.col.date", Cell: func(p model.Product) pages.Cell { return pages.Cell{Text: formatDate(p.CreatedAt)} }},
			{HeaderKey: "products.col.price", Cell: func(p model.Product) pages.Cell { return pages.Cell{Text: formatPrice(p.Price)} }},
		},
		Values:     productValues,
		Decode:     decodeProduct,
		Fields:     productFields(client),
		BeforeSave: uploadProductImage(client, imageFolder),
	}
}

func productValues(p model.Product) url.Values {
	v := url.Values{
		"name":        {p.Name},
		"price":       {strconv.FormatFloat(p.Price, 'f', -1, 64)},
		"description": {p.Description},
		"stock":       {strconv.FormatInt(p.Stock, 10)},
		"image_url":   {p.ImageURL},
	}
	if p.CategoryID > 0 {
		v.Set("category_id", strconv.FormatInt(p.CategoryID, 10))
	}
	if p.CreatedAt != nil {
		v.Set("date", p.CreatedAt.Format("2006-01-02"))
	}
	return v
}

// decodeProduct разбирает числовые поля; пустые и нечисловые значения
// попадают в ошибки формы, остальное проверяет validator.
func decodeProduct(v url.Values) (model.ProductInput, controller.FieldErrors) {
	errs := controller.FieldErrors{}
	in := model.ProductInput{
		Name:        v.Get("name"),
		Description: v.Get("description"),
		Date:        v.Get("date"),
		ImageURL:    v.Get("image_url"),
	}

	if s := v.Get("price"); s == "" {
		errs["price"] = "form.required"
	} else if f, err := strconv.ParseFloat(s, 64); err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		// ParseFloat принимает NaN и Inf, а JSON их не кодирует
		errs["price"] = "form.invalid"
	} else {
		in.Price = f
	}

	if s := v.Get("stock"); s == "" {
		errs["stock"] = "form.required"
	} else if n, err := strconv.ParseInt(s, 10, 64); err != nil {
		errs["stock"] = "form.invalid"
	} else {
		in.Stock = n
	}

	if s := v.Get("category_id"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			errs["category_id"] = "form.invalid"
		}
		in.CategoryID = n
	}
	return in, errs
}

// productFields строит поля формы. Список категорий для select берётся
// у бэкенда; при ошибке форма показывается с пустым select и ошибкой.
func productFields(client ProductClient) func(context.Context, backend.Credentials, url.Values) ([]pages.Field, error) {
	return func(ctx context.Context, cred backend.Credentials, v url.Values) ([]pages.Field, error) {
		fields := []pages.Field{
			{Name: "name", LabelKey: "products.field.name", Type: "text", Value: v.Get("name"), Required: true},
			{Name: "price", LabelKey: "products.field.price", Type: "number", Value: v.Get("price"), Step: "0.01", Min: "0", Required: true},
			{Name: "description", LabelKey: "products.field.description", Type: "textarea", Value: v.Get("description"), Required: true},
			{Name: "stock", LabelKey: "products.field.stock", Type: "number", Value: v.Get("stock"), Step: "1", Min: "0", Required: true},
			{Name: "date", LabelKey: "products.field.date", Type: "date", Value: v.Get("date")},
			{Name: "category_id", LabelKey: "products.field.category", Type: "select", Required: true},
			{Name: imageField, LabelKey: "products.field.image", Type: "file", Accept: "image/*", Preview: v.Get("image_url")},
			{Name: "image_url", LabelKey: "products.field.image_url", Type: "text", Value: v.Get("image_url")},
		}

		page, err := client.ListCategories(ctx, cred)
		if err != nil {
			return fields, fmt.Errorf("загрузка категорий для формы: %w", err)
		}
		selected := v.Get("category_id")
		options := make([]pages.Option, len(page.Items))
		for i, c := range page.Items {
			options[i] = pages.Option{Value: c.Key(), Label: c.Name, Selected: c.Key() == selected}
		}
		fields[5].Options = options
		return fields, nil
	}
}

// uploadProductImage загружает приложенный файл и подставляет его URL в товар.
// Без файла товар сохраняется с текущим URL изображения.
func uploadProductImage(client ProductClient, folder string) func(context.Context, backend.Credentials, *http.Request, *model.ProductInput) error {
	return func(ctx context.Context, cred backend.Credentials, r *http.Request, in *model.ProductInput) error {
		if r.MultipartForm == nil {
			return nil
		}
		files := r.MultipartForm.File[imageField]
		if len(files) == 0 || files[0].Size == 0 {
			return nil
		}

		f, err := files[0].Open()
		if err != nil {
			return &controller.AlertError{Key: "products.upload_failed", Err: fmt.Errorf("открытие файла: %w", err)}
		}
		defer f.Close()

		up, err := client.UploadImageToFolder(ctx, cred, files[0].Filename, f, folder)
		if err != nil {
			return &controller.AlertError{Key: "products.upload_failed", Err: fmt.Errorf("загрузка изображения: %w", err)}
		}
		in.ImageURL = up.URL
		return nil
	}
}
