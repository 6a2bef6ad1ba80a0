package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bigkaa/tienda-admin/internal/domain/model"
)

// --- Категории ---

// ListCategories возвращает все категории. Бэкенд отдаёт плоский список,
// но конверт тоже принимается.
func (c *Client) ListCategories(ctx context.Context, cred Credentials) (model.Page[model.Category], error) {
	body, err := c.doRead(ctx, request{op: "list_categories", method: http.MethodGet, path: pathCategoryList, cred: cred})
	if err != nil {
		return model.Page[model.Category]{}, err
	}

	page, err := decodeList(body, 0, toCategory)
	if err != nil {
		countMalformed("list_categories")
		return model.Page[model.Category]{}, fmt.Errorf("разбор списка категорий: %w", err)
	}
	return page, nil
}

// CreateCategory создаёт категорию.
func (c *Client) CreateCategory(ctx context.Context, cred Credentials, in model.CategoryInput) error {
	req, err := jsonRequest("create_category", http.MethodPost, pathCategoryCreate, cred, toCategoryPayload(in))
	if err != nil {
		return err
	}
	return c.doDiscard(ctx, req)
}

// UpdateCategory изменяет категорию.
func (c *Client) UpdateCategory(ctx context.Context, cred Credentials, id int64, in model.CategoryInput) error {
	req, err := jsonRequest("update_category", http.MethodPut, pathCategoryUpdate+idSegment(id), cred, toCategoryPayload(in))
	if err != nil {
		return err
	}
	return c.doDiscard(ctx, req)
}

// DeleteCategory удаляет категорию.
func (c *Client) DeleteCategory(ctx context.Context, cred Credentials, id int64) error {
	return c.doDiscard(ctx, request{
		op:     "delete_category",
		method: http.MethodDelete,
		path:   pathCategoryDelete + idSegment(id),
		cred:   cred,
	})
}

// --- Товары ---

// ListProducts возвращает страницу товаров.
// page и size передаются в query; бэкенд может их проигнорировать и вернуть
// плоский список, тогда результат — одна страница.
func (c *Client) ListProducts(ctx context.Context, cred Credentials, page, size int) (model.Page[model.Product], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))

	body, err := c.doRead(ctx, request{
		op:     "list_products",
		method: http.MethodGet,
		path:   pathProductList + "?" + q.Encode(),
		cred:   cred,
	})
	if err != nil {
		return model.Page[model.Product]{}, err
	}

	result, err := decodeList(body, size, toProduct)
	if err != nil {
		countMalformed("list_products")
		return model.Page[model.Product]{}, fmt.Errorf("разбор списка товаров: %w", err)
	}
	return result, nil
}

// CreateProduct создаёт товар.
func (c *Client) CreateProduct(ctx context.Context, cred Credentials, in model.ProductInput) error {
	req, err := jsonRequest("create_product", http.MethodPost, pathProductCreate, cred, c.toProductPayload(in))
	if err != nil {
		return err
	}
	return c.doDiscard(ctx, req)
}

// UpdateProduct изменяет товар.
func (c *Client) UpdateProduct(ctx context.Context, cred Credentials, id int64, in model.ProductInput) error {
	req, err := jsonRequest("update_product", http.MethodPut, pathProductUpdate+idSegment(id), cred, c.toProductPayload(in))
	if err != nil {
		return err
	}
	return c.doDiscard(ctx, req)
}

// DeleteProduct удаляет товар.
func (c *Client) DeleteProduct(ctx context.Context, cred Credentials, id int64) error {
	return c.doDiscard(ctx, request{
		op:     "delete_product",
		method: http.MethodDelete,
		path:   pathProductDelete + idSegment(id),
		cred:   cred,
	})
}

func idSegment(id int64) string {
	return url.PathEscape(strconv.FormatInt(id, 10))
}

func toCategoryPayload(in model.CategoryInput) categoryPayload {
	return categoryPayload{
		NombreCategoria: strings.TrimSpace(in.Name),
		Descripcion:     strings.TrimSpace(in.Description),
	}
}

func (c *Client) toProductPayload(in model.ProductInput) productPayload {
	p := productPayload{
		Nombre:       strings.TrimSpace(in.Name),
		Precio:       in.Price,
		Descripcion:  strings.TrimSpace(in.Description),
		Stock:        in.Stock,
		FechaIngreso: in.Date,
		CategoriaID:  in.CategoryID,
		UsuarioID:    c.productOwnerID,
	}
	if u := strings.TrimSpace(in.ImageURL); u != "" {
		p.ImagenURL = &u
	}
	return p
}
