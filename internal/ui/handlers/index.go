// index.go — главная страница с карточками товаров.
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/bigkaa/tienda-admin/internal/backend"
	"github.com/bigkaa/tienda-admin/internal/domain/model"
	"github.com/bigkaa/tienda-admin/internal/ui/i18n"
	"github.com/bigkaa/tienda-admin/internal/ui/pages"
	"github.com/bigkaa/tienda-admin/internal/ui/session"
)

// ProductLister — чтение страницы товаров.
type ProductLister interface {
	ListProducts(ctx context.Context, cred backend.Credentials, page, size int) (model.Page[model.Product], error)
}

// IndexHandler — обработчик главной страницы.
type IndexHandler struct {
	products ProductLister
	pageSize int
	renderer *pages.Renderer
	bundle   *i18n.Bundle
	logger   *slog.Logger
}

// NewIndexHandler создаёт IndexHandler. pageSize — число карточек.
func NewIndexHandler(products ProductLister, pageSize int, renderer *pages.Renderer, bundle *i18n.Bundle, logger *slog.Logger) *IndexHandler {
	return &IndexHandler{
		products: products,
		pageSize: pageSize,
		renderer: renderer,
		bundle:   bundle,
		logger:   logger.With(slog.String("component", "ui_index")),
	}
}

// HandleIndex — GET /.
// Аноним видит приглашение войти (без редиректа), вошедший — первую страницу товаров.
func (h *IndexHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	data := pages.IndexData{}
	status := http.StatusOK

	gate := session.FromContext(r.Context())
	if gate != nil && gate.Require(w, r, false) {
		data.Authenticated = true
		page, err := h.products.ListProducts(r.Context(), gate.Credentials(), 0, h.pageSize)
		if err != nil {
			h.logger.Error("Ошибка загрузки товаров для главной", slog.String("error", err.Error()))
			data.Alert = &pages.Alert{Kind: "danger", Key: "index.load_failed"}
			status = http.StatusBadGateway
		} else {
			data.Products = productCards(page.Items)
		}
	}

	data.Base = base(r, "index.title", "/")
	renderHTML(w, r, status, h.renderer.Index(data), h.bundle, h.logger)
}

func productCards(items []model.Product) []pages.ProductCard {
	cards := make([]pages.ProductCard, len(items))
	for i, p := range items {
		cards[i] = pages.ProductCard{
			Name:        p.Name,
			Description: p.Description,
			Price:       formatPrice(p.Price),
			Stock:       p.Stock,
			ImageURL:    p.ImageURL,
		}
	}
	return cards
}

// formatPrice — цена в долларах: $12.50.
func formatPrice(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
