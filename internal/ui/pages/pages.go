// Пакет pages — templ-компоненты страниц tienda-admin.
// Компоненты пишутся в .templ файлах; *_templ.go генерирует `templ generate`.
// Переводы берутся из context через i18n.T(ctx, key): Renderer кладёт туда
// каталог перед рендерингом.
package pages

//go:generate templ generate

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/bigkaa/tienda-admin/internal/ui/i18n"
)

// Renderer связывает компоненты с каталогом переводов.
type Renderer struct {
	bundle *i18n.Bundle
}

// New создаёт Renderer.
func New(bundle *i18n.Bundle) *Renderer {
	return &Renderer{bundle: bundle}
}

// localized рендерит c с каталогом переводов в context.
func (r *Renderer) localized(c templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return c.Render(i18n.WithBundle(ctx, r.bundle), w)
	})
}

// Index — главная страница с карточками товаров.
func (r *Renderer) Index(data IndexData) templ.Component {
	return r.localized(IndexPage(data))
}

// Login — страница входа.
func (r *Renderer) Login(data LoginData) templ.Component {
	return r.localized(LoginPage(data))
}

// Resource — страница списка сущности.
func (r *Renderer) Resource(data ResourceData) templ.Component {
	return r.localized(ResourcePage(data))
}

// Table — HTMX-фрагмент таблицы.
func (r *Renderer) Table(data Table) templ.Component {
	return r.localized(TablePartial(data))
}

// Form — HTMX-фрагмент модальной формы.
func (r *Renderer) Form(data Form) templ.Component {
	return r.localized(FormPartial(data))
}

// Confirm — HTMX-фрагмент подтверждения удаления.
func (r *Renderer) Confirm(data Confirm) templ.Component {
	return r.localized(ConfirmPartial(data))
}

// Notice — HTMX-фрагмент с сообщением об ошибке.
func (r *Renderer) Notice(data Notice) templ.Component {
	return r.localized(NoticePartial(data))
}
