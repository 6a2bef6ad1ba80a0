package controller

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bigkaa/tienda-admin/internal/ui/i18n"
	"github.com/bigkaa/tienda-admin/internal/ui/pages"
	"github.com/bigkaa/tienda-admin/internal/ui/session"
)

// Deps — общие зависимости всех Resource.
type Deps struct {
	Renderer *pages.Renderer
	Bundle   *i18n.Bundle
	Paging   Paging
	Logger   *slog.Logger
}

// Resource — контроллер списка и формы одной сущности.
type Resource[T Entity, In any] struct {
	schema   Schema[T, In]
	renderer *pages.Renderer
	bundle   *i18n.Bundle
	paging   Paging
	validate *validator.Validate
	logger   *slog.Logger
}

// NewResource создаёт контроллер для schema.
func NewResource[T Entity, In any](schema Schema[T, In], deps Deps) *Resource[T, In] {
	if schema.CanMutate == nil {
		schema.CanMutate = (*session.Gate).CanMutate
	}
	paging := deps.Paging
	if !schema.Paginated {
		// Весь список на одной странице
		paging = Paging{DefaultSize: 0, Sizes: []int{0}}
	}
	return &Resource[T, In]{
		schema:   schema,
		renderer: deps.Renderer,
		bundle:   deps.Bundle,
		paging:   paging,
		validate: newValidator(),
		logger:   deps.Logger.With(slog.String("component", "ui."+schema.Entity)),
	}
}

// Routes монтирует маршруты сущности на r.
func (c *Resource[T, In]) Routes(r chi.Router) {
	r.Route(c.schema.Base, func(r chi.Router) {
		r.Get("/", c.HandleList)
		r.Get("/table", c.HandleTable)
		r.Get("/new", c.HandleNew)
		r.Post("/save", c.HandleSave)
		r.Get("/{id}/edit", c.HandleEdit)
		r.Get("/{id}/delete", c.HandleConfirmDelete)
		r.Post("/{id}/delete", c.HandleDelete)
	})
}

// --- Список ---

// HandleList обрабатывает GET /{base} — страница со списком.
func (c *Resource[T, In]) HandleList(w http.ResponseWriter, r *http.Request) {
	gate, ok := c.require(w, r)
	if !ok {
		return
	}
	vs := c.paging.Parse(r.URL.Query())
	c.renderPage(w, r, gate, vs, nil, nil, http.StatusOK)
}

// HandleTable обрабатывает GET /{base}/table — HTMX-фрагмент таблицы.
func (c *Resource[T, In]) HandleTable(w http.ResponseWriter, r *http.Request) {
	gate, ok := c.require(w, r)
	if !ok {
		return
	}
	vs := c.paging.Parse(r.URL.Query())
	table := c.loadTable(r, gate, vs)
	c.render(w, r, statusFor(table), c.renderer.Table(table))
}

// loadTable загружает страницу сущностей и строит таблицу.
// Ошибка загрузки превращается в строку ошибки внутри таблицы.
func (c *Resource[T, In]) loadTable(r *http.Request, gate *session.Gate, vs ViewState) pages.Table {
	table := pages.Table{
		Entity:    c.schema.Entity,
		BasePath:  c.schema.Base,
		Headers:   make([]string, len(c.schema.Columns)),
		CanMutate: c.schema.CanMutate(gate),
		Paginated: c.schema.Paginated,
		Page:      vs.Page,
		Size:      vs.Size,
		Sizes:     c.paging.Options(vs.Size),
	}
	for i, col := range c.schema.Columns {
		table.Headers[i] = col.HeaderKey
	}

	page, err := c.schema.Store.List(r.Context(), gate.Credentials(), vs)
	if err != nil {
		c.logger.Error("Ошибка загрузки списка",
			slog.String("error", err.Error()),
			slog.Int("page", vs.Page),
			slog.Int("size", vs.Size),
		)
		// Число страниц неизвестно: пагинация с первой страницы
		table.ErrorKey = c.schema.Entity + ".load_failed"
		table.Page = 0
		table.Pager = Pager(0, 1)
		return table
	}

	table.Rows = make([]pages.Row, len(page.Items))
	for i, item := range page.Items {
		row := pages.Row{ID: item.Key(), Cells: make([]pages.Cell, len(c.schema.Columns))}
		for j, col := range c.schema.Columns {
			row.Cells[j] = col.Cell(item)
		}
		table.Rows[i] = row
	}
	if c.schema.Paginated {
		table.Page = page.Number
		table.Pager = Pager(page.Number, page.TotalPages)
	}
	return table
}

// --- Форма ---

// HandleNew обрабатывает GET /{base}/new — пустая форма.
func (c *Resource[T, In]) HandleNew(w http.ResponseWriter, r *http.Request) {
	gate, ok := c.requireMutate(w, r)
	if !ok {
		return
	}
	vs := c.paging.Parse(r.URL.Query())
	form := c.buildForm(r, gate, vs, "", url.Values{}, nil)
	c.showForm(w, r, gate, vs, form, http.StatusOK)
}

// HandleEdit обрабатывает GET /{base}/{id}/edit — форма с текущими значениями.
// Отдельного чтения по id у бэкенда нет: сущность ищется в текущей странице списка.
func (c *Resource[T, In]) HandleEdit(w http.ResponseWriter, r *http.Request) {
	gate, ok := c.requireMutate(w, r)
	if !ok {
		return
	}
	id, ok := c.idParam(w, r)
	if !ok {
		return
	}
	vs := c.paging.Parse(r.URL.Query())

	page, err := c.schema.Store.List(r.Context(), gate.Credentials(), vs)
	if err != nil {
		c.logger.Error("Ошибка загрузки сущности для изменения",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		c.fail(w, r, http.StatusBadGateway, c.schema.Entity+".load_failed")
		return
	}

	key := id
	for _, item := range page.Items {
		if item.Key() == key {
			form := c.buildForm(r, gate, vs, key, c.schema.Values(item), nil)
			c.showForm(w, r, gate, vs, form, http.StatusOK)
			return
		}
	}
	c.fail(w, r, http.StatusNotFound, "errors.not_found")
}

// HandleSave обрабатывает POST /{base}/save — создание или изменение.
// Пустое обязательное поле: ответ 422 с формой, бэкенд не вызывается.
// Ошибка бэкенда: 502 с формой и общим сообщением. Успех: список с первой страницы.
func (c *Resource[T, In]) HandleSave(w http.ResponseWriter, r *http.Request) {
	gate, ok := c.requireMutate(w, r)
	if !ok {
		return
	}
	if err := c.parseForm(w, r); err != nil {
		c.logger.Warn("Ошибка разбора формы", slog.String("error", err.Error()))
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.fail(w, r, http.StatusRequestEntityTooLarge, "errors.too_large")
			return
		}
		c.fail(w, r, http.StatusBadRequest, "errors.bad_request")
		return
	}

	values := trimValues(r.PostForm)
	vs := c.paging.Parse(values)
	id := values.Get("id")

	var idNum int64
	if id != "" {
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil || n <= 0 {
			c.fail(w, r, http.StatusBadRequest, "errors.bad_request")
			return
		}
		idNum = n
	}

	in, errs := c.schema.Decode(values)
	errs = validate(c.validate, in, errs)
	if len(errs) > 0 {
		form := c.buildForm(r, gate, vs, id, values, errs)
		form.Alert = &pages.Alert{Kind: "warning", Key: "form.alert_validation"}
		c.showForm(w, r, gate, vs, form, http.StatusUnprocessableEntity)
		return
	}

	ctx := r.Context()
	cred := gate.Credentials()
	err := func() error {
		if c.schema.BeforeSave != nil {
			if err := c.schema.BeforeSave(ctx, cred, r, &in); err != nil {
				return err
			}
		}
		if id == "" {
			return c.schema.Store.Create(ctx, cred, in)
		}
		return c.schema.Store.Update(ctx, cred, idNum, in)
	}()
	if err != nil {
		c.logger.Error("Ошибка сохранения",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		alertKey := "form.save_failed"
		var ae *AlertError
		if errors.As(err, &ae) {
			alertKey = ae.Key
		}
		form := c.buildForm(r, gate, vs, id, values, nil)
		form.Alert = &pages.Alert{Kind: "danger", Key: alertKey}
		c.showForm(w, r, gate, vs, form, http.StatusBadGateway)
		return
	}

	c.logger.Info("Сущность сохранена", slog.String("id", id), slog.Bool("created", id == ""))
	session.RedirectReplace(w, r, vs.Reset().URL(c.schema.Base))
}

// buildForm собирает форму. Ошибка получения вариантов (например, списка
// категорий) не мешает показать форму, но выводится сообщением.
func (c *Resource[T, In]) buildForm(r *http.Request, gate *session.Gate, vs ViewState, id string, values url.Values, errs FieldErrors) pages.Form {
	titleKey := c.schema.Entity + ".new"
	if id != "" {
		titleKey = c.schema.Entity + ".edit"
	}
	form := pages.Form{
		Entity:    c.schema.Entity,
		BasePath:  c.schema.Base,
		TitleKey:  titleKey,
		ID:        id,
		Multipart: c.schema.Multipart,
		Page:      vs.Page,
		Size:      vs.Size,
	}

	fields, err := c.schema.Fields(r.Context(), gate.Credentials(), values)
	if err != nil {
		c.logger.Error("Ошибка подготовки формы", slog.String("error", err.Error()))
		form.Alert = &pages.Alert{Kind: "danger", Key: c.schema.Entity + ".options_failed"}
	}
	for i := range fields {
		if key, ok := errs[fields[i].Name]; ok {
			fields[i].ErrorKey = key
		}
	}
	form.Fields = fields
	return form
}

// showForm отдаёт форму фрагментом для HTMX или целой страницей со списком.
func (c *Resource[T, In]) showForm(w http.ResponseWriter, r *http.Request, gate *session.Gate, vs ViewState, form pages.Form, status int) {
	if isHTMX(r) {
		c.render(w, r, status, c.renderer.Form(form))
		return
	}
	c.renderPage(w, r, gate, vs, &form, nil, status)
}

// --- Удаление ---

// HandleConfirmDelete обрабатывает GET /{base}/{id}/delete — вопрос подтверждения.
func (c *Resource[T, In]) HandleConfirmDelete(w http.ResponseWriter, r *http.Request) {
	gate, ok := c.requireMutate(w, r)
	if !ok {
		return
	}
	id, ok := c.idParam(w, r)
	if !ok {
		return
	}
	vs := c.paging.Parse(r.URL.Query())
	c.showConfirm(w, r, gate, vs, c.confirm(id, vs, nil), http.StatusOK)
}

// HandleDelete обрабатывает POST /{base}/{id}/delete.
// Удаление выполняется только с confirm=yes; без него вопрос показывается снова.
func (c *Resource[T, In]) HandleDelete(w http.ResponseWriter, r *http.Request) {
	gate, ok := c.requireMutate(w, r)
	if !ok {
		return
	}
	id, ok := c.idParam(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		c.fail(w, r, http.StatusBadRequest, "errors.bad_request")
		return
	}
	vs := c.paging.Parse(r.PostForm)

	if r.PostForm.Get("confirm") != "yes" {
		c.showConfirm(w, r, gate, vs, c.confirm(id, vs, nil), http.StatusOK)
		return
	}

	idNum, _ := strconv.ParseInt(id, 10, 64)
	if err := c.schema.Store.Delete(r.Context(), gate.Credentials(), idNum); err != nil {
		c.logger.Error("Ошибка удаления",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		alert := &pages.Alert{Kind: "danger", Key: "delete.failed"}
		c.showConfirm(w, r, gate, vs, c.confirm(id, vs, alert), http.StatusBadGateway)
		return
	}

	c.logger.Info("Сущность удалена", slog.String("id", id))
	session.RedirectReplace(w, r, vs.Reset().URL(c.schema.Base))
}

func (c *Resource[T, In]) confirm(id string, vs ViewState, alert *pages.Alert) pages.Confirm {
	return pages.Confirm{
		Entity:    c.schema.Entity,
		BasePath:  c.schema.Base,
		ID:        id,
		PromptKey: c.schema.Entity + ".confirm_delete",
		Alert:     alert,
		Page:      vs.Page,
		Size:      vs.Size,
	}
}

func (c *Resource[T, In]) showConfirm(w http.ResponseWriter, r *http.Request, gate *session.Gate, vs ViewState, confirm pages.Confirm, status int) {
	if isHTMX(r) {
		c.render(w, r, status, c.renderer.Confirm(confirm))
		return
	}
	c.renderPage(w, r, gate, vs, nil, &confirm, status)
}

// --- Общее ---

// require — Session Gate с редиректом на вход для анонима.
func (c *Resource[T, In]) require(w http.ResponseWriter, r *http.Request) (*session.Gate, bool) {
	gate := session.FromContext(r.Context())
	if gate == nil {
		c.logger.Error("Session Gate не подключён")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return nil, false
	}
	if !gate.Require(w, r, true) {
		return nil, false
	}
	return gate, true
}

// requireMutate — require плюс проверка права изменять данные (403).
func (c *Resource[T, In]) requireMutate(w http.ResponseWriter, r *http.Request) (*session.Gate, bool) {
	gate, ok := c.require(w, r)
	if !ok {
		return nil, false
	}
	if !c.schema.CanMutate(gate) {
		c.logger.Warn("Попытка изменения без прав",
			slog.String("path", r.URL.Path),
			slog.String("role", gate.Session().Role().String()),
			slog.String("error", ErrForbidden.Error()),
		)
		c.fail(w, r, http.StatusForbidden, "errors.forbidden")
		return nil, false
	}
	return gate, true
}

func (c *Resource[T, In]) idParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if n, err := strconv.ParseInt(id, 10, 64); err != nil || n <= 0 {
		c.fail(w, r, http.StatusBadRequest, "errors.bad_request")
		return "", false
	}
	return id, true
}

// renderPage отдаёт целую страницу списка, с открытой формой или подтверждением.
func (c *Resource[T, In]) renderPage(w http.ResponseWriter, r *http.Request, gate *session.Gate, vs ViewState, form *pages.Form, confirm *pages.Confirm, status int) {
	table := c.loadTable(r, gate, vs)
	if status == http.StatusOK {
		status = statusFor(table)
	}
	data := pages.ResourceData{
		Base: pages.Base{
			Title:  c.schema.Entity + ".title",
			Path:   c.schema.Base,
			Chrome: gate.Chrome(),
		},
		Table:   table,
		Form:    form,
		Confirm: confirm,
	}
	c.render(w, r, status, c.renderer.Resource(data))
}

// render рендерит компонент в буфер и отдаёт его со статусом status.
// Защищённые страницы не кэшируются: возврат "назад" снова проверяет сессию.
func (c *Resource[T, In]) render(w http.ResponseWriter, r *http.Request, status int, comp templ.Component) {
	var buf bytes.Buffer
	if err := comp.Render(r.Context(), &buf); err != nil {
		c.logger.Error("Ошибка рендеринга", slog.String("error", err.Error()))
		http.Error(w, c.bundle.T(i18n.LangFromContext(r.Context()), "errors.render"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// fail отдаёт сообщение об ошибке: для HTMX модальным окном в #modal,
// иначе коротким текстом.
func (c *Resource[T, In]) fail(w http.ResponseWriter, r *http.Request, status int, key string) {
	if isHTMX(r) {
		notice := pages.Notice{
			Alert: pages.Alert{Kind: "danger", Key: key},
			Back:  c.schema.Base,
		}
		c.render(w, r, status, c.renderer.Notice(notice))
		return
	}
	http.Error(w, c.bundle.T(i18n.LangFromContext(r.Context()), key), status)
}

// parseForm разбирает тело: multipart для форм с файлом, иначе urlencoded.
func (c *Resource[T, In]) parseForm(w http.ResponseWriter, r *http.Request) error {
	if c.schema.Multipart {
		if r.ContentLength > MaxUploadBytes {
			return &http.MaxBytesError{Limit: MaxUploadBytes}
		}
		r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
		err := r.ParseMultipartForm(MaxUploadBytes)
		if errors.Is(err, http.ErrNotMultipart) {
			return r.ParseForm()
		}
		return err
	}
	return r.ParseForm()
}

func statusFor(t pages.Table) int {
	if t.ErrorKey != "" {
		return http.StatusBadGateway
	}
	return http.StatusOK
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
