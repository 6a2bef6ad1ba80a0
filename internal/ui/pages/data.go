package pages

import (
	"strconv"
	"strings"

	"github.com/bigkaa/tienda-admin/internal/ui/session"
)

// Base — общие данные layout.
type Base struct {
	// Title — ключ перевода заголовка
	Title string
	// Path — текущий путь (активный пункт меню, возврат после смены языка)
	Path   string
	Chrome session.Chrome
}

// Alert — сообщение над формой или списком.
type Alert struct {
	// Kind — класс Bootstrap: danger, warning, info
	Kind string
	// Key — ключ перевода; Text — готовый текст (например, ответ бэкенда)
	Key  string
	Text string
}

// IndexData — данные главной страницы.
type IndexData struct {
	Base
	Authenticated bool
	Products      []ProductCard
	Alert         *Alert
}

// ProductCard — карточка товара на главной.
type ProductCard struct {
	Name        string
	Description string
	Price       string
	Stock       int64
	ImageURL    string
}

// LoginData — данные страницы входа.
type LoginData struct {
	Base
	Email string
	Alert *Alert
}

// ResourceData — страница списка сущности.
type ResourceData struct {
	Base
	Table Table
	Form  *Form
	// Confirm — открытое подтверждение удаления
	Confirm *Confirm
}

// Table — таблица сущностей с пагинацией.
type Table struct {
	Entity   string
	BasePath string
	// Headers — ключи перевода заголовков колонок
	Headers   []string
	Rows      []Row
	CanMutate bool
	// ErrorKey — ключ сообщения для строки ошибки вместо данных
	ErrorKey  string
	Paginated bool
	Page      int
	Size      int
	Sizes     []SizeOption
	Pager     Pager
}

// Colspan — ширина строки-заглушки.
func (t Table) Colspan() int {
	if t.CanMutate {
		return len(t.Headers) + 1
	}
	return len(t.Headers)
}

// link — путь действия над сущностью с текущими page и size:
// /categories/7/edit?page=0&size=10.
func (t Table) link(parts ...string) string {
	return pageURL(t.BasePath+"/"+strings.Join(parts, "/"), t.Page, t.Size)
}

// Row — строка таблицы.
type Row struct {
	ID    string
	Cells []Cell
}

// Cell — ячейка. Заполнено ровно одно из Text, Key, Image.
type Cell struct {
	Text string
	// Key — ключ перевода заглушки ("Sin imagen", "Descripción no asignada")
	Key   string
	Image string
}

// SizeOption — вариант размера страницы.
type SizeOption struct {
	Value    int
	Selected bool
}

// Pager — "Anterior / 1 2 3 / Siguiente".
type Pager struct {
	Prev  PageLink
	Pages []PageLink
	Next  PageLink
}

// PageLink — одна ссылка пагинации.
type PageLink struct {
	Label    string
	Page     int
	Active   bool
	Disabled bool
}

// Form — модальная форма создания/изменения.
type Form struct {
	Entity   string
	BasePath string
	TitleKey string
	// ID — пусто при создании
	ID        string
	Fields    []Field
	Alert     *Alert
	Multipart bool
	Page      int
	Size      int
}

// Enctype — кодировка тела формы; multipart нужен для файла изображения.
func (f Form) Enctype() string {
	if f.Multipart {
		return "multipart/form-data"
	}
	return "application/x-www-form-urlencoded"
}

// Field — поле формы.
type Field struct {
	Name     string
	LabelKey string
	// Type — text, textarea, number, date, select, file
	Type     string
	Value    string
	Required bool
	Step     string
	Min      string
	Accept   string
	// Preview — текущее изображение рядом с полем файла
	Preview  string
	Options  []Option
	ErrorKey string
}

// Option — вариант select.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Confirm — подтверждение удаления.
type Confirm struct {
	Entity    string
	BasePath  string
	ID        string
	PromptKey string
	Alert     *Alert
	Page      int
	Size      int
}

func (c Confirm) deleteURL() string {
	return c.BasePath + "/" + c.ID + "/delete"
}

// confirmVals — hx-vals кнопки удаления.
const confirmVals = `{"confirm":"yes"}`

// Notice — ошибка, показанная в модальном окне HTMX-запроса.
type Notice struct {
	Alert Alert
	// Back — куда ведёт кнопка закрытия без JavaScript
	Back string
}

func pageURL(path string, page, size int) string {
	return path + "?page=" + strconv.Itoa(page) + "&size=" + strconv.Itoa(size)
}

func navLinkClass(active bool) string {
	if active {
		return "nav-link active"
	}
	return "nav-link"
}

func pageItemClass(p PageLink) string {
	cls := "page-item"
	if p.Active {
		cls += " active"
	}
	if p.Disabled {
		cls += " disabled"
	}
	return cls
}

func stockBadgeClass(stock int64) string {
	if stock > 0 {
		return "badge bg-success"
	}
	return "badge bg-secondary"
}

// controlClass добавляет is-invalid полю с ошибкой.
func controlClass(f Field, base string) string {
	if f.ErrorKey != "" {
		return base + " is-invalid"
	}
	return base
}
