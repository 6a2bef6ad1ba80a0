package controller

import (
	"net/url"
	"slices"
	"strconv"

	"github.com/bigkaa/tienda-admin/internal/ui/pages"
)

// ViewState — текущая страница и размер страницы списка.
// Живёт в query-строке браузера; сервер его не хранит.
type ViewState struct {
	Page int
	Size int
}

// Reset возвращает состояние с первой страницей (после изменения данных).
func (v ViewState) Reset() ViewState {
	v.Page = 0
	return v
}

// URL собирает адрес списка base с этим состоянием.
// Список без пагинации (Size 0) параметров не получает.
func (v ViewState) URL(base string) string {
	if v.Size <= 0 {
		return base
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(v.Page))
	q.Set("size", strconv.Itoa(v.Size))
	return base + "?" + q.Encode()
}

// Paging — политика размеров страницы.
type Paging struct {
	DefaultSize int
	Sizes       []int
}

// Parse читает ViewState из параметров page, size и prev_size.
// Недопустимый size заменяется размером по умолчанию; если prev_size
// отличается от size, пользователь сменил размер и страница сбрасывается в 0.
func (p Paging) Parse(q url.Values) ViewState {
	size, err := strconv.Atoi(q.Get("size"))
	if err != nil || !slices.Contains(p.Sizes, size) {
		size = p.DefaultSize
	}

	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 0 {
		page = 0
	}

	if prev := q.Get("prev_size"); prev != "" {
		if n, err := strconv.Atoi(prev); err != nil || n != size {
			page = 0
		}
	}
	return ViewState{Page: page, Size: size}
}

// Options возвращает варианты выбора размера с отмеченным текущим.
func (p Paging) Options(current int) []pages.SizeOption {
	opts := make([]pages.SizeOption, len(p.Sizes))
	for i, s := range p.Sizes {
		opts[i] = pages.SizeOption{Value: s, Selected: s == current}
	}
	return opts
}

// Pager строит "Anterior / 1..N / Siguiente" для страницы number из totalPages.
// Anterior неактивна на первой странице, Siguiente — на последней.
func Pager(number, totalPages int) pages.Pager {
	if totalPages < 1 {
		totalPages = 1
	}
	last := totalPages - 1
	number = min(max(number, 0), last)

	p := pages.Pager{
		Prev:  pages.PageLink{Page: max(number-1, 0), Disabled: number <= 0},
		Next:  pages.PageLink{Page: min(number+1, last), Disabled: number >= last},
		Pages: make([]pages.PageLink, totalPages),
	}
	for i := range totalPages {
		p.Pages[i] = pages.PageLink{Label: strconv.Itoa(i + 1), Page: i, Active: i == number}
	}
	return p
}
