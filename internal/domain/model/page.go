package model

// Page — каноническая форма списка: страница элементов и данные пагинации.
// Плоский массив от бэкенда превращается в единственную страницу.
type Page[T any] struct {
	Items         []T
	Number        int
	Size          int
	TotalPages    int
	TotalElements int
}

// NewPage собирает страницу, вычисляя TotalPages по TotalElements и Size,
// если бэкенд не прислал количество страниц. TotalPages не бывает меньше 1.
func NewPage[T any](items []T, number, size, totalPages, totalElements int) Page[T] {
	if items == nil {
		items = []T{}
	}
	if totalElements < len(items) {
		totalElements = len(items)
	}
	if totalPages <= 0 && size > 0 {
		totalPages = (totalElements + size - 1) / size
	}
	if totalPages < 1 {
		totalPages = 1
	}
	if number < 0 {
		number = 0
	}
	return Page[T]{
		Items:         items,
		Number:        number,
		Size:          size,
		TotalPages:    totalPages,
		TotalElements: totalElements,
	}
}

// SinglePage оборачивает плоский список в одну страницу.
func SinglePage[T any](items []T) Page[T] {
	return NewPage(items, 0, len(items), 1, len(items))
}

// Empty сообщает, что на странице нет элементов.
func (p Page[T]) Empty() bool {
	return len(p.Items) == 0
}
