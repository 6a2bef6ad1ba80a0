package session

// MenuItem — пункт защищённой навигации.
type MenuItem struct {
	// Key — ключ перевода подписи
	Key  string
	Href string
}

// protectedMenu — разделы, которые видит только вошедший пользователь.
var protectedMenu = []MenuItem{
	{Key: "menu.products", Href: "/products"},
	{Key: "menu.categories", Href: "/categories"},
}

// Chrome — общая обвязка страницы, вычисленная из состояния сессии.
type Chrome struct {
	ShowLogin  bool
	ShowLogout bool
	// Greeting — имя для "Hola, <имя>"; пусто для анонима
	Greeting  string
	Menu      []MenuItem
	CanMutate bool
}

// Chrome возвращает обвязку для текущего состояния.
// Чистая функция: повторные вызовы при том же состоянии дают тот же результат.
func (g *Gate) Chrome() Chrome {
	s := g.Session()
	if !s.Authenticated {
		return Chrome{ShowLogin: true}
	}

	menu := make([]MenuItem, len(protectedMenu))
	copy(menu, protectedMenu)
	return Chrome{
		ShowLogout: true,
		Greeting:   s.User.DisplayName(),
		Menu:       menu,
		CanMutate:  g.CanMutate(),
	}
}
