// Пакет model — канонические доменные модели tienda-admin.
// Все варианты имён полей бэкенда сводятся к этим типам в пакете backend;
// рендеринг и контроллеры видят только канонические поля.
package model

import "github.com/bigkaa/tienda-admin/internal/domain/rbac"

// User — текущий пользователь, как его описывает /api/auth/me.
type User struct {
	// Name — отображаемое имя (nombre/name)
	Name string
	// Email — адрес электронной почты (correo/email)
	Email string
	// Role — нормализованная роль
	Role rbac.Role
	// Authorities — исходный список authorities от бэкенда
	Authorities []string
}

// DisplayName возвращает имя для приветствия: имя, затем email, затем "usuario".
func (u *User) DisplayName() string {
	if u == nil {
		return "usuario"
	}
	if u.Name != "" {
		return u.Name
	}
	if u.Email != "" {
		return u.Email
	}
	return "usuario"
}

// Session — состояние аутентификации для текущей загрузки страницы.
// Не сохраняется на клиенте: запрашивается у бэкенда при каждой загрузке.
type Session struct {
	Authenticated bool
	User          *User
}

// Anonymous возвращает сессию неаутентифицированного посетителя.
func Anonymous() Session {
	return Session{}
}

// Role возвращает роль пользователя сессии (RoleNone для анонима).
func (s Session) Role() rbac.Role {
	if !s.Authenticated || s.User == nil {
		return rbac.RoleNone
	}
	return s.User.Role
}
