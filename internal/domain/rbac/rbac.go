// Пакет rbac — закрытый набор ролей магазина и их нормализация.
// Роль вычисляется один раз на границе Auth Client; дальше по коду
// ходит только типизированное значение Role.
// Проверка роли в UI — удобство интерфейса, авторизацию выполняет бэкенд.
package rbac

import "strings"

// Role — роль пользователя магазина.
type Role int

// Роли в порядке возрастания привилегий.
const (
	// RoleNone — роль отсутствует или не распознана.
	RoleNone Role = iota
	RoleCustomer
	RoleStocker
	RoleAdministrator
)

// String возвращает каноническое имя роли.
func (r Role) String() string {
	switch r {
	case RoleCustomer:
		return "customer"
	case RoleStocker:
		return "stocker"
	case RoleAdministrator:
		return "administrator"
	default:
		return "none"
	}
}

// aliases — написания ролей, которые встречаются в ответах бэкенда.
var aliases = map[string]Role{
	"admin":         RoleAdministrator,
	"administrador": RoleAdministrator,
	"administrator": RoleAdministrator,
	"almacenista":   RoleStocker,
	"stocker":       RoleStocker,
	"cliente":       RoleCustomer,
	"customer":      RoleCustomer,
}

// Parse распознаёт одно значение роли.
// Регистр и префикс ROLE_ (Spring Security) игнорируются.
func Parse(s string) (Role, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.TrimPrefix(key, "role_")
	r, ok := aliases[key]
	return r, ok
}

// Normalize вычисляет роль по прямому полю role и списку authorities.
// Из всех распознанных значений выбирается роль с максимальными привилегиями.
func Normalize(role string, authorities []string) Role {
	best := RoleNone
	if r, ok := Parse(role); ok {
		best = r
	}
	for _, a := range authorities {
		if r, ok := Parse(a); ok && r > best {
			best = r
		}
	}
	return best
}

// CanMutate сообщает, может ли роль создавать, изменять и удалять сущности.
func CanMutate(r Role) bool {
	return r == RoleAdministrator
}

// IsValid проверяет, что роль входит в закрытый набор (не RoleNone).
func IsValid(r Role) bool {
	return r >= RoleCustomer && r <= RoleAdministrator
}
