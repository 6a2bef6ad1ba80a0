package rbac

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Role
		wantOK bool
	}{
		{name: "Administrador", input: "Administrador", want: RoleAdministrator, wantOK: true},
		{name: "ROLE_ADMIN", input: "ROLE_ADMIN", want: RoleAdministrator, wantOK: true},
		{name: "almacenista с пробелами", input: "  almacenista ", want: RoleStocker, wantOK: true},
		{name: "ROLE_Almacenista", input: "ROLE_Almacenista", want: RoleStocker, wantOK: true},
		{name: "Cliente", input: "Cliente", want: RoleCustomer, wantOK: true},
		{name: "customer", input: "customer", want: RoleCustomer, wantOK: true},
		{name: "пустая строка", input: "", want: RoleNone, wantOK: false},
		{name: "неизвестная роль", input: "superuser", want: RoleNone, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Parse(%q) = (%v, %v), хотели (%v, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name        string
		role        string
		authorities []string
		want        Role
	}{
		{name: "только поле role", role: "Administrador", want: RoleAdministrator},
		{name: "только authorities", authorities: []string{"ROLE_ALMACENISTA"}, want: RoleStocker},
		{name: "authorities повышают роль", role: "Cliente", authorities: []string{"ROLE_ADMIN"}, want: RoleAdministrator},
		{name: "роль не понижается authorities", role: "admin", authorities: []string{"ROLE_CLIENTE"}, want: RoleAdministrator},
		{name: "нераспознанные authorities игнорируются", authorities: []string{"SCOPE_read", "ROLE_CLIENTE"}, want: RoleCustomer},
		{name: "ничего не задано", want: RoleNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.role, tt.authorities)
			if got != tt.want {
				t.Errorf("Normalize(%q, %v) = %v, хотели %v", tt.role, tt.authorities, got, tt.want)
			}
		})
	}
}

func TestCanMutate(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleAdministrator, true},
		{RoleStocker, false},
		{RoleCustomer, false},
		{RoleNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			if got := CanMutate(tt.role); got != tt.want {
				t.Errorf("CanMutate(%v) = %v, хотели %v", tt.role, got, tt.want)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	if IsValid(RoleNone) {
		t.Error("IsValid(RoleNone) = true")
	}
	for _, r := range []Role{RoleCustomer, RoleStocker, RoleAdministrator} {
		if !IsValid(r) {
			t.Errorf("IsValid(%v) = false", r)
		}
	}
	if IsValid(Role(42)) {
		t.Error("IsValid(Role(42)) = true")
	}
}
