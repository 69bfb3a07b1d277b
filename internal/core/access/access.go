// Package access holds the permission model: roles, modules, actions and
// the HasPermission decision. Everything here is pure and safe to call from
// any goroutine.
package access

import (
	"errors"
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "Usuario"
)

var ErrUnknownRole = errors.New("unknown role")

func ParseRole(s string) (Role, error) {
	switch Role(strings.TrimSpace(s)) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

func (r Role) IsAdmin() bool { return r == RoleAdmin }

// Module is a functional area permissions are scoped to. The set is closed:
// values only come from the package variables below or from ParseModule.
type Module struct{ name string }

var (
	Dashboard     = Module{"dashboard"}
	Novedades     = Module{"novedades"}
	Incapacidades = Module{"incapacidades"}
	Enfermeria    = Module{"enfermeria"}
	Usuarios      = Module{"usuarios"}
	Configuracion = Module{"configuracion"}
)

// Modules lists every known module in display order.
var Modules = []Module{Dashboard, Novedades, Incapacidades, Enfermeria, Usuarios, Configuracion}

// AssignableModules are the modules an administrator grants per user.
// The remaining modules are reachable by Admin only or, for the dashboard, by everyone.
var AssignableModules = []Module{Novedades, Incapacidades, Enfermeria}

var ErrUnknownModule = errors.New("unknown module")

func ParseModule(s string) (Module, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, m := range Modules {
		if m.name == name {
			return m, nil
		}
	}
	return Module{}, fmt.Errorf("%w: %q", ErrUnknownModule, s)
}

func (m Module) String() string { return m.name }

func (m Module) IsZero() bool { return m.name == "" }

func (m Module) Assignable() bool {
	for _, a := range AssignableModules {
		if a == m {
			return true
		}
	}
	return false
}

func (m Module) MarshalText() ([]byte, error) {
	if m.IsZero() {
		return nil, ErrUnknownModule
	}
	return []byte(m.name), nil
}

func (m *Module) UnmarshalText(b []byte) error {
	parsed, err := ParseModule(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

type Action struct{ name string }

var (
	Create = Action{"create"}
	Read   = Action{"read"}
	Update = Action{"update"}
	Delete = Action{"delete"}
)

var Actions = []Action{Create, Read, Update, Delete}

var ErrUnknownAction = errors.New("unknown action")

func ParseAction(s string) (Action, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, a := range Actions {
		if a.name == name {
			return a, nil
		}
	}
	return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

func (a Action) String() string { return a.name }

func (a Action) MarshalText() ([]byte, error) {
	if a.name == "" {
		return nil, ErrUnknownAction
	}
	return []byte(a.name), nil
}

func (a *Action) UnmarshalText(b []byte) error {
	parsed, err := ParseAction(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Grants are the four boolean capabilities of one permission record.
type Grants struct {
	Create bool `json:"can_create"`
	Read   bool `json:"can_read"`
	Update bool `json:"can_update"`
	Delete bool `json:"can_delete"`
}

func (g Grants) Allows(a Action) bool {
	switch a {
	case Create:
		return g.Create
	case Read:
		return g.Read
	case Update:
		return g.Update
	case Delete:
		return g.Delete
	}
	return false
}

// Record grants an identity a set of actions on one module.
type Record struct {
	Module Module `json:"module"`
	Grants
}

// HasPermission decides whether role, holding records, may perform action
// on module. Admin is always allowed and every identity may read the
// dashboard. Otherwise the record for module decides and a missing record
// denies everything.
func HasPermission(role Role, records []Record, module Module, action Action) bool {
	if role.IsAdmin() {
		return true
	}
	if module == Dashboard && action == Read {
		return true
	}
	for _, r := range records {
		if r.Module == module {
			return r.Allows(action)
		}
	}
	return false
}

// Find returns the record for module, or an all-false record when absent.
func Find(records []Record, module Module) Record {
	for _, r := range records {
		if r.Module == module {
			return r
		}
	}
	return Record{Module: module}
}
