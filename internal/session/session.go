// Package session is the client side of authentication: the durable session
// store, the session manager state machine and the route guard.
package session

import (
	"errors"

	"github.com/upca/personnel-console/internal/core/access"
)

var (
	// ErrInvalidCredential covers both an unknown email and a wrong password.
	ErrInvalidCredential  = errors.New("invalid email or password")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrLoginInProgress    = errors.New("a login is already in progress")
	ErrNotAuthenticated   = errors.New("not authenticated")
)

// User is the identity held by the session. It never carries a credential.
type User struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  access.Role `json:"role"`
}

// Session is a snapshot of the authenticated identity and its permissions.
type Session struct {
	User        User
	Permissions []access.Record
}

func (s Session) Can(module access.Module, action access.Action) bool {
	return access.HasPermission(s.User.Role, s.Permissions, module, action)
}

type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	}
	return "anonymous"
}
