package session

import "github.com/upca/personnel-console/internal/core/access"

type Decision int

const (
	Render Decision = iota
	RedirectLogin
	AccessDenied
)

func (d Decision) String() string {
	switch d {
	case RedirectLogin:
		return "redirect-login"
	case AccessDenied:
		return "access-denied"
	}
	return "render"
}

// Requirement is what a screen needs before it may render.
type Requirement struct {
	Module access.Module
	Action access.Action
}

// Screens maps each console screen to its requirement.
var Screens = map[string]Requirement{
	"/":              {Module: access.Dashboard, Action: access.Read},
	"/novedades":     {Module: access.Novedades, Action: access.Read},
	"/incapacidades": {Module: access.Incapacidades, Action: access.Read},
	"/enfermeria":    {Module: access.Enfermeria, Action: access.Read},
	"/usuarios":      {Module: access.Usuarios, Action: access.Read},
	"/configuracion": {Module: access.Configuracion, Action: access.Read},
}

// SessionSource is anything that can report the current session.
type SessionSource interface {
	Current() (Session, bool)
}

// Guard decides, against the latest loaded permissions, whether a screen
// renders. It is meant to run on every navigation.
func Guard(src SessionSource, req Requirement) Decision {
	s, ok := src.Current()
	if !ok {
		return RedirectLogin
	}
	if !s.Can(req.Module, req.Action) {
		return AccessDenied
	}
	return Render
}

// GuardScreen guards a screen by path. Unknown paths fall back to the dashboard.
func GuardScreen(src SessionSource, path string) Decision {
	req, ok := Screens[path]
	if !ok {
		req = Screens["/"]
	}
	return Guard(src, req)
}
