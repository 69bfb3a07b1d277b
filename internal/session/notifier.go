package session

import (
	"context"
	"log/slog"
)

type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	}
	return "info"
}

// Notifier surfaces session outcomes to the person at the console.
type Notifier interface {
	Notify(level Level, message string)
}

type NotifierFunc func(level Level, message string)

func (f NotifierFunc) Notify(level Level, message string) { f(level, message) }

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Notify(level Level, message string) {
	lvl := slog.LevelInfo
	if level == LevelError {
		lvl = slog.LevelWarn
	}
	n.Logger.Log(context.Background(), lvl, message, "notification", level.String())
}

const (
	msgLoginFailed        = "Invalid email or password"
	msgBackendUnavailable = "The service is unavailable, try again later"
	msgLoginInProgress    = "A sign-in is already in progress"
	msgPermissionsFailed  = "Could not load your permissions"
	msgLoggedOut          = "Session closed"
	msgRestored           = "Session restored"
	msgPermissionsLoaded  = "Permissions updated"
	msgStoreFailed        = "The session could not be saved on this device"
	msgSessionDiscarded   = "The saved session was unreadable, sign in again"
)
