package internal

import (
	"context"
	"time"

	"github.com/upca/personnel-console/internal/core/access"
)

type ctxKey string

const (
	ContextUserKey      ctxKey = "userID"
	ContextPrincipalKey ctxKey = "principal"
)

// Principal is the authenticated identity of a request together with the
// permission records loaded for it.
type Principal struct {
	ID          string          `json:"id"`
	Email       string          `json:"email"`
	Role        access.Role     `json:"role"`
	Permissions []access.Record `json:"permissions"`
}

func (p *Principal) Can(module access.Module, action access.Action) bool {
	if p == nil {
		return false
	}
	return access.HasPermission(p.Role, p.Permissions, module, action)
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role.IsAdmin()
}

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if userID, ok := ctx.Value(ContextUserKey).(string); ok {
		return userID
	}
	return ""
}

func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ContextUserKey, userID)
}

func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	ctx = ContextWithUserID(ctx, p.ID)
	return context.WithValue(ctx, ContextPrincipalKey, p)
}

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	if ctx == nil {
		return nil, false
	}
	p, ok := ctx.Value(ContextPrincipalKey).(*Principal)
	return p, ok && p != nil
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
