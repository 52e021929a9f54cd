package auth

import (
	"context"

	"github.com/frahmantamala/pos-platform/internal"
)

type ctxKey string

const ContextActorKey ctxKey = "actor"

// Actor is the authenticated employee performing a request.
type Actor struct {
	EmployeeID  int64    `json:"id"`
	Name        string   `json:"name"`
	Role        Role     `json:"role"`
	Permissions []string `json:"permissions,omitempty"`
}

func (a Actor) IsSelf(employeeID int64) bool {
	return a.EmployeeID == employeeID
}

// HasPermission checks the role's permission set. Admins hold every permission.
func (a Actor) HasPermission(code string) bool {
	if a.Role.IsAdmin() {
		return true
	}
	for _, p := range a.Permissions {
		if p == code {
			return true
		}
	}
	return false
}

func (a Actor) HasAnyRole(roles ...Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

func ContextWithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, ContextActorKey, actor)
}

func ActorFromContext(ctx context.Context) (*Actor, bool) {
	if ctx == nil {
		return nil, false
	}
	actor, ok := ctx.Value(ContextActorKey).(*Actor)
	return actor, ok && actor != nil
}

// RequireActor returns the request's actor or an Unauthorized error.
func RequireActor(ctx context.Context) (Actor, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return Actor{}, internal.NewUnauthorizedError("Authentication required", internal.ErrCodeUnauthorizedAccess)
	}
	return *actor, nil
}
