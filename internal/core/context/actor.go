package context

import "context"

// SystemActor is recorded when no caller identity is present (CLI, seeding).
const SystemActor = "system"

type actorKey struct{}

// WithActor stores the identity of the user driving a lifecycle transition.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// GetActor returns the caller identity or SystemActor.
func GetActor(ctx context.Context) string {
	if v, ok := ctx.Value(actorKey{}).(string); ok && v != "" {
		return v
	}
	return SystemActor
}
