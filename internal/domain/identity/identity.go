package identity

import "context"

// Provider resolves the member making the current call.
type Provider interface {
	CurrentUserID(ctx context.Context) (string, bool)
}

type ctxKey struct{}

// WithUserID returns a context carrying the caller's member id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// ContextProvider reads the id stored by WithUserID.
type ContextProvider struct{}

func (ContextProvider) CurrentUserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}

// Static always returns the same id; handy for jobs and tests.
type Static string

func (s Static) CurrentUserID(context.Context) (string, bool) { return string(s), s != "" }
