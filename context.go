package credguard

import "context"

type clientIDContextKey struct{}

// WithClientID attaches the caller's client identifier (typically the
// source address) to ctx. The Service rate-limits Authenticate, Login
// and IssueRecoveryToken per client when an identifier is present.
func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, clientIDContextKey{}, clientID)
}

// ClientIDFromContext returns the identifier set by [WithClientID], or
// the empty string.
func ClientIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	clientID, _ := ctx.Value(clientIDContextKey{}).(string)
	return clientID
}
