package core

import "context"

// Context keys for run options
type contextKey string

const (
	suppressIssuesKey contextKey = "suppressIssues"
)

// withSuppressIssues marks the context so scoring issues are not logged to stderr.
// The MCP server uses this because diagnostics travel in the tool result instead.
func withSuppressIssues(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressIssuesKey, true)
}

// WithSuppressIssues is the exported form of withSuppressIssues.
func WithSuppressIssues(ctx context.Context) context.Context {
	return withSuppressIssues(ctx)
}

// shouldSuppressIssues returns whether issue logging is disabled for this context
func shouldSuppressIssues(ctx context.Context) bool {
	val := ctx.Value(suppressIssuesKey)
	if val == nil {
		return false // default: log issues
	}
	suppress, ok := val.(bool)
	return ok && suppress
}
