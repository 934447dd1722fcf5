package http

import (
	"context"
	"net/http"

	"github.com/w-h-a/tutor/server"
)

// Middleware wraps the fully assembled API handler. Middlewares are
// applied in the order given, outermost first.
type Middleware func(h http.Handler) http.Handler

type middlewareKey struct{}

// WithMiddleware smuggles transport-specific middlewares through the
// transport-agnostic server options.
func WithMiddleware(ms ...Middleware) server.Option {
	return func(o *server.Options) {
		o.Context = context.WithValue(o.Context, middlewareKey{}, ms)
	}
}

func MiddlewareFrom(ctx context.Context) ([]Middleware, bool) {
	ms, ok := ctx.Value(middlewareKey{}).([]Middleware)
	return ms, ok
}
