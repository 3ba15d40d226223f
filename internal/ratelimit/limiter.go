// Package ratelimit provides fixed-window request counting keyed per caller.
// Windows reset wholesale; a caller gets Max requests per Window.
package ratelimit

import "context"

type Limiter interface {
	// Allow reports whether the caller identified by key may proceed. The
	// counter is consumed even when the answer is false.
	Allow(ctx context.Context, key string) (bool, error)
}
