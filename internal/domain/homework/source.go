package homework

import "context"

// Source fetches the raw review payload for the window starting at from (unix seconds).
// Failures are reported as *Error of KindRequest.
type Source interface {
	Fetch(ctx context.Context, from int64) (any, error)
}
