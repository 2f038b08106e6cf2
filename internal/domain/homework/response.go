// internal/domain/homework/response.go
package homework

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Top-level keys of the API response.
const (
	KeyHomeworks   = "homeworks"
	KeyCurrentDate = "current_date"
)

// Batch is a validated API response.
type Batch struct {
	Reviews     []Review
	CurrentDate int64 // cursor for the next poll
}

// CheckResponse validates a decoded API payload before any field of it is used.
func CheckResponse(payload any) (Batch, error) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return Batch{}, malformed(fmt.Errorf("response is %T, not a JSON object", payload))
	}

	rawHomeworks, ok := obj[KeyHomeworks]
	if !ok {
		return Batch{}, malformed(fmt.Errorf("response has no %q key", KeyHomeworks))
	}
	rawDate, ok := obj[KeyCurrentDate]
	if !ok {
		return Batch{}, malformed(fmt.Errorf("response has no %q key", KeyCurrentDate))
	}

	list, ok := rawHomeworks.([]any)
	if !ok {
		return Batch{}, malformed(fmt.Errorf("%q is %T, not an array", KeyHomeworks, rawHomeworks))
	}
	reviews := make([]Review, 0, len(list))
	for i, item := range list {
		rec, ok := item.(map[string]any)
		if !ok {
			return Batch{}, malformed(fmt.Errorf("%s[%d] is %T, not an object", KeyHomeworks, i, item))
		}
		reviews = append(reviews, Review(rec))
	}

	date, err := toInt64(rawDate)
	if err != nil {
		return Batch{}, malformed(fmt.Errorf("%q: %w", KeyCurrentDate, err))
	}

	return Batch{Reviews: reviews, CurrentDate: date}, nil
}

func malformed(err error) error {
	return &Error{Kind: KindMalformedResponse, Op: "check response", Err: err}
}

var errNotInteger = errors.New("not an integer")

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case json.Number:
		return n.Int64()
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, errNotInteger
		}
		return int64(n), nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %T", errNotInteger, v)
	}
}
