// internal/domain/homework/errors.go
package homework

import (
	"errors"
	"fmt"
)

// Kind classifies every failure the poll loop can observe.
type Kind int

const (
	KindRequest           Kind = iota + 1 // API unreachable, non-200 status or undecodable body
	KindMalformedResponse                 // API answered 200 with an unexpected shape
	KindMissingField                      // review record lacks homework_name or status
	KindUnknownStatus                     // status not present in the verdict table
	KindDelivery                          // Telegram refused or failed to deliver a message
	KindDeliveryAuth                      // Telegram rejected the bot credential (fatal)
)

func (k Kind) String() string {
	switch k {
	case KindRequest:
		return "request_failure"
	case KindMalformedResponse:
		return "malformed_response"
	case KindMissingField:
		return "missing_field"
	case KindUnknownStatus:
		return "unknown_status"
	case KindDelivery:
		return "delivery"
	case KindDeliveryAuth:
		return "delivery_auth"
	default:
		return "unknown"
	}
}

// Notifiable reports whether errors of this kind should be forwarded to the chat.
// Delivery failures are never forwarded: the channel itself is the problem.
func (k Kind) Notifiable() bool {
	switch k {
	case KindRequest, KindMalformedResponse, KindMissingField, KindUnknownStatus:
		return true
	default:
		return false
	}
}

// Error is the single error type produced by the bot's components.
type Error struct {
	Kind       Kind
	Op         string
	Endpoint   string // set for KindRequest
	StatusCode int    // HTTP status for KindRequest, 0 when no response was received
	Err        error
}

func (e *Error) Error() string {
	if e.Kind == KindRequest {
		msg := fmt.Sprintf("request to %s failed", e.Endpoint)
		if e.StatusCode != 0 {
			msg = fmt.Sprintf("%s with status %d", msg, e.StatusCode)
		}
		if e.Err != nil {
			msg = fmt.Sprintf("%s: %v", msg, e.Err)
		}
		return msg
	}
	if e.Op == "" {
		return fmt.Sprint(e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsFatal reports whether err must stop the poll loop.
func IsFatal(err error) bool {
	return KindOf(err) == KindDeliveryAuth
}

// Identity is the key used to deduplicate error notifications.
func Identity(err error) string {
	return fmt.Sprintf("%s: %v", KindOf(err), err)
}
