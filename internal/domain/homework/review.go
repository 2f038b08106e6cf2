// internal/domain/homework/review.go
package homework

import (
	"fmt"
	"reflect"
)

// Status is the review verdict reported by the API.
type Status string

const (
	StatusApproved  Status = "approved"
	StatusReviewing Status = "reviewing"
	StatusRejected  Status = "rejected"
)

// Field names of a review record in the API payload.
const (
	FieldName   = "homework_name"
	FieldStatus = "status"
)

// verdicts maps every known status to the sentence sent to the chat.
// A new status only needs a new entry here.
var verdicts = map[Status]string{
	StatusApproved:  "The work has been reviewed: the reviewer liked everything. Hooray!",
	StatusReviewing: "The work has been taken for review by the reviewer.",
	StatusRejected:  "The work has been reviewed: the reviewer has comments.",
}

// Verdict returns the text for a known status.
func Verdict(s Status) (string, bool) {
	v, ok := verdicts[s]
	return v, ok
}

// Review is a single homework record exactly as decoded from the API.
// Fields besides homework_name and status are kept so that change
// detection compares whole records.
type Review map[string]any

// Name returns homework_name when it is present and a string.
func (r Review) Name() (string, bool) {
	v, ok := r[FieldName].(string)
	return v, ok
}

// Status returns the status field when it is present and a string.
func (r Review) Status() (Status, bool) {
	v, ok := r[FieldStatus].(string)
	return Status(v), ok
}

// SameReviews compares two batches by value.
func SameReviews(a, b []Review) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// ParseStatus renders the chat message for a review record.
func ParseStatus(r Review) (string, error) {
	name, ok := r.Name()
	if !ok {
		return "", &Error{Kind: KindMissingField, Op: "parse status", Err: fmt.Errorf("review has no %q field", FieldName)}
	}
	status, ok := r.Status()
	if !ok {
		return "", &Error{Kind: KindMissingField, Op: "parse status", Err: fmt.Errorf("review %q has no %q field", name, FieldStatus)}
	}
	verdict, ok := Verdict(status)
	if !ok {
		return "", &Error{Kind: KindUnknownStatus, Op: "parse status", Err: fmt.Errorf("unknown review status %q", status)}
	}
	return fmt.Sprintf(`Changed status of review "%s". %s`, name, verdict), nil
}
