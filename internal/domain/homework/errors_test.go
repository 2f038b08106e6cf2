package homework_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"homework_notification_bot/internal/domain/homework"
)

func TestError_RequestMessage(t *testing.T) {
	err := &homework.Error{Kind: homework.KindRequest, Endpoint: "https://api.test/hw", StatusCode: 503}
	assert.Equal(t, "request to https://api.test/hw failed with status 503", err.Error())

	cause := errors.New("connection reset")
	err = &homework.Error{Kind: homework.KindRequest, Endpoint: "https://api.test/hw", Err: cause}
	assert.Equal(t, "request to https://api.test/hw failed: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestKindOf_Wrapped(t *testing.T) {
	inner := &homework.Error{Kind: homework.KindDeliveryAuth, Op: "send message", Err: errors.New("Unauthorized")}
	wrapped := fmt.Errorf("notify: %w", inner)

	assert.Equal(t, homework.KindDeliveryAuth, homework.KindOf(wrapped))
	assert.True(t, homework.IsFatal(wrapped))
	assert.False(t, homework.IsFatal(errors.New("plain")))
	assert.Equal(t, homework.Kind(0), homework.KindOf(errors.New("plain")))
}

func TestKind_Notifiable(t *testing.T) {
	assert.True(t, homework.KindRequest.Notifiable())
	assert.True(t, homework.KindMalformedResponse.Notifiable())
	assert.True(t, homework.KindMissingField.Notifiable())
	assert.True(t, homework.KindUnknownStatus.Notifiable())
	assert.False(t, homework.KindDelivery.Notifiable())
	assert.False(t, homework.KindDeliveryAuth.Notifiable())
}

func TestIdentity(t *testing.T) {
	a := &homework.Error{Kind: homework.KindRequest, Endpoint: "e", StatusCode: 503}
	b := &homework.Error{Kind: homework.KindRequest, Endpoint: "e", StatusCode: 503}
	c := &homework.Error{Kind: homework.KindRequest, Endpoint: "e", StatusCode: 502}

	assert.Equal(t, homework.Identity(a), homework.Identity(b))
	assert.NotEqual(t, homework.Identity(a), homework.Identity(c))
	assert.Equal(t, "request_failure: request to e failed with status 503", homework.Identity(a))
}
