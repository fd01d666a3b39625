package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net"
)

const fallbackMessage = "Something went wrong"

// Error is the single failure shape returned by every facade call. StatusCode is 0 when
// no response was received (network failure or timeout).
type Error struct {
	StatusCode      int
	FriendlyMessage string
	Errors          map[string][]string
	Err             error
}

func (e *Error) Error() string {
	return e.FriendlyMessage
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Status() int {
	return e.StatusCode
}

func (e *Error) Friendly() string {
	return e.FriendlyMessage
}

func (e *Error) FieldErrors() map[string][]string {
	return e.Errors
}

func (e *Error) HasFieldErrors() bool {
	return len(e.Errors) > 0
}

// FirstFieldError returns the first message recorded for field, or "".
func (e *Error) FirstFieldError(field string) string {
	if msgs := e.Errors[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

func (e *Error) IsTimeout() bool {
	if e.Err == nil {
		return false
	}
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

func (e *Error) IsNetwork() bool {
	return e.StatusCode == 0
}

// AsError unwraps err into *Error when it is one.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

type errorPayload struct {
	Message string              `json:"message"`
	Detail  string              `json:"detail"`
	Errors  map[string][]string `json:"errors"`
}

func fromTransport(err error) *Error {
	msg := fallbackMessage
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &Error{FriendlyMessage: msg, Err: err}
}

func fromResponse(status int, payload errorPayload) *Error {
	msg := payload.Message
	if msg == "" {
		msg = payload.Detail
	}
	if msg == "" {
		msg = fmt.Sprintf("Request failed with status code %d", status)
	}
	var fields map[string][]string
	if len(payload.Errors) > 0 {
		fields = payload.Errors
	}
	return &Error{
		StatusCode:      status,
		FriendlyMessage: msg,
		Errors:          fields,
	}
}
