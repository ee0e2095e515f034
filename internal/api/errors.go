package api

import (
	"errors"
	"fmt"
)

// Kind classifies a failed API call. It is assigned exactly once, when the
// transport response (or lack of one) is normalized in Client.do; callers
// use it to pick user-facing copy, never to branch control flow.
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindTimeout
	KindAuth
	KindNotFound
	KindValidation
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is the single error type crossing the transport boundary.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	RawBody    string
	Cause      error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("api %s (status=%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// KindOf reports the Kind carried by err, or KindUnknown for any error
// that did not originate at the transport boundary.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

// UserMessage turns any error into one line suitable for a status bar.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ae *Error
	if !errors.As(err, &ae) {
		return err.Error()
	}
	switch ae.Kind {
	case KindNetwork:
		return "Cannot reach the instance. Check the URL and your connection."
	case KindTimeout:
		return "The instance took too long to respond. Try again."
	case KindAuth:
		return "API key was rejected. Run `flowdeck login` to update it."
	case KindNotFound:
		return "That resource no longer exists on the instance."
	case KindValidation:
		if ae.Message != "" {
			return "The instance rejected the request: " + ae.Message
		}
		return "The instance rejected the request."
	case KindServer:
		return "The instance reported an internal error. Try again later."
	default:
		if ae.Message != "" {
			return ae.Message
		}
		return "Unexpected error talking to the instance."
	}
}

func statusKind(status int) Kind {
	switch {
	case status == 401 || status == 403:
		return KindAuth
	case status == 404:
		return KindNotFound
	case status >= 500:
		return KindServer
	case status >= 400:
		return KindValidation
	default:
		return KindUnknown
	}
}
