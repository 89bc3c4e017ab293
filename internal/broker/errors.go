package broker

import (
	"context"
	"fmt"
)

// BrokerError covers transport failures, HTTP level errors and rejections
// reported by the brokerage itself.
type BrokerError struct {
	Message    string
	Code       string
	StatusCode int
	Err        error
}

func (e *BrokerError) Error() string {
	switch {
	case e.Code != "" && e.StatusCode != 0:
		return fmt.Sprintf("broker: %s (code %s, http %d)", e.Message, e.Code, e.StatusCode)
	case e.Code != "":
		return fmt.Sprintf("broker: %s (code %s)", e.Message, e.Code)
	case e.StatusCode != 0:
		return fmt.Sprintf("broker: %s (http %d)", e.Message, e.StatusCode)
	}
	return "broker: " + e.Message
}

func (e *BrokerError) Unwrap() error {
	return e.Err
}

// SessionError means no valid brokerage session could be obtained. No
// further call on the same session can succeed until a login does.
type SessionError struct {
	Err error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("broker session unavailable: %v", e.Err)
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

// TimeoutError is returned when the caller's deadline elapsed while waiting
// for the session, the pacing gate or the brokerage itself.
type TimeoutError struct {
	Op string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("broker %s: timed out", e.Op)
}

func (e *TimeoutError) Timeout() bool {
	return true
}

func (e *TimeoutError) Unwrap() error {
	return context.DeadlineExceeded
}
