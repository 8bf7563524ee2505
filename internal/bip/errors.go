package bip

import (
	"errors"
	"fmt"
)

// Error kinds, all terminal; the adapter never retries. Match with
// errors.Is against a *CallError.
var (
	ErrNetwork           = errors.New("network error")
	ErrHTTP              = errors.New("http error")
	ErrServerFault       = errors.New("server fault")
	ErrMalformedResponse = errors.New("malformed response")
	ErrMalformedReport   = errors.New("malformed report xml")
	ErrEmptyPayload      = errors.New("empty payload")
)

// CallError is the single error shape every failed execution yields. A
// call produces exactly a result or exactly a CallError, never both.
type CallError struct {
	Kind    error
	Message string
	Status  int
	Err     error
}

func (e *CallError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (HTTP %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CallError) Is(target error) bool { return target == e.Kind }

func (e *CallError) Unwrap() error { return e.Err }

func networkError(msg string, err error) *CallError {
	return &CallError{Kind: ErrNetwork, Message: msg, Err: err}
}

func httpError(status int, msg string) *CallError {
	return &CallError{Kind: ErrHTTP, Status: status, Message: msg}
}

func serverFault(msg string) *CallError {
	return &CallError{Kind: ErrServerFault, Message: msg}
}

func malformedResponse(err error) *CallError {
	return &CallError{Kind: ErrMalformedResponse, Message: "response is not well-formed XML", Err: err}
}

func malformedReportXML(err error) *CallError {
	return &CallError{Kind: ErrMalformedReport, Message: "report payload is not well-formed XML", Err: err}
}

func emptyPayload() *CallError {
	return &CallError{
		Kind:    ErrEmptyPayload,
		Message: "no report payload in response; the report may be empty or the user may lack permission",
	}
}
