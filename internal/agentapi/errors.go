package agentapi

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport marks failures below HTTP: DNS, refused connections, timeouts.
	ErrTransport = errors.New("agentapi: transport failure")
	// ErrStatus marks responses with a non-2xx status code.
	ErrStatus = errors.New("agentapi: unexpected status")
	// ErrMalformed marks response bodies that are not the expected JSON shape.
	ErrMalformed = errors.New("agentapi: malformed response")
)

// StatusError carries the status code and a compacted body excerpt.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: http %d", e.Endpoint, e.Code)
	}
	return fmt.Sprintf("%s: http %d: %s", e.Endpoint, e.Code, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrStatus }
