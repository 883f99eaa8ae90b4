package github

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// TransportError is a network or process-level failure of a remote call.
// These are the only errors the executor retries.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteLogicalError is a structured GraphQL error payload returned with an
// otherwise successful transport response ("already exists", permission
// denied, ...). Retrying a semantically invalid mutation cannot succeed, so
// these surface immediately with the server message intact.
type RemoteLogicalError struct {
	Op      string
	Message string
}

func (e *RemoteLogicalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// classify wraps a raw client error as transport (retryable) or remote
// logical (terminal). The githubv4 client folds both failure modes into a
// single error value, so we discriminate on the error chain: anything that
// looks like the request never completed cleanly is transport.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if isTransport(err) {
		return &TransportError{Op: op, Err: err}
	}
	return &RemoteLogicalError{Op: op, Message: err.Error()}
}

func isTransport(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	// shurcooL/graphql reports non-2xx responses with this prefix; a 5xx
	// from the API gateway is worth another attempt.
	return strings.Contains(err.Error(), "non-200 OK status code")
}
