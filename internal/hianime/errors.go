package hianime

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	KindUnavailable ErrorKind = "UPSTREAM_UNAVAILABLE"
	KindTimeout     ErrorKind = "UPSTREAM_TIMEOUT"
	KindStatus      ErrorKind = "UPSTREAM_STATUS"
	KindDecode      ErrorKind = "UPSTREAM_DECODE"

	// KindInvalidArgument is raised before any request is sent.
	KindInvalidArgument ErrorKind = "INVALID_ARGUMENT"
)

// GatewayError is returned by every failed Client call.
type GatewayError struct {
	Kind       ErrorKind
	Op         string
	StatusCode int
	Err        error
}

func (e *GatewayError) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("hianime %s: %s (status %d)", e.Op, e.Kind, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("hianime %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("hianime %s: %s", e.Op, e.Kind)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

func invalidArgument(op, message string) error {
	return &GatewayError{Kind: KindInvalidArgument, Op: op, Err: errors.New(message)}
}

func IsInvalidArgument(err error) bool {
	var gwErr *GatewayError
	return errors.As(err, &gwErr) && gwErr.Kind == KindInvalidArgument
}

func IsNotFound(err error) bool {
	var gwErr *GatewayError
	return errors.As(err, &gwErr) && gwErr.Kind == KindStatus && gwErr.StatusCode == http.StatusNotFound
}
