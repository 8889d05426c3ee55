package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// UpstreamError marks failures of the external excursions API
// (fetch failure, non-2xx status, malformed payload).
type UpstreamError struct {
	Endpoint string
	Status   int
	Msg      string
	Err      error
}

func (e UpstreamError) Error() string {
	switch {
	case e.Msg != "" && e.Endpoint != "":
		return fmt.Sprintf("upstream %s: %s", e.Endpoint, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Endpoint != "" && e.Status > 0:
		return fmt.Sprintf("upstream %s returned status %d", e.Endpoint, e.Status)
	case e.Endpoint != "":
		return fmt.Sprintf("upstream %s failed", e.Endpoint)
	default:
		return "upstream error"
	}
}

func (e UpstreamError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsUpstream(err error) bool {
	var target UpstreamError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
