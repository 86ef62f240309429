package domain

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeConfig           ErrorCode = "CONFIG"
	CodeInvalidArgument  ErrorCode = "INVALID_ARGUMENT"
	CodeNetwork          ErrorCode = "NETWORK"
	CodeDeadlineExceeded ErrorCode = "DEADLINE_EXCEEDED"
	CodeRemote           ErrorCode = "REMOTE"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeUnauthenticated  ErrorCode = "UNAUTHENTICATED"
	CodeInternal         ErrorCode = "INTERNAL"
)

type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
	Meta    map[string]string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.Op == "" {
		if msg == "" {
			return string(e.Code)
		}
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	if msg == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, msg)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func E(code ErrorCode, op, msg string, cause error) *Error {
	if msg == "" && cause != nil {
		msg = cause.Error()
	}
	return &Error{
		Code:    code,
		Op:      op,
		Message: msg,
		Cause:   cause,
	}
}

func Wrap(code ErrorCode, op string, err error) *Error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		if existing.Op != "" || op == "" {
			return existing
		}
		return &Error{
			Code:    existing.Code,
			Op:      op,
			Message: existing.Message,
			Cause:   existing.Cause,
			Meta:    existing.Meta,
		}
	}
	return E(code, op, "", err)
}

// CodeFrom extracts the error code, defaulting to CodeInternal for
// errors that did not originate in this module.
func CodeFrom(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var domainErr *Error
	if errors.As(err, &domainErr) && domainErr.Code != "" {
		return domainErr.Code
	}
	return CodeInternal
}

// MetaFrom returns the metadata attached to a domain error, if any.
func MetaFrom(err error) map[string]string {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Meta
	}
	return nil
}
