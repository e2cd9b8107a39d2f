package document

import (
	"context"
	"errors"

	errorslib "github.com/goliatone/go-errors"
)

// ErrorKind defines document error kinds.
type ErrorKind string

const (
	KindInvalidRequest  ErrorKind = "invalid_request"
	KindUnsupportedType ErrorKind = "unsupported_document_type"
	KindRenderFailure   ErrorKind = "render_failure"
	KindUnauthorized    ErrorKind = "unauthorized"
	KindTimeout         ErrorKind = "timeout"
	KindCanceled        ErrorKind = "canceled"
	KindInternal        ErrorKind = "internal"
	KindNotImpl         ErrorKind = "not_implemented"
)

// DocumentError wraps errors with a kind.
type DocumentError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *DocumentError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// NewError creates a new document error.
func NewError(kind ErrorKind, msg string, err error) *DocumentError {
	return &DocumentError{Kind: kind, Msg: msg, Err: err}
}

// KindFromError maps an error to its document error kind.
func KindFromError(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var docErr *DocumentError
	if errors.As(err, &docErr) {
		return docErr.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}

	return KindInternal
}

// IsInvalidRequest reports whether err is an invalid request, including an
// unsupported document type.
func IsInvalidRequest(err error) bool {
	switch KindFromError(err) {
	case KindInvalidRequest, KindUnsupportedType:
		return true
	default:
		return false
	}
}

// IsRenderFailure reports whether err came from a rendering backend.
func IsRenderFailure(err error) bool {
	return KindFromError(err) == KindRenderFailure
}

// AsGoError maps an error into a go-errors error.
func AsGoError(err error) *errorslib.Error {
	if err == nil {
		return nil
	}

	var ge *errorslib.Error
	if errors.As(err, &ge) {
		return ge
	}

	kind := KindFromError(err)
	msg := err.Error()

	var docErr *DocumentError
	if errors.As(err, &docErr) && docErr.Msg != "" {
		msg = docErr.Msg
	}

	switch kind {
	case KindInvalidRequest:
		return errorslib.New(msg, errorslib.CategoryValidation).WithTextCode("invalid_request")
	case KindUnsupportedType:
		return errorslib.New(msg, errorslib.CategoryValidation).WithTextCode("unsupported_document_type")
	case KindUnauthorized:
		return errorslib.New(msg, errorslib.CategoryAuthz).WithTextCode("unauthorized")
	case KindRenderFailure:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("render_failure")
	case KindTimeout:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("timeout")
	case KindCanceled:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("canceled")
	case KindNotImpl:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("not_implemented")
	default:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode("internal")
	}
}
