package analyzer

import (
	"context"
	"errors"
	"fmt"
)

// ErrorPrefix starts every analysis error shown to a user.
const ErrorPrefix = "Error in analysis: "

type ErrorKind string

const (
	KindInvalid  ErrorKind = "invalid"
	KindEncode   ErrorKind = "encode"
	KindGenerate ErrorKind = "generate"
	KindDecode   ErrorKind = "decode"
	KindCanceled ErrorKind = "canceled"
)

// Error is the failure half of an analysis outcome. Analyze returns either a
// Result or an *Error, never both.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, err error) *Error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		kind = KindCanceled
	}
	return &Error{Kind: kind, Err: err}
}

// KindOf reports the kind of an analysis error; errors that did not come from
// Analyze are reported as generate failures.
func KindOf(err error) ErrorKind {
	var aerr *Error
	if errors.As(err, &aerr) {
		return aerr.Kind
	}
	return KindGenerate
}

// DisplayMessage renders err the way the form and CLI show it.
func DisplayMessage(err error) string {
	var aerr *Error
	if errors.As(err, &aerr) {
		return ErrorPrefix + aerr.Err.Error()
	}
	return ErrorPrefix + err.Error()
}
