package runtime

import (
	"errors"
	"fmt"

	"github.com/jeronimonunes/simple-compiler/pkg/ast"
)

// ErrorKind names one of the engine's failure categories.
type ErrorKind string

const (
	RedeclarationError     ErrorKind = "RedeclarationError"
	UndeclaredNameError    ErrorKind = "UndeclaredNameError"
	TypeMismatchError      ErrorKind = "TypeMismatchError"
	ReadFormatError        ErrorKind = "ReadFormatError"
	RecursionLimitExceeded ErrorKind = "RecursionLimitExceeded"
	DivisionByZeroError    ErrorKind = "DivisionByZeroError"
)

// Error is the single error type raised by both backends. Name carries the
// identifier involved when there is one.
type Error struct {
	Kind    ErrorKind
	Name    string
	Message string
	Span    ast.Span
}

func (e *Error) Error() string {
	if e.Span.IsZero() {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s at %d:%d: %s", e.Kind, e.Span.Start.Line, e.Span.Start.Column, e.Message)
}

// Is matches any *Error of the same kind, so the sentinels below work with
// errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrRedeclaration  = &Error{Kind: RedeclarationError}
	ErrUndeclaredName = &Error{Kind: UndeclaredNameError}
	ErrTypeMismatch   = &Error{Kind: TypeMismatchError}
	ErrReadFormat     = &Error{Kind: ReadFormatError}
	ErrRecursionLimit = &Error{Kind: RecursionLimitExceeded}
	ErrDivisionByZero = &Error{Kind: DivisionByZeroError}
)

// KindOf extracts the engine error kind from err ("" when err is not an
// engine error).
func KindOf(err error) ErrorKind {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Kind
	}
	return ""
}

// WithSpan attaches a source location to an engine error that has none yet.
// Other errors are returned unchanged.
func WithSpan(err error, node ast.Node) error {
	if err == nil || node == nil {
		return err
	}
	var rerr *Error
	if !errors.As(err, &rerr) || !rerr.Span.IsZero() {
		return err
	}
	span := node.Span()
	if span.IsZero() {
		return err
	}
	rerr.Span = span
	return err
}

func newError(kind ErrorKind, name, format string, args ...any) *Error {
	return &Error{Kind: kind, Name: name, Message: fmt.Sprintf(format, args...)}
}

func NewRedeclaration(namespace, name string) error {
	return newError(RedeclarationError, name, "%s %s has been declared before in this scope", namespace, name)
}

// NewNameCollision reports two distinct names that translate to the same
// target-language identifier.
func NewNameCollision(name, other, translated string) error {
	return newError(RedeclarationError, name, "%s and %s both translate to %s", other, name, translated)
}

func NewUndeclared(namespace, name string) error {
	return newError(UndeclaredNameError, name, "%s %s is not declared", namespace, name)
}

func NewUnassigned(name string) error {
	return newError(UndeclaredNameError, name, "variable %s has no value", name)
}

func NewTypeMismatch(format string, args ...any) error {
	return newError(TypeMismatchError, "", format, args...)
}

func NewReadFormat(name string, t ast.PrimitiveType) error {
	return newError(ReadFormatError, name, "it was not possible to read the input as %s into %s", t, name)
}

func NewRecursionLimit(name string, limit int) error {
	return newError(RecursionLimitExceeded, name, "call to %s exceeds the maximum call depth of %d", name, limit)
}

func NewDivisionByZero() error {
	return newError(DivisionByZeroError, "", "division by zero")
}
