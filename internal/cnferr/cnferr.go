// Package cnferr holds the error taxonomy of the normalizer. Notably, it
// contains the Error type, which can be created with one or more 'cause'
// errors. Calling errors.Is() on an Error with any of its causes as the
// argument returns true.
//
// It also holds errors meant to be shown to an operator of the interactive
// shell, which carry a human-readable message in addition to the technical
// one.
package cnferr

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRule is the cause of every error caused by rule text that
	// lacks the "->" separator or that references an undeclared symbol.
	ErrMalformedRule = errors.New("malformed production rule")

	// ErrEmptyLanguage is the cause of the error returned when the start
	// symbol of a grammar cannot derive any terminal string.
	ErrEmptyLanguage = errors.New("grammar does not generate any strings (start symbol is not productive)")

	// ErrNameCollision is the cause of the error returned when a freshly
	// generated nonterminal coincides with an existing symbol. It indicates a
	// broken internal invariant.
	ErrNameCollision = errors.New("generated nonterminal collides with an existing symbol")

	// ErrInvalidGrammar is the cause of errors from constructing a grammar
	// whose declared symbol sets are inconsistent.
	ErrInvalidGrammar = errors.New("invalid grammar declaration")
)

// Error is a typed error returned by the grammar and normalize packages. It
// contains both a message explaining what happened as well as one or more
// error values it considers to be its causes. Calling errors.Is on an Error
// along with any of its causes will return true.
//
// If Error has at least one cause defined, the result of calling Error.Error()
// will be its primary message with the result of calling Error() on its first
// cause appended to it.
//
// Error should not be used directly; call New to create one.
type Error struct {
	msg   string
	cause []error
}

// Error returns the message defined for the Error, concatenated with the
// message of its first cause if one is defined.
func (e Error) Error() string {
	if e.msg == "" && e.cause != nil {
		return e.cause[0].Error()
	}

	if e.cause != nil {
		return e.msg + ": " + e.cause[0].Error()
	}

	return e.msg
}

// Unwrap returns the causes of Error. The return value will be nil if no causes
// were defined for it.
func (e Error) Unwrap() []error {
	if len(e.cause) > 0 {
		return e.cause
	}
	return nil
}

// Is returns whether one of the causes of e is target.
func (e Error) Is(target error) bool {
	for i := range e.cause {
		if e.cause[i] == target {
			return true
		}
	}
	return false
}

// New creates a new Error with the given message, along with any errors it
// should wrap as its causes.
func New(msg string, causes ...error) Error {
	err := Error{msg: msg}
	if len(causes) > 0 {
		err.cause = make([]error, len(causes))
		copy(err.cause, causes)
	}
	return err
}

// Malformed returns an Error caused by ErrMalformedRule with a message built
// from the format string and arguments.
func Malformed(format string, a ...interface{}) Error {
	return New(fmt.Sprintf(format, a...), ErrMalformedRule)
}

// interpreterError is an error caused by attempting to interpret shell input.
// Either the input could not be understood or it asks for something that is
// impossible at the current time.
type interpreterError struct {
	msg   string
	human string
	wrap  error
}

func (e *interpreterError) Error() string {
	return e.msg
}

// HumanMessage is the message to show at the shell.
func (e *interpreterError) HumanMessage() string {
	return e.human
}

func (e *interpreterError) Unwrap() error {
	return e.wrap
}

// Interpreter returns a new error that has both the message to show the
// operator and the technical description of the error.
func Interpreter(human, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("got InterpreterError(%q)", human)
	}
	return &interpreterError{
		msg:   technical,
		human: human,
	}
}

// Interpreterf is like Interpreter but formats the human message and
// generates the technical one.
func Interpreterf(humanFormat string, a ...interface{}) error {
	return Interpreter(fmt.Sprintf(humanFormat, a...), "")
}

// WrapInterpreterf returns a new interpreter error that wraps e and has a
// formatted human message.
func WrapInterpreterf(e error, humanFormat string, a ...interface{}) error {
	human := fmt.Sprintf(humanFormat, a...)
	return &interpreterError{
		msg:   fmt.Sprintf("%s: %v", human, e),
		human: human,
		wrap:  e,
	}
}

// Message gets the message to display at the shell for the given error. If it
// is an interpreter error, its human message is returned. Otherwise,
// err.Error() is returned.
func Message(err error) string {
	var intErr *interpreterError
	if errors.As(err, &intErr) {
		return intErr.HumanMessage()
	}
	return err.Error()
}
