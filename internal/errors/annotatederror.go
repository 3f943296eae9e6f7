// Package errors is a drop-in replacement for the standard library errors package that records where an error was
// created or wrapped together with structured [slog.Attr] annotations. Use [SlogError] to log the result.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
)

type sentinel struct {
	msg string
}

func (s *sentinel) Error() string {
	return s.msg
}

type annotatedError struct {
	cause  error
	msg    string
	attrs  []slog.Attr
	source string
}

func (e *annotatedError) Error() string {
	switch {
	case e.cause == nil:
		return e.msg
	case e.msg == "":
		return e.cause.Error()
	default:
		return e.msg + ": " + e.cause.Error()
	}
}

func (e *annotatedError) Unwrap() error {
	return e.cause
}

// NewSentinel creates an error meant to be compared with [Is]. No source location is recorded.
func NewSentinel(msg string) error {
	return &sentinel{msg: msg}
}

// New creates an error annotated with attrs and the location of the caller.
func New(msg string, attrs ...slog.Attr) error {
	return &annotatedError{cause: nil, msg: msg, attrs: attrs, source: callerSource(3)} //nolint:mnd // skip New.
}

// Wrap annotates err with msg, attrs and the location of the caller. Wrap returns nil if err is nil.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	return &annotatedError{cause: err, msg: msg, attrs: attrs, source: callerSource(3)} //nolint:mnd // skip Wrap.
}

// DecoratePanic converts a recovered panic value into an error pointing to the line that panicked.
// It returns nil if excp is nil.
func DecoratePanic(excp any) error {
	if excp == nil {
		return nil
	}
	var cause error
	if err, ok := excp.(error); ok {
		cause = err
	} else {
		cause = &sentinel{msg: fmt.Sprint(excp)}
	}
	return &annotatedError{cause: cause, msg: "panic", attrs: nil, source: panicSource()}
}

// SlogError renders err as a slog group containing the message, all annotations found in the error tree and the
// source location of the innermost annotated error.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	var (
		annotations []any
		source      string
	)
	walk(err, func(e error) {
		ae, ok := e.(*annotatedError)
		if !ok {
			return
		}
		for _, a := range ae.attrs {
			annotations = append(annotations, a)
		}
		if ae.source != "" {
			source = ae.source
		}
	})
	args := []any{slog.String("message", err.Error())}
	if len(annotations) > 0 {
		args = append(args, slog.Group("annotations", annotations...))
	}
	if source != "" {
		args = append(args, slog.String("source", source))
	}
	return slog.Group("error", args...)
}

func walk(err error, visit func(error)) {
	if err == nil {
		return
	}
	visit(err)
	switch x := err.(type) { //nolint:errorlint // we are traversing the tree ourselves.
	case interface{ Unwrap() []error }:
		for _, e := range x.Unwrap() {
			walk(e, visit)
		}
	case interface{ Unwrap() error }:
		walk(x.Unwrap(), visit)
	}
}

func callerSource(skip int) string {
	var pcs [1]uintptr
	if runtime.Callers(skip, pcs[:]) == 0 {
		return ""
	}
	frame, _ := runtime.CallersFrames(pcs[:]).Next()
	return fmt.Sprintf("%s:%d", frame.File, frame.Line)
}

// panicSource finds the frame right after runtime.gopanic, which is where panic was called.
func panicSource() string {
	pcs := make([]uintptr, 32) //nolint:mnd // deep enough for deferred recover chains.
	n := runtime.Callers(3, pcs) //nolint:mnd // skip DecoratePanic.
	frames := runtime.CallersFrames(pcs[:n])
	panicking := false
	fallback := ""
	for {
		frame, more := frames.Next()
		if fallback == "" {
			fallback = fmt.Sprintf("%s:%d", frame.File, frame.Line)
		}
		if panicking && !strings.HasPrefix(frame.Function, "runtime.") {
			return fmt.Sprintf("%s:%d", frame.File, frame.Line)
		}
		if frame.Function == "runtime.gopanic" {
			panicking = true
		}
		if !more {
			return fallback
		}
	}
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Join returns an error that wraps the given errors.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
