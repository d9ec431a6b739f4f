package service

import "fmt"

// ErrorKind classifies pipeline failures for HTTP mapping.
type ErrorKind string

// ErrorKind constants cover every user-visible failure of the pipeline.
const (
	KindInvalidInput     ErrorKind = "INVALID_INPUT"
	KindUnresolvableURL  ErrorKind = "UNRESOLVABLE_URL"
	KindVideoUnavailable ErrorKind = "VIDEO_UNAVAILABLE"
	KindNoContent        ErrorKind = "NO_CONTENT"
	KindGenerationFailed ErrorKind = "GENERATION_FAILED"
	KindDuplicateRequest ErrorKind = "DUPLICATE_REQUEST"
	KindNotFound         ErrorKind = "NOT_FOUND"
	KindInternal         ErrorKind = "INTERNAL"
)

// PipelineError is a classified failure of the processing pipeline. The
// message is safe to return to the caller; the cause is only logged.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type PipelineError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

func newError(kind ErrorKind, message string, cause error) *PipelineError {
	return &PipelineError{Kind: kind, Message: message, Cause: cause}
}

// KindOf returns the error kind of a pipeline error, or KindInternal for
// anything else.
func KindOf(err error) ErrorKind {
	if pe, ok := err.(*PipelineError); ok {
		return pe.Kind
	}
	return KindInternal
}
