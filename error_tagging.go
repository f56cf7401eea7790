package conut

import (
	"errors"
	"fmt"
)

// PipeMetaError is implemented by errors that carry the pipe-nut index
// and owning coroutine class they originated from, so a sync failure
// reaching application code can be correlated back to its source with
// errors.As instead of threading that context through every call site.
type PipeMetaError interface {
	error
	PipeIndex() int
	ClassName() string
}

type pipeTaggedError struct {
	err       error
	pipeIndex int
	className string
}

func (e *pipeTaggedError) Error() string {
	return fmt.Sprintf("%s pipe[%d]: %v", e.className, e.pipeIndex, e.err)
}

func (e *pipeTaggedError) Unwrap() error { return e.err }

func (e *pipeTaggedError) PipeIndex() int { return e.pipeIndex }

func (e *pipeTaggedError) ClassName() string { return e.className }

// TagPipeError wraps err with the pipe-nut index and coroutine class name
// it originated from. Returns nil if err is nil.
func TagPipeError(err error, className string, pipeIndex int) error {
	if err == nil {
		return nil
	}
	return &pipeTaggedError{err: err, pipeIndex: pipeIndex, className: className}
}

// ExtractPipeIndex returns the pipe-nut index embedded in err, if any.
func ExtractPipeIndex(err error) (int, bool) {
	var pe PipeMetaError
	if errors.As(err, &pe) {
		return pe.PipeIndex(), true
	}
	return 0, false
}

// ExtractClassName returns the coroutine class name embedded in err, if any.
func ExtractClassName(err error) (string, bool) {
	var pe PipeMetaError
	if errors.As(err, &pe) {
		return pe.ClassName(), true
	}
	return "", false
}
