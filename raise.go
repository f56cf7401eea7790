package conut

import "fmt"

// Label names a declared non-local-transfer target within a coroutine.
type Label string

// Completion is how an exception handler asks control to continue once
// it returns. Catch hands it back to its caller, which acts on it; the
// only one Catch acts on itself is CompletionTerminateProcess, which it
// records on the coroutine for the scheduler.
type Completion int

const (
	// CompletionResumeEventLoop re-enters the coroutine's event loop.
	CompletionResumeEventLoop Completion = iota
	// CompletionTerminateCoroutine ends this coroutine.
	CompletionTerminateCoroutine
	// CompletionTerminateProcess ends this coroutine and asks the
	// scheduler to stop scheduling any further coroutine.
	CompletionTerminateProcess
	// CompletionFallThrough continues execution at the statement after
	// the Catch call.
	CompletionFallThrough
)

type raised struct {
	label Label
	value any
}

// Raise transfers control directly to label's handler within the
// innermost enclosing Catch call on the same goroutine. Exceptions are
// scoped to a single coroutine activation and never cross a coroutine
// boundary; channel errors are the cross-coroutine failure mechanism
// instead (see the nut package). Raising a label with no installed
// handler is a programming error and is fatal.
func Raise(label Label, value any) {
	panic(raised{label: label, value: value})
}

// ExceptionHandler reacts to a raised value and reports how control
// should continue.
type ExceptionHandler func(value any) Completion

// Catch runs fn, recovering any Raise whose label is declared in
// handlers and dispatching it to the matching ExceptionHandler. Open
// resources are not released automatically: a handler that needs a
// specific resource closed calls Coroutine.CleanupIfOpen itself.
// Raising a label absent from handlers re-panics as a wrapped
// ErrNoHandler, which is fatal -- it propagates out of Resume rather
// than being silently swallowed.
func Catch[T any](c *Coroutine[T], fn func(), handlers map[Label]ExceptionHandler) (completion Completion) {
	completion = CompletionFallThrough
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		rv, ok := r.(raised)
		if !ok {
			panic(r)
		}
		h, declared := handlers[rv.label]
		if !declared {
			panic(fmt.Errorf("%w: %q", ErrNoHandler, rv.label))
		}
		completion = h(rv.value)
		if completion == CompletionTerminateProcess {
			c.terminateProcess = true
		}
	}()
	fn()
	return
}
