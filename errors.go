package conut

import "errors"

// Namespace prefixes every sentinel error this package defines.
const Namespace = "conut"

var (
	// ErrNoHandler is raised when a coroutine raises a label with no
	// installed handler. Per the control model this is a fatal
	// programming error, not a recoverable condition.
	ErrNoHandler = errors.New(Namespace + ": raise with no installed handler")

	// ErrTerminated is returned by Resume on a coroutine that has
	// already reached the terminated state.
	ErrTerminated = errors.New(Namespace + ": coroutine already terminated")

	// ErrInvalidPipeIndex is the panic value when a pipe-nut index
	// outside a class's declared count is requested.
	ErrInvalidPipeIndex = errors.New(Namespace + ": pipe-nut index out of range")

	// ErrInvalidResource is the panic value when a resource index
	// outside a class's declared count is requested.
	ErrInvalidResource = errors.New(Namespace + ": resource index out of range")

	// ErrNoEntry is returned by NewCoroutine when the class has no
	// entry function.
	ErrNoEntry = errors.New(Namespace + ": class has no entry function")

	// ErrEmptySchedule is returned by Schedule when asked to run with no
	// root coroutine and an empty runnable queue.
	ErrEmptySchedule = errors.New(Namespace + ": nothing to schedule")
)
