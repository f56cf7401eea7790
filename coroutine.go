package conut

import (
	"github.com/vanrein/conut/activity"
	"github.com/vanrein/conut/nut"
)

// ResumeLabel identifies a coroutine's next resumption point. An entry
// function stores one before yielding and switches on it when resumed.
// LabelInit and LabelTerminated are reserved; ordinary resumption points
// are client-assigned positive values.
type ResumeLabel int

const (
	LabelInit       ResumeLabel = 0
	LabelTerminated ResumeLabel = -1
)

// Outcome is what an EntryFunc reports after running until its next
// suspension point.
type Outcome int

const (
	// More means the coroutine has more work, including merely waiting
	// on activity; the scheduler resumes it again later.
	More Outcome = iota
	// Done means the coroutine reached its terminal label. Its cleanup
	// sweep has already run by the time Resume returns it.
	Done
)

// EntryFunc is the resumption function a coroutine class supplies. It
// inspects c.Label, runs until its next suspension point, stores the
// next ResumeLabel, and reports Outcome. On first entry (Label ==
// LabelInit) it is responsible for running its own prologue: declaring
// resources, setting up whatever pipe-nut roles it starts with.
type EntryFunc[T any] func(c *Coroutine[T]) Outcome

// Class is a coroutine's static descriptor: name, entry function,
// pipe-nut count, and resource count. Consulted by NewCoroutine and
// Spawn.
type Class[T any] struct {
	Name          string
	Entry         EntryFunc[T]
	PipeCount     int
	ResourceCount int
}

// Cleanup releases whatever resource r represents for coroutine c. It
// must be infallible at the abstract level: if the underlying operation
// can fail, the cleanup records the failure itself rather than
// returning an error.
type Cleanup[T any] func(c *Coroutine[T], r int)

// Coroutine is a single coroutine activation: its resume position, its
// pipe nuts, its activity flags, its open resources, and its
// caller-supplied record Data.
type Coroutine[T any] struct {
	class *Class[T]

	// Data is the client's own record for this coroutine. Entry
	// functions store their local state here across resumes.
	Data T

	// Label is the next resumption point; the entry function switches
	// on it. CleanupReturn is a label slot for entry functions that
	// implement cleanup blocks as ordinary jump targets (rather than
	// closures, see DeclareResource): they store in it the point to get
	// back to once the cleanup block is done. CleanupIfOpen itself
	// neither reads nor sets it; it runs the declared cleanup closure as
	// a plain function call.
	Label         ResumeLabel
	CleanupReturn ResumeLabel

	Activity activity.Flags
	Pipes    []*nut.Nut

	resources resourceSet

	isTerminated     bool
	terminateProcess bool
}

// NewCoroutine allocates a coroutine of the given class with the
// supplied record, wiring up its declared pipe nuts. It does not
// schedule the coroutine; use Spawn or Schedule for that.
func NewCoroutine[T any](class *Class[T], data T) (*Coroutine[T], error) {
	if class.Entry == nil {
		return nil, ErrNoEntry
	}
	c := &Coroutine[T]{
		class: class,
		Data:  data,
		Label: LabelInit,
	}
	c.Pipes = make([]*nut.Nut, class.PipeCount)
	for i := range c.Pipes {
		c.Pipes[i] = nut.New(c, i)
	}
	c.resources = newResourceSet(class.ResourceCount)
	return c, nil
}

// Trigger implements nut.Owner: it sets bit index in this coroutine's
// own activity flags. Safe to call from any goroutine, which is how a
// pipe nut's peer (possibly owned by a different scheduler thread) or
// an external timer wakes this coroutine.
func (c *Coroutine[T]) Trigger(index int) {
	c.Activity.Trigger(index)
}

// Pipe returns the pipe nut at index, panicking if index is outside the
// class's declared range.
func (c *Coroutine[T]) Pipe(index int) *nut.Nut {
	if index < 0 || index >= len(c.Pipes) {
		panic(ErrInvalidPipeIndex)
	}
	return c.Pipes[index]
}

// DeclareResource registers resource r's cleanup block. Call once per
// resource, typically during the coroutine's prologue.
func (c *Coroutine[T]) DeclareResource(r int, cleanup Cleanup[T]) {
	c.resources.declare(r, func(rr int) {
		cleanup(c, rr)
	})
}

// MarkOpen records that resource r has been acquired.
func (c *Coroutine[T]) MarkOpen(r int) { c.resources.markOpen(r) }

// MarkClosed records that resource r has been released without running
// its cleanup block.
func (c *Coroutine[T]) MarkClosed(r int) { c.resources.markClosed(r) }

// IsOpen reports whether resource r is currently held.
func (c *Coroutine[T]) IsOpen(r int) bool { return c.resources.isOpen(r) }

// CleanupIfOpen runs resource r's cleanup block and clears its bit, if
// open. No-op if already closed.
func (c *Coroutine[T]) CleanupIfOpen(r int) { c.resources.cleanupIfOpen(r) }

// Terminated reports whether this coroutine has reached its terminal
// label and run its cleanup sweep.
func (c *Coroutine[T]) Terminated() bool { return c.isTerminated }

// Name returns the owning class's name, used for diagnostics and for
// tagged errors (see TagPipeError).
func (c *Coroutine[T]) Name() string { return c.class.Name }

// Suicide sets a connection-reset error on both ends of each of this
// coroutine's connected pipe nuts. It does not clear the peer references
// itself: each end drops its own when it next calls Sync and receives
// the error. Call it from
// within the terminal phase of an entry function, just before returning
// Done. The scheduler already stops re-enqueueing a coroutine once
// Resume reports Done; Suicide exists only to release cross-references
// deterministically, not because Go requires a manual free.
func (c *Coroutine[T]) Suicide() {
	for _, p := range c.Pipes {
		if peer := p.Peer(); peer != nil {
			peer.SetError(nut.CodeConnReset)
		}
	}
}

// resume implements the scheduler-facing schedulable interface; it runs
// the cleanup sweep exactly once, the moment Resume first reports Done,
// regardless of which path (normal fall-through, DispatchLoop, or
// Catch) reached termination.
func (c *Coroutine[T]) resume() (Outcome, error) {
	if c.isTerminated {
		return Done, ErrTerminated
	}
	outcome := c.class.Entry(c)
	if outcome == Done {
		c.resources.sweep()
		c.isTerminated = true
	}
	return outcome, nil
}

// Resume is the exported form of §4.3's resume(C): it runs c.entry once
// more from its stored Label and reports the Outcome. Scheduler.run calls
// this on every runnable coroutine in turn, but a client driving a single
// coroutine directly -- without a Scheduler -- calls it the same way.
// Resuming an already-terminated coroutine returns Done, ErrTerminated.
func Resume[T any](c *Coroutine[T]) (Outcome, error) {
	return c.resume()
}

func (c *Coroutine[T]) terminated() bool { return c.isTerminated }

func (c *Coroutine[T]) wantsProcessTermination() bool { return c.terminateProcess }
