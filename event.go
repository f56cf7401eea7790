package conut

// EventOutcome is what an event handler reports once it has finished
// reacting to a dispatched event.
type EventOutcome int

const (
	// EventContinue falls through to the next dispatch-loop iteration.
	EventContinue EventOutcome = iota
	// EventTerminate requests that the coroutine terminate.
	EventTerminate
)

// EventHandler reacts to one dispatched activity event for coroutine c.
type EventHandler[T any] func(c *Coroutine[T], event int) EventOutcome

// DispatchLoop drains every currently pending activity event on c,
// routing each to handlers[event] in strict highest-bit-first priority
// order -- including the reserved activity.Initialize/activity.Finalize
// lifecycle bits, which simply occupy the top two bits and so always
// win priority without any special-casing here. An event with no
// declared handler is silently drained. DispatchLoop is safe to call
// unconditionally on every resume: when nothing is pending it returns
// More immediately, so an entry function can call it first and fall
// through to its own code once idle.
func DispatchLoop[T any](c *Coroutine[T], handlers map[int]EventHandler[T]) Outcome {
	for {
		event, ok := c.Activity.TakeHighest()
		if !ok {
			return More
		}
		h, declared := handlers[event]
		if !declared {
			continue
		}
		if h(c, event) == EventTerminate {
			return Done
		}
	}
}
