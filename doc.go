// Package conut implements a minimal cooperative coroutine runtime:
// stackless coroutines whose local state lives in a caller-supplied
// record, synchronous point-to-point byte channels ("pipe nuts", see
// the nut subpackage), scoped resources with guaranteed cleanup,
// labeled non-local transfers, a priority event dispatcher, and a
// single-threaded FIFO scheduler.
//
// A client builds a Class describing an EntryFunc and its declared
// pipe-nut/resource counts, spawns one or more Coroutine values from it,
// and runs Schedule. The entry function is a label-driven state
// machine: it inspects Coroutine.Label, runs until its next suspension
// point, and reports an Outcome.
package conut
