// Package activity implements the 32-bit event bitset that lets a pipe
// nut's peer, or any other cross-thread signaller, wake a coroutine
// without taking a lock: Trigger sets a bit from any goroutine, and the
// coroutine's own owner thread drains the highest-priority pending bit
// with TakeHighest.
package activity

import (
	"math/bits"
	"sync/atomic"
)

// Bits is the number of event slots a Flags value carries.
const Bits = 32

// Initialize and Finalize are the two reserved high-priority lifecycle
// bits. Nothing in this module sets them on its own: a coroutine sees
// either event only when some caller triggers it. Ordinary application
// events occupy 0..MaxEvent.
const (
	Finalize   = 30
	Initialize = 31
	MaxEvent   = 29
)

// Flags is a lock-free set of up to Bits pending events. The zero value
// is an empty set, ready to use.
type Flags struct {
	bits uint32
}

// Trigger sets the bit for event. It is safe to call from any goroutine,
// including concurrently with another Trigger or with TakeHighest;
// triggering an already-set bit is a no-op. An event outside [0, Bits) is
// also a no-op rather than a fault: a cross-thread signaller must never
// be able to crash the coroutine it is merely trying to wake.
func (f *Flags) Trigger(event int) {
	if event < 0 || event >= Bits {
		return
	}
	mask := uint32(1) << uint(event)
	for {
		old := atomic.LoadUint32(&f.bits)
		if old&mask != 0 {
			return
		}
		if atomic.CompareAndSwapUint32(&f.bits, old, old|mask) {
			return
		}
	}
}

// TakeHighest clears and returns the highest-numbered pending event, or
// (0, false) if none is pending. Initialize (31) and Finalize (30)
// therefore always take priority over ordinary events, and Initialize
// over Finalize. TakeHighest must only be called from the coroutine's
// owning thread: unlike Trigger it is not safe for concurrent callers.
func (f *Flags) TakeHighest() (int, bool) {
	for {
		old := atomic.LoadUint32(&f.bits)
		if old == 0 {
			return 0, false
		}
		event := bits.Len32(old) - 1
		mask := uint32(1) << uint(event)
		if atomic.CompareAndSwapUint32(&f.bits, old, old&^mask) {
			return event, true
		}
	}
}

// Pending reports whether any event, including Initialize or Finalize,
// is currently set.
func (f *Flags) Pending() bool {
	return atomic.LoadUint32(&f.bits) != 0
}

// Has reports whether event is currently set, without clearing it.
func (f *Flags) Has(event int) bool {
	if event < 0 || event >= Bits {
		return false
	}
	return atomic.LoadUint32(&f.bits)&(uint32(1)<<uint(event)) != 0
}
