// Package nut implements the pipe-nut state machine: one endpoint of a
// synchronous, point-to-point byte channel that couples exactly two
// coroutines. All operations on a Nut except the cross-thread Owner
// signal must be called from the single goroutine that owns it; see the
// package doc of the scheduler for the ownership rule.
package nut

// Owner is the cross-thread signalling surface a Nut uses to wake the
// coroutine on the other end of a connection or transfer. Index
// identifies which of that coroutine's own pipe nuts changed state.
type Owner interface {
	Trigger(index int)
}

// Role is the direction a connected Nut has committed to for the current
// buffer round.
type Role int

const (
	RoleNone Role = iota
	RoleReader
	RoleWriter
)

func (r Role) String() string {
	switch r {
	case RoleReader:
		return "reader"
	case RoleWriter:
		return "writer"
	default:
		return "none"
	}
}

// State is the externally observable phase of a Nut, derived from its
// fields rather than stored redundantly.
type State int

const (
	StateInitial State = iota
	StateConnected
	StateReady
	StateSyncing
	StateComplete
	StateEOF
	StateError
)

func (s State) String() string {
	switch s {
	case StateInitial:
		return "INITIAL"
	case StateConnected:
		return "CONNECTED"
	case StateReady:
		return "READY"
	case StateSyncing:
		return "SYNCING"
	case StateComplete:
		return "COMPLETE"
	case StateEOF:
		return "EOF"
	case StateError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Nut is one endpoint of a pipe. The zero value is not usable; construct
// with New.
type Nut struct {
	owner Owner
	index int

	peer *Nut

	buf []byte
	max int
	ofs int
	min int

	role Role
	err  ErrCode

	queue *Nut // FIFO of nuts that have requested connection to this one
	qnext *Nut
}

// New returns an unconnected Nut owned by owner at the given pipe-nut
// index. index is the bit that owner.Trigger is called with whenever
// this nut's peer wants the owner's attention.
func New(owner Owner, index int) *Nut {
	return &Nut{owner: owner, index: index}
}

// Index reports the pipe-nut index this Nut was constructed with.
func (n *Nut) Index() int { return n.index }

// Peer returns the currently paired Nut, or nil if unpaired.
func (n *Nut) Peer() *Nut { return n.peer }

// Role reports the role committed at the last SetupBuffer/ResetBuffer.
func (n *Nut) Role() Role { return n.role }

// Offset reports bytes transferred in the current round.
func (n *Nut) Offset() int { return n.ofs }

// Max reports the current round's buffer capacity.
func (n *Nut) Max() int { return n.max }

// State derives the Nut's current externally observable phase.
func (n *Nut) State() State {
	if n.buf == nil {
		if n.peer == nil {
			return StateInitial
		}
		return StateConnected
	}
	switch n.err {
	case CodeEOF:
		return StateEOF
	case codeNone:
		// fall through to ofs-based phases below
	default:
		return StateError
	}
	if n.ofs == n.max {
		return StateComplete
	}
	if n.ofs > 0 {
		return StateSyncing
	}
	return StateReady
}

// MakePipe brutally pairs two fresh, unconnected nuts: intended for
// factories that build both ends at once and never call connect/accept
// on them. Both nuts must be in the INITIAL state with empty queues.
func MakePipe(a, b *Nut) {
	if a.peer != nil || b.peer != nil || a.queue != nil || b.queue != nil {
		panic("nut: make_pipe requires two unconnected nuts with empty queues")
	}
	a.peer = b
	b.peer = a
}

// Accept pops the head of this nut's connection-request queue and pairs
// with it, returning true. If the queue is empty it returns false and
// the caller should yield and retry later.
func (n *Nut) Accept() bool {
	if n.peer != nil {
		panic("nut: accept on an already-connected nut")
	}
	newpeer := n.queue
	if newpeer == nil {
		return false
	}
	n.queue = newpeer.qnext
	newpeer.qnext = nil
	n.peer = newpeer
	newpeer.peer = n
	newpeer.owner.Trigger(newpeer.index)
	return true
}

// Connect requests a connection to other. If other already has this nut
// queued (this nut called Connect on other earlier and was not yet
// accepted), the two are paired immediately and Connect returns true.
// Otherwise this nut is appended to other's queue and Connect returns
// false; the caller should yield until other calls Accept, or until a
// repeated Connect finds it queued and completes the pairing. Only
// other's queue is searched: a Connect from other back to this nut
// queues other here rather than pairing the two.
// other is signalled either way.
func (n *Nut) Connect(other *Nut) bool {
	if n.peer != nil {
		panic("nut: connect on an already-connected nut")
	}

	var prev *Nut
	for cur := other.queue; cur != nil; cur = cur.qnext {
		if cur == n {
			if prev == nil {
				other.queue = cur.qnext
			} else {
				prev.qnext = cur.qnext
			}
			cur.qnext = nil
			n.peer = other
			other.peer = n
			other.owner.Trigger(other.index)
			return true
		}
		prev = cur
	}

	n.qnext = nil
	if other.queue == nil {
		other.queue = n
	} else {
		tail := other.queue
		for tail.qnext != nil {
			tail = tail.qnext
		}
		tail.qnext = n
	}
	other.owner.Trigger(other.index)
	return false
}

// SetupBuffer installs buf as this nut's transfer window for the given
// role and calls ResetBuffer. buf must be non-nil and max must be
// positive; a nut must already be connected.
func (n *Nut) SetupBuffer(role Role, buf []byte, max int) {
	if buf == nil || max <= 0 {
		panic("nut: setup_buffer requires a non-nil buffer and max>0")
	}
	if n.peer == nil {
		panic("nut: setup_buffer before connect")
	}
	n.buf = buf
	n.max = max
	n.ResetBuffer(role)
}

// ResetBuffer re-enters the READY state with a fresh offset, error, and
// minimum (max+1, so a stale wakeup cannot complete the round before the
// caller explicitly calls Sync). If the peer ends up committed to the
// same role, both ends are marked with a protocol error.
func (n *Nut) ResetBuffer(role Role) {
	if n.buf == nil {
		panic("nut: reset_buffer before setup_buffer")
	}
	n.role = role
	n.ofs = 0
	n.min = n.max + 1
	n.err = codeNone
	if n.peer != nil && role != RoleNone && n.peer.role == role {
		n.err = CodeProtocol
		n.peer.err = CodeProtocol
	}
}

// Sync is the central transfer step. It returns the number of bytes
// transferred so far in this round (0 meaning EOF) on success, or an
// error: ErrWouldBlock if no progress can be made yet, or a *ChannelError
// for a hard failure.
func (n *Nut) Sync(minlen int) (int, error) {
	if n.buf == nil {
		panic("nut: sync before setup_buffer")
	}
	if minlen > n.max {
		panic("nut: sync minlen exceeds max")
	}

	if n.err != codeNone {
		if n.err != CodeEOF {
			code := n.err
			if code == CodeConnReset {
				n.peer = nil
			}
			return 0, channelError(code)
		}
		if n.ofs > 0 && n.ofs < minlen {
			n.err = CodeProtocol
			if n.peer != nil {
				n.peer.err = CodeProtocol
			}
			return 0, channelError(CodeProtocol)
		}
		return n.ofs, nil
	}

	if n.peer == nil || n.peer.peer != n {
		return 0, ErrWouldBlock
	}
	if n.peer.err != codeNone {
		return 0, ErrWouldBlock
	}

	var w, r *Nut
	switch n.role {
	case RoleWriter:
		w, r = n, n.peer
	case RoleReader:
		r, w = n, n.peer
	default:
		panic("nut: sync before a role was assigned")
	}

	length := w.max - w.ofs
	if rem := r.max - r.ofs; rem < length {
		length = rem
	}
	if length > 0 {
		copy(r.buf[r.ofs:r.ofs+length], w.buf[w.ofs:w.ofs+length])
		r.ofs += length
		w.ofs += length
	}

	n.peer.owner.Trigger(n.peer.index)

	if n.ofs < minlen {
		return 0, ErrWouldBlock
	}
	return n.ofs, nil
}

// PushEOF is the writer's declaration that no further bytes will follow:
// it caps max at the current offset and sets a graceful EOF error on
// both ends.
func (n *Nut) PushEOF() {
	n.max = n.ofs
	n.SetError(CodeEOF)
}

// PullEOF is the reader's declaration that it will accept no further
// bytes, with the same effect as PushEOF.
func (n *Nut) PullEOF() {
	n.max = n.ofs
	n.SetError(CodeEOF)
}

// SetError sets a hard error on this nut and its peer, if connected, and
// triggers the peer's owner so it gets dispatched and observes the new
// error -- the same wakeup Sync gives a peer on an ordinary transfer.
// Without this, a peer already idle with nothing else pending (e.g. the
// sieve demo's downstream filter stages once upstream activity has
// drained) would never be resumed to notice the error at all.
func (n *Nut) SetError(code ErrCode) {
	n.err = code
	if n.peer != nil {
		n.peer.err = code
		n.peer.owner.Trigger(n.peer.index)
	}
}
