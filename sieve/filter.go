package sieve

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/vanrein/conut"
	"github.com/vanrein/conut/nut"
)

const (
	filterPipePrev = 0
	filterPipeNext = 1

	filterResourceNextStage = 0

	labelFiltering conut.ResumeLabel = 1

	labelInputEnded conut.Label = "INPUT_ENDED"
	labelInputError conut.Label = "INPUT_ERROR"
)

// filterData is one sieve stage's record: it drops every multiple of
// prime arriving on filterPipePrev and forwards the rest to the next
// stage, spawning that stage itself the first time a survivor shows up.
type filterData struct {
	scheduler *conut.Scheduler
	out       io.Writer

	prime     uint64
	filternum uint64

	readBuf  [8]byte
	writeBuf [8]byte

	next         *conut.Coroutine[*filterData]
	pendingWrite bool
}

// FilterClass is one sieve filter stage: reads candidates from
// filterPipePrev, drops multiples of its own prime, and forwards
// survivors to filterPipeNext, spawning the next stage lazily.
var FilterClass = &conut.Class[*filterData]{
	Name:          "sieve_filter",
	PipeCount:     2,
	ResourceCount: 1,
}

// Entry is set here rather than in the literal above: filterEntry reaches
// spawnFilter, which refers back to FilterClass, and Go rejects that as
// an initialization cycle.
func init() { FilterClass.Entry = filterEntry }

func spawnFilter(s *conut.Scheduler, prime uint64, out io.Writer) *conut.Coroutine[*filterData] {
	c, err := conut.Spawn(s, FilterClass, &filterData{
		scheduler: s,
		out:       out,
		prime:     prime,
		filternum: prime,
	})
	if err != nil {
		// FilterClass always declares Entry; reaching here would be a
		// programming error in this package, not a runtime condition.
		panic(err)
	}
	return c
}

func filterEntry(c *conut.Coroutine[*filterData]) conut.Outcome {
	switch c.Label {
	case conut.LabelInit:
		prologueFilter(c)
		c.Label = labelFiltering
	case labelFiltering:
		// fall through to the dispatch loop below
	default:
		panic("sieve: filter resumed with an unknown label")
	}

	d := c.Data
	handlers := map[conut.Label]conut.ExceptionHandler{
		labelInputEnded: func(v any) conut.Completion {
			fmt.Fprintf(d.out, "Filter %d: received EOF, no longer filtering\n", d.prime)
			c.Suicide()
			return conut.CompletionTerminateCoroutine
		},
		labelInputError: func(v any) conut.Completion {
			err, _ := v.(error)
			if idx, ok := conut.ExtractPipeIndex(err); ok {
				fmt.Fprintf(d.out, "Filter %d: fatal input error on pipe %d: %v\n", d.prime, idx, err)
			} else {
				fmt.Fprintf(d.out, "Filter %d: fatal input error: %v\n", d.prime, v)
			}
			return conut.CompletionTerminateProcess
		},
	}

	var outcome conut.Outcome
	completion := conut.Catch(c, func() {
		outcome = conut.DispatchLoop(c, filterHandlers)
	}, handlers)

	switch completion {
	case conut.CompletionTerminateCoroutine, conut.CompletionTerminateProcess:
		return conut.Done
	default:
		return outcome
	}
}

func prologueFilter(c *conut.Coroutine[*filterData]) {
	d := c.Data
	fmt.Fprintf(d.out, "New prime number: %d\n", d.prime)

	c.DeclareResource(filterResourceNextStage, func(c *conut.Coroutine[*filterData], r int) {
		if next := c.Pipe(filterPipeNext); next.Peer() != nil {
			fmt.Fprintf(c.Data.out, "Filter %d: sending EOF to the next filter stage\n", c.Data.prime)
			next.PushEOF()
		}
	})

	c.Pipe(filterPipePrev).SetupBuffer(nut.RoleReader, c.Data.readBuf[:], 8)
	// Prime the dispatch loop: nothing else will trigger this index
	// until the upstream stage's own Sync call does, but that call may
	// itself be waiting on us to go first.
	c.Activity.Trigger(filterPipePrev)
}

var filterHandlers = map[int]conut.EventHandler[*filterData]{
	filterPipePrev: onFilterPrevReady,
	filterPipeNext: onFilterNextReady,
}

func onFilterPrevReady(c *conut.Coroutine[*filterData], event int) conut.EventOutcome {
	d := c.Data
	prev := c.Pipe(filterPipePrev)

	n, err := prev.Sync(8)
	if err == nut.ErrWouldBlock {
		// An EOF pushed before this stage's last SetupBuffer/ResetBuffer
		// was cleared from prev by that call; the upstream nut still
		// shows it, and no further bytes will arrive.
		if up := prev.Peer(); up != nil && up.State() == nut.StateEOF && prev.Offset() == 0 {
			conut.Raise(labelInputEnded, nil)
		}
		return conut.EventContinue
	}
	if err != nil {
		conut.Raise(labelInputError, conut.TagPipeError(err, c.Name(), filterPipePrev))
		return conut.EventContinue
	}
	if n == 0 {
		conut.Raise(labelInputEnded, nil)
		return conut.EventContinue
	}

	value := binary.BigEndian.Uint64(d.readBuf[:])
	prev.ResetBuffer(nut.RoleReader)

	for d.filternum < value {
		d.filternum += d.prime
	}
	if value == d.filternum {
		return conut.EventContinue
	}

	if d.next == nil {
		d.next = spawnFilter(d.scheduler, value, d.out)
		nut.MakePipe(c.Pipe(filterPipeNext), d.next.Pipe(filterPipePrev))
		c.MarkOpen(filterResourceNextStage)
	}

	binary.BigEndian.PutUint64(d.writeBuf[:], value)
	d.pendingWrite = true
	trySendNext(c)

	return conut.EventContinue
}

func onFilterNextReady(c *conut.Coroutine[*filterData], event int) conut.EventOutcome {
	trySendNext(c)
	return conut.EventContinue
}

// trySendNext attempts to deliver a pending survivor to the next stage.
// A pending write can span several triggers of filterPipeNext: the
// first attempt commonly finds the next stage not yet reading (its
// prologue hasn't run), and Sync reports ErrWouldBlock until it does.
func trySendNext(c *conut.Coroutine[*filterData]) {
	d := c.Data
	if !d.pendingWrite {
		return
	}
	next := c.Pipe(filterPipeNext)
	if next.Role() == nut.RoleNone {
		next.SetupBuffer(nut.RoleWriter, d.writeBuf[:], 8)
	}

	n, err := next.Sync(8)
	if err == nut.ErrWouldBlock {
		return
	}
	if err != nil {
		conut.Raise(labelInputError, conut.TagPipeError(err, c.Name(), filterPipeNext))
		return
	}
	if n >= 8 {
		next.ResetBuffer(nut.RoleWriter)
		d.pendingWrite = false
	}
}
