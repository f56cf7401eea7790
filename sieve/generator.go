package sieve

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/vanrein/conut"
	"github.com/vanrein/conut/nut"
)

const (
	generatorPipeOut = 0

	generatorResourceFirstStage = 0

	labelPumping conut.ResumeLabel = 1

	labelOutputFailure conut.Label = "OUTPUT_FAILURE"
)

// generatorData drives candidates 3, 4, 5, ... into the first sieve
// filter stage (whose own prime is 2), stopping once it has offered
// limit-1. Unlike a filter,
// the generator never calls Suicide: the source program frees it
// explicitly once it falls out of its loop, rather than having it
// sever its own connections first.
type generatorData struct {
	scheduler *conut.Scheduler
	out       io.Writer

	prime uint64
	limit uint64

	writeBuf     [8]byte
	pendingWrite bool

	first *conut.Coroutine[*filterData]
}

// GeneratorClass is the root of a sieve pipeline: it owns no incoming
// pipe and spawns the first filter stage the moment it runs.
var GeneratorClass = &conut.Class[*generatorData]{
	Name:          "candidate_generator",
	PipeCount:     1,
	ResourceCount: 1,
	Entry:         generatorEntry,
}

func generatorEntry(c *conut.Coroutine[*generatorData]) conut.Outcome {
	switch c.Label {
	case conut.LabelInit:
		prologueGenerator(c)
		c.Label = labelPumping
	case labelPumping:
		// fall through to the dispatch loop below
	default:
		panic("sieve: generator resumed with an unknown label")
	}

	d := c.Data
	handlers := map[conut.Label]conut.ExceptionHandler{
		labelOutputFailure: func(v any) conut.Completion {
			err, _ := v.(error)
			if name, ok := conut.ExtractClassName(err); ok {
				fmt.Fprintf(d.out, "generator: fatal output error from %s: %v\n", name, err)
			} else {
				fmt.Fprintf(d.out, "generator: fatal output error: %v\n", v)
			}
			return conut.CompletionTerminateProcess
		},
	}

	var outcome conut.Outcome
	completion := conut.Catch(c, func() {
		outcome = conut.DispatchLoop(c, generatorHandlers)
	}, handlers)

	if completion == conut.CompletionTerminateProcess {
		return conut.Done
	}
	return outcome
}

func prologueGenerator(c *conut.Coroutine[*generatorData]) {
	d := c.Data
	// 2 is the first prime and needs no upstream filtering; the
	// generator represents it directly instead of piping it through a
	// filter whose own prime would immediately drop it.
	d.first = spawnFilter(d.scheduler, 2, d.out)
	nut.MakePipe(c.Pipe(generatorPipeOut), d.first.Pipe(filterPipePrev))

	c.DeclareResource(generatorResourceFirstStage, func(c *conut.Coroutine[*generatorData], r int) {
		if out := c.Pipe(generatorPipeOut); out.Peer() != nil {
			out.PushEOF()
		}
	})
	c.MarkOpen(generatorResourceFirstStage)

	c.Pipe(generatorPipeOut).SetupBuffer(nut.RoleWriter, d.writeBuf[:], 8)
	c.Activity.Trigger(generatorPipeOut)
}

var generatorHandlers = map[int]conut.EventHandler[*generatorData]{
	generatorPipeOut: onGeneratorPipeReady,
}

func onGeneratorPipeReady(c *conut.Coroutine[*generatorData], event int) conut.EventOutcome {
	d := c.Data
	out := c.Pipe(generatorPipeOut)

	if d.pendingWrite {
		n, err := out.Sync(8)
		if err == nut.ErrWouldBlock {
			return conut.EventContinue
		}
		if err != nil {
			conut.Raise(labelOutputFailure, conut.TagPipeError(err, c.Name(), generatorPipeOut))
			return conut.EventContinue
		}
		if n >= 8 {
			out.ResetBuffer(nut.RoleWriter)
			d.pendingWrite = false
			d.prime++
		}
	}

	if d.pendingWrite {
		return conut.EventContinue
	}
	if d.prime >= d.limit {
		return conut.EventTerminate
	}

	binary.BigEndian.PutUint64(d.writeBuf[:], d.prime)
	d.pendingWrite = true

	n, err := out.Sync(8)
	if err == nil && n >= 8 {
		out.ResetBuffer(nut.RoleWriter)
		d.pendingWrite = false
		d.prime++
	}
	return conut.EventContinue
}
