// Package sieve is a worked example built on top of the conut runtime: a
// concurrent sieve of Eratosthenes, one coroutine per discovered prime,
// connected in a growing pipeline of pipe nuts. It exists to exercise
// every part of the runtime (spawning, pipe-nut setup/sync, resource
// cleanup, labeled exceptions) against a real, if small, workload.
package sieve

import (
	"io"

	"github.com/vanrein/conut"
)

// NewGenerator allocates a candidate_generator coroutine that spawns a
// first filter stage for 2 and feeds the integers [3, limit) into the
// sieve chain it builds on demand,
// spawning each new filter stage onto s. out receives one "New prime
// number" line per discovered prime (printed by the filter stage that
// represents it) plus diagnostics. The returned coroutine is not yet
// scheduled; pass it to conut.Schedule or enqueue it yourself.
func NewGenerator(s *conut.Scheduler, limit uint64, out io.Writer) (*conut.Coroutine[*generatorData], error) {
	data := &generatorData{scheduler: s, prime: 3, limit: limit, out: out}
	return conut.NewCoroutine(GeneratorClass, data)
}

// Run builds a generator bounded by limit, schedules it on a fresh
// Scheduler, and runs the scheduler to completion, writing discovered
// primes and diagnostics to out.
func Run(limit uint64, out io.Writer, opts ...conut.Option) error {
	s := conut.NewScheduler(opts...)
	gen, err := NewGenerator(s, limit, out)
	if err != nil {
		return err
	}
	return conut.Schedule(s, gen)
}
