package metrics

import (
	"reflect"
	"runtime"
	"sync"
	"testing"
)

func TestInMemoryProvider_Counter_ReusedAndAccumulates(t *testing.T) {
	p := NewInMemoryProvider()

	c1 := p.Counter("conut_coroutines_spawned_total")
	c2 := p.Counter("conut_coroutines_spawned_total")

	if reflect.ValueOf(c1).Pointer() != reflect.ValueOf(c2).Pointer() {
		t.Fatalf("expected same counter instance for same name")
	}

	mc, ok := c1.(*MemoryCounter)
	if !ok {
		t.Fatalf("expected *MemoryCounter, got %T", c1)
	}

	c1.Add(3)
	c2.Add(2)
	if got := mc.Snapshot(); got != 5 {
		t.Fatalf("counter value = %d; want 5", got)
	}

	cOther := p.Counter("conut_coroutines_terminated_total")
	if reflect.ValueOf(cOther).Pointer() == reflect.ValueOf(c1).Pointer() {
		t.Fatalf("expected different counter instance for different name")
	}
}

func TestInMemoryProvider_UpDownCounter_ReusedAndMoves(t *testing.T) {
	p := NewInMemoryProvider()
	u1 := p.UpDownCounter("conut_runnable_queue_depth")
	u2 := p.UpDownCounter("conut_runnable_queue_depth")

	if reflect.ValueOf(u1).Pointer() != reflect.ValueOf(u2).Pointer() {
		t.Fatalf("expected same updown instance for same name")
	}

	mu, ok := u1.(*MemoryUpDownCounter)
	if !ok {
		t.Fatalf("expected *MemoryUpDownCounter, got %T", u1)
	}

	u1.Add(+3)
	u2.Add(-1)
	u1.Add(+10)
	if got := mu.Snapshot(); got != 12 {
		t.Fatalf("updown value = %d; want 12", got)
	}
}

func TestInMemoryProvider_Histogram_RecordsStats(t *testing.T) {
	p := NewInMemoryProvider()
	h := p.Histogram("conut_resume_seconds")

	mh, ok := h.(*MemoryHistogram)
	if !ok {
		t.Fatalf("expected *MemoryHistogram, got %T", h)
	}

	h.Record(0.1)
	h.Record(0.3)
	h.Record(0.2)
	s := mh.Snapshot()
	if s.Count != 3 {
		t.Fatalf("count = %d; want 3", s.Count)
	}
	if s.Min != 0.1 || s.Max != 0.3 {
		t.Fatalf("min/max = (%v,%v); want (0.1,0.3)", s.Min, s.Max)
	}
	if s.Sum < 0.59 || s.Sum > 0.61 {
		t.Fatalf("sum = %v; want ~0.6", s.Sum)
	}
	if s.Mean < 0.19 || s.Mean > 0.21 {
		t.Fatalf("mean = %v; want ~0.2", s.Mean)
	}
}

func TestInMemoryProvider_DifferentKindsSameNameDontCollide(t *testing.T) {
	p := NewInMemoryProvider()
	c := p.Counter("conut_resume_seconds")
	h := p.Histogram("conut_resume_seconds")

	c.Add(1)
	h.Record(0.5)

	mc := c.(*MemoryCounter)
	mh := h.(*MemoryHistogram)
	if mc.Snapshot() != 1 {
		t.Fatalf("counter value = %d; want 1", mc.Snapshot())
	}
	if mh.Snapshot().Count != 1 {
		t.Fatalf("histogram count = %d; want 1", mh.Snapshot().Count)
	}
}

func TestInMemoryProvider_Concurrent_GetSameInstrument(t *testing.T) {
	p := NewInMemoryProvider()
	n := 50
	ptrs := make([]uintptr, n)
	wg := sync.WaitGroup{}
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(idx int) {
			defer wg.Done()
			c := p.Counter("conut_coroutines_spawned_total")
			ptrs[idx] = reflect.ValueOf(c).Pointer()
		}(i)
	}
	wg.Wait()
	first := ptrs[0]
	for i := 1; i < n; i++ {
		if ptrs[i] != first {
			t.Fatalf("expected same pointer for all retrieved counters; mismatch at %d", i)
		}
	}
}

func TestInMemoryProvider_Concurrent_CounterAdd(t *testing.T) {
	p := NewInMemoryProvider()
	c := p.Counter("conut_coroutines_spawned_total")
	mc := c.(*MemoryCounter)

	workers := runtime.NumCPU() * 2
	iters := 1000
	wg := sync.WaitGroup{}
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < iters; i++ {
				c.Add(1)
			}
		}()
	}
	wg.Wait()
	expected := int64(workers * iters)
	if got := mc.Snapshot(); got != expected {
		t.Fatalf("counter = %d; want %d", got, expected)
	}
}

func TestInMemoryProvider_Concurrent_UpDownAdd(t *testing.T) {
	p := NewInMemoryProvider()
	u := p.UpDownCounter("conut_runnable_queue_depth")
	mu := u.(*MemoryUpDownCounter)

	workers := runtime.NumCPU() * 2
	iters := 1000
	wg := sync.WaitGroup{}
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < iters; i++ {
				if (i+id)%2 == 0 {
					u.Add(+1)
				} else {
					u.Add(-1)
				}
			}
		}(w)
	}
	wg.Wait()
	// Every worker alternates +1 and -1 over an even number of
	// iterations, so each nets zero and the queue depth settles back to
	// zero.
	expected := int64(0)
	if got := mu.Snapshot(); got != expected {
		t.Fatalf("updown = %d; want %d", got, expected)
	}
}

func TestInMemoryProvider_Concurrent_HistogramRecord(t *testing.T) {
	p := NewInMemoryProvider()
	h := p.Histogram("conut_resume_seconds")
	mh := h.(*MemoryHistogram)

	workers := runtime.NumCPU() * 2
	iters := 500
	wg := sync.WaitGroup{}
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(base int) {
			defer wg.Done()
			for i := 0; i < iters; i++ {
				// record a few bounded resume-latency-shaped values
				v := float64((base%10)+i%10) / 100.0
				h.Record(v)
			}
		}(w)
	}
	wg.Wait()
	s := mh.Snapshot()
	expectedCount := int64(workers * iters)
	if s.Count != expectedCount {
		t.Fatalf("hist count = %d; want %d", s.Count, expectedCount)
	}
	if s.Min < 0.0 || s.Min > 0.09 || s.Max < 0.0 || s.Max > 0.19 {
		t.Fatalf("min/max out of expected range: (%v,%v)", s.Min, s.Max)
	}
}
