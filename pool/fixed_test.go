package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFixedPool_TableDriven(t *testing.T) {
	cases := []struct {
		name     string
		capacity uint
		size     int
		gets     int
	}{
		{name: "single buffer reused", capacity: 1, size: 8, gets: 1},
		{name: "within capacity", capacity: 4, size: 16, gets: 3},
		{name: "zero size buffer", capacity: 2, size: 0, gets: 2},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			p := NewFixed(tc.capacity, tc.size)

			bufs := make([][]byte, tc.gets)
			for i := 0; i < tc.gets; i++ {
				bufs[i] = p.Get()
				require.Len(t, bufs[i], tc.size)
			}
			for _, buf := range bufs {
				p.Put(buf)
			}

			again := p.Get()
			require.Len(t, again, tc.size)
		})
	}
}

func TestFixedPool_BlocksUntilReturned(t *testing.T) {
	p := NewFixed(1, 4)

	first := p.Get()

	done := make(chan []byte)
	go func() {
		done <- p.Get()
	}()

	select {
	case <-done:
		t.Fatal("Get returned before a buffer was available")
	default:
	}

	p.Put(first)
	second := <-done
	require.Len(t, second, 4)
}

func TestFixedPool_DiscardsUndersizedBuffer(t *testing.T) {
	p := NewFixed(1, 16)

	p.Put(make([]byte, 4))

	buf := p.Get()
	require.Len(t, buf, 16)
}
