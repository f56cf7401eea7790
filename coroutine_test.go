package conut

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCoroutine_RequiresEntry(t *testing.T) {
	class := &Class[int]{Name: "empty"}
	_, err := NewCoroutine(class, 0)
	require.ErrorIs(t, err, ErrNoEntry)
}

func TestCoroutine_PipeIndexOutOfRangePanics(t *testing.T) {
	class := &Class[int]{
		Name:      "t",
		Entry:     func(c *Coroutine[int]) Outcome { return Done },
		PipeCount: 1,
	}
	c, err := NewCoroutine(class, 0)
	require.NoError(t, err)
	require.Panics(t, func() { c.Pipe(1) })
	require.Panics(t, func() { c.Pipe(-1) })
	require.NotPanics(t, func() { c.Pipe(0) })
}

func TestResourceCleanup_DeclarationOrder(t *testing.T) {
	// S5 -- cleanup order.
	var order []int
	class := &Class[struct{}]{
		Name:          "cleanup",
		ResourceCount: 3,
		Entry: func(c *Coroutine[struct{}]) Outcome {
			if c.Label == LabelInit {
				for r := 0; r < 3; r++ {
					r := r
					c.DeclareResource(r, func(c *Coroutine[struct{}], r int) {
						order = append(order, r)
					})
					c.MarkOpen(r)
				}
			}
			return Done
		},
	}
	c, err := NewCoroutine(class, struct{}{})
	require.NoError(t, err)

	outcome, err := c.resume()
	require.NoError(t, err)
	require.Equal(t, Done, outcome)
	require.Equal(t, []int{0, 1, 2}, order)
	require.True(t, c.Terminated())
	require.False(t, c.IsOpen(0))
	require.False(t, c.IsOpen(1))
	require.False(t, c.IsOpen(2))
}

func TestMarkOpenThenClosed_IsNoOp(t *testing.T) {
	class := &Class[int]{
		Name:          "t",
		ResourceCount: 1,
		Entry:         func(c *Coroutine[int]) Outcome { return More },
	}
	c, err := NewCoroutine(class, 0)
	require.NoError(t, err)

	ran := false
	c.DeclareResource(0, func(c *Coroutine[int], r int) { ran = true })
	c.MarkOpen(0)
	c.MarkClosed(0)
	require.False(t, c.IsOpen(0))

	c.CleanupIfOpen(0)
	require.False(t, ran, "cleanup must not run for a resource marked closed directly")
}

func TestResume_AfterTerminatedReturnsErr(t *testing.T) {
	class := &Class[int]{Name: "t", Entry: func(c *Coroutine[int]) Outcome { return Done }}
	c, err := NewCoroutine(class, 0)
	require.NoError(t, err)

	outcome, err := c.resume()
	require.NoError(t, err)
	require.Equal(t, Done, outcome)

	_, err = c.resume()
	require.ErrorIs(t, err, ErrTerminated)
}
