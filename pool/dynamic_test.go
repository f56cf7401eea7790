package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDynamicPool_GetPut(t *testing.T) {
	p := NewDynamic(32)

	buf := p.Get()
	require.Len(t, buf, 32)

	buf[0] = 0xff
	p.Put(buf)

	again := p.Get()
	require.Len(t, again, 32)
}

func TestDynamicPool_DiscardsUndersizedBuffer(t *testing.T) {
	p := NewDynamic(32)

	p.Put(make([]byte, 4))

	buf := p.Get()
	require.Len(t, buf, 32)
}
