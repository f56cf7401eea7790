package conut

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vanrein/conut/nut"
)

func TestTagPipeError_ExtractRoundTrip(t *testing.T) {
	base := errors.New("boom")
	tagged := TagPipeError(base, "sieve", 1)
	require.Error(t, tagged)

	idx, ok := ExtractPipeIndex(tagged)
	require.True(t, ok)
	require.Equal(t, 1, idx)

	name, ok := ExtractClassName(tagged)
	require.True(t, ok)
	require.Equal(t, "sieve", name)

	require.ErrorIs(t, tagged, base)
}

func TestTagPipeError_NilPassesThrough(t *testing.T) {
	require.Nil(t, TagPipeError(nil, "sieve", 0))
}

func TestTagPipeError_WithChannelError(t *testing.T) {
	tagged := TagPipeError(nut.ErrWouldBlock, "sieve", 0)
	require.ErrorIs(t, tagged, nut.ErrWouldBlock)

	_, ok := ExtractPipeIndex(errors.New("untagged"))
	require.False(t, ok)
}
