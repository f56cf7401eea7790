package sieve

import (
	"bufio"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRun_PrintsExactPrimesInOrder is scenario S4: a full sieve pipeline
// run to a small limit prints exactly the primes below that limit, in
// increasing order, each exactly once.
func TestRun_PrintsExactPrimesInOrder(t *testing.T) {
	var out strings.Builder

	err := Run(30, &out)
	require.NoError(t, err)

	var got []uint64
	scanner := bufio.NewScanner(strings.NewReader(out.String()))
	for scanner.Scan() {
		line := scanner.Text()
		const prefix = "New prime number: "
		if idx := strings.Index(line, prefix); idx >= 0 {
			var v uint64
			_, scanErr := fmt.Sscan(line[idx+len(prefix):], &v)
			require.NoError(t, scanErr)
			got = append(got, v)
		}
	}
	require.NoError(t, scanner.Err())

	require.Equal(t, []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29}, got)
}

func TestRun_EmptyRangeSpawnsNoCandidates(t *testing.T) {
	var out strings.Builder
	err := Run(2, &out)
	require.NoError(t, err)
	require.Contains(t, out.String(), "New prime number: 2")
	require.NotContains(t, out.String(), "New prime number: 3")
}
