package workers

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPoolNoError(t *testing.T) {
	acc := make([]int, 8)
	pool := New(make([]bool, 4))

	for i := range acc {
		i := i
		pool.Run(func(bool) error {
			acc[i]++
			return nil
		})
	}

	require.NoError(t, pool.Wait())
	for i := range acc {
		require.Equal(t, 1, acc[i])
	}
}

func TestPoolWithError(t *testing.T) {
	acc := make([]int, 8)
	pool := New(make([]bool, 4))

	for i := range acc {
		i := i
		pool.Run(func(bool) error {
			acc[i]++
			if i == 2 {
				return fmt.Errorf("task %d failed", i)
			}
			return nil
		})
	}

	require.Error(t, pool.Wait())
}
