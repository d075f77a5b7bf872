package shared

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForEveryWithBoundedGoroutines(t *testing.T) {
	values := []int{1, 2, 3, 4, 5, 6, 7, 8}
	results := make([]int, len(values))

	var running, peak int32
	ForEveryWithBoundedGoroutines(3, values, func(i int, v int) {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		results[i] = v * v
		atomic.AddInt32(&running, -1)
	})

	assert.Equal(t, []int{1, 4, 9, 16, 25, 36, 49, 64}, results)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
}

func TestForEveryWithBoundedGoroutinesZeroLimit(t *testing.T) {
	var calls int32
	ForEveryWithBoundedGoroutines(0, []string{"a", "b"}, func(int, string) {
		atomic.AddInt32(&calls, 1)
	})
	assert.Equal(t, int32(2), calls)
}
