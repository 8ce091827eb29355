package memo

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetComputesOnce(t *testing.T) {
	c := New[string, int]()
	calls := 0
	compute := func() (int, error) {
		calls++
		return 42, nil
	}

	for range 3 {
		v, err := c.Get("a", compute)
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	}
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, c.Len())
}

func TestErrorsAreNotCached(t *testing.T) {
	c := New[string, int]()
	fail := errors.New("boom")

	_, err := c.Get("a", func() (int, error) { return 0, fail })
	assert.ErrorIs(t, err, fail)
	assert.Equal(t, 0, c.Len())

	v, err := c.Get("a", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestConcurrentGetAgrees(t *testing.T) {
	c := New[int, *int]()
	var n atomic.Int32

	results := make([]*int, 16)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, _ := c.Get(1, func() (*int, error) {
				x := int(n.Add(1))
				return &x, nil
			})
			results[i] = v
		}()
	}
	wg.Wait()

	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestReset(t *testing.T) {
	c := New[string, int]()
	_, _ = c.Get("a", func() (int, error) { return 1, nil })
	c.Reset()
	assert.Equal(t, 0, c.Len())
}
