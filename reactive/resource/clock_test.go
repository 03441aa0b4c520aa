package resource

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClock_NewClock(t *testing.T) {
	c := NewClock()
	assert.Equal(t, uint64(0), c.Current(), "new clock should start at 0")
}

func TestClock_Next_Incrementing(t *testing.T) {
	c := NewClock()

	assert.Equal(t, uint64(1), c.Next())
	assert.Equal(t, uint64(2), c.Next())
	assert.Equal(t, uint64(3), c.Next())

	assert.Equal(t, uint64(3), c.Current())
}

func TestClock_Current_DoesNotAdvance(t *testing.T) {
	c := NewClock()

	c.Next()
	c.Next()

	assert.Equal(t, uint64(2), c.Current())
	assert.Equal(t, uint64(2), c.Current())
}

func TestClock_ThreadSafe(t *testing.T) {
	c := NewClock()
	const goroutines = 50
	const callsPerGoroutine = 200

	var wg sync.WaitGroup
	gens := make(chan uint64, goroutines*callsPerGoroutine)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				gens <- c.Next()
			}
		}()
	}

	wg.Wait()
	close(gens)

	seen := make(map[uint64]bool)
	for gen := range gens {
		assert.False(t, seen[gen], "generation %d minted twice", gen)
		seen[gen] = true
	}
	assert.Len(t, seen, goroutines*callsPerGoroutine)
}
