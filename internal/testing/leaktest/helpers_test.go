package leaktest

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGoroutineChecker_WaitsForExitingGoroutines(t *testing.T) {
	checker := NewGoroutineChecker(t)

	go func() { time.Sleep(30 * time.Millisecond) }()

	checker.Check(0)
}

func TestGoroutineChecker_WithTolerance(t *testing.T) {
	checker := NewGoroutineChecker(t)

	done := make(chan struct{})
	go func() { <-done }()

	checker.Check(1)
	close(done)
}

func TestSettle_ReportsStuckGoroutines(t *testing.T) {
	done := make(chan struct{})
	defer close(done)

	before, _ := settle(1<<20, 0)
	go func() { <-done }()

	n, ok := settle(before, 50*time.Millisecond)
	assert.False(t, ok)
	assert.Greater(t, n, before)
}

func TestCheckNoGoroutineLeak(t *testing.T) {
	CheckNoGoroutineLeak(t, func() {
		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() { defer wg.Done() }()
		}
		wg.Wait()
	})
}
