// Package leaktest checks that background workers do not leave goroutines behind
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

// settleTimeout bounds how long Check waits for goroutines to exit
const settleTimeout = 2 * time.Second

// GoroutineChecker records the goroutine count at creation and compares against it later
type GoroutineChecker struct {
	before int
	t      testing.TB
}

// NewGoroutineChecker creates a new checker and records the current goroutine count
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()
	runtime.Gosched()
	return &GoroutineChecker{
		before: runtime.NumGoroutine(),
		t:      t,
	}
}

// Check fails the test when more than tolerance goroutines are still running
// once settleTimeout has passed. Stopped timers and exiting workers get until
// then to finish.
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()
	if leaked, ok := settle(g.before+tolerance, settleTimeout); !ok {
		g.t.Errorf("Potential goroutine leak: before=%d, after=%d (tolerance=%d)",
			g.before, leaked, tolerance)
	}
}

// settle polls until at most target goroutines run or timeout passes. It
// returns the last count seen.
func settle(target int, timeout time.Duration) (int, bool) {
	deadline := time.Now().Add(timeout)
	for {
		runtime.Gosched()
		n := runtime.NumGoroutine()
		if n <= target {
			return n, true
		}
		if time.Now().After(deadline) {
			return n, false
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// CheckNoGoroutineLeak runs fn and fails the test if it left goroutines running
func CheckNoGoroutineLeak(t *testing.T, fn func()) {
	t.Helper()
	checker := NewGoroutineChecker(t)
	fn()
	checker.Check(0)
}
