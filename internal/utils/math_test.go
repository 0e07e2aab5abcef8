package utils

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestScriptedRoller(t *testing.T) {
	r := NewScriptedRoller(0.1, 0.5).WithInts(3, 12)

	assert.Equal(t, 0.1, r.Float64())
	assert.Equal(t, 0.5, r.Float64())
	assert.Equal(t, 0.5, r.Float64(), "last draw repeats once the script is exhausted")

	assert.Equal(t, 3, r.IntN(10))
	assert.Equal(t, 2, r.IntN(10), "ints are reduced modulo n")
	assert.Equal(t, 0, NewScriptedRoller().IntN(5))
}

func TestRollPercent(t *testing.T) {
	tests := []struct {
		name   string
		draw   float64
		chance int
		want   bool
	}{
		{"draw under chance", 0.29, 30, true},
		{"draw at chance boundary fails", 0.30, 30, false},
		{"zero chance never hits", 0.0, 0, false},
		{"full chance always hits", 0.9999, 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RollPercent(NewScriptedRoller(tt.draw), tt.chance))
		})
	}
}

func TestUniformCents(t *testing.T) {
	min := decimal.RequireFromString("100.00")
	max := decimal.RequireFromString("200.00")

	low := UniformCents(NewScriptedRoller().WithInts(0), min, max)
	assert.True(t, low.Equal(min), "got %s", low)

	high := UniformCents(NewScriptedRoller().WithInts(10000), min, max)
	assert.True(t, high.Equal(max), "got %s", high)

	mid := UniformCents(NewScriptedRoller().WithInts(5025), min, max)
	assert.True(t, mid.Equal(decimal.RequireFromString("150.25")), "got %s", mid)

	fixed := UniformCents(NewScriptedRoller(), max, min)
	assert.True(t, fixed.Equal(max))
}

func TestUniformCents_StaysInRange(t *testing.T) {
	r := NewSeededRoller(1, 2)
	min := decimal.RequireFromString("0.50")
	max := decimal.RequireFromString("3.75")

	for i := 0; i < 500; i++ {
		v := UniformCents(r, min, max)
		assert.True(t, v.GreaterThanOrEqual(min) && v.LessThanOrEqual(max), "out of range: %s", v)
		assert.True(t, v.Equal(v.Round(2)))
	}
}

func TestVarianceFactor(t *testing.T) {
	assert.Equal(t, 1.0, VarianceFactor(NewScriptedRoller(0.9), 0))
	assert.InDelta(t, 0.8, VarianceFactor(NewScriptedRoller(0), 0.2), 1e-9)
	assert.InDelta(t, 1.0, VarianceFactor(NewScriptedRoller(0.5), 0.2), 1e-9)
}

func TestLockedRoller_Concurrent(t *testing.T) {
	r := NewRoller()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				f := r.Float64()
				assert.GreaterOrEqual(t, f, 0.0)
				assert.Less(t, f, 1.0)
				n := r.IntN(6)
				assert.GreaterOrEqual(t, n, 0)
				assert.Less(t, n, 6)
			}
		}()
	}
	wg.Wait()
}
