package utils

import (
	"math/rand/v2"
	"sync"
)

// Roller is the source of every random draw in the game rules.
// *rand.Rand satisfies it; tests supply scripted sequences.
type Roller interface {
	// Float64 returns a draw in [0.0, 1.0)
	Float64() float64
	// IntN returns a draw in [0, n)
	IntN(n int) int
}

// lockedRoller serializes access to a *rand.Rand, which is not safe for concurrent use
type lockedRoller struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRoller returns a concurrency-safe roller seeded from the runtime's entropy
func NewRoller() Roller {
	return &lockedRoller{rnd: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))} //nolint:gosec // Game logic randomness, not security critical
}

// NewSeededRoller returns a deterministic concurrency-safe roller
func NewSeededRoller(seed1, seed2 uint64) Roller {
	return &lockedRoller{rnd: rand.New(rand.NewPCG(seed1, seed2))} //nolint:gosec // Game logic randomness, not security critical
}

func (r *lockedRoller) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Float64()
}

func (r *lockedRoller) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.IntN(n)
}

// ScriptedRoller replays fixed draws in order and then repeats the last one.
// Floats and ints are scripted independently.
type ScriptedRoller struct {
	mu     sync.Mutex
	floats []float64
	ints   []int
	fi, ii int
}

// NewScriptedRoller returns a roller that yields floats in order
func NewScriptedRoller(floats ...float64) *ScriptedRoller {
	return &ScriptedRoller{floats: floats}
}

// WithInts sets the scripted IntN results. Each is reduced modulo n.
func (s *ScriptedRoller) WithInts(ints ...int) *ScriptedRoller {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ints = ints
	s.ii = 0
	return s
}

func (s *ScriptedRoller) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.floats) == 0 {
		return 0
	}
	idx := s.fi
	if idx >= len(s.floats) {
		idx = len(s.floats) - 1
	} else {
		s.fi++
	}
	return s.floats[idx]
}

func (s *ScriptedRoller) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 || len(s.ints) == 0 {
		return 0
	}
	idx := s.ii
	if idx >= len(s.ints) {
		idx = len(s.ints) - 1
	} else {
		s.ii++
	}
	v := s.ints[idx] % n
	if v < 0 {
		v += n
	}
	return v
}
