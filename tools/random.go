package tools

import (
	"math/rand/v2"
	"sync"
	"time"
)

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed))
)

// Seed replaces the shared random source so simulated outcomes repeat across runs.
func Seed(seed uint64) {
	rngMu.Lock()
	defer rngMu.Unlock()
	rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// pick returns a uniformly chosen element of opts. opts must be non-empty.
func pick[T any](opts []T) T {
	rngMu.Lock()
	defer rngMu.Unlock()
	return opts[rng.IntN(len(opts))]
}
