package tictactoe

import (
	"math/rand/v2"
	"sync"
)

// Coin decides ties. Flip reports heads with probability one half.
type Coin interface {
	Flip() bool
}

type CoinFunc func() bool

func (that CoinFunc) Flip() bool {
	return that()
}

type randomCoin struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomCoin returns a coin that is safe for concurrent use and replays the
// same sequence of flips for the same seed.
func NewRandomCoin(seed uint64) Coin {
	return &randomCoin{
		rnd: rand.New(rand.NewPCG(seed, seed>>1|1)), //nolint: gosec // game randomness
	}
}

func (that *randomCoin) Flip() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.rnd.Float64() >= 0.5
}

// RandomSeed picks a seed when none is configured.
func RandomSeed() uint64 {
	return rand.Uint64() //nolint: gosec // game randomness
}
