package game

import "math/rand/v2"

// PieceSource yields an unending sequence of piece types.
type PieceSource interface {
	Next() PieceType
}

// Bag is the 7-bag randomizer: every aligned run of seven outputs contains
// each piece type exactly once.
type Bag struct {
	rng *rand.Rand
	bag []PieceType
}

// NewBag creates a bag drawing its shuffles from rng. A nil rng gets a
// non-deterministic PCG source.
func NewBag(rng *rand.Rand) *Bag {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Bag{rng: rng}
}

// NewSeededBag creates a bag whose sequence is fully determined by seed.
func NewSeededBag(seed uint64) *Bag {
	return NewBag(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Next returns the next piece type from the bag.
func (b *Bag) Next() PieceType {
	if len(b.bag) == 0 {
		b.refill()
	}
	t := b.bag[0]
	b.bag = b.bag[1:]
	return t
}

func (b *Bag) refill() {
	b.bag = append(b.bag[:0], PieceTypes[:]...)
	// Fisher-Yates shuffle
	for i := len(b.bag) - 1; i > 0; i-- {
		j := b.rng.IntN(i + 1)
		b.bag[i], b.bag[j] = b.bag[j], b.bag[i]
	}
}
