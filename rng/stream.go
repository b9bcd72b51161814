package rng

import (
	"math/rand"

	mrg63k3a "github.com/maseology/pnrg/MRG63k3a"
)

const ntab = 32

// shuffle is a Bays-Durham shuffle table sitting over an MRG63k3a generator.
type shuffle struct {
	src rand.Source
	tab [ntab]int64
	y   int64
}

// Seed (re)initializes the generator and refills the shuffle table.
// Negative seeds are accepted; the sign is dropped.
func (s *shuffle) Seed(seed int64) {
	if seed < 0 {
		seed = -seed
	}
	if seed == 0 {
		seed = 1
	}
	s.src.Seed(seed)
	for j := ntab + 7; j >= 0; j-- { // warm-up draws are discarded
		v := s.src.Int63()
		if j < ntab {
			s.tab[j] = v
		}
	}
	s.y = s.tab[0]
}

func (s *shuffle) Int63() int64 {
	j := int(s.y % ntab)
	s.y = s.tab[j]
	s.tab[j] = s.src.Int63()
	return s.y
}

// Stream is one reproducible pseudo-random generator dedicated to a single role.
type Stream struct {
	Name string
	seed int64
	sh   *shuffle
	r    *rand.Rand
}

// NewStream returns an unseeded stream; call Reseed before drawing.
func NewStream(name string) *Stream {
	sh := &shuffle{src: mrg63k3a.New()}
	sh.Seed(1)
	return &Stream{Name: name, seed: 1, sh: sh, r: rand.New(sh)}
}

// Reseed restarts the sequence. Identical seeds give identical sequences.
func (s *Stream) Reseed(seed int64) {
	s.seed = seed
	s.r.Seed(seed)
}

// Seed returns the seed last used to (re)start the stream.
func (s *Stream) Seed() int64 { return s.seed }

// Float64 returns a uniform deviate in [0,1).
func (s *Stream) Float64() float64 { return s.r.Float64() }

// Gasdev returns a standard normal deviate.
func (s *Stream) Gasdev() float64 { return s.r.NormFloat64() }

// Intn returns a uniform integer in [0,n).
func (s *Stream) Intn(n int) int { return s.r.Intn(n) }

// Perm returns a random permutation of [0,n).
func (s *Stream) Perm(n int) []int { return s.r.Perm(n) }
