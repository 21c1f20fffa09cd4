package game

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// Source is the slice of *rand.Rand the resolver needs; tests inject fixed sequences.
type Source interface {
	IntN(n int) int
	Float64() float64
}

type Stream string

const (
	StreamDaily    Stream = "daily"
	StreamExplore  Stream = "explore"
	StreamBonus    Stream = "explore-bonus"
	StreamNPCGate  Stream = "npc-gate"
	StreamNPC      Stream = "npc"
	StreamScavenge Stream = "scavenge"
)

// Resolver hands out one independent generator per stream so a draw on one
// stream never shifts the sequence of another.
type Resolver struct {
	seed    int64
	epoch   int
	streams map[Stream]Source
	factory func(Stream) Source
}

func NewResolver(seed int64, epoch int) *Resolver {
	r := &Resolver{seed: seed, epoch: epoch, streams: map[Stream]Source{}}
	r.factory = func(s Stream) Source {
		return seededRNG(seed, fmt.Sprintf("%s:%d", s, epoch))
	}
	return r
}

// NewResolverWithSources builds a resolver from caller supplied sources.
// Streams missing from the map fall back to a seeded generator.
func NewResolverWithSources(seed int64, sources map[Stream]Source) *Resolver {
	r := NewResolver(seed, 0)
	for s, src := range sources {
		r.streams[s] = src
	}
	return r
}

func (r *Resolver) stream(s Stream) Source {
	src, ok := r.streams[s]
	if !ok {
		src = r.factory(s)
		r.streams[s] = src
	}
	return src
}

// Draw picks one element uniformly. An empty pool reports false and consumes nothing.
func Draw[T any](r *Resolver, s Stream, pool []T) (T, bool) {
	var zero T
	if len(pool) == 0 {
		return zero, false
	}
	return pool[r.stream(s).IntN(len(pool))], true
}

// IntN draws from [0, n) on stream s. n <= 0 yields 0 without a draw.
func (r *Resolver) IntN(s Stream, n int) int {
	if n <= 0 {
		return 0
	}
	return r.stream(s).IntN(n)
}

func (r *Resolver) Chance(s Stream, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.stream(s).Float64() < p
}

func seededRNG(seed int64, salt string) *rand.Rand {
	// Non-cryptographic PRNG is intentional for deterministic simulation behavior.
	// #nosec G404
	return rand.New(rand.NewPCG(seedWord(seed, salt+":a"), seedWord(seed, salt+":b")))
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}
