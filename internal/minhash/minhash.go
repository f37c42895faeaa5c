package minhash

import (
	"hash/fnv"
	"math/bits"
	"math/rand"
)

// DefaultPermutations balances estimation error (~1/sqrt(P)) against
// signature size.
const DefaultPermutations = 128

// mersennePrime bounds the permutation hash space.
const mersennePrime uint64 = (1 << 61) - 1

// emptySlot marks a slot untouched by any shingle. Permuted hashes are
// strictly below mersennePrime, so the sentinel never collides.
const emptySlot = mersennePrime

// permutationSeed fixes the global permutation family. Changing it
// invalidates every signature and cached comparison in flight.
const permutationSeed int64 = 1

// Signature is a fixed-length MinHash sketch of a shingle set. Signatures
// from the same Scheme length are comparable via Estimate.
type Signature []uint64

type permutation struct {
	a uint64
	b uint64
}

// Scheme is a fixed family of hash permutations. A single Scheme is safe
// for concurrent use; all signatures in a batch must come from schemes of
// equal permutation count.
type Scheme struct {
	perms []permutation
}

// New builds a Scheme with the given permutation count. Non-positive
// counts fall back to DefaultPermutations.
func New(numPerm int) *Scheme {
	if numPerm <= 0 {
		numPerm = DefaultPermutations
	}
	rng := rand.New(rand.NewSource(permutationSeed))
	perms := make([]permutation, numPerm)
	for i := range perms {
		perms[i] = permutation{
			a: 1 + rng.Uint64()%(mersennePrime-1),
			b: rng.Uint64() % mersennePrime,
		}
	}
	return &Scheme{perms: perms}
}

// Permutations returns the signature length this scheme produces.
func (s *Scheme) Permutations() int {
	return len(s.perms)
}

// Sign sketches the shingle set. The result is independent of map
// iteration order, and byte-identical input sets yield byte-identical
// signatures. An empty set signs to all sentinel slots.
func (s *Scheme) Sign(set map[string]struct{}) Signature {
	sig := make(Signature, len(s.perms))
	for i := range sig {
		sig[i] = emptySlot
	}
	for shingle := range set {
		base := baseHash(shingle)
		for i, p := range s.perms {
			if h := p.apply(base); h < sig[i] {
				sig[i] = h
			}
		}
	}
	return sig
}

// Estimate returns the fraction of agreeing slots, an estimator of the
// Jaccard similarity of the underlying sets. Mismatched lengths estimate 0;
// callers that care must validate lengths up front.
func Estimate(a, b Signature) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	agree := 0
	for i := range a {
		if a[i] == b[i] {
			agree++
		}
	}
	return float64(agree) / float64(len(a))
}

// apply computes (a*h + b) mod p without overflowing 64 bits.
func (p permutation) apply(h uint64) uint64 {
	hi, lo := bits.Mul64(p.a, h)
	// hi < p.a <= p-1, so the division cannot overflow.
	_, rem := bits.Div64(hi, lo, mersennePrime)
	return (rem + p.b) % mersennePrime
}

func baseHash(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
