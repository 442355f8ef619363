package ring

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
	mrand "math/rand/v2"
)

// Source is a thread-local randomness source pairing a CSPRNG for uniform
// sampling with a discrete Gaussian wrapper (a continuous normal sample,
// rounded to the nearest integer) for error sampling, following
// ring.GaussianSampler's split in the teacher corpus, simplified to a
// single fixed modulus: there is no RNS moduli chain here, so there is
// also no big.Int fallback for a standard deviation approaching the
// modulus — sigma never exceeds 2^49, far inside float64's range.
//
// A Source must not be reused across independently-keyed sessions (see
// spec §9, "Implementations must not reuse seeds across keys or across
// encryption calls"); NewSource reseeds from crypto/rand every time.
//
// rng wraps a ChaCha8 bit source in a *mrand.Rand: ChaCha8 itself only
// exposes Uint64 (it implements mrand.Source, nothing more), while
// NormFloat64 — needed for Gaussian error sampling — lives on Rand.
type Source struct {
	rng *mrand.Rand
}

// NewSource returns a Source seeded from the operating system's CSPRNG.
func NewSource() *Source {
	var seed [32]byte
	if _, err := rand.Read(seed[:]); err != nil {
		panic(fmt.Errorf("ring: failed to seed CSPRNG: %w", err))
	}
	return &Source{rng: mrand.New(mrand.NewChaCha8(seed))}
}

// Uint64 returns a uniformly random word in [0, 2^64).
func (s *Source) Uint64() uint64 {
	return s.rng.Uint64()
}

// Bit returns a uniformly random bit, 0 or 1.
func (s *Source) Bit() uint64 {
	return s.rng.Uint64() & 1
}

// UniformPoly returns a polynomial with every coefficient drawn
// independently and uniformly from Z_q.
func (s *Source) UniformPoly() (p Poly) {
	for i := range p {
		p[i] = s.Uint64()
	}
	return
}

// BinaryPoly returns a polynomial with every coefficient independently
// drawn from {0, 1} — the distribution used for GLWE secret-key
// polynomials.
func (s *Source) BinaryPoly() (p Poly) {
	for i := range p {
		p[i] = s.Bit()
	}
	return
}

// GaussianInt64 draws one sample from a discrete Gaussian of standard
// deviation sigma, realized by rounding a continuous normal sample to the
// nearest integer (spec §9: "acceptable if sigma is large", which holds
// throughout this module — sigma is always on the order of 2^49).
func (s *Source) GaussianInt64(sigma float64) int64 {
	return int64(math.Round(s.rng.NormFloat64() * sigma))
}

// NewSourceFromSeed returns a deterministic Source for testing. It must
// never be used to key production ciphertexts.
func NewSourceFromSeed(seed [32]byte) *Source {
	return &Source{rng: mrand.New(mrand.NewChaCha8(seed))}
}

// FixedSeed turns an arbitrary byte string into a 32-byte ChaCha8 seed by
// repeating/truncating it, for use with NewSourceFromSeed in tests that
// want a short, readable literal seed.
func FixedSeed(label string) (seed [32]byte) {
	b := []byte(label)
	for i := range seed {
		seed[i] = b[i%len(b)]
	}
	binary.BigEndian.PutUint64(seed[24:], uint64(len(label)))
	return
}
