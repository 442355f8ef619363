// Package codec places a 4-bit message into and out of the most
// significant bits of a 64-bit ciphertext word, per spec §3's "Message
// encoding" and §6's typed surface.
//
// This module fixes w=64 and p=16 throughout (see params.Base and
// SPEC_FULL.md's Open Question 1), so Encode/Decode take no parameter
// set argument — unlike ring/gadget, which stay agnostic of the active
// profile, the codec's bit positions are baked into the one profile this
// module supports.
package codec

// w is the ciphertext word width and logP is log2 of the plaintext
// modulus p=16, matching params.Base. LogP and P are exported for
// packages (ggsw) that need to derive a decode width from a non-default
// encoding shift, e.g. the scaling factor a GGSW row's body carries.
const (
	w    = 64
	LogP = 4
	logP = LogP
	P    = 1 << LogP
	p    = P
)

// Encode places m in the top logP bits of a w-bit word:
// encode(m) = m * 2^(w-logP).
func Encode(m uint8) uint64 {
	return uint64(m) << (w - logP)
}

// Decode rounds mu to the nearest multiple of 2^(w-logP) and returns the
// top logP bits as a message in [0, p):
// decode(mu) = ((mu >> (w-logP-1)) + 1) >> 1 mod p.
//
// This tolerates symmetric noise in mu of up to 2^(w-logP-2) — any mu
// within that margin of Encode(m) decodes back to m.
func Decode(mu uint64) uint8 {
	return DecodeWidth(mu, w)
}

// DecodeWidth is Decode generalized to an arbitrary word width bits,
// used to decode a value that has already been reduced to a smaller
// modulus by lwe.Ciphertext.ModSwitch (spec §4.3's "decrypt modulo 2N"):
// decode(mu) = ((mu >> (bits-logP-1)) + 1) >> 1 mod p.
func DecodeWidth(mu uint64, bits int) uint8 {
	rounded := (mu >> uint(bits-logP-1)) + 1
	rounded >>= 1
	return uint8(rounded % p)
}
