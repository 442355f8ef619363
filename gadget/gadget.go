// Package gadget implements the signed balanced base-B digit
// decomposition from spec §4.2 that drives the GGSW external product and
// key switching. It is the Go analogue of the teacher's
// rlwe.DigitDecomposition + ring.DecomposeSignedBalanced, collapsed from
// an RNS moduli chain down to the single w=64 word this module works
// with throughout.
package gadget

import "fmt"

// Profile is a (log2 base, digit count) decomposition parameterization —
// the (log B, ell) pair from spec §4.2. The two profiles this module
// uses live in package params as params.Base.ExtProduct() (log B=8,
// ell=2) and params.Base.KeySwitch() (log B=4, ell=4).
type Profile struct {
	LogB int
	Ell  int
}

// Base returns 2^LogB as a uint64.
func (p Profile) Base() uint64 { return uint64(1) << uint(p.LogB) }

// Validate checks that the profile is usable for a w-bit word: LogB must
// be positive and LogB*Ell must not exceed w.
func (p Profile) Validate(w int) error {
	if p.LogB <= 0 || p.LogB > w {
		return fmt.Errorf("gadget: LogB=%d out of range (0, %d]", p.LogB, w)
	}
	if p.Ell <= 0 {
		return fmt.Errorf("gadget: Ell=%d must be > 0", p.Ell)
	}
	if p.LogB*p.Ell > w {
		return fmt.Errorf("gadget: LogB*Ell=%d exceeds word width %d", p.LogB*p.Ell, w)
	}
	return nil
}

// GadgetWeight returns the weight B^{w/logB - ell + j} that digit j
// (0-indexed, digit 0 = least significant) contributes when it is
// multiplied back in — i.e. entry ell-1-j (0-indexed) of the gadget
// vector g = (B^-1, B^-2, ..., B^-ell) * q, so digit 0 pairs with B^-ell
// and digit ell-1 with B^-1. w is the word width (64 throughout this
// module).
func (p Profile) GadgetWeight(w, j int) uint64 {
	shift := w - (p.Ell-j)*p.LogB
	return uint64(1) << uint(shift)
}

// DecomposeBalanced returns the ell signed balanced digits of v under
// profile p, following spec §4.2's rounding procedure:
//
//  1. Shift v right by (w - ell*logB - 1); add the low bit (round half
//     up); shift right once more.
//  2. For each digit index, starting from the least significant, take
//     the low logB bits of the running value and add the incoming carry.
//     If the result is B/2 or more, the digit is negative: subtract B
//     (balancing it into [-B/2, B/2)) and carry 1 into the next, more
//     significant digit. A carry out of the most significant digit is
//     dropped, since it weighs 2^w.
//
// Digits are returned low-order first (digit 0 = least significant),
// resolving the ambiguity spec §4.2 flags ("every call site consistently
// reverses them") in one direction for the whole module: every caller in
// packages ggsw and lwe indexes digits with digit 0 as least significant.
//
// Each returned digit is a uint64 whose two's-complement reading is the
// signed digit, so that multiplying it against a ring element with
// ordinary wrapping arithmetic computes the correct signed product.
func DecomposeBalanced(v uint64, p Profile, w int) []uint64 {
	ell := p.Ell
	logB := uint(p.LogB)
	base := p.Base()

	rounded := v >> uint(w-ell*p.LogB-1)
	rounded = (rounded + (rounded & 1)) >> 1

	digits := make([]uint64, ell)
	var carry uint64

	for j := 0; j < ell; j++ {
		slice := ((rounded >> (uint(j) * logB)) & (base - 1)) + carry
		if slice >= base>>1 {
			digits[j] = slice - base // negative digit, balanced form, wraps to uint64
			carry = 1
		} else {
			digits[j] = slice
			carry = 0
		}
	}

	return digits
}
