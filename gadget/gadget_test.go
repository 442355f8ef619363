package gadget

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// extProduct is the (log B=8, ell=2) profile spec §4.2 uses as its worked
// simplification: "take the top 16 bits of v (rounded); return (low 8
// bits as signed, high 8 bits + carry as signed)".
var extProduct = Profile{LogB: 8, Ell: 2}

func TestValidate(t *testing.T) {
	require.NoError(t, extProduct.Validate(64))
	require.NoError(t, Profile{LogB: 4, Ell: 4}.Validate(64))

	require.Error(t, Profile{LogB: 0, Ell: 2}.Validate(64))
	require.Error(t, Profile{LogB: 8, Ell: 0}.Validate(64))
	require.Error(t, Profile{LogB: 8, Ell: 9}.Validate(64)) // 8*9 > 64
	require.Error(t, Profile{LogB: 65, Ell: 1}.Validate(64))
}

func TestBase(t *testing.T) {
	require.Equal(t, uint64(256), extProduct.Base())
	require.Equal(t, uint64(16), Profile{LogB: 4, Ell: 4}.Base())
}

// decomposeTop16 reimplements spec §4.2's literal simplification for the
// (log B=8, ell=2) profile directly from the top 16 bits of v, independent
// of DecomposeBalanced's general ell-digit loop, so that the two can be
// cross-checked against each other.
func decomposeTop16(v uint64) (d0, d1 int64) {
	rounded := v >> 47
	rounded = (rounded + (rounded & 1)) >> 1 // round half up, 16-bit result

	lo := rounded & 0xFF
	hi := (rounded >> 8) & 0xFF

	var carry uint64
	if lo&0x80 != 0 {
		d0 = int64(lo) - 256
		carry = 1
	} else {
		d0 = int64(lo)
	}

	hi += carry
	if hi&0x80 != 0 {
		d1 = int64(hi) - 256
	} else {
		d1 = int64(hi)
	}
	return
}

func TestDecomposeBalancedMatchesSpecWorkedExample(t *testing.T) {
	trials := []uint64{
		0,
		1 << 63,
		1<<63 + 1<<40,
		^uint64(0),
		0x0123456789ABCDEF,
		0xFFFFFFFF00000000,
		0x8000000000000000,
		0x7FFFFFFFFFFFFFFF,
	}

	for _, v := range trials {
		wantD0, wantD1 := decomposeTop16(v)
		digits := DecomposeBalanced(v, extProduct, 64)

		require.Len(t, digits, 2)
		require.Equal(t, wantD0, int64(digits[0]), "v=%#x digit 0", v)
		require.Equal(t, wantD1, int64(digits[1]), "v=%#x digit 1", v)
	}
}

// TestDecomposeBalancedDigitsAreBounded checks every returned digit, read
// as a signed two's-complement value, lies in the balanced range
// [-B/2, B/2).
func TestDecomposeBalancedDigitsAreBounded(t *testing.T) {
	half := int64(extProduct.Base() / 2)

	for v := uint64(0); v < 1<<20; v += 12345 {
		for _, d := range DecomposeBalanced(v, extProduct, 64) {
			signed := int64(d)
			require.GreaterOrEqual(t, signed, -half)
			require.Less(t, signed, half)
		}
	}
}

// TestDecomposeBalancedReconstructs checks that recombining the digits by
// their gadget weights reproduces v, rounded to the decomposition's
// granularity (w - Ell*LogB low bits lost to rounding).
func TestDecomposeBalancedReconstructs(t *testing.T) {
	p := Profile{LogB: 4, Ell: 4}
	w := 64

	for v := uint64(0); v < 1<<20; v += 54321 {
		digits := DecomposeBalanced(v, p, w)

		var reconstructed uint64
		for j, d := range digits {
			reconstructed += d * p.GadgetWeight(w, j)
		}

		// Reconstruction matches v rounded to the nearest multiple of
		// 2^(w - Ell*LogB), up to the carry introduced by rounding.
		grain := uint64(1) << uint(w-p.Ell*p.LogB)
		diff := reconstructed - v
		if diff>>63 == 1 {
			diff = -diff
		}
		require.LessOrEqual(t, diff, grain)
	}
}

func TestGadgetWeight(t *testing.T) {
	p := Profile{LogB: 8, Ell: 2}
	// digit 0 (least significant) carries weight 2^(64-16) = 2^48.
	require.Equal(t, uint64(1)<<48, p.GadgetWeight(64, 0))
	// digit 1 (most significant) carries weight 2^(64-8) = 2^56.
	require.Equal(t, uint64(1)<<56, p.GadgetWeight(64, 1))
}
