package glwe

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tremblaythibaultl/ttfhe/codec"
	"github.com/tremblaythibaultl/ttfhe/ring"
)

// TestRoundTrip is spec §8 property 2.
func TestRoundTrip(t *testing.T) {
	src := ring.NewSource()
	sk := KeyGen(src)

	for m := uint8(0); m < 16; m++ {
		ct := NewCiphertext(codec.Encode(m), sk, src)
		require.Equal(t, m, codec.Decode(ct.Decrypt(sk)), "m=%d", m)
	}
}

// TestHomomorphicAddSub is spec §8 property 4.
func TestHomomorphicAddSub(t *testing.T) {
	src := ring.NewSource()
	sk := KeyGen(src)

	for trial := 0; trial < 100; trial++ {
		m1 := uint8(src.Uint64() % 16)
		m2 := uint8(src.Uint64() % 16)

		c1 := NewCiphertext(codec.Encode(m1), sk, src)
		c2 := NewCiphertext(codec.Encode(m2), sk, src)

		sum := c1.Add(c2)
		require.Equal(t, (m1+m2)%16, codec.Decode(sum.Decrypt(sk)), "trial %d add", trial)

		diff := c1.Sub(c2)
		require.Equal(t, (m1-m2+16)%16, codec.Decode(diff.Decrypt(sk)), "trial %d sub", trial)
	}
}

// TestSampleExtract is spec §8 property 5.
func TestSampleExtract(t *testing.T) {
	src := ring.NewSource()
	sk := KeyGen(src)

	for trial := 0; trial < 100; trial++ {
		m := uint8(src.Uint64() % 16)
		ct := NewCiphertext(codec.Encode(m), sk, src)

		extracted, recoded := ct.SampleExtract(sk)
		require.Equal(t, m, codec.Decode(extracted.Decrypt(recoded)), "trial %d", trial)
	}
}

// TestScenarioB is spec §8 scenario B: fixed seed, GLWE-encrypt m1=7 and
// m2=9, add, decrypt, expect 0 (16 mod 16).
func TestScenarioB(t *testing.T) {
	src := ring.NewSourceFromSeed(ring.FixedSeed("scenario-B"))
	sk := KeyGen(src)

	c1 := NewCiphertext(codec.Encode(7), sk, src)
	c2 := NewCiphertext(codec.Encode(9), sk, src)

	sum := c1.Add(c2)
	require.Equal(t, uint8(0), codec.Decode(sum.Decrypt(sk)))
}

// TestExtractCoefficientsGeneralizesToKGreaterThanOne exercises the
// k > 1 recoding formula from spec §9's "Generalisation to k > 1" note
// directly, independent of lwe.Dim (which only accommodates k=1 at this
// module's fixed N=1024): with k=2, the output must be the concatenation
// of each mask polynomial's own (coef[0], -coef[N-1], ..., -coef[1])
// block, in order.
func TestExtractCoefficientsGeneralizesToKGreaterThanOne(t *testing.T) {
	src := ring.NewSource()
	mask := []ring.Poly{src.UniformPoly(), src.UniformPoly()}
	skPolys := []ring.Poly{src.BinaryPoly(), src.BinaryPoly()}

	maskOut, keyOut := extractCoefficients(mask, skPolys)

	n := len(mask[0])
	require.Len(t, maskOut, 2*n)
	require.Len(t, keyOut, 2*n)

	for j := 0; j < 2; j++ {
		base := j * n
		require.Equal(t, mask[j][0], maskOut[base], "j=%d pos 0", j)
		require.Equal(t, skPolys[j][0], keyOut[base], "j=%d pos 0", j)
		for i := 1; i < n; i++ {
			require.Equal(t, -mask[j][n-i], maskOut[base+i], "j=%d pos %d", j, i)
			require.Equal(t, skPolys[j][i], keyOut[base+i], "j=%d pos %d", j, i)
		}
	}
}

func TestCiphertextMarshalRoundTrip(t *testing.T) {
	src := ring.NewSource()
	sk := KeyGen(src)
	ct := NewCiphertext(codec.Encode(3), sk, src)

	data, err := ct.MarshalBinary()
	require.NoError(t, err)

	back := &Ciphertext{Mask: make([]ring.Poly, len(ct.Mask))}
	require.NoError(t, back.UnmarshalBinary(data))
	require.Equal(t, ct.Body, back.Body)
	require.Equal(t, ct.Mask, back.Mask)
}

// TestSecretKeyMarshalRoundTrip checks the ambient binary serialization
// convention on SecretKey.
func TestSecretKeyMarshalRoundTrip(t *testing.T) {
	src := ring.NewSource()
	sk := KeyGen(src)

	data, err := sk.MarshalBinary()
	require.NoError(t, err)

	var back SecretKey
	require.NoError(t, back.UnmarshalBinary(data))
	require.Equal(t, sk, back)
}
