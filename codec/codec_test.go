package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRoundTrip is spec §8 property 12: decode(encode(m)) = m for all
// m in [0, p).
func TestRoundTrip(t *testing.T) {
	for m := uint8(0); m < p; m++ {
		require.Equal(t, m, Decode(Encode(m)), "m=%d", m)
	}
}

func TestEncodePlacesMessageInTopBits(t *testing.T) {
	require.Equal(t, uint64(0), Encode(0))
	require.Equal(t, uint64(1)<<60, Encode(1))
	require.Equal(t, uint64(15)<<60, Encode(15))
}

// TestDecodeTolerateSymmetricNoise checks that mu within the decoding
// margin of encode(m) still decodes to m.
func TestDecodeTolerateSymmetricNoise(t *testing.T) {
	margin := int64(1) << (w - logP - 2)

	for m := uint8(0); m < p; m++ {
		base := Encode(m)
		for _, noise := range []int64{-margin + 1, 0, margin - 1} {
			mu := uint64(int64(base) + noise)
			require.Equal(t, m, Decode(mu), "m=%d noise=%d", m, noise)
		}
	}
}
