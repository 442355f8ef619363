package ring

// MulKaratsuba returns a*b in R_q, computed with a recursive Karatsuba
// kernel instead of Mul's schoolbook double loop.
//
// The kernel first computes the ordinary (non-cyclic) convolution of a
// and b — a length-(2N-1) coefficient vector — by recursively splitting
// each operand into a bottom and a top half of equal length and
// recombining the three half-size sub-products (the classic
// a0*b0, a1*b1, (a0+a1)*(b0+b1) trick, saving one multiplication per
// level). Recursion stops and falls back to the schoolbook convolution
// once a half reaches length 64, where the schoolbook's simplicity beats
// Karatsuba's overhead.
//
// The second and final step folds that length-(2N-1) convolution down to
// N coefficients modulo X^N+1: coefficients at or above exponent N wrap
// around with a sign flip (fold[i] = raw[i] - raw[i+N]), which is the
// same negacyclic reduction Mul applies term-by-term. Because both
// folding and the Karatsuba recombination are linear operations over the
// wrapping uint64 ring, this two-step construction is algebraically
// identical to Mul — MulKaratsuba and Mul must agree bit-for-bit for
// every input, which is what TestMulKaratsubaMatchesMul checks.
func MulKaratsuba(a, b Poly) (c Poly) {
	raw := rawConvolve(a[:], b[:])

	for i := 0; i < N-1; i++ {
		c[i] = raw[i] - raw[i+N]
	}
	c[N-1] = raw[N-1]

	return
}

// karatsubaLeaf is the recursion cutoff from spec §4.1: at or below this
// length the schoolbook convolution is used directly.
const karatsubaLeaf = 64

// rawConvolve returns the ordinary (non-cyclic) convolution of a and b,
// a slice of length len(a)+len(b)-1. len(a) must equal len(b) and be a
// power of two no smaller than 1.
func rawConvolve(a, b []uint64) []uint64 {
	n := len(a)

	if n <= karatsubaLeaf {
		return schoolbookConvolve(a, b)
	}

	m := n / 2
	a0, a1 := a[:m], a[m:]
	b0, b1 := b[:m], b[m:]

	p0 := rawConvolve(a0, b0) // length 2m-1
	p2 := rawConvolve(a1, b1) // length 2m-1

	as := addVec(a0, a1)
	bs := addVec(b0, b1)
	p1 := rawConvolve(as, bs) // length 2m-1

	for i := range p1 {
		p1[i] -= p0[i]
		p1[i] -= p2[i]
	}

	out := make([]uint64, 2*n-1)
	copy(out, p0)
	for i, v := range p1 {
		out[m+i] += v
	}
	for i, v := range p2 {
		out[n+i] += v
	}

	return out
}

// schoolbookConvolve returns the ordinary convolution of a and b (both of
// the same length) via the direct double loop, with no modular
// reduction: this is rawConvolve's recursion base case.
func schoolbookConvolve(a, b []uint64) []uint64 {
	n := len(a)
	out := make([]uint64, 2*n-1)
	for i, av := range a {
		for j, bv := range b {
			out[i+j] += av * bv
		}
	}
	return out
}

// addVec returns the pointwise wrapping sum of two equal-length slices.
func addVec(a, b []uint64) []uint64 {
	out := make([]uint64, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}
