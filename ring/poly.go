// Package ring implements the fixed-degree residue-polynomial ring
// R_q = Z_{2^64}[X]/(X^N+1) that backs every ciphertext type in this
// module: LWE masks are vectors over Z_q, GLWE/GGSW masks and bodies are
// elements of R_q.
//
// All arithmetic is wrapping arithmetic on uint64 words — there is no
// explicit modular reduction step because the modulus is implicitly
// 2^64 and Go's unsigned integer overflow already implements it.
package ring

// N is the ring degree. It is fixed at compile time, following the
// teacher's preference for arrays of compile-time length over dynamically
// sized buffers (cache-friendly, bounds checks eliminated) — see
// SPEC_FULL.md's Design Notes. It must match params.Base.N().
const N = 1024

// Poly is an element of R_q, represented by its N coefficients in
// natural (not bit-reversed, not NTT) order. The zero value is the zero
// polynomial.
type Poly [N]uint64

// Add returns a+b, computed pointwise with wrapping addition.
func Add(a, b Poly) (c Poly) {
	for i := range c {
		c[i] = a[i] + b[i]
	}
	return
}

// AddAssign sets a to a+b in place.
func AddAssign(a *Poly, b Poly) {
	for i := range a {
		a[i] += b[i]
	}
}

// Sub returns a-b, computed pointwise with wrapping subtraction.
func Sub(a, b Poly) (c Poly) {
	for i := range c {
		c[i] = a[i] - b[i]
	}
	return
}

// AddConstant returns a with constant added to its degree-0 coefficient
// only. This is how ciphertext bodies receive an encoded message.
func AddConstant(a Poly, constant uint64) (c Poly) {
	c = a
	c[0] += constant
	return
}

// AddConstantAssign adds constant to a's degree-0 coefficient in place.
func AddConstantAssign(a *Poly, constant uint64) {
	a[0] += constant
}

// Mul returns a*b in R_q using the direct O(N^2) schoolbook negacyclic
// product from spec §4.1:
//
//	c[i] = sum_{j=0}^{i} a[j]*b[i-j]  -  sum_{j=i+1}^{N-1} a[j]*b[N-j+i]
//
// with every addition/subtraction/multiplication performed as wrapping
// uint64 arithmetic. The subtracted sum is exactly where X^N = -1 enters:
// terms that would land on exponent N or above fold back with a sign
// flip. Mul is the correctness oracle every other multiplier (currently
// just MulKaratsuba) must agree with bit-for-bit.
func Mul(a, b Poly) (c Poly) {
	for i := 0; i < N; i++ {
		var coef uint64
		for j := 0; j <= i; j++ {
			coef += a[j] * b[i-j]
		}
		for j := i + 1; j < N; j++ {
			coef -= a[j] * b[N-j+i]
		}
		c[i] = coef
	}
	return
}

// MultiplyByMonomial returns a * X^e, where e is implicitly reduced
// modulo 2N (exponents in [N, 2N) negate the result, implementing the
// X^N = -1 identity without materializing X^e as a polynomial).
//
// This cheap cyclic-with-sign-flip rotation is the kernel a bootstrapping
// accumulator would use to rotate by a noisy LWE coefficient; it is
// exercised here as the monomial special case that spec property 11
// requires to agree bit-exactly with Mul.
func MultiplyByMonomial(a Poly, e int) (c Poly) {
	e %= 2 * N
	if e < 0 {
		e += 2 * N
	}
	reverse := e >= N
	e = e % N

	for i := 0; i < N; i++ {
		if i < e {
			if reverse {
				c[i] = a[i+N-e]
			} else {
				c[i] = -a[i+N-e]
			}
		} else {
			if reverse {
				c[i] = -a[i-e]
			} else {
				c[i] = a[i-e]
			}
		}
	}
	return
}

// Equal reports whether a and b have identical coefficients.
func Equal(a, b Poly) bool {
	return a == b
}
