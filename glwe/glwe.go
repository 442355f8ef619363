// Package glwe implements polynomial-form GLWE encryption, the
// homomorphic additive operators and sample extraction from spec §4.4 —
// the ring-valued generalization of package lwe, the way rlwe.Ciphertext
// generalizes a bare LWE sample in the teacher corpus.
package glwe

import (
	"fmt"

	"github.com/tremblaythibaultl/ttfhe/lwe"
	"github.com/tremblaythibaultl/ttfhe/params"
	"github.com/tremblaythibaultl/ttfhe/ring"
)

// SecretKey is k binary-coefficient polynomials, k = params.Base.K().
type SecretKey struct {
	Polys []ring.Poly
}

// KeyGen samples a fresh GLWE secret key: k polynomials, each
// coefficient drawn independently and uniformly from {0, 1}.
func KeyGen(src *ring.Source) SecretKey {
	k := params.Base.K()
	sk := SecretKey{Polys: make([]ring.Poly, k)}
	for i := range sk.Polys {
		sk.Polys[i] = src.BinaryPoly()
	}
	return sk
}

// MarshalBinary encodes sk as an 8-byte little-endian k header followed
// by k polynomials of N little-endian uint64 words each.
func (sk *SecretKey) MarshalBinary() ([]byte, error) {
	k := len(sk.Polys)
	buf := make([]byte, 8+8*ring.N*k)
	putUint64(buf, uint64(k))
	for i, poly := range sk.Polys {
		putPoly(buf[8+8*ring.N*i:], poly)
	}
	return buf, nil
}

// UnmarshalBinary decodes a buffer produced by MarshalBinary.
func (sk *SecretKey) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return fmt.Errorf("glwe: SecretKey.UnmarshalBinary: buffer too short")
	}
	k := int(getUint64(data))
	want := 8 + 8*ring.N*k
	if len(data) != want {
		return fmt.Errorf("glwe: SecretKey.UnmarshalBinary: want %d bytes, got %d", want, len(data))
	}

	polys := make([]ring.Poly, k)
	for i := range polys {
		polys[i] = getPoly(data[8+8*ring.N*i:])
	}
	sk.Polys = polys
	return nil
}

// Ciphertext is a GLWE ciphertext (Mask[0..k), Body), every entry a
// ring.Poly.
type Ciphertext struct {
	Mask []ring.Poly
	Body ring.Poly
}

// NewCiphertext encrypts mu (a word already produced by codec.Encode)
// under sk: each mask polynomial is drawn uniformly, and
// body = Sum_i mask[i]*sk.Polys[i] + (mu+e) added to the constant term
// only, for a discrete Gaussian error e of standard deviation
// params.Base.SigmaGLWE().
func NewCiphertext(mu uint64, sk SecretKey, src *ring.Source) *Ciphertext {
	k := len(sk.Polys)
	ct := &Ciphertext{Mask: make([]ring.Poly, k)}

	for i := range ct.Mask {
		ct.Mask[i] = src.UniformPoly()
		ct.Body = ring.Add(ct.Body, ring.Mul(ct.Mask[i], sk.Polys[i]))
	}

	e := uint64(src.GaussianInt64(params.Base.SigmaGLWE()))
	ring.AddConstantAssign(&ct.Body, mu+e)
	return ct
}

// Decrypt returns (body - Sum mask[i]*sk.Polys[i]).coef[0]. Pass the
// result through codec.Decode to recover the message.
func (ct *Ciphertext) Decrypt(sk SecretKey) uint64 {
	acc := ct.Body
	for i := range ct.Mask {
		acc = ring.Sub(acc, ring.Mul(ct.Mask[i], sk.Polys[i]))
	}
	return acc[0]
}

// Add returns ct+op, computed pointwise on every mask polynomial and on
// the body.
func (ct *Ciphertext) Add(op *Ciphertext) *Ciphertext {
	out := &Ciphertext{Mask: make([]ring.Poly, len(ct.Mask)), Body: ring.Add(ct.Body, op.Body)}
	for i := range out.Mask {
		out.Mask[i] = ring.Add(ct.Mask[i], op.Mask[i])
	}
	return out
}

// Sub returns ct-op, computed pointwise on every mask polynomial and on
// the body.
func (ct *Ciphertext) Sub(op *Ciphertext) *Ciphertext {
	out := &Ciphertext{Mask: make([]ring.Poly, len(ct.Mask)), Body: ring.Sub(ct.Body, op.Body)}
	for i := range out.Mask {
		out.Mask[i] = ring.Sub(ct.Mask[i], op.Mask[i])
	}
	return out
}

// SampleExtract converts ct into an LWE ciphertext under the recoded key
// (spec §4.4, generalized to k >= 1 per the "Generalisation to k > 1"
// design note). It panics if k*N does not equal lwe.Dim: this module's
// only instantiated profile has k=1 and N=lwe.Dim, so that always holds
// in practice. extractCoefficients, which does the actual recoding
// arithmetic, is written and tested against general k independently of
// this Dim constraint.
func (ct *Ciphertext) SampleExtract(sk SecretKey) (*lwe.Ciphertext, lwe.SecretKey) {
	k := len(ct.Mask)
	n := len(ct.Mask[0])
	if k*n != lwe.Dim {
		panic(fmt.Sprintf("glwe: SampleExtract: k*N=%d does not match lwe.Dim=%d", k*n, lwe.Dim))
	}

	maskOut, keyOut := extractCoefficients(ct.Mask, sk.Polys)

	out := &lwe.Ciphertext{Body: ct.Body[0]}
	recoded := lwe.SecretKey{}
	for pos, v := range maskOut {
		out.Mask[pos] = v
		lwe.SetSecretKeyEntry(&recoded, pos, keyOut[pos])
	}

	return out, recoded
}

// extractCoefficients implements the recoding formula from the
// "Generalisation to k > 1" design note: the LWE mask is the
// concatenation, over j in [0,k), of
// (mask[j].coef[0], -mask[j].coef[N-1], ..., -mask[j].coef[1]), and the
// recoded secret key is the same concatenation of sk.Polys[j]'s own
// coefficients (unnegated, in natural order). It is independent of
// lwe.Dim so that the k > 1 case can be exercised directly in tests.
func extractCoefficients(mask []ring.Poly, skPolys []ring.Poly) (maskOut, keyOut []uint64) {
	k := len(mask)
	n := len(mask[0])

	maskOut = make([]uint64, k*n)
	keyOut = make([]uint64, k*n)

	pos := 0
	for j := 0; j < k; j++ {
		maskPoly := mask[j]
		skPoly := skPolys[j]

		maskOut[pos] = maskPoly[0]
		keyOut[pos] = skPoly[0]
		pos++

		for i := 1; i < n; i++ {
			maskOut[pos] = -maskPoly[n-i]
			keyOut[pos] = skPoly[i]
			pos++
		}
	}

	return
}

// MarshalBinary encodes ct as (k+1) polynomials of N little-endian
// uint64 words each: Mask[0], ..., Mask[k-1], Body.
func (ct *Ciphertext) MarshalBinary() ([]byte, error) {
	k := len(ct.Mask)
	buf := make([]byte, 8*ring.N*(k+1))
	for i, poly := range ct.Mask {
		putPoly(buf[8*ring.N*i:], poly)
	}
	putPoly(buf[8*ring.N*k:], ct.Body)
	return buf, nil
}

// UnmarshalBinary decodes a buffer produced by MarshalBinary. k is taken
// from len(ct.Mask); callers decoding into a zero-value Ciphertext must
// set Mask to the right length first.
func (ct *Ciphertext) UnmarshalBinary(data []byte) error {
	k := len(ct.Mask)
	want := 8 * ring.N * (k + 1)
	if len(data) != want {
		return fmt.Errorf("glwe: Ciphertext.UnmarshalBinary: want %d bytes, got %d", want, len(data))
	}
	for i := range ct.Mask {
		ct.Mask[i] = getPoly(data[8*ring.N*i:])
	}
	ct.Body = getPoly(data[8*ring.N*k:])
	return nil
}

func putPoly(b []byte, p ring.Poly) {
	for i, v := range p {
		for byteIdx := 0; byteIdx < 8; byteIdx++ {
			b[8*i+byteIdx] = byte(v >> (8 * byteIdx))
		}
	}
}

func getPoly(b []byte) (p ring.Poly) {
	for i := range p {
		var v uint64
		for byteIdx := 0; byteIdx < 8; byteIdx++ {
			v |= uint64(b[8*i+byteIdx]) << (8 * byteIdx)
		}
		p[i] = v
	}
	return
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func getUint64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}
