// Package lwe implements vector-form LWE encryption, the homomorphic
// additive operators, modulus switching and key switching from spec
// §4.3/§4.6 — the Go analogue of the teacher's rlwe.Ciphertext /
// rlwe.Encryptor / rlwe.Decryptor trio, collapsed to the n=1 (bare LWE,
// no ring structure) case and a single fixed parameter set.
package lwe

import (
	"fmt"

	"github.com/tremblaythibaultl/ttfhe/gadget"
	"github.com/tremblaythibaultl/ttfhe/params"
	"github.com/tremblaythibaultl/ttfhe/ring"
)

// Dim is the LWE dimension n. It equals params.Base.LweDim() (and, in
// this profile, params.Base.N()) and is fixed at compile time for the
// same reason ring.N is: a single parameter set, array-backed buffers.
const Dim = 1024

// SecretKey is a binary vector of length Dim: each entry is 0 or 1.
type SecretKey struct {
	s [Dim]uint64
}

// KeyGen samples a fresh LWE secret key, each entry drawn independently
// and uniformly from {0, 1}.
func KeyGen(src *ring.Source) SecretKey {
	var sk SecretKey
	for i := range sk.s {
		sk.s[i] = src.Bit()
	}
	return sk
}

// MarshalBinary encodes sk as Dim little-endian uint64 words.
func (sk *SecretKey) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 8*Dim)
	for i, v := range sk.s {
		putUint64(buf[8*i:], v)
	}
	return buf, nil
}

// UnmarshalBinary decodes a buffer produced by MarshalBinary.
func (sk *SecretKey) UnmarshalBinary(data []byte) error {
	if len(data) != 8*Dim {
		return fmt.Errorf("lwe: SecretKey.UnmarshalBinary: want %d bytes, got %d", 8*Dim, len(data))
	}
	for i := range sk.s {
		sk.s[i] = getUint64(data[8*i:])
	}
	return nil
}

// Ciphertext is an LWE ciphertext (mask, body) over Z_q, q=2^64.
type Ciphertext struct {
	Mask [Dim]uint64
	Body uint64
}

// NewCiphertext encrypts mu (a word already produced by codec.Encode)
// under sk: mask is drawn uniformly, body = <mask, sk> + mu + e for a
// discrete Gaussian error e of standard deviation params.Base.SigmaLWE().
func NewCiphertext(mu uint64, sk SecretKey, src *ring.Source) *Ciphertext {
	ct := &Ciphertext{Body: mu}
	for i := range ct.Mask {
		ct.Mask[i] = src.Uint64()
	}
	ct.Body += dot(ct.Mask, sk)
	ct.Body += uint64(src.GaussianInt64(params.Base.SigmaLWE()))
	return ct
}

// Decrypt returns body - <mask, sk> = mu + e. Pass the result through
// codec.Decode to recover the message.
func (ct *Ciphertext) Decrypt(sk SecretKey) uint64 {
	return ct.Body - dot(ct.Mask, sk)
}

// Add returns ct+op, computed pointwise on mask and body.
func (ct *Ciphertext) Add(op *Ciphertext) *Ciphertext {
	out := &Ciphertext{Body: ct.Body + op.Body}
	for i := range out.Mask {
		out.Mask[i] = ct.Mask[i] + op.Mask[i]
	}
	return out
}

// Sub returns ct-op, computed pointwise on mask and body.
func (ct *Ciphertext) Sub(op *Ciphertext) *Ciphertext {
	out := &Ciphertext{Body: ct.Body - op.Body}
	for i := range out.Mask {
		out.Mask[i] = ct.Mask[i] - op.Mask[i]
	}
	return out
}

// ModSwitch reduces the modulus to 2N (the bootstrap accumulator size),
// rounding every mask entry and the body by the same half-up rule as
// codec.Decode, generalized to a (LogN+1)-bit target width. The returned
// ciphertext's mask and body hold values in [0, 2N] (2N itself appears
// when a word within 2^(w-LogN-2) of 2^w rounds up, and is congruent to
// 0); decrypt it with DecryptModSwitched, which reduces modulo 2N, not
// Decrypt.
func (ct *Ciphertext) ModSwitch() *Ciphertext {
	shift := uint(w - log2N() - 1)
	round := func(x uint64) uint64 {
		r := (x >> shift) + 1
		return r >> 1
	}

	out := &Ciphertext{Body: round(ct.Body)}
	for i := range out.Mask {
		out.Mask[i] = round(ct.Mask[i])
	}
	return out
}

// DecryptModSwitched decrypts a ciphertext produced by ModSwitch: the
// dot product and subtraction are both reduced modulo 2N rather than
// modulo 2^64.
func (ct *Ciphertext) DecryptModSwitched(sk SecretKey) uint64 {
	mod := uint64(1) << uint(log2N())
	maskBits := mod - 1

	var d uint64
	for i := range ct.Mask {
		d += ct.Mask[i] * sk.s[i]
	}
	d &= maskBits

	return (ct.Body - d) & maskBits
}

// KeySwitchingKey is a flat list of Dim*Ell LWE ciphertexts, ordered
// (i,j) = (0,0),(0,1),...,(Dim-1,Ell-1): row i*Ell+j encrypts
// sk1[i]*B^(j+1), shifted to the high end of the modulus, under sk2
// (spec §4.6).
type KeySwitchingKey struct {
	rows []Ciphertext
	ell  int
}

// NewKeySwitchingKey builds a key-switching key from sk1 (the key a
// ciphertext is currently under) to sk2 (the key it will be switched
// to), using the gadget profile params.Base.KeySwitch().
func NewKeySwitchingKey(sk1, sk2 SecretKey, src *ring.Source) *KeySwitchingKey {
	p := params.Base.KeySwitch()
	ell := p.Ell
	rows := make([]Ciphertext, Dim*ell)

	for i := 0; i < Dim; i++ {
		for j := 0; j < ell; j++ {
			shift := uint(w - (j+1)*p.LogB)
			plaintext := sk1.s[i] << shift
			rows[i*ell+j] = *NewCiphertext(plaintext, sk2, src)
		}
	}

	return &KeySwitchingKey{rows: rows, ell: ell}
}

// KeySwitch rewrites ct (currently under the key sk1 that built ksk) to
// a ciphertext of the same plaintext under ksk's sk2 (spec §4.3): for
// every mask position i, mask[i] is decomposed into Ell signed digits,
// and ksk's corresponding rows are subtracted off, starting from a
// body-only ciphertext.
func (ct *Ciphertext) KeySwitch(ksk *KeySwitchingKey) *Ciphertext {
	p := params.Base.KeySwitch()
	out := &Ciphertext{Body: ct.Body}

	for i := 0; i < Dim; i++ {
		digits := gadget.DecomposeBalanced(ct.Mask[i], p, w)
		for g, d := range digits {
			// ksk row j carries weight 2^(w-(j+1)*logB); digit g from
			// DecomposeBalanced carries weight 2^(w-(Ell-g)*logB). The two
			// agree at j = Ell-1-g, the same row/digit reversal
			// ggsw.Evaluator.ExternalProduct applies (see its doc comment
			// and SPEC_FULL.md Open Question 2).
			j := ksk.ell - 1 - g
			row := &ksk.rows[i*ksk.ell+j]
			out.Body -= d * row.Body
			for k := range out.Mask {
				out.Mask[k] -= d * row.Mask[k]
			}
		}
	}

	return out
}

// MarshalBinary encodes ksk as an 8-byte little-endian Ell header
// followed by its rows, each Dim+1 little-endian uint64 words, in order.
func (ksk *KeySwitchingKey) MarshalBinary() ([]byte, error) {
	rowSize := 8 * (Dim + 1)
	buf := make([]byte, 8+len(ksk.rows)*rowSize)
	putUint64(buf, uint64(ksk.ell))
	for i := range ksk.rows {
		rowBuf, err := ksk.rows[i].MarshalBinary()
		if err != nil {
			return nil, err
		}
		copy(buf[8+i*rowSize:], rowBuf)
	}
	return buf, nil
}

// UnmarshalBinary decodes a buffer produced by MarshalBinary.
func (ksk *KeySwitchingKey) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return fmt.Errorf("lwe: KeySwitchingKey.UnmarshalBinary: buffer too short")
	}
	ell := int(getUint64(data))
	rowSize := 8 * (Dim + 1)
	want := 8 + Dim*ell*rowSize
	if len(data) != want {
		return fmt.Errorf("lwe: KeySwitchingKey.UnmarshalBinary: want %d bytes, got %d", want, len(data))
	}

	rows := make([]Ciphertext, Dim*ell)
	for i := range rows {
		if err := rows[i].UnmarshalBinary(data[8+i*rowSize : 8+(i+1)*rowSize]); err != nil {
			return err
		}
	}
	ksk.rows = rows
	ksk.ell = ell
	return nil
}

// MarshalBinary encodes ct as Dim+1 little-endian uint64 words: mask
// followed by body.
func (ct *Ciphertext) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 8*(Dim+1))
	for i, v := range ct.Mask {
		putUint64(buf[8*i:], v)
	}
	putUint64(buf[8*Dim:], ct.Body)
	return buf, nil
}

// UnmarshalBinary decodes a buffer produced by MarshalBinary.
func (ct *Ciphertext) UnmarshalBinary(data []byte) error {
	if len(data) != 8*(Dim+1) {
		return fmt.Errorf("lwe: Ciphertext.UnmarshalBinary: want %d bytes, got %d", 8*(Dim+1), len(data))
	}
	for i := range ct.Mask {
		ct.Mask[i] = getUint64(data[8*i:])
	}
	ct.Body = getUint64(data[8*Dim:])
	return nil
}

const w = 64

func log2N() int { return params.Base.LogN() + 1 }

func dot(mask [Dim]uint64, sk SecretKey) uint64 {
	var d uint64
	for i := range mask {
		d += mask[i] * sk.s[i]
	}
	return d
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
