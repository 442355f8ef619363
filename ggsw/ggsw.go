// Package ggsw implements the GGSW ciphertext, its external product with
// a GLWE ciphertext, and CMUX from spec §4.5 — the Go analogue of the
// teacher's rgsw.Ciphertext / rgsw.Evaluator.ExternalProduct, adapted
// from an RNS moduli chain to this module's single fixed modulus and
// grounded directly in spec.md's (k+1)*ell row layout (the scalar,
// per-coordinate "GSW" variant in original_source's gsw.rs is a
// different, simpler construction and is not what this package ports).
package ggsw

import (
	"fmt"

	"github.com/tremblaythibaultl/ttfhe/codec"
	"github.com/tremblaythibaultl/ttfhe/gadget"
	"github.com/tremblaythibaultl/ttfhe/glwe"
	"github.com/tremblaythibaultl/ttfhe/internal/workers"
	"github.com/tremblaythibaultl/ttfhe/params"
	"github.com/tremblaythibaultl/ttfhe/ring"
)

const w = 64

// Ciphertext is a GGSW encryption of a message: (k+1)*ell GLWE
// ciphertexts, each initially a fresh encryption of zero, with a
// multiple of the message added into one gadget-weighted position.
//
// Row i for i in [0, k*ell) belongs to mask component j=i/ell at gadget
// position p=i%ell; row i for i in [k*ell, (k+1)*ell) belongs to the
// body component, at gadget position p=i-k*ell. A row's gadget weight
// is 2^(w-(p+1)*logB) — the "row 0 = B^-1, row 1 = B^-2, ..." ordering
// the glossary's gadget vector g describes, with p=0 the largest weight.
type Ciphertext struct {
	Rows []glwe.Ciphertext
	k    int
	ell  int
}

// Encrypt returns a GGSW encryption of m under sk, using the
// external-product gadget profile params.Base.ExtProduct().
func Encrypt(m uint8, sk glwe.SecretKey, src *ring.Source) *Ciphertext {
	k := len(sk.Polys)
	ell := params.Base.ExtProduct().Ell
	logB := params.Base.ExtProduct().LogB

	rows := make([]glwe.Ciphertext, (k+1)*ell)
	for i := range rows {
		rows[i] = *glwe.NewCiphertext(0, sk, src)
	}

	for j := 0; j < k; j++ {
		for p := 0; p < ell; p++ {
			i := j*ell + p
			addend := uint64(m) << uint(w-(p+1)*logB)
			ring.AddConstantAssign(&rows[i].Mask[j], addend)
		}
	}
	for p := 0; p < ell; p++ {
		i := k*ell + p
		addend := uint64(m) << uint(w-(p+1)*logB)
		ring.AddConstantAssign(&rows[i].Body, addend)
	}

	return &Ciphertext{Rows: rows, k: k, ell: ell}
}

// MarshalBinary encodes ct as two 8-byte little-endian header words (k,
// ell) followed by its (k+1)*ell rows, each a glwe.Ciphertext.MarshalBinary
// encoding, in order.
func (ct *Ciphertext) MarshalBinary() ([]byte, error) {
	rowSize := 8 * ring.N * (ct.k + 1)
	buf := make([]byte, 16+len(ct.Rows)*rowSize)
	putUint64(buf, uint64(ct.k))
	putUint64(buf[8:], uint64(ct.ell))

	for i := range ct.Rows {
		rowBuf, err := ct.Rows[i].MarshalBinary()
		if err != nil {
			return nil, err
		}
		copy(buf[16+i*rowSize:], rowBuf)
	}
	return buf, nil
}

// UnmarshalBinary decodes a buffer produced by MarshalBinary.
func (ct *Ciphertext) UnmarshalBinary(data []byte) error {
	if len(data) < 16 {
		return fmt.Errorf("ggsw: Ciphertext.UnmarshalBinary: buffer too short")
	}
	k := int(getUint64(data))
	ell := int(getUint64(data[8:]))
	rowSize := 8 * ring.N * (k + 1)
	numRows := (k + 1) * ell
	want := 16 + numRows*rowSize
	if len(data) != want {
		return fmt.Errorf("ggsw: Ciphertext.UnmarshalBinary: want %d bytes, got %d", want, len(data))
	}

	rows := make([]glwe.Ciphertext, numRows)
	for i := range rows {
		rows[i] = glwe.Ciphertext{Mask: make([]ring.Poly, k)}
		if err := rows[i].UnmarshalBinary(data[16+i*rowSize : 16+(i+1)*rowSize]); err != nil {
			return err
		}
	}

	ct.Rows = rows
	ct.k = k
	ct.ell = ell
	return nil
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

// Decrypt is spec §8 property 8: it reads only the last row (component
// "body", gadget position ell-1), whose body carries
// m*2^(w-ell*logB) + noise, and decodes it with that shift instead of
// the default codec.Decode shift.
func (ct *Ciphertext) Decrypt(sk glwe.SecretKey) uint8 {
	last := ct.Rows[len(ct.Rows)-1]
	mu := last.Decrypt(sk)

	logB := params.Base.ExtProduct().LogB
	shift := w - ct.ell*logB
	return codec.DecodeWidth(mu, shift+codec.LogP)
}

// Evaluator performs the external product and CMUX, following spec
// §4.5. Its only state is the worker count set by NewEvaluator, which
// selects serial or parallel row accumulation (see SPEC_FULL.md §5);
// the parallel path allocates its scratch accumulators per call.
type Evaluator struct {
	workers int
}

// NewEvaluator returns an Evaluator. workers <= 1 runs
// ExternalProduct's row accumulation on the calling goroutine; workers > 1
// parallelizes it across an internal/workers.Pool of that many scratch
// accumulators.
func NewEvaluator(workers int) *Evaluator {
	if workers < 1 {
		workers = 1
	}
	return &Evaluator{workers: workers}
}

// ExternalProduct computes c ⊠ d, a GLWE encryption of m*mu where c
// encrypts m and d encrypts mu (spec §4.5):
//
//  1. Every coefficient of every mask polynomial and of the body of d is
//     gadget-decomposed (§4.2) into ell signed digits.
//  2. Those digits are assembled into (k+1)*ell polynomials G[0..(k+1)*ell)
//     — one polynomial per row — and the result is
//     Sum_i G[i] * c.Rows[i], componentwise over mask and body.
//
// A decomposition digit at array position g (gadget's own low-order-first
// convention, weight 2^(w-(ell-g)*logB)) is consumed by row position
// p = ell-1-g, whose weight 2^(w-(p+1)*logB) is identical — this is the
// digit-order reversal spec §4.2 flags as an implementation choice every
// call site must apply consistently; see SPEC_FULL.md Open Question 2.
func (eval *Evaluator) ExternalProduct(c *Ciphertext, d *glwe.Ciphertext) *glwe.Ciphertext {
	profile := params.Base.ExtProduct()
	ell := c.ell
	k := c.k

	g := make([]ring.Poly, (k+1)*ell)
	for j := 0; j < k; j++ {
		decomposeInto(g, j*ell, d.Mask[j], profile, ell)
	}
	decomposeInto(g, k*ell, d.Body, profile, ell)

	if eval.workers <= 1 {
		return accumulateRows(g, c.Rows, k)
	}
	return eval.accumulateRowsParallel(g, c.Rows, k)
}

// accumulator is one worker's exclusively-owned partial sum over a
// contiguous slice of rows — the scratch buffer SPEC_FULL.md §5 requires
// to stay exclusively owned by one goroutine for the duration of its task.
type accumulator struct {
	mask []ring.Poly
	body ring.Poly
}

// accumulateRows sums G[i]*rows[i] serially, on the calling goroutine.
// Every partial sum is folded in with AddAssign, matching spec §4.5's
// "all sums are add_assign".
func accumulateRows(g []ring.Poly, rows []glwe.Ciphertext, k int) *glwe.Ciphertext {
	out := &glwe.Ciphertext{Mask: make([]ring.Poly, k)}
	for i := range g {
		row := &rows[i]
		for j := 0; j < k; j++ {
			ring.AddAssign(&out.Mask[j], ring.Mul(g[i], row.Mask[j]))
		}
		ring.AddAssign(&out.Body, ring.Mul(g[i], row.Body))
	}
	return out
}

// accumulateRowsParallel splits the (k+1)*ell rows into eval.workers
// contiguous chunks, each accumulated on its own accumulator scratch
// buffer by an internal/workers.Pool, then combines the partial sums
// serially. This is the optional parallel gadget-row accumulation
// SPEC_FULL.md §5 permits.
func (eval *Evaluator) accumulateRowsParallel(g []ring.Poly, rows []glwe.Ciphertext, k int) *glwe.Ciphertext {
	n := len(g)
	chunks := eval.workers
	if chunks > n {
		chunks = n
	}

	scratch := make([]*accumulator, chunks)
	for i := range scratch {
		scratch[i] = &accumulator{mask: make([]ring.Poly, k)}
	}

	pool := workers.New(scratch)
	chunkSize := (n + chunks - 1) / chunks
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		start, end := start, end
		pool.Run(func(acc *accumulator) error {
			for i := start; i < end; i++ {
				row := &rows[i]
				for j := 0; j < k; j++ {
					ring.AddAssign(&acc.mask[j], ring.Mul(g[i], row.Mask[j]))
				}
				ring.AddAssign(&acc.body, ring.Mul(g[i], row.Body))
			}
			return nil
		})
	}
	_ = pool.Wait() // tasks here never return an error

	out := &glwe.Ciphertext{Mask: make([]ring.Poly, k)}
	for _, acc := range scratch {
		for j := 0; j < k; j++ {
			ring.AddAssign(&out.Mask[j], acc.mask[j])
		}
		ring.AddAssign(&out.Body, acc.body)
	}
	return out
}

// decomposeInto gadget-decomposes every coefficient of src and writes the
// ell resulting digit polynomials into g[base:base+ell], applying the
// row-order reversal documented on ExternalProduct.
func decomposeInto(g []ring.Poly, base int, src ring.Poly, profile gadget.Profile, ell int) {
	for n, v := range src {
		digits := gadget.DecomposeBalanced(v, profile, w)
		for gIdx, dv := range digits {
			p := ell - 1 - gIdx
			g[base+p][n] = dv
		}
	}
}

// CMUX computes CMUX(sel, d0, d1) = d0 + sel ⊠ (d1 - d0), a GLWE
// encryption of d1 if sel encrypts 1, or of d0 if sel encrypts 0
// (spec §4.5).
func (eval *Evaluator) CMUX(sel *Ciphertext, d0, d1 *glwe.Ciphertext) *glwe.Ciphertext {
	diff := d1.Sub(d0)
	prod := eval.ExternalProduct(sel, diff)
	return d0.Add(prod)
}
